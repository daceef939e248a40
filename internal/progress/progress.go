package progress

import (
	"sync"
	"time"
)

// Stage represents the current stage of a download run
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageResolving    Stage = "resolving"
	StageDownloading  Stage = "downloading"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage       Stage
	Progress    float64
	Message     string
	Timestamp   time.Time
	ItemDetails *ItemDetails
	Error       string
}

// ItemDetails describes the playlist entry that was just attempted
type ItemDetails struct {
	ItemNumber     int
	TotalItems     int
	CurrentItem    string
	ProcessedItems int
	Failed         bool
}

// ProgressTracker manages progress tracking
type ProgressTracker struct {
	mu          sync.RWMutex
	stage       Stage
	progress    float64
	message     string
	itemDetails *ItemDetails
	err         error
	listeners   []func(Event)
}

// NewProgressTracker creates a new ProgressTracker instance
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageInitializing,
		listeners: make([]func(Event), 0),
	}
}

// AddListener adds a new progress event listener
func (pt *ProgressTracker) AddListener(listener func(Event)) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.listeners = append(pt.listeners, listener)
}

// UpdateProgress updates the progress and notifies all listeners
func (pt *ProgressTracker) UpdateProgress(stage Stage, progress float64, message string) {
	pt.mu.Lock()
	pt.stage = stage
	pt.progress = progress
	pt.message = message
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// UpdateItemProgress records one attempted item and recomputes the overall
// percentage from processed/total.
func (pt *ProgressTracker) UpdateItemProgress(itemNumber, totalItems, processedItems int, currentItem string, failed bool) {
	pt.mu.Lock()
	pt.itemDetails = &ItemDetails{
		ItemNumber:     itemNumber,
		TotalItems:     totalItems,
		CurrentItem:    currentItem,
		ProcessedItems: processedItems,
		Failed:         failed,
	}
	if totalItems > 0 {
		pt.progress = float64(processedItems) / float64(totalItems) * 100
	}
	event := Event{
		Stage:       pt.stage,
		Progress:    pt.progress,
		Message:     pt.message,
		Timestamp:   time.Now(),
		ItemDetails: pt.itemDetails,
	}
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// SetError sets an error state and notifies all listeners
func (pt *ProgressTracker) SetError(err error) {
	pt.mu.Lock()
	pt.stage = StageError
	pt.err = err
	progress := pt.progress
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     StageError,
		Progress:  progress,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

// notifyListeners sends an event to all registered listeners. Listeners run
// without the lock held so they may call back into the tracker.
func (pt *ProgressTracker) notifyListeners(event Event) {
	pt.mu.RLock()
	listeners := make([]func(Event), len(pt.listeners))
	copy(listeners, pt.listeners)
	pt.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// GetCurrentState returns the current progress state
func (pt *ProgressTracker) GetCurrentState() Event {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	event := Event{
		Stage:       pt.stage,
		Progress:    pt.progress,
		Message:     pt.message,
		Timestamp:   time.Now(),
		ItemDetails: pt.itemDetails,
	}
	if pt.err != nil {
		event.Error = pt.err.Error()
	}
	return event
}
