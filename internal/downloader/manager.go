package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/media-toolkit/internal/progress"
	"github.com/jaki95/media-toolkit/internal/storage"
)

// Manager downloads videos and playlists into one output directory. Calls
// are sequential; a Manager is not meant to be shared between goroutines.
type Manager struct {
	outputDir      string
	source         Source
	selector       Selector
	store          storage.Storage
	tracker        *progress.ProgressTracker
	progressWriter io.Writer
}

type Option func(*Manager)

func WithSelector(s Selector) Option {
	return func(m *Manager) { m.selector = s }
}

func WithStorage(s storage.Storage) Option {
	return func(m *Manager) { m.store = s }
}

func WithTracker(t *progress.ProgressTracker) Option {
	return func(m *Manager) { m.tracker = t }
}

// WithProgressWriter sets where the playlist progress bar is drawn.
func WithProgressWriter(w io.Writer) Option {
	return func(m *Manager) { m.progressWriter = w }
}

// NewManager creates outputDir (with parents) and returns a Manager writing into it.
func NewManager(outputDir string, source Source, opts ...Option) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir:      outputDir,
		source:         source,
		selector:       NewSelector(QualityHighest),
		store:          storage.NewLocalFileStorage(),
		tracker:        progress.NewProgressTracker(),
		progressWriter: ansi.NewAnsiStdout(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) OutputDir() string {
	return m.outputDir
}

// DownloadSingle downloads the selected stream of the video at url. It never
// fails the caller: the outcome, including any error, is in the Result.
func (m *Manager) DownloadSingle(ctx context.Context, url string) Result {
	result := m.downloadSingle(ctx, url)
	if result.Err != nil {
		slog.Error("An error occurred while downloading the video", "url", url, "error", result.Err)
		return result
	}

	slog.Info("Video downloaded successfully", "url", url, "title", result.Title, "location", result.Location, "bytes", result.Bytes)
	return result
}

func (m *Manager) downloadSingle(ctx context.Context, url string) Result {
	result := Result{URL: url}

	video, err := m.source.Video(ctx, url)
	if err != nil {
		result.Err = fmt.Errorf("%w %s: %w", ErrResolve, url, err)
		return result
	}
	result.Title = video.Title

	stream, err := m.selector.Select(video.Streams)
	if err != nil {
		result.Err = err
		return result
	}
	slog.Debug("Selected stream", "url", url, "stream", stream.String())

	path := filepath.Join(m.outputDir, fileName(video, stream))
	written, err := m.fetch(ctx, video, stream, path)
	result.Bytes = written
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrTransfer, err)
		return result
	}
	result.Path = path

	location, err := m.store.Publish(ctx, path)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrPublish, err)
		return result
	}
	if !m.store.Exists(ctx, location) {
		result.Err = fmt.Errorf("%w: nothing found at %s", ErrPublish, location)
		return result
	}
	result.Location = location

	return result
}

// fetch streams one rendition into path and removes the partial file on failure.
func (m *Manager) fetch(ctx context.Context, video *Video, stream Stream, path string) (int64, error) {
	body, size, err := m.source.Open(ctx, video, stream)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	written, err := io.Copy(out, body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && size > 0 && written != size {
		err = fmt.Errorf("short download: got %d of %d bytes", written, size)
	}
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			slog.Warn("Failed to remove partial download", "path", path, "error", removeErr)
		}
		return written, err
	}

	return written, nil
}

// DownloadCollection downloads every video of a playlist in listed order,
// one at a time, advancing the progress bar once per attempt whatever its
// outcome. Cancelling ctx stops before the next attempt.
func (m *Manager) DownloadCollection(ctx context.Context, playlistURL string) CollectionResult {
	result := CollectionResult{PlaylistURL: playlistURL}

	m.tracker.UpdateProgress(progress.StageResolving, 0, "Resolving playlist...")
	urls, err := m.source.PlaylistURLs(ctx, playlistURL)
	if err == nil && len(urls) == 0 {
		err = ErrEmptyPlaylist
	}
	if err != nil {
		result.Err = fmt.Errorf("%w playlist %s: %w", ErrResolve, playlistURL, err)
		m.tracker.SetError(result.Err)
		slog.Error("An error occurred while downloading the playlist", "url", playlistURL, "error", result.Err)
		return result
	}

	m.tracker.UpdateProgress(progress.StageDownloading, 0, fmt.Sprintf("Downloading %d videos...", len(urls)))
	bar := progressbar.NewOptions(
		len(urls),
		progressbar.OptionSetWriter(m.progressWriter),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("video"),
		progressbar.OptionSetDescription("[cyan]Downloading playlist...[reset]"),
	)

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			result.Err = err
			m.tracker.SetError(err)
			slog.Warn("Playlist download interrupted", "url", playlistURL, "attempted", i, "total", len(urls))
			return result
		}

		item := m.DownloadSingle(ctx, url)
		result.Items = append(result.Items, item)

		if err := bar.Add(1); err != nil {
			slog.Debug("Failed to render progress bar", "error", err)
		}
		m.tracker.UpdateItemProgress(i+1, len(urls), i+1, url, !item.OK())
	}

	m.tracker.UpdateProgress(progress.StageComplete, 100, "Playlist downloaded")
	slog.Info("Playlist downloaded", "url", playlistURL, "succeeded", result.Succeeded(), "failed", result.Failed())
	return result
}
