package downloader

import (
	"fmt"
	"strings"
)

const (
	QualityHighest = "highest"
	QualityLowest  = "lowest"
)

// Selector picks the stream to download among a video's streams.
type Selector interface {
	Select(streams []Stream) (Stream, error)
}

type qualitySelector struct {
	quality string
}

// NewSelector returns a selector for "highest", "lowest" or a quality label
// such as "720p". Only progressive streams are considered.
func NewSelector(quality string) Selector {
	quality = strings.ToLower(strings.TrimSpace(quality))
	if quality == "" {
		quality = QualityHighest
	}
	return &qualitySelector{quality: quality}
}

func (q *qualitySelector) Select(streams []Stream) (Stream, error) {
	var best Stream
	found := false

	for _, s := range streams {
		if !s.Progressive() {
			continue
		}
		switch q.quality {
		case QualityHighest:
			if !found || s.Height > best.Height || (s.Height == best.Height && s.Bitrate > best.Bitrate) {
				best, found = s, true
			}
		case QualityLowest:
			if !found || s.Height < best.Height || (s.Height == best.Height && s.Bitrate < best.Bitrate) {
				best, found = s, true
			}
		default:
			// "720p" matches "720p" and "720p60"
			if !strings.HasPrefix(strings.ToLower(s.QualityLabel), q.quality) {
				continue
			}
			if !found || s.Bitrate > best.Bitrate {
				best, found = s, true
			}
		}
	}

	if !found {
		return Stream{}, fmt.Errorf("%w: quality %q among %d streams", ErrNoStream, q.quality, len(streams))
	}
	return best, nil
}
