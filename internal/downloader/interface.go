// Package downloader provides functionality for downloading videos and playlists
// from video hosting services into a local directory.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrResolve       = errors.New("failed to resolve")
	ErrNoStream      = errors.New("no matching stream")
	ErrTransfer      = errors.New("transfer failed")
	ErrPublish       = errors.New("publish failed")
	ErrEmptyPlaylist = errors.New("playlist has no videos")
)

// Source resolves remote identifiers and opens media streams.
type Source interface {
	// Video resolves a single video URL to its metadata and streams.
	Video(ctx context.Context, url string) (*Video, error)

	// PlaylistURLs returns the video URLs of a playlist in listed order.
	PlaylistURLs(ctx context.Context, url string) ([]string, error)

	// Open starts the transfer of one stream of video. The returned size is
	// -1 or 0 when the remote does not announce it.
	Open(ctx context.Context, video *Video, stream Stream) (io.ReadCloser, int64, error)
}

// Video is a resolved remote video.
type Video struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
	Streams  []Stream

	// handle is the client-specific value Open needs; nil for fakes.
	handle any
}

// Stream is one encoded rendition of a video.
type Stream struct {
	Itag          int
	MimeType      string
	QualityLabel  string
	Width         int
	Height        int
	Bitrate       int
	AudioChannels int
	ContentLength int64
}

// Progressive reports whether the stream carries both picture and sound.
func (s Stream) Progressive() bool {
	return s.AudioChannels > 0 && s.Width > 0 && s.Height > 0
}

func (s Stream) String() string {
	return fmt.Sprintf("itag=%d %s %dx%d %s", s.Itag, s.QualityLabel, s.Width, s.Height, s.MimeType)
}

// Result is the outcome of one video download. Title is the remote title as
// published; only the file name under Path is sanitized.
type Result struct {
	URL      string
	Title    string
	Path     string
	Location string
	Bytes    int64
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// CollectionResult is the outcome of a playlist download. Err is set when
// the playlist itself could not be processed; per-video failures live in Items.
type CollectionResult struct {
	PlaylistURL string
	Items       []Result
	Err         error
}

func (c CollectionResult) Succeeded() int {
	n := 0
	for _, item := range c.Items {
		if item.OK() {
			n++
		}
	}
	return n
}

func (c CollectionResult) Failed() int {
	return len(c.Items) - c.Succeeded()
}
