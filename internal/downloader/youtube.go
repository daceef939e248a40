package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

const defaultRequestTimeout = 30 * time.Minute

// YouTubeSource resolves and streams YouTube videos and playlists.
type YouTubeSource struct {
	client *youtube.Client
}

func NewYouTubeSource(userAgent string) *YouTubeSource {
	httpClient := &http.Client{Timeout: defaultRequestTimeout}
	if userAgent != "" {
		httpClient.Transport = &userAgentTransport{userAgent: userAgent, next: http.DefaultTransport}
	}
	return &YouTubeSource{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

// SupportsURL checks if the URL points at YouTube
func (s *YouTubeSource) SupportsURL(rawURL string) bool {
	return isYouTubeURL(rawURL)
}

func (s *YouTubeSource) Video(ctx context.Context, videoURL string) (*Video, error) {
	slog.Debug("Resolving YouTube video", "url", videoURL)

	v, err := s.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	video := &Video{
		ID:       v.ID,
		Title:    v.Title,
		Author:   v.Author,
		Duration: v.Duration,
		Streams:  make([]Stream, 0, len(v.Formats)),
		handle:   v,
	}
	for _, f := range v.Formats {
		video.Streams = append(video.Streams, Stream{
			Itag:          f.ItagNo,
			MimeType:      f.MimeType,
			QualityLabel:  f.QualityLabel,
			Width:         f.Width,
			Height:        f.Height,
			Bitrate:       f.Bitrate,
			AudioChannels: f.AudioChannels,
			ContentLength: f.ContentLength,
		})
	}

	return video, nil
}

func (s *YouTubeSource) PlaylistURLs(ctx context.Context, playlistURL string) ([]string, error) {
	slog.Debug("Resolving YouTube playlist", "url", playlistURL)

	playlist, err := s.client.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		urls = append(urls, watchURL(entry.ID))
	}

	slog.Debug("Resolved YouTube playlist", "title", playlist.Title, "videos", len(urls))
	return urls, nil
}

func (s *YouTubeSource) Open(ctx context.Context, video *Video, stream Stream) (io.ReadCloser, int64, error) {
	v, ok := video.handle.(*youtube.Video)
	if !ok || v == nil {
		return nil, 0, fmt.Errorf("video %s was not resolved by the YouTube source", video.ID)
	}

	formats := v.Formats.Itag(stream.Itag)
	if len(formats) == 0 {
		return nil, 0, fmt.Errorf("%w: itag %d", ErrNoStream, stream.Itag)
	}

	return s.client.GetStreamContext(ctx, v, &formats[0])
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func isYouTubeURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be", "youtube-nocookie.com":
		return true
	}
	return false
}

// IsPlaylistURL reports whether rawURL names a YouTube playlist rather than
// a single video.
func IsPlaylistURL(rawURL string) bool {
	if !isYouTubeURL(rawURL) {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Get("list") != "" && u.Query().Get("v") == ""
}

// videoIDFromLink extracts the video id from a YouTube watch, short or embed
// link. Links to other hosts are rejected.
func videoIDFromLink(link string) (string, bool) {
	if !isYouTubeURL(link) {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}

	var candidate string
	switch {
	case strings.EqualFold(u.Hostname(), "youtu.be"):
		candidate = strings.Trim(u.Path, "/")
	case u.Path == "/watch":
		candidate = u.Query().Get("v")
	case strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/embed/"):
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 {
			candidate = parts[1]
		}
	}
	if candidate == "" {
		return "", false
	}

	id, err := youtube.ExtractVideoID(candidate)
	if err != nil {
		return "", false
	}
	return id, true
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}
