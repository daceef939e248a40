// Package media provides functionality for editing video and audio files using FFmpeg.
// It includes features for composing a still image with an audio track, extracting
// audio, trimming, looping a video under an audio track and downscaling.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ffgo "github.com/u2takey/ffmpeg-go"
)

// Supported audio file extensions and their corresponding FFmpeg codecs and formats
var (
	supportedExtensions = map[string]struct {
		codec  string
		format string
	}{
		"mp3":  {"libmp3lame", "mp3"},
		"m4a":  {"aac", "mp4"},
		"aac":  {"aac", "adts"},
		"wav":  {"pcm_s16le", "wav"},
		"flac": {"flac", "flac"},
		"ogg":  {"libvorbis", "ogg"},
	}

	defaultProbeTimeout = 30 * time.Second
)

var (
	ErrFileNotFound      = fmt.Errorf("file not found")
	ErrFileEmpty         = fmt.Errorf("file is empty")
	ErrInvalidPath       = fmt.Errorf("invalid path")
	ErrInvalidExtension  = fmt.Errorf("invalid file extension")
	ErrInvalidDuration   = fmt.Errorf("invalid duration")
	ErrInvalidDimensions = fmt.Errorf("invalid dimensions")
	ErrNoStreams         = fmt.Errorf("no streams found")
	ErrNoAudioStream     = fmt.Errorf("no audio stream")
)

// ffmpegError wraps FFmpeg command errors with additional context
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %s\nCommand: %s\nOutput: %s", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

// newFFmpegError creates a new ffmpegError with truncated command output
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  string(output),
		wrapped: err,
	}
}

type ffmpeg struct {
	binary       string
	probeTimeout time.Duration
}

type Option func(*ffmpeg)

// WithBinary sets the ffmpeg executable used to run commands.
func WithBinary(path string) Option {
	return func(f *ffmpeg) {
		if path != "" {
			f.binary = path
		}
	}
}

// WithProbeTimeout bounds every ffprobe call.
func WithProbeTimeout(d time.Duration) Option {
	return func(f *ffmpeg) {
		if d > 0 {
			f.probeTimeout = d
		}
	}
}

func NewFFMPEGEngine(opts ...Option) *ffmpeg {
	f := &ffmpeg{
		binary:       "ffmpeg",
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ffmpeg) validateFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, path)
	}

	return nil
}

// Probe reads duration, dimensions and stream layout of the file at path.
func (f *ffmpeg) Probe(ctx context.Context, path string) (*Info, error) {
	if err := f.validateFile(path); err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}

	timeout := f.probeTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("Probing media file", "path", path, "timeout", timeout)

	data, err := ffgo.ProbeWithTimeout(path, timeout, ffgo.KwArgs{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	info, err := parseProbe(data)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return info, nil
}

// Compose renders a still image for p.Duration seconds with p.AudioPath as
// its sound. Shorter audio is padded with silence, longer audio is cut.
func (f *ffmpeg) Compose(ctx context.Context, p ComposeParams) error {
	slog.Debug("Composing image and audio", "image", p.ImagePath, "audio", p.AudioPath, "output", p.OutputPath, "duration", p.Duration)

	if err := f.validateFile(p.ImagePath); err != nil {
		return fmt.Errorf("compose failed: %w", err)
	}
	if err := f.validateFile(p.AudioPath); err != nil {
		return fmt.Errorf("compose failed: %w", err)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, p.Duration)
	}

	image, err := f.Probe(ctx, p.ImagePath)
	if err != nil {
		return fmt.Errorf("compose failed: %w", err)
	}

	return f.run(ctx, composeStream(p, pixelFormat(image.Width, image.Height)))
}

// ExtractAudio writes the first audio stream of p.InputPath to p.OutputPath,
// encoded according to the output extension.
func (f *ffmpeg) ExtractAudio(ctx context.Context, p ExtractAudioParams) error {
	slog.Debug("Extracting audio", "input", p.InputPath, "output", p.OutputPath)

	if err := f.validateFile(p.InputPath); err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	stream, err := extractAudioStream(p)
	if err != nil {
		return err
	}

	return f.run(ctx, stream)
}

// Trim copies the [p.Start, p.End) range of p.InputPath without re-encoding.
func (f *ffmpeg) Trim(ctx context.Context, p TrimParams) error {
	slog.Debug("Trimming video",
		"input", p.InputPath,
		"output", p.OutputPath,
		"start", formatSeconds(p.Start),
		"end", formatSeconds(p.End),
	)

	if err := f.validateFile(p.InputPath); err != nil {
		return fmt.Errorf("trim failed: %w", err)
	}

	return f.run(ctx, trimStream(p))
}

func (f *ffmpeg) Loop(ctx context.Context, p LoopParams) error {
	slog.Debug("Looping video under audio",
		"video", p.VideoPath,
		"audio", p.AudioPath,
		"output", p.OutputPath,
		"repeats", p.Repeats,
		"duration", formatSeconds(p.Duration),
	)

	if err := f.validateFile(p.VideoPath); err != nil {
		return fmt.Errorf("loop failed: %w", err)
	}
	if err := f.validateFile(p.AudioPath); err != nil {
		return fmt.Errorf("loop failed: %w", err)
	}
	if p.Repeats < 1 || p.Duration <= 0 {
		return fmt.Errorf("%w: %d repeats, %v seconds", ErrInvalidDuration, p.Repeats, p.Duration)
	}

	return f.run(ctx, loopStream(p))
}

func (f *ffmpeg) Scale(ctx context.Context, p ScaleParams) error {
	slog.Debug("Scaling video",
		"input", p.InputPath,
		"output", p.OutputPath,
		"width", p.Width,
		"height", p.Height,
		"bitrate", p.Encoding.VideoBitrate,
	)

	if err := f.validateFile(p.InputPath); err != nil {
		return fmt.Errorf("scale failed: %w", err)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}

	return f.run(ctx, scaleStream(p))
}

func (f *ffmpeg) run(ctx context.Context, stream *ffgo.Stream) error {
	args := stream.OverWriteOutput().GetArgs()

	cmd := exec.CommandContext(ctx, f.binary, args...)
	slog.Debug("Running ffmpeg", "command", cmd.String())

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}

	return nil
}

// pixelFormat picks the output pixel format for a frame size. 4:2:0 chroma
// needs even dimensions, odd sizes fall back to 4:4:4.
func pixelFormat(width, height int) string {
	if width%2 == 0 && height%2 == 0 {
		return "yuv420p"
	}
	return "yuv444p"
}

func composeStream(p ComposeParams, pixFmt string) *ffgo.Stream {
	duration := formatSeconds(p.Duration)
	image := ffgo.Input(p.ImagePath, ffgo.KwArgs{"loop": "1", "t": duration})
	audio := ffgo.Input(p.AudioPath)

	return ffgo.Output([]*ffgo.Stream{image.Video(), audio.Audio()}, p.OutputPath, withEncoding(ffgo.KwArgs{
		"t":       duration,
		"af":      "apad",
		"pix_fmt": pixFmt,
	}, p.Encoding))
}

func extractAudioStream(p ExtractAudioParams) (*ffgo.Stream, error) {
	kwargs := ffgo.KwArgs{"map": "0:a:0"}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.OutputPath), "."))
	codecInfo, known := supportedExtensions[ext]
	switch {
	case known:
		kwargs["c:a"] = codecInfo.codec
		kwargs["f"] = codecInfo.format
	case ext == "":
		// no extension for ffmpeg to guess the container from
		format := strings.ToLower(strings.TrimPrefix(p.Format, "."))
		if format == "" {
			return nil, fmt.Errorf("%w: %s has no extension and no format was given", ErrInvalidExtension, p.OutputPath)
		}
		if fc, ok := supportedExtensions[format]; ok {
			kwargs["c:a"] = fc.codec
			kwargs["f"] = fc.format
		} else {
			kwargs["f"] = format
			if p.AudioCodec != "" {
				kwargs["c:a"] = p.AudioCodec
			}
		}
	default:
		if p.AudioCodec != "" {
			kwargs["c:a"] = p.AudioCodec
		}
	}

	return ffgo.Input(p.InputPath).Output(p.OutputPath, kwargs), nil
}

func trimStream(p TrimParams) *ffgo.Stream {
	return ffgo.Input(p.InputPath, ffgo.KwArgs{"ss": formatSeconds(p.Start)}).
		Output(p.OutputPath, ffgo.KwArgs{
			"t":   formatSeconds(p.End - p.Start),
			"map": "0",
			"c:v": "copy",
			"c:a": "copy",
		})
}

func loopStream(p LoopParams) *ffgo.Stream {
	// -stream_loop counts additional plays.
	video := ffgo.Input(p.VideoPath, ffgo.KwArgs{"stream_loop": fmt.Sprintf("%d", p.Repeats-1)})
	audio := ffgo.Input(p.AudioPath)

	kwargs := ffgo.KwArgs{"t": formatSeconds(p.Duration)}
	if p.Width > 0 && p.Height > 0 {
		kwargs["pix_fmt"] = pixelFormat(p.Width, p.Height)
	}

	return ffgo.Output([]*ffgo.Stream{video.Video(), audio.Audio()}, p.OutputPath, withEncoding(kwargs, p.Encoding))
}

func scaleStream(p ScaleParams) *ffgo.Stream {
	input := ffgo.Input(p.InputPath)
	streams := []*ffgo.Stream{
		input.Video().Filter("scale", ffgo.Args{fmt.Sprintf("%d:%d", p.Width, p.Height)}),
	}
	if p.IncludeAudio {
		streams = append(streams, input.Audio())
	}

	return ffgo.Output(streams, p.OutputPath, withEncoding(ffgo.KwArgs{
		"pix_fmt": pixelFormat(p.Width, p.Height),
	}, p.Encoding))
}

func withEncoding(kwargs ffgo.KwArgs, enc Encoding) ffgo.KwArgs {
	if enc.VideoCodec != "" {
		kwargs["c:v"] = enc.VideoCodec
	}
	if enc.AudioCodec != "" {
		kwargs["c:a"] = enc.AudioCodec
	}
	if enc.VideoBitrate != "" {
		kwargs["b:v"] = enc.VideoBitrate
	}
	if enc.FPS > 0 {
		kwargs["r"] = fmt.Sprintf("%d", enc.FPS)
	}
	return kwargs
}
