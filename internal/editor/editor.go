// Package editor implements an editing session over a single input and
// output file.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaki95/media-toolkit/internal/media"
)

var (
	ErrNoVideoStream = fmt.Errorf("no video stream")
	ErrEmptyVideo    = fmt.Errorf("video has zero duration")
)

// Session is the pair of files an Editor works on.
type Session struct {
	InputPath  string
	OutputPath string
}

type Editor struct {
	session Session
	engine  media.Engine
	opts    Options
}

func New(inputPath, outputPath string, engine media.Engine, opts Options) *Editor {
	return &Editor{
		session: Session{InputPath: inputPath, OutputPath: outputPath},
		engine:  engine,
		opts:    opts,
	}
}

func (e *Editor) Session() Session {
	return e.session
}

// Compose writes a video showing imagePath for duration seconds with
// audioPath as its sound track, cut or padded to the same duration.
func (e *Editor) Compose(ctx context.Context, imagePath, audioPath string, duration float64) error {
	enc := e.opts.encoding()
	enc.FPS = e.opts.FPS

	err := e.engine.Compose(ctx, media.ComposeParams{
		ImagePath:  imagePath,
		AudioPath:  audioPath,
		OutputPath: e.session.OutputPath,
		Duration:   duration,
		Encoding:   enc,
	})
	if err != nil {
		return fmt.Errorf("create video with audio: %w", err)
	}

	slog.Info("Video created successfully", "output", e.session.OutputPath)
	return nil
}

// ExtractAudio writes the input's audio track next to the output path and
// returns where it was written.
func (e *Editor) ExtractAudio(ctx context.Context) (string, error) {
	info, err := e.engine.Probe(ctx, e.session.InputPath)
	if err != nil {
		return "", fmt.Errorf("convert video to audio: %w", err)
	}
	if !info.HasAudio {
		return "", fmt.Errorf("convert video to audio: %w: %s", media.ErrNoAudioStream, e.session.InputPath)
	}

	audioPath := e.opts.audioOutputPath(e.session.OutputPath)
	err = e.engine.ExtractAudio(ctx, media.ExtractAudioParams{
		InputPath:  e.session.InputPath,
		OutputPath: audioPath,
		AudioCodec: e.opts.AudioCodec,
		Format:     strings.TrimPrefix(e.opts.AudioExtension, "."),
	})
	if err != nil {
		return "", fmt.Errorf("convert video to audio: %w", err)
	}

	slog.Info("Video converted to audio successfully", "output", audioPath)
	return audioPath, nil
}

// Trim cuts [start, end) seconds out of the input without re-encoding.
// Out-of-range bounds are left for ffmpeg to reject.
func (e *Editor) Trim(ctx context.Context, start, end float64) error {
	err := e.engine.Trim(ctx, media.TrimParams{
		InputPath:  e.session.InputPath,
		OutputPath: e.session.OutputPath,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return fmt.Errorf("trim video: %w", err)
	}

	slog.Info("Video trimmed successfully", "output", e.session.OutputPath, "start", start, "end", end)
	return nil
}

// OverlayAudioLooped repeats the input video until it covers audioPath, cuts
// it at the audio's duration and uses audioPath as the sound track.
func (e *Editor) OverlayAudioLooped(ctx context.Context, audioPath string) error {
	video, err := e.engine.Probe(ctx, e.session.InputPath)
	if err != nil {
		return fmt.Errorf("add audio to video: %w", err)
	}
	if video.Duration <= 0 {
		return fmt.Errorf("add audio to video: %w: %s", ErrEmptyVideo, e.session.InputPath)
	}

	audio, err := e.engine.Probe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("add audio to video: %w", err)
	}

	repeats := loopCount(audio.Duration, video.Duration)
	slog.Debug("Looping video", "video_duration", video.Duration, "audio_duration", audio.Duration, "repeats", repeats)

	err = e.engine.Loop(ctx, media.LoopParams{
		VideoPath:  e.session.InputPath,
		AudioPath:  audioPath,
		OutputPath: e.session.OutputPath,
		Repeats:    repeats,
		Duration:   audio.Duration,
		Width:      video.Width,
		Height:     video.Height,
		Encoding:   e.opts.encoding(),
	})
	if err != nil {
		return fmt.Errorf("add audio to video: %w", err)
	}

	slog.Info("Audio added to video successfully", "output", e.session.OutputPath)
	return nil
}

// Shrink halves the input's resolution and re-encodes it at targetBitrate
// (an ffmpeg bitrate string such as "1000k").
func (e *Editor) Shrink(ctx context.Context, targetBitrate string) error {
	info, err := e.engine.Probe(ctx, e.session.InputPath)
	if err != nil {
		return fmt.Errorf("reduce video size: %w", err)
	}
	if !info.HasVideo {
		return fmt.Errorf("reduce video size: %w: %s", ErrNoVideoStream, e.session.InputPath)
	}

	width, height := halfDimensions(info.Width, info.Height)
	enc := e.opts.encoding()
	enc.VideoBitrate = targetBitrate

	err = e.engine.Scale(ctx, media.ScaleParams{
		InputPath:    e.session.InputPath,
		OutputPath:   e.session.OutputPath,
		Width:        width,
		Height:       height,
		IncludeAudio: info.HasAudio,
		Encoding:     enc,
	})
	if err != nil {
		return fmt.Errorf("reduce video size: %w", err)
	}

	slog.Info("Video compression complete", "output", e.session.OutputPath, "width", width, "height", height, "bitrate", targetBitrate)
	return nil
}
