package editor

import (
	"path/filepath"
	"strings"

	"github.com/jaki95/media-toolkit/config"
	"github.com/jaki95/media-toolkit/internal/media"
)

const (
	DefaultTrimStart = 0.0
	DefaultTrimEnd   = 5.0

	// AudioPathSubstitute swaps the video extension substring for the audio
	// extension wherever it occurs in the output path.
	AudioPathSubstitute = "substitute"
	// AudioPathStem keeps the output path stem and appends the audio extension.
	AudioPathStem = "stem"
)

// Options holds the encoder settings shared by every editor operation.
type Options struct {
	FPS            int
	VideoCodec     string
	AudioCodec     string
	VideoExtension string
	AudioExtension string
	AudioPathMode  string
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Editor)
}

func OptionsFromConfig(cfg config.EditorConfig) Options {
	return Options{
		FPS:            cfg.FPS,
		VideoCodec:     cfg.VideoCodec,
		AudioCodec:     cfg.AudioCodec,
		VideoExtension: cfg.VideoExtension,
		AudioExtension: cfg.AudioExtension,
		AudioPathMode:  cfg.AudioPathMode,
	}
}

func (o Options) encoding() media.Encoding {
	return media.Encoding{
		VideoCodec: o.VideoCodec,
		AudioCodec: o.AudioCodec,
	}
}

// audioOutputPath derives where ExtractAudio writes its result. In
// substitute mode an output path without the video extension is returned
// unchanged.
func (o Options) audioOutputPath(outputPath string) string {
	if o.AudioPathMode == AudioPathStem {
		return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + o.AudioExtension
	}
	if o.VideoExtension == "" {
		return outputPath
	}
	return strings.ReplaceAll(outputPath, o.VideoExtension, o.AudioExtension)
}

// loopCount is the number of back-to-back plays of a video needed to cover
// an audio track: whole plays plus one.
func loopCount(audioDuration, videoDuration float64) int {
	return int(audioDuration/videoDuration) + 1
}

func halfDimensions(width, height int) (int, int) {
	return width / 2, height / 2
}
