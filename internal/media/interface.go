package media

import (
	"context"
)

// Engine performs single media transformations on files.
type Engine interface {
	Probe(ctx context.Context, path string) (*Info, error)
	Compose(ctx context.Context, p ComposeParams) error
	ExtractAudio(ctx context.Context, p ExtractAudioParams) error
	Trim(ctx context.Context, p TrimParams) error
	Loop(ctx context.Context, p LoopParams) error
	Scale(ctx context.Context, p ScaleParams) error
}

// Info describes a probed media file. Durations are in seconds.
type Info struct {
	Duration   float64
	Width      int
	Height     int
	HasVideo   bool
	HasAudio   bool
	VideoCodec string
	AudioCodec string
}

// Encoding holds the encoder settings applied to re-encoded outputs.
type Encoding struct {
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	FPS          int
}

type ComposeParams struct {
	ImagePath  string
	AudioPath  string
	OutputPath string
	Duration   float64
	Encoding   Encoding
}

// ExtractAudioParams describes an audio extraction. Known output extensions
// pick their own encoder; otherwise AudioCodec is used, and Format names the
// container when OutputPath has no extension at all.
type ExtractAudioParams struct {
	InputPath  string
	OutputPath string
	AudioCodec string
	Format     string
}

type TrimParams struct {
	InputPath  string
	OutputPath string
	Start      float64
	End        float64
}

// LoopParams plays VideoPath Repeats times in a row, cuts the result at
// Duration and replaces its sound with AudioPath. Width and Height are the
// source dimensions, zero when unknown.
type LoopParams struct {
	VideoPath  string
	AudioPath  string
	OutputPath string
	Repeats    int
	Duration   float64
	Width      int
	Height     int
	Encoding   Encoding
}

type ScaleParams struct {
	InputPath    string
	OutputPath   string
	Width        int
	Height       int
	IncludeAudio bool
	Encoding     Encoding
}
