package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/media-toolkit/internal/media"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Probe(ctx context.Context, path string) (*media.Info, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*media.Info), args.Error(1)
}

func (m *MockEngine) Compose(ctx context.Context, p media.ComposeParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockEngine) ExtractAudio(ctx context.Context, p media.ExtractAudioParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockEngine) Trim(ctx context.Context, p media.TrimParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockEngine) Loop(ctx context.Context, p media.LoopParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockEngine) Scale(ctx context.Context, p media.ScaleParams) error {
	return m.Called(ctx, p).Error(0)
}

func newTestEditor(engine media.Engine) *Editor {
	return New("input.mp4", "output.mp4", engine, DefaultOptions())
}

func TestCompose(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Compose", ctx, media.ComposeParams{
		ImagePath:  "image.jpg",
		AudioPath:  "audio.mp3",
		OutputPath: "output.mp4",
		Duration:   10,
		Encoding:   media.Encoding{VideoCodec: "libx264", AudioCodec: "aac", FPS: 24},
	}).Return(nil)

	err := newTestEditor(engine).Compose(ctx, "image.jpg", "audio.mp3", 10)

	assert.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestComposePropagatesEngineError(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Compose", ctx, mock.Anything).Return(media.ErrInvalidDuration)

	err := newTestEditor(engine).Compose(ctx, "image.jpg", "audio.mp3", -1)

	assert.ErrorIs(t, err, media.ErrInvalidDuration)
}

func TestExtractAudio(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasVideo: true, HasAudio: true, Duration: 12}, nil)
	engine.On("ExtractAudio", ctx, media.ExtractAudioParams{
		InputPath:  "input.mp4",
		OutputPath: "output.mp3",
		AudioCodec: "aac",
		Format:     "mp3",
	}).Return(nil)

	path, err := newTestEditor(engine).ExtractAudio(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "output.mp3", path)
	engine.AssertExpectations(t)
}

func TestExtractAudioKeepsOutputWithoutVideoExtension(t *testing.T) {
	for _, output := range []string{"output.mkv", "output"} {
		t.Run(output, func(t *testing.T) {
			ctx := context.Background()
			engine := new(MockEngine)
			engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasVideo: true, HasAudio: true, Duration: 12}, nil)
			engine.On("ExtractAudio", ctx, media.ExtractAudioParams{
				InputPath:  "input.mp4",
				OutputPath: output,
				AudioCodec: "aac",
				Format:     "mp3",
			}).Return(nil)

			path, err := New("input.mp4", output, engine, DefaultOptions()).ExtractAudio(ctx)

			require.NoError(t, err)
			assert.Equal(t, output, path)
			engine.AssertExpectations(t)
		})
	}
}

func TestExtractAudioWithoutAudioTrack(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasVideo: true}, nil)

	path, err := newTestEditor(engine).ExtractAudio(ctx)

	assert.ErrorIs(t, err, media.ErrNoAudioStream)
	assert.Empty(t, path)
	engine.AssertNotCalled(t, "ExtractAudio", mock.Anything, mock.Anything)
}

func TestExtractAudioMissingInput(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Probe", ctx, "input.mp4").Return(nil, media.ErrFileNotFound)

	_, err := newTestEditor(engine).ExtractAudio(ctx)

	assert.ErrorIs(t, err, media.ErrFileNotFound)
}

func TestTrim(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Trim", ctx, media.TrimParams{
		InputPath:  "input.mp4",
		OutputPath: "output.mp4",
		Start:      DefaultTrimStart,
		End:        DefaultTrimEnd,
	}).Return(nil)

	err := newTestEditor(engine).Trim(ctx, DefaultTrimStart, DefaultTrimEnd)

	assert.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestTrimDoesNotValidateRange(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	toolErr := errors.New("exit status 1")
	engine.On("Trim", ctx, mock.MatchedBy(func(p media.TrimParams) bool {
		return p.Start == 20 && p.End == 10
	})).Return(toolErr)

	err := newTestEditor(engine).Trim(ctx, 20, 10)

	assert.ErrorIs(t, err, toolErr)
	engine.AssertExpectations(t)
}

func TestOverlayAudioLooped(t *testing.T) {
	tests := []struct {
		name            string
		videoDuration   float64
		audioDuration   float64
		expectedRepeats int
	}{
		{name: "audio shorter than video", videoDuration: 10, audioDuration: 4, expectedRepeats: 1},
		{name: "audio a little longer", videoDuration: 10, audioDuration: 25, expectedRepeats: 3},
		{name: "exact multiple", videoDuration: 10, audioDuration: 30, expectedRepeats: 4},
		{name: "much longer audio", videoDuration: 3, audioDuration: 600, expectedRepeats: 201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			engine := new(MockEngine)
			engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasVideo: true, Duration: tt.videoDuration, Width: 641, Height: 480}, nil)
			engine.On("Probe", ctx, "audio.mp3").Return(&media.Info{HasAudio: true, Duration: tt.audioDuration}, nil)
			engine.On("Loop", ctx, media.LoopParams{
				VideoPath:  "input.mp4",
				AudioPath:  "audio.mp3",
				OutputPath: "output.mp4",
				Repeats:    tt.expectedRepeats,
				Duration:   tt.audioDuration,
				Width:      641,
				Height:     480,
				Encoding:   media.Encoding{VideoCodec: "libx264", AudioCodec: "aac"},
			}).Return(nil)

			err := newTestEditor(engine).OverlayAudioLooped(ctx, "audio.mp3")

			require.NoError(t, err)
			engine.AssertExpectations(t)
		})
	}
}

func TestOverlayAudioLoopedEmptyVideo(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasVideo: true}, nil)

	err := newTestEditor(engine).OverlayAudioLooped(ctx, "audio.mp3")

	assert.ErrorIs(t, err, ErrEmptyVideo)
	engine.AssertNotCalled(t, "Loop", mock.Anything, mock.Anything)
}

func TestShrink(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		hasAudio       bool
		expectedWidth  int
		expectedHeight int
	}{
		{name: "even dimensions", width: 1920, height: 1080, hasAudio: true, expectedWidth: 960, expectedHeight: 540},
		{name: "odd dimensions", width: 1281, height: 721, hasAudio: false, expectedWidth: 640, expectedHeight: 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			engine := new(MockEngine)
			engine.On("Probe", ctx, "input.mp4").Return(&media.Info{
				HasVideo: true,
				HasAudio: tt.hasAudio,
				Width:    tt.width,
				Height:   tt.height,
			}, nil)
			engine.On("Scale", ctx, media.ScaleParams{
				InputPath:    "input.mp4",
				OutputPath:   "output.mp4",
				Width:        tt.expectedWidth,
				Height:       tt.expectedHeight,
				IncludeAudio: tt.hasAudio,
				Encoding:     media.Encoding{VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "1000k"},
			}).Return(nil)

			err := newTestEditor(engine).Shrink(ctx, "1000k")

			require.NoError(t, err)
			engine.AssertExpectations(t)
		})
	}
}

func TestShrinkWithoutVideo(t *testing.T) {
	ctx := context.Background()
	engine := new(MockEngine)
	engine.On("Probe", ctx, "input.mp4").Return(&media.Info{HasAudio: true}, nil)

	err := newTestEditor(engine).Shrink(ctx, "1000k")

	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestSession(t *testing.T) {
	e := New("in.mov", "out.mov", new(MockEngine), DefaultOptions())
	assert.Equal(t, Session{InputPath: "in.mov", OutputPath: "out.mov"}, e.Session())
}
