package media

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFFMPEGEngine(t *testing.T) {
	engine := NewFFMPEGEngine()
	assert.NotNil(t, engine)
	assert.Equal(t, "ffmpeg", engine.binary)
	assert.Equal(t, defaultProbeTimeout, engine.probeTimeout)

	engine = NewFFMPEGEngine(WithBinary("/opt/ffmpeg/bin/ffmpeg"), WithProbeTimeout(0))
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", engine.binary)
	assert.Equal(t, defaultProbeTimeout, engine.probeTimeout)
}

func TestValidateFile(t *testing.T) {
	engine := NewFFMPEGEngine()
	tempDir := t.TempDir()

	empty := filepath.Join(tempDir, "empty.mp4")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	full := filepath.Join(tempDir, "full.mp4")
	require.NoError(t, os.WriteFile(full, []byte("data"), 0644))

	assert.ErrorIs(t, engine.validateFile(filepath.Join(tempDir, "missing.mp4")), ErrFileNotFound)
	assert.ErrorIs(t, engine.validateFile(tempDir), ErrInvalidPath)
	assert.ErrorIs(t, engine.validateFile(empty), ErrFileEmpty)
	assert.NoError(t, engine.validateFile(full))
}

func TestFFmpegErrorTruncatesCommand(t *testing.T) {
	cmd := exec.Command("ffmpeg", "-i", strings.Repeat("a", 300))
	wrapped := errors.New("exit status 1")

	err := newFFmpegError(cmd, []byte("boom"), wrapped)

	assert.ErrorIs(t, err, wrapped)
	assert.Contains(t, err.Error(), "...")
	assert.Contains(t, err.Error(), "Output: boom")
}

func TestComposeArgs(t *testing.T) {
	args := strings.Join(composeStream(ComposeParams{
		ImagePath:  "image.jpg",
		AudioPath:  "audio.mp3",
		OutputPath: "output.mp4",
		Duration:   10,
		Encoding:   Encoding{VideoCodec: "libx264", AudioCodec: "aac", FPS: 24},
	}, "yuv420p").GetArgs(), " ")

	assert.Contains(t, args, "-loop 1")
	assert.Contains(t, args, "-pix_fmt yuv420p")
	assert.Contains(t, args, "-i image.jpg")
	assert.Contains(t, args, "-i audio.mp3")
	assert.Contains(t, args, "-t 10.000")
	assert.Contains(t, args, "-af apad")
	assert.Contains(t, args, "-r 24")
	assert.Contains(t, args, "-c:v libx264")
	assert.Contains(t, args, "-c:a aac")
	assert.True(t, strings.HasSuffix(args, "output.mp4"))
}

func TestExtractAudioArgs(t *testing.T) {
	testCases := []struct {
		name           string
		output         string
		expectedCodec  string
		expectedFormat string
	}{
		{name: "MP3 Format", output: "out.mp3", expectedCodec: "libmp3lame", expectedFormat: "mp3"},
		{name: "M4A Format", output: "out.m4a", expectedCodec: "aac", expectedFormat: "mp4"},
		{name: "WAV Format", output: "out.WAV", expectedCodec: "pcm_s16le", expectedFormat: "wav"},
		{name: "FLAC Format", output: "out.flac", expectedCodec: "flac", expectedFormat: "flac"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := extractAudioStream(ExtractAudioParams{InputPath: "in.mp4", OutputPath: tc.output})
			require.NoError(t, err)

			args := strings.Join(stream.GetArgs(), " ")
			assert.Contains(t, args, "-map 0:a:0")
			assert.Contains(t, args, "-c:a "+tc.expectedCodec)
			assert.Contains(t, args, "-f "+tc.expectedFormat)
		})
	}

}

func TestExtractAudioArgsWithoutKnownExtension(t *testing.T) {
	testCases := []struct {
		name     string
		output   string
		format   string
		expected []string
		absent   string
	}{
		{name: "mkv container", output: "out.mkv", format: "mp3", expected: []string{"-map 0:a:0", "-c:a aac"}, absent: "-f "},
		{name: "mov container", output: "out.mov", format: "mp3", expected: []string{"-c:a aac"}, absent: "-f "},
		{name: "same extension as the input", output: "out.mp4", format: "mp3", expected: []string{"-c:a aac"}, absent: "-f "},
		{name: "no extension uses format", output: "out", format: "mp3", expected: []string{"-c:a libmp3lame", "-f mp3"}},
		{name: "no extension with unlisted format", output: "out", format: ".opus", expected: []string{"-c:a aac", "-f opus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := extractAudioStream(ExtractAudioParams{InputPath: "in.mp4", OutputPath: tc.output, AudioCodec: "aac", Format: tc.format})
			require.NoError(t, err)

			args := strings.Join(stream.GetArgs(), " ")
			for _, want := range tc.expected {
				assert.Contains(t, args, want)
			}
			if tc.absent != "" {
				assert.NotContains(t, args, tc.absent)
			}
			assert.True(t, strings.HasSuffix(args, tc.output))
		})
	}

	_, err := extractAudioStream(ExtractAudioParams{InputPath: "in.mp4", OutputPath: "out"})
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestPixelFormat(t *testing.T) {
	assert.Equal(t, "yuv420p", pixelFormat(640, 360))
	assert.Equal(t, "yuv444p", pixelFormat(321, 181))
	assert.Equal(t, "yuv444p", pixelFormat(641, 480))
	assert.Equal(t, "yuv444p", pixelFormat(640, 361))
}

func TestTrimArgs(t *testing.T) {
	args := strings.Join(trimStream(TrimParams{
		InputPath:  "input.mp4",
		OutputPath: "output.mp4",
		Start:      2,
		End:        7.5,
	}).GetArgs(), " ")

	assert.Contains(t, args, "-ss 2.000")
	assert.Contains(t, args, "-t 5.500")
	assert.Contains(t, args, "-c:v copy")
	assert.Contains(t, args, "-c:a copy")
}

func TestLoopArgs(t *testing.T) {
	args := strings.Join(loopStream(LoopParams{
		VideoPath:  "input.mp4",
		AudioPath:  "audio.mp3",
		OutputPath: "output.mp4",
		Repeats:    3,
		Duration:   25,
		Encoding:   Encoding{VideoCodec: "libx264", AudioCodec: "aac"},
	}).GetArgs(), " ")

	assert.Contains(t, args, "-stream_loop 2")
	assert.NotContains(t, args, "-pix_fmt")
	assert.Contains(t, args, "-t 25.000")
	assert.Contains(t, args, "-c:v libx264")
	assert.Contains(t, args, "-c:a aac")
}

func TestScaleArgs(t *testing.T) {
	args := strings.Join(scaleStream(ScaleParams{
		InputPath:    "input.mp4",
		OutputPath:   "output.mp4",
		Width:        640,
		Height:       360,
		IncludeAudio: true,
		Encoding:     Encoding{VideoCodec: "libx264", AudioCodec: "aac", VideoBitrate: "1000k"},
	}).GetArgs(), " ")

	assert.Contains(t, args, "scale=640:360")
	assert.Contains(t, args, "-b:v 1000k")
	assert.Contains(t, args, "-pix_fmt yuv420p")
	assert.Contains(t, args, "0:a")

	args = strings.Join(scaleStream(ScaleParams{
		InputPath:  "input.mp4",
		OutputPath: "output.mp4",
		Width:      321,
		Height:     181,
		Encoding:   Encoding{VideoCodec: "libx264"},
	}).GetArgs(), " ")

	assert.Contains(t, args, "scale=321:181")
	assert.Contains(t, args, "-pix_fmt yuv444p")
}

func TestLoopArgsKeepOddSourceEncodable(t *testing.T) {
	args := strings.Join(loopStream(LoopParams{
		VideoPath:  "input.mp4",
		AudioPath:  "audio.mp3",
		OutputPath: "output.mp4",
		Repeats:    1,
		Duration:   5,
		Width:      641,
		Height:     480,
		Encoding:   Encoding{VideoCodec: "libx264"},
	}).GetArgs(), " ")

	assert.Contains(t, args, "-pix_fmt yuv444p")
}

func TestParameterValidation(t *testing.T) {
	engine := NewFFMPEGEngine()
	ctx := context.Background()
	tempDir := t.TempDir()

	media := filepath.Join(tempDir, "media.bin")
	require.NoError(t, os.WriteFile(media, []byte("data"), 0644))

	err := engine.Compose(ctx, ComposeParams{ImagePath: media, AudioPath: media, OutputPath: "out.mp4", Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	err = engine.Compose(ctx, ComposeParams{ImagePath: "missing.jpg", AudioPath: media, OutputPath: "out.mp4", Duration: 3})
	assert.ErrorIs(t, err, ErrFileNotFound)

	err = engine.Loop(ctx, LoopParams{VideoPath: media, AudioPath: media, OutputPath: "out.mp4", Repeats: 0, Duration: 3})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	err = engine.Scale(ctx, ScaleParams{InputPath: media, OutputPath: "out.mp4", Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = engine.Probe(ctx, filepath.Join(tempDir, "missing.mp4"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}
