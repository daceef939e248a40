package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaki95/media-toolkit/config"
	"github.com/jaki95/media-toolkit/internal/editor"
	"github.com/jaki95/media-toolkit/internal/media"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	input := flag.String("input", "input.mp4", "Input video")
	output := flag.String("output", "output.mp4", "Output file")
	op := flag.String("op", "demo", "Operation: demo, compose, extract, trim, loop or shrink")
	image := flag.String("image", "image.jpg", "Still image for compose")
	audio := flag.String("audio", "audio.mp3", "Audio track for compose and loop")
	duration := flag.Float64("duration", 10, "Duration in seconds for compose")
	start := flag.String("start", "0", "Trim start (seconds, MM:SS or H:MM:SS)")
	end := flag.String("end", "5", "Trim end (seconds, MM:SS or H:MM:SS)")
	bitrate := flag.String("bitrate", "1000k", "Target video bitrate for shrink")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := media.NewFFMPEGEngine(
		media.WithBinary(cfg.Editor.FFmpegPath),
		media.WithProbeTimeout(cfg.Editor.ProbeTimeout),
	)
	ed := editor.New(*input, *output, engine, editor.OptionsFromConfig(cfg.Editor))

	switch *op {
	case "demo":
		// Each step is independent; a failing step does not stop the others.
		failed := false
		steps := []struct {
			name string
			run  func() error
		}{
			{"compose", func() error { return ed.Compose(ctx, *image, *audio, *duration) }},
			{"extract", func() error { _, err := ed.ExtractAudio(ctx); return err }},
			{"trim", func() error { return ed.Trim(ctx, editor.DefaultTrimStart, 20) }},
			{"loop", func() error { return ed.OverlayAudioLooped(ctx, *audio) }},
			{"shrink", func() error { return ed.Shrink(ctx, *bitrate) }},
		}
		for _, step := range steps {
			if ctx.Err() != nil {
				break
			}
			if err := step.run(); err != nil {
				slog.Error("Operation failed", "op", step.name, "error", err)
				failed = true
			}
		}
		if failed {
			return 1
		}
		return 0
	case "compose":
		err = ed.Compose(ctx, *image, *audio, *duration)
	case "extract":
		var path string
		path, err = ed.ExtractAudio(ctx)
		if err == nil {
			fmt.Println(path)
		}
	case "trim":
		var from, to float64
		if from, err = media.ParseTimestamp(*start); err != nil {
			break
		}
		if to, err = media.ParseTimestamp(*end); err != nil {
			break
		}
		err = ed.Trim(ctx, from, to)
	case "loop":
		err = ed.OverlayAudioLooped(ctx, *audio)
	case "shrink":
		err = ed.Shrink(ctx, *bitrate)
	default:
		flag.Usage()
		return 2
	}

	if err != nil {
		slog.Error("Operation failed", "op", *op, "error", err)
		return 1
	}
	return 0
}
