package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jaki95/media-toolkit/config"
	"github.com/jaki95/media-toolkit/internal/downloader"
	"github.com/jaki95/media-toolkit/internal/progress"
	"github.com/jaki95/media-toolkit/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	videoURL := flag.String("url", "", "URL of a single video to download")
	playlistURL := flag.String("playlist", "", "URL of a playlist, or of a page linking videos")
	outputDir := flag.String("output", "", "Output directory (overrides the configuration)")

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

	if *outputDir != "" {
		cfg.Downloader.OutputDir = *outputDir
	}

	if *videoURL == "" && *playlistURL == "" {
		*videoURL, *playlistURL, err = prompt()
		if err != nil {
			fmt.Println(err)
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}()

	yt := downloader.NewYouTubeSource(cfg.Downloader.UserAgent)
	source := downloader.Source(yt)
	if *playlistURL != "" {
		source = downloader.GetSource(*playlistURL, yt, cfg.Downloader.UserAgent)
	}

	tracker := progress.NewProgressTracker()
	tracker.AddListener(logProgress)

	manager, err := downloader.NewManager(cfg.Downloader.OutputDir, source,
		downloader.WithSelector(downloader.NewSelector(cfg.Downloader.Quality)),
		downloader.WithStorage(store),
		downloader.WithTracker(tracker),
	)
	if err != nil {
		slog.Error("Failed to create downloader", "error", err)
		return 1
	}

	if *playlistURL != "" {
		result := manager.DownloadCollection(ctx, *playlistURL)
		fmt.Println()
		if result.Err != nil {
			fmt.Println("An error occurred while downloading the playlist:", result.Err)
		}
		for _, item := range result.Items {
			if item.OK() {
				fmt.Printf("  ok      %s -> %s\n", item.Title, item.Location)
			} else {
				fmt.Printf("  failed  %s: %v\n", item.URL, item.Err)
			}
		}
		state := tracker.GetCurrentState()
		fmt.Printf("%d downloaded, %d failed (%s, %.0f%%)\n", result.Succeeded(), result.Failed(), state.Stage, state.Progress)
		if result.Err != nil || result.Failed() > 0 {
			return 1
		}
		return 0
	}

	result := manager.DownloadSingle(ctx, *videoURL)
	if !result.OK() {
		fmt.Println("An error occurred while downloading the video:", result.Err)
		return 1
	}
	fmt.Printf("Video downloaded successfully: %s\n", result.Location)
	return 0
}

// logProgress reports tracker events in the debug log, next to the bar.
func logProgress(event progress.Event) {
	if item := event.ItemDetails; item != nil {
		slog.Debug("Playlist item attempted",
			"item", item.ItemNumber,
			"total", item.TotalItems,
			"url", item.CurrentItem,
			"failed", item.Failed,
			"progress", event.Progress,
		)
		return
	}
	if event.Error != "" {
		slog.Debug("Download stage failed", "stage", event.Stage, "error", event.Error)
		return
	}
	slog.Debug("Download stage", "stage", event.Stage, "message", event.Message)
}

// prompt asks interactively for what to download. A playlist URL given to
// the video choice is still treated as a playlist.
func prompt() (videoURL, playlistURL string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter '1' to download a video, '2' to download a playlist: ")
	choice, _ := reader.ReadString('\n')

	switch strings.TrimSpace(choice) {
	case "1":
		fmt.Print("Enter the video URL: ")
		line, _ := reader.ReadString('\n')
		videoURL = strings.TrimSpace(line)
		if downloader.IsPlaylistURL(videoURL) {
			return "", videoURL, nil
		}
	case "2":
		fmt.Print("Enter the playlist URL: ")
		line, _ := reader.ReadString('\n')
		playlistURL = strings.TrimSpace(line)
	default:
		return "", "", fmt.Errorf("invalid choice")
	}

	if videoURL == "" && playlistURL == "" {
		return "", "", fmt.Errorf("no URL given")
	}
	return videoURL, playlistURL, nil
}
