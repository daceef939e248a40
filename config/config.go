package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Editor     EditorConfig     `yaml:"editor"`
	Downloader DownloaderConfig `yaml:"downloader"`
	Storage    StorageConfig    `yaml:"storage"`
}

// EditorConfig holds the encoder settings used by the media editor.
type EditorConfig struct {
	FFmpegPath     string        `yaml:"ffmpeg_path"`
	FPS            int           `yaml:"fps"`
	VideoCodec     string        `yaml:"video_codec"`
	AudioCodec     string        `yaml:"audio_codec"`
	VideoExtension string        `yaml:"video_extension"`
	AudioExtension string        `yaml:"audio_extension"`
	AudioPathMode  string        `yaml:"audio_path_mode"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
}

type DownloaderConfig struct {
	OutputDir string `yaml:"output_dir"`
	// Quality is "highest", "lowest" or an explicit label such as "720p".
	Quality   string `yaml:"quality"`
	UserAgent string `yaml:"user_agent"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// GCS options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Editor.FFmpegPath == "" {
		c.Editor.FFmpegPath = "ffmpeg"
	}
	if c.Editor.FPS <= 0 {
		c.Editor.FPS = 24
	}
	if c.Editor.VideoCodec == "" {
		c.Editor.VideoCodec = "libx264"
	}
	if c.Editor.AudioCodec == "" {
		c.Editor.AudioCodec = "aac"
	}
	if c.Editor.VideoExtension == "" {
		c.Editor.VideoExtension = ".mp4"
	}
	if c.Editor.AudioExtension == "" {
		c.Editor.AudioExtension = ".mp3"
	}
	if c.Editor.AudioPathMode == "" {
		c.Editor.AudioPathMode = "substitute"
	}
	if c.Editor.ProbeTimeout <= 0 {
		c.Editor.ProbeTimeout = 30 * time.Second
	}

	if c.Downloader.OutputDir == "" {
		c.Downloader.OutputDir = "output"
	}
	if c.Downloader.Quality == "" {
		c.Downloader.Quality = "highest"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
}
