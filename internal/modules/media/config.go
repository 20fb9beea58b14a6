package media

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// Config holds the media module configuration.
type Config struct {
	DownloadDir string `env:"DOWNLOAD_DIR" envDefault:"downloads"`

	MaxImageBytes int64 `env:"MEDIA_MAX_IMAGE_BYTES" envDefault:"10485760"`

	// DownloadsPerMinute limits /ytmp3 and /audioclip across all users.
	// Zero disables the limit.
	DownloadsPerMinute int `env:"MEDIA_DOWNLOADS_PER_MINUTE" envDefault:"6"`
}

func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.DownloadDir == "" {
		return nil, errors.New("DOWNLOAD_DIR must not be empty")
	}
	if cfg.MaxImageBytes <= 0 {
		return nil, errors.New("MEDIA_MAX_IMAGE_BYTES must be positive")
	}
	if cfg.DownloadsPerMinute < 0 {
		return nil, errors.New("MEDIA_DOWNLOADS_PER_MINUTE must not be negative")
	}
	return cfg, nil
}
