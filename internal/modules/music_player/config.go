package music_player

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the music player module configuration.
type Config struct {
	// Lavalink is used for playback when LavalinkAddress is set. Otherwise
	// the bot streams audio itself through ffmpeg.
	LavalinkAddress  string `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE"`

	FFmpegPath string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`

	MaxQueue      int           `env:"MUSIC_MAX_QUEUE"    envDefault:"0"`
	IdleTimeout   time.Duration `env:"MUSIC_IDLE_TIMEOUT" envDefault:"0s"`
	SoundboardDir string        `env:"SOUNDBOARD_DIR"     envDefault:"./sounds"`
}

// loadConfig parses the module configuration from the environment.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseLavalink reports whether playback goes through a Lavalink node.
func (c *Config) UseLavalink() bool {
	return c.LavalinkAddress != ""
}

func (c *Config) validate() error {
	if c.UseLavalink() && c.LavalinkPassword == "" {
		return errors.New("LAVALINK_PASSWORD is required when LAVALINK_ADDRESS is set")
	}
	if c.MaxQueue < 0 {
		return errors.New("MUSIC_MAX_QUEUE must not be negative")
	}
	if c.IdleTimeout < 0 {
		return errors.New("MUSIC_IDLE_TIMEOUT must not be negative")
	}
	return nil
}

// janitorInterval returns how often idle players are looked for.
func (c *Config) janitorInterval() time.Duration {
	return min(c.IdleTimeout, time.Minute)
}
