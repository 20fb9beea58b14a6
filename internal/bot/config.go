package bot

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`

	// GuildID scopes command registration to a single guild.
	// Guild commands update instantly; global ones can take up to an hour.
	GuildID string `env:"GUILD_ID"`

	LogLevel       slog.Level `env:"LOG_LEVEL"        envDefault:"info"`
	WorkerPoolSize int        `env:"WORKER_POOL_SIZE" envDefault:"4"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.WorkerPoolSize < 1 {
		cfg.WorkerPoolSize = 1
	}

	return cfg, nil
}
