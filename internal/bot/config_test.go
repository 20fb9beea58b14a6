package bot

import (
	"log/slog"
	"os"
	"testing"
)

// unsetEnv removes the given variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadConfig_WithValidToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token-123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DiscordToken != "test-token-123" {
		t.Errorf("expected token %q, got %q", "test-token-123", cfg.DiscordToken)
	}
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for missing token, got nil")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	unsetEnv(t, "GUILD_ID", "LOG_LEVEL", "WORKER_POOL_SIZE")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GuildID != "" {
		t.Errorf("expected empty guild ID, got %q", cfg.GuildID)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected log level %v, got %v", slog.LevelInfo, cfg.LogLevel)
	}
	if cfg.WorkerPoolSize != 4 {
		t.Errorf("expected worker pool size 4, got %d", cfg.WorkerPoolSize)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "123456789")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORKER_POOL_SIZE", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GuildID != "123456789" {
		t.Errorf("expected guild ID %q, got %q", "123456789", cfg.GuildID)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected log level %v, got %v", slog.LevelDebug, cfg.LogLevel)
	}
	if cfg.WorkerPoolSize != 1 {
		t.Errorf("expected worker pool size clamped to 1, got %d", cfg.WorkerPoolSize)
	}
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("LOG_LEVEL", "loud")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid log level, got nil")
	}
}
