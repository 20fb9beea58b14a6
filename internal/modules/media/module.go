package media

import (
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/media/application/usecases"
	"github.com/sglre6355/mediabot/internal/modules/media/infrastructure"
	"github.com/sglre6355/mediabot/internal/modules/media/presentation/discord"
)

func init() {
	bot.Register(&MediaModule{})
}

var _ bot.ConfigurableModule = (*MediaModule)(nil)

// MediaModule provides YouTube audio downloads and image resizing.
type MediaModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
}

// Name returns the module name.
func (m *MediaModule) Name() string {
	return "media"
}

// Commands returns the slash commands for this module.
func (m *MediaModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MediaModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ytmp3":        m.commandHandlers.HandleYtMp3,
		"audioclip":    m.commandHandlers.HandleAudioClip,
		"resize_image": m.commandHandlers.HandleResizeImage,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MediaModule) EventHandlers() []bot.EventHandler {
	return nil
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MediaModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MediaModule) Init(deps bot.ModuleDependencies) error {
	if deps.Pool == nil {
		return errors.New("media requires a worker pool")
	}

	downloader := infrastructure.NewYtdlpDownloader()
	guard := usecases.NewDownloadGuard(m.config.DownloadsPerMinute)

	m.commandHandlers = discord.NewCommandHandlers(
		usecases.NewYtMp3Service(downloader, guard, deps.Pool, m.config.DownloadDir),
		usecases.NewAudioClipService(downloader, guard, deps.Pool, m.config.DownloadDir),
		usecases.NewResizeImageService(
			infrastructure.NewHTTPImageFetcher(),
			infrastructure.NewImagingTransformer(),
			deps.Pool,
			m.config.MaxImageBytes,
		),
	)

	slog.Info("initialized media module",
		"download_dir", m.config.DownloadDir,
		"downloads_per_minute", m.config.DownloadsPerMinute,
	)
	return nil
}

// Shutdown cleans up module resources.
func (m *MediaModule) Shutdown() error {
	return nil
}
