package music_player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/mediabot/internal/bot"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/mediabot/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/mediabot/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	players  *usecases.PlayerRegistry
	eventBus *infrastructure.ChannelEventBus

	// Context for the Lavalink connection and the idle janitor
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":       m.commandHandlers.HandleJoin,
		"leave":      m.commandHandlers.HandleLeave,
		"play":       m.commandHandlers.HandlePlay,
		"skip":       m.commandHandlers.HandleSkip,
		"stop":       m.commandHandlers.HandleStop,
		"queue":      m.commandHandlers.HandleQueue,
		"nowplaying": m.commandHandlers.HandleNowPlaying,
		"soundboard": m.commandHandlers.HandleSoundboard,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.eventHandlers.HandleVoiceServerUpdate,
		m.eventHandlers.HandleVoiceStateUpdate,
		m.eventHandlers.HandleInteractionCreate,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player requires a Discord session")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	transport, resolver, voiceEvents, err := m.initBackend(deps.Session)
	if err != nil {
		m.cancel()
		return err
	}

	// Create infrastructure
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session.State)
	userInfoProv := infrastructure.NewDiscordUserInfoProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)
	catalog := infrastructure.NewFileSoundCatalog(m.config.SoundboardDir)
	suggester := infrastructure.NewYouTubeSuggester()

	// Create the per-guild players
	m.players = usecases.NewPlayerRegistry(transport, m.eventBus, usecases.PlayerOptions{
		MaxQueue: m.config.MaxQueue,
	})
	if m.config.IdleTimeout > 0 {
		m.players.StartJanitor(m.ctx, m.config.janitorInterval(), m.config.IdleTimeout)
	}

	// Create services
	trackLoader := usecases.NewTrackLoaderService(resolver, suggester, deps.Pool)
	voiceChannel := usecases.NewVoiceChannelService(m.players, voiceState)
	playback := usecases.NewPlaybackService(m.players)
	queue := usecases.NewQueueService(m.players, trackLoader, voiceState, userInfoProv)
	soundboard := usecases.NewSoundboardService(catalog, queue)

	// Register application event handlers
	application.NewNotificationEventHandler(notifier, m.eventBus, userInfoProv).Start()

	// Create presentation handlers
	m.commandHandlers = discord.NewCommandHandlers(voiceChannel, playback, queue, soundboard)
	m.eventHandlers = discord.NewEventHandlers(
		voiceEvents,
		discord.NewAutocompleteHandler(trackLoader, soundboard),
	)

	slog.Info("initialized music player",
		"backend", m.backendName(),
		"max_queue", m.config.MaxQueue,
		"idle_timeout", m.config.IdleTimeout,
	)

	return nil
}

// initBackend selects Lavalink or native playback.
func (m *MusicPlayerModule) initBackend(
	session *discordgo.Session,
) (ports.VoiceTransport, ports.TrackResolver, discord.VoiceEventSink, error) {
	if m.config.UseLavalink() {
		adapter, err := infrastructure.NewLavalinkAdapter(m.ctx, session, infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		m.lavalinkAdapter = adapter
		return adapter, infrastructure.NewLavalinkResolver(adapter), adapter, nil
	}

	// discordgo handles voice gateway events itself for native connections.
	transport := infrastructure.NewNativeTransport(session, m.config.FFmpegPath)
	return transport, infrastructure.NewYtdlpResolver(), nil, nil
}

func (m *MusicPlayerModule) backendName() string {
	if m.config.UseLavalink() {
		return "lavalink"
	}
	return "native"
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Stop the janitor before closing players
	if m.cancel != nil {
		m.cancel()
	}

	// Players disconnect and publish their last events
	if m.players != nil {
		m.players.Close()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return nil
}
