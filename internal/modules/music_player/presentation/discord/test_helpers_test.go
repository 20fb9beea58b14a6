package discord

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
)

const (
	testGuildID     = "100"
	testChannelID   = "200"
	testUserID      = "300"
	testVoiceChanID = snowflake.ID(400)
)

// stubTransport hands out connections whose tracks play until stopped.
type stubTransport struct{}

func (stubTransport) Connect(
	_ context.Context,
	_, channelID snowflake.ID,
) (ports.VoiceConnection, error) {
	return &stubConn{channelID: channelID}, nil
}

type stubConn struct {
	mu        sync.Mutex
	channelID snowflake.ID
	stop      chan struct{}
}

func (c *stubConn) Play(_ context.Context, _ *domain.Track, onComplete func(error)) error {
	stop := make(chan struct{})
	c.mu.Lock()
	c.stop = stop
	c.mu.Unlock()

	go func() {
		<-stop
		onComplete(nil)
	}()
	return nil
}

func (c *stubConn) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

func (c *stubConn) MoveTo(_ context.Context, channelID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = channelID
	return nil
}

func (c *stubConn) Disconnect(context.Context) error { return nil }

func (c *stubConn) IsConnected() bool { return true }

func (c *stubConn) ChannelID() snowflake.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

type nopPublisher struct{}

func (nopPublisher) PublishPlaybackStarted(domain.PlaybackStartedEvent)   {}
func (nopPublisher) PublishPlaybackFinished(domain.PlaybackFinishedEvent) {}

type stubVoiceState struct {
	channelID snowflake.ID
	err       error
}

func (s *stubVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return s.channelID, s.err
}

// stubResolver resolves every query to a track titled after the query.
type stubResolver struct {
	err error
}

func (r *stubResolver) Resolve(_ context.Context, query *domain.SearchQuery) (*domain.Track, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Track{
		ID:        domain.NewTrackID(),
		Title:     query.Query,
		StreamURL: "https://media.example/" + query.Query,
	}, nil
}

type stubSuggester struct {
	suggestions []ports.Suggestion
}

func (s *stubSuggester) Suggest(context.Context, string, int) ([]ports.Suggestion, error) {
	return s.suggestions, nil
}

type stubCatalog struct {
	sounds []*domain.Sound
}

func (c *stubCatalog) List(filter string, limit int) ([]*domain.Sound, error) {
	var out []*domain.Sound
	for _, s := range c.sounds {
		if len(out) == limit {
			break
		}
		if s.MatchesPrefix(filter) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *stubCatalog) Get(name string) (*domain.Sound, error) {
	for _, s := range c.sounds {
		if s.DisplayName == name {
			return s, nil
		}
	}
	return nil, nil
}

type testEnv struct {
	voiceState   *stubVoiceState
	resolver     *stubResolver
	handlers     *CommandHandlers
	autocomplete *AutocompleteHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		voiceState: &stubVoiceState{channelID: testVoiceChanID},
		resolver:   &stubResolver{},
	}

	registry := usecases.NewPlayerRegistry(stubTransport{}, nopPublisher{}, usecases.PlayerOptions{})
	t.Cleanup(registry.Close)

	loader := usecases.NewTrackLoaderService(
		env.resolver,
		&stubSuggester{suggestions: []ports.Suggestion{
			{Title: "First Song", URL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
			{Title: "Second Song", URL: "https://www.youtube.com/watch?v=bbbbbbbbbbb"},
		}},
		workerpool.New(2),
	)
	queue := usecases.NewQueueService(registry, loader, env.voiceState, nil)
	soundboard := usecases.NewSoundboardService(&stubCatalog{sounds: []*domain.Sound{
		{ID: 1, DisplayName: "airhorn", Path: "/sounds/airhorn.mp3"},
		{ID: 2, DisplayName: "bell", Path: "/sounds/bell.mp3"},
	}}, queue)

	env.handlers = NewCommandHandlers(
		usecases.NewVoiceChannelService(registry, env.voiceState),
		usecases.NewPlaybackService(registry),
		queue,
		soundboard,
	)
	env.autocomplete = NewAutocompleteHandler(loader, soundboard)
	return env
}

func commandInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: testUserID}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

var errVoiceStateDown = errors.New("voice state unavailable")
