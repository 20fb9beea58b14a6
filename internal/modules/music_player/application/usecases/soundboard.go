package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
)

// DefaultSoundChoices is the autocomplete limit Discord allows.
const DefaultSoundChoices = 25

// ListSoundsInput contains the input for the ListSounds use case.
type ListSoundsInput struct {
	Filter string
	Limit  int
}

// PlaySoundInput contains the input for the PlaySound use case.
type PlaySoundInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	Name                  string
}

// SoundboardService plays local sound files through the guild player.
type SoundboardService struct {
	catalog ports.SoundCatalog
	queue   *QueueService
}

// NewSoundboardService creates a new SoundboardService.
func NewSoundboardService(catalog ports.SoundCatalog, queue *QueueService) *SoundboardService {
	return &SoundboardService{
		catalog: catalog,
		queue:   queue,
	}
}

// ListSounds returns sounds whose display name contains the filter.
func (s *SoundboardService) ListSounds(input ListSoundsInput) ([]*Sound, error) {
	limit := input.Limit
	if limit <= 0 || limit > DefaultSoundChoices {
		limit = DefaultSoundChoices
	}
	return s.catalog.List(input.Filter, limit)
}

// PlaySound joins the caller's voice channel and enqueues the named sound.
func (s *SoundboardService) PlaySound(ctx context.Context, input PlaySoundInput) (*PlayOutput, error) {
	sound, err := s.catalog.Get(input.Name)
	if err != nil {
		return nil, err
	}
	if sound == nil {
		return nil, ErrSoundNotFound
	}

	voiceChannelID, err := s.queue.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	if voiceChannelID == 0 {
		return nil, ErrUserNotInVoice
	}

	player, err := s.queue.players.GetOrCreate(input.GuildID)
	if err != nil {
		return nil, err
	}
	if err := player.EnsureConnected(ctx, voiceChannelID); err != nil {
		return nil, err
	}

	return s.queue.enqueue(player, sound.Track(), input.GuildID, input.UserID, input.NotificationChannelID)
}
