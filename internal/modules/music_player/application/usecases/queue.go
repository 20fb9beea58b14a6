package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID // text channel for "Now Playing" messages
	Query                 string
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Track             *Track
	Position          int // 1-based position among pending tracks
	StartsImmediately bool
}

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	GuildID snowflake.ID
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	CurrentTrack *Track
	Tracks       []*Track // first DefaultPreviewSize pending tracks
	TotalTracks  int      // all pending tracks
}

// NowPlayingInput contains the input for the NowPlaying use case.
type NowPlayingInput struct {
	GuildID snowflake.ID
}

// NowPlayingOutput contains the result of the NowPlaying use case.
type NowPlayingOutput struct {
	Track *Track
}

// QueueService handles the play command and queue inspection.
type QueueService struct {
	players    *PlayerRegistry
	loader     *TrackLoaderService
	voiceState ports.VoiceStateProvider
	userInfo   ports.UserInfoProvider
}

// NewQueueService creates a new QueueService. userInfo may be nil.
func NewQueueService(
	players *PlayerRegistry,
	loader *TrackLoaderService,
	voiceState ports.VoiceStateProvider,
	userInfo ports.UserInfoProvider,
) *QueueService {
	return &QueueService{
		players:    players,
		loader:     loader,
		voiceState: voiceState,
		userInfo:   userInfo,
	}
}

// Play joins the caller's voice channel, resolves the query and appends the
// result to the guild's queue.
func (q *QueueService) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	if !domain.NewSearchQuery(input.Query).IsValid() {
		return nil, ErrEmptyQuery
	}

	voiceChannelID, err := q.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	if voiceChannelID == 0 {
		return nil, ErrUserNotInVoice
	}

	player, err := q.players.GetOrCreate(input.GuildID)
	if err != nil {
		return nil, err
	}
	if err := player.EnsureConnected(ctx, voiceChannelID); err != nil {
		return nil, err
	}

	loaded, err := q.loader.LoadTrack(ctx, LoadTrackInput{Query: input.Query})
	if err != nil {
		return nil, err
	}

	return q.enqueue(player, loaded.Track, input.GuildID, input.UserID, input.NotificationChannelID)
}

func (q *QueueService) enqueue(
	player *GuildPlayer,
	track *domain.Track,
	guildID, userID, notificationChannelID snowflake.ID,
) (*PlayOutput, error) {
	requested := track.ForRequester(domain.Requester{
		UserID:    userID,
		Name:      requesterName(q.userInfo, guildID, userID),
		ChannelID: notificationChannelID,
	})

	result, err := player.Enqueue(requested)
	if err != nil {
		return nil, err
	}

	return &PlayOutput{
		Track:             result.Track,
		Position:          result.Position,
		StartsImmediately: result.WasIdle,
	}, nil
}

// List returns the current track and a preview of the pending ones.
func (q *QueueService) List(input QueueListInput) (*QueueListOutput, error) {
	player := q.players.Get(input.GuildID)
	if player == nil {
		return nil, ErrQueueEmpty
	}

	snapshot := player.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	return &QueueListOutput{
		CurrentTrack: snapshot.Current,
		Tracks:       snapshot.Upcoming,
		TotalTracks:  snapshot.QueueLength,
	}, nil
}

// NowPlaying returns the track that is currently playing.
func (q *QueueService) NowPlaying(input NowPlayingInput) (*NowPlayingOutput, error) {
	player := q.players.Get(input.GuildID)
	if player == nil {
		return nil, ErrNotPlaying
	}

	current := player.Snapshot().Current
	if current == nil {
		return nil, ErrNotPlaying
	}
	return &NowPlayingOutput{Track: current}, nil
}

func requesterName(provider ports.UserInfoProvider, guildID, userID snowflake.ID) string {
	if provider == nil {
		return ""
	}
	info, err := provider.GetUserInfo(guildID, userID)
	if err != nil {
		slog.Debug("failed to look up requester", "guild", guildID, "user", userID, "error", err)
		return ""
	}
	return info.DisplayName
}
