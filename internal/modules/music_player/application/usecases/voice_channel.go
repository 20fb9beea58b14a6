package usecases

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID        snowflake.ID
	UserID         snowflake.ID
	VoiceChannelID snowflake.ID // Optional: specific channel to join (0 means use user's channel)
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// LeaveOutput contains the result of the Leave use case.
type LeaveOutput struct {
	VoiceChannelID snowflake.ID
}

// VoiceChannelService handles voice channel operations.
type VoiceChannelService struct {
	players    *PlayerRegistry
	voiceState ports.VoiceStateProvider
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	players *PlayerRegistry,
	voiceState ports.VoiceStateProvider,
) *VoiceChannelService {
	return &VoiceChannelService{
		players:    players,
		voiceState: voiceState,
	}
}

// Join connects the bot to a voice channel, creating the guild player on
// first use.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	voiceChannelID := input.VoiceChannelID
	if voiceChannelID == 0 {
		userChannel, err := v.userChannel(input.GuildID, input.UserID)
		if err != nil {
			return nil, err
		}
		voiceChannelID = userChannel
	}

	player, err := v.players.GetOrCreate(input.GuildID)
	if err != nil {
		return nil, err
	}
	if err := player.EnsureConnected(ctx, voiceChannelID); err != nil {
		return nil, err
	}

	return &JoinOutput{VoiceChannelID: voiceChannelID}, nil
}

// Leave disconnects the bot. The caller has to be in the bot's channel.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) (*LeaveOutput, error) {
	userChannel, err := v.userChannel(input.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}

	player := v.players.Get(input.GuildID)
	if player == nil {
		return nil, ErrNotConnected
	}

	botChannel := player.Snapshot().VoiceChannelID
	if botChannel == 0 {
		return nil, ErrNotConnected
	}
	if userChannel != botChannel {
		return nil, ErrNotInSameChannel
	}

	channelID, err := player.Leave(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return nil, err
		}
		return &LeaveOutput{VoiceChannelID: channelID}, err
	}

	return &LeaveOutput{VoiceChannelID: channelID}, nil
}

func (v *VoiceChannelService) userChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	channelID, err := v.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil {
		return 0, err
	}
	if channelID == 0 {
		return 0, ErrUserNotInVoice
	}
	return channelID, nil
}
