package usecases

import (
	"github.com/disgoorg/snowflake/v2"
)

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID snowflake.ID
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *Track
	NextTrack    *Track // nil if nothing is pending
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID snowflake.ID
}

// StopOutput contains the result of the Stop use case.
type StopOutput struct {
	Cleared        int // pending tracks discarded
	StoppedCurrent bool
}

// PlaybackService handles playback control.
type PlaybackService struct {
	players *PlayerRegistry
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(players *PlayerRegistry) *PlaybackService {
	return &PlaybackService{players: players}
}

// Skip ends the current track. The next pending track, if any, starts next.
func (p *PlaybackService) Skip(input SkipInput) (*SkipOutput, error) {
	player := p.players.Get(input.GuildID)
	if player == nil {
		return nil, ErrNotPlaying
	}

	skipped, next, err := player.Skip()
	if err != nil {
		return nil, err
	}
	return &SkipOutput{SkippedTrack: skipped, NextTrack: next}, nil
}

// Stop clears the queue and ends the current track.
func (p *PlaybackService) Stop(input StopInput) (*StopOutput, error) {
	player := p.players.Get(input.GuildID)
	if player == nil {
		return nil, ErrNotPlaying
	}

	out := player.Stop()
	if out.Cleared == 0 && !out.StoppedCurrent {
		return nil, ErrNotPlaying
	}
	return &out, nil
}
