package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// VoiceTransport opens voice connections.
type VoiceTransport interface {
	// Connect joins the given voice channel. Implementations bound the wait
	// with their own connect timeout and reconnect automatically when the
	// connection drops.
	Connect(ctx context.Context, guildID, channelID snowflake.ID) (VoiceConnection, error)
}

// VoiceConnection is one live voice session in a guild.
type VoiceConnection interface {
	// Play starts streaming the track. onComplete is called exactly once when
	// playback ends (naturally, through Stop or with an error), possibly from
	// another goroutine. It is not called when Play itself returns an error.
	Play(ctx context.Context, track *domain.Track, onComplete func(err error)) error

	// Stop ends the current playback, if any.
	Stop() error

	// MoveTo switches to another voice channel in the same guild.
	MoveTo(ctx context.Context, channelID snowflake.ID) error

	// Disconnect leaves the voice channel.
	Disconnect(ctx context.Context) error

	// IsConnected reports whether audio can currently be sent.
	IsConnected() bool

	// ChannelID returns the voice channel the connection is in.
	ChannelID() snowflake.ID
}
