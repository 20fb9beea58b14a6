package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlaybackStartedEvent is published when the playback loop starts a track.
type PlaybackStartedEvent struct {
	GuildID snowflake.ID
	Track   *Track
}

// PlaybackFinishedEvent is published when a track stops playing for any
// reason. Err is nil for a natural end, skip or stop.
type PlaybackFinishedEvent struct {
	GuildID snowflake.ID
	Track   *Track
	Err     error
}
