package ports

import "github.com/disgoorg/snowflake/v2"

// VoiceStateProvider provides voice state information.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the voice channel the user is in,
	// or 0 when the user is not in voice.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
