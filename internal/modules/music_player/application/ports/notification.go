package ports

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// NowPlayingInfo contains the data shown in a "Now Playing" message.
type NowPlayingInfo struct {
	Title              string
	Artist             string
	Duration           string
	URL                string
	ArtworkURL         string
	SourceName         string
	IsStream           bool
	RequesterName      string
	RequesterAvatarURL string
	EnqueuedAt         time.Time
}

// NotificationSender posts playback notifications to a text channel.
type NotificationSender interface {
	// SendNowPlaying posts a "Now Playing" message and returns its ID.
	SendNowPlaying(channelID snowflake.ID, info *NowPlayingInfo) (snowflake.ID, error)
	// DeleteMessage removes a previously sent message.
	DeleteMessage(channelID, messageID snowflake.ID) error
}
