package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// TrackID uniquely identifies one enqueued occurrence of a track.
// Enqueuing the same song twice yields two different IDs.
type TrackID string

// NewTrackID returns a fresh random TrackID.
func NewTrackID() TrackID {
	return TrackID(uuid.NewString())
}

// Track represents a playable audio track. A Track is not modified once it
// has been enqueued.
type Track struct {
	ID         TrackID
	Title      string
	Artist     string
	StreamURL  string // direct media URL or local file path handed to the transport
	Encoded    string // Lavalink encoded track data, empty for native playback
	SourceURL  string // canonical page the track was resolved from
	ArtworkURL string
	SourceName string // e.g., "youtube", "soundcloud", "soundboard"
	Duration   time.Duration
	IsStream   bool

	RequesterID           snowflake.ID
	RequesterName         string
	NotificationChannelID snowflake.ID // text channel the request came from
	EnqueuedAt            time.Time
}

// Requester identifies who asked for a track and where to report about it.
type Requester struct {
	UserID    snowflake.ID
	Name      string
	ChannelID snowflake.ID
}

// ForRequester returns a copy of the track with a new ID, stamped with the
// requester and the current time.
func (t *Track) ForRequester(r Requester) *Track {
	c := *t
	c.ID = NewTrackID()
	c.RequesterID = r.UserID
	c.RequesterName = r.Name
	c.NotificationChannelID = r.ChannelID
	c.EnqueuedAt = time.Now().UTC()
	return &c
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// IsValid returns true if the track has something a transport can play.
func (t *Track) IsValid() bool {
	return t.Title != "" && (t.StreamURL != "" || t.Encoded != "")
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}
	if t.Duration <= 0 {
		return "?"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
