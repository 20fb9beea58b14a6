package usecases

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// TrackID is an alias for domain.TrackID.
type TrackID = domain.TrackID

// Sound is an alias for domain.Sound.
type Sound = domain.Sound

// DefaultPreviewSize is how many pending tracks a Snapshot includes.
const DefaultPreviewSize = 10

// Snapshot is a point-in-time view of a guild player.
type Snapshot struct {
	Current        *Track
	Upcoming       []*Track // at most DefaultPreviewSize entries
	QueueLength    int      // all pending tracks, including those not in Upcoming
	Connected      bool
	VoiceChannelID snowflake.ID // 0 when there is no connection handle
}

// IsEmpty reports whether nothing is playing and nothing is pending.
func (s Snapshot) IsEmpty() bool {
	return s.Current == nil && s.QueueLength == 0
}

// EnqueueResult describes where a track landed.
type EnqueueResult struct {
	Track    *Track
	Position int  // 1-based position among pending tracks
	WasIdle  bool // nothing was playing, so the track starts right away
}
