package domain

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// ResolutionError reports that a query could not be turned into a Track:
// network failure, no match, or content that cannot be played (live
// streams, playlists without entries). It is shown to the requester.
type ResolutionError struct {
	Query  string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("could not resolve %q: %s: %v", e.Query, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("could not resolve %q: %s", e.Query, e.Reason)
	default:
		return fmt.Sprintf("could not resolve %q: %v", e.Query, e.Err)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConnectionError reports that joining or moving to a voice channel failed.
// It is shown to the requester.
type ConnectionError struct {
	ChannelID snowflake.ID
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to voice channel %d: %v", e.ChannelID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PlaybackError reports a failure while a track was streaming. The playback
// loop logs it and moves on to the next track.
type PlaybackError struct {
	TrackID TrackID
	Title   string
	Err     error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %q failed: %v", e.Title, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
