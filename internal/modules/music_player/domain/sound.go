package domain

import (
	"regexp"
	"strings"
)

var soundNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]{1,64}$`)

// Sound is one soundboard entry.
type Sound struct {
	ID          int
	DisplayName string
	FileName    string
	Path        string // resolved location on disk

	// Tag metadata, empty when the file carries none.
	Title  string
	Artist string
}

// IsValidSoundName reports whether name may be used as a display name.
func IsValidSoundName(name string) bool {
	return soundNamePattern.MatchString(name)
}

// MatchesPrefix reports whether the sound's display name contains the
// (case-insensitive) filter text. An empty filter matches everything.
func (s *Sound) MatchesPrefix(filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.DisplayName), strings.ToLower(filter))
}

// Track converts the sound into a playable track.
func (s *Sound) Track() *Track {
	title := s.DisplayName
	if s.Title != "" {
		title = s.Title
	}
	return &Track{
		ID:         NewTrackID(),
		Title:      title,
		Artist:     s.Artist,
		StreamURL:  s.Path,
		SourceName: string(TrackSourceSoundboard),
	}
}
