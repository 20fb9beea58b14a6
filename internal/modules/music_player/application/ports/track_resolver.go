package ports

import (
	"context"
	"time"

	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// TrackResolver turns a URL or search terms into a playable track.
// Resolve blocks on network I/O and must not run on a gateway event goroutine.
type TrackResolver interface {
	Resolve(ctx context.Context, query *domain.SearchQuery) (*domain.Track, error)
}

// Suggestion is one autocomplete entry for the play command.
type Suggestion struct {
	Title    string
	URL      string
	Duration time.Duration
}

// TrackSuggester provides quick search suggestions.
type TrackSuggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}
