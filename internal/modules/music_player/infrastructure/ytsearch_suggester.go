package infrastructure

import (
	"context"
	"strings"

	"github.com/ppalone/ytsearch"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
)

const (
	youtubeWatchURL       = "https://www.youtube.com/watch?v="
	defaultSuggestionSize = 25
)

// YouTubeSuggester provides play command suggestions from YouTube search.
type YouTubeSuggester struct {
	client *ytsearch.Client
}

// NewYouTubeSuggester creates a new YouTubeSuggester.
func NewYouTubeSuggester() *YouTubeSuggester {
	return &YouTubeSuggester{client: ytsearch.NewClient(nil)}
}

// Suggest returns up to limit videos matching the query.
func (s *YouTubeSuggester) Suggest(
	ctx context.Context,
	query string,
	limit int,
) ([]ports.Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionSize
	}

	res, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	suggestions := make([]ports.Suggestion, 0, limit)
	for _, v := range res.Results {
		if len(suggestions) == limit {
			break
		}
		if v.VideoID == "" || seen[v.VideoID] || strings.TrimSpace(v.Title) == "" {
			continue
		}
		seen[v.VideoID] = true
		suggestions = append(suggestions, ports.Suggestion{
			Title: v.Title,
			URL:   youtubeWatchURL + v.VideoID,
		})
	}
	return suggestions, nil
}

// Ensure YouTubeSuggester implements ports.TrackSuggester.
var _ ports.TrackSuggester = (*YouTubeSuggester)(nil)
