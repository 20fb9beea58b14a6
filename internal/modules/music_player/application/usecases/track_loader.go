package usecases

import (
	"context"
	"strings"

	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
)

// LoadTrackInput contains the input for the LoadTrack use case.
type LoadTrackInput struct {
	Query string
}

// LoadTrackOutput contains the result of the LoadTrack use case.
type LoadTrackOutput struct {
	Track *domain.Track
}

// SearchTracksInput contains the input for the SearchTracks use case.
type SearchTracksInput struct {
	Query string
	Limit int
}

// SearchTracksOutput contains the result of the SearchTracks use case.
type SearchTracksOutput struct {
	Suggestions []ports.Suggestion
}

// TrackLoaderService resolves queries into tracks on the worker pool.
type TrackLoaderService struct {
	resolver  ports.TrackResolver
	suggester ports.TrackSuggester
	pool      *workerpool.Pool
}

// NewTrackLoaderService creates a new TrackLoaderService. suggester may be nil.
func NewTrackLoaderService(
	resolver ports.TrackResolver,
	suggester ports.TrackSuggester,
	pool *workerpool.Pool,
) *TrackLoaderService {
	return &TrackLoaderService{
		resolver:  resolver,
		suggester: suggester,
		pool:      pool,
	}
}

// LoadTrack resolves the query into a single playable track.
func (s *TrackLoaderService) LoadTrack(
	ctx context.Context,
	input LoadTrackInput,
) (*LoadTrackOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrEmptyQuery
	}

	track, err := workerpool.Submit(ctx, s.pool, func(ctx context.Context) (*domain.Track, error) {
		return s.resolver.Resolve(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	if track == nil || !track.IsValid() {
		return nil, &domain.ResolutionError{Query: input.Query, Reason: "no playable result"}
	}

	return &LoadTrackOutput{Track: track}, nil
}

// SearchTracks returns autocomplete suggestions. It returns no suggestions
// for blank input, URLs or when no suggester is configured.
func (s *TrackLoaderService) SearchTracks(
	ctx context.Context,
	input SearchTracksInput,
) (*SearchTracksOutput, error) {
	q := strings.TrimSpace(input.Query)
	if s.suggester == nil || q == "" || domain.NewSearchQuery(q).IsURL {
		return &SearchTracksOutput{}, nil
	}

	suggestions, err := s.suggester.Suggest(ctx, q, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchTracksOutput{Suggestions: suggestions}, nil
}
