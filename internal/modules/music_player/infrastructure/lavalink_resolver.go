package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// LavalinkResolver resolves queries through the Lavalink node.
type LavalinkResolver struct {
	adapter *LavalinkAdapter
}

// NewLavalinkResolver creates a new LavalinkResolver.
func NewLavalinkResolver(adapter *LavalinkAdapter) *LavalinkResolver {
	return &LavalinkResolver{adapter: adapter}
}

// Resolve loads the query and returns its first playable track.
func (r *LavalinkResolver) Resolve(
	ctx context.Context,
	query *domain.SearchQuery,
) (*domain.Track, error) {
	node := r.adapter.link.BestNode()
	if node == nil {
		return nil, &domain.ResolutionError{
			Query: query.Query,
			Err:   errors.New("no available Lavalink node"),
		}
	}

	result, err := node.LoadTracks(ctx, query.Identifier())
	if err != nil {
		return nil, &domain.ResolutionError{Query: query.Query, Err: err}
	}

	return trackFromLoadResult(query.Query, result)
}

// trackFromLoadResult picks the first track of a load result.
func trackFromLoadResult(query string, result *lavalink.LoadResult) (*domain.Track, error) {
	var track lavalink.Track

	switch data := result.Data.(type) {
	case lavalink.Track:
		track = data
	case lavalink.Playlist:
		if len(data.Tracks) == 0 {
			return nil, &domain.ResolutionError{Query: query, Reason: "playlist is empty"}
		}
		track = data.Tracks[0]
	case lavalink.Search:
		if len(data) == 0 {
			return nil, &domain.ResolutionError{Query: query, Reason: "no results"}
		}
		track = data[0]
	case lavalink.Exception:
		return nil, &domain.ResolutionError{Query: query, Reason: data.Message}
	default:
		return nil, &domain.ResolutionError{Query: query, Reason: "no results"}
	}

	if track.Info.IsStream {
		return nil, &domain.ResolutionError{Query: query, Reason: "live streams are not supported"}
	}

	return convertTrack(track), nil
}

// convertTrack converts a Lavalink track to a domain track.
func convertTrack(track lavalink.Track) *domain.Track {
	info := track.Info

	return &domain.Track{
		ID:         domain.NewTrackID(),
		Title:      info.Title,
		Artist:     info.Author,
		Encoded:    track.Encoded,
		StreamURL:  stringOrEmpty(info.URI),
		SourceURL:  stringOrEmpty(info.URI),
		ArtworkURL: stringOrEmpty(info.ArtworkURL),
		SourceName: info.SourceName,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		IsStream:   info.IsStream,
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ensure LavalinkResolver implements ports.TrackResolver.
var _ ports.TrackResolver = (*LavalinkResolver)(nil)
