package infrastructure

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sglre6355/mediabot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/music_player/domain"
)

// ytdlpPrintTemplate is the per-entry output of yt-dlp. Fields are separated
// by tabs in the order parseYtdlpOutput expects.
const ytdlpPrintTemplate = "%(url)s\t%(title)s\t%(webpage_url)s\t%(duration)s\t" +
	"%(uploader)s\t%(is_live)s\t%(id)s\t%(extractor_key)s\t%(thumbnail)s"

const ytdlpFieldCount = 9

// YtdlpResolver resolves queries with the yt-dlp binary found on PATH. The
// returned track carries a direct media URL for ffmpeg.
type YtdlpResolver struct{}

// NewYtdlpResolver creates a new YtdlpResolver.
func NewYtdlpResolver() *YtdlpResolver {
	return &YtdlpResolver{}
}

// Resolve runs yt-dlp for the query and returns the first playable entry.
func (r *YtdlpResolver) Resolve(
	ctx context.Context,
	query *domain.SearchQuery,
) (*domain.Track, error) {
	res, err := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		PlaylistItems("1").
		Print(ytdlpPrintTemplate).
		NoWarnings().
		IgnoreConfig().
		Run(ctx, "--skip-download", query.Identifier())
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.ResolutionError{Query: query.Query, Err: ctx.Err()}
		}
		reason := ""
		if res != nil {
			reason = lastLine(res.Stderr)
		}
		return nil, &domain.ResolutionError{Query: query.Query, Reason: reason, Err: err}
	}

	return parseYtdlpOutput(query.Query, res.Stdout)
}

// parseYtdlpOutput builds a track from the first complete line of yt-dlp
// print output.
func parseYtdlpOutput(query, stdout string) (*domain.Track, error) {
	for line := range strings.SplitSeq(strings.TrimSpace(stdout), "\n") {
		ps := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(ps) < ytdlpFieldCount {
			continue
		}

		if ps[5] == "True" {
			return nil, &domain.ResolutionError{Query: query, Reason: "live streams are not supported"}
		}
		if naOrEmpty(ps[0]) == "" {
			return nil, &domain.ResolutionError{Query: query, Reason: "no playable audio format"}
		}

		title := naOrEmpty(ps[1])
		if title == "" {
			title = naOrEmpty(ps[6])
		}

		return &domain.Track{
			ID:         domain.NewTrackID(),
			Title:      title,
			Artist:     naOrEmpty(ps[4]),
			StreamURL:  ps[0],
			SourceURL:  naOrEmpty(ps[2]),
			ArtworkURL: naOrEmpty(ps[8]),
			SourceName: string(domain.ParseTrackSource(naOrEmpty(ps[7]))),
			Duration:   parseSeconds(ps[3]),
		}, nil
	}

	return nil, &domain.ResolutionError{Query: query, Reason: "no results"}
}

// parseSeconds parses a yt-dlp duration ("212", "212.5" or "NA").
func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

func naOrEmpty(s string) string {
	if s == "NA" {
		return ""
	}
	return s
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimPrefix(s, "ERROR: ")
}

// Ensure YtdlpResolver implements ports.TrackResolver.
var _ ports.TrackResolver = (*YtdlpResolver)(nil)
