package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

var videoIDRe = regexp.MustCompile(`^[\w-]{11}$`)

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
	"www.youtu.be":      true,
}

// MaxDownloadDuration is the longest video /ytmp3 converts.
const MaxDownloadDuration = 7 * time.Minute

// VideoInfo is the metadata fetched before a download starts.
type VideoInfo struct {
	ID       string
	Title    string
	Duration time.Duration
	IsLive   bool
}

// CheckDownloadable rejects live streams and videos over limit. A zero limit
// disables the length check.
func (v *VideoInfo) CheckDownloadable(limit time.Duration) error {
	if v.IsLive {
		return ErrLiveStream
	}
	if limit > 0 && v.Duration > limit {
		return &VideoTooLongError{Duration: v.Duration, Limit: limit}
	}
	return nil
}

// ParseVideoURL extracts the video ID from a watch, youtu.be, embed or
// shorts URL.
func ParseVideoURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || !youtubeHosts[strings.ToLower(u.Hostname())] {
		return "", ErrInvalidYouTubeURL
	}

	id, err := youtube.ExtractVideoID(rawURL)
	if err != nil || !videoIDRe.MatchString(id) {
		return "", ErrInvalidYouTubeURL
	}
	return id, nil
}

// CanonicalURL returns the watch URL for a video ID.
func CanonicalURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
