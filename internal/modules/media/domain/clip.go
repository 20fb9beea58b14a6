package domain

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxClipLength is the longest clip /audioclip produces.
	MaxClipLength = 5 * time.Minute
	// DefaultClipLength is used when no length is given.
	DefaultClipLength = 30 * time.Second

	// Timestamps saturate here instead of overflowing time.Duration.
	maxTimestamp = 7 * 24 * time.Hour
)

var (
	shortLinkRe  = regexp.MustCompile(`(?i)^https?://(?:www\.)?youtu\.be/([\w-]{11})(?:\?.*)?$`)
	shortsLinkRe = regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?youtube\.com/shorts/([\w-]{11})(?:\?.*)?$`)
)

// ShareLink is a parsed youtu.be or shorts link.
type ShareLink struct {
	VideoID string
	Start   time.Duration
}

// ParseShareLink accepts youtu.be/<id> and youtube.com/shorts/<id> links.
// The start offset comes from the t parameter, either plain seconds or the
// 1h2m3s form. A malformed t is treated as zero.
func ParseShareLink(rawURL string) (*ShareLink, error) {
	rawURL = strings.TrimSpace(rawURL)

	m := shortLinkRe.FindStringSubmatch(rawURL)
	if m == nil {
		m = shortsLinkRe.FindStringSubmatch(rawURL)
	}
	if m == nil {
		return nil, ErrNotShareLink
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, ErrNotShareLink
	}
	query := u.Query()
	if query.Has("list") {
		return nil, ErrPlaylistLink
	}

	link := &ShareLink{VideoID: m[1]}
	if t, ok := parseStartParam(query.Get("t")); ok {
		link.Start = t
	}
	return link, nil
}

// parseStartParam parses "90", "1m30s" or "1h2m3s". Trailing digits without
// a unit count as seconds.
func parseStartParam(raw string) (time.Duration, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	if strings.TrimLeft(s, "0123456789") == "" {
		return scaled(parseCount(s), time.Second), true
	}

	var total time.Duration
	num := ""
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			num += string(ch)
		case num != "" && (ch == 'h' || ch == 'm' || ch == 's'):
			total = min(total+scaled(parseCount(num), unitOf(ch)), maxTimestamp)
			num = ""
		default:
			return 0, false
		}
	}
	if num != "" {
		total = min(total+scaled(parseCount(num), time.Second), maxTimestamp)
	}
	return total, true
}

// parseCount parses a run of digits, saturating instead of failing on
// values too large for an int.
func parseCount(digits string) int {
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	return n
}

// scaled returns n units, capped at maxTimestamp.
func scaled(n int, unit time.Duration) time.Duration {
	if n >= int(maxTimestamp/unit) {
		return maxTimestamp
	}
	return time.Duration(n) * unit
}

func unitOf(ch rune) time.Duration {
	switch ch {
	case 'h':
		return time.Hour
	case 'm':
		return time.Minute
	default:
		return time.Second
	}
}

// ParseClipLength parses the optional length option. Empty selects
// DefaultClipLength.
func ParseClipLength(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultClipLength, nil
	}
	return ParseTimestamp(s)
}

// ParseTimestamp parses SS, MM:SS or HH:MM:SS. Minutes and seconds must be
// below 60 when a larger unit is present.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 3 {
		return 0, ErrInvalidTimestamp
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return 0, ErrInvalidTimestamp
		}
		nums[i] = parseCount(p)
	}

	var hh, mm, ss int
	switch len(nums) {
	case 1:
		ss = nums[0]
	case 2:
		mm, ss = nums[0], nums[1]
	case 3:
		hh, mm, ss = nums[0], nums[1], nums[2]
	}
	if len(nums) > 1 && (ss >= 60 || mm >= 60) {
		return 0, ErrInvalidTimestamp
	}

	total := scaled(hh, time.Hour) + scaled(mm, time.Minute) + scaled(ss, time.Second)
	return min(total, maxTimestamp), nil
}

// ClipWindow is the part of a video to cut.
type ClipWindow struct {
	Start  time.Duration
	Length time.Duration
}

// NewClipWindow clamps length to [1s, MaxClipLength] and trims it to the
// video. An unknown (zero) duration skips the trimming.
func NewClipWindow(start, length, duration time.Duration) (ClipWindow, error) {
	start = max(start, 0)
	length = min(max(length, time.Second), MaxClipLength)

	if duration > 0 {
		if start >= duration {
			return ClipWindow{}, ErrStartBeyondEnd
		}
		length = min(length, duration-start)
	}
	return ClipWindow{Start: start, Length: length}, nil
}

// PostprocessorArgs returns the ffmpeg arguments that cut the window.
func (w ClipWindow) PostprocessorArgs() string {
	return "ffmpeg:-ss " + formatSeconds(w.Start) + " -t " + formatSeconds(w.Length)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}
