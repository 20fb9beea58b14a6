package domain

import (
	"regexp"
	"strings"
)

const maxFileStemLength = 100

var (
	unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9 _.-]+`)
	spaceRunRe   = regexp.MustCompile(`\s+`)
)

// SafeFilename turns a user or video title into a file name ending in ext.
// Characters outside [A-Za-z0-9 _.-] become underscores and an empty result
// falls back to "clip".
func SafeFilename(name, ext string) string {
	b := strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(b), strings.ToLower(ext)) {
		b = b[:len(b)-len(ext)]
	}
	b = unsafeNameRe.ReplaceAllString(b, "_")
	b = spaceRunRe.ReplaceAllString(b, " ")
	b = strings.Trim(b, " ._-")
	if b == "" {
		b = "clip"
	}
	if len(b) > maxFileStemLength {
		b = b[:maxFileStemLength]
	}
	return b + ext
}
