package domain

import (
	"strings"
)

// SearchSource is the search prefix understood by both yt-dlp and Lavalink.
type SearchSource string

const (
	SourceYouTube SearchSource = "ytsearch"
	// SourceDirect marks a URL that is loaded as-is.
	SourceDirect SearchSource = ""
)

// SearchQuery is user input normalized for a resolver.
type SearchQuery struct {
	Query  string
	Source SearchSource
	IsURL  bool
}

// NewSearchQuery creates a SearchQuery from user input, searching YouTube
// unless the input is a URL.
func NewSearchQuery(input string) *SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return &SearchQuery{Query: input, Source: SourceDirect, IsURL: true}
	}
	return &SearchQuery{Query: input, Source: SourceYouTube}
}

// Identifier returns the string handed to the resolver backend: the URL
// itself (with a scheme) or "<source>:<terms>".
func (q *SearchQuery) Identifier() string {
	if q.IsURL {
		if strings.HasPrefix(q.Query, "www.") {
			return "https://" + q.Query
		}
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
