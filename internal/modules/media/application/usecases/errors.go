package usecases

import "errors"

// Errors returned by the media use cases. Their messages are shown to users
// as-is.
var (
	// ErrDownloadInProgress is returned when the user already has a download running.
	ErrDownloadInProgress = errors.New("you already have a download in progress")

	// ErrRateLimited is returned when too many downloads were started recently.
	ErrRateLimited = errors.New("too many downloads right now, please try again in a minute")
)
