package domain

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors. Their messages are shown to users as-is.
var (
	ErrInvalidYouTubeURL = errors.New("that doesn't look like a valid YouTube URL")
	ErrNotShareLink      = errors.New("only share links are accepted (youtu.be/... or youtube.com/shorts/...)")
	ErrPlaylistLink      = errors.New("playlist links are not supported")
	ErrInvalidTimestamp  = errors.New("use SS, MM:SS, or HH:MM:SS")
	ErrLiveStream        = errors.New("live streams aren't supported, please provide a regular uploaded video")
	ErrStartBeyondEnd    = errors.New("start time is beyond the end of the video")
	ErrInvalidResizeMode = errors.New("mode must be one of fit, cover, pad or stretch")
	ErrInvalidDimensions = errors.New("width and height must be between 1 and 4096")
	ErrNotAnImage        = errors.New("please attach a valid image file")
	ErrImageTooLarge     = errors.New("the image is too large, please upload a smaller one")
	ErrUnreadableImage   = errors.New("that image could not be read")
)

// VideoTooLongError is returned when a video exceeds the download limit.
type VideoTooLongError struct {
	Duration time.Duration
	Limit    time.Duration
}

func (e *VideoTooLongError) Error() string {
	return fmt.Sprintf("video is too long: %s (limit is %s)",
		e.Duration.Truncate(time.Second), e.Limit.Truncate(time.Second))
}

// DownloadError is returned when yt-dlp could not fetch or convert a video.
type DownloadError struct {
	URL string
	// Reason is a short, user-presentable explanation. Empty when unknown.
	Reason string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("failed to download %q: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("failed to download %q: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}
