package usecases

import (
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
)

// DownloadedFile is a file written for upload.
type DownloadedFile struct {
	Path string
	Name string
}

// Remove deletes the file once it has been uploaded.
func (f *DownloadedFile) Remove() {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove downloaded file", "path", f.Path, "error", err)
	}
}

// YtMp3Input contains the input for the ytmp3 use case.
type YtMp3Input struct {
	UserID snowflake.ID
	URL    string
}

// AudioClipInput contains the input for the audioclip use case.
type AudioClipInput struct {
	UserID snowflake.ID
	URL    string
	// Length is SS, MM:SS or HH:MM:SS. Empty selects the default.
	Length string
	// FileName is optional and without extension.
	FileName string
}

// ResizeImageInput contains the input for the resize_image use case.
type ResizeImageInput struct {
	URL         string
	ContentType string
	Size        int
	Width       int
	Height      int
	Mode        string
}

// ResizedImage is an encoded PNG ready for upload.
type ResizedImage struct {
	Name string
	Data []byte
}
