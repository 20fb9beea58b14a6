package ports

import (
	"context"

	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

// AudioDownload describes one MP3 download.
type AudioDownload struct {
	URL string
	// Dir is created when missing.
	Dir string
	// FileName is the desired name including the .mp3 extension. The
	// downloader picks a free variant when it is taken.
	FileName string
	// Clip is nil for the whole video.
	Clip *domain.ClipWindow
}

// AudioDownloader fetches video metadata and downloads audio as MP3.
type AudioDownloader interface {
	FetchInfo(ctx context.Context, url string) (*domain.VideoInfo, error)

	// DownloadAudio returns the path of the written file.
	DownloadAudio(ctx context.Context, req AudioDownload) (string, error)
}
