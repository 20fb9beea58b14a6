package usecases

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
)

// YtMp3Service converts whole YouTube videos to MP3.
type YtMp3Service struct {
	downloader ports.AudioDownloader
	guard      *DownloadGuard
	pool       *workerpool.Pool
	dir        string
}

// NewYtMp3Service creates a new YtMp3Service writing into dir.
func NewYtMp3Service(
	downloader ports.AudioDownloader,
	guard *DownloadGuard,
	pool *workerpool.Pool,
	dir string,
) *YtMp3Service {
	return &YtMp3Service{
		downloader: downloader,
		guard:      guard,
		pool:       pool,
		dir:        dir,
	}
}

// Download fetches the video's audio as an MP3 file. The caller removes
// the file after uploading it.
func (s *YtMp3Service) Download(ctx context.Context, input YtMp3Input) (*DownloadedFile, error) {
	id, err := domain.ParseVideoURL(input.URL)
	if err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(input.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	url := domain.CanonicalURL(id)
	return workerpool.Submit(ctx, s.pool, func(ctx context.Context) (*DownloadedFile, error) {
		info, err := s.downloader.FetchInfo(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := info.CheckDownloadable(domain.MaxDownloadDuration); err != nil {
			return nil, err
		}

		path, err := s.downloader.DownloadAudio(ctx, ports.AudioDownload{
			URL:      url,
			Dir:      s.dir,
			FileName: domain.SafeFilename(info.Title, ".mp3"),
		})
		if err != nil {
			return nil, err
		}

		slog.Info("downloaded audio", "user", input.UserID, "video", id, "path", path)
		return &DownloadedFile{Path: path, Name: filepath.Base(path)}, nil
	})
}
