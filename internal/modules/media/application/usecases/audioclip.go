package usecases

import (
	"cmp"
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
)

// AudioClipService cuts short MP3 clips out of YouTube share links.
type AudioClipService struct {
	downloader ports.AudioDownloader
	guard      *DownloadGuard
	pool       *workerpool.Pool
	dir        string
}

// NewAudioClipService creates a new AudioClipService writing into dir.
func NewAudioClipService(
	downloader ports.AudioDownloader,
	guard *DownloadGuard,
	pool *workerpool.Pool,
	dir string,
) *AudioClipService {
	return &AudioClipService{
		downloader: downloader,
		guard:      guard,
		pool:       pool,
		dir:        dir,
	}
}

// Clip downloads the requested window of the video. The start comes from
// the link's t parameter. The caller removes the file after uploading it.
func (s *AudioClipService) Clip(ctx context.Context, input AudioClipInput) (*DownloadedFile, error) {
	link, err := domain.ParseShareLink(input.URL)
	if err != nil {
		return nil, err
	}
	length, err := domain.ParseClipLength(input.Length)
	if err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(input.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	url := domain.CanonicalURL(link.VideoID)
	return workerpool.Submit(ctx, s.pool, func(ctx context.Context) (*DownloadedFile, error) {
		info, err := s.downloader.FetchInfo(ctx, url)
		if err != nil {
			return nil, err
		}
		if info.IsLive {
			return nil, domain.ErrLiveStream
		}

		window, err := domain.NewClipWindow(link.Start, length, info.Duration)
		if err != nil {
			return nil, err
		}

		name := cmp.Or(strings.TrimSpace(input.FileName), info.Title, "clip")
		path, err := s.downloader.DownloadAudio(ctx, ports.AudioDownload{
			URL:      url,
			Dir:      s.dir,
			FileName: domain.SafeFilename(name, ".mp3"),
			Clip:     &window,
		})
		if err != nil {
			return nil, err
		}

		slog.Info("downloaded clip",
			"user", input.UserID,
			"video", link.VideoID,
			"start", window.Start,
			"length", window.Length,
		)
		return &DownloadedFile{Path: path, Name: filepath.Base(path)}, nil
	})
}
