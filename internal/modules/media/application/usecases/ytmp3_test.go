package usecases

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYtMp3Service_Download(t *testing.T) {
	downloader := &fakeDownloader{info: &domain.VideoInfo{ID: "dQw4w9WgXcQ", Title: "Song: Live?", Duration: 3 * time.Minute}}
	svc := NewYtMp3Service(downloader, NewDownloadGuard(0), workerpool.New(2), "downloads")

	file, err := svc.Download(context.Background(), YtMp3Input{
		UserID: snowflake.ID(1),
		URL:    "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)

	req := downloader.lastRequest()
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", req.URL)
	assert.Equal(t, "downloads", req.Dir)
	assert.Equal(t, "Song_ Live.mp3", req.FileName)
	assert.Nil(t, req.Clip)

	assert.Equal(t, filepath.Join("downloads", "Song_ Live.mp3"), file.Path)
	assert.Equal(t, "Song_ Live.mp3", file.Name)
}

func TestYtMp3Service_Errors(t *testing.T) {
	infoErr := &domain.DownloadError{URL: "x", Reason: "Video unavailable"}

	tests := []struct {
		name       string
		url        string
		downloader *fakeDownloader
		check      func(t *testing.T, err error)
	}{
		{
			name:       "invalid url",
			url:        "https://example.com/video",
			downloader: &fakeDownloader{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidYouTubeURL)
			},
		},
		{
			name:       "live",
			url:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			downloader: &fakeDownloader{info: &domain.VideoInfo{IsLive: true}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrLiveStream)
			},
		},
		{
			name:       "too long",
			url:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			downloader: &fakeDownloader{info: &domain.VideoInfo{Duration: 10 * time.Minute}},
			check: func(t *testing.T, err error) {
				var tooLong *domain.VideoTooLongError
				assert.True(t, errors.As(err, &tooLong))
			},
		},
		{
			name:       "metadata failure",
			url:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			downloader: &fakeDownloader{infoErr: infoErr},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, infoErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewYtMp3Service(tt.downloader, NewDownloadGuard(0), workerpool.New(1), t.TempDir())
			_, err := svc.Download(context.Background(), YtMp3Input{UserID: snowflake.ID(1), URL: tt.url})
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, tt.downloader.requests)
		})
	}
}

func TestYtMp3Service_OneDownloadPerUser(t *testing.T) {
	downloader := &fakeDownloader{
		info:    &domain.VideoInfo{Title: "a", Duration: time.Minute},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	guard := NewDownloadGuard(0)
	svc := NewYtMp3Service(downloader, guard, workerpool.New(2), t.TempDir())
	input := YtMp3Input{UserID: snowflake.ID(7), URL: "https://youtu.be/dQw4w9WgXcQ"}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Download(context.Background(), input)
		done <- err
	}()
	<-downloader.started

	_, err := svc.Download(context.Background(), input)
	assert.ErrorIs(t, err, ErrDownloadInProgress)

	close(downloader.block)
	require.NoError(t, <-done)
	assert.False(t, guard.Active(input.UserID))
}
