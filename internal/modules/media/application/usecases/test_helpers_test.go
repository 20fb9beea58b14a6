package usecases

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

type fakeDownloader struct {
	mu sync.Mutex

	info     *domain.VideoInfo
	infoErr  error
	dlErr    error
	requests []ports.AudioDownload

	// block, when set, holds DownloadAudio until closed.
	block   chan struct{}
	started chan struct{}
}

func (d *fakeDownloader) FetchInfo(ctx context.Context, url string) (*domain.VideoInfo, error) {
	if d.infoErr != nil {
		return nil, d.infoErr
	}
	return d.info, nil
}

func (d *fakeDownloader) DownloadAudio(ctx context.Context, req ports.AudioDownload) (string, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	if d.started != nil {
		close(d.started)
	}
	if d.block != nil {
		select {
		case <-d.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if d.dlErr != nil {
		return "", d.dlErr
	}
	return filepath.Join(req.Dir, req.FileName), nil
}

func (d *fakeDownloader) lastRequest() ports.AudioDownload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

type fakeFetcher struct {
	data []byte
	err  error
	url  string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	f.url = url
	return f.data, f.err
}

type fakeTransformer struct {
	req domain.ResizeRequest
	err error
}

func (t *fakeTransformer) Transform(data []byte, req domain.ResizeRequest) ([]byte, error) {
	t.req = req
	if t.err != nil {
		return nil, t.err
	}
	return append([]byte("png:"), data...), nil
}
