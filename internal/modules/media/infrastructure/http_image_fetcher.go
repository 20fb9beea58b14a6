package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

const fetchTimeout = 30 * time.Second

// HTTPImageFetcher downloads attachments from the Discord CDN.
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates a new HTTPImageFetcher.
func NewHTTPImageFetcher() *HTTPImageFetcher {
	return &HTTPImageFetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch reads at most maxBytes from url. A maxBytes of 0 means no limit.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: unexpected status %s", resp.Status)
	}
	if maxBytes > 0 && resp.ContentLength > maxBytes {
		return nil, domain.ErrImageTooLarge
	}

	body := io.Reader(resp.Body)
	if maxBytes > 0 {
		body = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, domain.ErrImageTooLarge
	}
	return data, nil
}

// Ensure HTTPImageFetcher implements ports.ImageFetcher.
var _ ports.ImageFetcher = (*HTTPImageFetcher)(nil)
