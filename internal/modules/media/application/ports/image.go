package ports

import (
	"context"

	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

// ImageFetcher downloads an attachment.
type ImageFetcher interface {
	// Fetch fails when the body is larger than maxBytes.
	Fetch(ctx context.Context, url string, maxBytes int64) ([]byte, error)
}

// ImageTransformer resizes encoded image bytes and returns PNG bytes.
type ImageTransformer interface {
	Transform(data []byte, req domain.ResizeRequest) ([]byte, error)
}
