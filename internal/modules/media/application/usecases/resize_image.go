package usecases

import (
	"context"
	"strings"

	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
	"github.com/sglre6355/mediabot/internal/workerpool"
)

// ResizeImageService resizes uploaded images.
type ResizeImageService struct {
	fetcher     ports.ImageFetcher
	transformer ports.ImageTransformer
	pool        *workerpool.Pool
	maxBytes    int64
}

// NewResizeImageService creates a new ResizeImageService accepting images
// up to maxBytes.
func NewResizeImageService(
	fetcher ports.ImageFetcher,
	transformer ports.ImageTransformer,
	pool *workerpool.Pool,
	maxBytes int64,
) *ResizeImageService {
	return &ResizeImageService{
		fetcher:     fetcher,
		transformer: transformer,
		pool:        pool,
		maxBytes:    maxBytes,
	}
}

// Resize validates the attachment and the requested size, then fetches and
// transforms the image on the worker pool.
func (s *ResizeImageService) Resize(ctx context.Context, input ResizeImageInput) (*ResizedImage, error) {
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, domain.ErrNotAnImage
	}
	if s.maxBytes > 0 && int64(input.Size) > s.maxBytes {
		return nil, domain.ErrImageTooLarge
	}

	mode, err := domain.ParseResizeMode(input.Mode)
	if err != nil {
		return nil, err
	}
	req := domain.ResizeRequest{Width: input.Width, Height: input.Height, Mode: mode}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return workerpool.Submit(ctx, s.pool, func(ctx context.Context) (*ResizedImage, error) {
		data, err := s.fetcher.Fetch(ctx, input.URL, s.maxBytes)
		if err != nil {
			return nil, err
		}
		png, err := s.transformer.Transform(data, req)
		if err != nil {
			return nil, err
		}
		return &ResizedImage{Name: req.OutputName(), Data: png}, nil
	})
}
