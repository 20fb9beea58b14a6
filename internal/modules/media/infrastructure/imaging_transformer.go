package infrastructure

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/sglre6355/mediabot/internal/modules/media/application/ports"
	"github.com/sglre6355/mediabot/internal/modules/media/domain"
)

// ImagingTransformer resizes images with Lanczos resampling and encodes
// the result as PNG.
type ImagingTransformer struct{}

// NewImagingTransformer creates a new ImagingTransformer.
func NewImagingTransformer() *ImagingTransformer {
	return &ImagingTransformer{}
}

// Transform decodes data, applies the resize mode and returns PNG bytes.
func (t *ImagingTransformer) Transform(data []byte, req domain.ResizeRequest) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreadableImage, err)
	}

	out := resize(src, req)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func resize(src image.Image, req domain.ResizeRequest) image.Image {
	switch req.Mode {
	case domain.ResizeCover:
		return imaging.Fill(src, req.Width, req.Height, imaging.Center, imaging.Lanczos)
	case domain.ResizeStretch:
		return imaging.Resize(src, req.Width, req.Height, imaging.Lanczos)
	case domain.ResizePad:
		canvas := imaging.New(req.Width, req.Height, color.NRGBA{})
		return imaging.PasteCenter(canvas, contain(src, req.Width, req.Height))
	default:
		return contain(src, req.Width, req.Height)
	}
}

// contain scales src to fit the box, enlarging small images as well.
func contain(src image.Image, width, height int) image.Image {
	b := src.Bounds()
	w, h := domain.ContainSize(b.Dx(), b.Dy(), width, height)
	return imaging.Resize(src, w, h, imaging.Lanczos)
}

// Ensure ImagingTransformer implements ports.ImageTransformer.
var _ ports.ImageTransformer = (*ImagingTransformer)(nil)
