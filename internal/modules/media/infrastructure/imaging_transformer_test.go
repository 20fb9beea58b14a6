package infrastructure

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sglre6355/mediabot/internal/modules/media/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImagingTransformer_Transform(t *testing.T) {
	src := encodeTestPNG(t, 200, 100)

	tests := []struct {
		mode  domain.ResizeMode
		wantW int
		wantH int
	}{
		{mode: domain.ResizeFit, wantW: 50, wantH: 25},
		{mode: domain.ResizeCover, wantW: 50, wantH: 50},
		{mode: domain.ResizePad, wantW: 50, wantH: 50},
		{mode: domain.ResizeStretch, wantW: 50, wantH: 50},
	}

	transformer := NewImagingTransformer()
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out, err := transformer.Transform(src, domain.ResizeRequest{Width: 50, Height: 50, Mode: tt.mode})
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, img.Bounds().Dx())
			assert.Equal(t, tt.wantH, img.Bounds().Dy())
		})
	}
}

func TestImagingTransformer_PadIsTransparent(t *testing.T) {
	out, err := NewImagingTransformer().Transform(encodeTestPNG(t, 200, 100),
		domain.ResizeRequest{Width: 50, Height: 50, Mode: domain.ResizePad})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	_, _, _, top := img.At(25, 0).RGBA()
	_, _, _, middle := img.At(25, 25).RGBA()
	assert.Zero(t, top)
	assert.NotZero(t, middle)
}

func TestImagingTransformer_FitUpscales(t *testing.T) {
	out, err := NewImagingTransformer().Transform(encodeTestPNG(t, 10, 20),
		domain.ResizeRequest{Width: 100, Height: 100, Mode: domain.ResizeFit})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestImagingTransformer_Unreadable(t *testing.T) {
	_, err := NewImagingTransformer().Transform([]byte("not an image"),
		domain.ResizeRequest{Width: 10, Height: 10, Mode: domain.ResizeFit})
	assert.ErrorIs(t, err, domain.ErrUnreadableImage)
}
