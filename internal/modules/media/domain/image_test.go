package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResizeMode(t *testing.T) {
	mode, err := ParseResizeMode("")
	require.NoError(t, err)
	assert.Equal(t, ResizeFit, mode)

	for _, m := range []ResizeMode{ResizeFit, ResizeCover, ResizePad, ResizeStretch} {
		got, err := ParseResizeMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err = ParseResizeMode("zoom")
	assert.ErrorIs(t, err, ErrInvalidResizeMode)
}

func TestResizeRequest_Validate(t *testing.T) {
	assert.NoError(t, ResizeRequest{Width: 1, Height: 4096}.Validate())
	assert.ErrorIs(t, ResizeRequest{Width: 0, Height: 10}.Validate(), ErrInvalidDimensions)
	assert.ErrorIs(t, ResizeRequest{Width: 10, Height: 4097}.Validate(), ErrInvalidDimensions)
}

func TestResizeRequest_OutputName(t *testing.T) {
	assert.Equal(t, "resized_640x480.png", ResizeRequest{Width: 640, Height: 480}.OutputName())
}

func TestContainSize(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		boxW, boxH int
		wantW      int
		wantH      int
	}{
		{name: "wide into square", w: 200, h: 100, boxW: 100, boxH: 100, wantW: 100, wantH: 50},
		{name: "tall into square", w: 100, h: 400, boxW: 100, boxH: 100, wantW: 25, wantH: 100},
		{name: "upscale", w: 10, h: 10, boxW: 50, boxH: 100, wantW: 50, wantH: 50},
		{name: "never zero", w: 1000, h: 1, boxW: 10, boxH: 10, wantW: 10, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ContainSize(tt.w, tt.h, tt.boxW, tt.boxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}
