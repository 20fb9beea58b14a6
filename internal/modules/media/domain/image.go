package domain

import "fmt"

// ResizeMode decides how the aspect ratio is handled.
type ResizeMode string

const (
	// ResizeFit keeps the aspect ratio and fits inside the box.
	ResizeFit ResizeMode = "fit"
	// ResizeCover keeps the aspect ratio and crops the overflow.
	ResizeCover ResizeMode = "cover"
	// ResizePad fits inside the box, then pads to the exact size.
	ResizePad ResizeMode = "pad"
	// ResizeStretch ignores the aspect ratio.
	ResizeStretch ResizeMode = "stretch"
)

// MaxImageDimension bounds both requested width and height.
const MaxImageDimension = 4096

// ParseResizeMode parses a mode name; empty selects ResizeFit.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch m := ResizeMode(s); m {
	case "":
		return ResizeFit, nil
	case ResizeFit, ResizeCover, ResizePad, ResizeStretch:
		return m, nil
	default:
		return "", ErrInvalidResizeMode
	}
}

// ResizeRequest describes one resize.
type ResizeRequest struct {
	Width  int
	Height int
	Mode   ResizeMode
}

// Validate checks the requested dimensions.
func (r ResizeRequest) Validate() error {
	if r.Width < 1 || r.Width > MaxImageDimension || r.Height < 1 || r.Height > MaxImageDimension {
		return ErrInvalidDimensions
	}
	return nil
}

// OutputName returns the file name of the resized image.
func (r ResizeRequest) OutputName() string {
	return fmt.Sprintf("resized_%dx%d.png", r.Width, r.Height)
}

// ContainSize returns the largest size with the aspect ratio of w x h that
// fits in the box, scaling up as well as down. Both sides are at least 1.
func ContainSize(w, h, boxW, boxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}
	// Compare w/h against boxW/boxH without floating point.
	if w*boxH >= h*boxW {
		return boxW, max(1, (h*boxW+w/2)/w)
	}
	return max(1, (w*boxH+h/2)/h), boxH
}
