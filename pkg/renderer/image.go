package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ToImage wraps a rendered RGB buffer in an opaque RGBA image
func ToImage(buf []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, core.ErrInvalidDimensions)
	}
	if len(buf) != width*height*3 {
		return nil, fmt.Errorf("buffer holds %d bytes, want %d for %dx%d", len(buf), width*height*3, width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: buf[i], G: buf[i+1], B: buf[i+2], A: 255})
		}
	}
	return img, nil
}
