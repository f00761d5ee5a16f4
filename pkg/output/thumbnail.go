package output

import (
	"image"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down so neither side exceeds maxSize, keeping the
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
}
