package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewUVDebugTexture bakes a texture showing UV coordinates as colors.
// U maps to red, V maps to green; on triangles this shows the barycentrics.
func NewUVDebugTexture(width, height int) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		// Row 0 is the top of the image, where v = 1
		v := 1 - unitStep(y, height)
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.NewVec3(unitStep(x, width), v, 0.0)
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewGradientTexture bakes a vertical gradient from top (v=1) to bottom (v=0)
func NewGradientTexture(width, height int, top, bottom core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		t := unitStep(y, height)
		color := top.Multiply(1.0 - t).Add(bottom.Multiply(t))

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// unitStep maps i in [0, n) onto [0, 1]
func unitStep(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
