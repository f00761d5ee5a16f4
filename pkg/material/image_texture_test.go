package material

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TestImageTextureEvaluate tests basic texture sampling
func TestImageTextureEvaluate(t *testing.T) {
	// Layout:
	//   white black
	//   black white
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	pixels := []core.Vec3{
		white, black, // Row 0 (top in image coords)
		black, white, // Row 1 (bottom in image coords)
	}
	texture := NewImageTexture(2, 2, pixels)

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"bottom-left", core.NewVec2(0.1, 0.1), black},
		{"bottom-right", core.NewVec2(0.9, 0.1), white},
		{"top-left", core.NewVec2(0.1, 0.9), white},
		{"top-right", core.NewVec2(0.9, 0.9), black},
		{"wrapped negative", core.NewVec2(-0.9, 0.1), black},
		{"wrapped above one", core.NewVec2(1.9, 1.9), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := texture.Evaluate(tt.uv, core.Vec3{}); got != tt.expected {
				t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
			}
		})
	}
}

func TestImageTextureEmpty(t *testing.T) {
	texture := NewImageTexture(0, 0, nil)
	if got := texture.Evaluate(core.NewVec2(0.5, 0.5), core.Vec3{}); got != (core.Vec3{}) {
		t.Errorf("Expected black for empty texture, got %v", got)
	}
}

func TestImageTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 128, A: 255})

	texture := NewImageTextureFromImage(img)
	if texture.Width != 2 || texture.Height != 1 {
		t.Fatalf("Expected 2x1 texture, got %dx%d", texture.Width, texture.Height)
	}

	red := texture.Evaluate(core.NewVec2(0.25, 0.5), core.Vec3{})
	if red != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected pure red, got %v", red)
	}

	// 128/255 squared back to linear
	green := texture.Evaluate(core.NewVec2(0.75, 0.5), core.Vec3{})
	expected := (128.0 / 255.0) * (128.0 / 255.0)
	if math.Abs(green.Y-expected) > 1e-9 {
		t.Errorf("Expected linear green %f, got %f", expected, green.Y)
	}
}

func TestCheckerTexture(t *testing.T) {
	odd := core.NewVec3(0.2, 0.3, 0.1)
	even := core.NewVec3(0.9, 0.9, 0.9)
	checker := NewCheckerTexture(odd, even)

	if got := checker.Evaluate(core.Vec2{}, core.NewVec3(0.1, 0.1, 0.1)); got != even {
		t.Errorf("Expected even color, got %v", got)
	}
	// Flipping one coordinate's sign flips the product's sign
	if got := checker.Evaluate(core.Vec2{}, core.NewVec3(-0.1, 0.1, 0.1)); got != odd {
		t.Errorf("Expected odd color, got %v", got)
	}
}
