package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Vec3
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	return s.Color
}

// CheckerTexture is a solid 3D checker pattern alternating between two color sources
type CheckerTexture struct {
	Odd   ColorSource
	Even  ColorSource
	Scale float64 // Spatial frequency, 10 gives cells of ~0.31 world units
}

// NewCheckerTexture creates a checker alternating two solid colors
func NewCheckerTexture(odd, even core.Vec3) *CheckerTexture {
	return &CheckerTexture{
		Odd:   NewSolidColor(odd),
		Even:  NewSolidColor(even),
		Scale: 10,
	}
}

// Evaluate picks odd or even by the sign of sin(sx)·sin(sy)·sin(sz)
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	sines := math.Sin(c.Scale*point.X) * math.Sin(c.Scale*point.Y) * math.Sin(c.Scale*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}
