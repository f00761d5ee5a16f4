package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewBox returns the 12 triangles of a closed box with outward-facing normals.
// Size holds half-extents, so a size of (1,1,1) creates a 2x2x2 box.
// The box is turned by rotateY degrees about its vertical axis before being
// moved to center.
func NewBox(center, size core.Vec3, rotateY float64, mat material.Material) []Shape {
	// The 8 corners of a unit box centered at origin
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}

	sin, cos := math.Sincos(rotateY * math.Pi / 180)
	for i, c := range corners {
		c = c.MultiplyVec(size)
		c = core.NewVec3(cos*c.X+sin*c.Z, c.Y, -sin*c.X+cos*c.Z)
		corners[i] = c.Add(center)
	}

	// Each face is a corner and two edges whose cross product points outward
	faces := [6][3]int{
		{4, 5, 7}, // Front (Z+)
		{1, 0, 2}, // Back (Z-)
		{5, 1, 6}, // Right (X+)
		{0, 4, 3}, // Left (X-)
		{3, 7, 2}, // Top (Y+)
		{4, 0, 5}, // Bottom (Y-)
	}

	shapes := make([]Shape, 0, 12)
	for _, f := range faces {
		corner := corners[f[0]]
		shapes = append(shapes, NewQuad(corner, corners[f[1]].Subtract(corner), corners[f[2]].Subtract(corner), mat)...)
	}
	return shapes
}
