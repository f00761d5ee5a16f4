package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewQuad returns a parallelogram defined by a corner and two edge vectors as
// two triangles. The face normal is U × V.
func NewQuad(corner, u, v core.Vec3, mat material.Material) []Shape {
	far := corner.Add(u).Add(v)
	return []Shape{
		NewTriangle(corner, corner.Add(u), far, mat),
		NewTriangle(corner, far, corner.Add(v), mat),
	}
}
