package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Every primitive, the exhaustive ShapeList and BVH nodes satisfy it, so
// acceleration nodes and leaves are queried the same way.
type Shape interface {
	// Hit returns the nearest intersection with t strictly inside (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	// BoundingBox returns a box enclosing the shape over the shutter interval,
	// or false if the shape has no finite extent
	BoundingBox(time0, time1 float64) (core.AABB, bool)
}
