package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// triangleEpsilon rejects rays (nearly) parallel to the triangle plane
const triangleEpsilon = 1e-7

// triangleBoxPadding gives axis-aligned triangles a non-zero box thickness
const triangleBoxPadding = 1e-4

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle
	normal     core.Vec3         // Cached unit normal
	bbox       core.AABB         // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices.
// The face normal follows the right-hand rule over V0, V1, V2.
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}

	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2).Expand(triangleBoxPadding)

	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	u, v, tParam, ok := t.intersect(ray)
	if !ok || tParam <= tMin || tParam >= tMax {
		return nil, false
	}

	return &material.HitRecord{
		T:        tParam,
		Point:    ray.At(tParam),
		Normal:   t.normal,
		UV:       core.NewVec2(u, v),
		Material: t.Material,
	}, true
}

// intersect returns the barycentric coordinates and line parameter of the
// ray/plane intersection, or false if it falls outside the triangle
func (t *Triangle) intersect(ray core.Ray) (u, v, tParam float64, ok bool) {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	return u, v, f * edge2.Dot(q), true
}

// BoundingBox returns the vertex bounds, padded so flat triangles keep a volume
func (t *Triangle) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return t.bbox, true
}

// Normal returns the triangle's unit face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
