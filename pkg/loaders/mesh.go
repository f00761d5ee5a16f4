package loaders

import (
	"fmt"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// degenerateArea is the smallest triangle area kept on import
const degenerateArea = 1e-12

// MeshOptions controls how an imported mesh is placed in the scene
type MeshOptions struct {
	Material material.Material // Applied to every triangle
	FitSize  float64           // Longest side after import; <= 0 keeps the file's units
	Center   core.Vec3         // Where the fitted mesh is centered
	RotateY  float64           // Rotation about the Y axis in degrees, applied before moving to Center
}

// MeshData is the result of importing a mesh file
type MeshData struct {
	Triangles []geometry.Shape
	Skipped   int       // Degenerate triangles dropped on import
	Bounds    core.AABB // Bounds of the kept triangles after transformation
}

// LoadMesh reads an OBJ, STL, PLY or 3DS file (chosen by extension) and
// converts it into triangles ready for BVH construction
func LoadMesh(path string, opts MeshOptions) (*MeshData, error) {
	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", path, err)
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s: %w", path, core.ErrEmptyScene)
	}

	transform := fitTransform(mesh.BoundingBox(), opts)

	data := &MeshData{Triangles: make([]geometry.Shape, 0, len(mesh.Triangles))}
	for _, tri := range mesh.Triangles {
		v0 := applyTransform(transform, tri.V1.Position)
		v1 := applyTransform(transform, tri.V2.Position)
		v2 := applyTransform(transform, tri.V3.Position)

		if v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()*0.5 < degenerateArea {
			data.Skipped++
			continue
		}

		triangle := geometry.NewTriangle(v0, v1, v2, opts.Material)
		box, _ := triangle.BoundingBox(0, 0)
		if len(data.Triangles) == 0 {
			data.Bounds = box
		} else {
			data.Bounds = core.SurroundingBox(data.Bounds, box)
		}
		data.Triangles = append(data.Triangles, triangle)
	}

	if len(data.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s: all %d triangles are degenerate: %w", path, data.Skipped, core.ErrEmptyScene)
	}

	return data, nil
}

// fitTransform centers the mesh on the origin, scales its longest side to
// FitSize, rotates it about Y and then moves it to Center. With FitSize <= 0
// only the rotation and translation apply, in the file's own coordinates.
func fitTransform(bounds fauxgl.Box, opts MeshOptions) mgl64.Mat4 {
	rotate := mgl64.HomogRotate3DY(mgl64.DegToRad(opts.RotateY))
	place := mgl64.Translate3D(opts.Center.X, opts.Center.Y, opts.Center.Z)

	if opts.FitSize <= 0 {
		return place.Mul4(rotate)
	}

	size := bounds.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if longest > 0 {
		scale = opts.FitSize / longest
	}

	center := bounds.Center()
	recenter := mgl64.Translate3D(-center.X, -center.Y, -center.Z)

	return place.Mul4(rotate).Mul4(mgl64.Scale3D(scale, scale, scale)).Mul4(recenter)
}

func applyTransform(m mgl64.Mat4, p fauxgl.Vector) core.Vec3 {
	v := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, m)
	return core.NewVec3(v[0], v[1], v[2])
}
