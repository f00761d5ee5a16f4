package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewTrianglesScene creates pyramids, a glass prism and a turned box built
// from individual triangles
func NewTrianglesScene(opts Options) (*Scene, error) {
	cameraConfig := applyOptions(renderer.CameraConfig{
		LookFrom:    core.NewVec3(3, 2.5, 5),
		LookAt:      core.NewVec3(0, 0.7, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        35,
		AspectRatio: 16.0 / 9.0,
	}, opts)

	shapes := []geometry.Shape{
		newGroundSphere(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	}

	// Barycentric debug colors on the pyramid faces
	faces := material.NewTexturedLambertian(material.NewUVDebugTexture(64, 64))
	shapes = append(shapes, pyramid(core.NewVec3(-0.6, 0, 0), 1.2, 1.4, faces)...)

	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.1)
	shapes = append(shapes, pyramid(core.NewVec3(1.4, 0, -0.8), 0.8, 0.6, gold)...)

	glass := material.NewDielectric(1.5)
	shapes = append(shapes, prism(core.NewVec3(0.9, 0, 1.0), 0.5, 0.9, glass)...)

	blue := material.NewLambertian(core.NewVec3(0.2, 0.3, 0.7))
	shapes = append(shapes, geometry.NewBox(core.NewVec3(-1.9, 0.35, 0.9), core.NewVec3(0.35, 0.35, 0.35), 30, blue)...)

	return New("triangles", shapes, cameraConfig, rand.New(rand.NewSource(opts.Seed)))
}

// pyramid returns the four sides of a square pyramid standing on base.
// Faces wind counter-clockwise seen from outside.
func pyramid(base core.Vec3, width, height float64, mat material.Material) []geometry.Shape {
	h := width / 2
	apex := base.Add(core.NewVec3(0, height, 0))
	c0 := base.Add(core.NewVec3(-h, 0, h))
	c1 := base.Add(core.NewVec3(h, 0, h))
	c2 := base.Add(core.NewVec3(h, 0, -h))
	c3 := base.Add(core.NewVec3(-h, 0, -h))

	return []geometry.Shape{
		geometry.NewTriangle(c0, c1, apex, mat),
		geometry.NewTriangle(c1, c2, apex, mat),
		geometry.NewTriangle(c2, c3, apex, mat),
		geometry.NewTriangle(c3, c0, apex, mat),
	}
}

// prism returns a closed triangular prism lying along Z
func prism(base core.Vec3, size, length float64, mat material.Material) []geometry.Shape {
	h := size / 2
	l := length / 2
	a0 := base.Add(core.NewVec3(-h, 0, l))
	b0 := base.Add(core.NewVec3(h, 0, l))
	c0 := base.Add(core.NewVec3(0, size, l))
	a1 := base.Add(core.NewVec3(-h, 0, -l))
	b1 := base.Add(core.NewVec3(h, 0, -l))
	c1 := base.Add(core.NewVec3(0, size, -l))

	return []geometry.Shape{
		// End caps
		geometry.NewTriangle(a0, b0, c0, mat),
		geometry.NewTriangle(b1, a1, c1, mat),
		// Bottom
		geometry.NewTriangle(a0, a1, b1, mat),
		geometry.NewTriangle(a0, b1, b0, mat),
		// Right side
		geometry.NewTriangle(b0, b1, c1, mat),
		geometry.NewTriangle(b0, c1, c0, mat),
		// Left side
		geometry.NewTriangle(a1, a0, c0, mat),
		geometry.NewTriangle(a1, c0, c1, mat),
	}
}
