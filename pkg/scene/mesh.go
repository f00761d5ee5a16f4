package scene

import (
	"errors"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// defaultMeshSize is the longest side an imported mesh is scaled to
const defaultMeshSize = 2.0

// ErrNoMeshPath is returned when the mesh scene is requested without a file
var ErrNoMeshPath = errors.New("mesh scene requires a mesh file")

// NewMeshScene imports a mesh file, fits it to the origin standing on the ground
// and frames it with a camera
func NewMeshScene(opts Options) (*Scene, error) {
	if opts.MeshPath == "" {
		return nil, ErrNoMeshPath
	}

	size := opts.FitSize
	if size <= 0 {
		size = defaultMeshSize
	}

	data, err := loaders.LoadMesh(opts.MeshPath, loaders.MeshOptions{
		Material: material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7)),
		FitSize:  size,
	})
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	log.Printf("Loaded %s: %d triangles\n", opts.MeshPath, len(data.Triangles))
	if data.Skipped > 0 {
		log.Printf("Skipped %d degenerate triangles\n", data.Skipped)
	}

	// Rest the mesh on the ground
	lift := -data.Bounds.Min.Y
	shapes := make([]geometry.Shape, 0, len(data.Triangles)+1)
	shapes = append(shapes, newGroundSphere(material.NewLambertian(core.NewVec3(0.5, 0.4, 0.5))))
	for _, shape := range data.Triangles {
		tri := shape.(*geometry.Triangle)
		up := core.NewVec3(0, lift, 0)
		shapes = append(shapes, geometry.NewTriangle(tri.V0.Add(up), tri.V1.Add(up), tri.V2.Add(up), tri.Material))
	}

	center := data.Bounds.Center().Add(core.NewVec3(0, lift, 0))
	cameraConfig := applyOptions(renderer.CameraConfig{
		LookFrom:    center.Add(core.NewVec3(size*1.2, size*0.6, size*2.2)),
		LookAt:      center,
		Up:          core.NewVec3(0, 1, 0),
		VFov:        35,
		AspectRatio: 16.0 / 9.0,
	}, opts)

	s, err := New("mesh", shapes, cameraConfig, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}
	log.Printf("BVH: %d nodes, max depth %d\n", s.BVHStats.TotalNodes, s.BVHStats.MaxDepth)
	return s, nil
}
