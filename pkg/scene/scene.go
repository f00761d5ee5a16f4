package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig // Suggested settings; callers may override
	World          geometry.Shape          // Acceleration structure over every shape
	Shapes         int                     // Number of shapes the world was built from
	Time0, Time1   float64                 // Shutter interval the BVH was built for
	BVHStats       geometry.BVHStats
}

// Options adjusts a built-in scene at construction time
type Options struct {
	AspectRatio float64     // Overrides the scene's default when > 0
	Seed        int64       // Seeds scene generation and BVH construction
	MeshPath    string      // Mesh file for the mesh scene
	FitSize     float64     // Longest side of an imported mesh; <= 0 uses the scene default
	TexturePath string      // Optional image for the textures scene
	Logger      core.Logger // Receives construction messages; nil discards them
}

func (o Options) logger() core.Logger {
	if o.Logger == nil {
		return core.NopLogger{}
	}
	return o.Logger
}

// New builds the acceleration structure over shapes for the camera's shutter
// interval. Construction fails if any shape has no bounding box.
func New(name string, shapes []geometry.Shape, cameraConfig renderer.CameraConfig, random *rand.Rand) (*Scene, error) {
	world, err := geometry.BuildBVH(shapes, cameraConfig.Time0, cameraConfig.Time1, random)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	return &Scene{
		Name:           name,
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		World:          world,
		Shapes:         len(shapes),
		Time0:          cameraConfig.Time0,
		Time1:          cameraConfig.Time1,
		BVHStats:       geometry.CollectBVHStats(world),
	}, nil
}

// applyOptions merges caller overrides into a scene's default camera
func applyOptions(config renderer.CameraConfig, opts Options) renderer.CameraConfig {
	if opts.AspectRatio > 0 {
		config.AspectRatio = opts.AspectRatio
	}
	return config
}

// newGroundSphere creates the huge sphere the built-in scenes stand on
func newGroundSphere(mat material.Material) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, mat)
}
