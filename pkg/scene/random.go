package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewRandomScene creates the classic random world: a field of small diffuse,
// metal and glass spheres around three large ones. Diffuse spheres bounce
// upward during the shutter interval.
func NewRandomScene(opts Options) (*Scene, error) {
	cameraConfig := applyOptions(renderer.CameraConfig{
		LookFrom:      core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          30,
		AspectRatio:   3.0 / 2.0,
		Aperture:      0.0,
		FocusDistance: 10.0,
		Time0:         0.0,
		Time1:         1.0,
	}, opts)

	random := rand.New(rand.NewSource(opts.Seed))
	shapes := randomWorld(random)

	s, err := New("random", shapes, cameraConfig, random)
	if err != nil {
		return nil, err
	}
	s.SamplingConfig.SamplesPerPixel = 50

	opts.logger().Printf("Random scene: %d shapes, BVH depth %d\n", s.Shapes, s.BVHStats.MaxDepth)
	return s, nil
}

func randomWorld(random *rand.Rand) []geometry.Shape {
	shapes := []geometry.Shape{
		newGroundSphere(material.NewLambertian(core.NewVec3(0.5, 0.4, 0.5))),
	}

	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())

			// Keep the area around the metal feature sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				)
				center1 := center.Add(core.NewVec3(0, 0.5*random.Float64(), 0))
				shapes = append(shapes, geometry.NewMovingSphere(center, center1, 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				shapes = append(shapes, geometry.NewSphere(center, 0.2, material.NewMetal(albedo, 0.5*random.Float64())))
			default:
				shapes = append(shapes, geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(2, 0.5, 0), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(4, 0.5, 0), 0.5, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return shapes
}
