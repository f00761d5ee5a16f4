package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewTextureScene creates a row of spheres demonstrating texture mapping.
// With TexturePath set the middle sphere wears that image.
func NewTextureScene(opts Options) (*Scene, error) {
	cameraConfig := applyOptions(renderer.CameraConfig{
		LookFrom:    core.NewVec3(0, 2, 10),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 16.0 / 9.0,
		VFov:        30.0,
		Aperture:    0.0, // No DOF for texture clarity
	}, opts)

	var center material.ColorSource = material.NewUVDebugTexture(256, 256)
	if opts.TexturePath != "" {
		texture, err := loaders.LoadImageTexture(opts.TexturePath)
		if err != nil {
			return nil, err
		}
		opts.logger().Printf("Loaded texture %s (%dx%d)\n", opts.TexturePath, texture.Width, texture.Height)
		center = texture
	}

	redGreenGradient := material.NewGradientTexture(256, 256,
		core.NewVec3(1.0, 0.2, 0.2), // Red (top)
		core.NewVec3(0.2, 1.0, 0.2), // Green (bottom)
	)
	checker := material.NewCheckerTexture(
		core.NewVec3(0.2, 0.2, 0.8),
		core.NewVec3(0.9, 0.9, 0.9),
	)

	shapes := []geometry.Shape{
		newGroundSphere(material.NewTexturedLambertian(checker)),
		geometry.NewSphere(core.NewVec3(-2.5, 1, 0), 1, material.NewTexturedLambertian(redGreenGradient)),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewTexturedLambertian(center)),
		geometry.NewSphere(core.NewVec3(2.5, 1, 0), 1, material.NewLayered(
			material.NewDielectric(1.5),
			material.NewTexturedLambertian(material.NewUVDebugTexture(64, 64)),
		)),
	}

	return New("textures", shapes, cameraConfig, rand.New(rand.NewSource(opts.Seed)))
}
