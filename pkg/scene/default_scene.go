package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewShowcaseScene creates a small scene with one sphere of every material
// kind on a checkered ground
func NewShowcaseScene(opts Options) (*Scene, error) {
	cameraConfig := applyOptions(renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		AspectRatio:   16.0 / 9.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}, opts)

	// Create materials
	checkerGround := material.NewTexturedLambertian(material.NewCheckerTexture(
		core.NewVec3(0.2, 0.3, 0.1),
		core.NewVec3(0.9, 0.9, 0.9),
	))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewDielectric(1.5)

	// Glass coating over a red base
	coatedRed := material.NewLayered(materialGlass, lambertianRed)

	// Half brushed gold, half silver mirror
	mixedMetal := material.NewMix(metalGold, metalSilver, 0.5)

	shapes := []geometry.Shape{
		newGroundSphere(checkerGround),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, coatedRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, materialGlass),
		geometry.NewSphere(core.NewVec3(1.2, 0.15, -0.2), 0.15, mixedMetal),

		// Hollow glass sphere with a blue sphere inside; the negative radius flips the normal
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, materialGlass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), -0.24, materialGlass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, lambertianBlue),
	}

	return New("showcase", shapes, cameraConfig, rand.New(rand.NewSource(opts.Seed)))
}
