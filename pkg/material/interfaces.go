package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Material decides what happens to a ray arriving at a surface.
// Implementations are stateless apart from their parameters and are shared
// read-only between render workers.
type Material interface {
	// Scatter returns the outgoing ray and its attenuation, or false when the
	// ray is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Unit surface normal, pointing out of the primitive
	UV       core.Vec2 // Surface coordinates (barycentric u,v for triangles)
	Material Material  // Material of the hit object
}
