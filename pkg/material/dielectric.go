package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter always produces a ray: either the mirror reflection or the refracted
// ray, picked with probability given by the Schlick reflectance.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass absorbs nothing
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	unitDirection := rayIn.Direction.Normalize()
	reflected := unitDirection.Reflect(hit.Normal)

	// The hit normal points out of the primitive; a ray travelling along it is leaving the medium
	var outwardNormal core.Vec3
	var niOverNt, cosine float64
	entering := unitDirection.Dot(hit.Normal) <= 0
	if entering {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / d.RefractiveIndex
		cosine = -unitDirection.Dot(hit.Normal)
	} else {
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
		cosine = unitDirection.Dot(hit.Normal)
	}

	direction := reflected
	if refracted, ok := Refract(unitDirection, outwardNormal, niOverNt); ok {
		if !entering {
			// Schlick is evaluated on the air side of the interface
			cosine = math.Sqrt(1.0 - d.RefractiveIndex*d.RefractiveIndex*(1.0-cosine*cosine))
		}
		if sampler.Get1D() >= Reflectance(cosine, d.RefractiveIndex) {
			direction = refracted
		}
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, direction, rayIn.Time),
		Attenuation: attenuation,
	}, true
}

// Refract bends the unit vector uv through a surface with unit normal n facing
// the incoming side. It reports false on total internal reflection.
func Refract(uv, n core.Vec3, niOverNt float64) (core.Vec3, bool) {
	dt := uv.Dot(n)
	discriminant := 1.0 - niOverNt*niOverNt*(1.0-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	refracted := uv.Subtract(n.Multiply(dt)).Multiply(niOverNt).Subtract(n.Multiply(math.Sqrt(discriminant)))
	return refracted, true
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation.
// The cosine is clamped to [0,1] so the result always lies in [0,1].
func Reflectance(cosine, refractiveIndex float64) float64 {
	cosine = max(0, min(1, cosine))
	r0 := (1 - refractiveIndex) / (1 + refractiveIndex)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
