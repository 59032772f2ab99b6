package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DielectricF0 is the normal-incidence reflectance shared by all dielectrics
const DielectricF0 = 0.04

// DistributionGGX is the Trowbridge-Reitz normal distribution function
func DistributionGGX(nDotH, roughness float64) float64 {
	a := roughness * roughness
	a2 := a * a
	nDotH = math.Max(nDotH, 0)
	denom := nDotH*nDotH*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

// GeometrySchlickGGX is the single-direction Schlick-GGX masking term
func GeometrySchlickGGX(nDotV, roughness float64) float64 {
	r := roughness + 1
	k := r * r / 8
	return nDotV / (nDotV*(1-k) + k)
}

// GeometrySmith combines view masking and light shadowing
func GeometrySmith(nDotV, nDotL, roughness float64) float64 {
	return GeometrySchlickGGX(math.Max(nDotV, 0), roughness) * GeometrySchlickGGX(math.Max(nDotL, 0), roughness)
}

// FresnelSchlick approximates Fresnel reflectance for a cosine and normal-incidence reflectance f0
func FresnelSchlick(cosTheta float64, f0 core.Vec3) core.Vec3 {
	f := math.Pow(1-math.Max(0, math.Min(1, cosTheta)), 5)
	one := core.NewVec3(1, 1, 1)
	return f0.Add(one.Subtract(f0).Multiply(f))
}

// Refract bends the unit direction d through a surface with unit normal n
// facing against d, with eta the ratio of incident to transmitted indices.
// The second result is false on total internal reflection.
func Refract(d, n core.Vec3, eta float64) (core.Vec3, bool) {
	cosI := -d.Dot(n)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return core.Vec3{}, false
	}
	return d.Multiply(eta).Add(n.Multiply(eta*cosI - math.Sqrt(k))), true
}
