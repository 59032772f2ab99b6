package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler whose sequence depends only on seed and stream
func NewSeededSampler(seed int64, stream int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed*7919 + stream)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// OrthonormalBasis returns two unit vectors perpendicular to w and to each
// other. w must be normalized. The helper axis switches from Y to X when w is
// nearly parallel to Y so the cross product never degenerates.
func OrthonormalBasis(w Vec3) (u, v Vec3) {
	helper := NewVec3(0, 1, 0)
	if math.Abs(w.Y) > 0.999 {
		helper = NewVec3(1, 0, 0)
	}
	u = helper.Cross(w).Normalize()
	v = w.Cross(u)
	return u, v
}

// SampleCone samples a direction uniformly within maxAngle radians of direction.
// For maxAngle close to zero the reference direction is returned unchanged.
func SampleCone(direction Vec3, maxAngle float64, sample Vec2) Vec3 {
	if maxAngle < 1e-9 {
		return direction
	}

	w := direction.Normalize()
	u, v := OrthonormalBasis(w)

	cosMax := math.Cos(math.Min(maxAngle, math.Pi))
	cosTheta := 1.0 - sample.X*(1.0-cosMax)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	x := sinTheta * math.Cos(phi)
	y := sinTheta * math.Sin(phi)

	return u.Multiply(x).Add(v.Multiply(y)).Add(w.Multiply(cosTheta))
}

// SampleCosineHemisphere generates a cosine-weighted direction in the hemisphere
// around normal by lifting a concentric disk sample onto the hemisphere (Malley's method)
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	w := normal.Normalize()
	u, v := OrthonormalBasis(w)

	d := SamplePointInUnitDisk(sample)
	z := math.Sqrt(math.Max(0, 1.0-d.X*d.X-d.Y*d.Y))

	return u.Multiply(d.X).Add(v.Multiply(d.Y)).Add(w.Multiply(z))
}

// SamplePointInUnitDisk generates a random point in a unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func SamplePointInUnitDisk(sample Vec2) Vec3 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec3(0, 0, 0)
	}

	// Apply concentric mapping to point
	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec3(r*math.Cos(theta), r*math.Sin(theta), 0)
}

// Reflect mirrors v about the surface normal n
func Reflect(v, n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// AngleBetween returns the angle in radians between two non-zero vectors
func AngleBetween(a, b Vec3) float64 {
	cos := a.Dot(b) / (a.Length() * b.Length())
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}
