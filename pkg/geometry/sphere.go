package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere is centered on the local origin
type Sphere struct {
	Radius float64
}

// NewSphere creates a sphere of the given radius
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) isShape() {}

// Intersect solves |o + t·d|² = r²
func (s *Sphere) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * ray.Origin.Dot(ray.Direction)
	c := ray.Origin.Dot(ray.Origin) - s.Radius*s.Radius

	t0, t1, ok := core.Quadratic(a, b, c)
	if !ok {
		return 0, HitData{}, false
	}

	t := t0
	if t <= core.Epsilon {
		t = t1
	}
	if t <= core.Epsilon || t >= maxDistance {
		return 0, HitData{}, false
	}
	return t, HitData{Point: ray.At(t)}, true
}

func (s *Sphere) Normal(hit HitData) core.Vec3 {
	return hit.Point
}

// UV maps longitude to u and latitude to v, with v=0 at the bottom pole
func (s *Sphere) UV(hit HitData) core.Vec2 {
	p := hit.Point.Normalize()
	u := (math.Atan2(-p.Z, p.X) + math.Pi) / (2 * math.Pi)
	v := math.Acos(math.Max(-1, math.Min(1, -p.Y))) / math.Pi
	return core.NewVec2(u, v)
}

func (s *Sphere) Bounds() (core.Vec3, core.Vec3, bool) {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return r.Negate(), r, true
}
