package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane is the infinite local y=0 plane facing +Y
type Plane struct{}

// NewPlane creates an infinite plane
func NewPlane() *Plane {
	return &Plane{}
}

func (p *Plane) isShape() {}

func (p *Plane) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	return intersectGround(ray, maxDistance)
}

func (p *Plane) Normal(hit HitData) core.Vec3 {
	return core.NewVec3(0, 1, 0)
}

// UV repeats once per unit of local x and z
func (p *Plane) UV(hit HitData) core.Vec2 {
	return core.NewVec2(hit.Point.X, hit.Point.Z)
}

// Bounds reports the plane as unbounded; accelerators test it on every ray
func (p *Plane) Bounds() (core.Vec3, core.Vec3, bool) {
	return core.Vec3{}, core.Vec3{}, false
}

// Square is a finite piece of the local y=0 plane, centered on the origin
type Square struct {
	HalfSize float64
}

// NewSquare creates a square with the given edge length
func NewSquare(size float64) *Square {
	return &Square{HalfSize: size / 2}
}

func (s *Square) isShape() {}

func (s *Square) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	t, hit, ok := intersectGround(ray, maxDistance)
	if !ok || math.Abs(hit.Point.X) > s.HalfSize || math.Abs(hit.Point.Z) > s.HalfSize {
		return 0, HitData{}, false
	}
	return t, hit, true
}

func (s *Square) Normal(hit HitData) core.Vec3 {
	return core.NewVec3(0, 1, 0)
}

func (s *Square) UV(hit HitData) core.Vec2 {
	return core.NewVec2(
		(hit.Point.X/s.HalfSize+1)/2,
		(hit.Point.Z/s.HalfSize+1)/2,
	)
}

func (s *Square) Bounds() (core.Vec3, core.Vec3, bool) {
	return core.NewVec3(-s.HalfSize, 0, -s.HalfSize), core.NewVec3(s.HalfSize, 0, s.HalfSize), true
}

func intersectGround(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return 0, HitData{}, false
	}

	t := -ray.Origin.Y / ray.Direction.Y
	if t <= core.Epsilon || t >= maxDistance {
		return 0, HitData{}, false
	}

	point := ray.At(t)
	point.Y = 0
	return t, HitData{Point: point}, true
}
