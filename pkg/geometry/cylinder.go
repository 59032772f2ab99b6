package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cylinder faces, indexed by HitData.Face
const (
	faceSide = iota
	faceTop
	faceBottom
)

// Cylinder is a capped cylinder around the local Y axis, centered on the origin
type Cylinder struct {
	Radius     float64
	HalfHeight float64
}

// NewCylinder creates a capped cylinder
func NewCylinder(radius, height float64) *Cylinder {
	return &Cylinder{Radius: radius, HalfHeight: height / 2}
}

func (c *Cylinder) isShape() {}

// Intersect tests the curved side and both caps and keeps the nearest hit
func (c *Cylinder) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	o, d := ray.Origin, ray.Direction
	best := maxDistance
	face := -1

	// Side: x² + z² = r², limited to |y| <= h
	a := d.X*d.X + d.Z*d.Z
	if a > core.Epsilon {
		b := 2 * (o.X*d.X + o.Z*d.Z)
		cc := o.X*o.X + o.Z*o.Z - c.Radius*c.Radius
		if t0, t1, ok := core.Quadratic(a, b, cc); ok {
			for _, t := range [2]float64{t0, t1} {
				if t <= core.Epsilon || t >= best {
					continue
				}
				if y := o.Y + t*d.Y; math.Abs(y) <= c.HalfHeight {
					best, face = t, faceSide
					break
				}
			}
		}
	}

	// Caps: y = ±h, limited to x² + z² <= r²
	if math.Abs(d.Y) > core.Epsilon {
		for _, capFace := range [2]int{faceTop, faceBottom} {
			y := c.HalfHeight
			if capFace == faceBottom {
				y = -y
			}
			t := (y - o.Y) / d.Y
			if t <= core.Epsilon || t >= best {
				continue
			}
			x, z := o.X+t*d.X, o.Z+t*d.Z
			if x*x+z*z <= c.Radius*c.Radius {
				best, face = t, capFace
			}
		}
	}

	if face < 0 {
		return 0, HitData{}, false
	}
	return best, HitData{Point: ray.At(best), Face: face}, true
}

func (c *Cylinder) Normal(hit HitData) core.Vec3 {
	switch hit.Face {
	case faceTop:
		return core.NewVec3(0, 1, 0)
	case faceBottom:
		return core.NewVec3(0, -1, 0)
	default:
		return core.NewVec3(hit.Point.X, 0, hit.Point.Z)
	}
}

// UV wraps u around the side with v along the height; caps are projected from above
func (c *Cylinder) UV(hit HitData) core.Vec2 {
	p := hit.Point
	if hit.Face == faceSide {
		u := (math.Atan2(-p.Z, p.X) + math.Pi) / (2 * math.Pi)
		v := (p.Y + c.HalfHeight) / (2 * c.HalfHeight)
		return core.NewVec2(u, v)
	}
	return core.NewVec2((p.X/c.Radius+1)/2, (p.Z/c.Radius+1)/2)
}

func (c *Cylinder) Bounds() (core.Vec3, core.Vec3, bool) {
	extent := core.NewVec3(c.Radius, c.HalfHeight, c.Radius)
	return extent.Negate(), extent, true
}
