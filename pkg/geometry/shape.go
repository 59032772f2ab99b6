package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Shape is the closed set of object-space surfaces: *Sphere, *Cube, *Plane,
// *Square, *Cylinder and *Triangle. All shapes are defined around the local
// origin; placement comes from the owning Primitive's transform.
type Shape interface {
	// Intersect returns the smallest hit distance in (Epsilon, maxDistance)
	// along a local-space ray, plus the data needed to resolve the hit later.
	Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool)

	// Normal returns the outward object-space normal for a hit. It need not be unit length.
	Normal(hit HitData) core.Vec3

	// UV returns the texture coordinates for a hit
	UV(hit HitData) core.Vec2

	// Bounds returns the object-space box, or false for unbounded shapes
	Bounds() (min, max core.Vec3, bounded bool)

	isShape()
}

// HitData is the shape-specific payload of a distance test, kept until the
// hit is known to be the closest one
type HitData struct {
	Point core.Vec3 // Object-space hit point
	U, V  float64   // Barycentric coordinates, triangles only
	Face  int       // Face index for shapes made of several surfaces
}
