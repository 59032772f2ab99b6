package core

import (
	"fmt"
	"math"
)

// BoundingVolume is an axis-aligned box in world space
type BoundingVolume struct {
	Center Vec3
	Min    Vec3 // Minimum corner
	Max    Vec3 // Maximum corner
}

// NewBoundingVolume creates a box from its corners. It panics if max is below
// min on any axis, since that can only come from a corrupt scene.
func NewBoundingVolume(min, max Vec3) BoundingVolume {
	if max.X < min.X || max.Y < min.Y || max.Z < min.Z {
		panic(fmt.Sprintf("invalid bounding volume: max %v below min %v", max, min))
	}
	return BoundingVolume{
		Center: min.Add(max).Multiply(0.5),
		Min:    min,
		Max:    max,
	}
}

// NewBoundingVolumeTransformed transforms the eight corners of the local box
// (min, max) by m and fits an axis-aligned box around them.
func NewBoundingVolumeTransformed(min, max Vec3, m Matrix4) BoundingVolume {
	local := NewBoundingVolume(min, max)

	lo := NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := NewVec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, corner := range local.Corners() {
		p := m.TransformPoint(corner)
		lo = lo.MinVec(p)
		hi = hi.MaxVec(p)
	}
	return NewBoundingVolume(lo, hi)
}

// NewBoundingVolumeFromPoints creates the smallest box containing all points
func NewBoundingVolumeFromPoints(points ...Vec3) BoundingVolume {
	if len(points) == 0 {
		return BoundingVolume{}
	}

	lo, hi := points[0], points[0]
	for _, point := range points[1:] {
		lo = lo.MinVec(point)
		hi = hi.MaxVec(point)
	}
	return NewBoundingVolume(lo, hi)
}

// Merge returns the smallest box containing both a and b
func Merge(a, b BoundingVolume) BoundingVolume {
	return NewBoundingVolume(a.Min.MinVec(b.Min), a.Max.MaxVec(b.Max))
}

// Corners returns the eight corners of the box
func (b BoundingVolume) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Size returns the extent of the box along each axis
func (b BoundingVolume) Size() Vec3 {
	return b.Max.Subtract(b.Min)
}

// SurfaceArea returns the surface area of the box
func (b BoundingVolume) SurfaceArea() float64 {
	size := b.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// MaximumExtent returns the axis with the longest extent. Ties prefer X, then Z, then Y.
func (b BoundingVolume) MaximumExtent() Axis {
	size := b.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return AxisX
	}
	if size.Z >= size.Y {
		return AxisZ
	}
	return AxisY
}

// Contains reports whether other lies entirely inside b
func (b BoundingVolume) Contains(other BoundingVolume) bool {
	return other.Min.X >= b.Min.X && other.Min.Y >= b.Min.Y && other.Min.Z >= b.Min.Z &&
		other.Max.X <= b.Max.X && other.Max.Y <= b.Max.Y && other.Max.Z <= b.Max.Z
}

// Intersect runs the slab test and returns the parametric entry and exit
// distances. Rays parallel to a slab are handled through IEEE infinities: a
// NaN produced by 0*Inf fails every comparison and leaves the interval as is.
// Boxes entirely behind the origin, or entered beyond maxDistance, are misses.
func (b BoundingVolume) Intersect(ray Ray, maxDistance float64) (tNear, tFar float64, hit bool) {
	tNear = math.Inf(-1)
	tFar = math.Inf(1)

	for axis := AxisX; axis <= AxisZ; axis++ {
		invDirection := 1.0 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)

		near, far := b.Min.Axis(axis), b.Max.Axis(axis)
		if invDirection < 0 {
			near, far = far, near
		}

		t0 := (near - origin) * invDirection
		t1 := (far - origin) * invDirection

		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	if tNear > maxDistance {
		return 0, 0, false
	}
	return tNear, tFar, true
}
