package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive places a shape in the world with a transform and a material.
// It is immutable after construction and shared by all render workers.
type Primitive struct {
	Shape     Shape
	Material  material.Material
	Transform core.Matrix4

	inverse      core.Matrix4 // World to object
	normalMatrix core.Matrix4 // Inverse transpose, object normals to world
	bounds       core.BoundingVolume
	bounded      bool
}

// NewPrimitive creates a world-space primitive. It panics if the material is
// missing or the transform cannot be inverted.
func NewPrimitive(shape Shape, transform core.Matrix4, mat material.Material) *Primitive {
	if mat == nil {
		panic(fmt.Sprintf("primitive %T has no material", shape))
	}
	inverse, ok := transform.Inverse()
	if !ok {
		panic(fmt.Sprintf("primitive %T has a singular transform", shape))
	}

	p := &Primitive{
		Shape:        shape,
		Material:     mat,
		Transform:    transform,
		inverse:      inverse,
		normalMatrix: inverse.Transpose(),
	}

	if lo, hi, bounded := shape.Bounds(); bounded {
		p.bounds = core.NewBoundingVolumeTransformed(lo, hi, transform)
		p.bounded = true
	}
	return p
}

// Bounds returns the world-space bounding volume, or false for unbounded primitives
func (p *Primitive) Bounds() (core.BoundingVolume, bool) {
	return p.bounds, p.bounded
}

// Intersect runs the cheap distance test in object space. The ray direction
// is not renormalized, so the returned distance is valid for the world ray.
func (p *Primitive) Intersect(ray core.Ray, maxDistance float64) (Intersection, bool) {
	local := ray.Transform(p.inverse)

	var (
		t    float64
		data HitData
		ok   bool
	)
	switch s := p.Shape.(type) {
	case *Sphere:
		t, data, ok = s.Intersect(local, maxDistance)
	case *Cube:
		t, data, ok = s.Intersect(local, maxDistance)
	case *Plane:
		t, data, ok = s.Intersect(local, maxDistance)
	case *Square:
		t, data, ok = s.Intersect(local, maxDistance)
	case *Cylinder:
		t, data, ok = s.Intersect(local, maxDistance)
	case *Triangle:
		t, data, ok = s.Intersect(local, maxDistance)
	default:
		panic(fmt.Sprintf("unknown shape type %T", p.Shape))
	}

	if !ok {
		return Intersection{}, false
	}
	return Intersection{Primitive: p, Distance: t, Data: data}, true
}
