package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Intersection is an unresolved hit: only the distance is known. Call
// Resolve on the winning hit to compute the surface data.
type Intersection struct {
	Primitive *Primitive
	Distance  float64
	Data      HitData
}

// SurfaceInteraction is a resolved hit in world space
type SurfaceInteraction struct {
	Primitive       *Primitive
	Distance        float64
	Point           core.Vec3
	Normal          core.Vec3 // Shading normal, oriented by the material's side
	GeometricNormal core.Vec3 // Outward world-space normal
	UV              core.Vec2
	FrontFace       bool // The ray arrived from the outward side
}

// Resolve computes the hit point, normal and UV for the ray that produced the intersection
func (i Intersection) Resolve(ray core.Ray) SurfaceInteraction {
	p := i.Primitive
	outward := p.normalMatrix.TransformVector(p.Shape.Normal(i.Data)).Normalize()
	frontFace := ray.Direction.Dot(outward) < 0

	normal := outward
	switch p.Material.Sidedness() {
	case material.SideBack:
		normal = outward.Negate()
	case material.SideBoth:
		if !frontFace {
			normal = outward.Negate()
		}
	}

	return SurfaceInteraction{
		Primitive:       p,
		Distance:        i.Distance,
		Point:           ray.At(i.Distance),
		Normal:          normal,
		GeometricNormal: outward,
		UV:              p.Shape.UV(i.Data),
		FrontFace:       frontFace,
	}
}

// Material returns the material of the hit primitive
func (s SurfaceInteraction) Material() material.Material {
	return s.Primitive.Material
}
