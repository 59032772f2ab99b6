package lights

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Light is the closed set of light sources: *Ambient and *Point
type Light interface {
	isLight()
}

// Ambient adds a constant color to every lit surface
type Ambient struct {
	Color core.Vec3
}

// NewAmbient creates an ambient light
func NewAmbient(color core.Vec3) *Ambient {
	return &Ambient{Color: color}
}

func (a *Ambient) isLight() {}

// Point is an omnidirectional light at a single world position
type Point struct {
	Position core.Vec3
	Color    core.Vec3
	Falloff  float64 // Quadratic attenuation coefficient, 0 disables attenuation
}

// NewPoint places a point light at the origin of transform
func NewPoint(transform core.Matrix4, color core.Vec3, falloff float64) *Point {
	return &Point{
		Position: transform.TransformPoint(core.Vec3{}),
		Color:    color,
		Falloff:  falloff,
	}
}

func (p *Point) isLight() {}

// Intensity returns the light color arriving at the given distance
func (p *Point) Intensity(distance float64) core.Vec3 {
	return p.Color.Multiply(1.0 / (1.0 + p.Falloff*distance*distance))
}

// Sample returns the unit direction from the light to point and its distance
func (p *Point) Sample(point core.Vec3) (direction core.Vec3, distance float64) {
	toPoint := point.Subtract(p.Position)
	distance = toPoint.Length()
	if distance == 0 {
		return core.Vec3{}, 0
	}
	return toPoint.Multiply(1.0 / distance), distance
}
