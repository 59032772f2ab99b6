package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cube faces, indexed by HitData.Face
const (
	facePosX = iota
	faceNegX
	facePosY
	faceNegY
	facePosZ
	faceNegZ
)

// Cube is an axis-aligned cube centered on the local origin
type Cube struct {
	HalfSize float64
}

// NewCube creates a cube with the given edge length
func NewCube(size float64) *Cube {
	return &Cube{HalfSize: size / 2}
}

func (c *Cube) isShape() {}

// Intersect uses the slab test; a ray starting inside the cube hits the exit face
func (c *Cube) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	h := c.HalfSize
	box := core.BoundingVolume{Min: core.NewVec3(-h, -h, -h), Max: core.NewVec3(h, h, h)}

	tNear, tFar, hit := box.Intersect(ray, maxDistance)
	if !hit {
		return 0, HitData{}, false
	}

	t := tNear
	if t <= core.Epsilon {
		t = tFar
	}
	if t <= core.Epsilon || t >= maxDistance {
		return 0, HitData{}, false
	}

	point := ray.At(t)
	return t, HitData{Point: point, Face: cubeFace(point)}, true
}

// cubeFace picks the face whose axis dominates the point's coordinates
func cubeFace(p core.Vec3) int {
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)
	switch {
	case ax >= ay && ax >= az:
		if p.X > 0 {
			return facePosX
		}
		return faceNegX
	case ay >= az:
		if p.Y > 0 {
			return facePosY
		}
		return faceNegY
	default:
		if p.Z > 0 {
			return facePosZ
		}
		return faceNegZ
	}
}

func (c *Cube) Normal(hit HitData) core.Vec3 {
	switch hit.Face {
	case facePosX:
		return core.NewVec3(1, 0, 0)
	case faceNegX:
		return core.NewVec3(-1, 0, 0)
	case facePosY:
		return core.NewVec3(0, 1, 0)
	case faceNegY:
		return core.NewVec3(0, -1, 0)
	case facePosZ:
		return core.NewVec3(0, 0, 1)
	default:
		return core.NewVec3(0, 0, -1)
	}
}

// UV projects the hit onto its face, each face covering the full [0,1] square
func (c *Cube) UV(hit HitData) core.Vec2 {
	p := hit.Point.Multiply(1 / c.HalfSize)
	var u, v float64
	switch hit.Face {
	case facePosX, faceNegX:
		u, v = p.Z, p.Y
	case facePosY, faceNegY:
		u, v = p.X, p.Z
	default:
		u, v = p.X, p.Y
	}
	return core.NewVec2((u+1)/2, (v+1)/2)
}

func (c *Cube) Bounds() (core.Vec3, core.Vec3, bool) {
	h := core.NewVec3(c.HalfSize, c.HalfSize, c.HalfSize)
	return h.Negate(), h, true
}
