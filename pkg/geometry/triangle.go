package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle is defined by three object-space vertices with optional
// per-vertex normals and texture coordinates
type Triangle struct {
	V0, V1, V2 core.Vec3
	Normals    []core.Vec3 // Empty, or one normal per vertex
	UVs        []core.Vec2 // Empty, or one texture coordinate per vertex
	normal     core.Vec3   // Cached face normal
}

// NewTriangle creates a flat-shaded triangle. The face normal follows the
// counter-clockwise winding of v0, v1, v2.
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	return &Triangle{
		V0:     v0,
		V1:     v1,
		V2:     v2,
		normal: v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
	}
}

// NewTriangleWithNormals creates a smooth-shaded triangle
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3) *Triangle {
	t := NewTriangle(v0, v1, v2)
	t.Normals = []core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
	return t
}

// WithUVs sets per-vertex texture coordinates and returns the triangle
func (t *Triangle) WithUVs(uv0, uv1, uv2 core.Vec2) *Triangle {
	t.UVs = []core.Vec2{uv0, uv1, uv2}
	return t
}

func (t *Triangle) isShape() {}

// Intersect uses the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, maxDistance float64) (float64, HitData, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, HitData{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, HitData{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, HitData{}, false
	}

	dist := f * edge2.Dot(q)
	if dist <= core.Epsilon || dist >= maxDistance {
		return 0, HitData{}, false
	}
	return dist, HitData{Point: ray.At(dist), U: u, V: v}, true
}

// Normal interpolates vertex normals when present, otherwise returns the face normal
func (t *Triangle) Normal(hit HitData) core.Vec3 {
	if len(t.Normals) != 3 {
		return t.normal
	}
	w := 1 - hit.U - hit.V
	return t.Normals[0].Multiply(w).
		Add(t.Normals[1].Multiply(hit.U)).
		Add(t.Normals[2].Multiply(hit.V))
}

// UV interpolates vertex texture coordinates, falling back to the barycentrics
func (t *Triangle) UV(hit HitData) core.Vec2 {
	if len(t.UVs) != 3 {
		return core.NewVec2(hit.U, hit.V)
	}
	w := 1 - hit.U - hit.V
	return core.NewVec2(
		w*t.UVs[0].X+hit.U*t.UVs[1].X+hit.V*t.UVs[2].X,
		w*t.UVs[0].Y+hit.U*t.UVs[1].Y+hit.V*t.UVs[2].Y,
	)
}

func (t *Triangle) Bounds() (core.Vec3, core.Vec3, bool) {
	return t.V0.MinVec(t.V1).MinVec(t.V2), t.V0.MaxVec(t.V1).MaxVec(t.V2), true
}
