package accel

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Linear tests every primitive on every ray
type Linear struct {
	primitives []*geometry.Primitive
}

// NewLinear creates a brute-force accelerator
func NewLinear(primitives []*geometry.Primitive) *Linear {
	return &Linear{primitives: append([]*geometry.Primitive(nil), primitives...)}
}

func (l *Linear) Raycast(ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	return raycastAll(l.primitives, ray, maxDistance)
}

func (l *Linear) ShadowCast(ray core.Ray, maxDistance float64) bool {
	return shadowCastAll(l.primitives, ray, maxDistance)
}

func (l *Linear) Stats() Stats {
	bounded, unbounded := partitionBounded(l.primitives)
	return Stats{
		Kind:       KindLinear,
		Primitives: len(bounded),
		Unbounded:  len(unbounded),
		Nodes:      1,
		Leaves:     1,
		References: len(l.primitives),
	}
}
