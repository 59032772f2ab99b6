package accel

import (
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Accelerator answers ray queries against a fixed set of primitives.
// Implementations are immutable after construction and safe for concurrent use.
type Accelerator interface {
	// Raycast returns the nearest intersection closer than maxDistance
	Raycast(ray core.Ray, maxDistance float64) (geometry.Intersection, bool)

	// ShadowCast reports whether anything is hit closer than maxDistance
	ShadowCast(ray core.Ray, maxDistance float64) bool

	// Stats describes the built structure
	Stats() Stats
}

// Accelerator kinds accepted by New
const (
	KindKdTree = "kdtree"
	KindBVH    = "bvh"
	KindLinear = "linear"
)

// Kinds lists the accelerator kinds accepted by New
var Kinds = []string{KindKdTree, KindBVH, KindLinear}

// Stats contains statistics about an accelerator
type Stats struct {
	Kind       string
	Primitives int // Bounded primitives placed in the structure
	Unbounded  int // Primitives tested on every ray
	Nodes      int
	Leaves     int
	MaxDepth   int
	References int // Primitive references summed over all leaves
	BuildTime  time.Duration
}

// New builds the accelerator of the given kind. A scene without primitives
// always gets an empty linear accelerator.
func New(kind string, primitives []*geometry.Primitive) (Accelerator, error) {
	switch kind {
	case KindKdTree, "", KindBVH, KindLinear:
	default:
		return nil, fmt.Errorf("unknown accelerator %q, expected one of %v", kind, Kinds)
	}
	if len(primitives) == 0 {
		return NewLinear(nil), nil
	}

	switch kind {
	case KindBVH:
		return NewBVH(primitives), nil
	case KindLinear:
		return NewLinear(primitives), nil
	default:
		return NewKdTree(primitives, DefaultKdTreeConfig()), nil
	}
}

// partitionBounded splits primitives into bounded and unbounded ones
func partitionBounded(primitives []*geometry.Primitive) (bounded, unbounded []*geometry.Primitive) {
	for _, p := range primitives {
		if _, ok := p.Bounds(); ok {
			bounded = append(bounded, p)
		} else {
			unbounded = append(unbounded, p)
		}
	}
	return bounded, unbounded
}

// raycastAll returns the nearest hit among primitives
func raycastAll(primitives []*geometry.Primitive, ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	var closest geometry.Intersection
	found := false
	for _, p := range primitives {
		if hit, ok := p.Intersect(ray, maxDistance); ok {
			closest = hit
			maxDistance = hit.Distance
			found = true
		}
	}
	return closest, found
}

// shadowCastAll reports whether any primitive is hit
func shadowCastAll(primitives []*geometry.Primitive, ray core.Ray, maxDistance float64) bool {
	for _, p := range primitives {
		if _, ok := p.Intersect(ray, maxDistance); ok {
			return true
		}
	}
	return false
}
