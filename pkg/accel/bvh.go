package accel

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 4

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	Bounds     core.BoundingVolume
	Left       *BVHNode
	Right      *BVHNode
	Primitives []*geometry.Primitive // Leaf contents (nil for internal nodes)
}

// BVH is a median-split bounding volume hierarchy. Unbounded primitives are
// kept outside the hierarchy and tested on every ray.
type BVH struct {
	Root      *BVHNode
	unbounded []*geometry.Primitive
	stats     Stats
}

// NewBVH constructs a BVH from a slice of primitives
func NewBVH(primitives []*geometry.Primitive) *BVH {
	bounded, unbounded := partitionBounded(primitives)

	start := time.Now()
	bvh := &BVH{unbounded: unbounded}
	if len(bounded) > 0 {
		bvh.Root = buildBVH(bounded)
	}

	bvh.stats = Stats{
		Kind:       KindBVH,
		Primitives: len(bounded),
		Unbounded:  len(unbounded),
		BuildTime:  time.Since(start),
	}
	if bvh.Root != nil {
		collectBVHStats(bvh.Root, 0, &bvh.stats)
	}

	log.New("bvh builder").Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		bvh.stats.BuildTime.Milliseconds(), bvh.stats.MaxDepth, bvh.stats.Nodes, bvh.stats.Leaves,
	)
	return bvh
}

// buildBVH recursively splits at the midpoint of the longest axis
func buildBVH(primitives []*geometry.Primitive) *BVHNode {
	bounds, _ := primitives[0].Bounds()
	for _, p := range primitives[1:] {
		box, _ := p.Bounds()
		bounds = core.Merge(bounds, box)
	}

	if len(primitives) <= leafThreshold {
		return &BVHNode{Bounds: bounds, Primitives: primitives}
	}

	axis := bounds.MaximumExtent()
	lo, hi := bounds.Min.Axis(axis), bounds.Max.Axis(axis)
	if hi <= lo {
		return &BVHNode{Bounds: bounds, Primitives: primitives}
	}
	splitPos := (lo + hi) * 0.5

	var left, right []*geometry.Primitive
	for _, p := range primitives {
		box, _ := p.Bounds()
		if box.Center.Axis(axis) < splitPos {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{Bounds: bounds, Primitives: primitives}
	}

	return &BVHNode{
		Bounds: bounds,
		Left:   buildBVH(left),
		Right:  buildBVH(right),
	}
}

func collectBVHStats(node *BVHNode, depth int, stats *Stats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Primitives != nil {
		stats.Leaves++
		stats.References += len(node.Primitives)
		return
	}
	collectBVHStats(node.Left, depth+1, stats)
	collectBVHStats(node.Right, depth+1, stats)
}

// Stats returns statistics gathered at build time
func (bvh *BVH) Stats() Stats {
	return bvh.stats
}

// Raycast returns the nearest hit among the unbounded primitives and the hierarchy
func (bvh *BVH) Raycast(ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	closest, found := raycastAll(bvh.unbounded, ray, maxDistance)
	if found {
		maxDistance = closest.Distance
	}

	if bvh.Root != nil {
		if hit, ok := bvh.hitNode(bvh.Root, ray, maxDistance); ok {
			return hit, true
		}
	}
	return closest, found
}

// ShadowCast reports whether any primitive is hit before maxDistance
func (bvh *BVH) ShadowCast(ray core.Ray, maxDistance float64) bool {
	if shadowCastAll(bvh.unbounded, ray, maxDistance) {
		return true
	}
	return bvh.Root != nil && bvh.anyHitNode(bvh.Root, ray, maxDistance)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	if _, _, hit := node.Bounds.Intersect(ray, maxDistance); !hit {
		return geometry.Intersection{}, false
	}

	if node.Primitives != nil {
		return raycastAll(node.Primitives, ray, maxDistance)
	}

	leftHit, leftFound := bvh.hitNode(node.Left, ray, maxDistance)
	if leftFound {
		maxDistance = leftHit.Distance
	}
	if rightHit, rightFound := bvh.hitNode(node.Right, ray, maxDistance); rightFound {
		return rightHit, true
	}
	return leftHit, leftFound
}

func (bvh *BVH) anyHitNode(node *BVHNode, ray core.Ray, maxDistance float64) bool {
	if _, _, hit := node.Bounds.Intersect(ray, maxDistance); !hit {
		return false
	}

	if node.Primitives != nil {
		return shadowCastAll(node.Primitives, ray, maxDistance)
	}
	return bvh.anyHitNode(node.Left, ray, maxDistance) || bvh.anyHitNode(node.Right, ray, maxDistance)
}
