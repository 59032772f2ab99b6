package accel

import (
	"math"
	"sort"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

// KdTreeConfig holds the surface area heuristic parameters
type KdTreeConfig struct {
	TraversalCost    float64 // Cost of visiting an internal node
	IntersectionCost float64 // Cost of one primitive test
	EmptyBonus       float64 // Discount for splits leaving one side empty, in [0,1]
	MaxPrimitives    int     // Leaves are created at or below this count
	MaxBadRefines    int     // Splits costlier than not splitting allowed per path
}

// DefaultKdTreeConfig returns the standard SAH parameters
func DefaultKdTreeConfig() KdTreeConfig {
	return KdTreeConfig{
		TraversalCost:    1,
		IntersectionCost: 80,
		EmptyBonus:       0.5,
		MaxPrimitives:    2,
		MaxBadRefines:    3,
	}
}

type kdNode struct {
	bounds core.BoundingVolume

	// Internal nodes
	axis        core.Axis
	split       float64
	left, right *kdNode

	// Leaves
	leaf       bool
	primitives []int
}

// KdTree partitions bounded primitives with surface area heuristic splits.
// Every primitive is stored in exactly one leaf. Unbounded primitives are
// kept aside and tested on every ray.
type KdTree struct {
	primitives []*geometry.Primitive // Bounded, indexed by leaf entries
	unbounded  []*geometry.Primitive
	root       *kdNode
	stats      Stats
}

type splitEventKind int

const (
	splitStart splitEventKind = iota
	splitEnd
)

type splitEvent struct {
	position float64
	kind     splitEventKind
}

type kdBuilder struct {
	logger log.Logger
	config KdTreeConfig
	bounds []core.BoundingVolume
}

// NewKdTree builds a k-d tree over primitives. It panics on empty input.
func NewKdTree(primitives []*geometry.Primitive, config KdTreeConfig) *KdTree {
	if len(primitives) == 0 {
		panic("kd-tree requires at least one primitive")
	}

	bounded, unbounded := partitionBounded(primitives)
	tree := &KdTree{
		primitives: bounded,
		unbounded:  unbounded,
	}

	b := &kdBuilder{
		logger: log.New("kd-tree builder"),
		config: config,
		bounds: make([]core.BoundingVolume, len(bounded)),
	}

	start := time.Now()
	if len(bounded) > 0 {
		indices := make([]int, len(bounded))
		for i, p := range bounded {
			b.bounds[i], _ = p.Bounds()
			indices[i] = i
		}
		maxDepth := int(math.Round(8 + 1.3*math.Log2(float64(len(bounded)))))
		tree.root = b.build(indices, b.enclose(indices), maxDepth, 0)
	}

	tree.stats = Stats{
		Kind:       KindKdTree,
		Primitives: len(bounded),
		Unbounded:  len(unbounded),
		BuildTime:  time.Since(start),
	}
	if tree.root != nil {
		collectKdStats(tree.root, 0, &tree.stats)
	}

	b.logger.Debugf(
		"kd-tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, refs: %d, unbounded: %d",
		tree.stats.BuildTime.Milliseconds(),
		tree.stats.MaxDepth, tree.stats.Nodes, tree.stats.Leaves, tree.stats.References, len(unbounded),
	)
	return tree
}

func (b *kdBuilder) enclose(indices []int) core.BoundingVolume {
	bounds := b.bounds[indices[0]]
	for _, i := range indices[1:] {
		bounds = core.Merge(bounds, b.bounds[i])
	}
	return bounds
}

func (b *kdBuilder) leaf(indices []int, bounds core.BoundingVolume) *kdNode {
	return &kdNode{bounds: bounds, leaf: true, primitives: indices}
}

// build recursively splits indices, whose tight bounds are given
func (b *kdBuilder) build(indices []int, bounds core.BoundingVolume, depth, badRefines int) *kdNode {
	n := len(indices)
	if n <= b.config.MaxPrimitives || depth <= 0 {
		return b.leaf(indices, bounds)
	}

	axis, split, cost, found := b.findSplit(indices, bounds)
	if !found {
		return b.leaf(indices, bounds)
	}

	leafCost := b.config.IntersectionCost * float64(n)
	if cost > leafCost {
		badRefines++
	}
	if (cost > 4*leafCost && n < 16) || badRefines >= b.config.MaxBadRefines {
		return b.leaf(indices, bounds)
	}

	left, right := b.partition(indices, axis, split)
	if len(left) == 0 || len(right) == 0 {
		return b.leaf(indices, bounds)
	}

	return &kdNode{
		bounds: bounds,
		axis:   axis,
		split:  split,
		left:   b.build(left, b.enclose(left), depth-1, badRefines),
		right:  b.build(right, b.enclose(right), depth-1, badRefines),
	}
}

// partition assigns each primitive to the side of split it lies on.
// Primitives straddling the plane go to the side holding their center.
func (b *kdBuilder) partition(indices []int, axis core.Axis, split float64) (left, right []int) {
	for _, i := range indices {
		box := b.bounds[i]
		switch {
		case box.Max.Axis(axis) <= split:
			left = append(left, i)
		case box.Min.Axis(axis) >= split:
			right = append(right, i)
		case box.Center.Axis(axis) < split:
			left = append(left, i)
		default:
			right = append(right, i)
		}
	}
	return left, right
}

// findSplit sweeps the sorted start/end events along the widest axis,
// falling back to the other two axes when no candidate lies inside the bounds.
// Candidates that partition would leave with an empty side are skipped.
func (b *kdBuilder) findSplit(indices []int, bounds core.BoundingVolume) (core.Axis, float64, float64, bool) {
	totalArea := bounds.SurfaceArea()
	if totalArea <= 0 {
		return 0, 0, 0, false
	}
	invTotalArea := 1.0 / totalArea
	size := bounds.Size()

	events := make([]splitEvent, 0, 2*len(indices))
	axis := bounds.MaximumExtent()

	for retries := 0; retries < 3; retries++ {
		events = events[:0]
		minCenter, maxCenter, minMax := math.Inf(1), math.Inf(-1), math.Inf(1)
		for _, i := range indices {
			c := b.bounds[i].Center.Axis(axis)
			minCenter = math.Min(minCenter, c)
			maxCenter = math.Max(maxCenter, c)
			minMax = math.Min(minMax, b.bounds[i].Max.Axis(axis))
			events = append(events,
				splitEvent{position: b.bounds[i].Min.Axis(axis), kind: splitStart},
				splitEvent{position: b.bounds[i].Max.Axis(axis), kind: splitEnd},
			)
		}
		sort.Slice(events, func(i, j int) bool {
			if events[i].position == events[j].position {
				return events[i].kind < events[j].kind
			}
			return events[i].position < events[j].position
		})

		other1, other2 := (axis+1)%3, (axis+2)%3
		d1, d2 := size.Axis(other1), size.Axis(other2)
		lo, hi := bounds.Min.Axis(axis), bounds.Max.Axis(axis)

		bestCost := math.Inf(1)
		bestSplit := 0.0
		below, above := 0, len(indices)

		for _, e := range events {
			if e.kind == splitEnd {
				above--
			}

			leftFilled := minCenter < e.position || minMax <= e.position
			rightFilled := maxCenter > e.position
			if e.position > lo && e.position < hi && leftFilled && rightFilled {
				belowArea := 2 * (d1*d2 + (e.position-lo)*(d1+d2))
				aboveArea := 2 * (d1*d2 + (hi-e.position)*(d1+d2))
				pBelow := belowArea * invTotalArea
				pAbove := aboveArea * invTotalArea

				bonus := 0.0
				if below == 0 || above == 0 {
					bonus = b.config.EmptyBonus
				}
				cost := b.config.TraversalCost +
					b.config.IntersectionCost*(1-bonus)*(pBelow*float64(below)+pAbove*float64(above))

				if cost < bestCost {
					bestCost = cost
					bestSplit = e.position
				}
			}

			if e.kind == splitStart {
				below++
			}
		}

		if !math.IsInf(bestCost, 1) {
			return axis, bestSplit, bestCost, true
		}
		axis = (axis + 1) % 3
	}

	return 0, 0, 0, false
}

func collectKdStats(node *kdNode, depth int, stats *Stats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.leaf {
		stats.Leaves++
		stats.References += len(node.primitives)
		return
	}
	collectKdStats(node.left, depth+1, stats)
	collectKdStats(node.right, depth+1, stats)
}

// Stats returns statistics gathered at build time
func (t *KdTree) Stats() Stats {
	return t.stats
}

// Raycast returns the nearest hit among the unbounded primitives and the tree
func (t *KdTree) Raycast(ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	closest, found := raycastAll(t.unbounded, ray, maxDistance)
	if found {
		maxDistance = closest.Distance
	}

	if t.root != nil {
		if hit, ok := t.raycast(t.root, ray, maxDistance); ok {
			return hit, true
		}
	}
	return closest, found
}

// ShadowCast reports whether any primitive is hit before maxDistance
func (t *KdTree) ShadowCast(ray core.Ray, maxDistance float64) bool {
	if shadowCastAll(t.unbounded, ray, maxDistance) {
		return true
	}
	return t.root != nil && t.shadowCast(t.root, ray, maxDistance)
}

// order returns the child on the ray origin's side of the split first
func (node *kdNode) order(ray core.Ray) (near, far *kdNode) {
	origin := ray.Origin.Axis(node.axis)
	belowFirst := origin < node.split
	if math.Abs(origin-node.split) < core.Epsilon {
		belowFirst = ray.Direction.Axis(node.axis) <= 0
	}

	if belowFirst {
		return node.left, node.right
	}
	return node.right, node.left
}

func (t *KdTree) raycast(node *kdNode, ray core.Ray, maxDistance float64) (geometry.Intersection, bool) {
	if _, _, hit := node.bounds.Intersect(ray, maxDistance); !hit {
		return geometry.Intersection{}, false
	}

	if node.leaf {
		var closest geometry.Intersection
		found := false
		for _, i := range node.primitives {
			if hit, ok := t.primitives[i].Intersect(ray, maxDistance); ok {
				closest = hit
				maxDistance = hit.Distance
				found = true
			}
		}
		return closest, found
	}

	near, far := node.order(ray)

	nearHit, nearFound := t.raycast(near, ray, maxDistance)
	if nearFound {
		maxDistance = nearHit.Distance
	}

	// The far child only reports hits closer than the near one
	if farHit, farFound := t.raycast(far, ray, maxDistance); farFound {
		return farHit, true
	}
	return nearHit, nearFound
}

func (t *KdTree) shadowCast(node *kdNode, ray core.Ray, maxDistance float64) bool {
	if _, _, hit := node.bounds.Intersect(ray, maxDistance); !hit {
		return false
	}

	if node.leaf {
		for _, i := range node.primitives {
			if _, ok := t.primitives[i].Intersect(ray, maxDistance); ok {
				return true
			}
		}
		return false
	}

	near, far := node.order(ray)
	return t.shadowCast(near, ray, maxDistance) || t.shadowCast(far, ray, maxDistance)
}
