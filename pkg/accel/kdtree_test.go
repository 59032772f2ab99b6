package accel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// checkNode verifies containment and records how often each primitive is stored
func checkNode(t *testing.T, tree *KdTree, node *kdNode, seen map[int]int) {
	t.Helper()

	if node.leaf {
		for _, i := range node.primitives {
			seen[i]++
			bounds, _ := tree.primitives[i].Bounds()
			if !node.bounds.Contains(bounds) {
				t.Errorf("Leaf bounds %v-%v do not contain primitive %d bounds %v-%v",
					node.bounds.Min, node.bounds.Max, i, bounds.Min, bounds.Max)
			}
		}
		return
	}

	if node.left == nil || node.right == nil {
		t.Fatal("Internal node with a missing child")
	}
	for _, child := range []*kdNode{node.left, node.right} {
		if !node.bounds.Contains(child.bounds) {
			t.Errorf("Node bounds do not contain child bounds")
		}
		checkNode(t, tree, child, seen)
	}
}

func TestKdTree_Structure(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	primitives := randomScene(random, 200)
	tree := NewKdTree(primitives, DefaultKdTreeConfig())

	seen := make(map[int]int)
	checkNode(t, tree, tree.root, seen)

	if len(seen) != len(tree.primitives) {
		t.Errorf("Expected %d primitives in leaves, found %d", len(tree.primitives), len(seen))
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("Primitive %d stored %d times, expected exactly once", i, count)
		}
	}

	stats := tree.Stats()
	if stats.Primitives != 200 || stats.Unbounded != 1 {
		t.Errorf("Expected 200 bounded and 1 unbounded primitives, got %d and %d", stats.Primitives, stats.Unbounded)
	}
	if stats.References != stats.Primitives {
		t.Errorf("Expected no duplicated references, got %d for %d primitives", stats.References, stats.Primitives)
	}
	if stats.Nodes != 2*stats.Leaves-1 {
		t.Errorf("Expected a full binary tree, got %d nodes and %d leaves", stats.Nodes, stats.Leaves)
	}

	maxDepth := int(math.Round(8 + 1.3*math.Log2(200)))
	if stats.MaxDepth > maxDepth {
		t.Errorf("Expected depth at most %d, got %d", maxDepth, stats.MaxDepth)
	}
	if stats.Leaves < 10 {
		t.Errorf("Expected the tree to subdivide, got %d leaves", stats.Leaves)
	}
}

func TestKdTree_FewPrimitivesIsLeaf(t *testing.T) {
	mat := material.NewPhong(core.NewVec3(1, 1, 1), core.Vec3{}, 1, 0)
	primitives := []*geometry.Primitive{
		geometry.NewPrimitive(geometry.NewSphere(1), core.Identity(), mat),
		geometry.NewPrimitive(geometry.NewSphere(1), core.Translate(core.NewVec3(5, 0, 0)), mat),
	}

	tree := NewKdTree(primitives, DefaultKdTreeConfig())
	if !tree.root.leaf {
		t.Error("Expected a single leaf for two primitives")
	}
	if stats := tree.Stats(); stats.Nodes != 1 || stats.MaxDepth != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestKdTree_CoincidentPrimitives(t *testing.T) {
	// Identical boxes leave no split candidate strictly inside the bounds
	mat := material.NewPhong(core.NewVec3(1, 1, 1), core.Vec3{}, 1, 0)
	var primitives []*geometry.Primitive
	for i := 0; i < 20; i++ {
		primitives = append(primitives, geometry.NewPrimitive(geometry.NewCube(1), core.Identity(), mat))
	}

	tree := NewKdTree(primitives, DefaultKdTreeConfig())
	if !tree.root.leaf || len(tree.root.primitives) != 20 {
		t.Error("Expected coincident primitives to stay in one leaf")
	}

	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	hit, ok := tree.Raycast(ray, math.Inf(1))
	if !ok || math.Abs(hit.Distance-4.5) > 1e-9 {
		t.Errorf("Expected hit at 4.5, got %f (ok=%v)", hit.Distance, ok)
	}
}

func TestKdTree_OnlyUnbounded(t *testing.T) {
	mat := material.NewPhong(core.NewVec3(1, 1, 1), core.Vec3{}, 1, 0)
	tree := NewKdTree([]*geometry.Primitive{geometry.NewPrimitive(geometry.NewPlane(), core.Identity(), mat)}, DefaultKdTreeConfig())

	ray := core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0))
	if hit, ok := tree.Raycast(ray, math.Inf(1)); !ok || math.Abs(hit.Distance-2) > 1e-9 {
		t.Errorf("Expected plane hit at 2, got %f (ok=%v)", hit.Distance, ok)
	}
	if !tree.ShadowCast(ray, 3) || tree.ShadowCast(ray, 1) {
		t.Error("Unexpected shadow result for unbounded plane")
	}
}

func TestNewKdTree_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for empty input")
		}
	}()
	NewKdTree(nil, DefaultKdTreeConfig())
}

func TestKdNode_Order(t *testing.T) {
	left, right := &kdNode{leaf: true}, &kdNode{leaf: true}
	node := &kdNode{axis: core.AxisX, split: 1, left: left, right: right}

	tests := []struct {
		name      string
		origin    float64
		direction float64
		nearLeft  bool
	}{
		{"below split", 0, 1, true},
		{"above split", 2, -1, false},
		{"on split moving down", 1, -1, true},
		{"on split moving up", 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(tt.origin, 0, 0), core.NewVec3(tt.direction, 0, 0))
			near, _ := node.order(ray)
			if (near == left) != tt.nearLeft {
				t.Errorf("Expected near child left=%v", tt.nearLeft)
			}
		})
	}
}

func TestKdBuilder_SplitsLeaveBothSidesFilled(t *testing.T) {
	slab := func(lo, hi float64) core.BoundingVolume {
		return core.NewBoundingVolume(core.NewVec3(lo, 0, 0), core.NewVec3(hi, 1, 1))
	}

	tests := []struct {
		name  string
		boxes []core.BoundingVolume
		found bool
		split float64
	}{
		// Every candidate inside the bounds puts all centers on one side
		{"nested", []core.BoundingVolume{slab(0, 10), slab(4, 6), slab(4.5, 5.5)}, false, 0},
		{"nested with outlier", []core.BoundingVolume{slab(0, 10), slab(4, 6), slab(4.5, 5.5), slab(8, 9)}, true, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &kdBuilder{config: DefaultKdTreeConfig(), bounds: tt.boxes}
			indices := make([]int, len(tt.boxes))
			for i := range indices {
				indices[i] = i
			}

			axis, split, _, found := b.findSplit(indices, b.enclose(indices))
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if !found {
				return
			}
			if axis != core.AxisX || math.Abs(split-tt.split) > 1e-9 {
				t.Errorf("Expected split at x=%f, got axis %v at %f", tt.split, axis, split)
			}
			left, right := b.partition(indices, axis, split)
			if len(left) == 0 || len(right) == 0 {
				t.Errorf("Expected both sides filled, got %d left and %d right", len(left), len(right))
			}
		})
	}
}

func countKdPrimitives(node *kdNode) int {
	if node.leaf {
		return len(node.primitives)
	}
	return countKdPrimitives(node.left) + countKdPrimitives(node.right)
}

// checkProgress verifies that every split hands each child fewer primitives
// than its parent holds
func checkProgress(t *testing.T, node *kdNode) {
	t.Helper()
	if node.leaf {
		return
	}
	n := countKdPrimitives(node)
	for _, child := range []*kdNode{node.left, node.right} {
		if c := countKdPrimitives(child); c == 0 || c >= n {
			t.Errorf("Expected child to hold between 1 and %d primitives, got %d", n-1, c)
		}
		checkProgress(t, child)
	}
}

func TestKdTree_ClusteredPrimitives(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	mat := material.NewPhong(core.NewVec3(1, 1, 1), core.Vec3{}, 1, 0)
	var primitives []*geometry.Primitive
	for i := 0; i < 300; i++ {
		transform := core.Compose(
			core.Translate(randomVec(random, 0.5)),
			core.RotateY(random.Float64()*2*math.Pi),
		)
		primitives = append(primitives, geometry.NewPrimitive(geometry.NewCube(1), transform, mat))
	}

	tree := NewKdTree(primitives, DefaultKdTreeConfig())
	checkProgress(t, tree.root)

	linear := NewLinear(primitives)
	for i := 0; i < 1000; i++ {
		origin := randomVec(random, 10)
		ray := core.NewRay(origin, randomVec(random, 0.5).Subtract(origin).Normalize())

		expected, expectedOk := linear.Raycast(ray, math.Inf(1))
		actual, actualOk := tree.Raycast(ray, math.Inf(1))
		if expectedOk != actualOk {
			t.Fatalf("Ray %d: expected hit=%v, got %v", i, expectedOk, actualOk)
		}
		if expectedOk && math.Abs(expected.Distance-actual.Distance) > 1e-9 {
			t.Errorf("Ray %d: expected distance %f, got %f", i, expected.Distance, actual.Distance)
		}
	}
}
