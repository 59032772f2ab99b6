package core

import (
	"math"
	"math/rand"
	"testing"
)

func randomBoundingVolume(random *rand.Rand) BoundingVolume {
	min := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
	size := NewVec3(random.Float64()*3, random.Float64()*3, random.Float64()*3)
	return NewBoundingVolume(min, min.Add(size))
}

func TestNewBoundingVolume_RejectsInvertedBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max Vec3
	}{
		{"x inverted", NewVec3(1, 0, 0), NewVec3(0, 1, 1)},
		{"y inverted", NewVec3(0, 2, 0), NewVec3(1, 1, 1)},
		{"z inverted", NewVec3(0, 0, 1), NewVec3(1, 1, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for min %v max %v", tt.min, tt.max)
				}
			}()
			NewBoundingVolume(tt.min, tt.max)
		})
	}
}

func TestNewBoundingVolume_AcceptsDegenerateBox(t *testing.T) {
	b := NewBoundingVolume(NewVec3(1, 1, 1), NewVec3(1, 1, 1))
	if b.Center != NewVec3(1, 1, 1) {
		t.Errorf("Expected center (1,1,1), got %v", b.Center)
	}
	if b.SurfaceArea() != 0 {
		t.Errorf("Expected zero surface area, got %f", b.SurfaceArea())
	}
}

func TestMerge_ContainsBothCommutativeIdempotent(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		a := randomBoundingVolume(random)
		b := randomBoundingVolume(random)

		ab := Merge(a, b)
		if !ab.Contains(a) || !ab.Contains(b) {
			t.Fatalf("Merge %v does not contain inputs %v and %v", ab, a, b)
		}
		if ab != Merge(b, a) {
			t.Fatalf("Merge is not commutative for %v and %v", a, b)
		}
		if Merge(a, a) != a {
			t.Fatalf("Merge is not idempotent for %v", a)
		}
	}
}

func TestBoundingVolumeTransformed_ContainsRotatedCorners(t *testing.T) {
	m := Compose(Translate(NewVec3(2, 0, 0)), RotateY(math.Pi/4))
	b := NewBoundingVolumeTransformed(NewVec3(-1, -1, -1), NewVec3(1, 1, 1), m)

	// A unit cube rotated 45 degrees around Y spans sqrt(2) along X and Z
	expectedHalf := math.Sqrt2
	if math.Abs(b.Max.X-(2+expectedHalf)) > 1e-9 || math.Abs(b.Min.X-(2-expectedHalf)) > 1e-9 {
		t.Errorf("Unexpected X extent [%f, %f]", b.Min.X, b.Max.X)
	}
	if math.Abs(b.Max.Z-expectedHalf) > 1e-9 || math.Abs(b.Max.Y-1) > 1e-9 {
		t.Errorf("Unexpected bounds %v", b)
	}
}

func TestBoundingVolume_MaximumExtent(t *testing.T) {
	tests := []struct {
		name     string
		size     Vec3
		expected Axis
	}{
		{"x longest", NewVec3(3, 1, 1), AxisX},
		{"y longest", NewVec3(1, 3, 1), AxisY},
		{"z longest", NewVec3(1, 1, 3), AxisZ},
		{"cube prefers x", NewVec3(2, 2, 2), AxisX},
		{"x and z tie prefers x", NewVec3(2, 1, 2), AxisX},
		{"z and y tie prefers z", NewVec3(1, 2, 2), AxisZ},
		{"x and y tie prefers x", NewVec3(2, 2, 1), AxisX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoundingVolume(Vec3{}, tt.size)
			if got := b.MaximumExtent(); got != tt.expected {
				t.Errorf("Expected axis %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBoundingVolume_SurfaceArea(t *testing.T) {
	b := NewBoundingVolume(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	if math.Abs(b.SurfaceArea()-22) > 1e-9 {
		t.Errorf("Expected surface area 22, got %f", b.SurfaceArea())
	}
}

func TestBoundingVolume_Intersect(t *testing.T) {
	box := NewBoundingVolume(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	inf := math.Inf(1)

	tests := []struct {
		name        string
		ray         Ray
		maxDistance float64
		hit         bool
		tNear, tFar float64
	}{
		{"hit from front", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), inf, true, 4, 6},
		{"unnormalized direction", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -2)), inf, true, 2, 3},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), inf, true, -1, 1},
		{"box behind origin", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), inf, false, 0, 0},
		{"parallel outside slab", NewRay(NewVec3(0, 2, 5), NewVec3(0, 0, -1)), inf, false, 0, 0},
		{"parallel on slab face", NewRay(NewVec3(0, 1, 5), NewVec3(0, 0, -1)), inf, true, 4, 6},
		{"negative zero direction", NewRay(NewVec3(0, 0, 5), NewVec3(math.Copysign(0, -1), 0, -1)), inf, true, 4, 6},
		{"diagonal miss", NewRay(NewVec3(3, 0, 3), NewVec3(1, 0, -1)), inf, false, 0, 0},
		{"beyond max distance", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 3.5, false, 0, 0},
		{"within max distance", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 4.5, true, 4, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tNear, tFar, hit := box.Intersect(tt.ray, tt.maxDistance)
			if hit != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, hit)
			}
			if !hit {
				return
			}
			if math.Abs(tNear-tt.tNear) > 1e-9 || math.Abs(tFar-tt.tFar) > 1e-9 {
				t.Errorf("Expected [%f, %f], got [%f, %f]", tt.tNear, tt.tFar, tNear, tFar)
			}
		})
	}
}

func TestBoundingVolume_IntersectMirrorInvariant(t *testing.T) {
	random := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		box := randomBoundingVolume(random)
		origin := NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		direction := NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)

		mirroredBox := NewBoundingVolume(box.Max.Negate(), box.Min.Negate())
		mirroredRay := NewRay(origin.Negate(), direction.Negate())

		n1, f1, hit1 := box.Intersect(NewRay(origin, direction), math.Inf(1))
		n2, f2, hit2 := mirroredBox.Intersect(mirroredRay, math.Inf(1))

		if hit1 != hit2 {
			t.Fatalf("Mirror changed hit result: %v vs %v", hit1, hit2)
		}
		if hit1 && (math.Abs(n1-n2) > 1e-9 || math.Abs(f1-f2) > 1e-9) {
			t.Fatalf("Mirror changed distances: [%f,%f] vs [%f,%f]", n1, f1, n2, f2)
		}
	}
}

func TestBoundingVolume_IntersectMissesSeparatedRays(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	box := NewBoundingVolume(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	for i := 0; i < 1000; i++ {
		// Rays travelling along X at a height above the box never overlap it on Y
		origin := NewVec3(random.Float64()*20-10, 1.5+random.Float64()*5, random.Float64()*20-10)
		direction := NewVec3(random.Float64()*2-1, 0, random.Float64()*2-1)
		if _, _, hit := box.Intersect(NewRay(origin, direction), math.Inf(1)); hit {
			t.Fatalf("Expected miss for ray from %v along %v", origin, direction)
		}
	}
}
