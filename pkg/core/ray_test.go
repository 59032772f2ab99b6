package core

import (
	"math"
	"testing"
)

func TestRay_MediumStack(t *testing.T) {
	ray := NewRay(Vec3{}, NewVec3(0, 0, 1))
	if ray.Enclosing != nil || math.Abs(ray.OuterIOR()-AirIOR) > 1e-9 {
		t.Fatalf("Expected primary ray in air, got enclosing IOR %f", ray.OuterIOR())
	}

	water := ray.Enter(Vec3{}, ray.Direction, 1.33)
	glass := water.Enter(Vec3{}, ray.Direction, 1.5)
	reflected := glass.Secondary(Vec3{}, ray.Direction, glass.IOR)
	back := reflected.Exit(Vec3{}, ray.Direction)
	out := back.Exit(Vec3{}, ray.Direction)

	tests := []struct {
		name     string
		ray      Ray
		ior      float64
		outerIOR float64
		depth    int
	}{
		{"in water", water, 1.33, AirIOR, 1},
		{"glass in water", glass, 1.5, 1.33, 2},
		{"reflected inside glass", reflected, 1.5, 1.33, 3},
		{"back in water", back, 1.33, AirIOR, 4},
		{"back in air", out, AirIOR, AirIOR, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.ray.IOR-tt.ior) > 1e-9 {
				t.Errorf("Expected IOR %f, got %f", tt.ior, tt.ray.IOR)
			}
			if math.Abs(tt.ray.OuterIOR()-tt.outerIOR) > 1e-9 {
				t.Errorf("Expected enclosing IOR %f, got %f", tt.outerIOR, tt.ray.OuterIOR())
			}
			if tt.ray.Depth != tt.depth {
				t.Errorf("Expected depth %d, got %d", tt.depth, tt.ray.Depth)
			}
		})
	}

	if out.Enclosing != nil {
		t.Error("Expected empty medium stack after leaving every object")
	}
}
