package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestImageTexture_Sample(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	green := core.NewVec3(0, 1, 0)
	blue := core.NewVec3(0, 0, 1)
	white := core.NewVec3(1, 1, 1)

	// 2x2: top row red, green; bottom row blue, white
	tex := NewImageTexture(2, 2, []core.Vec3{red, green, blue, white})

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"bottom left", core.NewVec2(0.25, 0.25), blue},
		{"bottom right", core.NewVec2(0.75, 0.25), white},
		{"top left", core.NewVec2(0.25, 0.75), red},
		{"top right", core.NewVec2(0.75, 0.75), green},
		{"wrapped positive", core.NewVec2(1.25, 1.75), red},
		{"wrapped negative", core.NewVec2(-0.25, -0.75), white},
		{"upper edge clamps", core.NewVec2(0.999999, 0.999999), green},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.uv); got != tt.expected {
				t.Errorf("Expected %v at %v, got %v", tt.expected, tt.uv, got)
			}
		})
	}
}

func TestChecker_Sample(t *testing.T) {
	even := core.NewVec3(1, 1, 1)
	odd := core.NewVec3(0, 0, 0)
	checker := NewChecker(even, odd, 2)

	if got := checker.Sample(core.NewVec2(0.1, 0.1)); got != even {
		t.Errorf("Expected even color, got %v", got)
	}
	if got := checker.Sample(core.NewVec2(0.6, 0.1)); got != odd {
		t.Errorf("Expected odd color, got %v", got)
	}
	if got := checker.Sample(core.NewVec2(-0.1, 0.1)); got != odd {
		t.Errorf("Expected odd color for negative u, got %v", got)
	}
}

func TestCache_GetMissingPanics(t *testing.T) {
	cache := NewCache()
	cache.Add("checker", NewChecker(core.Vec3{}, core.Vec3{}, 1))

	if !cache.Has("checker") || cache.Has("missing") {
		t.Fatal("Unexpected Has results")
	}
	if cache.Get("checker") == nil {
		t.Fatal("Expected registered texture")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing texture key")
		}
	}()
	cache.Get("missing")
}

func TestCache_LoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	file.Close()

	cache := NewCache()
	if err := cache.Load(path); err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}

	tex := cache.Get(path)
	if got := tex.Sample(core.NewVec2(0.25, 0.5)); got != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected red on the left, got %v", got)
	}
	if got := tex.Sample(core.NewVec2(0.75, 0.5)); got != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected blue on the right, got %v", got)
	}

	if err := cache.Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	if got := cache.Keys(); len(got) != 1 || got[0] != path {
		t.Errorf("Expected only %q in cache, got %v", path, got)
	}
}
