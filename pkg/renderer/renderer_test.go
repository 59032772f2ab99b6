package renderer

import (
	"bytes"
	"image/color"
	"sync"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func smallConfig(width, height, spp int) scene.SamplingConfig {
	config := scene.DefaultSamplingConfig()
	config.Width = width
	config.Height = height
	config.SamplesPerPixel = spp
	return config
}

func preprocessed(t *testing.T, s *scene.Scene) *scene.Scene {
	t.Helper()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

// glossyScene mixes reflection, refraction and shadows so every sampler draw matters
func glossyScene() *scene.Scene {
	s := scene.NewScene("glossy")
	s.SamplingConfig = smallConfig(24, 16, 3)
	s.SamplingConfig.Seed = 99
	s.CameraConfig = geometry.CameraConfig{
		Center: core.NewVec3(0, 1, 4),
		LookAt: core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   50,
	}
	s.Add(geometry.NewPlane(), core.Identity(), material.NewPhong(core.NewVec3(0.6, 0.6, 0.6), core.Vec3{}, 10, 0.2))
	s.Add(geometry.NewSphere(0.5), core.Translate(core.NewVec3(-0.6, 0.5, 0)), material.NewPhysical(core.NewVec3(0.9, 0.6, 0.2), 0.4, 1))
	s.Add(geometry.NewSphere(0.5), core.Translate(core.NewVec3(0.6, 0.5, 0)), material.NewGlass(1.5))
	s.AddAmbientLight(core.NewVec3(0.1, 0.1, 0.1))
	s.AddPointLight(core.NewVec3(2, 4, 3), core.NewVec3(1, 1, 1), 0.01)
	return s
}

func TestRender_EmptySceneIsTransparentBlack(t *testing.T) {
	cameras := []geometry.CameraConfig{
		geometry.DefaultCameraConfig(),
		{Center: core.NewVec3(10, -3, 2), LookAt: core.NewVec3(0, 0, 0), Up: core.NewVec3(0, 0, 1), VFov: 120},
	}

	for _, camera := range cameras {
		s := scene.NewScene("empty")
		s.CameraConfig = camera
		s.SamplingConfig = smallConfig(7, 5, 3)
		preprocessed(t, s)

		img, stats := NewRenderer(s, DefaultConfig()).Render()
		for i, v := range img.Pix {
			if v != 0 {
				t.Fatalf("Expected transparent black, byte %d is %d", i, v)
			}
		}
		if stats.CoveredPixels != 0 {
			t.Errorf("Expected no covered pixels, got %d", stats.CoveredPixels)
		}

		buffer := make([]uint32, 7*5)
		for i := range buffer {
			buffer[i] = 0xFFFFFFFF
		}
		if _, err := NewRenderer(s, DefaultConfig()).RenderInto(buffer); err != nil {
			t.Fatalf("RenderInto failed: %v", err)
		}
		for i, v := range buffer {
			if v != 0 {
				t.Fatalf("Expected pixel %d to be 0, got %#x", i, v)
			}
		}
	}
}

func TestRenderInto_BufferSize(t *testing.T) {
	s := preprocessed(t, glossyScene())
	if _, err := NewRenderer(s, DefaultConfig()).RenderInto(make([]uint32, 10)); err == nil {
		t.Error("Expected error for wrongly sized buffer")
	}
}

func TestRender_DeterministicAcrossWorkerCounts(t *testing.T) {
	s := preprocessed(t, glossyScene())

	var images [][]byte
	for _, workers := range []int{1, 3, 8} {
		config := DefaultConfig()
		config.NumWorkers = workers
		config.ChunkSize = 17
		img, _ := NewRenderer(s, config).Render()
		images = append(images, img.Pix)
	}

	for i := 1; i < len(images); i++ {
		if !bytes.Equal(images[0], images[i]) {
			t.Errorf("Render %d differs from the single-worker render", i)
		}
	}
}

func TestRenderInto_MatchesRender(t *testing.T) {
	s := preprocessed(t, glossyScene())
	config := DefaultConfig()
	config.ChunkSize = 32

	img, _ := NewRenderer(s, config).Render()
	buffer := make([]uint32, s.SamplingConfig.Width*s.SamplingConfig.Height)
	if _, err := NewRenderer(s, config).RenderInto(buffer); err != nil {
		t.Fatalf("RenderInto failed: %v", err)
	}

	for i, packed := range buffer {
		c := color.RGBA{R: img.Pix[4*i], G: img.Pix[4*i+1], B: img.Pix[4*i+2], A: img.Pix[4*i+3]}
		if PackARGB(c) != packed {
			t.Fatalf("Pixel %d: expected %#x, got %#x", i, PackARGB(c), packed)
		}
	}
}

func TestRender_PremultipliedAlpha(t *testing.T) {
	s := preprocessed(t, glossyScene())
	img, stats := NewRenderer(s, DefaultConfig()).Render()

	for i := 0; i < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if img.Pix[i] > a || img.Pix[i+1] > a || img.Pix[i+2] > a {
			t.Fatalf("Pixel %d is not premultiplied: %v", i/4, img.Pix[i:i+4])
		}
	}

	if stats.CoveredPixels == 0 || stats.CoveredPixels > stats.TotalPixels {
		t.Errorf("Unexpected covered pixel count %d of %d", stats.CoveredPixels, stats.TotalPixels)
	}
	if stats.Rays < int64(stats.TotalSamples) {
		t.Errorf("Expected at least one ray per sample, got %d rays for %d samples", stats.Rays, stats.TotalSamples)
	}
}

func TestRender_FullCoverageIsOpaque(t *testing.T) {
	s := scene.NewScene("inside sphere")
	s.SamplingConfig = smallConfig(6, 4, 2)
	// Camera inside a sphere viewed from its back side sees geometry everywhere
	inside := material.NewPhong(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 10, 0)
	inside.Side = material.SideBoth
	s.Add(geometry.NewSphere(50), core.Identity(), inside)
	s.AddAmbientLight(core.NewVec3(1, 1, 1))
	preprocessed(t, s)

	img, stats := NewRenderer(s, DefaultConfig()).Render()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("Expected opaque pixel %d, got alpha %d", i/4, img.Pix[i])
		}
	}
	if stats.CoveredPixels != stats.TotalPixels {
		t.Errorf("Expected all %d pixels covered, got %d", stats.TotalPixels, stats.CoveredPixels)
	}
}

func TestRender_Progress(t *testing.T) {
	s := preprocessed(t, glossyScene())
	config := DefaultConfig()
	config.ChunkSize = 50
	r := NewRenderer(s, config)

	var mu sync.Mutex
	calls, lastDone := 0, 0
	r.SetProgress(func(done, total int, rays int64) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if done <= lastDone || done > total {
			t.Errorf("Progress went from %d to %d of %d", lastDone, done, total)
		}
		lastDone = done
	})

	_, stats := r.Render()
	expectedChunks := (stats.TotalPixels + 49) / 50
	if calls != expectedChunks || stats.Chunks != expectedChunks {
		t.Errorf("Expected %d progress calls, got %d (chunks %d)", expectedChunks, calls, stats.Chunks)
	}
	if lastDone != stats.TotalPixels {
		t.Errorf("Expected final progress %d, got %d", stats.TotalPixels, lastDone)
	}
}

func TestShuffledChunks_CoverEveryPixelOnce(t *testing.T) {
	tasks := shuffledChunks(1000, 64, 5)
	seen := make([]int, 1000)
	inOrder := true
	previous := -1
	for i, task := range tasks {
		if task.ID != i {
			t.Errorf("Expected task ID %d, got %d", i, task.ID)
		}
		for _, index := range task.Pixels {
			seen[index]++
			if index < previous {
				inOrder = false
			}
			previous = index
		}
	}

	for index, count := range seen {
		if count != 1 {
			t.Fatalf("Pixel %d scheduled %d times", index, count)
		}
	}
	if inOrder {
		t.Error("Expected shuffled pixel order")
	}
	if len(tasks) != 16 || len(tasks[15].Pixels) != 1000-15*64 {
		t.Errorf("Unexpected chunking: %d tasks", len(tasks))
	}
}

func TestPixelStats_RGBA(t *testing.T) {
	tests := []struct {
		name     string
		samples  []core.Vec3
		hits     []bool
		expected color.RGBA
	}{
		{"no samples", nil, nil, color.RGBA{}},
		{"all miss", []core.Vec3{{}, {}}, []bool{false, false}, color.RGBA{}},
		{"white hit", []core.Vec3{{X: 1, Y: 1, Z: 1}}, []bool{true}, color.RGBA{255, 255, 255, 255}},
		{"clamped", []core.Vec3{{X: 4, Y: -1, Z: 0}}, []bool{true}, color.RGBA{255, 0, 0, 255}},
		{"half coverage", []core.Vec3{{X: 1, Y: 1, Z: 1}, {}}, []bool{true, false}, color.RGBA{128, 128, 128, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ps PixelStats
			for i, sample := range tt.samples {
				ps.AddSample(sample, tt.hits[i])
			}
			if got := ps.RGBA(2.2); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWorkerPool_ProcessesAllTasks(t *testing.T) {
	pool := NewWorkerPool(4, 20, func(task ChunkTask) ChunkResult {
		return ChunkResult{ID: task.ID, Pixels: len(task.Pixels)}
	})
	pool.Start()
	for i := 0; i < 20; i++ {
		pool.SubmitTask(ChunkTask{ID: i, Pixels: make([]int, i)})
	}

	seen := make(map[int]bool)
	total := 0
	for i := 0; i < 20; i++ {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		seen[result.ID] = true
		total += result.Pixels
	}
	pool.Stop()

	if len(seen) != 20 || total != 190 {
		t.Errorf("Expected 20 distinct results totalling 190 pixels, got %d and %d", len(seen), total)
	}
	if _, ok := pool.GetResult(); ok {
		t.Error("Expected closed result queue after Stop")
	}
}
