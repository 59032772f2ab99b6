package renderer

import (
	"fmt"
	"image"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config tunes the render driver
type Config struct {
	NumWorkers int     // 0 uses runtime.NumCPU
	ChunkSize  int     // Pixels per worker task
	Gamma      float64 // Output gamma
}

// DefaultConfig returns the standard driver settings
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		ChunkSize:  256,
		Gamma:      2.2,
	}
}

// ProgressFunc is called after each finished chunk with the number of pixels
// done, the total pixel count and the rays traced so far
type ProgressFunc func(done, total int, rays int64)

// Renderer evaluates every pixel of a preprocessed scene in parallel
type Renderer struct {
	scene      *scene.Scene
	config     Config
	camera     *geometry.Camera
	integrator *integrator.WhittedIntegrator
	progress   ProgressFunc
	logger     log.Logger
}

// NewRenderer creates a renderer. The scene must already be preprocessed.
func NewRenderer(s *scene.Scene, config Config) *Renderer {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	if config.Gamma <= 0 {
		config.Gamma = DefaultConfig().Gamma
	}

	sampling := s.SamplingConfig
	return &Renderer{
		scene:      s,
		config:     config,
		camera:     geometry.NewCamera(s.CameraConfig, sampling.Width, sampling.Height),
		integrator: integrator.NewWhittedIntegrator(s, integrator.ConfigFromSampling(sampling)),
		logger:     log.New("renderer"),
	}
}

// SetProgress registers a callback invoked from the collecting goroutine
func (r *Renderer) SetProgress(fn ProgressFunc) {
	r.progress = fn
}

// Render produces a premultiplied RGBA image of the scene
func (r *Renderer) Render() (*image.RGBA, RenderStats) {
	width, height := r.scene.SamplingConfig.Width, r.scene.SamplingConfig.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	stats := r.render(func(index int, ps *PixelStats) {
		c := ps.RGBA(r.config.Gamma)
		offset := index * 4
		img.Pix[offset] = c.R
		img.Pix[offset+1] = c.G
		img.Pix[offset+2] = c.B
		img.Pix[offset+3] = c.A
	})
	return img, stats
}

// RenderInto writes packed 0xAARRGGBB pixels into buffer as they complete.
// Stores are atomic so a display may read the buffer with atomic loads while
// the render is running.
func (r *Renderer) RenderInto(buffer []uint32) (RenderStats, error) {
	width, height := r.scene.SamplingConfig.Width, r.scene.SamplingConfig.Height
	if len(buffer) != width*height {
		return RenderStats{}, fmt.Errorf("buffer holds %d pixels, image is %dx%d", len(buffer), width, height)
	}

	stats := r.render(func(index int, ps *PixelStats) {
		atomic.StoreUint32(&buffer[index], PackARGB(ps.RGBA(r.config.Gamma)))
	})
	return stats, nil
}

// shuffledChunks splits a seeded random permutation of all pixels into chunks
func shuffledChunks(pixels, chunkSize int, seed int64) []ChunkTask {
	order := rand.New(rand.NewSource(seed)).Perm(pixels)

	var tasks []ChunkTask
	for start := 0; start < pixels; start += chunkSize {
		end := min(start+chunkSize, pixels)
		tasks = append(tasks, ChunkTask{ID: len(tasks), Pixels: order[start:end]})
	}
	return tasks
}

// render dispatches all pixels to the worker pool. Each pixel index is owned
// by exactly one chunk, so write never sees concurrent calls for one index.
func (r *Renderer) render(write func(index int, ps *PixelStats)) RenderStats {
	sampling := r.scene.SamplingConfig
	total := sampling.Width * sampling.Height
	tasks := shuffledChunks(total, r.config.ChunkSize, sampling.Seed)

	var rays atomic.Int64
	renderChunk := func(task ChunkTask) ChunkResult {
		sampler := core.NewSeededSampler(sampling.Seed, int64(task.ID))
		result := ChunkResult{ID: task.ID, Pixels: len(task.Pixels)}

		for _, index := range task.Pixels {
			ps, pixelRays := r.renderPixel(index, sampler)
			write(index, &ps)
			if ps.Hits > 0 {
				result.Hits++
			}
			result.Rays += pixelRays
		}
		rays.Add(result.Rays)
		return result
	}

	pool := NewWorkerPool(r.config.NumWorkers, len(tasks), renderChunk)
	r.logger.Infof("rendering %q at %dx%d, %d spp, %d workers, %d chunks",
		r.scene.Name, sampling.Width, sampling.Height, sampling.SamplesPerPixel, pool.GetNumWorkers(), len(tasks))

	start := time.Now()
	pool.Start()
	for _, task := range tasks {
		pool.SubmitTask(task)
	}

	stats := RenderStats{
		Width:           sampling.Width,
		Height:          sampling.Height,
		TotalPixels:     total,
		SamplesPerPixel: sampling.SamplesPerPixel,
		TotalSamples:    total * sampling.SamplesPerPixel,
		Workers:         pool.GetNumWorkers(),
		Chunks:          len(tasks),
		Accelerator:     r.scene.GetAccelerator().Stats(),
	}

	done := 0
	for range tasks {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		done += result.Pixels
		stats.CoveredPixels += result.Hits
		if r.progress != nil {
			r.progress(done, total, rays.Load())
		}
	}
	pool.Stop()

	stats.Rays = rays.Load()
	stats.Elapsed = time.Since(start)
	r.logger.Noticef("rendered %q in %v: %d rays (%.1f per pixel)",
		r.scene.Name, stats.Elapsed.Round(time.Millisecond), stats.Rays, stats.RaysPerPixel())
	return stats
}

// renderPixel traces all primary samples of a pixel. A single sample goes
// through the pixel center, several are jittered inside the pixel.
func (r *Renderer) renderPixel(index int, sampler core.Sampler) (PixelStats, int64) {
	width := r.scene.SamplingConfig.Width
	spp := r.scene.SamplingConfig.SamplesPerPixel
	i, j := index%width, index/width

	var ps PixelStats
	var rays int64
	for s := 0; s < spp; s++ {
		offset := core.NewVec2(0.5, 0.5)
		if spp > 1 {
			offset = sampler.Get2D()
		}

		color, n, hit := r.integrator.Sample(r.camera.GetRay(i, j, offset), sampler)
		ps.AddSample(color, hit)
		rays += int64(n)
	}
	return ps, rays
}
