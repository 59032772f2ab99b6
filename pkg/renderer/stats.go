package renderer

import (
	"image/color"
	"math"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int
	Height          int
	TotalPixels     int   // Total number of pixels rendered
	CoveredPixels   int   // Pixels where at least one sample hit geometry
	SamplesPerPixel int   // Primary rays per pixel
	TotalSamples    int   // Total number of primary rays
	Rays            int64 // All rays traced, including shadow rays
	Workers         int
	Chunks          int
	Elapsed         time.Duration
	Accelerator     accel.Stats
}

// RaysPerPixel returns the average number of rays traced per pixel
func (s RenderStats) RaysPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.Rays) / float64(s.TotalPixels)
}

// RaysPerSecond returns the tracing throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rays) / s.Elapsed.Seconds()
}

// PixelStats accumulates the primary samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // Sum of the samples that hit geometry
	Hits        int
	SampleCount int
}

// AddSample adds a primary sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3, hit bool) {
	ps.SampleCount++
	if hit {
		ps.ColorAccum = ps.ColorAccum.Add(color)
		ps.Hits++
	}
}

// Coverage returns the fraction of samples that hit geometry
func (ps *PixelStats) Coverage() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	return float64(ps.Hits) / float64(ps.SampleCount)
}

// GetColor returns the average color of the samples that hit geometry
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.Hits == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.Hits))
}

// RGBA converts the pixel to premultiplied 8-bit color: the clamped,
// gamma-corrected average of the hits scaled by coverage, with alpha equal
// to coverage
func (ps *PixelStats) RGBA(gamma float64) color.RGBA {
	coverage := ps.Coverage()
	if coverage == 0 {
		return color.RGBA{}
	}

	c := ps.GetColor().Clamp(0, 1).GammaCorrect(gamma).Multiply(coverage)
	return color.RGBA{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
		A: toByte(coverage),
	}
}

// PackARGB packs a color as 0xAARRGGBB
func PackARGB(c color.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func toByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v*255+0.5)))
}
