package scene

import (
	"math"
	"math/rand"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, cubed
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l_, m_, s_ = l_*l_*l_, m_*m_*m_, s_*s_*s_

	// LMS to linear RGB
	return core.NewVec3(
		+4.0767416621*l_-3.3077115913*m_+0.2309699292*s_,
		-1.2684380046*l_+2.6097574011*m_-0.3413193965*s_,
		-0.0041960863*l_-0.7034186147*m_+1.7076147010*s_,
	).Clamp(0, 1)
}

// NewSphereGridScene creates a gridSize x gridSize grid of spheres on a
// plane, mixing Phong and Physical materials. It exists to stress the
// acceleration structure.
func NewSphereGridScene(gridSize int) *Scene {
	s := NewScene("sphere-grid")
	s.CameraConfig = geometry.CameraConfig{
		Center: core.NewVec3(4.5, 6, 18),
		LookAt: core.NewVec3(4.5, 0.8, 4.5),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40.0,
	}
	s.SamplingConfig.Width = 640
	s.SamplingConfig.Height = 360
	s.SamplingConfig.MaxReflectedRays = 4

	s.Add(geometry.NewPlane(), core.Identity(), material.NewPhong(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, 1, 0))

	// Fit the grid into roughly 9x9 units centered on x=z=4.5
	const targetArea = 9.0
	spacing := targetArea / float64(max(gridSize-1, 1))
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	random := rand.New(rand.NewSource(int64(gridSize)))
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, radius, z)

			// Hue across X, chroma across Z
			hue := float64(i) / float64(max(gridSize-1, 1)) * 360.0
			chroma := 0.05 + float64(j)/float64(max(gridSize-1, 1))*0.2
			lightness := 0.65 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var mat material.Material
			if (i+j)%2 == 0 {
				mat = material.NewPhysical(color, 0.05+0.3*random.Float64(), 1)
			} else {
				mat = material.NewPhong(color, core.NewVec3(0.5, 0.5, 0.5), 50, 0.1)
			}
			s.Add(geometry.NewSphere(radius), core.Translate(position), mat)
		}
	}

	s.AddAmbientLight(core.NewVec3(0.1, 0.1, 0.12))
	s.AddPointLight(core.NewVec3(20, 25, 20), core.NewVec3(1.0, 0.96, 0.9), 0)

	return s
}
