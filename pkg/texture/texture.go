package texture

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Texture maps UV coordinates to an RGB color in [0,1]
type Texture interface {
	Sample(uv core.Vec2) core.Vec3
}

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample looks up the texture at given UV coordinates using nearest-neighbor filtering
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	u := wrap(uv.X)
	v := wrap(uv.Y)

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	return t.Pixels[y*t.Width+x]
}

// Checker is a procedural checkerboard in UV space
type Checker struct {
	Even, Odd core.Vec3
	Scale     float64 // Checks per unit of UV
}

// NewChecker creates a checkerboard texture
func NewChecker(even, odd core.Vec3, scale float64) *Checker {
	return &Checker{Even: even, Odd: odd, Scale: scale}
}

// Sample returns Even or Odd depending on which check uv falls in
func (c *Checker) Sample(uv core.Vec2) core.Vec3 {
	x := int(math.Floor(uv.X * c.Scale))
	y := int(math.Floor(uv.Y * c.Scale))
	if ((x+y)%2+2)%2 == 0 {
		return c.Even
	}
	return c.Odd
}

// wrap maps a coordinate into [0, 1)
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		return 0
	}
	return x
}
