package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a look-at pinhole camera
type CameraConfig struct {
	Center      core.Vec3 // Eye position
	LookAt      core.Vec3 // Point the camera faces
	Up          core.Vec3 // Up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width over height, 0 derives it from the image size
}

// DefaultCameraConfig looks down -Z from a short distance above the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center: core.NewVec3(0, 1, 5),
		LookAt: core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45.0,
	}
}

// Camera generates primary rays for an image of fixed size
type Camera struct {
	config        CameraConfig
	width, height int
	w, u, v       core.Vec3 // Camera basis, w points backwards
	halfWidth     float64
	halfHeight    float64
}

// NewCamera creates a camera for a width x height image
func NewCamera(config CameraConfig, width, height int) *Camera {
	aspect := config.AspectRatio
	if aspect <= 0 {
		aspect = float64(width) / float64(height)
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	if u.IsZero() {
		u, _ = core.OrthonormalBasis(w)
	}
	v := w.Cross(u)

	halfHeight := math.Tan(config.VFov * math.Pi / 360.0)

	return &Camera{
		config:     config,
		width:      width,
		height:     height,
		w:          w,
		u:          u,
		v:          v,
		halfWidth:  aspect * halfHeight,
		halfHeight: halfHeight,
	}
}

// GetRay returns the primary ray through pixel (i, j), row 0 being the top.
// offset positions the ray inside the pixel, (0.5, 0.5) being its center.
func (c *Camera) GetRay(i, j int, offset core.Vec2) core.Ray {
	sx := (float64(i)+offset.X)/float64(c.width)*2 - 1
	sy := 1 - (float64(j)+offset.Y)/float64(c.height)*2

	direction := c.w.Negate().
		Add(c.u.Multiply(sx * c.halfWidth)).
		Add(c.v.Multiply(sy * c.halfHeight))

	return core.NewRay(c.config.Center, direction.Normalize())
}

// Config returns the camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}
