package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/texture"
)

// NewDefaultScene creates a showcase of every shape and both material models
func NewDefaultScene() *Scene {
	s := NewScene("default")
	s.CameraConfig = geometry.CameraConfig{
		Center: core.NewVec3(0, 1.6, 5),
		LookAt: core.NewVec3(0, 0.6, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40.0,
	}
	s.SamplingConfig.Width = 640
	s.SamplingConfig.Height = 360

	s.Textures.Add("checker", texture.NewChecker(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.2, 0.2, 0.25), 1))
	s.Textures.Add("tiles", texture.NewChecker(core.NewVec3(0.8, 0.3, 0.1), core.NewVec3(0.95, 0.85, 0.6), 4))

	// Ground
	ground := material.NewPhong(core.Vec3{}, core.NewVec3(0.1, 0.1, 0.1), 20, 0.15)
	ground.Texture = "checker"
	s.Add(geometry.NewPlane(), core.Identity(), ground)

	// Phong spheres: matte red and a mirror
	s.Add(geometry.NewSphere(0.5), core.Translate(core.NewVec3(-1.6, 0.5, -0.4)),
		material.NewPhong(core.NewVec3(0.8, 0.1, 0.1), core.NewVec3(0.6, 0.6, 0.6), 60, 0))
	s.Add(geometry.NewSphere(0.45), core.Translate(core.NewVec3(1.5, 0.45, -0.8)),
		material.NewPhong(core.NewVec3(0.05, 0.05, 0.05), core.NewVec3(1, 1, 1), 200, 0.85))

	// Physical spheres: brushed gold and glass
	s.Add(geometry.NewSphere(0.5), core.Translate(core.NewVec3(-0.5, 0.5, -1.2)),
		material.NewPhysical(core.NewVec3(1.0, 0.78, 0.34), 0.25, 1))
	s.Add(geometry.NewSphere(0.4), core.Translate(core.NewVec3(0.3, 0.4, 0.6)), material.NewGlass(1.5))

	// Textured cube and a plastic cylinder
	tiles := material.NewPhong(core.Vec3{}, core.NewVec3(0.2, 0.2, 0.2), 30, 0)
	tiles.Texture = "tiles"
	s.Add(geometry.NewCube(0.7), core.Compose(
		core.Translate(core.NewVec3(0.7, 0.35, -0.4)),
		core.RotateY(math.Pi/5),
	), tiles)
	s.Add(geometry.NewCylinder(0.25, 0.9), core.Translate(core.NewVec3(-1.0, 0.45, 0.6)),
		material.NewPhysical(core.NewVec3(0.1, 0.4, 0.8), 0.5, 0))

	// A glowing triangle behind the spheres
	glow := material.NewPhysical(core.NewVec3(1, 1, 1), 1, 0)
	glow.Emissive = core.NewVec3(1.0, 0.6, 0.2)
	glow.EmissiveIntensity = 1.5
	s.Add(geometry.NewTriangle(
		core.NewVec3(-0.6, 0, 0),
		core.NewVec3(0.6, 0, 0),
		core.NewVec3(0, 1.0, 0),
	), core.Translate(core.NewVec3(0, 0.2, -2.5)), glow)

	s.AddAmbientLight(core.NewVec3(0.08, 0.08, 0.1))
	s.AddPointLight(core.NewVec3(3, 5, 4), core.NewVec3(1.0, 0.95, 0.9), 0.005)
	s.AddPointLight(core.NewVec3(-4, 3, 1), core.NewVec3(0.3, 0.35, 0.5), 0.01)

	return s
}
