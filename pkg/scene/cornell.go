package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewCornellScene creates a Cornell box: five walls around a cube and a
// metal sphere, lit by a point light under the ceiling
func NewCornellScene() *Scene {
	s := NewScene("cornell")
	s.CameraConfig = geometry.CameraConfig{
		Center:      core.NewVec3(0, 1, 3.6),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 1.0,
	}
	s.SamplingConfig.Width = 400
	s.SamplingConfig.Height = 400

	white := material.NewPhong(core.NewVec3(0.73, 0.73, 0.73), core.Vec3{}, 1, 0)
	red := material.NewPhong(core.NewVec3(0.65, 0.05, 0.05), core.Vec3{}, 1, 0)
	green := material.NewPhong(core.NewVec3(0.12, 0.45, 0.15), core.Vec3{}, 1, 0)

	// The box spans x and z in [-1, 1] and y in [0, 2]; squares face +Y before rotation
	const boxSize = 2.0
	s.Add(geometry.NewSquare(boxSize), core.Identity(), white)
	s.Add(geometry.NewSquare(boxSize), core.Compose(core.Translate(core.NewVec3(0, 2, 0)), core.RotateX(math.Pi)), white)
	s.Add(geometry.NewSquare(boxSize), core.Compose(core.Translate(core.NewVec3(0, 1, -1)), core.RotateX(math.Pi/2)), white)
	s.Add(geometry.NewSquare(boxSize), core.Compose(core.Translate(core.NewVec3(-1, 1, 0)), core.RotateZ(-math.Pi/2)), red)
	s.Add(geometry.NewSquare(boxSize), core.Compose(core.Translate(core.NewVec3(1, 1, 0)), core.RotateZ(math.Pi/2)), green)

	s.Add(geometry.NewCube(0.6), core.Compose(
		core.Translate(core.NewVec3(0.35, 0.3, 0.3)),
		core.RotateY(0.3),
	), material.NewPhong(core.NewVec3(0.73, 0.73, 0.73), core.NewVec3(0.3, 0.3, 0.3), 40, 0))
	s.Add(geometry.NewSphere(0.35), core.Translate(core.NewVec3(-0.4, 0.35, -0.3)),
		material.NewPhysical(core.NewVec3(0.8, 0.8, 0.9), 0.05, 1))

	s.AddAmbientLight(core.NewVec3(0.05, 0.05, 0.05))
	s.AddPointLight(core.NewVec3(0, 1.8, 0), core.NewVec3(1.2, 1.2, 1.2), 0.2)

	return s
}
