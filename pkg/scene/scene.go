package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/texture"
)

// Scene is the frozen input of a render. It is filled in by a builder,
// prepared once with Preprocess and then shared read-only by all workers.
type Scene struct {
	Name           string
	CameraConfig   geometry.CameraConfig
	Primitives     []*geometry.Primitive // World-space objects
	Lights         []lights.Light
	Textures       *texture.Cache
	SamplingConfig SamplingConfig
	Accelerator    string // One of accel.Kinds, empty selects the k-d tree

	accel accel.Accelerator
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width             int   // Image width
	Height            int   // Image height
	SamplesPerPixel   int   // Number of primary rays per pixel
	MaxDepth          int   // Maximum recursion depth
	MaxReflectedRays  int   // Glossy reflection rays at depth 0, decays with depth
	MaxOcclusionDepth int   // Shadow rays are only cast below this depth
	Seed              int64 // Seed for pixel order and sampling
}

// DefaultSamplingConfig returns the standard render options
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:             400,
		Height:            300,
		SamplesPerPixel:   4,
		MaxDepth:          6,
		MaxReflectedRays:  16,
		MaxOcclusionDepth: 3,
		Seed:              1,
	}
}

// NewScene creates an empty scene with default settings
func NewScene(name string) *Scene {
	return &Scene{
		Name:           name,
		CameraConfig:   geometry.DefaultCameraConfig(),
		Textures:       texture.NewCache(),
		SamplingConfig: DefaultSamplingConfig(),
		Accelerator:    accel.KindKdTree,
	}
}

// Add places a shape in the world and returns the new primitive
func (s *Scene) Add(shape geometry.Shape, transform core.Matrix4, mat material.Material) *geometry.Primitive {
	p := geometry.NewPrimitive(shape, transform, mat)
	s.Primitives = append(s.Primitives, p)
	return p
}

// AddMesh adds every triangle of mesh as its own primitive and returns the
// number of triangles added. Vertex normals and UVs are used when present.
func (s *Scene) AddMesh(mesh *loaders.PLYData, transform core.Matrix4, mat material.Material) int {
	hasNormals := len(mesh.Normals) == len(mesh.Vertices)
	hasUVs := len(mesh.TexCoords) == len(mesh.Vertices)

	for i := 0; i+2 < len(mesh.Faces); i += 3 {
		a, b, c := mesh.Faces[i], mesh.Faces[i+1], mesh.Faces[i+2]
		var tri *geometry.Triangle
		if hasNormals {
			tri = geometry.NewTriangleWithNormals(mesh.Vertices[a], mesh.Vertices[b], mesh.Vertices[c],
				mesh.Normals[a], mesh.Normals[b], mesh.Normals[c])
		} else {
			tri = geometry.NewTriangle(mesh.Vertices[a], mesh.Vertices[b], mesh.Vertices[c])
		}
		if hasUVs {
			tri = tri.WithUVs(mesh.TexCoords[a], mesh.TexCoords[b], mesh.TexCoords[c])
		}
		s.Add(tri, transform, mat)
	}
	return mesh.TriangleCount()
}

// AddAmbientLight adds a constant light
func (s *Scene) AddAmbientLight(color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewAmbient(color))
}

// AddPointLight adds a point light at position
func (s *Scene) AddPointLight(position, color core.Vec3, falloff float64) {
	s.Lights = append(s.Lights, lights.NewPoint(core.Translate(position), color, falloff))
}

// Preprocess validates the scene and builds the acceleration structure.
// It must be called once, before rendering.
func (s *Scene) Preprocess() error {
	logger := log.New("scene")

	if s.SamplingConfig.Width <= 0 || s.SamplingConfig.Height <= 0 {
		return fmt.Errorf("scene %q: invalid image size %dx%d", s.Name, s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		return fmt.Errorf("scene %q: samples per pixel must be positive, got %d", s.Name, s.SamplingConfig.SamplesPerPixel)
	}

	if s.Textures == nil {
		s.Textures = texture.NewCache()
	}
	for i, p := range s.Primitives {
		if key := p.Material.TextureKey(); key != "" && !s.Textures.Has(key) {
			return fmt.Errorf("scene %q: primitive %d references texture %q that is not loaded", s.Name, i, key)
		}
	}

	a, err := accel.New(s.Accelerator, s.Primitives)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.accel = a

	logger.Infof("scene %q: %d primitives, %d lights, %d textures, accelerator %s",
		s.Name, len(s.Primitives), len(s.Lights), len(s.Textures.Keys()), a.Stats().Kind)
	return nil
}

// GetAccelerator returns the structure built by Preprocess
func (s *Scene) GetAccelerator() accel.Accelerator {
	if s.accel == nil {
		panic(fmt.Sprintf("scene %q used before Preprocess", s.Name))
	}
	return s.accel
}
