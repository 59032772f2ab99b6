package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// glossyDecay scales the glossy ray budget at each recursion level
const glossyDecay = 0.125

// Config bounds the recursion of the integrator
type Config struct {
	MaxDepth          int // Rays at this depth or deeper return black
	MaxReflectedRays  int // Glossy reflection rays at depth 0
	MaxOcclusionDepth int // Shadow rays are only cast below this depth
}

// ConfigFromSampling derives the integrator limits from the render options
func ConfigFromSampling(config scene.SamplingConfig) Config {
	return Config{
		MaxDepth:          config.MaxDepth,
		MaxReflectedRays:  config.MaxReflectedRays,
		MaxOcclusionDepth: config.MaxOcclusionDepth,
	}
}

// WhittedIntegrator recursively traces reflection, refraction and shadow
// rays from every visible surface point
type WhittedIntegrator struct {
	config Config
	scene  *scene.Scene
}

// NewWhittedIntegrator creates an integrator for a preprocessed scene
func NewWhittedIntegrator(s *scene.Scene, config Config) *WhittedIntegrator {
	return &WhittedIntegrator{config: config, scene: s}
}

// GetColor returns the radiance along ray and the number of rays traced for it
func (w *WhittedIntegrator) GetColor(ray core.Ray, sampler core.Sampler) (core.Vec3, int) {
	color, rays, _ := w.Sample(ray, sampler)
	return color, rays
}

// Sample is GetColor that also reports whether the ray hit any geometry
func (w *WhittedIntegrator) Sample(ray core.Ray, sampler core.Sampler) (core.Vec3, int, bool) {
	if ray.Depth >= w.config.MaxDepth {
		return core.Vec3{}, 0, false
	}

	hit, ok := w.scene.GetAccelerator().Raycast(ray, math.Inf(1))
	if !ok {
		return core.Vec3{}, 1, false
	}
	si := hit.Resolve(ray)

	var color core.Vec3
	var rays int
	switch m := si.Material().(type) {
	case *material.Phong:
		color, rays = w.shadePhong(ray, si, m, sampler)
	case *material.Physical:
		color, rays = w.shadePhysical(ray, si, m, sampler)
	default:
		panic(fmt.Sprintf("unknown material type %T", m))
	}
	return color, rays + 1, true
}

// occluded casts a shadow ray from the light towards point
func (w *WhittedIntegrator) occluded(light *lights.Point, direction core.Vec3, distance float64, depth int) (bool, int) {
	if depth >= w.config.MaxOcclusionDepth {
		return false, 0
	}
	shadow := core.NewShadowRay(light.Position, direction)
	return w.scene.GetAccelerator().ShadowCast(shadow, distance-core.Bias), 1
}

func (w *WhittedIntegrator) shadePhong(ray core.Ray, si geometry.SurfaceInteraction, m *material.Phong, sampler core.Sampler) (core.Vec3, int) {
	albedo := m.Albedo(w.scene.Textures, si.UV)
	n := si.Normal
	view := ray.Direction.Normalize().Negate()

	color := m.Emissive
	rays := 0

	var direct core.Vec3
	for _, l := range w.scene.Lights {
		switch light := l.(type) {
		case *lights.Ambient:
			color = color.Add(light.Color.MultiplyVec(albedo))
		case *lights.Point:
			toHit, distance := light.Sample(si.Point)
			toLight := toHit.Negate()
			nDotL := n.Dot(toLight)
			if nDotL <= 0 {
				continue
			}

			blocked, shadowRays := w.occluded(light, toHit, distance, ray.Depth)
			rays += shadowRays
			if blocked {
				continue
			}

			contribution := albedo.Multiply(nDotL)
			half := toLight.Add(view).Normalize()
			if nDotH := n.Dot(half); nDotH > 0 {
				contribution = contribution.Add(m.Specular.Multiply(math.Pow(nDotH, m.Shininess)))
			}
			direct = direct.Add(contribution.MultiplyVec(light.Intensity(distance)))
		}
	}
	color = color.Add(direct.Multiply(1 - m.Reflectivity))

	if m.Reflectivity > 0 {
		dir := core.Reflect(ray.Direction.Normalize(), n)
		reflected := ray.Secondary(si.Point.Add(n.Multiply(core.Bias)), dir, ray.IOR)
		c, r := w.GetColor(reflected, sampler)
		color = color.Add(c.Multiply(m.Reflectivity))
		rays += r
	}

	return color, rays
}

func (w *WhittedIntegrator) shadePhysical(ray core.Ray, si geometry.SurfaceInteraction, m *material.Physical, sampler core.Sampler) (core.Vec3, int) {
	albedo := m.Albedo(w.scene.Textures, si.UV)
	dir := ray.Direction.Normalize()
	view := dir.Negate()

	// Transmissive surfaces are shaded from the side the ray arrives on
	n := si.Normal
	if m.Opacity < 1 && n.Dot(view) < 0 {
		n = n.Negate()
	}

	nDotV := math.Max(n.Dot(view), 1e-4)
	f0 := m.BaseReflectivity(albedo)
	fresnel := material.FresnelSchlick(nDotV, f0)
	one := core.NewVec3(1, 1, 1)
	kd := one.Subtract(fresnel).Multiply(1 - m.Metalness)
	diffuse := kd.MultiplyVec(albedo).Multiply(1 / math.Pi)

	rays := 0
	var ambient, direct core.Vec3
	for _, l := range w.scene.Lights {
		switch light := l.(type) {
		case *lights.Ambient:
			ambient = ambient.Add(light.Color.MultiplyVec(albedo))
		case *lights.Point:
			toHit, distance := light.Sample(si.Point)
			toLight := toHit.Negate()
			nDotL := n.Dot(toLight)
			if nDotL <= 0 {
				continue
			}

			blocked, shadowRays := w.occluded(light, toHit, distance, ray.Depth)
			rays += shadowRays
			if blocked {
				continue
			}

			half := toLight.Add(view).Normalize()
			d := material.DistributionGGX(n.Dot(half), m.Roughness)
			g := material.GeometrySmith(nDotV, nDotL, m.Roughness)
			specular := fresnel.Multiply(d * g / math.Max(4*nDotV*nDotL, 1e-6))

			radiance := light.Intensity(distance).Multiply(nDotL)
			direct = direct.Add(diffuse.Add(specular).MultiplyVec(radiance))
		}
	}

	color := m.Emissive.Multiply(m.EmissiveIntensity)

	if m.Opacity > 0 {
		reflection, r := w.glossyReflection(ray, si.Point, dir, n, m.Roughness, sampler)
		rays += r
		surface := ambient.Add(direct).Add(reflection.MultiplyVec(fresnel))
		color = color.Add(surface.Multiply(m.Opacity))
	}

	if m.Opacity < 1 {
		refraction, r := w.refraction(ray, si, m, dir, sampler)
		rays += r
		color = color.Add(one.Subtract(fresnel).MultiplyVec(refraction).Multiply(1 - m.Opacity))
	}

	return color, rays
}

// glossyReflection averages reflection rays sampled in a cone around the
// mirror direction. The ray budget shrinks geometrically with depth.
func (w *WhittedIntegrator) glossyReflection(ray core.Ray, point, dir, n core.Vec3, roughness float64, sampler core.Sampler) (core.Vec3, int) {
	mirror := core.Reflect(dir, n)
	origin := point.Add(n.Multiply(core.Bias))

	count := 1
	if roughness > 0 {
		budget := float64(w.config.MaxReflectedRays) * math.Pow(glossyDecay, float64(ray.Depth))
		count = max(1, int(budget))
	}
	halfAngle := roughness * math.Pi / 4

	var sum core.Vec3
	rays, taken := 0, 0
	for i := 0; i < count; i++ {
		sampleDir := core.SampleCone(mirror, halfAngle, sampler.Get2D())
		if sampleDir.Dot(n) <= 0 {
			continue
		}
		c, r := w.GetColor(ray.Secondary(origin, sampleDir, ray.IOR), sampler)
		sum = sum.Add(c)
		rays += r
		taken++
	}

	if taken == 0 {
		return core.Vec3{}, rays
	}
	return sum.Multiply(1 / float64(taken)), rays
}

// refraction traces the transmitted ray. Total internal reflection yields black.
// Leaving an object returns the ray to the medium it entered from.
func (w *WhittedIntegrator) refraction(ray core.Ray, si geometry.SurfaceInteraction, m *material.Physical, dir core.Vec3, sampler core.Sampler) (core.Vec3, int) {
	n := si.GeometricNormal
	leaving := dir.Dot(n) > 0
	eta := ray.IOR / m.RefractiveIndex
	if leaving {
		n = n.Negate()
		eta = m.RefractiveIndex / ray.OuterIOR()
	}

	transmitted, ok := material.Refract(dir, n, eta)
	if !ok {
		return core.Vec3{}, 0
	}

	origin := si.Point.Subtract(n.Multiply(core.Bias))
	if leaving {
		return w.GetColor(ray.Exit(origin, transmitted), sampler)
	}
	return w.GetColor(ray.Enter(origin, transmitted, m.RefractiveIndex), sampler)
}
