package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/texture"
)

// Side selects which side of a surface is shaded
type Side int

const (
	SideFront Side = iota // Shade with the outward normal
	SideBack              // Shade with the inward normal
	SideBoth              // Shade with the normal facing the incoming ray
)

// Material is the closed set of surface models understood by the integrator:
// *Phong and *Physical.
type Material interface {
	Sidedness() Side
	TextureKey() string
	isMaterial()
}

// Phong is the classic empirical model with mirror reflectivity
type Phong struct {
	Side         Side
	Color        core.Vec3 // Diffuse albedo
	Emissive     core.Vec3
	Specular     core.Vec3
	Reflectivity float64 // Fraction of light handled by mirror reflection, in [0,1]
	Shininess    float64 // Specular exponent
	Texture      string  // Optional texture cache key, overrides Color
}

// NewPhong creates a front-sided, untextured Phong material
func NewPhong(color, specular core.Vec3, shininess, reflectivity float64) *Phong {
	return &Phong{
		Side:         SideFront,
		Color:        color,
		Specular:     specular,
		Shininess:    shininess,
		Reflectivity: reflectivity,
	}
}

func (m *Phong) Sidedness() Side    { return m.Side }
func (m *Phong) TextureKey() string { return m.Texture }
func (m *Phong) isMaterial()        {}

// Albedo returns the diffuse color at uv
func (m *Phong) Albedo(textures *texture.Cache, uv core.Vec2) core.Vec3 {
	return albedo(m.Color, m.Texture, textures, uv)
}

// Physical is a metalness/roughness microfacet material with optional transmission
type Physical struct {
	Side              Side
	Color             core.Vec3 // Base color
	Opacity           float64   // 1 is opaque, below 1 the surface refracts
	Emissive          core.Vec3
	EmissiveIntensity float64
	Roughness         float64 // In [0,1]
	Metalness         float64 // In [0,1]
	RefractiveIndex   float64
	Texture           string // Optional texture cache key, overrides Color
}

// NewPhysical creates an opaque, front-sided Physical material
func NewPhysical(color core.Vec3, roughness, metalness float64) *Physical {
	return &Physical{
		Side:            SideFront,
		Color:           color,
		Opacity:         1.0,
		Roughness:       roughness,
		Metalness:       metalness,
		RefractiveIndex: 1.5,
	}
}

// NewGlass creates a clear dielectric with the given refractive index
func NewGlass(refractiveIndex float64) *Physical {
	return &Physical{
		Side:            SideFront,
		Color:           core.NewVec3(1, 1, 1),
		Opacity:         0,
		Roughness:       0,
		Metalness:       0,
		RefractiveIndex: refractiveIndex,
	}
}

func (m *Physical) Sidedness() Side    { return m.Side }
func (m *Physical) TextureKey() string { return m.Texture }
func (m *Physical) isMaterial()        {}

// Albedo returns the base color at uv
func (m *Physical) Albedo(textures *texture.Cache, uv core.Vec2) core.Vec3 {
	return albedo(m.Color, m.Texture, textures, uv)
}

// BaseReflectivity is the Fresnel reflectance at normal incidence, blended
// between the dielectric constant and the albedo by metalness
func (m *Physical) BaseReflectivity(albedo core.Vec3) core.Vec3 {
	return core.NewVec3(DielectricF0, DielectricF0, DielectricF0).Lerp(albedo, m.Metalness)
}

func albedo(color core.Vec3, key string, textures *texture.Cache, uv core.Vec2) core.Vec3 {
	if key == "" {
		return color
	}
	return textures.Get(key).Sample(uv)
}
