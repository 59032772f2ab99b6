package core

// AirIOR is the refractive index of the medium surrounding all objects
const AirIOR = 1.0

// Epsilon is the smallest hit distance accepted by shape intersection tests
const Epsilon = 1e-9

// Bias offsets secondary ray origins along the surface normal
const Bias = 1e-4

// RayKind classifies a ray by the role it plays in the integrator
type RayKind int

const (
	RayPrimary RayKind = iota
	RaySecondary
	RayShadow
)

// Medium links the refractive media enclosing a ray, innermost first
type Medium struct {
	IOR   float64
	Outer *Medium
}

// Ray represents a ray with an origin and direction.
// Direction is not required to be unit length; hit distances are expressed
// in multiples of Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Kind      RayKind
	Depth     int     // Recursion depth, 0 for primary rays
	IOR       float64 // Refractive index of the medium the ray travels through
	Enclosing *Medium // Media outside the current one, nil when that is air
}

// NewRay creates a new primary ray travelling through air
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Kind: RayPrimary, IOR: AirIOR}
}

// NewShadowRay creates an occlusion query ray
func NewShadowRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Kind: RayShadow, IOR: AirIOR}
}

// Secondary spawns a reflected or refracted ray one level deeper than r
func (r Ray) Secondary(origin, direction Vec3, ior float64) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		Kind:      RaySecondary,
		Depth:     r.Depth + 1,
		IOR:       ior,
		Enclosing: r.Enclosing,
	}
}

// Enter spawns a ray transmitted into a medium of the given index. The
// current medium becomes the enclosing one.
func (r Ray) Enter(origin, direction Vec3, ior float64) Ray {
	out := r.Secondary(origin, direction, ior)
	out.Enclosing = &Medium{IOR: r.IOR, Outer: r.Enclosing}
	return out
}

// Exit spawns a ray transmitted out of the current medium into the
// enclosing one
func (r Ray) Exit(origin, direction Vec3) Ray {
	out := r.Secondary(origin, direction, r.OuterIOR())
	if r.Enclosing != nil {
		out.Enclosing = r.Enclosing.Outer
	}
	return out
}

// OuterIOR returns the refractive index of the medium enclosing the current one
func (r Ray) OuterIOR() float64 {
	if r.Enclosing == nil {
		return AirIOR
	}
	return r.Enclosing.IOR
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform returns the ray expressed in the space of m. The direction is not
// renormalized, so a distance t along the result is the same t along r.
func (r Ray) Transform(m Matrix4) Ray {
	out := r
	out.Origin = m.TransformPoint(r.Origin)
	out.Direction = m.TransformVector(r.Direction)
	return out
}
