package core

import "math"

// DefaultRayMin keeps secondary rays from re-hitting the surface they left
const DefaultRayMin = 0.0001

// Ray represents a ray with an origin, a unit direction and a parametric interval [Min, Max]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Min       float64
	Max       float64
}

// NewRay creates a ray with the default interval [DefaultRayMin, +max float]
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, Min: DefaultRayMin, Max: math.MaxFloat64}
}

// NewBoundedRay creates a ray restricted to [tMin, tMax]
func NewBoundedRay(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{Origin: origin, Direction: direction, Min: tMin, Max: tMax}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// InRange reports whether t lies inside the ray's interval
func (r Ray) InRange(t float64) bool {
	return t >= r.Min && t <= r.Max
}
