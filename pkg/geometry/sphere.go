package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center        core.Vec3
	Radius        float64
	MaterialIndex int
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialIndex int) *Sphere {
	return &Sphere{
		Center:        center,
		Radius:        radius,
		MaterialIndex: materialIndex,
	}
}

// Hit tests if a ray intersects with the sphere.
// The near root is found geometrically: project the origin-to-center vector on the
// ray, then step back by the half chord. The far root is only used when the ray
// starts inside the sphere.
func (s *Sphere) Hit(ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	// Vector from ray origin to sphere center
	tc := s.Center.Subtract(ray.Origin)

	// Closest approach along the ray and squared distance of the center to the ray
	projection := tc.Dot(ray.Direction)
	offsetSquared := tc.LengthSquared() - projection*projection

	radicand := s.Radius*s.Radius - offsetSquared
	if radicand < 0 {
		return false
	}
	halfChord := math.Sqrt(radicand)

	t := projection - halfChord
	if !ray.InRange(t) {
		t = projection + halfChord
		if !ray.InRange(t) {
			return false
		}
	}

	if !wantDetail {
		return true
	}

	point := ray.At(t)
	rec.set(ray, t, point.Subtract(s.Center).Multiply(1.0/s.Radius), s.MaterialIndex)
	return true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// Validate checks the sphere's invariants
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("sphere at %v: radius must be positive, got %g", s.Center, s.Radius)
	}
	return nil
}
