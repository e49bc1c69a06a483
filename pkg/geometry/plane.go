package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// parallelEpsilon is the smallest |dir·normal| still treated as crossing the plane
const parallelEpsilon = 1e-12

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Origin        core.Vec3 // A point on the plane
	Normal        core.Vec3 // Unit normal
	MaterialIndex int
}

// NewPlane creates a new plane
func NewPlane(origin, normal core.Vec3, materialIndex int) *Plane {
	return &Plane{
		Origin:        origin,
		Normal:        normal.Normalize(), // Ensure normal is normalized
		MaterialIndex: materialIndex,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	// Ray parallel to the plane never hits, whatever its origin
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < parallelEpsilon {
		return false
	}

	t := p.Origin.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !ray.InRange(t) {
		return false
	}

	if !wantDetail {
		return true
	}

	rec.set(ray, t, p.Normal, p.MaterialIndex)
	return true
}

// BoundingBox returns a very large box; planes are infinite
func (p *Plane) BoundingBox() core.AABB {
	const largeValue = 1e6
	return core.NewAABB(
		core.NewVec3(-largeValue, -largeValue, -largeValue),
		core.NewVec3(largeValue, largeValue, largeValue),
	)
}

// Validate checks the plane's invariants
func (p *Plane) Validate() error {
	if math.Abs(p.Normal.Length()-1) > 1e-6 {
		return fmt.Errorf("plane at %v: normal %v is not unit length", p.Origin, p.Normal)
	}
	return nil
}
