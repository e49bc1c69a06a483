package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Primitive is anything a ray can be tested against.
//
// Hit reports whether the ray hits the primitive within [ray.Min, ray.Max].
// When wantDetail is false the test may stop as soon as existence is known and
// rec is left untouched (it may be nil). Degenerate geometry is a miss, never an error.
type Primitive interface {
	Hit(ray core.Ray, rec *HitRecord, wantDetail bool) bool
	BoundingBox() core.AABB
}
