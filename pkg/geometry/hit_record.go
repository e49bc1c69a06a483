package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// HitRecord contains information about the nearest ray-primitive intersection
type HitRecord struct {
	DidHit        bool      // Whether anything was hit
	Origin        core.Vec3 // World-space point of intersection
	Normal        core.Vec3 // Unit surface normal at the intersection
	T             float64   // Parameter t along the ray
	MaterialIndex int       // Index into the scene's material table
}

// NoHit returns an empty record for a ray that hit nothing
func NoHit() HitRecord {
	return HitRecord{}
}

// set fills in the record for an accepted intersection
func (h *HitRecord) set(ray core.Ray, t float64, normal core.Vec3, materialIndex int) {
	h.DidHit = true
	h.T = t
	h.Origin = ray.At(t)
	h.Normal = normal
	h.MaterialIndex = materialIndex
}
