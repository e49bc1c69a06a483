package geometry

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CullMode selects which side of a triangle rays may hit
type CullMode int

const (
	NoCulling        CullMode = iota // Both sides are hit
	FrontFaceCulling                 // Rays travelling against the normal are ignored
	BackFaceCulling                  // Rays travelling along the normal are ignored
)

func (c CullMode) String() string {
	switch c {
	case FrontFaceCulling:
		return "front"
	case BackFaceCulling:
		return "back"
	default:
		return "none"
	}
}

// ParseCullMode converts "none", "front" or "back" to a CullMode
func ParseCullMode(s string) (CullMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoCulling, nil
	case "front":
		return FrontFaceCulling, nil
	case "back":
		return BackFaceCulling, nil
	}
	return NoCulling, fmt.Errorf("unknown cull mode %q", s)
}

// culled reports whether a ray with the given direction·normal is rejected
func (c CullMode) culled(dotNormalDirection float64) bool {
	switch c {
	case FrontFaceCulling:
		return dotNormalDirection < 0
	case BackFaceCulling:
		return dotNormalDirection > 0
	}
	return false
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2    core.Vec3 // The three vertices
	Normal        core.Vec3 // Unit geometric normal
	CullMode      CullMode
	MaterialIndex int
}

// NewTriangle creates a new triangle; the normal follows the winding V0->V1->V2
func NewTriangle(v0, v1, v2 core.Vec3, materialIndex int) *Triangle {
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		Normal:        v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		MaterialIndex: materialIndex,
	}
}

// NewTriangleWithNormal creates a new triangle from three vertices with a custom normal
func NewTriangleWithNormal(v0, v1, v2, normal core.Vec3, materialIndex int) *Triangle {
	return &Triangle{
		V0:            v0,
		V1:            v1,
		V2:            v2,
		Normal:        normal.Normalize(),
		MaterialIndex: materialIndex,
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	return hitTriangle(t.V0, t.V1, t.V2, t.Normal, t.CullMode, t.MaterialIndex, ray, rec, wantDetail)
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Validate rejects degenerate triangles
func (t *Triangle) Validate() error {
	if t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).LengthSquared() == 0 {
		return fmt.Errorf("triangle %v %v %v is degenerate", t.V0, t.V1, t.V2)
	}
	if t.Normal.IsZero() {
		return fmt.Errorf("triangle %v %v %v has no normal", t.V0, t.V1, t.V2)
	}
	return nil
}

func hitTriangle(v0, v1, v2, normal core.Vec3, cull CullMode, materialIndex int, ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	const epsilon = 1e-10

	if cull.culled(normal.Dot(ray.Direction)) {
		return false
	}

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	// Determinant near zero: ray lies in the triangle's plane
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	tParam := f * edge2.Dot(q)
	if !ray.InRange(tParam) {
		return false
	}

	if !wantDetail {
		return true
	}

	rec.set(ray, tParam, normal, materialIndex)
	return true
}
