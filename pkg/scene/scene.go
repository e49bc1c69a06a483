package scene

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// It is built once and then only read while frames render.
type Scene struct {
	Name string

	Spheres        []*geometry.Sphere
	Planes         []*geometry.Plane
	Triangles      []*geometry.Triangle
	TriangleMeshes []*geometry.TriangleMesh

	materials  []material.Material
	lights     []lights.Light
	camera     *Camera
	background core.Vec3
}

// NewScene creates an empty scene with a default camera and a white background
func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		camera:     NewCamera(core.Vec3{}, 45),
		background: core.White,
	}
}

// Camera returns the scene camera
func (s *Scene) Camera() *Camera { return s.camera }

// SetCamera replaces the scene camera
func (s *Scene) SetCamera(c *Camera) { s.camera = c }

// Materials returns the material table indexed by HitRecord.MaterialIndex
func (s *Scene) Materials() []material.Material { return s.materials }

// Lights returns the scene lights in insertion order
func (s *Scene) Lights() []lights.Light { return s.lights }

// Background returns the color seen by rays that hit nothing
func (s *Scene) Background() core.Vec3 { return s.background }

// SetBackground sets the miss color
func (s *Scene) SetBackground(c core.Vec3) { s.background = c }

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.materials = append(s.materials, m)
	return len(s.materials) - 1
}

// AddSphere adds a sphere
func (s *Scene) AddSphere(center core.Vec3, radius float64, materialIndex int) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, materialIndex)
	s.Spheres = append(s.Spheres, sphere)
	return sphere
}

// AddPlane adds an infinite plane
func (s *Scene) AddPlane(origin, normal core.Vec3, materialIndex int) *geometry.Plane {
	plane := geometry.NewPlane(origin, normal, materialIndex)
	s.Planes = append(s.Planes, plane)
	return plane
}

// AddTriangle adds a single triangle
func (s *Scene) AddTriangle(t *geometry.Triangle) *geometry.Triangle {
	s.Triangles = append(s.Triangles, t)
	return t
}

// AddTriangleMesh adds a mesh
func (s *Scene) AddTriangleMesh(positions []core.Vec3, indices []int, cullMode geometry.CullMode, materialIndex int) *geometry.TriangleMesh {
	mesh := geometry.NewTriangleMesh(positions, indices, nil, cullMode, materialIndex)
	s.TriangleMeshes = append(s.TriangleMeshes, mesh)
	return mesh
}

// AddPointLight adds a point light
func (s *Scene) AddPointLight(origin core.Vec3, intensity float64, color core.Vec3) lights.Light {
	light := lights.NewPointLight(origin, intensity, color)
	s.lights = append(s.lights, light)
	return light
}

// AddDirectionalLight adds a directional light
func (s *Scene) AddDirectionalLight(direction core.Vec3, intensity float64, color core.Vec3) lights.Light {
	light := lights.NewDirectionalLight(direction, intensity, color)
	s.lights = append(s.lights, light)
	return light
}

// ClosestHit returns the nearest intersection along the ray by testing every primitive
func (s *Scene) ClosestHit(ray core.Ray) geometry.HitRecord {
	closest := geometry.NoHit()

	// Each accepted hit shrinks the interval so later primitives must be closer
	var hit geometry.HitRecord
	for _, p := range s.Spheres {
		if p.Hit(ray, &hit, true) {
			closest, ray.Max = hit, hit.T
		}
	}
	for _, p := range s.Planes {
		if p.Hit(ray, &hit, true) {
			closest, ray.Max = hit, hit.T
		}
	}
	for _, p := range s.Triangles {
		if p.Hit(ray, &hit, true) {
			closest, ray.Max = hit, hit.T
		}
	}
	for _, p := range s.TriangleMeshes {
		if p.Hit(ray, &hit, true) {
			closest, ray.Max = hit, hit.T
		}
	}

	return closest
}

// AnyHit reports whether anything blocks the ray, stopping at the first hit
func (s *Scene) AnyHit(ray core.Ray) bool {
	for _, p := range s.Spheres {
		if p.Hit(ray, nil, false) {
			return true
		}
	}
	for _, p := range s.Planes {
		if p.Hit(ray, nil, false) {
			return true
		}
	}
	for _, p := range s.Triangles {
		if p.Hit(ray, nil, false) {
			return true
		}
	}
	for _, p := range s.TriangleMeshes {
		if p.Hit(ray, nil, false) {
			return true
		}
	}
	return false
}

// Primitives returns every top-level primitive: spheres, planes, triangles, meshes
func (s *Scene) Primitives() []geometry.Primitive {
	primitives := make([]geometry.Primitive, 0, s.PrimitiveCount())
	for _, p := range s.Spheres {
		primitives = append(primitives, p)
	}
	for _, p := range s.Planes {
		primitives = append(primitives, p)
	}
	for _, p := range s.Triangles {
		primitives = append(primitives, p)
	}
	for _, p := range s.TriangleMeshes {
		primitives = append(primitives, p)
	}
	return primitives
}

// PrimitiveCount returns the number of top-level primitives
func (s *Scene) PrimitiveCount() int {
	return len(s.Spheres) + len(s.Planes) + len(s.Triangles) + len(s.TriangleMeshes)
}

// ErrNoCamera is returned by Validate for scenes without a camera
var ErrNoCamera = errors.New("scene has no camera")

// Validate checks every primitive, material and light and reports all problems at once.
// A scene that validates can be rendered without internal-consistency failures.
func (s *Scene) Validate() error {
	var err error

	if s.camera == nil {
		err = multierr.Append(err, ErrNoCamera)
	}

	checkMaterial := func(kind string, i, materialIndex int) {
		if materialIndex < 0 || materialIndex >= len(s.materials) {
			err = multierr.Append(err, fmt.Errorf("%s %d: material index %d out of range (%d materials)", kind, i, materialIndex, len(s.materials)))
		}
	}

	for i, sphere := range s.Spheres {
		err = multierr.Append(err, sphere.Validate())
		checkMaterial("sphere", i, sphere.MaterialIndex)
	}
	for i, plane := range s.Planes {
		err = multierr.Append(err, plane.Validate())
		checkMaterial("plane", i, plane.MaterialIndex)
	}
	for i, triangle := range s.Triangles {
		err = multierr.Append(err, triangle.Validate())
		checkMaterial("triangle", i, triangle.MaterialIndex)
	}
	for i, mesh := range s.TriangleMeshes {
		if meshErr := mesh.Validate(); meshErr != nil {
			err = multierr.Append(err, fmt.Errorf("mesh %d: %w", i, meshErr))
		}
		checkMaterial("mesh", i, mesh.MaterialIndex)
	}

	for i, m := range s.materials {
		if m == nil {
			err = multierr.Append(err, fmt.Errorf("material %d is nil", i))
			continue
		}
		if v, ok := m.(material.Validator); ok {
			if matErr := v.Validate(); matErr != nil {
				err = multierr.Append(err, fmt.Errorf("material %d: %w", i, matErr))
			}
		}
	}

	for i, light := range s.lights {
		if lightErr := light.Validate(); lightErr != nil {
			err = multierr.Append(err, fmt.Errorf("light %d: %w", i, lightErr))
		}
	}

	return err
}
