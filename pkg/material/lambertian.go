package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Lambertian represents a perfectly diffuse material.
// The cosine falloff is applied by the integrator, not here.
type Lambertian struct {
	DiffuseColor       core.Vec3 // cd
	DiffuseReflectance float64   // kd
}

// NewLambertian creates a new lambertian material
func NewLambertian(diffuseColor core.Vec3, diffuseReflectance float64) *Lambertian {
	return &Lambertian{DiffuseColor: diffuseColor, DiffuseReflectance: diffuseReflectance}
}

// Shade implements Material
func (m *Lambertian) Shade(geometry.HitRecord, core.Vec3, core.Vec3) core.Vec3 {
	return Lambert(m.DiffuseReflectance, m.DiffuseColor)
}

// Reflectivity implements Material
func (m *Lambertian) Reflectivity() float64 { return 0 }

// Validate implements Validator
func (m *Lambertian) Validate() error {
	if err := checkColor("lambert diffuse color", m.DiffuseColor); err != nil {
		return err
	}
	return checkUnit("lambert diffuse reflectance", m.DiffuseReflectance)
}

// LambertPhong adds a Phong specular lobe on top of the Lambert diffuse term
type LambertPhong struct {
	DiffuseColor        core.Vec3 // cd
	DiffuseReflectance  float64   // kd
	SpecularReflectance float64   // ks
	PhongExponent       float64
}

// NewLambertPhong creates a new lambert-phong material
func NewLambertPhong(diffuseColor core.Vec3, kd, ks, phongExponent float64) *LambertPhong {
	return &LambertPhong{
		DiffuseColor:        diffuseColor,
		DiffuseReflectance:  kd,
		SpecularReflectance: ks,
		PhongExponent:       phongExponent,
	}
}

// Shade implements Material
func (m *LambertPhong) Shade(hit geometry.HitRecord, l, v core.Vec3) core.Vec3 {
	return Lambert(m.DiffuseReflectance, m.DiffuseColor).
		Add(Phong(m.SpecularReflectance, m.PhongExponent, l, v, hit.Normal))
}

// Reflectivity implements Material
func (m *LambertPhong) Reflectivity() float64 { return 0 }

// Validate implements Validator
func (m *LambertPhong) Validate() error {
	if err := checkColor("lambert-phong diffuse color", m.DiffuseColor); err != nil {
		return err
	}
	if err := checkUnit("lambert-phong diffuse reflectance", m.DiffuseReflectance); err != nil {
		return err
	}
	if err := checkUnit("lambert-phong specular reflectance", m.SpecularReflectance); err != nil {
		return err
	}
	if !(m.PhongExponent > 0) {
		return fmt.Errorf("lambert-phong exponent must be positive, got %g", m.PhongExponent)
	}
	return nil
}
