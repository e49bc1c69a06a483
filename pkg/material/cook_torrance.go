package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// CookTorrance is a metalness/roughness microfacet material.
// Specular uses Schlick Fresnel, GGX distribution and Smith geometry; the
// remaining energy goes to a Lambert diffuse term, which metals do not have.
type CookTorrance struct {
	Albedo    core.Vec3
	Metalness float64 // 0 = dielectric, 1 = metal
	Roughness float64 // (0,1], 1 = rough, toward 0 = smooth
}

// Base reflectivities of a few common metals
var (
	Silver   = core.NewColor(0.972, 0.960, 0.915)
	Aluminum = core.NewColor(0.913, 0.922, 0.924)
	Gold     = core.NewColor(1.000, 0.782, 0.344)
	Copper   = core.NewColor(0.955, 0.637, 0.538)
)

// NewCookTorrance creates a new Cook-Torrance material
func NewCookTorrance(albedo core.Vec3, metalness, roughness float64) *CookTorrance {
	return &CookTorrance{Albedo: albedo, Metalness: metalness, Roughness: roughness}
}

// NewCookTorranceMetal creates a fully metallic surface
func NewCookTorranceMetal(albedo core.Vec3, roughness float64) *CookTorrance {
	return NewCookTorrance(albedo, 1, roughness)
}

// NewCookTorrancePlastic creates a dielectric surface
func NewCookTorrancePlastic(albedo core.Vec3, roughness float64) *CookTorrance {
	return NewCookTorrance(albedo, 0, roughness)
}

// Shade implements Material
func (m *CookTorrance) Shade(hit geometry.HitRecord, l, v core.Vec3) core.Vec3 {
	n := hit.Normal

	f0 := m.Albedo
	if m.Metalness == 0 {
		f0 = core.NewColor(baseReflectivityDielectric, baseReflectivityDielectric, baseReflectivityDielectric)
	}

	h := v.Add(l).Normalize()
	fresnel := FresnelSchlick(h, v, f0)

	specular := core.Black
	nDotV, nDotL := n.Dot(v), n.Dot(l)
	if nDotV > 0 && nDotL > 0 {
		d := NormalDistributionGGX(n, h, m.Roughness)
		g := GeometrySmith(n, v, l, m.Roughness)
		specular = fresnel.Multiply(d * g / (4 * nDotV * nDotL))
	}

	kd := core.White.Subtract(fresnel)
	if m.Metalness > 0 {
		kd = core.Black
	}

	return specular.Add(LambertColor(kd, m.Albedo))
}

// Reflectivity implements Material: smooth metals mirror, rough or dielectric surfaces do not
func (m *CookTorrance) Reflectivity() float64 {
	return (1 - m.Roughness) * m.Metalness
}

// Validate implements Validator
func (m *CookTorrance) Validate() error {
	if err := checkColor("cook-torrance albedo", m.Albedo); err != nil {
		return err
	}
	if err := checkUnit("cook-torrance metalness", m.Metalness); err != nil {
		return err
	}
	if !(m.Roughness > 0 && m.Roughness <= 1) {
		return fmt.Errorf("cook-torrance roughness must be in (0,1], got %g", m.Roughness)
	}
	return nil
}
