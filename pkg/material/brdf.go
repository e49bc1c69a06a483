package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// baseReflectivityDielectric is the f0 used for every non-metal
const baseReflectivityDielectric = 0.04

// Lambert returns the diffuse BRDF kd * cd / π
func Lambert(kd float64, cd core.Vec3) core.Vec3 {
	return cd.Multiply(kd / math.Pi)
}

// LambertColor is Lambert with a per-channel reflectance
func LambertColor(kd, cd core.Vec3) core.Vec3 {
	return cd.MultiplyVec(kd).Multiply(1.0 / math.Pi)
}

// Phong returns the achromatic specular lobe ks * max(0, r·v)^exp where r mirrors l about n
func Phong(ks, exp float64, l, v, n core.Vec3) core.Vec3 {
	r := l.Negate().Reflect(n)
	cosAlpha := r.Dot(v)
	if cosAlpha <= 0 {
		return core.Black
	}
	value := ks * math.Pow(cosAlpha, exp)
	return core.NewColor(value, value, value)
}

// FresnelSchlick approximates the Fresnel reflectance for half vector h and view v
func FresnelSchlick(h, v, f0 core.Vec3) core.Vec3 {
	cosTheta := max(0, h.Dot(v))
	factor := math.Pow(1-cosTheta, 5)
	return f0.Add(core.White.Subtract(f0).Multiply(factor))
}

// NormalDistributionGGX is the Trowbridge-Reitz GGX distribution with α = roughness²
func NormalDistributionGGX(n, h core.Vec3, roughness float64) float64 {
	alpha := roughness * roughness
	alphaSquared := alpha * alpha
	nDotH := max(0, n.Dot(h))

	denominator := nDotH*nDotH*(alphaSquared-1) + 1
	return alphaSquared / (math.Pi * denominator * denominator)
}

// GeometrySchlickGGX is the single-direction masking term with k = (α+1)²/8
func GeometrySchlickGGX(n, v core.Vec3, roughness float64) float64 {
	alpha := roughness * roughness
	k := (alpha + 1) * (alpha + 1) / 8
	nDotV := max(0, n.Dot(v))
	return nDotV / (nDotV*(1-k) + k)
}

// GeometrySmith combines masking toward the viewer and shadowing toward the light
func GeometrySmith(n, v, l core.Vec3, roughness float64) float64 {
	return GeometrySchlickGGX(n, v, roughness) * GeometrySchlickGGX(n, l, roughness)
}
