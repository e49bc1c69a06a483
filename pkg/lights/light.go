package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FarDistance stands in for the infinite distance to a directional light.
// It is large enough to clear any scene while staying finite in float64 arithmetic.
const FarDistance = 1e30

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a point or directional light source
type Light struct {
	Type      LightType
	Origin    core.Vec3 // Position, point lights only
	Direction core.Vec3 // Unit direction the light travels, directional lights only
	Color     core.Vec3
	Intensity float64
}

// NewPointLight creates a point light
func NewPointLight(origin core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{
		Type:      LightTypePoint,
		Origin:    origin,
		Color:     color,
		Intensity: intensity,
	}
}

// NewDirectionalLight creates a light infinitely far away shining along direction
func NewDirectionalLight(direction core.Vec3, intensity float64, color core.Vec3) Light {
	return Light{
		Type:      LightTypeDirectional,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

// DirectionToLight returns the unnormalized vector from point to the light.
// Its length is the distance to the light.
func DirectionToLight(light Light, point core.Vec3) core.Vec3 {
	switch light.Type {
	case LightTypeDirectional:
		return light.Direction.Negate().Multiply(FarDistance)
	default:
		return light.Origin.Subtract(point)
	}
}

// Radiance returns the light arriving at point from this light.
// Point lights fall off with the inverse square of the distance; directional
// lights deliver their full intensity everywhere.
func Radiance(light Light, point core.Vec3) core.Vec3 {
	switch light.Type {
	case LightTypeDirectional:
		return light.Color.Multiply(light.Intensity)
	default:
		distanceSquared := light.Origin.Subtract(point).LengthSquared()
		if distanceSquared == 0 {
			return core.Black
		}
		return light.Color.Multiply(light.Intensity / distanceSquared)
	}
}

// Validate checks the light's invariants
func (l Light) Validate() error {
	switch l.Type {
	case LightTypePoint:
		if !l.Origin.IsFinite() {
			return fmt.Errorf("point light: origin %v is not finite", l.Origin)
		}
	case LightTypeDirectional:
		if math.Abs(l.Direction.Length()-1) > 1e-6 {
			return fmt.Errorf("directional light: direction %v is not unit length", l.Direction)
		}
	default:
		return fmt.Errorf("unknown light type %q", l.Type)
	}
	if l.Intensity < 0 || math.IsNaN(l.Intensity) {
		return fmt.Errorf("%s light: intensity must be non-negative, got %g", l.Type, l.Intensity)
	}
	return nil
}
