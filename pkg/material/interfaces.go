package material

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Material evaluates how a surface responds to light.
//
// Shade returns the BRDF value at the hit for unit direction l (surface toward
// the light) and unit direction v (surface toward the viewer). Implementations
// are pure and safe for concurrent use.
type Material interface {
	Shade(hit geometry.HitRecord, l, v core.Vec3) core.Vec3

	// Reflectivity in [0,1] weights the mirror bounce leaving this surface
	Reflectivity() float64
}

// Validator is implemented by materials that can check their own parameters
type Validator interface {
	Validate() error
}

func checkUnit(name string, value float64) error {
	if !(value >= 0 && value <= 1) {
		return fmt.Errorf("%s must be in [0,1], got %g", name, value)
	}
	return nil
}

func checkColor(name string, c core.Vec3) error {
	if !(c.X >= 0 && c.X <= 1 && c.Y >= 0 && c.Y <= 1 && c.Z >= 0 && c.Z <= 1) {
		return fmt.Errorf("%s components must be in [0,1], got %v", name, c)
	}
	return nil
}
