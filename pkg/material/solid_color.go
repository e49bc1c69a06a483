package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// SolidColor ignores lighting entirely and returns a fixed color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color material
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Shade implements Material
func (s *SolidColor) Shade(geometry.HitRecord, core.Vec3, core.Vec3) core.Vec3 {
	return s.Color
}

// Reflectivity implements Material
func (s *SolidColor) Reflectivity() float64 { return 0 }

// Validate implements Validator
func (s *SolidColor) Validate() error {
	return checkColor("solid color", s.Color)
}
