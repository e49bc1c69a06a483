package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestDirectionToLight(t *testing.T) {
	point := core.NewVec3(1, 2, 3)

	pointLight := NewPointLight(core.NewVec3(1, 7, 3), 10, core.White)
	dir := DirectionToLight(pointLight, point)
	if dir != core.NewVec3(0, 5, 0) {
		t.Errorf("Expected (0,5,0), got %v", dir)
	}

	sun := NewDirectionalLight(core.NewVec3(0, -2, 0), 1, core.White)
	dir = DirectionToLight(sun, point)
	unit, distance := dir.NormalizeWithLength()
	if unit.Subtract(core.UnitY).Length() > 1e-12 {
		t.Errorf("Expected direction toward +Y, got %v", unit)
	}
	if math.Abs(distance-FarDistance)/FarDistance > 1e-12 {
		t.Errorf("Expected distance %g, got %g", FarDistance, distance)
	}
	if math.IsInf(distance, 0) || math.IsNaN(distance) {
		t.Error("Directional distance must stay finite")
	}
}

func TestRadiance_PointFalloff(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 0, 0), 50, core.NewColor(1, 0.5, 0))

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"distance 1", core.NewVec3(1, 0, 0), core.NewColor(50, 25, 0)},
		{"distance 5", core.NewVec3(0, 5, 0), core.NewColor(2, 1, 0)},
		{"distance 10", core.NewVec3(0, 0, -10), core.NewColor(0.5, 0.25, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Radiance(light, tt.point)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	if got := Radiance(light, light.Origin); !got.IsZero() {
		t.Errorf("Radiance at the light origin should be black, got %v", got)
	}
}

func TestRadiance_DirectionalConstant(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0.577, -0.577, 0.577), 2, core.NewColor(1, 0.9, 0.8))

	near := Radiance(light, core.NewVec3(0, 0, 0))
	far := Radiance(light, core.NewVec3(1000, -300, 42))
	if near != far {
		t.Errorf("Directional radiance should not depend on position: %v vs %v", near, far)
	}
	if near.Subtract(core.NewColor(2, 1.8, 1.6)).Length() > 1e-12 {
		t.Errorf("Unexpected radiance %v", near)
	}
}

func TestLight_Validate(t *testing.T) {
	tests := []struct {
		name    string
		light   Light
		wantErr bool
	}{
		{"point", NewPointLight(core.NewVec3(0, 5, 0), 25, core.White), false},
		{"directional", NewDirectionalLight(core.NewVec3(0, -1, 0), 1, core.White), false},
		{"zero direction", Light{Type: LightTypeDirectional, Intensity: 1}, true},
		{"negative intensity", NewPointLight(core.Vec3{}, -1, core.White), true},
		{"unknown type", Light{Type: "spot"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.light.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}
