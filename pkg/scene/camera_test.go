package scene

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestCamera_FovRatio(t *testing.T) {
	tests := []struct {
		fov      float64
		expected float64
	}{
		{90, 1},
		{45, math.Tan(math.Pi / 8)},
		{60, 1 / math.Sqrt(3)},
	}
	for _, tt := range tests {
		c := NewCamera(core.Vec3{}, tt.fov)
		if math.Abs(c.FovRatio()-tt.expected) > 1e-12 {
			t.Errorf("fov %f: expected %f, got %f", tt.fov, tt.expected, c.FovRatio())
		}
	}
}

func TestCamera_CameraToWorldDefault(t *testing.T) {
	c := NewCamera(core.NewVec3(1, 2, 3), 90)
	m := c.CameraToWorld()

	if m.X != core.UnitX || m.Y != core.UnitY || m.Z != core.UnitZ {
		t.Errorf("Expected identity basis, got %+v", m)
	}
	if m.Translation != c.Origin {
		t.Errorf("Expected translation %v, got %v", c.Origin, m.Translation)
	}
}

func TestCamera_CameraToWorldOrthonormal(t *testing.T) {
	c := NewCamera(core.Vec3{}, 45)
	c.LookAt(core.NewVec3(3, -2, 5))
	m := c.CameraToWorld()

	for _, axis := range []core.Vec3{m.X, m.Y, m.Z} {
		if math.Abs(axis.Length()-1) > 1e-9 {
			t.Errorf("Axis %v is not unit length", axis)
		}
	}
	if math.Abs(m.X.Dot(m.Y)) > 1e-9 || math.Abs(m.X.Dot(m.Z)) > 1e-9 || math.Abs(m.Y.Dot(m.Z)) > 1e-9 {
		t.Errorf("Basis is not orthogonal: %+v", m)
	}
	if m.Z.Subtract(c.Forward).Length() > 1e-9 {
		t.Errorf("Forward axis %v should match %v", m.Z, c.Forward)
	}
}

func TestCamera_LookingStraightDown(t *testing.T) {
	c := NewCamera(core.Vec3{}, 45)
	c.Forward = core.NewVec3(0, -1, 0)
	m := c.CameraToWorld()

	if !m.X.IsFinite() || m.X.IsZero() {
		t.Errorf("Right axis should stay well defined, got %v", m.X)
	}
}

func TestCamera_Rotate(t *testing.T) {
	c := NewCamera(core.Vec3{}, 45)
	c.Rotate(0, math.Pi/2)

	if c.Forward.Subtract(core.UnitX).Length() > 1e-9 {
		t.Errorf("Yaw of 90 degrees should look along +X, got %v", c.Forward)
	}

	c.Move(core.NewVec3(0, 0, 2))
	if c.Origin.Subtract(core.NewVec3(2, 0, 0)).Length() > 1e-9 {
		t.Errorf("Moving forward should follow the view direction, got %v", c.Origin)
	}
}
