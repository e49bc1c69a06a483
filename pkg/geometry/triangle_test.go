package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle in the z=0 plane with its normal pointing toward -z (toward a camera at z<0)
func newFacingTriangle() *Triangle {
	return NewTriangle(
		core.NewVec3(-1, -1, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, -1, 0),
		1,
	)
}

func TestTriangle_Normal(t *testing.T) {
	v0, v1, v2 := core.NewVec3(-1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0)

	tests := []struct {
		name     string
		tri      *Triangle
		expected core.Vec3
	}{
		{"winding", newFacingTriangle(), core.NewVec3(0, 0, -1)},
		{"explicit normal is normalized", NewTriangleWithNormal(v0, v1, v2, core.NewVec3(0, 0, 4), 1), core.NewVec3(0, 0, 1)},
		{"explicit tilted normal", NewTriangleWithNormal(v0, v1, v2, core.NewVec3(0, 3, -4), 1), core.NewVec3(0, 0.6, -0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tri.Normal.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected normal %v, got %v", tt.expected, tt.tri.Normal)
			}
		})
	}
}

func TestTriangle_ExplicitNormalFlipsCulling(t *testing.T) {
	// Same vertices as newFacingTriangle, normal turned toward +z
	tri := NewTriangleWithNormal(core.NewVec3(-1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0), core.NewVec3(0, 0, 1), 0)
	tri.CullMode = BackFaceCulling
	ray := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))

	if tri.Hit(ray, nil, false) {
		t.Error("Expected the ray travelling along the explicit normal to be back-face culled")
	}

	var hit HitRecord
	tri.CullMode = NoCulling
	if !tri.Hit(ray, &hit, true) {
		t.Fatal("Expected hit without culling")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected the hit to carry the explicit normal, got %v", hit.Normal)
	}
}

func TestTriangle_Hit(t *testing.T) {
	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"center", core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)), true, 2},
		{"outside edge", core.NewRay(core.NewVec3(2, 0, -2), core.NewVec3(0, 0, 1)), false, 0},
		{"in plane", core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0)), false, 0},
		{"behind origin", core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1)), false, 0},
	}

	tri := newFacingTriangle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			isHit := tri.Hit(tt.ray, &hit, true)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, isHit)
			}
			if isHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if isHit && hit.MaterialIndex != 1 {
				t.Errorf("Expected material index 1, got %d", hit.MaterialIndex)
			}
		})
	}
}

func TestTriangle_CullMode(t *testing.T) {
	fromFront := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1)) // against the normal
	fromBack := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))  // along the normal

	tests := []struct {
		mode      CullMode
		frontHits bool
		backHits  bool
	}{
		{NoCulling, true, true},
		{FrontFaceCulling, false, true},
		{BackFaceCulling, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			tri := newFacingTriangle()
			tri.CullMode = tt.mode

			var hit HitRecord
			if got := tri.Hit(fromFront, &hit, true); got != tt.frontHits {
				t.Errorf("front: expected %t, got %t", tt.frontHits, got)
			}
			if got := tri.Hit(fromBack, &hit, true); got != tt.backHits {
				t.Errorf("back: expected %t, got %t", tt.backHits, got)
			}
			// Occlusion queries see exactly what closest-hit queries see
			if got := tri.Hit(fromFront, nil, false); got != tt.frontHits {
				t.Errorf("front any-hit: expected %t, got %t", tt.frontHits, got)
			}
			if got := tri.Hit(fromBack, nil, false); got != tt.backHits {
				t.Errorf("back any-hit: expected %t, got %t", tt.backHits, got)
			}
		})
	}
}

func TestParseCullMode(t *testing.T) {
	for _, mode := range []CullMode{NoCulling, FrontFaceCulling, BackFaceCulling} {
		parsed, err := ParseCullMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("Round trip of %v failed: %v, %v", mode, parsed, err)
		}
	}
	if _, err := ParseCullMode("sideways"); err == nil {
		t.Error("Expected error for unknown cull mode")
	}
}

func TestTriangle_Validate(t *testing.T) {
	if err := newFacingTriangle().Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	degenerate := NewTriangle(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), 0)
	if err := degenerate.Validate(); err == nil {
		t.Error("Expected error for collinear vertices")
	}
}
