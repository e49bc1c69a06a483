package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), 2)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{
			name:      "straight down",
			ray:       core.NewRay(core.NewVec3(0, 4, 0), core.NewVec3(0, -1, 0)),
			shouldHit: true,
			expectedT: 5,
		},
		{
			name:      "from below",
			ray:       core.NewRay(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0)),
			shouldHit: true,
			expectedT: 2,
		},
		{
			name:      "angled",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, -1, 0).Normalize()),
			shouldHit: true,
			expectedT: math.Sqrt2,
		},
		{
			name:      "pointing away",
			ray:       core.NewRay(core.NewVec3(0, 4, 0), core.NewVec3(0, 1, 0)),
			shouldHit: false,
		},
		{
			name:      "beyond max",
			ray:       core.NewBoundedRay(core.NewVec3(0, 4, 0), core.NewVec3(0, -1, 0), 0, 4.9),
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			isHit := plane.Hit(tt.ray, &hit, true)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.Normal != plane.Normal {
				t.Errorf("Expected plane normal %v, got %v", plane.Normal, hit.Normal)
			}
			if math.Abs(hit.Origin.Y+1) > 1e-9 {
				t.Errorf("Hit point should lie on the plane, got %v", hit.Origin)
			}
			if hit.MaterialIndex != 2 {
				t.Errorf("Expected material index 2, got %d", hit.MaterialIndex)
			}
		})
	}
}

func TestPlane_Hit_ParallelRayNeverHits(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 0)

	origins := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 0), // in the plane itself
		core.NewVec3(100, 1e-9, -100),
	}
	directions := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, -1),
		core.NewVec3(1, 0, 1).Normalize(),
	}

	for _, origin := range origins {
		for _, direction := range directions {
			var hit HitRecord
			if plane.Hit(core.NewRay(origin, direction), &hit, true) {
				t.Errorf("Parallel ray from %v along %v reported hit at t=%f", origin, direction, hit.T)
			}
			if plane.Hit(core.NewRay(origin, direction), nil, false) {
				t.Errorf("Parallel ray from %v along %v reported occlusion", origin, direction)
			}
		}
	}
}

func TestPlane_NewPlaneNormalizes(t *testing.T) {
	plane := NewPlane(core.Vec3{}, core.NewVec3(0, 5, 0), 0)
	if plane.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normalized normal, got %v", plane.Normal)
	}
	if err := plane.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}

	bad := &Plane{Normal: core.NewVec3(0, 2, 0)}
	if err := bad.Validate(); err == nil {
		t.Error("Expected validation error for non-unit normal")
	}
}
