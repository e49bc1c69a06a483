// Package integrator turns camera rays into pixel colors with a bounded Whitted bounce loop.
package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ReflectivityEpsilon is the reflectivity below which the bounce chain stops
const ReflectivityEpsilon = 1e-7

// LightingMode selects which lighting term is accumulated per light
type LightingMode int

const (
	ObservedArea LightingMode = iota // cosine term only, as grayscale
	Radiance                         // incoming light only
	BRDF                             // material response only
	Combined                         // radiance × BRDF × observed area
)

var lightingModeNames = [...]string{"observed-area", "radiance", "brdf", "combined"}

func (m LightingMode) String() string {
	if m < 0 || int(m) >= len(lightingModeNames) {
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
	return lightingModeNames[m]
}

// Next returns the mode after m, wrapping from Combined back to ObservedArea
func (m LightingMode) Next() LightingMode {
	return (m + 1) % LightingMode(len(lightingModeNames))
}

// ParseLightingMode accepts the names returned by String, case-insensitively
func ParseLightingMode(s string) (LightingMode, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	for i, name := range lightingModeNames {
		if normalized == name || normalized == strings.ReplaceAll(name, "-", "") {
			return LightingMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lighting mode %q (want one of %s)", s, strings.Join(lightingModeNames[:], ", "))
}

// Options controls one frame. It is copied into every frame so workers never share it.
type Options struct {
	Shadows         bool
	Reflections     bool
	Mode            LightingMode
	MaxBounces      int       // Upper bound on the reflection chain, including the primary hit
	ReflectionDecay float64   // Multiplier applied per bounce to reflected contributions
	Background      core.Vec3 // Color added when a ray escapes the scene
	ShadowEpsilon   float64   // Offset along the normal for shadow and reflection rays
}

// DefaultOptions returns shadows and reflections on, combined lighting and three bounces
func DefaultOptions() Options {
	return Options{
		Shadows:         true,
		Reflections:     true,
		Mode:            Combined,
		MaxBounces:      3,
		ReflectionDecay: 0.7,
		Background:      core.White,
		ShadowEpsilon:   1e-4,
	}
}

// Scene is what the integrator needs from a scene
type Scene interface {
	Camera() *scene.Camera
	ClosestHit(ray core.Ray) geometry.HitRecord
	AnyHit(ray core.Ray) bool
	Materials() []material.Material
	Lights() []lights.Light
	Background() core.Vec3
}

// PixelResult is the unmapped color of one pixel plus diagnostics
type PixelResult struct {
	Color   core.Vec3          // Accumulated color before tone mapping
	Primary geometry.HitRecord // Hit of the primary ray
	Bounces int                // Number of surfaces shaded
}

// Integrator computes pixel colors for a fixed scene, camera pose, resolution and options.
// It holds no mutable state, so one Integrator can serve all workers of a frame.
type Integrator struct {
	scene     Scene
	lights    []lights.Light
	materials []material.Material
	opts      Options

	width, height int
	aspectRatio   float64
	fovRatio      float64
	origin        core.Vec3
	cameraToWorld core.Matrix
}

// NewIntegrator snapshots the camera basis for a width×height frame
func NewIntegrator(s Scene, width, height int, opts Options) *Integrator {
	camera := s.Camera()
	return &Integrator{
		scene:         s,
		lights:        s.Lights(),
		materials:     s.Materials(),
		opts:          opts,
		width:         width,
		height:        height,
		aspectRatio:   float64(width) / float64(height),
		fovRatio:      camera.FovRatio(),
		origin:        camera.Origin,
		cameraToWorld: camera.CameraToWorld(),
	}
}

// Options returns the options this integrator was built with
func (in *Integrator) Options() Options {
	return in.opts
}

// PrimaryRay returns the ray through the center of pixel (x, y), with y growing downward
func (in *Integrator) PrimaryRay(x, y int) core.Ray {
	cx := (2*(float64(x)+0.5)/float64(in.width) - 1) * in.aspectRatio * in.fovRatio
	cy := (1 - 2*(float64(y)+0.5)/float64(in.height)) * in.fovRatio

	direction := in.cameraToWorld.TransformVector(core.NewVec3(cx, cy, 1)).Normalize()
	return core.NewRay(in.origin, direction)
}

// ShadePixel returns the tone-mapped color of pixel (x, y)
func (in *Integrator) ShadePixel(x, y int) core.Vec3 {
	return in.TracePixel(x, y).Color.MaxToOne()
}

// TracePixel runs the bounce loop for pixel (x, y)
func (in *Integrator) TracePixel(x, y int) PixelResult {
	return in.Trace(in.PrimaryRay(x, y))
}

// Trace follows ray through at most MaxBounces mirror reflections and accumulates
// the lighting term selected by the options.
func (in *Integrator) Trace(ray core.Ray) PixelResult {
	var result PixelResult
	multiplier := 1.0
	reflectivity := 0.0

	for bounce := 0; bounce < in.opts.MaxBounces; bounce++ {
		hit := in.scene.ClosestHit(ray)
		if bounce == 0 {
			result.Primary = hit
		}
		if !hit.DidHit {
			result.Color = result.Color.Add(in.opts.Background)
			break
		}
		result.Bounces++

		m := in.material(hit.MaterialIndex)
		view := ray.Direction.Negate()
		offsetOrigin := hit.Origin.Add(hit.Normal.Multiply(in.opts.ShadowEpsilon))

		for _, light := range in.lights {
			toLight, distance := lights.DirectionToLight(light, hit.Origin).NormalizeWithLength()

			if in.opts.Shadows {
				shadowRay := core.NewBoundedRay(offsetOrigin, toLight, 0, distance)
				if in.scene.AnyHit(shadowRay) {
					continue
				}
			}

			observedArea := hit.Normal.Dot(toLight)

			switch in.opts.Mode {
			case ObservedArea:
				if observedArea < 0 {
					continue
				}
				result.Color = result.Color.Add(core.NewColor(observedArea, observedArea, observedArea))
			case Radiance:
				result.Color = result.Color.Add(lights.Radiance(light, hit.Origin))
			case BRDF:
				result.Color = result.Color.Add(m.Shade(hit, toLight, view))
			case Combined:
				if observedArea < 0 {
					continue
				}
				contribution := lights.Radiance(light, hit.Origin).
					MultiplyVec(m.Shade(hit, toLight, view)).
					Multiply(observedArea)
				if bounce > 0 {
					contribution = contribution.Multiply(reflectivity * multiplier)
				}
				result.Color = result.Color.Add(contribution)
			}
		}

		reflectivity = m.Reflectivity()
		multiplier *= in.opts.ReflectionDecay
		ray = core.NewRay(offsetOrigin, ray.Direction.Reflect(hit.Normal))

		if !in.opts.Reflections || reflectivity < ReflectivityEpsilon {
			break
		}
	}

	return result
}

// material looks up a material; an index outside the table is a scene construction bug
func (in *Integrator) material(index int) material.Material {
	if index < 0 || index >= len(in.materials) {
		panic(fmt.Sprintf("renderer: hit reports material index %d but the scene has %d materials", index, len(in.materials)))
	}
	return in.materials[index]
}
