package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewWeek1Scene creates two solid-colored spheres inside a box of planes
func NewWeek1Scene() *Scene {
	s := NewScene("week1")

	red := s.AddMaterial(material.NewSolidColor(core.NewColor(1, 0, 0)))
	blue := s.AddMaterial(material.NewSolidColor(core.NewColor(0, 0, 1)))
	yellow := s.AddMaterial(material.NewSolidColor(core.NewColor(1, 1, 0)))
	green := s.AddMaterial(material.NewSolidColor(core.NewColor(0, 1, 0)))
	magenta := s.AddMaterial(material.NewSolidColor(core.NewColor(1, 0, 1)))

	s.AddSphere(core.NewVec3(-25, 0, 100), 50, red)
	s.AddSphere(core.NewVec3(25, 0, 100), 50, blue)

	s.AddPlane(core.NewVec3(-75, 0, 0), core.NewVec3(1, 0, 0), green)
	s.AddPlane(core.NewVec3(75, 0, 0), core.NewVec3(-1, 0, 0), green)
	s.AddPlane(core.NewVec3(0, -75, 0), core.NewVec3(0, 1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 75, 0), core.NewVec3(0, -1, 0), yellow)
	s.AddPlane(core.NewVec3(0, 0, 125), core.NewVec3(0, 0, -1), magenta)

	return s
}

// NewWeek2Scene creates Lambert and Lambert-Phong spheres lit by a single point light
func NewWeek2Scene() *Scene {
	s := NewScene("week2")
	s.SetCamera(NewCamera(core.NewVec3(0, 3, -9), 45))

	grayBlue := s.AddMaterial(material.NewLambertian(core.NewColor(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambertian(core.White, 1))
	red := s.AddMaterial(material.NewLambertPhong(core.NewColor(1, 0, 0), 1, 1, 60))
	blue := s.AddMaterial(material.NewLambertPhong(core.NewColor(0, 0, 1), 1, 1, 5))

	addBox(s, grayBlue)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, red)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, white)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, blue)

	s.AddPointLight(core.NewVec3(0, 5, -5), 70, core.White)

	return s
}

// NewWeek3Scene creates rows of Cook-Torrance metals and plastics from rough to smooth
func NewWeek3Scene() *Scene {
	s := NewScene("week3")
	s.SetCamera(NewCamera(core.NewVec3(0, 3, -9), 45))

	grayRoughMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Silver, 1.0))
	grayMediumMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Silver, 0.6))
	graySmoothMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Silver, 0.1))
	grayRoughPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 1.0))
	grayMediumPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 0.6))
	graySmoothPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 0.1))
	grayBlue := s.AddMaterial(material.NewLambertian(core.NewColor(0.49, 0.57, 0.57), 1))

	addBox(s, grayBlue)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, grayRoughMetal)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, grayMediumMetal)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, graySmoothMetal)
	s.AddSphere(core.NewVec3(-1.75, 3, 0), 0.75, grayRoughPlastic)
	s.AddSphere(core.NewVec3(0, 3, 0), 0.75, grayMediumPlastic)
	s.AddSphere(core.NewVec3(1.75, 3, 0), 0.75, graySmoothPlastic)

	addThreePointLights(s)

	return s
}

// NewWeek4Scene creates three triangles, one per cull mode, above a row of meshes
func NewWeek4Scene() *Scene {
	s := NewScene("week4")
	s.SetCamera(NewCamera(core.NewVec3(0, 1, -5), 45))

	grayBlue := s.AddMaterial(material.NewLambertian(core.NewColor(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambertian(core.White, 1))
	shiny := s.AddMaterial(material.NewLambertPhong(core.NewColor(0.9, 0.9, 0.9), 0.8, 0.4, 30))

	addBox(s, grayBlue)

	cullModes := []geometry.CullMode{geometry.BackFaceCulling, geometry.FrontFaceCulling, geometry.NoCulling}
	for i, mode := range cullModes {
		offset := core.NewVec3(-1.75+1.75*float64(i), 0, 0)

		upper := geometry.NewTriangle(
			core.NewVec3(-0.75, 1.5, 0).Add(offset).Add(core.NewVec3(0, 3, 0)),
			core.NewVec3(0.75, 0, 0).Add(offset).Add(core.NewVec3(0, 3, 0)),
			core.NewVec3(-0.75, 0, 0).Add(offset).Add(core.NewVec3(0, 3, 0)),
			white,
		)
		upper.CullMode = mode
		s.AddTriangle(upper)

		mesh := s.AddTriangleMesh(
			[]core.Vec3{core.NewVec3(-0.75, -1, 0), core.NewVec3(-0.75, 1, 0), core.NewVec3(0.75, 1, 1), core.NewVec3(0.75, -1, 0)},
			[]int{0, 1, 2, 0, 2, 3},
			mode,
			shiny,
		)
		mesh.Translation = offset.Add(core.NewVec3(0, 1.5, 0))
		mesh.Rotation = core.NewVec3(0, 0.3*float64(i-1), 0)
		mesh.UpdateTransforms()
	}

	addThreePointLights(s)

	return s
}

// NewReferenceScene combines the PBR spheres with a row of triangles and a mirror floor
func NewReferenceScene() *Scene {
	s := NewScene("reference")
	s.SetCamera(NewCamera(core.NewVec3(0, 3, -9), 45))

	grayRoughMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Silver, 1.0))
	grayMediumMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Gold, 0.6))
	graySmoothMetal := s.AddMaterial(material.NewCookTorranceMetal(material.Copper, 0.1))
	grayRoughPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 1.0))
	grayMediumPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 0.6))
	graySmoothPlastic := s.AddMaterial(material.NewCookTorrancePlastic(core.NewColor(0.75, 0.75, 0.75), 0.1))
	grayBlue := s.AddMaterial(material.NewLambertian(core.NewColor(0.49, 0.57, 0.57), 1))
	white := s.AddMaterial(material.NewLambertian(core.White, 1))
	mirrorFloor := s.AddMaterial(material.NewCookTorranceMetal(material.Aluminum, 0.2))

	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), grayBlue)
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), mirrorFloor)
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), grayBlue)
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), grayBlue)
	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), grayBlue)

	s.AddSphere(core.NewVec3(-1.75, 1, 0), 0.75, grayRoughMetal)
	s.AddSphere(core.NewVec3(0, 1, 0), 0.75, grayMediumMetal)
	s.AddSphere(core.NewVec3(1.75, 1, 0), 0.75, graySmoothMetal)
	s.AddSphere(core.NewVec3(-1.75, 3, 0), 0.75, grayRoughPlastic)
	s.AddSphere(core.NewVec3(0, 3, 0), 0.75, grayMediumPlastic)
	s.AddSphere(core.NewVec3(1.75, 3, 0), 0.75, graySmoothPlastic)

	for i := 0; i < 3; i++ {
		offset := core.NewVec3(-1.75+1.75*float64(i), 4.5, 0)
		s.AddTriangle(geometry.NewTriangle(
			core.NewVec3(-0.75, 1.5, 0).Add(offset),
			core.NewVec3(0.75, 0, 0).Add(offset),
			core.NewVec3(-0.75, 0, 0).Add(offset),
			white,
		))
	}

	addThreePointLights(s)
	s.AddDirectionalLight(core.NewVec3(0.3, -1, 0.5), 0.4, core.NewColor(1, 0.95, 0.9))

	return s
}

// NewSingleSphereScene is a white Lambert sphere five units ahead, lit from above the camera
func NewSingleSphereScene() *Scene {
	s := NewScene("single-sphere")
	s.SetCamera(NewCamera(core.NewVec3(0, 0, 0), 45))
	s.SetBackground(core.NewColor(0.1, 0.1, 0.1))

	white := s.AddMaterial(material.NewLambertian(core.White, 1))
	s.AddSphere(core.NewVec3(0, 0, 5), 1, white)
	s.AddPointLight(core.NewVec3(0, 5, 0), 50, core.White)

	return s
}

// addBox adds the five walls used by the course scenes
func addBox(s *Scene, materialIndex int) {
	s.AddPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), materialIndex)  // back
	s.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), materialIndex)    // bottom
	s.AddPlane(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0), materialIndex)  // top
	s.AddPlane(core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), materialIndex)   // right
	s.AddPlane(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), materialIndex)   // left
}

func addThreePointLights(s *Scene) {
	s.AddPointLight(core.NewVec3(0, 5, 5), 50, core.NewColor(1, 0.61, 0.45))      // backlight
	s.AddPointLight(core.NewVec3(-2.5, 5, -5), 70, core.NewColor(1, 0.8, 0.45))   // front left
	s.AddPointLight(core.NewVec3(2.5, 2.5, -5), 50, core.NewColor(0.34, 0.47, 0.68))
}
