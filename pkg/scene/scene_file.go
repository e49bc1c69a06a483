package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// sceneFile is the YAML layout of a scene description
type sceneFile struct {
	Name       string         `yaml:"name"`
	Camera     *cameraSpec    `yaml:"camera"`
	Background []float64      `yaml:"background"`
	Materials  []materialSpec `yaml:"materials"`
	Spheres    []sphereSpec   `yaml:"spheres"`
	Planes     []planeSpec    `yaml:"planes"`
	Triangles  []triangleSpec `yaml:"triangles"`
	Meshes     []meshSpec     `yaml:"meshes"`
	Lights     []lightSpec    `yaml:"lights"`
}

type cameraSpec struct {
	Origin []float64 `yaml:"origin"`
	LookAt []float64 `yaml:"lookAt"`
	Fov    float64   `yaml:"fov"`
}

type materialSpec struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"` // solid, lambert, lambert-phong, cook-torrance
	Color     []float64 `yaml:"color"`
	Preset    string    `yaml:"preset"` // silver, aluminum, gold, copper (cook-torrance albedo)
	Kd        *float64  `yaml:"kd"`
	Ks        float64   `yaml:"ks"`
	Exponent  float64   `yaml:"exponent"`
	Metalness float64   `yaml:"metalness"`
	Roughness float64   `yaml:"roughness"`
}

type sphereSpec struct {
	Center   []float64 `yaml:"center"`
	Radius   float64   `yaml:"radius"`
	Material string    `yaml:"material"`
}

type planeSpec struct {
	Origin   []float64 `yaml:"origin"`
	Normal   []float64 `yaml:"normal"`
	Material string    `yaml:"material"`
}

type triangleSpec struct {
	Vertices [][]float64 `yaml:"vertices"`
	Normal   []float64   `yaml:"normal"` // Optional; defaults to the winding normal
	Cull     string      `yaml:"cull"`
	Material string      `yaml:"material"`
}

type meshSpec struct {
	OBJ         string      `yaml:"obj"`
	Positions   [][]float64 `yaml:"positions"`
	Indices     []int       `yaml:"indices"`
	Cull        string      `yaml:"cull"`
	Material    string      `yaml:"material"`
	Translation []float64   `yaml:"translation"`
	Rotation    []float64   `yaml:"rotation"` // degrees
	Scale       []float64   `yaml:"scale"`
}

type lightSpec struct {
	Type      string    `yaml:"type"` // point, directional
	Origin    []float64 `yaml:"origin"`
	Direction []float64 `yaml:"direction"`
	Color     []float64 `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
}

// LoadFile reads a YAML scene description. Relative OBJ paths resolve against the file's directory.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse builds a scene from YAML data and validates it. Unknown keys are rejected.
func Parse(data []byte, baseDir string) (*Scene, error) {
	var file sceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	b := &sceneBuilder{scene: NewScene(file.Name), baseDir: baseDir, materials: map[string]int{}}
	if err := b.build(&file); err != nil {
		return nil, err
	}
	if err := b.scene.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	return b.scene, nil
}

type sceneBuilder struct {
	scene     *Scene
	baseDir   string
	materials map[string]int
}

func (b *sceneBuilder) build(file *sceneFile) error {
	if file.Camera != nil {
		if err := b.camera(file.Camera); err != nil {
			return err
		}
	}
	if file.Background != nil {
		bg, err := toVec3("background", file.Background)
		if err != nil {
			return err
		}
		b.scene.SetBackground(bg)
	}

	for i, spec := range file.Materials {
		if err := b.material(spec); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}

	for i, spec := range file.Spheres {
		center, err := toVec3("center", spec.Center)
		if err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
		idx, err := b.materialIndex(spec.Material)
		if err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
		b.scene.AddSphere(center, spec.Radius, idx)
	}

	for i, spec := range file.Planes {
		origin, err := toVec3("origin", spec.Origin)
		if err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
		normal, err := toVec3("normal", spec.Normal)
		if err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
		if normal.IsZero() {
			return fmt.Errorf("plane %d: normal must not be zero", i)
		}
		idx, err := b.materialIndex(spec.Material)
		if err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
		b.scene.AddPlane(origin, normal, idx)
	}

	for i, spec := range file.Triangles {
		if err := b.triangle(spec); err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}

	for i, spec := range file.Meshes {
		if err := b.mesh(spec); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}

	for i, spec := range file.Lights {
		if err := b.light(spec); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	return nil
}

func (b *sceneBuilder) camera(spec *cameraSpec) error {
	origin := core.Vec3{}
	if spec.Origin != nil {
		var err error
		if origin, err = toVec3("camera origin", spec.Origin); err != nil {
			return err
		}
	}

	fov := spec.Fov
	if fov == 0 {
		fov = 45
	}
	if fov <= 0 || fov >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %g", fov)
	}

	camera := NewCamera(origin, fov)
	if spec.LookAt != nil {
		target, err := toVec3("camera lookAt", spec.LookAt)
		if err != nil {
			return err
		}
		if target == origin {
			return errors.New("camera lookAt must differ from origin")
		}
		camera.LookAt(target)
	}
	b.scene.SetCamera(camera)
	return nil
}

func (b *sceneBuilder) material(spec materialSpec) error {
	if spec.Name == "" {
		return errors.New("name is required")
	}
	if _, exists := b.materials[spec.Name]; exists {
		return fmt.Errorf("duplicate material name %q", spec.Name)
	}

	color := core.White
	if spec.Color != nil {
		var err error
		if color, err = toVec3("color", spec.Color); err != nil {
			return err
		}
	}
	kd := 1.0
	if spec.Kd != nil {
		kd = *spec.Kd
	}

	var m material.Material
	switch strings.ToLower(spec.Type) {
	case "solid", "solid-color":
		m = material.NewSolidColor(color)
	case "lambert", "lambertian":
		m = material.NewLambertian(color, kd)
	case "lambert-phong", "phong":
		m = material.NewLambertPhong(color, kd, spec.Ks, spec.Exponent)
	case "cook-torrance", "pbr":
		if spec.Preset != "" {
			preset, ok := metalPresets[strings.ToLower(spec.Preset)]
			if !ok {
				return fmt.Errorf("unknown preset %q", spec.Preset)
			}
			color = preset
		}
		m = material.NewCookTorrance(color, spec.Metalness, spec.Roughness)
	default:
		return fmt.Errorf("unknown material type %q", spec.Type)
	}

	b.materials[spec.Name] = b.scene.AddMaterial(m)
	return nil
}

var metalPresets = map[string]core.Vec3{
	"silver":   material.Silver,
	"aluminum": material.Aluminum,
	"gold":     material.Gold,
	"copper":   material.Copper,
}

func (b *sceneBuilder) materialIndex(name string) (int, error) {
	idx, ok := b.materials[name]
	if !ok {
		return 0, fmt.Errorf("unknown material %q", name)
	}
	return idx, nil
}

func (b *sceneBuilder) triangle(spec triangleSpec) error {
	if len(spec.Vertices) != 3 {
		return fmt.Errorf("expected 3 vertices, got %d", len(spec.Vertices))
	}
	var v [3]core.Vec3
	for i, raw := range spec.Vertices {
		var err error
		if v[i], err = toVec3("vertex", raw); err != nil {
			return err
		}
	}
	cull, err := parseCull(spec.Cull)
	if err != nil {
		return err
	}
	idx, err := b.materialIndex(spec.Material)
	if err != nil {
		return err
	}

	var t *geometry.Triangle
	if spec.Normal != nil {
		normal, err := toVec3("normal", spec.Normal)
		if err != nil {
			return err
		}
		t = geometry.NewTriangleWithNormal(v[0], v[1], v[2], normal, idx)
	} else {
		t = geometry.NewTriangle(v[0], v[1], v[2], idx)
	}
	t.CullMode = cull
	b.scene.AddTriangle(t)
	return nil
}

func (b *sceneBuilder) mesh(spec meshSpec) error {
	cull, err := parseCull(spec.Cull)
	if err != nil {
		return err
	}
	idx, err := b.materialIndex(spec.Material)
	if err != nil {
		return err
	}

	var mesh *geometry.TriangleMesh
	switch {
	case spec.OBJ != "" && spec.Positions != nil:
		return errors.New("obj and positions are mutually exclusive")
	case spec.OBJ != "":
		path := spec.OBJ
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}
		data, err := loaders.LoadOBJ(path)
		if err != nil {
			return err
		}
		mesh = geometry.NewTriangleMesh(data.Positions, data.Indices, data.Normals, cull, idx)
	default:
		positions := make([]core.Vec3, len(spec.Positions))
		for i, raw := range spec.Positions {
			if positions[i], err = toVec3("position", raw); err != nil {
				return err
			}
		}
		mesh = geometry.NewTriangleMesh(positions, spec.Indices, nil, cull, idx)
	}

	if spec.Translation != nil {
		if mesh.Translation, err = toVec3("translation", spec.Translation); err != nil {
			return err
		}
	}
	if spec.Rotation != nil {
		degrees, err := toVec3("rotation", spec.Rotation)
		if err != nil {
			return err
		}
		mesh.Rotation = degrees.Multiply(degToRad)
	}
	if spec.Scale != nil {
		if mesh.Scale, err = toVec3("scale", spec.Scale); err != nil {
			return err
		}
		// A zero scale means identity in code; written explicitly in a file it is rejected
		if mesh.Scale.IsZero() {
			return fmt.Errorf("scale must not be zero")
		}
	}
	mesh.UpdateTransforms()

	b.scene.TriangleMeshes = append(b.scene.TriangleMeshes, mesh)
	return nil
}

const degToRad = math.Pi / 180

func (b *sceneBuilder) light(spec lightSpec) error {
	color := core.White
	if spec.Color != nil {
		var err error
		if color, err = toVec3("color", spec.Color); err != nil {
			return err
		}
	}

	switch strings.ToLower(spec.Type) {
	case "point", "":
		origin, err := toVec3("origin", spec.Origin)
		if err != nil {
			return err
		}
		b.scene.AddPointLight(origin, spec.Intensity, color)
	case "directional":
		direction, err := toVec3("direction", spec.Direction)
		if err != nil {
			return err
		}
		if direction.IsZero() {
			return errors.New("direction must not be zero")
		}
		b.scene.AddDirectionalLight(direction, spec.Intensity, color)
	default:
		return fmt.Errorf("unknown light type %q", spec.Type)
	}
	return nil
}

func parseCull(s string) (geometry.CullMode, error) {
	if s == "" {
		return geometry.NoCulling, nil
	}
	return geometry.ParseCullMode(s)
}

func toVec3(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s: expected 3 components, got %d", field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}
