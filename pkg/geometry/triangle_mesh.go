package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// TriangleMesh is an indexed triangle list with one normal per face.
// Positions/Normals are in object space; Translation, Rotation and Scale place the
// mesh in the world. Call UpdateTransforms after changing any of them.
type TriangleMesh struct {
	Positions     []core.Vec3
	Normals       []core.Vec3 // One per face, len(Indices)/3
	Indices       []int
	CullMode      CullMode
	MaterialIndex int

	Translation core.Vec3
	Rotation    core.Vec3 // Euler angles in radians, applied X, Y, Z
	Scale       core.Vec3

	worldPositions []core.Vec3
	worldNormals   []core.Vec3
	bbox           core.AABB
	bvh            *bvhNode
}

// NewTriangleMesh creates a mesh from vertices and face indices.
// When normals is nil one normal per face is computed from the winding.
func NewTriangleMesh(positions []core.Vec3, indices []int, normals []core.Vec3, cullMode CullMode, materialIndex int) *TriangleMesh {
	m := &TriangleMesh{
		Positions:     positions,
		Indices:       indices,
		Normals:       normals,
		CullMode:      cullMode,
		MaterialIndex: materialIndex,
		Scale:         core.NewVec3(1, 1, 1),
	}
	if m.Normals == nil && len(indices)%3 == 0 && m.indicesInRange() {
		m.CalculateNormals()
	}
	m.UpdateTransforms()
	return m
}

// CalculateNormals recomputes one normal per face from the vertex winding
func (m *TriangleMesh) CalculateNormals() {
	m.Normals = make([]core.Vec3, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Positions[m.Indices[i]]
		v1 := m.Positions[m.Indices[i+1]]
		v2 := m.Positions[m.Indices[i+2]]
		m.Normals = append(m.Normals, v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize())
	}
}

// AppendTriangle adds a triangle to the mesh, optionally skipping the transform update
func (m *TriangleMesh) AppendTriangle(t *Triangle, ignoreTransformUpdate bool) {
	start := len(m.Positions)
	m.Positions = append(m.Positions, t.V0, t.V1, t.V2)
	m.Indices = append(m.Indices, start, start+1, start+2)
	m.Normals = append(m.Normals, t.Normal)

	if !ignoreTransformUpdate {
		m.UpdateTransforms()
	}
}

// UpdateTransforms rebuilds the world-space positions, normals, bounds and BVH
func (m *TriangleMesh) UpdateTransforms() {
	scale := m.Scale
	if scale.IsZero() {
		scale = core.NewVec3(1, 1, 1)
	}

	m.worldPositions = make([]core.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		m.worldPositions[i] = p.MultiplyVec(scale).Rotate(m.Rotation).Add(m.Translation)
	}

	// Normals transform with the inverse scale to stay perpendicular
	invScale := core.NewVec3(1/scale.X, 1/scale.Y, 1/scale.Z)
	m.worldNormals = make([]core.Vec3, len(m.Normals))
	for i, n := range m.Normals {
		m.worldNormals[i] = n.MultiplyVec(invScale).Rotate(m.Rotation).Normalize()
	}

	m.bvh = nil
	m.bbox = core.AABB{}
	if len(m.Indices)%3 != 0 || !m.indicesInRange() || len(m.worldNormals) != len(m.Indices)/3 {
		// Left for Validate to report; Hit ignores a mesh without a BVH
		return
	}

	faceBounds := make([]core.AABB, m.TriangleCount())
	for face := range faceBounds {
		v0, v1, v2 := m.facePositions(face)
		faceBounds[face] = core.NewAABBFromPoints(v0, v1, v2)
	}
	m.bvh = buildBVH(faceBounds)
	if m.bvh != nil {
		m.bbox = m.bvh.bounds
	}
}

// Hit finds the closest face along the ray (or any face when wantDetail is false)
func (m *TriangleMesh) Hit(ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	if m.bvh == nil {
		return false
	}
	return m.hitBVH(m.bvh, ray, rec, wantDetail)
}

func (m *TriangleMesh) facePositions(face int) (v0, v1, v2 core.Vec3) {
	return m.worldPositions[m.Indices[face*3]],
		m.worldPositions[m.Indices[face*3+1]],
		m.worldPositions[m.Indices[face*3+2]]
}

func (m *TriangleMesh) hitFace(face int, ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	v0, v1, v2 := m.facePositions(face)
	return hitTriangle(v0, v1, v2, m.worldNormals[face], m.CullMode, m.MaterialIndex, ray, rec, wantDetail)
}

// BoundingBox returns the world-space bounds of the mesh
func (m *TriangleMesh) BoundingBox() core.AABB {
	return m.bbox
}

// TriangleCount returns the number of faces
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the index buffer shape and ranges and that the transform keeps normals finite
func (m *TriangleMesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("triangle mesh: index count %d is not a multiple of 3", len(m.Indices))
	}
	if !m.indicesInRange() {
		return fmt.Errorf("triangle mesh: face index out of range for %d positions", len(m.Positions))
	}
	if len(m.Normals) != len(m.Indices)/3 {
		return fmt.Errorf("triangle mesh: %d normals for %d faces", len(m.Normals), len(m.Indices)/3)
	}
	// An all-zero scale is treated as identity by UpdateTransforms
	if !m.Scale.IsZero() && (!m.Scale.IsFinite() || m.Scale.X == 0 || m.Scale.Y == 0 || m.Scale.Z == 0) {
		return fmt.Errorf("triangle mesh: scale %v must have finite non-zero components", m.Scale)
	}
	if !m.Translation.IsFinite() || !m.Rotation.IsFinite() {
		return fmt.Errorf("triangle mesh: non-finite transform")
	}
	for face, n := range m.worldNormals {
		if !n.IsFinite() {
			return fmt.Errorf("triangle mesh: face %d has non-finite normal %v", face, n)
		}
	}
	return nil
}

func (m *TriangleMesh) indicesInRange() bool {
	for _, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Positions) {
			return false
		}
	}
	return true
}
