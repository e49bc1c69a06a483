package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// leafThreshold is the most faces a leaf holds before it is split
const leafThreshold = 8

// bvhNode is one node of a mesh's bounding volume hierarchy.
// Leaves list face indices; internal nodes have both children and no faces.
type bvhNode struct {
	bounds      core.AABB
	left, right *bvhNode
	faces       []int
}

// buildBVH builds a hierarchy over faces given their world-space bounds,
// splitting at the midpoint of the longest axis
func buildBVH(faceBounds []core.AABB) *bvhNode {
	if len(faceBounds) == 0 {
		return nil
	}
	faces := make([]int, len(faceBounds))
	for i := range faces {
		faces[i] = i
	}
	return buildBVHNode(faceBounds, faces)
}

func buildBVHNode(faceBounds []core.AABB, faces []int) *bvhNode {
	bounds := faceBounds[faces[0]]
	for _, face := range faces[1:] {
		bounds = bounds.Union(faceBounds[face])
	}

	if len(faces) <= leafThreshold {
		return &bvhNode{bounds: bounds, faces: faces}
	}

	axis := bounds.LongestAxis()
	lo, hi := core.Axis(bounds.Min, axis), core.Axis(bounds.Max, axis)
	if hi <= lo {
		return &bvhNode{bounds: bounds, faces: faces}
	}
	split := (lo + hi) * 0.5

	var left, right []int
	for _, face := range faces {
		if core.Axis(faceBounds[face].Center(), axis) < split {
			left = append(left, face)
		} else {
			right = append(right, face)
		}
	}

	// All centers on one side: splitting again would not make progress
	if len(left) == 0 || len(right) == 0 {
		return &bvhNode{bounds: bounds, faces: faces}
	}

	return &bvhNode{
		bounds: bounds,
		left:   buildBVHNode(faceBounds, left),
		right:  buildBVHNode(faceBounds, right),
	}
}

// hitBVH walks the hierarchy. For closest-hit the ray interval shrinks as hits are
// found; for any-hit (wantDetail false) the first accepted face ends the walk.
func (m *TriangleMesh) hitBVH(node *bvhNode, ray core.Ray, rec *HitRecord, wantDetail bool) bool {
	if !node.bounds.Hit(ray) {
		return false
	}

	if node.left == nil {
		hitAnything := false
		for _, face := range node.faces {
			var faceHit HitRecord
			if !m.hitFace(face, ray, &faceHit, wantDetail) {
				continue
			}
			if !wantDetail {
				return true
			}
			hitAnything = true
			*rec = faceHit
			ray.Max = faceHit.T
		}
		return hitAnything
	}

	hitAnything := false
	if m.hitBVH(node.left, ray, rec, wantDetail) {
		if !wantDetail {
			return true
		}
		hitAnything = true
		ray.Max = rec.T
	}
	if m.hitBVH(node.right, ray, rec, wantDetail) {
		hitAnything = true
	}
	return hitAnything
}
