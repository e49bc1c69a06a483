package core

// Matrix is an affine transform stored as three basis axes plus a translation.
// It is what the camera uses to bring camera-space directions into world space.
type Matrix struct {
	X, Y, Z     Vec3 // Basis axes (right, up, forward for a camera)
	Translation Vec3
}

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{X: UnitX, Y: UnitY, Z: UnitZ}
}

// NewMatrix creates a transform from its axes and translation
func NewMatrix(x, y, z, t Vec3) Matrix {
	return Matrix{X: x, Y: y, Z: z, Translation: t}
}

// TransformVector applies the rotation/scale part only
func (m Matrix) TransformVector(v Vec3) Vec3 {
	return m.X.Multiply(v.X).Add(m.Y.Multiply(v.Y)).Add(m.Z.Multiply(v.Z))
}

// TransformPoint applies the full transform including translation
func (m Matrix) TransformPoint(p Vec3) Vec3 {
	return m.TransformVector(p).Add(m.Translation)
}
