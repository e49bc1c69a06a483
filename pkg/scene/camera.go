package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera is a pinhole camera looking along Forward from Origin
type Camera struct {
	Origin     core.Vec3
	Forward    core.Vec3 // Unit view direction
	FovAngle   float64   // Vertical field of view in degrees
	TotalPitch float64   // Radians around the camera's X axis
	TotalYaw   float64   // Radians around the world Y axis
}

// NewCamera creates a camera at origin looking down +Z
func NewCamera(origin core.Vec3, fovAngle float64) *Camera {
	return &Camera{
		Origin:   origin,
		Forward:  core.UnitZ,
		FovAngle: fovAngle,
	}
}

// FovRatio returns tan(fov/2), the half-height of the image plane at distance 1
func (c *Camera) FovRatio() float64 {
	return math.Tan(c.FovAngle * math.Pi / 360)
}

// CameraToWorld returns the basis (right, up, forward) at Origin
func (c *Camera) CameraToWorld() core.Matrix {
	forward := c.Forward.Normalize()
	right := core.UnitY.Cross(forward)
	if right.LengthSquared() < 1e-12 {
		// Looking straight up or down
		right = core.UnitX
	}
	right = right.Normalize()
	up := forward.Cross(right)

	return core.NewMatrix(right, up, forward, c.Origin)
}

// LookAt points the camera at target
func (c *Camera) LookAt(target core.Vec3) {
	c.Forward = target.Subtract(c.Origin).Normalize()
	c.TotalPitch = -math.Asin(c.Forward.Y)
	c.TotalYaw = math.Atan2(c.Forward.X, c.Forward.Z)
}

// Rotate adds pitch and yaw (radians) and recomputes Forward
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.TotalPitch += deltaPitch
	c.TotalYaw += deltaYaw
	c.Forward = core.UnitZ.Rotate(core.NewVec3(c.TotalPitch, c.TotalYaw, 0)).Normalize()
}

// Move translates the camera along its own axes (right, up, forward)
func (c *Camera) Move(local core.Vec3) {
	c.Origin = c.Origin.Add(c.CameraToWorld().TransformVector(local))
}
