package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pitch is clamped to keep the camera from flipping over its up axis.
const maxPitchDeg float32 = 89.0

// Aperture holds the projection state of the camera: vertical field
// of view in degrees, aspect ratio and the near/far clip planes.
// Aspect must be updated by the caller from the measured viewport
// size before matrices are derived for a frame; a non-positive aspect
// yields an undefined projection.
type Aperture struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// ProjectionMatrix returns the perspective projection for the current
// aperture state.
func (a Aperture) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(a.FOV), a.Aspect, a.Near, a.Far)
}

// Camera is a freely manipulable view into the scene. Transform is
// the camera's world placement; all derived state (view matrix, ray
// frame) is computed from it on demand.
type Camera struct {
	Transform mgl32.Mat4
	Aperture  Aperture

	// Accumulated drag angles in degrees.
	pitch float32
	yaw   float32
}

// NewCamera returns a camera at the origin looking down -Z with the
// given vertical field of view in degrees.
func NewCamera(fov float32) *Camera {
	return &Camera{
		Transform: mgl32.Ident4(),
		Aperture:  Aperture{FOV: fov, Aspect: 1, Near: 0.1, Far: 1000},
	}
}

// ViewMatrix returns the inverse of the camera's world transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.Transform.Inv()
}

// Position returns the camera's world position.
func (c *Camera) Position() mgl32.Vec3 {
	return c.Transform.Col(3).Vec3()
}

// Pitch returns the accumulated drag pitch in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Yaw returns the accumulated drag yaw in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Translate moves the camera by delta along its local axes.
func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Transform = c.Transform.Mul4(mgl32.Translate3D(delta.X(), delta.Y(), delta.Z()))
}

// Orbit accumulates drag deltas in degrees and rebuilds the rotation
// part of the transform from the absolute angles. Pitch is clamped to
// [-89, 89]; yaw is unbounded.
func (c *Camera) Orbit(yawDelta, pitchDelta float32) {
	c.yaw += yawDelta
	c.pitch = clampPitch(c.pitch + pitchDelta)
	c.Transform = OrientedTransform(c.Transform, c.pitch, c.yaw)
}

func clampPitch(deg float32) float32 {
	if deg > maxPitchDeg {
		return maxPitchDeg
	}
	if deg < -maxPitchDeg {
		return -maxPitchDeg
	}
	return deg
}

// RayFrame returns the (axisU, axisV, axisW) basis spanning the view
// frustum at unit distance from the camera: the transform's right and
// up axes scaled by the half-extents implied by fov and aspect, plus
// the forward direction. The compute stage builds the primary ray for
// a pixel as normalize(axisW + px*axisU + py*axisV) with px, py in
// [-1, 1].
func (c *Camera) RayFrame() (axisU, axisV, axisW mgl32.Vec3) {
	halfV := float32(math.Tan(float64(mgl32.DegToRad(c.Aperture.FOV) / 2)))
	halfU := halfV * c.Aperture.Aspect

	right := c.Transform.Col(0).Vec3().Normalize()
	up := c.Transform.Col(1).Vec3().Normalize()
	// The camera looks down its local -Z axis.
	forward := c.Transform.Col(2).Vec3().Normalize().Mul(-1)

	return right.Mul(halfU), up.Mul(halfV), forward
}

// OrientedTransform returns transform with its rotation replaced by
// the rotation described by pitch and yaw (degrees, yaw about world Y
// applied after pitch about X). Translation and scale are preserved
// exactly; any skew present in the input is dropped during
// decomposition. No code path in this repo produces skew.
func OrientedTransform(transform mgl32.Mat4, pitchDeg, yawDeg float32) mgl32.Mat4 {
	translation, _, scale := decompose(transform)

	rotation := mgl32.AnglesToQuat(
		mgl32.DegToRad(yawDeg),
		mgl32.DegToRad(pitchDeg),
		0,
		mgl32.YXZ,
	)

	recomposed := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	recomposed = recomposed.Mul4(rotation.Mat4())
	recomposed = recomposed.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
	return recomposed
}

// decompose splits an affine transform into translation, rotation and
// per-axis scale. Skew is not recovered; behavior is undefined for
// degenerate (zero-scale) transforms.
func decompose(t mgl32.Mat4) (translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	translation = t.Col(3).Vec3()

	c0 := t.Col(0).Vec3()
	c1 := t.Col(1).Vec3()
	c2 := t.Col(2).Vec3()
	scale = mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}

	c0 = c0.Mul(1 / scale.X())
	c1 = c1.Mul(1 / scale.Y())
	c2 = c2.Mul(1 / scale.Z())
	rot := mgl32.Mat3{
		c0.X(), c0.Y(), c0.Z(),
		c1.X(), c1.Y(), c1.Z(),
		c2.X(), c2.Y(), c2.Z(),
	}
	rotation = mgl32.Mat4ToQuat(rot.Mat4())

	return translation, rotation, scale
}
