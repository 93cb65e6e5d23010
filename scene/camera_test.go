package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-4

func TestOrientedTransformPreservesTranslationAndScale(t *testing.T) {
	type spec struct {
		transform mgl32.Mat4
		pitch     float32
		yaw       float32
	}

	specs := []spec{
		{mgl32.Ident4(), 0, 0},
		{mgl32.Translate3D(1, 2, 3), 30, 45},
		{mgl32.Translate3D(-5, 0.5, 10).Mul4(mgl32.Scale3D(2, 3, 4)), -60, 170},
		{mgl32.Scale3D(0.1, 0.1, 0.1), 89, -90},
	}

	for idx, sp := range specs {
		wantTrans, _, wantScale := decompose(sp.transform)

		out := OrientedTransform(sp.transform, sp.pitch, sp.yaw)
		gotTrans, _, gotScale := decompose(out)

		if !vec3Near(gotTrans, wantTrans) {
			t.Fatalf("[spec %d] expected translation %v to be preserved; got %v", idx, wantTrans, gotTrans)
		}
		if !vec3Near(gotScale, wantScale) {
			t.Fatalf("[spec %d] expected scale %v to be preserved; got %v", idx, wantScale, gotScale)
		}
	}
}

func TestOrientedTransformRotation(t *testing.T) {
	// A 90 degree yaw swings the camera's forward axis (-Z) onto -X,
	// which places the local +Z column at +X.
	out := OrientedTransform(mgl32.Ident4(), 0, 90)
	zAxis := out.Col(2).Vec3()

	if !vec3Near(zAxis, mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected z axis (1, 0, 0) after 90 degree yaw; got %v", zAxis)
	}
}

func TestPitchClamp(t *testing.T) {
	type spec struct {
		in   float32
		want float32
	}

	specs := []spec{
		{0, 0},
		{45, 45},
		{89, 89},
		{90, 89},
		{500, 89},
		{-89, -89},
		{-120, -89},
	}

	for idx, sp := range specs {
		if got := clampPitch(sp.in); got != sp.want {
			t.Fatalf("[spec %d] expected clamped pitch %f; got %f", idx, sp.want, got)
		}

		// Clamping an already clamped value must be the identity.
		if got := clampPitch(clampPitch(sp.in)); got != sp.want {
			t.Fatalf("[spec %d] expected clamp to be idempotent at %f; got %f", idx, sp.want, got)
		}
	}
}

func TestOrbitAccumulatesAndClamps(t *testing.T) {
	cam := NewCamera(45)

	cam.Orbit(10, 50)
	cam.Orbit(20, 50)

	if got := cam.Yaw(); !near(got, 30) {
		t.Fatalf("expected accumulated yaw 30; got %f", got)
	}
	if got := cam.Pitch(); !near(got, 89) {
		t.Fatalf("expected pitch clamped to 89; got %f", got)
	}
}

func TestViewMatrixInvertsTransform(t *testing.T) {
	cam := NewCamera(60)
	cam.Translate(mgl32.Vec3{3, -1, 7})
	cam.Orbit(25, -40)

	ident := cam.Transform.Mul4(cam.ViewMatrix())
	if !mat4Near(ident, mgl32.Ident4()) {
		t.Fatalf("expected transform * view to be identity; got %v", ident)
	}
}

func TestRayFrame(t *testing.T) {
	cam := NewCamera(90)
	cam.Aperture.Aspect = 2

	axisU, axisV, axisW := cam.RayFrame()

	// tan(45) == 1, so the half extents are aspect x 1 and 1.
	if !vec3Near(axisU, mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("expected axisU (2, 0, 0); got %v", axisU)
	}
	if !vec3Near(axisV, mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected axisV (0, 1, 0); got %v", axisV)
	}
	if !vec3Near(axisW, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("expected axisW (0, 0, -1); got %v", axisW)
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < tolerance
}

func vec3Near(a, b mgl32.Vec3) bool {
	return near(a.X(), b.X()) && near(a.Y(), b.Y()) && near(a.Z(), b.Z())
}

func mat4Near(a, b mgl32.Mat4) bool {
	for i := 0; i < 16; i++ {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}
