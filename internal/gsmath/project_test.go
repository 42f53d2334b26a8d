package gsmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

// testView builds a view matrix rotating by yaw (about Y) and pitch
// (about X) and translating camera-space Z by dist.
func testView(yaw, pitch, dist Real) Mat4 {
	cy, sy := math32.Cos(yaw), math32.Sin(yaw)
	cp, sp := math32.Cos(pitch), math32.Sin(pitch)
	ry := Mat3{M: [3][3]Real{
		{cy, 0, sy},
		{0, 1, 0},
		{-sy, 0, cy},
	}}
	rx := Mat3{M: [3][3]Real{
		{1, 0, 0},
		{0, cp, -sp},
		{0, sp, cp},
	}}
	r := rx.Mul(ry)
	v := I4()
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			v.M[a][b] = r.M[a][b]
		}
	}
	v.M[2][3] = dist
	return v
}

func testCamera(view Mat4) Camera {
	return Camera{
		View:  view,
		Fx:    32, Fy: 32,
		Cx:    32, Cy: 32,
		Width: 64, Height: 64,
	}
}

func TestProjectPointsForward(t *testing.T) {
	cam := testCamera(testView(0, 0, 8))
	xyz := []Real{
		0, 0, 0,
		1, 2, 0,
	}
	uv := make([]Real, 4)
	depth := make([]Real, 2)
	ProjectPointsForward(cam, xyz, uv, depth)

	if depth[0] != 8 || uv[0] != 32 || uv[1] != 32 {
		t.Fatalf("center point: uv=(%g,%g) depth=%g", uv[0], uv[1], depth[0])
	}
	// t = (1,2,8): u = 32 + 32·1/8, v = 32 + 32·2/8
	if depth[1] != 8 || uv[2] != 36 || uv[3] != 40 {
		t.Fatalf("off-axis point: uv=(%g,%g) depth=%g", uv[2], uv[3], depth[1])
	}
}

func TestProjectNearCull(t *testing.T) {
	cam := testCamera(testView(0, 0, 0))
	xyz := []Real{
		0, 0, 0.1, // in front of the camera but inside the near plane
		0, 0, nearPlane, // exactly on it, still culled
		0, 0, 5,
	}
	uv := []Real{7, 7, 7, 7, 7, 7}
	depth := make([]Real, 3)
	ProjectPointsForward(cam, xyz, uv, depth)

	for i := 0; i < 2; i++ {
		if depth[i] != 0 || uv[i*2] != 7 || uv[i*2+1] != 7 {
			t.Fatalf("culled point %d was written: uv=(%g,%g) depth=%g",
				i, uv[i*2], uv[i*2+1], depth[i])
		}
	}
	if depth[2] != 5 {
		t.Fatalf("visible point culled: depth=%g", depth[2])
	}

	dUV := make([]Real, 6)
	dDepth := []Real{1, 1, 1}
	dXYZ := []Real{9, 9, 9, 9, 9, 9, 9, 9, 9}
	ProjectPointsBackward(cam, xyz, depth, dUV, dDepth, dXYZ)
	for i := 0; i < 6; i++ {
		if dXYZ[i] != 9 {
			t.Fatalf("backward wrote culled gradient: %v", dXYZ[:6])
		}
	}
	if dXYZ[8] != 1 { // dL/dz = dDepth through the identity rotation
		t.Fatalf("visible depth gradient: got %g want 1", dXYZ[8])
	}
}

func TestProjectBackwardMatchesFiniteDifference(t *testing.T) {
	const n = 4
	rng := rand.New(rand.NewSource(31))
	cam := testCamera(testView(0.3, -0.2, 8))

	xyz := make([]Real, 3*n)
	for i := 0; i < n; i++ {
		storeVec3(xyz, i*3, Vec3{
			Real(rng.Float64()*2 - 1),
			Real(rng.Float64()*2 - 1),
			Real(rng.Float64()*2 - 1),
		})
	}
	probeUV := randProbe(rng, 2*n)
	probeD := randProbe(rng, n)

	loss := func() float64 {
		uv := make([]Real, 2*n)
		depth := make([]Real, n)
		ProjectPointsForward(cam, xyz, uv, depth)
		return probeLoss(uv, probeUV) + probeLoss(depth, probeD)
	}

	uv := make([]Real, 2*n)
	depth := make([]Real, n)
	ProjectPointsForward(cam, xyz, uv, depth)
	for i := 0; i < n; i++ {
		if depth[i] == 0 {
			t.Fatalf("test point %d unexpectedly culled", i)
		}
	}

	dUV := make([]Real, 2*n)
	for i := range dUV {
		dUV[i] = Real(probeUV[i])
	}
	dDepth := make([]Real, n)
	for i := range dDepth {
		dDepth[i] = Real(probeD[i])
	}
	dXYZ := make([]Real, 3*n)
	ProjectPointsBackward(cam, xyz, depth, dUV, dDepth, dXYZ)

	want := make([]float64, 3*n)
	for j := range xyz {
		want[j] = numGrad(loss, &xyz[j], 1e-2)
	}
	checkGrad(t, "dXYZ", dXYZ, want)
}

func TestCameraTanHalfFov(t *testing.T) {
	cam := testCamera(I4())
	if math.Abs(float64(cam.tanHalfFovX()-1)) > 1e-6 {
		t.Fatalf("tanHalfFovX = %g, want 1 for a 90° camera", cam.tanHalfFovX())
	}
}
