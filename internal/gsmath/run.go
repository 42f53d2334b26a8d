package gsmath

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/chewxy/math32"
)

func randNormal(rng *rand.Rand) Real {
	// Box–Muller
	u1 := rng.Float64()
	u2 := rng.Float64()
	r := math.Sqrt(-2 * math.Log(math.Max(u1, 1e-12)))
	return Real(r * math.Cos(2*math.Pi*u2))
}

func randUnitQuat(rng *rand.Rand) Quat {
	for {
		q := Quat{randNormal(rng), randNormal(rng), randNormal(rng), randNormal(rng)}
		l2 := q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
		if l2 > 1e-12 {
			il := 1 / math32.Sqrt(l2)
			return Quat{q.W * il, q.X * il, q.Y * il, q.Z * il}
		}
	}
}

// Run drives the whole kernel surface once over a synthetic primitive
// set: project, build covariances, EWA-project, evaluate SH colors,
// then sweep every backward pass with probe gradients. It logs stage
// timings and writes the scatter preview.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	n := cfg.Points
	deg := cfg.Degree
	maxCoeffs := SHCoeffCount(MaxSHDegree)

	fovX := cfg.Camera.FovXDeg * math32.Pi / 180
	fx := 0.5 * Real(cfg.Width) / math32.Tan(0.5*fovX)
	view := I4()
	view.M[2][3] = cfg.Camera.Distance
	cam := Camera{
		View: view,
		Fx:   fx, Fy: fx,
		Cx: Real(cfg.Width) / 2, Cy: Real(cfg.Height) / 2,
		Width: cfg.Width, Height: cfg.Height,
	}
	camPos := Vec3{0, 0, -cfg.Camera.Distance}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	xyz := make([]Real, 3*n)
	scales := make([]Real, 3*n)
	quats := make([]Real, 4*n)
	shs := make([]Real, n*maxCoeffs*3)
	viewDirs := make([]Real, 3*n)
	for i := 0; i < n; i++ {
		p := Vec3{
			Real(rng.Float64())*2 - 1,
			Real(rng.Float64())*2 - 1,
			Real(rng.Float64())*2 - 1,
		}
		storeVec3(xyz, i*3, p)
		storeVec3(scales, i*3, Vec3{
			0.005 + 0.045*Real(rng.Float64()),
			0.005 + 0.045*Real(rng.Float64()),
			0.005 + 0.045*Real(rng.Float64()),
		})
		q := randUnitQuat(rng)
		quats[i*4] = q.W
		quats[i*4+1] = q.X
		quats[i*4+2] = q.Y
		quats[i*4+3] = q.Z
		base := i * maxCoeffs * 3
		for c := 0; c < 3; c++ {
			shs[base+c] = Real(rng.Float64())
		}
		for k := 1; k < SHCoeffCount(deg); k++ {
			for c := 0; c < 3; c++ {
				shs[base+k*3+c] = Real(rng.Float64())*0.5 - 0.25
			}
		}
		storeVec3(viewDirs, i*3, p.Sub(camPos).Norm())
	}

	uv := make([]Real, 2*n)
	depth := make([]Real, n)
	visible := make([]bool, n)
	cov3Ds := make([]Real, 6*n)
	conics := make([]Real, 3*n)
	radii := make([]int32, n)
	tiles := make([]int32, n)
	colors := make([]Real, 3*n)
	clamped := make([]bool, 3*n)

	start := time.Now()
	ProjectPointsForward(cam, xyz, uv, depth)
	for i := 0; i < n; i++ {
		visible[i] = depth[i] != 0
	}
	DebugLog("project forward: %s", time.Since(start))

	valid := countVisible(visible)

	stage := time.Now()
	ComputeCov3DForward(scales, quats, visible, cov3Ds)
	DebugLog("cov3d forward: %s", time.Since(stage))

	stage = time.Now()
	EWAProjectForward(cam, xyz, cov3Ds, uv, visible, conics, radii, tiles)
	DebugLog("ewa forward: %s", time.Since(stage))

	stage = time.Now()
	ComputeSHForward(deg, maxCoeffs, viewDirs, shs, visible, colors, clamped)
	DebugLog("sh forward: %s", time.Since(stage))

	// backward sweep with all-ones probe gradients, chained the way a
	// training step would chain them
	dColors := make([]Real, 3*n)
	dConics := make([]Real, 3*n)
	dUV := make([]Real, 2*n)
	dDepth := make([]Real, n)
	for i := range dColors {
		dColors[i] = 1
		dConics[i] = 1
	}
	for i := range dUV {
		dUV[i] = 1
	}
	for i := range dDepth {
		dDepth[i] = 1
	}

	dViewDirs := make([]Real, 3*n)
	dSHs := make([]Real, n*maxCoeffs*3)
	dCov3Ds := make([]Real, 6*n)
	dXYZ := make([]Real, 3*n)
	dScales := make([]Real, 3*n)
	dQuats := make([]Real, 4*n)
	dXYZProj := make([]Real, 3*n)

	stage = time.Now()
	ComputeSHBackward(deg, maxCoeffs, viewDirs, shs, visible, clamped, dColors, dViewDirs, dSHs)
	DebugLog("sh backward: %s", time.Since(stage))

	stage = time.Now()
	EWAProjectBackward(cam, xyz, cov3Ds, visible, radii, dConics, dCov3Ds, dXYZ)
	DebugLog("ewa backward: %s", time.Since(stage))

	stage = time.Now()
	ComputeCov3DBackward(scales, quats, visible, dCov3Ds, dScales, dQuats)
	DebugLog("cov3d backward: %s", time.Since(stage))

	stage = time.Now()
	ProjectPointsBackward(cam, xyz, depth, dUV, dDepth, dXYZProj)
	DebugLog("project backward: %s", time.Since(stage))

	fmt.Printf("primitives: %d, visible: %d, total: %s\n", n, valid, time.Since(start))

	if cfg.PreviewOut != "" {
		if err := SavePreviewPNG(cfg.PreviewOut, cam, uv, depth, colors, cfg.Gamma); err != nil {
			return err
		}
		DebugLog("saved preview: %s", cfg.PreviewOut)
	}
	return nil
}
