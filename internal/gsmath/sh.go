package gsmath

import "github.com/chewxy/math32"

// Real spherical-harmonics basis, bands 0-3, with the fixed
// band-normalization constants of the splatting pipeline.
const (
	shC0 = Real(0.28209479177387814)
	shC1 = Real(0.4886025119029199)
)

var shC2 = [5]Real{
	1.0925484305920792,
	-1.0925484305920792,
	0.31539156525252005,
	-1.0925484305920792,
	0.5462742152960396,
}

var shC3 = [7]Real{
	-0.5900435899266435,
	2.890611442640554,
	-0.4570457994644658,
	0.3731763325901154,
	-0.4570457994644658,
	1.445305721320277,
	-0.5900435899266435,
}

// SHCoeffCount returns how many coefficients band degree deg consumes.
func SHCoeffCount(deg int) int { return (deg + 1) * (deg + 1) }

// shBasis fills basis[0:count] with the basis-function values at dir
// and returns count. dir is taken as-is; the caller owns normalization.
// Bands strictly extend lower ones, they never replace them.
func shBasis(deg int, dir Vec3, basis *[16]Real) int {
	basis[0] = shC0
	if deg < 1 {
		return 1
	}
	x, y, z := dir.X, dir.Y, dir.Z
	basis[1] = -shC1 * y
	basis[2] = shC1 * z
	basis[3] = -shC1 * x
	if deg < 2 {
		return 4
	}
	xx, yy, zz := x*x, y*y, z*z
	xy, yz, xz := x*y, y*z, x*z
	basis[4] = shC2[0] * xy
	basis[5] = shC2[1] * yz
	basis[6] = shC2[2] * (2*zz - xx - yy)
	basis[7] = shC2[3] * xz
	basis[8] = shC2[4] * (xx - yy)
	if deg < 3 {
		return 9
	}
	basis[9] = shC3[0] * y * (3*xx - yy)
	basis[10] = shC3[1] * xy * z
	basis[11] = shC3[2] * y * (4*zz - xx - yy)
	basis[12] = shC3[3] * z * (2*zz - 3*xx - 3*yy)
	basis[13] = shC3[4] * x * (4*zz - xx - yy)
	basis[14] = shC3[5] * z * (xx - yy)
	basis[15] = shC3[6] * x * (xx - 3*yy)
	return 16
}

// shBasisGrad fills the exact partials of each basis function w.r.t.
// the three direction components, same indexing as shBasis.
func shBasisGrad(deg int, dir Vec3, dbx, dby, dbz *[16]Real) int {
	// band 0 is constant; partials stay zero
	if deg < 1 {
		return 1
	}
	x, y, z := dir.X, dir.Y, dir.Z
	dby[1] = -shC1
	dbz[2] = shC1
	dbx[3] = -shC1
	if deg < 2 {
		return 4
	}
	xx, yy, zz := x*x, y*y, z*z
	dbx[4], dby[4] = shC2[0]*y, shC2[0]*x
	dby[5], dbz[5] = shC2[1]*z, shC2[1]*y
	dbx[6], dby[6], dbz[6] = -2*x*shC2[2], -2*y*shC2[2], 4*z*shC2[2]
	dbx[7], dbz[7] = shC2[3]*z, shC2[3]*x
	dbx[8], dby[8] = 2*x*shC2[4], -2*y*shC2[4]
	if deg < 3 {
		return 9
	}
	dbx[9], dby[9] = shC3[0]*6*x*y, shC3[0]*(3*xx-3*yy)
	dbx[10], dby[10], dbz[10] = shC3[1]*y*z, shC3[1]*x*z, shC3[1]*x*y
	dbx[11], dby[11], dbz[11] = -2*x*y*shC3[2], shC3[2]*(4*zz-xx-3*yy), 8*y*z*shC3[2]
	dbx[12], dby[12], dbz[12] = -6*x*z*shC3[3], -6*y*z*shC3[3], shC3[3]*(6*zz-3*xx-3*yy)
	dbx[13], dby[13], dbz[13] = shC3[4]*(4*zz-3*xx-yy), -2*x*y*shC3[4], 8*x*z*shC3[4]
	dbx[14], dby[14], dbz[14] = 2*x*z*shC3[5], -2*y*z*shC3[5], shC3[5]*(xx-yy)
	dbx[15], dby[15] = shC3[6]*(3*xx-3*yy), -6*x*y*shC3[6]
	return 16
}

// ComputeSHForward evaluates view-dependent color for every visible
// primitive: truncated SH expansion at the view direction, +0.5 DC
// bias, clamped at zero per channel. The pre-clamp sign per channel is
// recorded in clamped (stride 3); it is the only state the matching
// backward call may rely on. Invisible primitives are left untouched.
//
// viewDirs stride 3, shs stride maxCoeffs*3, colors stride 3.
// deg must be in {0,1,2,3}; only the first (deg+1)^2 coefficients of
// each block are read.
func ComputeSHForward(deg, maxCoeffs int, viewDirs, shs []Real, visible []bool, colors []Real, clamped []bool) {
	launch(len(visible), func(i int) {
		if !visible[i] {
			return
		}
		var basis [16]Real
		cnt := shBasis(deg, vec3At(viewDirs, i*3), &basis)

		base := i * maxCoeffs * 3
		c := RGB{}
		for k := 0; k < cnt; k++ {
			c = c.Add(rgbAt(shs, base+k*3).Scale(basis[k]))
		}
		c = c.AddScalar(0.5)

		clamped[i*3+ChR] = c.R < 0
		clamped[i*3+ChG] = c.G < 0
		clamped[i*3+ChB] = c.B < 0
		storeRGB(colors, i*3, RGB{
			math32.Max(c.R, 0),
			math32.Max(c.G, 0),
			math32.Max(c.B, 0),
		})
	})
}

// ComputeSHBackward propagates the output-color gradient back to the
// view directions and the consumed SH coefficients. Channels whose
// clamp mask is set carry zero gradient (the clamp subgradient picks
// the clamped branch). Coefficients beyond (deg+1)^2 are not written.
// clamped must be the mask produced by the matching forward call.
func ComputeSHBackward(deg, maxCoeffs int, viewDirs, shs []Real, visible, clamped []bool, dColors []Real, dViewDirs, dSHs []Real) {
	launch(len(visible), func(i int) {
		if !visible[i] {
			return
		}
		dir := vec3At(viewDirs, i*3)
		var basis, dbx, dby, dbz [16]Real
		cnt := shBasis(deg, dir, &basis)
		shBasisGrad(deg, dir, &dbx, &dby, &dbz)

		g := rgbAt(dColors, i*3)
		if clamped[i*3+ChR] {
			g.R = 0
		}
		if clamped[i*3+ChG] {
			g.G = 0
		}
		if clamped[i*3+ChB] {
			g.B = 0
		}

		base := i * maxCoeffs * 3
		dDir := Vec3{}
		for k := 0; k < cnt; k++ {
			// coefficient gradient: basis value times masked color gradient
			storeRGB(dSHs, base+k*3, g.Scale(basis[k]))
			// direction gradient: basis partials dotted with coefficient and gradient
			w := rgbAt(shs, base+k*3).Dot(g)
			dDir.X += dbx[k] * w
			dDir.Y += dby[k] * w
			dDir.Z += dbz[k] * w
		}
		storeVec3(dViewDirs, i*3, dDir)
	})
}
