package gsmath

import "github.com/chewxy/math32"

// ewaJacobian returns the two rows of the perspective Jacobian at the
// (frustum-clamped) camera-space point t.
func ewaJacobian(cam Camera, t Vec3) (j0, j1 Vec3) {
	iz := 1 / t.Z
	iz2 := iz * iz
	j0 = Vec3{cam.Fx * iz, 0, -cam.Fx * t.X * iz2}
	j1 = Vec3{0, cam.Fy * iz, -cam.Fy * t.Y * iz2}
	return
}

// clampFrustum pulls the camera-space point back inside a slightly
// widened frustum so the Jacobian stays bounded near the image edges.
// The returned flags mark components that were clamped.
func clampFrustum(cam Camera, t Vec3) (Vec3, bool, bool) {
	limX := fovClampMul * cam.tanHalfFovX()
	limY := fovClampMul * cam.tanHalfFovY()
	xz := t.X / t.Z
	yz := t.Y / t.Z
	cx := clampf(xz, -limX, limX)
	cy := clampf(yz, -limY, limY)
	return Vec3{cx * t.Z, cy * t.Z, t.Z}, cx != xz, cy != yz
}

// EWAProjectForward projects each visible primitive's 3D covariance to
// an image-plane conic: cov2d = J·W·Σ·Wᵀ·Jᵀ plus a low-pass diagonal
// bias, conic = cov2d⁻¹ (upper triangle), radius = ceil(3·sqrt(λmax)),
// and the count of screen tiles touched by the radius box around uv.
// Invisible primitives and degenerate covariances (det == 0) leave all
// outputs untouched; radius 0 marks them skippable downstream.
//
// cov3Ds stride 6, uv stride 2, conics stride 3.
func EWAProjectForward(cam Camera, xyz, cov3Ds, uv []Real, visible []bool, conics []Real, radii, tiles []int32) {
	W3 := cam.View.Rot3()
	W3t := W3.Transpose()
	tilesX := (cam.Width + TileSize - 1) / TileSize
	tilesY := (cam.Height + TileSize - 1) / TileSize
	launch(len(visible), func(i int) {
		if !visible[i] {
			return
		}
		t := cam.View.MulPoint(vec3At(xyz, i*3))
		t, _, _ = clampFrustum(cam, t)
		j0, j1 := ewaJacobian(cam, t)

		// view-space covariance, then the 2D moments
		V := W3.Mul(sym3At(cov3Ds, i*6)).Mul(W3t)
		a := j0.Dot(V.MulVec(j0)) + lowPass
		b := j0.Dot(V.MulVec(j1))
		c := j1.Dot(V.MulVec(j1)) + lowPass

		det := a*c - b*b
		if det == 0 {
			return
		}
		idet := 1 / det
		conics[i*3] = c * idet
		conics[i*3+1] = -b * idet
		conics[i*3+2] = a * idet

		mid := 0.5 * (a + c)
		lMax := mid + math32.Sqrt(math32.Max(0.1, mid*mid-det))
		r := int32(math32.Ceil(3 * math32.Sqrt(lMax)))
		radii[i] = r

		u, v := uv[i*2], uv[i*2+1]
		fr := Real(r)
		x0 := imin(tilesX, imax(0, int((u-fr)/TileSize)))
		y0 := imin(tilesY, imax(0, int((v-fr)/TileSize)))
		x1 := imin(tilesX, imax(0, int((u+fr+TileSize-1)/TileSize)))
		y1 := imin(tilesY, imax(0, int((v+fr+TileSize-1)/TileSize)))
		tiles[i] = int32((x1 - x0) * (y1 - y0))
	})
}

// EWAProjectBackward propagates the conic gradient back to the 3D
// covariance and, through the Jacobian's dependence on the camera-space
// point, to the world-space position. Frustum-clamped components carry
// zero point gradient. Skips invisible primitives and radius-0 entries.
func EWAProjectBackward(cam Camera, xyz, cov3Ds []Real, visible []bool, radii []int32, dConics []Real, dCov3Ds, dXYZ []Real) {
	W3 := cam.View.Rot3()
	W3t := W3.Transpose()
	launch(len(visible), func(i int) {
		if !visible[i] || radii[i] == 0 {
			return
		}
		t := cam.View.MulPoint(vec3At(xyz, i*3))
		t, clampedX, clampedY := clampFrustum(cam, t)
		j0, j1 := ewaJacobian(cam, t)

		V := W3.Mul(sym3At(cov3Ds, i*6)).Mul(W3t)
		a := j0.Dot(V.MulVec(j0)) + lowPass
		b := j0.Dot(V.MulVec(j1))
		c := j1.Dot(V.MulVec(j1)) + lowPass
		det := a*c - b*b
		det2inv := 1 / (det * det)

		gX := dConics[i*3]
		gY := dConics[i*3+1]
		gZ := dConics[i*3+2]

		// through the 2×2 inversion (conic = [c,-b,a]/det)
		ga := (-c*c*gX + b*c*gY - b*b*gZ) * det2inv
		gb := (2*b*c*gX - (det+2*b*b)*gY + 2*a*b*gZ) * det2inv
		gc := (-b*b*gX + a*b*gY - a*a*gZ) * det2inv

		// covariance path: a = u0ᵀΣu0, b = u0ᵀΣu1, c = u1ᵀΣu1
		// with u_r = W3ᵀ·j_r
		u0 := W3t.MulVec(j0)
		u1 := W3t.MulVec(j1)
		d0 := [3]Real{u0.X, u0.Y, u0.Z}
		d1 := [3]Real{u1.X, u1.Y, u1.Z}
		dSig := func(p, q int) Real {
			return ga*d0[p]*d0[q] + gb*d0[p]*d1[q] + gc*d1[p]*d1[q]
		}
		base := i * 6
		dCov3Ds[base+0] = dSig(0, 0)
		dCov3Ds[base+1] = dSig(0, 1) + dSig(1, 0)
		dCov3Ds[base+2] = dSig(0, 2) + dSig(2, 0)
		dCov3Ds[base+3] = dSig(1, 1)
		dCov3Ds[base+4] = dSig(1, 2) + dSig(2, 1)
		dCov3Ds[base+5] = dSig(2, 2)

		// position path: the Jacobian rows depend on t
		dj0 := V.MulVec(j0).Mul(2 * ga).Add(V.MulVec(j1).Mul(gb))
		dj1 := V.MulVec(j0).Mul(gb).Add(V.MulVec(j1).Mul(2 * gc))

		iz := 1 / t.Z
		iz2 := iz * iz
		iz3 := iz2 * iz
		var dt Vec3
		if !clampedX {
			dt.X = -cam.Fx * iz2 * dj0.Z
		}
		if !clampedY {
			dt.Y = -cam.Fy * iz2 * dj1.Z
		}
		dt.Z = -cam.Fx*iz2*dj0.X + 2*cam.Fx*t.X*iz3*dj0.Z -
			cam.Fy*iz2*dj1.Y + 2*cam.Fy*t.Y*iz3*dj1.Z

		storeVec3(dXYZ, i*3, W3t.MulVec(dt))
	})
}
