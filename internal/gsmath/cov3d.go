package gsmath

// rotFromQuat builds the rotation matrix of a scalar-first unit
// quaternion. The quaternion is used as-is; a non-unit input yields a
// scaled (non-orthonormal) matrix, which downstream math tolerates.
func rotFromQuat(q Quat) Mat3 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Mat3{M: [3][3]Real{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}}
}

// ComputeCov3DForward converts scale vectors and orientation
// quaternions into 3D covariances: M = S·R, Σ = MᵀM, stored as the
// upper triangle [00,01,02,11,12,22]. Σ is positive semi-definite by
// construction for any input. Invisible primitives are left untouched.
//
// scales stride 3, quats stride 4 (w,x,y,z), cov3Ds stride 6.
func ComputeCov3DForward(scales, quats []Real, visible []bool, cov3Ds []Real) {
	launch(len(visible), func(i int) {
		if !visible[i] {
			return
		}
		s := vec3At(scales, i*3)
		R := rotFromQuat(quatAt(quats, i*4))

		// M = S·R: row a of R scaled by s_a
		var M Mat3
		sr := [3]Real{s.X, s.Y, s.Z}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				M.M[a][b] = sr[a] * R.M[a][b]
			}
		}

		// Σ = MᵀM, upper triangle
		base := i * 6
		out := 0
		for a := 0; a < 3; a++ {
			for b := a; b < 3; b++ {
				sum := Real(0)
				for k := 0; k < 3; k++ {
					sum += M.M[k][a] * M.M[k][b]
				}
				cov3Ds[base+out] = sum
				out++
			}
		}
	})
}

// ComputeCov3DBackward propagates the covariance gradient back to
// scale and quaternion. The symmetric storage gradient is expanded
// with halved off-diagonals (each stored off-diagonal entry covers two
// matrix positions), pushed through Σ = MᵀM as dL/dM = 2·M·G, then
// split into per-axis scale gradients and the closed-form quaternion
// partials of the rotation map. All derivatives are exact.
func ComputeCov3DBackward(scales, quats []Real, visible []bool, dCov3Ds []Real, dScales, dQuats []Real) {
	launch(len(visible), func(i int) {
		if !visible[i] {
			return
		}
		s := vec3At(scales, i*3)
		q := quatAt(quats, i*4)
		R := rotFromQuat(q)

		base := i * 6
		g := dCov3Ds[base : base+6]
		G := Mat3{M: [3][3]Real{
			{g[0], g[1] / 2, g[2] / 2},
			{g[1] / 2, g[3], g[4] / 2},
			{g[2] / 2, g[4] / 2, g[5]},
		}}

		var M Mat3
		sr := [3]Real{s.X, s.Y, s.Z}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				M.M[a][b] = sr[a] * R.M[a][b]
			}
		}

		// dL/dM = 2·M·G (G symmetric)
		dM := M.Mul(G)
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				dM.M[a][b] *= 2
			}
		}

		// M[a][b] = s_a·R[a][b]: scale gradient is the rotation row
		// dotted with the matching gradient row; dL/dR absorbs s_a.
		var dS Vec3
		dS.X = R.M[0][0]*dM.M[0][0] + R.M[0][1]*dM.M[0][1] + R.M[0][2]*dM.M[0][2]
		dS.Y = R.M[1][0]*dM.M[1][0] + R.M[1][1]*dM.M[1][1] + R.M[1][2]*dM.M[1][2]
		dS.Z = R.M[2][0]*dM.M[2][0] + R.M[2][1]*dM.M[2][1] + R.M[2][2]*dM.M[2][2]
		storeVec3(dScales, i*3, dS)

		var H Mat3
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				H.M[a][b] = sr[a] * dM.M[a][b]
			}
		}

		w, x, y, z := q.W, q.X, q.Y, q.Z
		h := H.M
		qBase := i * 4
		dQuats[qBase+0] = 2 * (x*(h[2][1]-h[1][2]) + y*(h[0][2]-h[2][0]) + z*(h[1][0]-h[0][1]))
		dQuats[qBase+1] = 2*(y*(h[0][1]+h[1][0])+z*(h[0][2]+h[2][0])+w*(h[2][1]-h[1][2])) - 4*x*(h[1][1]+h[2][2])
		dQuats[qBase+2] = 2*(x*(h[0][1]+h[1][0])+z*(h[1][2]+h[2][1])+w*(h[0][2]-h[2][0])) - 4*y*(h[0][0]+h[2][2])
		dQuats[qBase+3] = 2*(x*(h[0][2]+h[2][0])+y*(h[1][2]+h[2][1])+w*(h[1][0]-h[0][1])) - 4*z*(h[0][0]+h[1][1])
	})
}
