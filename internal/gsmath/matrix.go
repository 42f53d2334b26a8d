package gsmath

// 3×3 matrix (row-major)
type Mat3 struct {
	M [3][3]Real
}

func I3() Mat3 {
	return Mat3{M: [3][3]Real{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

func (A Mat3) Mul(B Mat3) Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sum := Real(0)
			for k := 0; k < 3; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func (A Mat3) Transpose() Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[c][r]
		}
	}
	return R
}

func (A Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		A.M[0][0]*v.X + A.M[0][1]*v.Y + A.M[0][2]*v.Z,
		A.M[1][0]*v.X + A.M[1][1]*v.Y + A.M[1][2]*v.Z,
		A.M[2][0]*v.X + A.M[2][1]*v.Y + A.M[2][2]*v.Z,
	}
}

// 4×4 matrix (row-major), acting on column vectors.
type Mat4 struct {
	M [4][4]Real
}

func I4() Mat4 {
	return Mat4{M: [4][4]Real{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Rot3 returns the upper-left 3×3 block (the rotation part of a rigid transform).
func (A Mat4) Rot3() Mat3 {
	var R Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			R.M[r][c] = A.M[r][c]
		}
	}
	return R
}

// MulPoint applies the affine transform to a point (w=1, bottom row ignored).
func (A Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		A.M[0][0]*p.X + A.M[0][1]*p.Y + A.M[0][2]*p.Z + A.M[0][3],
		A.M[1][0]*p.X + A.M[1][1]*p.Y + A.M[1][2]*p.Z + A.M[1][3],
		A.M[2][0]*p.X + A.M[2][1]*p.Y + A.M[2][2]*p.Z + A.M[2][3],
	}
}
