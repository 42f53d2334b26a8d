package gsmath

// Flat-buffer accessors. Every entrypoint exchanges caller-allocated
// float buffers with fixed per-primitive strides: 3 for positions,
// directions, scales, colors and color gradients; 4 for quaternions
// (w,x,y,z); 6 for covariances (upper triangle, row-major
// [00,01,02,11,12,22]); 2 for uv; 1 for depth. SH blocks hold
// maxCoeffs 3-vectors per primitive, coefficient-major.

func vec3At(buf []Real, off int) Vec3 {
	return Vec3{buf[off], buf[off+1], buf[off+2]}
}

func storeVec3(buf []Real, off int, v Vec3) {
	buf[off] = v.X
	buf[off+1] = v.Y
	buf[off+2] = v.Z
}

func rgbAt(buf []Real, off int) RGB {
	return RGB{buf[off], buf[off+1], buf[off+2]}
}

func storeRGB(buf []Real, off int, c RGB) {
	buf[off] = c.R
	buf[off+1] = c.G
	buf[off+2] = c.B
}

func quatAt(buf []Real, off int) Quat {
	return Quat{W: buf[off], X: buf[off+1], Y: buf[off+2], Z: buf[off+3]}
}

// sym3At expands 6-entry upper-triangle storage into a full matrix.
func sym3At(buf []Real, off int) Mat3 {
	return Mat3{M: [3][3]Real{
		{buf[off+0], buf[off+1], buf[off+2]},
		{buf[off+1], buf[off+3], buf[off+4]},
		{buf[off+2], buf[off+4], buf[off+5]},
	}}
}
