package gsmath

// Camera bundles the rigid view transform (column-vector convention)
// with pinhole intrinsics and the image size.
type Camera struct {
	View   Mat4
	Fx, Fy Real
	Cx, Cy Real
	Width  int
	Height int
}

func (c Camera) tanHalfFovX() Real { return Real(c.Width) / (2 * c.Fx) }
func (c Camera) tanHalfFovY() Real { return Real(c.Height) / (2 * c.Fy) }

// ProjectPointsForward projects world-space points to pixel
// coordinates and camera-space depth. Points at or behind the near
// plane are culled: their uv and depth entries are not written, so a
// zeroed depth buffer doubles as the visibility channel
// (visible[i] == (depth[i] != 0)) for the downstream stages.
//
// xyz stride 3, uv stride 2, depth stride 1.
func ProjectPointsForward(cam Camera, xyz []Real, uv, depth []Real) {
	launch(len(depth), func(i int) {
		t := cam.View.MulPoint(vec3At(xyz, i*3))
		if t.Z <= nearPlane {
			return
		}
		iz := 1 / t.Z
		uv[i*2] = cam.Fx*t.X*iz + cam.Cx
		uv[i*2+1] = cam.Fy*t.Y*iz + cam.Cy
		depth[i] = t.Z
	})
}

// ProjectPointsBackward propagates uv and depth gradients back to the
// world-space points through the pinhole division and the view
// rotation. Culled primitives (depth == 0) are skipped.
func ProjectPointsBackward(cam Camera, xyz, depth []Real, dUV, dDepth []Real, dXYZ []Real) {
	Wt := cam.View.Rot3().Transpose()
	launch(len(depth), func(i int) {
		if depth[i] == 0 {
			return
		}
		t := cam.View.MulPoint(vec3At(xyz, i*3))
		iz := 1 / t.Z
		gu := dUV[i*2]
		gv := dUV[i*2+1]
		dt := Vec3{
			X: gu * cam.Fx * iz,
			Y: gv * cam.Fy * iz,
			Z: -(gu*cam.Fx*t.X+gv*cam.Fy*t.Y)*iz*iz + dDepth[i],
		}
		storeVec3(dXYZ, i*3, Wt.MulVec(dt))
	})
}
