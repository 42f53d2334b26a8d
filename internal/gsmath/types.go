package gsmath

type Real = float32

// Quat is an orientation quaternion, scalar part first (w,x,y,z).
// No method normalizes it; callers own the unit-norm contract.
type Quat struct {
	W, X, Y, Z Real
}

// RGB stores one color or color gradient component per channel.
type RGB struct {
	R, G, B Real
}

func (c RGB) Add(d RGB) RGB        { return RGB{c.R + d.R, c.G + d.G, c.B + d.B} }
func (c RGB) Sub(d RGB) RGB        { return RGB{c.R - d.R, c.G - d.G, c.B - d.B} }
func (c RGB) Scale(s Real) RGB     { return RGB{c.R * s, c.G * s, c.B * s} }
func (c RGB) AddScalar(s Real) RGB { return RGB{c.R + s, c.G + s, c.B + s} }

// Dot treats both colors as plain 3-vectors.
func (c RGB) Dot(d RGB) Real { return c.R*d.R + c.G*d.G + c.B*d.B }

// clamp01 clamps each channel to [0,1] (for image output).
func (c RGB) clamp01() RGB {
	cl := func(x Real) Real {
		if x < 0 {
			return 0
		}
		if x > 1 {
			return 1
		}
		return x
	}
	return RGB{cl(c.R), cl(c.G), cl(c.B)}
}
