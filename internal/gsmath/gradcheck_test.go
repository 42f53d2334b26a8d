package gsmath

import (
	"math"
	"math/rand"
	"testing"
)

// numGrad computes a central finite difference of the float64 loss f
// w.r.t. a single float32 input scalar.
func numGrad(f func() float64, x *Real, h float64) float64 {
	old := *x
	*x = Real(float64(old) + h)
	fp := f()
	*x = Real(float64(old) - h)
	fm := f()
	*x = old
	return (fp - fm) / (2 * h)
}

// checkGrad compares an analytic gradient block against its finite
// differences. The tolerance scales with the largest magnitude in the
// block: the forward passes run in float32, so the difference quotient
// carries rounding noise proportional to the value scale.
func checkGrad(t *testing.T, name string, got []Real, want []float64) {
	t.Helper()
	scale := 1.0
	for _, w := range want {
		if a := math.Abs(w); a > scale {
			scale = a
		}
	}
	for i := range got {
		g := float64(got[i])
		w := want[i]
		if math.Abs(g-w) > 1e-3*scale+1e-2*math.Abs(w) {
			t.Fatalf("%s[%d]: analytic %.6g vs numeric %.6g (scale %.3g)", name, i, g, w, scale)
		}
	}
}

func randUnitVec(rng *rand.Rand) Vec3 {
	for {
		v := Vec3{randNormal(rng), randNormal(rng), randNormal(rng)}
		if v.Len() > 1e-6 {
			return v.Norm()
		}
	}
}

// probeLoss folds an output buffer into a scalar with fixed random
// weights, accumulating in float64.
func probeLoss(out []Real, probe []float64) float64 {
	sum := 0.0
	for i := range out {
		sum += float64(out[i]) * probe[i]
	}
	return sum
}

func randProbe(rng *rand.Rand, n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 0.5 + rng.Float64()
	}
	return p
}

func allTrue(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}
