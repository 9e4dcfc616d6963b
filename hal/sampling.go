package hal

import (
	"fmt"
	"math"

	"github.com/Pro7ech/poulpy/ring"
)

// Source is the pseudo-random source consumed by the sampling operations.
// It is implemented by the Source of package utils/sampling.
type Source interface {
	Uint64() uint64
	NormFloat64() float64
}

// VecZnxFillUniform sets every digit of the given column of a to a uniform
// value in [-2^(basek-1), 2^(basek-1)).
func (m *Base) VecZnxFillUniform(basek int, a *VecZnx, aCol int, source Source) {
	m.CheckN(a)
	checkBasek(basek)
	for l := range a.Size {
		out := a.At(aCol, l)
		for i := range out {
			out[i] = ring.Digit(int64(source.Uint64()), basek)
		}
	}
}

// VecZnxFillNormal zeroes the given column of a and adds Gaussian noise to it.
// See [Base.VecZnxAddNormal].
func (m *Base) VecZnxFillNormal(basek int, a *VecZnx, aCol int, k int, source Source, sigma, bound float64) {
	m.VecZnxZero(a, aCol)
	m.VecZnxAddNormal(basek, a, aCol, k, source, sigma, bound)
}

// VecZnxAddNormal adds e * 2^-k to every coefficient of the given column of a,
// where e is sampled from a centered Gaussian of standard deviation sigma,
// rejected above bound and rounded to the nearest integer.
// A zero bound or sigma adds nothing. The result is not normalized.
func (m *Base) VecZnxAddNormal(basek int, a *VecZnx, aCol int, k int, source Source, sigma, bound float64) {
	m.CheckN(a)

	if bound < 0 || math.IsNaN(bound) || math.Log2(bound) >= 63 {
		panic(fmt.Errorf("invalid bound: %f must satisfy 0 <= bound < 2^63", bound))
	}

	if bound == 0 || sigma == 0 {
		return
	}

	limbs, kRem := encodingLayout(basek, k, a.Size)

	out := a.At(aCol, limbs-1)
	for i := range out {
		var e float64
		for {
			if e = sigma * source.NormFloat64(); math.Abs(e) <= bound {
				break
			}
		}
		out[i] += int64(math.Round(e)) << kRem
	}
}
