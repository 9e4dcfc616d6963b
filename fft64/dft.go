package fft64

import (
	"math"

	"github.com/Pro7ech/poulpy/hal"
)

func (m *Module) checkDft(vs ...*hal.VecZnxDft) {
	for _, v := range vs {
		v.CheckCompatible(m)
	}
}

func (m *Module) checkBig(vs ...*hal.VecZnxBig) {
	for _, v := range vs {
		v.CheckCompatible(m)
	}
}

// reim splits a transform-domain limb into its real and imaginary halves.
func (m *Module) reim(x []float64) ([]float64, []float64) {
	M := m.table.M
	return x[:M], x[M:]
}

func (m *Module) forward(res []float64, a []int64) {
	for i, x := range a {
		res[i] = float64(x)
	}
	re, im := m.reim(res)
	m.fft.Forward(m.table, re, im)
}

// inverse evaluates the inverse transform of a in place and rounds it on res.
func (m *Module) inverse(res []int64, a []float64) {
	re, im := m.reim(a)
	m.fft.Inverse(m.table, re, im)
	for i, x := range a {
		res[i] = int64(math.Round(x))
	}
}

// DftForward sets the first min(res.Size, a.Size) limbs of res to the
// transform of the limbs of a and zeroes the remaining limbs of res.
func (m *Module) DftForward(res *hal.VecZnxDft, resCol int, a *hal.VecZnx, aCol int) {
	m.checkReady()
	m.checkDft(res)
	m.CheckN(a)
	for k := range res.Size {
		if k < a.Size {
			m.forward(res.AtFloat64(resCol, k), a.At(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftInverseConsume sets res to the rounded inverse transform of a. The limbs of a are overwritten.
func (m *Module) DftInverseConsume(res *hal.VecZnxBig, resCol int, a *hal.VecZnxDft, aCol int) {
	m.checkReady()
	m.checkBig(res)
	m.checkDft(a)
	for k := range res.Size {
		if k < a.Size {
			m.inverse(res.AtInt64(resCol, k), a.AtFloat64(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftInverseTmpBytes returns the arena bytes needed by [Module.DftInverse].
func (m *Module) DftInverseTmpBytes() int {
	return hal.VecZnxDftBytes(m, 1, 1)
}

// DftInverse sets res to the rounded inverse transform of a, leaving a untouched.
func (m *Module) DftInverse(res *hal.VecZnxBig, resCol int, a *hal.VecZnxDft, aCol int, scratch *hal.Scratch) {
	m.checkReady()
	m.checkBig(res)
	m.checkDft(a)
	tmp, _ := scratch.TakeFloat64s(m.N())
	for k := range res.Size {
		if k < a.Size {
			copy(tmp, a.AtFloat64(aCol, k))
			m.inverse(res.AtInt64(resCol, k), tmp)
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftAdd evaluates res = a + b. Limbs present in only one operand are copied.
func (m *Module) DftAdd(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkDft(res, a, b)
	for k := range res.Size {
		out := res.AtFloat64(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			x, y := a.AtFloat64(aCol, k), b.AtFloat64(bCol, k)
			for i := range out {
				out[i] = x[i] + y[i]
			}
		case k < a.Size:
			copy(out, a.AtFloat64(aCol, k))
		case k < b.Size:
			copy(out, b.AtFloat64(bCol, k))
		default:
			clear(out)
		}
	}
}

// DftAddInplace evaluates res = res + a on the common limbs.
func (m *Module) DftAddInplace(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int) {
	m.checkDft(res, a)
	for k := range min(res.Size, a.Size) {
		out, x := res.AtFloat64(resCol, k), a.AtFloat64(aCol, k)
		for i := range out {
			out[i] += x[i]
		}
	}
}

// DftSub evaluates res = a - b. Limbs of a only are copied, limbs of b only are negated.
func (m *Module) DftSub(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkDft(res, a, b)
	for k := range res.Size {
		out := res.AtFloat64(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			x, y := a.AtFloat64(aCol, k), b.AtFloat64(bCol, k)
			for i := range out {
				out[i] = x[i] - y[i]
			}
		case k < a.Size:
			copy(out, a.AtFloat64(aCol, k))
		case k < b.Size:
			y := b.AtFloat64(bCol, k)
			for i := range out {
				out[i] = -y[i]
			}
		default:
			clear(out)
		}
	}
}

// DftCopy copies a on res and zeroes the limbs of res beyond a.Size.
func (m *Module) DftCopy(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int) {
	m.checkDft(res, a)
	for k := range res.Size {
		if k < a.Size {
			copy(res.At(resCol, k), a.At(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftZero zeroes the live limbs of the given column.
func (m *Module) DftZero(res *hal.VecZnxDft, resCol int) {
	for k := range res.Size {
		clear(res.At(resCol, k))
	}
}

// DftMul evaluates res = a * b pointwise on the common limbs and zeroes the other limbs of res.
func (m *Module) DftMul(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkReady()
	m.checkDft(res, a, b)
	for k := range res.Size {
		if k < a.Size && k < b.Size {
			aRe, aIm := m.reim(a.AtFloat64(aCol, k))
			bRe, bIm := m.reim(b.AtFloat64(bCol, k))
			resRe, resIm := m.reim(res.AtFloat64(resCol, k))
			m.fft.Mul(aRe, aIm, bRe, bIm, resRe, resIm)
		} else {
			clear(res.At(resCol, k))
		}
	}
}
