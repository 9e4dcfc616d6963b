package fft64

import (
	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/utils"
)

// SvpPrepare sets the given column of res to the transform of the given column of a.
func (m *Module) SvpPrepare(res *hal.SvpPPol, resCol int, a *hal.ScalarZnx, aCol int) {
	m.checkReady()
	res.CheckCompatible(m)
	m.CheckN(a.AsVecZnx())
	m.forward(utils.Float64s(res.At(resCol)), a.At(aCol))
}

// SvpApply evaluates res = a * b for every limb of b and zeroes the limbs of res beyond b.Size.
func (m *Module) SvpApply(res *hal.VecZnxDft, resCol int, a *hal.SvpPPol, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkReady()
	m.checkDft(res, b)
	a.CheckCompatible(m)
	aRe, aIm := m.reim(utils.Float64s(a.At(aCol)))
	for k := range res.Size {
		if k < b.Size {
			bRe, bIm := m.reim(b.AtFloat64(bCol, k))
			resRe, resIm := m.reim(res.AtFloat64(resCol, k))
			m.fft.Mul(aRe, aIm, bRe, bIm, resRe, resIm)
		} else {
			clear(res.At(resCol, k))
		}
	}
}
