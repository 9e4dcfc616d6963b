package ntt120

import (
	"github.com/Pro7ech/poulpy/hal"
)

// SvpPrepare sets the given column of res to the transform of the given column of a.
func (m *Module) SvpPrepare(res *hal.SvpPPol, resCol int, a *hal.ScalarZnx, aCol int) {
	m.checkReady()
	res.CheckCompatible(m)
	m.CheckN(a.AsVecZnx())
	m.forward(res.At(resCol), a.At(aCol))
}

// SvpApply evaluates res = a * b for every limb of b and zeroes the limbs of res beyond b.Size.
func (m *Module) SvpApply(res *hal.VecZnxDft, resCol int, a *hal.SvpPPol, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkReady()
	m.checkDft(res, b)
	a.CheckCompatible(m)
	x := a.At(aCol)
	for k := range res.Size {
		if k < b.Size {
			m.ntt.Mul(m.table, x, b.At(bCol, k), res.At(resCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}
