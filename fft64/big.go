package fft64

import (
	"github.com/Pro7ech/poulpy/hal"
)

// The coefficients of a [hal.VecZnxBig] are plain int64 on this backend,
// so the big operations are the coefficient-domain ones on a [hal.VecZnx] view.

// BigAdd evaluates res = a + b.
func (m *Module) BigAdd(res *hal.VecZnxBig, resCol int, a *hal.VecZnxBig, aCol int, b *hal.VecZnxBig, bCol int) {
	m.checkBig(res, a, b)
	m.VecZnxAdd(res.AsVecZnx(), resCol, a.AsVecZnx(), aCol, b.AsVecZnx(), bCol)
}

// BigAddInplace evaluates res = res + a.
func (m *Module) BigAddInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnxBig, aCol int) {
	m.checkBig(res, a)
	m.VecZnxAddInplace(res.AsVecZnx(), resCol, a.AsVecZnx(), aCol)
}

// BigAddSmallInplace evaluates res = res + a.
func (m *Module) BigAddSmallInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnx, aCol int) {
	m.checkBig(res)
	m.VecZnxAddInplace(res.AsVecZnx(), resCol, a, aCol)
}

// BigSubSmallInplace evaluates res = res - a.
func (m *Module) BigSubSmallInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnx, aCol int) {
	m.checkBig(res)
	m.VecZnxSubABInplace(res.AsVecZnx(), resCol, a, aCol)
}

// BigNormalizeTmpBytes returns the arena bytes needed by [Module.BigNormalize].
func (m *Module) BigNormalizeTmpBytes(aSize int) int {
	return m.VecZnxNormalizeBase2kTmpBytes(aSize)
}

// BigNormalize normalizes a, whose limbs are in base 2^aBasek, into res in base 2^resBasek.
func (m *Module) BigNormalize(resBasek int, res *hal.VecZnx, resCol int, aBasek int, a *hal.VecZnxBig, aCol int, scratch *hal.Scratch) {
	m.checkBig(a)
	m.VecZnxNormalizeBase2k(resBasek, res, resCol, aBasek, a.AsVecZnx(), aCol, 0, scratch)
}
