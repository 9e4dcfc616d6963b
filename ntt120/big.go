package ntt120

import (
	"github.com/Pro7ech/poulpy/hal"
)

// The coefficients of a [hal.VecZnxBig] are int128 stored as [lo, hi] pairs.

// BigAdd evaluates res = a + b. Limbs present in only one operand are copied.
func (m *Module) BigAdd(res *hal.VecZnxBig, resCol int, a *hal.VecZnxBig, aCol int, b *hal.VecZnxBig, bCol int) {
	m.checkBig(res, a, b)
	k := m.Kernels()
	for l := range res.Size {
		out := res.At(resCol, l)
		switch {
		case l < a.Size && l < b.Size:
			k.AddInt128(a.At(aCol, l), b.At(bCol, l), out)
		case l < a.Size:
			copy(out, a.At(aCol, l))
		case l < b.Size:
			copy(out, b.At(bCol, l))
		default:
			clear(out)
		}
	}
}

// BigAddInplace evaluates res = res + a on the common limbs.
func (m *Module) BigAddInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnxBig, aCol int) {
	m.checkBig(res, a)
	k := m.Kernels()
	for l := range min(res.Size, a.Size) {
		out := res.At(resCol, l)
		k.AddInt128(out, a.At(aCol, l), out)
	}
}

// BigAddSmallInplace evaluates res = res + a on the common limbs.
func (m *Module) BigAddSmallInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnx, aCol int) {
	m.checkBig(res)
	m.CheckN(a)
	k := m.Kernels()
	for l := range min(res.Size, a.Size) {
		k.AddSmallInt128(a.At(aCol, l), res.At(resCol, l))
	}
}

// BigSubSmallInplace evaluates res = res - a on the common limbs.
func (m *Module) BigSubSmallInplace(res *hal.VecZnxBig, resCol int, a *hal.VecZnx, aCol int) {
	m.checkBig(res)
	m.CheckN(a)
	k := m.Kernels()
	for l := range min(res.Size, a.Size) {
		k.SubSmallInt128(a.At(aCol, l), res.At(resCol, l))
	}
}

// BigNormalizeTmpBytes returns the arena bytes needed by [Module.BigNormalize].
func (m *Module) BigNormalizeTmpBytes(aSize int) int {
	return hal.VecZnxBytes(m.N(), 1, aSize) + 2*hal.VecZnxBigBytes(m, 1, 1) + m.VecZnxNormalizeBase2kTmpBytes(aSize)
}

// BigNormalize normalizes a, whose limbs are in base 2^aBasek, into res in base 2^resBasek.
// The int128 limbs are first carried at aBasek, then moved to resBasek if the bases differ.
func (m *Module) BigNormalize(resBasek int, res *hal.VecZnx, resCol int, aBasek int, a *hal.VecZnxBig, aCol int, scratch *hal.Scratch) {

	m.checkBig(a)
	m.CheckN(res)

	if resBasek == aBasek {
		m.normalizeInt128(aBasek, res, resCol, a, aCol, scratch)
		return
	}

	tmp, rem := scratch.TakeVecZnx(m.N(), 1, a.Size)
	m.normalizeInt128(aBasek, tmp, 0, a, aCol, rem)
	m.VecZnxNormalizeBase2k(resBasek, res, resCol, aBasek, tmp, 0, 0, rem)
}

// normalizeInt128 propagates the int128 carries of a from its last limb up to
// limb 0. Limbs at or beyond res.Size only update the carry.
func (m *Module) normalizeInt128(basek int, res *hal.VecZnx, resCol int, a *hal.VecZnxBig, aCol int, scratch *hal.Scratch) {

	zero, rem := scratch.TakeUint64s(2 * m.N())
	carry, _ := rem.TakeUint64s(2 * m.N())
	clear(zero)

	k := m.Kernels()
	first := true

	for i := max(res.Size, a.Size) - 1; i >= 0; i-- {

		x := zero
		if i < a.Size {
			x = a.At(aCol, i)
		}

		if i >= res.Size {
			if first {
				k.NormalizeInt128FirstStepCarryOnly(basek, x, carry)
			} else {
				k.NormalizeInt128MiddleStepCarryOnly(basek, x, carry)
			}
			first = false
			continue
		}

		out := res.At(resCol, i)

		switch {
		case first && i == 0:
			clear(carry)
			k.NormalizeInt128FinalStep(basek, x, carry, out)
		case first:
			k.NormalizeInt128FirstStep(basek, x, carry, out)
		case i == 0:
			k.NormalizeInt128FinalStep(basek, x, carry, out)
		default:
			k.NormalizeInt128MiddleStep(basek, x, carry, out)
		}

		first = false
	}
}
