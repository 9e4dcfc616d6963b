package ntt120

import (
	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/ring"
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

// lift returns x mod q in [0, q).
func lift(x int64, q uint64, brc [2]uint64) uint64 {
	if x >= 0 {
		return ring.BRedAdd(uint64(x), q, brc)
	}
	if r := ring.BRedAdd(uint64(-x), q, brc); r != 0 {
		return q - r
	}
	return 0
}

func (m *Module) forward(res []uint64, a []int64) {
	t := m.table
	for i, x := range a {
		for p := range 4 {
			res[4*i+p] = lift(x, t.Q[p], t.brc[p])
		}
	}
	m.ntt.Forward(t, res)
}

// inverse evaluates the inverse transform of a in place and writes its centered
// reconstruction modulo Q on res as int128.
func (m *Module) inverse(res []uint64, a []uint64) {
	t := m.table
	m.ntt.Inverse(t, a)
	for i := range len(a) >> 2 {
		res[2*i], res[2*i+1] = t.Reconstruct([4]uint64(a[4*i : 4*i+4]))
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
			m.forward(res.At(resCol, k), a.At(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftInverseConsume sets res to the centered inverse transform of a. The limbs of a are overwritten.
func (m *Module) DftInverseConsume(res *hal.VecZnxBig, resCol int, a *hal.VecZnxDft, aCol int) {
	m.checkReady()
	m.checkBig(res)
	m.checkDft(a)
	for k := range res.Size {
		if k < a.Size {
			m.inverse(res.At(resCol, k), a.At(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// DftInverseTmpBytes returns the arena bytes needed by [Module.DftInverse].
func (m *Module) DftInverseTmpBytes() int {
	return hal.VecZnxDftBytes(m, 1, 1)
}

// DftInverse sets res to the centered inverse transform of a, leaving a untouched.
func (m *Module) DftInverse(res *hal.VecZnxBig, resCol int, a *hal.VecZnxDft, aCol int, scratch *hal.Scratch) {
	m.checkReady()
	m.checkBig(res)
	m.checkDft(a)
	tmp, _ := scratch.TakeUint64s(4 * m.N())
	for k := range res.Size {
		if k < a.Size {
			copy(tmp, a.At(aCol, k))
			m.inverse(res.At(resCol, k), tmp)
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// addMod evaluates res = a + b mod q for fully reduced operands.
func (m *Module) addMod(a, b, res []uint64) {
	Q := &m.table.Q
	for i := range res {
		x := a[i] + b[i]
		if q := Q[i&3]; x >= q {
			x -= q
		}
		res[i] = x
	}
}

// subMod evaluates res = a - b mod q for fully reduced operands. a is zero if nil.
func (m *Module) subMod(a, b, res []uint64) {
	Q := &m.table.Q
	for i := range res {
		q := Q[i&3]
		var x uint64
		if a != nil {
			x = a[i]
		}
		x += q - b[i]
		if x >= q {
			x -= q
		}
		res[i] = x
	}
}

// DftAdd evaluates res = a + b. Limbs present in only one operand are copied.
func (m *Module) DftAdd(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkReady()
	m.checkDft(res, a, b)
	for k := range res.Size {
		out := res.At(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			m.addMod(a.At(aCol, k), b.At(bCol, k), out)
		case k < a.Size:
			copy(out, a.At(aCol, k))
		case k < b.Size:
			copy(out, b.At(bCol, k))
		default:
			clear(out)
		}
	}
}

// DftAddInplace evaluates res = res + a on the common limbs.
func (m *Module) DftAddInplace(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int) {
	m.checkReady()
	m.checkDft(res, a)
	for k := range min(res.Size, a.Size) {
		out := res.At(resCol, k)
		m.addMod(out, a.At(aCol, k), out)
	}
}

// DftSub evaluates res = a - b. Limbs of a only are copied, limbs of b only are negated.
func (m *Module) DftSub(res *hal.VecZnxDft, resCol int, a *hal.VecZnxDft, aCol int, b *hal.VecZnxDft, bCol int) {
	m.checkReady()
	m.checkDft(res, a, b)
	for k := range res.Size {
		out := res.At(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			m.subMod(a.At(aCol, k), b.At(bCol, k), out)
		case k < a.Size:
			copy(out, a.At(aCol, k))
		case k < b.Size:
			m.subMod(nil, b.At(bCol, k), out)
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
			m.ntt.Mul(m.table, a.At(aCol, k), b.At(bCol, k), res.At(resCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}
