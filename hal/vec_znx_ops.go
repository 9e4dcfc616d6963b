package hal

import (
	"fmt"

	"github.com/Pro7ech/poulpy/ring"
)

// VecZnxAdd evaluates res = a + b limb by limb. Limbs present in only one
// operand are copied and the remaining limbs of res are zeroed.
func (m *Base) VecZnxAdd(res *VecZnx, resCol int, a *VecZnx, aCol int, b *VecZnx, bCol int) {
	m.CheckN(res, a, b)
	for k := range res.Size {
		out := res.At(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			m.kernels.Add(a.At(aCol, k), b.At(bCol, k), out)
		case k < a.Size:
			copy(out, a.At(aCol, k))
		case k < b.Size:
			copy(out, b.At(bCol, k))
		default:
			clear(out)
		}
	}
}

// VecZnxAddInplace evaluates res = res + a on the common limbs.
func (m *Base) VecZnxAddInplace(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	for k := range min(res.Size, a.Size) {
		m.kernels.AddInplace(a.At(aCol, k), res.At(resCol, k))
	}
}

// VecZnxSub evaluates res = a - b limb by limb. Limbs of a only are copied,
// limbs of b only are negated and the remaining limbs of res are zeroed.
func (m *Base) VecZnxSub(res *VecZnx, resCol int, a *VecZnx, aCol int, b *VecZnx, bCol int) {
	m.CheckN(res, a, b)
	for k := range res.Size {
		out := res.At(resCol, k)
		switch {
		case k < a.Size && k < b.Size:
			m.kernels.Sub(a.At(aCol, k), b.At(bCol, k), out)
		case k < a.Size:
			copy(out, a.At(aCol, k))
		case k < b.Size:
			m.kernels.Negate(b.At(bCol, k), out)
		default:
			clear(out)
		}
	}
}

// VecZnxSubABInplace evaluates res = res - a on the common limbs.
func (m *Base) VecZnxSubABInplace(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	for k := range min(res.Size, a.Size) {
		m.kernels.SubABInplace(a.At(aCol, k), res.At(resCol, k))
	}
}

// VecZnxSubBAInplace evaluates res = a - res.
func (m *Base) VecZnxSubBAInplace(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	for k := range res.Size {
		if k < a.Size {
			m.kernels.SubBAInplace(a.At(aCol, k), res.At(resCol, k))
		} else {
			m.kernels.NegateInplace(res.At(resCol, k))
		}
	}
}

// VecZnxNegate evaluates res = -a and zeroes the limbs of res beyond a.Size.
func (m *Base) VecZnxNegate(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	for k := range res.Size {
		if k < a.Size {
			m.kernels.Negate(a.At(aCol, k), res.At(resCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// VecZnxNegateInplace evaluates a = -a.
func (m *Base) VecZnxNegateInplace(a *VecZnx, aCol int) {
	m.CheckN(a)
	for k := range a.Size {
		m.kernels.NegateInplace(a.At(aCol, k))
	}
}

// VecZnxCopy copies a on res and zeroes the limbs of res beyond a.Size.
func (m *Base) VecZnxCopy(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	for k := range res.Size {
		if k < a.Size {
			copy(res.At(resCol, k), a.At(aCol, k))
		} else {
			clear(res.At(resCol, k))
		}
	}
}

// VecZnxZero zeroes the live limbs of the given column.
func (m *Base) VecZnxZero(a *VecZnx, aCol int) {
	for k := range a.Size {
		clear(a.At(aCol, k))
	}
}

// VecZnxRotate evaluates res = X^k * a mod X^N+1. res and a must not share a column.
func (m *Base) VecZnxRotate(k int64, res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	if sameColumn(res, resCol, a, aCol) {
		panic(fmt.Errorf("invalid VecZnxRotate: res and a share the same column, use VecZnxRotateInplace"))
	}
	for l := range res.Size {
		if l < a.Size {
			ring.Rotate(k, a.At(aCol, l), res.At(resCol, l))
		} else {
			clear(res.At(resCol, l))
		}
	}
}

// VecZnxRotateInplaceTmpBytes returns the arena bytes needed by [Base.VecZnxRotateInplace].
func (m *Base) VecZnxRotateInplaceTmpBytes() int {
	return bytesOf(m.n)
}

// VecZnxRotateInplace evaluates a = X^k * a mod X^N+1.
func (m *Base) VecZnxRotateInplace(k int64, a *VecZnx, aCol int, scratch *Scratch) {
	m.CheckN(a)
	tmp, _ := scratch.TakeInt64s(m.n)
	for l := range a.Size {
		ring.Rotate(k, a.At(aCol, l), tmp)
		copy(a.At(aCol, l), tmp)
	}
}

// VecZnxAutomorphism evaluates res(X) = a(X^p) mod X^N+1 for an odd p.
// res and a must not share a column.
func (m *Base) VecZnxAutomorphism(p int64, res *VecZnx, resCol int, a *VecZnx, aCol int) {
	m.CheckN(res, a)
	if sameColumn(res, resCol, a, aCol) {
		panic(fmt.Errorf("invalid VecZnxAutomorphism: res and a share the same column, use VecZnxAutomorphismInplace"))
	}
	for l := range res.Size {
		if l < a.Size {
			ring.Automorphism(p, a.At(aCol, l), res.At(resCol, l))
		} else {
			clear(res.At(resCol, l))
		}
	}
}

// VecZnxAutomorphismInplaceTmpBytes returns the arena bytes needed by [Base.VecZnxAutomorphismInplace].
func (m *Base) VecZnxAutomorphismInplaceTmpBytes() int {
	return bytesOf(m.n)
}

// VecZnxAutomorphismInplace evaluates a(X) = a(X^p) mod X^N+1 for an odd p.
func (m *Base) VecZnxAutomorphismInplace(p int64, a *VecZnx, aCol int, scratch *Scratch) {
	m.CheckN(a)
	tmp, _ := scratch.TakeInt64s(m.n)
	for l := range a.Size {
		ring.Automorphism(p, a.At(aCol, l), tmp)
		copy(a.At(aCol, l), tmp)
	}
}

// VecZnxSwitchDegree maps a onto the ring degree of res: coefficients are
// subsampled when res.N < a.N and spread with zeros when res.N > a.N.
// Either degree can differ from the degree of the receiver.
func (m *Base) VecZnxSwitchDegree(res *VecZnx, resCol int, a *VecZnx, aCol int) {
	for l := range res.Size {
		out := res.At(resCol, l)
		if l >= a.Size {
			clear(out)
			continue
		}
		in := a.At(aCol, l)
		switch {
		case res.N == a.N:
			copy(out, in)
		case res.N < a.N:
			gap := a.N / res.N
			for j := range out {
				out[j] = in[j*gap]
			}
		default:
			gap := res.N / a.N
			clear(out)
			for j := range in {
				out[j*gap] = in[j]
			}
		}
	}
}

// VecZnxSplitTmpBytes returns the arena bytes needed by [Base.VecZnxSplit].
func (m *Base) VecZnxSplitTmpBytes() int {
	return bytesOf(m.n)
}

// VecZnxSplit splits a into len(res) vectors of degree N/len(res) such that
// res[i]_j = a_{len(res)*j+i}: block i is a rotated by X^-i, then subsampled.
func (m *Base) VecZnxSplit(res []*VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch) {
	m.CheckN(a)
	k := len(res)
	if k == 0 || m.n%k != 0 {
		panic(fmt.Errorf("invalid VecZnxSplit: cannot split N=%d into %d", m.n, k))
	}
	for i := range res {
		if res[i].N*k != m.n {
			panic(fmt.Errorf("invalid VecZnxSplit: res[%d].N=%d != N/%d", i, res[i].N, k))
		}
	}

	tmp, _ := scratch.TakeInt64s(m.n)

	for i, r := range res {
		for l := range r.Size {
			out := r.At(resCol, l)
			if l >= a.Size {
				clear(out)
				continue
			}
			ring.Rotate(-int64(i), a.At(aCol, l), tmp)
			for j := range out {
				out[j] = tmp[j*k]
			}
		}
	}
}

// VecZnxMerge is the inverse of [Base.VecZnxSplit]: res = sum_i X^i * a[i](X^len(a)).
func (m *Base) VecZnxMerge(res *VecZnx, resCol int, a []*VecZnx, aCol int) {
	m.CheckN(res)
	k := len(a)
	if k == 0 || m.n%k != 0 {
		panic(fmt.Errorf("invalid VecZnxMerge: cannot merge %d into N=%d", k, m.n))
	}
	for i := range a {
		if a[i].N*k != m.n {
			panic(fmt.Errorf("invalid VecZnxMerge: a[%d].N=%d != N/%d", i, a[i].N, k))
		}
	}

	for l := range res.Size {
		out := res.At(resCol, l)
		clear(out)
		for i, ai := range a {
			if l >= ai.Size {
				continue
			}
			in := ai.At(aCol, l)
			for j := range in {
				out[j*k+i] = in[j]
			}
		}
	}
}
