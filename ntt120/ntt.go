package ntt120

import (
	"fmt"

	"github.com/Pro7ech/poulpy/ring"
)

// kernels are the transform-domain kernels on limbs of N coefficients of 4
// residues each, stored coefficient-major: residue p of coefficient i is at 4*i+p.
// Every implementation evaluates the same operations on the same values.
type kernels interface {
	Name() string
	// Forward evaluates the twisted NTT of a in place. Inputs must be fully
	// reduced, outputs are fully reduced.
	Forward(t *Table, a []uint64)
	// Inverse evaluates the scaled and untwisted inverse NTT of a in place.
	// Inputs must be fully reduced, outputs are fully reduced.
	Inverse(t *Table, a []uint64)
	// Mul evaluates res = a * b, fully reduced.
	Mul(t *Table, a, b, res []uint64)
	// MulAddLazy evaluates res += a * b without reduction.
	MulAddLazy(a, b, res []uint64)
	// Fold reduces res fully.
	Fold(t *Table, res []uint64)
}

func newKernels(name string) (kernels, error) {
	switch name {
	case ring.KernelsNameRef:
		return kernelsRef{}, nil
	case ring.KernelsNameUnrolled:
		return kernelsUnrolled{}, nil
	default:
		return nil, fmt.Errorf("invalid kernels: %q", name)
	}
}

// kernelsRef processes one prime at a time.
type kernelsRef struct{}

func (kernelsRef) Name() string {
	return ring.KernelsNameRef
}

func (kernelsRef) Forward(t *Table, a []uint64) {

	N := t.N

	for p := range 4 {

		for i := range N {
			a[4*i+p] = mulSplit(a[4*i+p], t.twist[i].w[p], t.twist[i].ws[p], t.twistH)
		}

		h := N
		for l, g := 0, 1; g < N; l, g = l+1, g<<1 {

			h >>= 1
			lv := &t.forward[l]

			if lv.reduce {
				for i := range N {
					a[4*i+p] = lazyReduce(a[4*i+p], lv.red[p], lv.redH)
				}
			}

			K := lv.k[p]

			for i := range g {
				w, ws := t.roots[g+i].w[p], t.roots[g+i].ws[p]
				j1 := 2 * i * h
				for j := j1; j < j1+h; j++ {
					u := a[4*j+p]
					v := mulSplit(a[4*(j+h)+p], w, ws, lv.mulH)
					a[4*j+p] = u + v
					a[4*(j+h)+p] = u + K - v
				}
			}
		}

		q, brc := t.Q[p], t.brc[p]
		for i := range N {
			a[4*i+p] = ring.BRedAdd(a[4*i+p], q, brc)
		}
	}
}

func (kernelsRef) Inverse(t *Table, a []uint64) {

	N := t.N

	for p := range 4 {

		h := 1
		for l, g := 0, N>>1; g >= 1; l, g = l+1, g>>1 {

			lv := &t.inverse[l]

			if lv.reduce {
				for i := range N {
					a[4*i+p] = lazyReduce(a[4*i+p], lv.red[p], lv.redH)
				}
			}

			K := lv.k[p]

			for i := range g {
				w, ws := t.rootsInv[g+i].w[p], t.rootsInv[g+i].ws[p]
				j1 := 2 * i * h
				for j := j1; j < j1+h; j++ {
					u, v := a[4*j+p], a[4*(j+h)+p]
					a[4*j+p] = u + v
					a[4*(j+h)+p] = mulSplit(u+K-v, w, ws, lv.mulH)
				}
			}

			h <<= 1
		}

		q, brc := t.Q[p], t.brc[p]
		for i := range N {
			a[4*i+p] = ring.BRedAdd(mulSplit(a[4*i+p], t.untwist[i].w[p], t.untwist[i].ws[p], t.untwistH), q, brc)
		}
	}
}

func (kernelsRef) Mul(t *Table, a, b, res []uint64) {
	for p := range 4 {
		q, brc := t.Q[p], t.brc[p]
		for i := p; i < len(res); i += 4 {
			res[i] = ring.BRedAdd(a[i]*b[i], q, brc)
		}
	}
}

func (kernelsRef) MulAddLazy(a, b, res []uint64) {
	for i := range res {
		res[i] += a[i] * b[i]
	}
}

func (kernelsRef) Fold(t *Table, res []uint64) {
	for p := range 4 {
		q, brc := t.Q[p], t.brc[p]
		for i := p; i < len(res); i += 4 {
			res[i] = ring.BRedAdd(res[i], q, brc)
		}
	}
}
