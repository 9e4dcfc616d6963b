package ntt120

import (
	"github.com/Pro7ech/poulpy/ring"
)

// kernelsUnrolled processes the 4 residues of a coefficient as one lane group.
type kernelsUnrolled struct{}

func (kernelsUnrolled) Name() string {
	return ring.KernelsNameUnrolled
}

func lanes(a []uint64, i int) *[4]uint64 {
	return (*[4]uint64)(a[4*i : 4*i+4])
}

func mulSplit4(x, w, ws *[4]uint64, h int) {
	x[0] = mulSplit(x[0], w[0], ws[0], h)
	x[1] = mulSplit(x[1], w[1], ws[1], h)
	x[2] = mulSplit(x[2], w[2], ws[2], h)
	x[3] = mulSplit(x[3], w[3], ws[3], h)
}

func lazyReduce4(x, r *[4]uint64, h int) {
	x[0] = lazyReduce(x[0], r[0], h)
	x[1] = lazyReduce(x[1], r[1], h)
	x[2] = lazyReduce(x[2], r[2], h)
	x[3] = lazyReduce(x[3], r[3], h)
}

func bred4(t *Table, x *[4]uint64) {
	x[0] = ring.BRedAdd(x[0], t.Q[0], t.brc[0])
	x[1] = ring.BRedAdd(x[1], t.Q[1], t.brc[1])
	x[2] = ring.BRedAdd(x[2], t.Q[2], t.brc[2])
	x[3] = ring.BRedAdd(x[3], t.Q[3], t.brc[3])
}

func (kernelsUnrolled) Forward(t *Table, a []uint64) {

	N := t.N

	for i := range N {
		mulSplit4(lanes(a, i), &t.twist[i].w, &t.twist[i].ws, t.twistH)
	}

	h := N
	for l, g := 0, 1; g < N; l, g = l+1, g<<1 {

		h >>= 1
		lv := &t.forward[l]

		if lv.reduce {
			for i := range N {
				lazyReduce4(lanes(a, i), &lv.red, lv.redH)
			}
		}

		K := &lv.k

		for i := range g {
			r := &t.roots[g+i]
			j1 := 2 * i * h
			for j := j1; j < j1+h; j++ {
				u, v := lanes(a, j), lanes(a, j+h)
				mulSplit4(v, &r.w, &r.ws, lv.mulH)
				u[0], v[0] = u[0]+v[0], u[0]+K[0]-v[0]
				u[1], v[1] = u[1]+v[1], u[1]+K[1]-v[1]
				u[2], v[2] = u[2]+v[2], u[2]+K[2]-v[2]
				u[3], v[3] = u[3]+v[3], u[3]+K[3]-v[3]
			}
		}
	}

	for i := range N {
		bred4(t, lanes(a, i))
	}
}

func (kernelsUnrolled) Inverse(t *Table, a []uint64) {

	N := t.N

	h := 1
	for l, g := 0, N>>1; g >= 1; l, g = l+1, g>>1 {

		lv := &t.inverse[l]

		if lv.reduce {
			for i := range N {
				lazyReduce4(lanes(a, i), &lv.red, lv.redH)
			}
		}

		K := &lv.k

		for i := range g {
			r := &t.rootsInv[g+i]
			j1 := 2 * i * h
			for j := j1; j < j1+h; j++ {
				u, v := lanes(a, j), lanes(a, j+h)
				u[0], v[0] = u[0]+v[0], u[0]+K[0]-v[0]
				u[1], v[1] = u[1]+v[1], u[1]+K[1]-v[1]
				u[2], v[2] = u[2]+v[2], u[2]+K[2]-v[2]
				u[3], v[3] = u[3]+v[3], u[3]+K[3]-v[3]
				mulSplit4(v, &r.w, &r.ws, lv.mulH)
			}
		}

		h <<= 1
	}

	for i := range N {
		x := lanes(a, i)
		mulSplit4(x, &t.untwist[i].w, &t.untwist[i].ws, t.untwistH)
		bred4(t, x)
	}
}

func (kernelsUnrolled) Mul(t *Table, a, b, res []uint64) {
	for i := range len(res) >> 2 {
		x, y, z := lanes(a, i), lanes(b, i), lanes(res, i)
		z[0] = x[0] * y[0]
		z[1] = x[1] * y[1]
		z[2] = x[2] * y[2]
		z[3] = x[3] * y[3]
		bred4(t, z)
	}
}

func (kernelsUnrolled) MulAddLazy(a, b, res []uint64) {
	for i := range len(res) >> 2 {
		x, y, z := lanes(a, i), lanes(b, i), lanes(res, i)
		z[0] += x[0] * y[0]
		z[1] += x[1] * y[1]
		z[2] += x[2] * y[2]
		z[3] += x[3] * y[3]
	}
}

func (kernelsUnrolled) Fold(t *Table, res []uint64) {
	for i := range len(res) >> 2 {
		bred4(t, lanes(res, i))
	}
}
