// Package ntt120 implements the exact backend: polynomials modulo X^N+1 are
// mapped to their residues modulo four primes of 30 bits, whose product Q has
// 120 bits, and transformed with a negacyclic number theoretic transform.
// Butterflies are evaluated lazily on uint64 words following a bound schedule
// computed when the tables are built.
package ntt120

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/poulpy/ring"
	"github.com/Pro7ech/poulpy/utils"
)

// Primes are the four moduli, all congruent to 1 modulo 2^17 and in [2^29, 2^30).
var Primes = [4]uint64{0x3ffc0001, 0x3fde0001, 0x3fd20001, 0x3fac0001}

const (
	// LogQ is the bit size of each prime.
	LogQ = 30
	// MaxLogN is the largest supported log2 of the ring degree.
	MaxLogN = 16
	// maxBound is the maximum bit size of any value handled by the butterflies.
	maxBound = 63
)

// splitConst is a constant w with its companion w * 2^h mod q, for each prime.
type splitConst struct {
	w, ws [4]uint64
}

// level is one step of the bound schedule of a transform.
type level struct {
	// reduce is true if the inputs of the level are lazily reduced first.
	reduce bool
	// redH is the split of the lazy reduction and red holds 2^redH mod q.
	redH int
	red  [4]uint64
	// mulH is the split of the twiddle multiplication.
	mulH int
	// k holds q * 2^kShift, which bounds the subtracted operand.
	kShift int
	k      [4]uint64
	// in and out are the bit bounds of the inputs (after reduction) and outputs,
	// mid the bound of the intermediate a + K - b of the inverse butterfly.
	in, mid, out int
}

// Table stores the schedules and the precomputed constants of the transform of ring degree N.
type Table struct {
	N    int
	LogN int
	Q    [4]uint64
	Psi  [4]uint64

	brc [4][2]uint64

	twistH   int
	untwistH int

	twist   []splitConst // psi^i
	untwist []splitConst // psi^-i * N^-1

	// twiddles of group i at the level with g groups are stored at index g+i
	roots    []splitConst
	rootsInv []splitConst

	forward []level // in processing order
	inverse []level // in processing order

	crt crtConstants
}

// ceilHalf returns ceil(b/2).
func ceilHalf(b int) int {
	return (b + 1) >> 1
}

// mulOut returns the bit bound of mulSplit on an input of b bits.
func mulOut(b int) int {
	return ceilHalf(b) + LogQ + 1
}

// reducedBound returns the split and the output bound of the lazy reduction
// of an input of b bits.
func reducedBound(b int) (h, out int) {
	h = ceilHalf(b + LogQ)
	return h, h + 1
}

// forwardOut returns the bit bound of the outputs (a + v, a + K - v) of a
// forward butterfly with inputs of b bits.
func forwardOut(b int) int {
	return max(b, mulOut(b)+1) + 1
}

// inverseOut returns the bit bound of the intermediate a + K - b and of the
// outputs (a + b, (a + K - b) * w) of an inverse butterfly with inputs of b bits.
func inverseOut(b int) (mid, out int) {
	mid = b + 2
	return mid, max(b+1, mulOut(mid))
}

// NewTable builds the tables for the ring degree N, which must be a power of two in [2, 2^MaxLogN].
func NewTable(N int) (t *Table, err error) {

	if N < 2 || !utils.IsPowerOfTwo(N) || N > 1<<MaxLogN {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be a power of two in [2, 2^%d]", N, MaxLogN)
	}

	t = &Table{
		N:        N,
		LogN:     utils.Log2(N),
		Q:        Primes,
		twist:    make([]splitConst, N),
		untwist:  make([]splitConst, N),
		roots:    make([]splitConst, N),
		rootsInv: make([]splitConst, N),
	}

	t.buildSchedules()

	for p, q := range t.Q {

		if !ring.IsPrime(q) {
			return nil, fmt.Errorf("invalid modulus: %d is not prime", q)
		}

		t.brc[p] = ring.BRedConstant(q)

		if t.Psi[p], err = ring.NthRoot(q, uint64(2*N), nil); err != nil {
			return nil, err
		}

		t.buildRoots(p)
	}

	t.crt = newCRTConstants(t.Q)

	return
}

// buildSchedules simulates the bit bounds of both transforms and inserts a
// lazy reduction before every level whose values would exceed maxBound bits.
func (t *Table) buildSchedules() {

	// forward: residues in [0, q), then the twist
	b := LogQ
	t.twistH = ceilHalf(b)
	b = mulOut(b)

	t.forward = make([]level, t.LogN)
	for i := range t.forward {
		lv := &t.forward[i]
		if forwardOut(b) > maxBound {
			lv.reduce = true
			lv.redH, b = reducedBound(b)
		}
		lv.in = b
		lv.mulH = ceilHalf(b)
		lv.kShift = mulOut(b) - (LogQ - 1)
		lv.out = forwardOut(b)
		lv.mid = lv.out
		b = lv.out
	}

	// inverse: fully reduced residues
	b = LogQ
	t.inverse = make([]level, t.LogN)
	for i := range t.inverse {
		lv := &t.inverse[i]
		if mid, out := inverseOut(b); mid > maxBound || out > maxBound {
			lv.reduce = true
			lv.redH, b = reducedBound(b)
		}
		lv.in = b
		lv.mid, lv.out = inverseOut(b)
		lv.mulH = ceilHalf(lv.mid)
		lv.kShift = b - (LogQ - 1)
		b = lv.out
	}

	t.untwistH = ceilHalf(b)
}

func (c *splitConst) set(p int, w uint64, h int, q uint64) {
	c.w[p] = w
	c.ws[p] = ring.MulMod(w, ring.ModExp(2, uint64(h), q), q)
}

// buildRoots fills the constants of the p-th prime.
func (t *Table) buildRoots(p int) {

	N := t.N
	q := t.Q[p]
	psi := t.Psi[p]

	psiInv := ring.ModInverse(psi, q)
	nInv := ring.ModInverse(uint64(N), q)

	for i := range N {
		t.twist[i].set(p, ring.ModExp(psi, uint64(i), q), t.twistH, q)
		t.untwist[i].set(p, ring.MulMod(ring.ModExp(psiInv, uint64(i), q), nInv, q), t.untwistH, q)
	}

	// group i at the level with g groups uses the 2g-th root of unity
	// psi^(N/g) raised to bitrev(i).
	for l := range t.LogN {
		g := 1 << l
		for i := range g {
			e := uint64(N/g) * utils.BitReverse64(uint64(i), l)
			t.roots[g+i].set(p, ring.ModExp(psi, e, q), t.forward[l].mulH, q)
			t.rootsInv[g+i].set(p, ring.ModExp(psiInv, e, q), t.inverse[t.LogN-1-l].mulH, q)
		}
	}

	for _, lv := range []*[]level{&t.forward, &t.inverse} {
		for i := range *lv {
			x := &(*lv)[i]
			x.k[p] = q << x.kShift
			if x.reduce {
				x.red[p] = ring.ModExp(2, uint64(x.redH), q)
			}
		}
	}
}

// Bounds returns the bit bounds of every level of the forward and inverse
// schedules, as [in, mid, out] triplets.
func (t *Table) Bounds() (forward, inverse [][3]int) {
	for _, lv := range t.forward {
		forward = append(forward, [3]int{lv.in, lv.mid, lv.out})
	}
	for _, lv := range t.inverse {
		inverse = append(inverse, [3]int{lv.in, lv.mid, lv.out})
	}
	return
}

// mulSplit returns a value congruent to x * w modulo q, for x < 2^(2h) and
// ws = w * 2^h mod q. The result is smaller than 2^(h+31).
func mulSplit(x, w, ws uint64, h int) uint64 {
	return (x&(1<<h-1))*w + (x>>h)*ws
}

// lazyReduce returns a value congruent to x modulo q smaller than 2^(h+1),
// with r = 2^h mod q.
func lazyReduce(x, r uint64, h int) uint64 {
	return x&(1<<h-1) + (x>>h)*r
}

// crtConstants are the constants of the reconstruction modulo Q.
type crtConstants struct {
	// inv[k] = (Q/q_k)^-1 mod q_k
	inv [4]uint64
	// qHat[k] = Q/q_k as [lo, hi]
	qHat [4][2]uint64
	// bigQ = Q and halfQ = floor(Q/2) as [lo, hi]
	bigQ, halfQ [2]uint64
	// qInv[k] = 1/q_k
	qInv [4]float64
}

func newCRTConstants(primes [4]uint64) (c crtConstants) {

	Q := big.NewInt(1)
	for _, q := range primes {
		Q.Mul(Q, new(big.Int).SetUint64(q))
	}

	words := func(x *big.Int) (w [2]uint64) {
		lo := new(big.Int).And(x, new(big.Int).SetUint64(^uint64(0)))
		w[0] = lo.Uint64()
		w[1] = new(big.Int).Rsh(x, 64).Uint64()
		return
	}

	for k, q := range primes {
		bq := new(big.Int).SetUint64(q)
		qHat := new(big.Int).Quo(Q, bq)
		c.qHat[k] = words(qHat)
		c.inv[k] = new(big.Int).ModInverse(new(big.Int).Mod(qHat, bq), bq).Uint64()
		c.qInv[k] = 1 / float64(q)
	}

	c.bigQ = words(Q)
	c.halfQ = words(new(big.Int).Rsh(Q, 1))

	return
}
