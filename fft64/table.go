// Package fft64 implements the floating-point backend: polynomials modulo
// X^N+1 are mapped to their evaluations at N/2 primitive 2N-th roots of unity
// with a complex FFT of size N/2, in double precision.
package fft64

import (
	"fmt"
	"math"

	"github.com/Pro7ech/poulpy/utils"
)

// Table stores the precomputed roots of the transform of ring degree N.
//
// A limb a of degree N is folded into c_k = a_k + i*a_{k+N/2} for k < N/2,
// twisted by zeta^k with zeta = exp(i*pi/N) and fed to a cyclic FFT of size
// N/2 with natural order input and bit-reversed order output. Its image is
// stored in the reim layout: the N/2 real parts followed by the N/2 imaginary parts.
type Table struct {
	N int
	M int

	twistRe, twistIm     []float64 // zeta^k
	untwistRe, untwistIm []float64 // zeta^-k / M

	// twiddles of group i at the level with g groups are stored at index g+i
	rootsRe, rootsIm       []float64
	rootsInvRe, rootsInvIm []float64
}

// NewTable builds the tables for the ring degree N, which must be a power of two greater than one.
func NewTable(N int) (t *Table) {

	if N < 2 || !utils.IsPowerOfTwo(N) {
		panic(fmt.Errorf("invalid ring degree: N=%d must be a power of two greater than one", N))
	}

	M := N >> 1

	t = &Table{
		N:          N,
		M:          M,
		twistRe:    make([]float64, M),
		twistIm:    make([]float64, M),
		untwistRe:  make([]float64, M),
		untwistIm:  make([]float64, M),
		rootsRe:    make([]float64, M),
		rootsIm:    make([]float64, M),
		rootsInvRe: make([]float64, M),
		rootsInvIm: make([]float64, M),
	}

	scale := 1 / float64(M)

	for k := range M {
		sin, cos := math.Sincos(math.Pi * float64(k) / float64(N))
		t.twistRe[k], t.twistIm[k] = cos, sin
		t.untwistRe[k], t.untwistIm[k] = cos*scale, -sin*scale
	}

	// group i at the level with g groups reduces modulo X^{M/g} - omega^e
	// with e = bitrev(i)*M/g, its twiddle is omega^{e/2} = exp(i*pi*bitrev(i)/g).
	for g := 1; g < M; g <<= 1 {
		logg := utils.Log2(g)
		for i := range g {
			sin, cos := math.Sincos(math.Pi * float64(utils.BitReverse64(i, logg)) / float64(g))
			t.rootsRe[g+i], t.rootsIm[g+i] = cos, sin
			t.rootsInvRe[g+i], t.rootsInvIm[g+i] = cos, -sin
		}
	}

	return
}

// cmul returns (ar + i*ai) * (br + i*bi). The explicit conversions
// forbid fused multiply-adds so that all kernels round identically.
func cmul(ar, ai, br, bi float64) (float64, float64) {
	return float64(ar*br) - float64(ai*bi), float64(ar*bi) + float64(ai*br)
}
