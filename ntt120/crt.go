package ntt120

import (
	"math/bits"

	"github.com/Pro7ech/poulpy/ring"
)

func add128(a, b [2]uint64) (r [2]uint64) {
	var c uint64
	r[0], c = bits.Add64(a[0], b[0], 0)
	r[1], _ = bits.Add64(a[1], b[1], c)
	return
}

func sub128(a, b [2]uint64) (r [2]uint64) {
	var c uint64
	r[0], c = bits.Sub64(a[0], b[0], 0)
	r[1], _ = bits.Sub64(a[1], b[1], c)
	return
}

func less128(a, b [2]uint64) bool {
	return a[1] < b[1] || (a[1] == b[1] && a[0] < b[0])
}

// mul128 returns a * y modulo 2^128.
func mul128(a [2]uint64, y uint64) (r [2]uint64) {
	var c uint64
	c, r[0] = bits.Mul64(a[0], y)
	r[1] = a[1]*y + c
	return
}

// Reconstruct returns the unique x in (-Q/2, Q/2] congruent to r[k] modulo
// the k-th prime, as a two's complement int128 [lo, hi].
func (t *Table) Reconstruct(r [4]uint64) (lo, hi uint64) {

	c := &t.crt

	// x = sum y_k * Q/q_k - v * Q with y_k = r_k * (Q/q_k)^-1 mod q_k
	// and v = floor(sum y_k / q_k)
	var acc [2]uint64
	var est float64
	for k, q := range t.Q {
		y := ring.MulMod(r[k]%q, c.inv[k], q)
		acc = add128(acc, mul128(c.qHat[k], y))
		est += float64(y) * c.qInv[k]
	}

	v := mul128(c.bigQ, uint64(est))
	if less128(acc, v) {
		v = sub128(v, c.bigQ)
	}

	x := sub128(acc, v)
	if !less128(x, c.bigQ) {
		x = sub128(x, c.bigQ)
	}

	if less128(c.halfQ, x) {
		x = sub128(x, c.bigQ)
	}

	return x[0], x[1]
}
