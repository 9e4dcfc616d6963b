package ring

import (
	"math/bits"
)

// Accumulators wider than 64 bits are stored as two's complement
// int128 values, as interleaved [lo, hi] pairs of uint64.

func add128(alo, ahi, blo, bhi uint64) (lo, hi uint64) {
	var c uint64
	lo, c = bits.Add64(alo, blo, 0)
	hi, _ = bits.Add64(ahi, bhi, c)
	return
}

func sub128(alo, ahi, blo, bhi uint64) (lo, hi uint64) {
	var b uint64
	lo, b = bits.Sub64(alo, blo, 0)
	hi, _ = bits.Sub64(ahi, bhi, b)
	return
}

// sra128 returns (lo, hi) >> s with an arithmetic shift, s in [1, 63].
func sra128(lo, hi uint64, s int) (uint64, uint64) {
	return lo>>s | hi<<(64-s), uint64(int64(hi) >> s)
}

// signExtend returns x as an int128.
func signExtend(x int64) (lo, hi uint64) {
	return uint64(x), uint64(x >> 63)
}

// split128 returns the digit of x on basek bits and the int128 carry (x - digit) >> basek.
func split128(lo, hi uint64, basek int) (d int64, clo, chi uint64) {
	d = Digit(int64(lo), basek)
	dlo, dhi := signExtend(d)
	rlo, rhi := sub128(lo, hi, dlo, dhi)
	clo, chi = sra128(rlo, rhi, basek)
	return
}

// step128 adds the carry to the digit of x, then returns the new digit and outgoing carry.
func step128(xlo, xhi, clo, chi uint64, basek int) (u int64, olo, ohi uint64) {
	d, c0lo, c0hi := split128(xlo, xhi, basek)
	dlo, dhi := signExtend(d)
	tlo, thi := add128(dlo, dhi, clo, chi)
	u, c1lo, c1hi := split128(tlo, thi, basek)
	olo, ohi = add128(c0lo, c0hi, c1lo, c1hi)
	return
}

func (KernelsRef) AddInt128(a, b, res []uint64) {
	checkLen(len(res), a, b)
	for i := 0; i < len(res); i += 2 {
		res[i], res[i+1] = add128(a[i], a[i+1], b[i], b[i+1])
	}
}

func (KernelsRef) AddSmallInt128(a []int64, res []uint64) {
	checkLen(len(res)>>1, a)
	for i := range a {
		alo, ahi := signExtend(a[i])
		res[2*i], res[2*i+1] = add128(res[2*i], res[2*i+1], alo, ahi)
	}
}

func (KernelsRef) SubSmallInt128(a []int64, res []uint64) {
	checkLen(len(res)>>1, a)
	for i := range a {
		alo, ahi := signExtend(a[i])
		res[2*i], res[2*i+1] = sub128(res[2*i], res[2*i+1], alo, ahi)
	}
}

func (KernelsRef) NormalizeInt128FirstStepCarryOnly(basek int, x, carry []uint64) {
	checkNormalizeParameters(basek, 0)
	checkLen(len(carry), x)
	for i := 0; i < len(carry); i += 2 {
		_, carry[i], carry[i+1] = split128(x[i], x[i+1], basek)
	}
}

func (KernelsRef) NormalizeInt128MiddleStepCarryOnly(basek int, x, carry []uint64) {
	checkNormalizeParameters(basek, 0)
	checkLen(len(carry), x)
	for i := 0; i < len(carry); i += 2 {
		_, carry[i], carry[i+1] = step128(x[i], x[i+1], carry[i], carry[i+1], basek)
	}
}

func (KernelsRef) NormalizeInt128FirstStep(basek int, x, carry []uint64, res []int64) {
	checkNormalizeParameters(basek, 0)
	checkLen(len(x), carry)
	checkLen(len(x)>>1, res)
	for i := range res {
		res[i], carry[2*i], carry[2*i+1] = split128(x[2*i], x[2*i+1], basek)
	}
}

func (KernelsRef) NormalizeInt128MiddleStep(basek int, x, carry []uint64, res []int64) {
	checkNormalizeParameters(basek, 0)
	checkLen(len(x), carry)
	checkLen(len(x)>>1, res)
	for i := range res {
		res[i], carry[2*i], carry[2*i+1] = step128(x[2*i], x[2*i+1], carry[2*i], carry[2*i+1], basek)
	}
}

func (KernelsRef) NormalizeInt128FinalStep(basek int, x, carry []uint64, res []int64) {
	checkNormalizeParameters(basek, 0)
	checkLen(len(x), carry)
	checkLen(len(x)>>1, res)
	for i := range res {
		// only the low word of x + carry determines the digit
		res[i] = Digit(int64(x[2*i]+carry[2*i]), basek)
	}
}
