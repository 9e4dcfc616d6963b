// Package ring implements the raw-limb kernels operating on the coefficients of
// polynomials modulo X^N+1 stored as signed base 2^basek digits, and the modular
// arithmetic helpers used by the exact transform.
package ring

import (
	"fmt"
	"math/bits"
)

// BRedConstant returns floor(2^128 / q) as [hi, lo].
func BRedConstant(q uint64) (constant [2]uint64) {
	// 2^128 / q = (2^128 - 1) / q unless q is a power of two
	hi, r := bits.Div64(0, ^uint64(0), q)
	lo, _ := bits.Div64(r, ^uint64(0), q)
	if q&(q-1) == 0 {
		lo++
		if lo == 0 {
			hi++
		}
	}
	return [2]uint64{hi, lo}
}

// BRedAdd returns x mod q for any x in [0, 2^64).
func BRedAdd(x, q uint64, brc [2]uint64) (r uint64) {
	s0, _ := bits.Mul64(x, brc[0])
	r = x - s0*q
	if r >= q {
		r -= q
	}
	return
}

// MulMod returns x * y mod q for x, y < q.
func MulMod(x, y, q uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, r := bits.Div64(hi, lo, q)
	return r
}

// ModExp returns x^e mod q.
func ModExp(x, e, q uint64) (y uint64) {
	y = 1 % q
	x %= q
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			y = MulMod(y, x, q)
		}
		x = MulMod(x, x, q)
	}
	return
}

// ModInverse returns x^-1 mod q for q prime.
func ModInverse(x, q uint64) uint64 {
	if x%q == 0 {
		panic(fmt.Errorf("invalid x: %d is not invertible mod %d", x, q))
	}
	return ModExp(x, q-2, q)
}

// IsPrime applies a deterministic Miller-Rabin test on x.
func IsPrime(x uint64) bool {

	if x < 2 {
		return false
	}

	witnesses := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

	for _, p := range witnesses {
		if x%p == 0 {
			return x == p
		}
	}

	d := x - 1
	s := bits.TrailingZeros64(d)
	d >>= s

	for _, a := range witnesses {

		y := ModExp(a, d, x)

		if y == 1 || y == x-1 {
			continue
		}

		composite := true
		for r := 1; r < s; r++ {
			if y = MulMod(y, y, x); y == x-1 {
				composite = false
				break
			}
		}

		if composite {
			return false
		}
	}

	return true
}

// Factors returns the unique prime factors of m by trial division.
func Factors(m uint64) (factors []uint64) {
	for p := uint64(2); p*p <= m; p++ {
		if m%p == 0 {
			factors = append(factors, p)
			for m%p == 0 {
				m /= p
			}
		}
	}
	if m > 1 {
		factors = append(factors, m)
	}
	return
}

// PrimitiveRoot computes the smallest primitive root of the given prime q.
// The unique factors of q-1 can be given to skip the factorization.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {
		factors = Factors(q - 1)
	}

	for g := uint64(2); g < q; g++ {
		if CheckPrimitiveRoot(g, q, factors) == nil {
			return g, factors, nil
		}
	}

	return 0, factors, fmt.Errorf("no primitive root found for q=%d", q)
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	for _, factor := range factors {

		if !IsPrime(factor) {
			return fmt.Errorf("composite factor")
		}

		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list")
	}

	return
}

// CheckPrimitiveRoot checks that g is a valid primitive root mod q,
// given the factors of q-1.
func CheckPrimitiveRoot(g, q uint64, factors []uint64) (err error) {

	if err = CheckFactors(q-1, factors); err != nil {
		return
	}

	for _, factor := range factors {
		if ModExp(g, (q-1)/factor, q) == 1 {
			return fmt.Errorf("invalid primitive root")
		}
	}

	return
}

// NthRoot returns a primitive nth root of unity mod q, with n dividing q-1.
func NthRoot(q, n uint64, factors []uint64) (psi uint64, err error) {

	if (q-1)%n != 0 {
		return 0, fmt.Errorf("invalid modulus: %d != 1 mod %d", q, n)
	}

	var g uint64
	if g, _, err = PrimitiveRoot(q, factors); err != nil {
		return
	}

	return ModExp(g, (q-1)/n, q), nil
}
