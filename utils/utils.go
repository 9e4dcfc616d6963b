// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// IsPowerOfTwo returns true if x is a strictly positive power of two.
func IsPowerOfTwo[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns floor(log2(x)) for x > 0.
func Log2[T constraints.Integer](x T) int {
	return bits.Len64(uint64(x)) - 1
}

// DivCeil returns ceil(a/b) for a >= 0 and b > 0.
func DivCeil[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}

// DivFloor returns floor(a/b) for b > 0, also for negative a.
func DivFloor[T constraints.Signed](a, b T) T {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}

// AlignUp rounds x up to the next multiple of align, which must be a power of two.
func AlignUp[T constraints.Integer](x, align T) T {
	return (x + align - 1) &^ (align - 1)
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64[T constraints.Integer](index T, bitLen int) T {
	if bitLen == 0 {
		return 0
	}
	return T(bits.Reverse64(uint64(index)) >> (64 - bitLen))
}

// SameStart returns true if x and y start at the same address.
func SameStart[V any](x, y []V) bool {
	return len(x) > 0 && len(y) > 0 && &x[0] == &y[0]
}
