package ring

import (
	"fmt"

	"github.com/Pro7ech/poulpy/utils"
)

// Kernels is the set of raw-limb kernels the backends dispatch to.
// All slices of a call must have the same length unless stated otherwise.
// The output slice may alias one of the inputs.
//
// The normalization step kernels split x * 2^lsh into a signed base 2^basek
// digit and a carry, 0 <= lsh < basek, and add the incoming carry before
// extracting the digit of the current limb:
//
//	d = digit(x, basek-lsh) << lsh
//	c = (x - digit(x, basek-lsh)) >> (basek-lsh)
//	t = d + carry
//	res = digit(t, basek)
//	carry = c + (t - res) >> basek
type Kernels interface {
	Name() string

	Add(a, b, res []int64)
	AddInplace(a, res []int64)
	Sub(a, b, res []int64)
	// SubABInplace evaluates res = res - a.
	SubABInplace(a, res []int64)
	// SubBAInplace evaluates res = a - res.
	SubBAInplace(a, res []int64)
	Negate(a, res []int64)
	NegateInplace(res []int64)

	// NormalizeFirstStepCarryOnly sets carry to the carry of x without writing a digit.
	NormalizeFirstStepCarryOnly(basek, lsh int, x, carry []int64)
	// NormalizeMiddleStepCarryOnly updates carry with the carry of x + carry without writing a digit.
	NormalizeMiddleStepCarryOnly(basek, lsh int, x, carry []int64)
	// NormalizeFirstStep writes the digit of x and sets carry.
	NormalizeFirstStep(basek, lsh int, x, carry, res []int64)
	// NormalizeMiddleStep writes the digit of x + carry and updates carry.
	NormalizeMiddleStep(basek, lsh int, x, carry, res []int64)
	// NormalizeFinalStep writes the digit of x + carry and discards the outgoing carry.
	NormalizeFinalStep(basek, lsh int, x, carry, res []int64)

	// AddBitField evaluates acc += ((x >> start) & (2^width - 1)) << shl.
	AddBitField(start, width, shl int, x, acc []int64)
	// AddTopBits evaluates acc += (x >> start) << shl, keeping the sign of x.
	AddTopBits(start, shl int, x, acc []int64)

	// The int128 kernels operate on accumulators stored as interleaved [lo, hi]
	// pairs: x and carry have twice the length of res and a.

	AddInt128(a, b, res []uint64)
	// AddSmallInt128 evaluates res += a.
	AddSmallInt128(a []int64, res []uint64)
	// SubSmallInt128 evaluates res -= a.
	SubSmallInt128(a []int64, res []uint64)
	NormalizeInt128FirstStepCarryOnly(basek int, x, carry []uint64)
	NormalizeInt128MiddleStepCarryOnly(basek int, x, carry []uint64)
	NormalizeInt128FirstStep(basek int, x, carry []uint64, res []int64)
	NormalizeInt128MiddleStep(basek int, x, carry []uint64, res []int64)
	NormalizeInt128FinalStep(basek int, x, carry []uint64, res []int64)
}

const (
	// KernelsNameRef is the name of the scalar reference kernels.
	KernelsNameRef = "ref"
	// KernelsNameUnrolled is the name of the 8-way unrolled kernels.
	KernelsNameUnrolled = "unrolled"
)

// NewKernels returns the kernel set with the given name.
func NewKernels(name string) (Kernels, error) {
	switch name {
	case KernelsNameRef:
		return KernelsRef{}, nil
	case KernelsNameUnrolled:
		return KernelsUnrolled{}, nil
	default:
		return nil, fmt.Errorf("invalid kernels: %q, must be %q or %q", name, KernelsNameRef, KernelsNameUnrolled)
	}
}

// Digit returns the sign extension of the basek least significant bits of x,
// that is a value in [-2^(basek-1), 2^(basek-1)) congruent to x mod 2^basek.
// basek must be in [1, 63].
func Digit(x int64, basek int) int64 {
	return (x << (64 - basek)) >> (64 - basek)
}

// Carry returns (x - digit) >> basek with an arithmetic shift.
func Carry(x, digit int64, basek int) int64 {
	return (x - digit) >> basek
}

// splitLsh returns the digit of x * 2^lsh on basek bits and its carry.
func splitLsh(x int64, basek, lsh int) (d, c int64) {
	bl := basek - lsh
	d = Digit(x, bl)
	c = (x - d) >> bl
	return d << lsh, c
}

func checkNormalizeParameters(basek, lsh int) {
	if basek < 1 || basek > 63 {
		panic(fmt.Errorf("invalid basek: %d not in [1, 63]", basek))
	}
	if lsh < 0 || lsh >= basek {
		panic(fmt.Errorf("invalid lsh: %d not in [0, basek=%d)", lsh, basek))
	}
}

func checkLen[T any](n int, s ...[]T) {
	if utils.Debug {
		for i := range s {
			if len(s[i]) != n {
				panic(fmt.Errorf("invalid slice length: %d != %d", len(s[i]), n))
			}
		}
	}
}
