// Package sampling implements a seedable pseudo-random source
// backed by the BLAKE2b extendable output function.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	rand2 "math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Source is a deterministic stream of pseudo-random bytes keyed by a 32 byte seed.
// It implements [io.Reader] and the [rand2.Source] interface so that it can be
// wrapped with rand.New to access derived distributions.
// A Source must not be used concurrently.
type Source struct {
	seed [32]byte
	xof  blake2b.XOF
	buf  [1024]byte
	ptr  int
}

// NewSeed returns a fresh seed read from crypto/rand.
func NewSeed() (seed [32]byte) {
	if _, err := rand.Read(seed[:]); err != nil {
		panic(fmt.Errorf("crypto/rand.Read: %w", err))
	}
	return
}

// NewSource instantiates a new [Source] keyed with the given seed.
func NewSource(seed [32]byte) *Source {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, seed[:])

	// Only returns an error if the key is longer than 64 bytes.
	if err != nil {
		panic(fmt.Errorf("blake2b.NewXOF: %w", err))
	}

	s := &Source{seed: seed, xof: xof}
	s.refill()
	return s
}

// Seed returns the seed of the source.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// NewSeed draws a seed from the stream of s.
func (s *Source) NewSeed() (seed [32]byte) {
	s.read(seed[:])
	return
}

// NewSource returns a new [Source] keyed with a seed drawn from s.
func (s *Source) NewSource() *Source {
	return NewSource(s.NewSeed())
}

// Reset rewinds the source to the start of its stream.
func (s *Source) Reset() {
	s.xof.Reset()
	s.refill()
}

func (s *Source) refill() {
	if _, err := s.xof.Read(s.buf[:]); err != nil {
		panic(fmt.Errorf("blake2b.XOF.Read: %w", err))
	}
	s.ptr = 0
}

func (s *Source) read(p []byte) {
	for len(p) > 0 {
		if s.ptr == len(s.buf) {
			s.refill()
		}
		n := copy(p, s.buf[s.ptr:])
		s.ptr += n
		p = p[n:]
	}
}

// Read fills p with pseudo-random bytes. It never returns an error.
func (s *Source) Read(p []byte) (n int, err error) {
	s.read(p)
	return len(p), nil
}

// Uint64 returns a uniform uint64.
func (s *Source) Uint64() uint64 {
	if s.ptr+8 > len(s.buf) {
		s.refill()
	}
	x := binary.LittleEndian.Uint64(s.buf[s.ptr:])
	s.ptr += 8
	return x
}

// Uint64N returns a uniform value in [0, n) using rejection sampling.
// Panics if n is zero.
func (s *Source) Uint64N(n uint64) uint64 {

	if n == 0 {
		panic(fmt.Errorf("invalid bound: n must be greater than zero"))
	}

	if n&(n-1) == 0 {
		return s.Uint64() & (n - 1)
	}

	mask := uint64(1)<<bits.Len64(n) - 1
	for {
		if x := s.Uint64() & mask; x < n {
			return x
		}
	}
}

// Int64Range returns a uniform value in [min, max].
func (s *Source) Int64Range(min, max int64) int64 {
	if min > max {
		panic(fmt.Errorf("invalid range: min=%d > max=%d", min, max))
	}
	span := uint64(max - min)
	if span == math.MaxUint64 {
		return int64(s.Uint64())
	}
	return min + int64(s.Uint64N(span+1))
}

// Float64 returns a uniform float64 in [min, max).
func (s *Source) Float64(min, max float64) float64 {
	return min + (max-min)*float64(s.Uint64()>>11)/(1<<53)
}

// NormFloat64 returns a float64 distributed as N(0, 1).
func (s *Source) NormFloat64() float64 {
	/* #nosec G404: Source is a keyed XOF */
	return rand2.New(s).NormFloat64()
}
