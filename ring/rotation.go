package ring

import (
	"fmt"
)

// Rotate evaluates res = X^k * a mod X^N+1, with N = len(a) a power of two.
// k can be negative. res and a must not overlap.
func Rotate(k int64, a, res []int64) {

	N := len(a)
	checkLen(N, res)

	k &= int64(2*N - 1)

	if k < int64(N) {
		s := int(k)
		copy(res[s:], a[:N-s])
		for i := 0; i < s; i++ {
			res[i] = -a[N-s+i]
		}
	} else {
		s := int(k) - N
		for i := s; i < N; i++ {
			res[i] = -a[i-s]
		}
		copy(res[:s], a[N-s:])
	}
}

// Automorphism evaluates res(X) = a(X^p) mod X^N+1, with N = len(a) a power of two.
// p must be odd. res and a must not overlap.
func Automorphism(p int64, a, res []int64) {

	if p&1 == 0 {
		panic(fmt.Errorf("invalid automorphism: p=%d must be odd", p))
	}

	N := len(a)
	checkLen(N, res)

	mask := uint64(2*N - 1)
	pu := uint64(p) & mask

	var j uint64
	for i := 0; i < N; i++ {
		if j < uint64(N) {
			res[j] = a[i]
		} else {
			res[j-uint64(N)] = -a[i]
		}
		j = (j + pu) & mask
	}
}
