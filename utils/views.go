package utils

import (
	"unsafe"
)

// Int64s reinterprets a []uint64 as a []int64 sharing the same backing array.
func Int64s(x []uint64) []int64 {
	if len(x) == 0 {
		return nil
	}
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return unsafe.Slice((*int64)(unsafe.Pointer(&x[0])), len(x))
}

// Uint64s reinterprets a []int64 as a []uint64 sharing the same backing array.
func Uint64s(x []int64) []uint64 {
	if len(x) == 0 {
		return nil
	}
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return unsafe.Slice((*uint64)(unsafe.Pointer(&x[0])), len(x))
}

// Float64s reinterprets a []uint64 as a []float64 sharing the same backing array.
func Float64s(x []uint64) []float64 {
	if len(x) == 0 {
		return nil
	}
	/* #nosec G103 -- behavior and consequences well understood, pointer type cast */
	return unsafe.Slice((*float64)(unsafe.Pointer(&x[0])), len(x))
}
