//go:build !poulpy_debug

package utils

// Debug enables the length and aliasing checks of the hot numeric kernels.
// It is turned on with the poulpy_debug build tag.
const Debug = false
