//go:build poulpy_debug

package utils

// Debug enables the length and aliasing checks of the hot numeric kernels.
const Debug = true
