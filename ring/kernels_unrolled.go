package ring

import (
	"unsafe"
)

// KernelsUnrolled implements [Kernels] with the inner loops unrolled by 8 on
// fixed-size array views, and a scalar tail for the remaining coefficients.
// It produces outputs identical to [KernelsRef]. The int128 kernels are
// inherited from [KernelsRef].
type KernelsUnrolled struct {
	KernelsRef
}

// Name returns the name of the kernel set.
func (KernelsUnrolled) Name() string {
	return KernelsNameUnrolled
}

func (KernelsUnrolled) Add(a, b, res []int64) {
	checkLen(len(res), a, b)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		y := (*[8]int64)(unsafe.Pointer(&b[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] = x[0] + y[0]
		z[1] = x[1] + y[1]
		z[2] = x[2] + y[2]
		z[3] = x[3] + y[3]
		z[4] = x[4] + y[4]
		z[5] = x[5] + y[5]
		z[6] = x[6] + y[6]
		z[7] = x[7] + y[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = a[j] + b[j]
	}
}

func (KernelsUnrolled) AddInplace(a, res []int64) {
	checkLen(len(res), a)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] += x[0]
		z[1] += x[1]
		z[2] += x[2]
		z[3] += x[3]
		z[4] += x[4]
		z[5] += x[5]
		z[6] += x[6]
		z[7] += x[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] += a[j]
	}
}

func (KernelsUnrolled) Sub(a, b, res []int64) {
	checkLen(len(res), a, b)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		y := (*[8]int64)(unsafe.Pointer(&b[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] = x[0] - y[0]
		z[1] = x[1] - y[1]
		z[2] = x[2] - y[2]
		z[3] = x[3] - y[3]
		z[4] = x[4] - y[4]
		z[5] = x[5] - y[5]
		z[6] = x[6] - y[6]
		z[7] = x[7] - y[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = a[j] - b[j]
	}
}

func (KernelsUnrolled) SubABInplace(a, res []int64) {
	checkLen(len(res), a)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] -= x[0]
		z[1] -= x[1]
		z[2] -= x[2]
		z[3] -= x[3]
		z[4] -= x[4]
		z[5] -= x[5]
		z[6] -= x[6]
		z[7] -= x[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] -= a[j]
	}
}

func (KernelsUnrolled) SubBAInplace(a, res []int64) {
	checkLen(len(res), a)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] = x[0] - z[0]
		z[1] = x[1] - z[1]
		z[2] = x[2] - z[2]
		z[3] = x[3] - z[3]
		z[4] = x[4] - z[4]
		z[5] = x[5] - z[5]
		z[6] = x[6] - z[6]
		z[7] = x[7] - z[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = a[j] - res[j]
	}
}

func (KernelsUnrolled) Negate(a, res []int64) {
	checkLen(len(res), a)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		x := (*[8]int64)(unsafe.Pointer(&a[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] = -x[0]
		z[1] = -x[1]
		z[2] = -x[2]
		z[3] = -x[3]
		z[4] = -x[4]
		z[5] = -x[5]
		z[6] = -x[6]
		z[7] = -x[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = -a[j]
	}
}

func (KernelsUnrolled) NegateInplace(res []int64) {
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		z := (*[8]int64)(unsafe.Pointer(&res[j]))

		z[0] = -z[0]
		z[1] = -z[1]
		z[2] = -z[2]
		z[3] = -z[3]
		z[4] = -z[4]
		z[5] = -z[5]
		z[6] = -z[6]
		z[7] = -z[7]
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = -res[j]
	}
}

func (KernelsUnrolled) NormalizeFirstStepCarryOnly(basek, lsh int, x, carry []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(carry), x)
	N := len(carry)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		cc := (*[8]int64)(unsafe.Pointer(&carry[j]))

		_, cc[0] = splitLsh(xx[0], basek, lsh)
		_, cc[1] = splitLsh(xx[1], basek, lsh)
		_, cc[2] = splitLsh(xx[2], basek, lsh)
		_, cc[3] = splitLsh(xx[3], basek, lsh)
		_, cc[4] = splitLsh(xx[4], basek, lsh)
		_, cc[5] = splitLsh(xx[5], basek, lsh)
		_, cc[6] = splitLsh(xx[6], basek, lsh)
		_, cc[7] = splitLsh(xx[7], basek, lsh)
	}

	for j := N - (N & 7); j < N; j++ {
		_, carry[j] = splitLsh(x[j], basek, lsh)
	}
}

func (KernelsUnrolled) NormalizeMiddleStepCarryOnly(basek, lsh int, x, carry []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(carry), x)
	N := len(carry)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		cc := (*[8]int64)(unsafe.Pointer(&carry[j]))

		cc[0] = middleCarry(xx[0], cc[0], basek, lsh)
		cc[1] = middleCarry(xx[1], cc[1], basek, lsh)
		cc[2] = middleCarry(xx[2], cc[2], basek, lsh)
		cc[3] = middleCarry(xx[3], cc[3], basek, lsh)
		cc[4] = middleCarry(xx[4], cc[4], basek, lsh)
		cc[5] = middleCarry(xx[5], cc[5], basek, lsh)
		cc[6] = middleCarry(xx[6], cc[6], basek, lsh)
		cc[7] = middleCarry(xx[7], cc[7], basek, lsh)
	}

	for j := N - (N & 7); j < N; j++ {
		carry[j] = middleCarry(x[j], carry[j], basek, lsh)
	}
}

func (KernelsUnrolled) NormalizeFirstStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		cc := (*[8]int64)(unsafe.Pointer(&carry[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		zz := (*[8]int64)(unsafe.Pointer(&res[j]))

		zz[0], cc[0] = splitLsh(xx[0], basek, lsh)
		zz[1], cc[1] = splitLsh(xx[1], basek, lsh)
		zz[2], cc[2] = splitLsh(xx[2], basek, lsh)
		zz[3], cc[3] = splitLsh(xx[3], basek, lsh)
		zz[4], cc[4] = splitLsh(xx[4], basek, lsh)
		zz[5], cc[5] = splitLsh(xx[5], basek, lsh)
		zz[6], cc[6] = splitLsh(xx[6], basek, lsh)
		zz[7], cc[7] = splitLsh(xx[7], basek, lsh)
	}

	for j := N - (N & 7); j < N; j++ {
		res[j], carry[j] = splitLsh(x[j], basek, lsh)
	}
}

func (KernelsUnrolled) NormalizeMiddleStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		cc := (*[8]int64)(unsafe.Pointer(&carry[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		zz := (*[8]int64)(unsafe.Pointer(&res[j]))

		zz[0], cc[0] = middleStep(xx[0], cc[0], basek, lsh)
		zz[1], cc[1] = middleStep(xx[1], cc[1], basek, lsh)
		zz[2], cc[2] = middleStep(xx[2], cc[2], basek, lsh)
		zz[3], cc[3] = middleStep(xx[3], cc[3], basek, lsh)
		zz[4], cc[4] = middleStep(xx[4], cc[4], basek, lsh)
		zz[5], cc[5] = middleStep(xx[5], cc[5], basek, lsh)
		zz[6], cc[6] = middleStep(xx[6], cc[6], basek, lsh)
		zz[7], cc[7] = middleStep(xx[7], cc[7], basek, lsh)
	}

	for j := N - (N & 7); j < N; j++ {
		res[j], carry[j] = middleStep(x[j], carry[j], basek, lsh)
	}
}

func (KernelsUnrolled) NormalizeFinalStep(basek, lsh int, x, carry, res []int64) {
	checkNormalizeParameters(basek, lsh)
	checkLen(len(res), x, carry)
	N := len(res)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		cc := (*[8]int64)(unsafe.Pointer(&carry[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		zz := (*[8]int64)(unsafe.Pointer(&res[j]))

		zz[0] = finalStep(xx[0], cc[0], basek, lsh)
		zz[1] = finalStep(xx[1], cc[1], basek, lsh)
		zz[2] = finalStep(xx[2], cc[2], basek, lsh)
		zz[3] = finalStep(xx[3], cc[3], basek, lsh)
		zz[4] = finalStep(xx[4], cc[4], basek, lsh)
		zz[5] = finalStep(xx[5], cc[5], basek, lsh)
		zz[6] = finalStep(xx[6], cc[6], basek, lsh)
		zz[7] = finalStep(xx[7], cc[7], basek, lsh)
	}

	for j := N - (N & 7); j < N; j++ {
		res[j] = finalStep(x[j], carry[j], basek, lsh)
	}
}

func (KernelsUnrolled) AddBitField(start, width, shl int, x, acc []int64) {
	checkLen(len(acc), x)
	N := len(acc)
	mask := int64(1)<<width - 1
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		zz := (*[8]int64)(unsafe.Pointer(&acc[j]))

		zz[0] += ((xx[0] >> start) & mask) << shl
		zz[1] += ((xx[1] >> start) & mask) << shl
		zz[2] += ((xx[2] >> start) & mask) << shl
		zz[3] += ((xx[3] >> start) & mask) << shl
		zz[4] += ((xx[4] >> start) & mask) << shl
		zz[5] += ((xx[5] >> start) & mask) << shl
		zz[6] += ((xx[6] >> start) & mask) << shl
		zz[7] += ((xx[7] >> start) & mask) << shl
	}

	for j := N - (N & 7); j < N; j++ {
		acc[j] += ((x[j] >> start) & mask) << shl
	}
}

func (KernelsUnrolled) AddTopBits(start, shl int, x, acc []int64) {
	checkLen(len(acc), x)
	N := len(acc)
	for j := 0; j < N-(N&7); j += 8 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		xx := (*[8]int64)(unsafe.Pointer(&x[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 8 */
		zz := (*[8]int64)(unsafe.Pointer(&acc[j]))

		zz[0] += (xx[0] >> start) << shl
		zz[1] += (xx[1] >> start) << shl
		zz[2] += (xx[2] >> start) << shl
		zz[3] += (xx[3] >> start) << shl
		zz[4] += (xx[4] >> start) << shl
		zz[5] += (xx[5] >> start) << shl
		zz[6] += (xx[6] >> start) << shl
		zz[7] += (xx[7] >> start) << shl
	}

	for j := N - (N & 7); j < N; j++ {
		acc[j] += (x[j] >> start) << shl
	}
}

func middleCarry(x, carry int64, basek, lsh int) int64 {
	d, c := splitLsh(x, basek, lsh)
	t := d + carry
	return c + Carry(t, Digit(t, basek), basek)
}

func middleStep(x, carry int64, basek, lsh int) (int64, int64) {
	d, c := splitLsh(x, basek, lsh)
	t := d + carry
	u := Digit(t, basek)
	return u, c + Carry(t, u, basek)
}

func finalStep(x, carry int64, basek, lsh int) int64 {
	d, _ := splitLsh(x, basek, lsh)
	return Digit(d+carry, basek)
}
