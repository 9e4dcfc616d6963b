package fft64

import (
	"unsafe"

	"github.com/Pro7ech/poulpy/ring"
)

// kernelsUnrolled processes the butterflies four at a time on fixed-size
// array views, with a scalar tail for the levels and lengths below four.
// Outputs are bitwise identical to kernelsRef.
type kernelsUnrolled struct{}

func (kernelsUnrolled) Name() string {
	return ring.KernelsNameUnrolled
}

func (kernelsUnrolled) Forward(t *Table, re, im []float64) {

	M := t.M

	mul4(re, im, t.twistRe, t.twistIm, re, im)

	h := M
	for g := 1; g < M; g <<= 1 {
		h >>= 1
		for i := range g {
			wr, wi := t.rootsRe[g+i], t.rootsIm[g+i]
			j1 := 2 * i * h

			if h < 4 {
				for j := j1; j < j1+h; j++ {
					ur, ui := re[j], im[j]
					vr, vi := cmul(re[j+h], im[j+h], wr, wi)
					re[j], im[j] = ur+vr, ui+vi
					re[j+h], im[j+h] = ur-vr, ui-vi
				}
				continue
			}

			for j := j1; j < j1+h; j += 4 {

				/* #nosec G103 -- h is a multiple of 4 */
				ur := (*[4]float64)(unsafe.Pointer(&re[j]))
				/* #nosec G103 -- h is a multiple of 4 */
				ui := (*[4]float64)(unsafe.Pointer(&im[j]))
				/* #nosec G103 -- h is a multiple of 4 */
				vr := (*[4]float64)(unsafe.Pointer(&re[j+h]))
				/* #nosec G103 -- h is a multiple of 4 */
				vi := (*[4]float64)(unsafe.Pointer(&im[j+h]))

				xr0, xi0 := cmul(vr[0], vi[0], wr, wi)
				xr1, xi1 := cmul(vr[1], vi[1], wr, wi)
				xr2, xi2 := cmul(vr[2], vi[2], wr, wi)
				xr3, xi3 := cmul(vr[3], vi[3], wr, wi)

				vr[0], vi[0] = ur[0]-xr0, ui[0]-xi0
				vr[1], vi[1] = ur[1]-xr1, ui[1]-xi1
				vr[2], vi[2] = ur[2]-xr2, ui[2]-xi2
				vr[3], vi[3] = ur[3]-xr3, ui[3]-xi3

				ur[0], ui[0] = ur[0]+xr0, ui[0]+xi0
				ur[1], ui[1] = ur[1]+xr1, ui[1]+xi1
				ur[2], ui[2] = ur[2]+xr2, ui[2]+xi2
				ur[3], ui[3] = ur[3]+xr3, ui[3]+xi3
			}
		}
	}
}

func (kernelsUnrolled) Inverse(t *Table, re, im []float64) {

	M := t.M

	h := 1
	for g := M >> 1; g >= 1; g >>= 1 {
		for i := range g {
			wr, wi := t.rootsInvRe[g+i], t.rootsInvIm[g+i]
			j1 := 2 * i * h

			if h < 4 {
				for j := j1; j < j1+h; j++ {
					ur, ui := re[j], im[j]
					vr, vi := re[j+h], im[j+h]
					re[j], im[j] = ur+vr, ui+vi
					re[j+h], im[j+h] = cmul(ur-vr, ui-vi, wr, wi)
				}
				continue
			}

			for j := j1; j < j1+h; j += 4 {

				/* #nosec G103 -- h is a multiple of 4 */
				ur := (*[4]float64)(unsafe.Pointer(&re[j]))
				/* #nosec G103 -- h is a multiple of 4 */
				ui := (*[4]float64)(unsafe.Pointer(&im[j]))
				/* #nosec G103 -- h is a multiple of 4 */
				vr := (*[4]float64)(unsafe.Pointer(&re[j+h]))
				/* #nosec G103 -- h is a multiple of 4 */
				vi := (*[4]float64)(unsafe.Pointer(&im[j+h]))

				dr0, di0 := ur[0]-vr[0], ui[0]-vi[0]
				dr1, di1 := ur[1]-vr[1], ui[1]-vi[1]
				dr2, di2 := ur[2]-vr[2], ui[2]-vi[2]
				dr3, di3 := ur[3]-vr[3], ui[3]-vi[3]

				ur[0], ui[0] = ur[0]+vr[0], ui[0]+vi[0]
				ur[1], ui[1] = ur[1]+vr[1], ui[1]+vi[1]
				ur[2], ui[2] = ur[2]+vr[2], ui[2]+vi[2]
				ur[3], ui[3] = ur[3]+vr[3], ui[3]+vi[3]

				vr[0], vi[0] = cmul(dr0, di0, wr, wi)
				vr[1], vi[1] = cmul(dr1, di1, wr, wi)
				vr[2], vi[2] = cmul(dr2, di2, wr, wi)
				vr[3], vi[3] = cmul(dr3, di3, wr, wi)
			}
		}
		h <<= 1
	}

	mul4(re, im, t.untwistRe, t.untwistIm, re, im)
}

func (kernelsUnrolled) Mul(aRe, aIm, bRe, bIm, resRe, resIm []float64) {
	mul4(aRe, aIm, bRe, bIm, resRe, resIm)
}

func (kernelsUnrolled) MulAdd(aRe, aIm, bRe, bIm, resRe, resIm []float64) {

	N := len(resRe)

	for j := 0; j < N-(N&3); j += 4 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		xr := (*[4]float64)(unsafe.Pointer(&aRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		xi := (*[4]float64)(unsafe.Pointer(&aIm[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		yr := (*[4]float64)(unsafe.Pointer(&bRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		yi := (*[4]float64)(unsafe.Pointer(&bIm[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		zr := (*[4]float64)(unsafe.Pointer(&resRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		zi := (*[4]float64)(unsafe.Pointer(&resIm[j]))

		vr0, vi0 := cmul(xr[0], xi[0], yr[0], yi[0])
		vr1, vi1 := cmul(xr[1], xi[1], yr[1], yi[1])
		vr2, vi2 := cmul(xr[2], xi[2], yr[2], yi[2])
		vr3, vi3 := cmul(xr[3], xi[3], yr[3], yi[3])

		zr[0], zi[0] = zr[0]+vr0, zi[0]+vi0
		zr[1], zi[1] = zr[1]+vr1, zi[1]+vi1
		zr[2], zi[2] = zr[2]+vr2, zi[2]+vi2
		zr[3], zi[3] = zr[3]+vr3, zi[3]+vi3
	}

	for j := N - (N & 3); j < N; j++ {
		vr, vi := cmul(aRe[j], aIm[j], bRe[j], bIm[j])
		resRe[j] += vr
		resIm[j] += vi
	}
}

// mul4 evaluates res = a * b pointwise, four coefficients at a time.
// res may alias a or b.
func mul4(aRe, aIm, bRe, bIm, resRe, resIm []float64) {

	N := len(resRe)

	for j := 0; j < N-(N&3); j += 4 {

		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		xr := (*[4]float64)(unsafe.Pointer(&aRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		xi := (*[4]float64)(unsafe.Pointer(&aIm[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		yr := (*[4]float64)(unsafe.Pointer(&bRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		yi := (*[4]float64)(unsafe.Pointer(&bIm[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		zr := (*[4]float64)(unsafe.Pointer(&resRe[j]))
		/* #nosec G103 -- iteration number is ensured to be a multiple of 4 */
		zi := (*[4]float64)(unsafe.Pointer(&resIm[j]))

		zr[0], zi[0] = cmul(xr[0], xi[0], yr[0], yi[0])
		zr[1], zi[1] = cmul(xr[1], xi[1], yr[1], yi[1])
		zr[2], zi[2] = cmul(xr[2], xi[2], yr[2], yi[2])
		zr[3], zi[3] = cmul(xr[3], xi[3], yr[3], yi[3])
	}

	for j := N - (N & 3); j < N; j++ {
		resRe[j], resIm[j] = cmul(aRe[j], aIm[j], bRe[j], bIm[j])
	}
}
