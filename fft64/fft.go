package fft64

import (
	"fmt"

	"github.com/Pro7ech/poulpy/ring"
)

// kernels are the transform-domain kernels on the reim layout. Every
// implementation evaluates the same operations in the same order.
type kernels interface {
	Name() string
	// Forward evaluates the twisted FFT of the limb re + i*im in place.
	Forward(t *Table, re, im []float64)
	// Inverse evaluates the scaled and untwisted inverse FFT of re + i*im in place.
	Inverse(t *Table, re, im []float64)
	// Mul evaluates res = a * b pointwise.
	Mul(aRe, aIm, bRe, bIm, resRe, resIm []float64)
	// MulAdd evaluates res += a * b pointwise.
	MulAdd(aRe, aIm, bRe, bIm, resRe, resIm []float64)
}

func newKernels(name string) (kernels, error) {
	switch name {
	case ring.KernelsNameRef:
		return kernelsRef{}, nil
	case ring.KernelsNameUnrolled:
		return kernelsUnrolled{}, nil
	default:
		return nil, fmt.Errorf("invalid kernels: %q", name)
	}
}

type kernelsRef struct{}

func (kernelsRef) Name() string {
	return ring.KernelsNameRef
}

func (kernelsRef) Forward(t *Table, re, im []float64) {

	M := t.M

	for k := range M {
		re[k], im[k] = cmul(re[k], im[k], t.twistRe[k], t.twistIm[k])
	}

	h := M
	for g := 1; g < M; g <<= 1 {
		h >>= 1
		for i := range g {
			wr, wi := t.rootsRe[g+i], t.rootsIm[g+i]
			j1 := 2 * i * h
			for j := j1; j < j1+h; j++ {
				ur, ui := re[j], im[j]
				vr, vi := cmul(re[j+h], im[j+h], wr, wi)
				re[j], im[j] = ur+vr, ui+vi
				re[j+h], im[j+h] = ur-vr, ui-vi
			}
		}
	}
}

func (kernelsRef) Inverse(t *Table, re, im []float64) {

	M := t.M

	h := 1
	for g := M >> 1; g >= 1; g >>= 1 {
		for i := range g {
			wr, wi := t.rootsInvRe[g+i], t.rootsInvIm[g+i]
			j1 := 2 * i * h
			for j := j1; j < j1+h; j++ {
				ur, ui := re[j], im[j]
				vr, vi := re[j+h], im[j+h]
				re[j], im[j] = ur+vr, ui+vi
				re[j+h], im[j+h] = cmul(ur-vr, ui-vi, wr, wi)
			}
		}
		h <<= 1
	}

	for k := range M {
		re[k], im[k] = cmul(re[k], im[k], t.untwistRe[k], t.untwistIm[k])
	}
}

func (kernelsRef) Mul(aRe, aIm, bRe, bIm, resRe, resIm []float64) {
	for i := range resRe {
		resRe[i], resIm[i] = cmul(aRe[i], aIm[i], bRe[i], bIm[i])
	}
}

func (kernelsRef) MulAdd(aRe, aIm, bRe, bIm, resRe, resIm []float64) {
	for i := range resRe {
		vr, vi := cmul(aRe[i], aIm[i], bRe[i], bIm[i])
		resRe[i] += vr
		resIm[i] += vi
	}
}
