package fft64

import (
	"fmt"

	"github.com/Pro7ech/poulpy/hal"
	"github.com/Pro7ech/poulpy/utils"
)

// VmpApplyTmpBytes returns the arena bytes needed by [Module.VmpApply] and [Module.VmpApplyAdd].
func (m *Module) VmpApplyTmpBytes(resSize, aSize, rows, colsIn, colsOut, bSize int) int {
	return hal.VmpApplyTmpBytes(m, resSize, aSize, rows, colsIn, colsOut, bSize)
}

// VmpApply evaluates res[co][k] = sum_ci sum_r a[ci][r] * pmat[r][ci][co][k].
// Limbs of res beyond pmat.Size are zeroed.
func (m *Module) VmpApply(res *hal.VecZnxDft, a *hal.VecZnxDft, pmat *hal.VmpPMat, scratch *hal.Scratch) {
	kmax := m.vmp(res, a, pmat, 0, false, scratch)
	for co := range res.Cols {
		for k := kmax; k < res.Size; k++ {
			clear(res.At(co, k))
		}
	}
}

// VmpApplyAdd adds limb k of the product of a and pmat to limb k+scale of res.
// Limbs falling outside of res are discarded.
func (m *Module) VmpApplyAdd(res *hal.VecZnxDft, a *hal.VecZnxDft, pmat *hal.VmpPMat, scale int, scratch *hal.Scratch) {
	m.vmp(res, a, pmat, scale, true, scratch)
}

// vmp evaluates the product on the limbs [kmin, kmax) of pmat, with
// kmin = max(0, -scale) and kmax = min(pmat.Size, res.Size-scale), and returns kmax.
// The product is added to res if add is true and overwrites it otherwise.
func (m *Module) vmp(res *hal.VecZnxDft, a *hal.VecZnxDft, pmat *hal.VmpPMat, scale int, add bool, scratch *hal.Scratch) (kmax int) {

	m.checkReady()
	m.checkDft(res, a)
	pmat.CheckCompatible(m)

	if a.Cols != pmat.ColsIn || res.Cols != pmat.ColsOut {
		panic(fmt.Errorf("invalid vmp: a.Cols=%d res.Cols=%d for pmat[colsIn=%d colsOut=%d]", a.Cols, res.Cols, pmat.ColsIn, pmat.ColsOut))
	}

	kmin := max(0, -scale)
	kmax = max(min(pmat.Size, res.Size-scale), 0)
	if kmax <= kmin {
		return
	}

	tmp, _ := scratch.TakeVecZnxDft(m, pmat.ColsOut, kmax-kmin)
	tmp.Zero()

	for r := range min(a.Size, pmat.Rows) {
		for ci := range pmat.ColsIn {
			aRe, aIm := m.reim(a.AtFloat64(ci, r))
			for co := range pmat.ColsOut {
				for k := kmin; k < kmax; k++ {
					bRe, bIm := m.reim(utils.Float64s(pmat.At(r, ci, co, k)))
					tRe, tIm := m.reim(tmp.AtFloat64(co, k-kmin))
					m.fft.MulAdd(aRe, aIm, bRe, bIm, tRe, tIm)
				}
			}
		}
	}

	for co := range pmat.ColsOut {
		for k := kmin; k < kmax; k++ {
			out, x := res.AtFloat64(co, k+scale), tmp.AtFloat64(co, k-kmin)
			if !add {
				copy(out, x)
				continue
			}
			for i := range out {
				out[i] += x[i]
			}
		}
	}

	return
}
