package hal

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Pro7ech/poulpy/ring"
)

// State is the lifecycle state of a backend.
type State int

const (
	// Uninitialized is the state of a backend whose tables are not built or have been released.
	Uninitialized State = iota
	// TableBuilt is the state of a backend whose tables are built but not yet checked.
	TableBuilt
	// Ready is the steady state in which the transforms can be called.
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case TableBuilt:
		return "TableBuilt"
	case Ready:
		return "Ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// VecZnxOps are the backend-independent coefficient-domain operations, implemented by [Base].
type VecZnxOps interface {
	VecZnxAdd(res *VecZnx, resCol int, a *VecZnx, aCol int, b *VecZnx, bCol int)
	VecZnxAddInplace(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxSub(res *VecZnx, resCol int, a *VecZnx, aCol int, b *VecZnx, bCol int)
	VecZnxSubABInplace(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxSubBAInplace(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxNegate(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxNegateInplace(a *VecZnx, aCol int)
	VecZnxCopy(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxZero(a *VecZnx, aCol int)

	VecZnxRotate(k int64, res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxRotateInplace(k int64, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxRotateInplaceTmpBytes() int
	VecZnxAutomorphism(p int64, res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxAutomorphismInplace(p int64, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxAutomorphismInplaceTmpBytes() int

	VecZnxNormalize(basek int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxNormalizeInplace(basek int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxNormalizeTmpBytes() int
	VecZnxNormalizeBase2k(resBasek int, res *VecZnx, resCol int, aBasek int, a *VecZnx, aCol int, offset int, scratch *Scratch)
	VecZnxNormalizeBase2kTmpBytes(aSize int) int
	VecZnxLsh(basek, k int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxLshInplace(basek, k int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxRsh(basek, k int, res *VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxRshInplace(basek, k int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxLshTmpBytes(size int) int

	VecZnxSwitchDegree(res *VecZnx, resCol int, a *VecZnx, aCol int)
	VecZnxSplit(res []*VecZnx, resCol int, a *VecZnx, aCol int, scratch *Scratch)
	VecZnxSplitTmpBytes() int
	VecZnxMerge(res *VecZnx, resCol int, a []*VecZnx, aCol int)

	EncodeVecI64(basek int, res *VecZnx, resCol int, k int, data []int64, logMax int)
	DecodeVecI64(basek int, a *VecZnx, aCol int, k int, data []int64)
	EncodeCoeffI64(basek int, res *VecZnx, resCol int, k int, i int, data int64, logMax int)
	DecodeCoeffI64(basek int, a *VecZnx, aCol int, k int, i int) int64
	VecZnxStd(basek int, a *VecZnx, aCol int) float64

	VecZnxFillUniform(basek int, a *VecZnx, aCol int, source Source)
	VecZnxFillNormal(basek int, a *VecZnx, aCol int, k int, source Source, sigma, bound float64)
	VecZnxAddNormal(basek int, a *VecZnx, aCol int, k int, source Source, sigma, bound float64)
}

// BigOps are the operations on [VecZnxBig], whose word layout is backend specific.
type BigOps interface {
	BigAdd(res *VecZnxBig, resCol int, a *VecZnxBig, aCol int, b *VecZnxBig, bCol int)
	BigAddInplace(res *VecZnxBig, resCol int, a *VecZnxBig, aCol int)
	// BigAddSmallInplace evaluates res += a for a coefficient-domain a.
	BigAddSmallInplace(res *VecZnxBig, resCol int, a *VecZnx, aCol int)
	// BigSubSmallInplace evaluates res -= a for a coefficient-domain a.
	BigSubSmallInplace(res *VecZnxBig, resCol int, a *VecZnx, aCol int)
	// BigNormalize normalizes a, whose limbs are in base 2^aBasek, into res in base 2^resBasek.
	BigNormalize(resBasek int, res *VecZnx, resCol int, aBasek int, a *VecZnxBig, aCol int, scratch *Scratch)
	BigNormalizeTmpBytes(aSize int) int
}

// DftOps are the transform and the transform-domain operations.
type DftOps interface {
	// DftForward sets the first min(res.Size, a.Size) limbs of res to the
	// transform of the limbs of a and zeroes the remaining limbs of res.
	DftForward(res *VecZnxDft, resCol int, a *VecZnx, aCol int)
	// DftInverseConsume sets res to the inverse transform of a, using a as temporary storage.
	DftInverseConsume(res *VecZnxBig, resCol int, a *VecZnxDft, aCol int)
	// DftInverse sets res to the inverse transform of a, leaving a untouched.
	DftInverse(res *VecZnxBig, resCol int, a *VecZnxDft, aCol int, scratch *Scratch)
	DftInverseTmpBytes() int

	DftAdd(res *VecZnxDft, resCol int, a *VecZnxDft, aCol int, b *VecZnxDft, bCol int)
	DftAddInplace(res *VecZnxDft, resCol int, a *VecZnxDft, aCol int)
	DftSub(res *VecZnxDft, resCol int, a *VecZnxDft, aCol int, b *VecZnxDft, bCol int)
	DftCopy(res *VecZnxDft, resCol int, a *VecZnxDft, aCol int)
	DftZero(res *VecZnxDft, resCol int)
	// DftMul evaluates the pointwise product of a and b, limb by limb.
	DftMul(res *VecZnxDft, resCol int, a *VecZnxDft, aCol int, b *VecZnxDft, bCol int)
}

// VmpOps are the operations of the vector-matrix product.
type VmpOps interface {
	VmpPrepareRow(pmat *VmpPMat, row, colIn int, a *VecZnxDft)
	VmpExtractRow(res *VecZnxDft, pmat *VmpPMat, row, colIn int)
	// VmpApply evaluates res[co][k] = sum_ci sum_r a[ci][r] * pmat[r][ci][co][k].
	VmpApply(res *VecZnxDft, a *VecZnxDft, pmat *VmpPMat, scratch *Scratch)
	// VmpApplyAdd adds limb k of the product of a and pmat to limb k+scale of res.
	VmpApplyAdd(res *VecZnxDft, a *VecZnxDft, pmat *VmpPMat, scale int, scratch *Scratch)
	VmpApplyTmpBytes(resSize, aSize, rows, colsIn, colsOut, bSize int) int
}

// SvpOps are the operations of the scalar-vector product.
type SvpOps interface {
	SvpPrepare(res *SvpPPol, resCol int, a *ScalarZnx, aCol int)
	// SvpApply evaluates res = a * b for every limb of b.
	SvpApply(res *VecZnxDft, resCol int, a *SvpPPol, aCol int, b *VecZnxDft, bCol int)
}

// Module is a backend: a ring degree, its transform tables and kernels.
// A Module is read-only after construction and can be shared across goroutines.
type Module interface {
	Layouts
	VecZnxOps
	BigOps
	DftOps
	VmpOps
	SvpOps

	// Name returns the name of the backend.
	Name() string
	// Kernels returns the raw-limb kernels used by the backend.
	Kernels() ring.Kernels
	State() State
	// Close releases the tables. Transforms panic afterward.
	Close()
	SetLogger(logger zerolog.Logger)
}

// Base implements [VecZnxOps] and is embedded by the backends.
type Base struct {
	n       int
	kernels ring.Kernels
}

// NewBase instantiates a new [Base] for the given ring degree and kernels.
func NewBase(n int, kernels ring.Kernels) Base {
	if n < 2 || n&(n-1) != 0 {
		panic(fmt.Errorf("invalid ring degree: N=%d must be a power of two greater than one", n))
	}
	return Base{n: n, kernels: kernels}
}

// N returns the ring degree.
func (m *Base) N() int {
	return m.n
}

// Kernels returns the raw-limb kernels.
func (m *Base) Kernels() ring.Kernels {
	return m.kernels
}

// CheckN panics if one of the vectors is not of the ring degree of the receiver.
func (m *Base) CheckN(vs ...*VecZnx) {
	for _, v := range vs {
		if v.N != m.n {
			panic(fmt.Errorf("invalid ring degree: %d != %d", v.N, m.n))
		}
	}
}

// VmpPrepareRow copies the ColsOut columns of a into the row and input column of pmat.
// Limbs of pmat beyond a.Size are zeroed.
func (m *Base) VmpPrepareRow(pmat *VmpPMat, row, colIn int, a *VecZnxDft) {
	if a.N != pmat.N || a.Words != pmat.Words || a.Cols != pmat.ColsOut {
		panic(fmt.Errorf("invalid VmpPrepareRow: a[N=%d cols=%d words=%d] for pmat[N=%d colsOut=%d words=%d]", a.N, a.Cols, a.Words, pmat.N, pmat.ColsOut, pmat.Words))
	}
	size := min(a.Size, pmat.Size)
	for co := range pmat.ColsOut {
		for k := range size {
			copy(pmat.At(row, colIn, co, k), a.At(co, k))
		}
		for k := size; k < pmat.Size; k++ {
			clear(pmat.At(row, colIn, co, k))
		}
	}
}

// VmpExtractRow copies the row and input column of pmat into the ColsOut columns of res.
// Limbs of res beyond pmat.Size are zeroed.
func (m *Base) VmpExtractRow(res *VecZnxDft, pmat *VmpPMat, row, colIn int) {
	if res.N != pmat.N || res.Words != pmat.Words || res.Cols != pmat.ColsOut {
		panic(fmt.Errorf("invalid VmpExtractRow: res[N=%d cols=%d words=%d] for pmat[N=%d colsOut=%d words=%d]", res.N, res.Cols, res.Words, pmat.N, pmat.ColsOut, pmat.Words))
	}
	size := min(res.Size, pmat.Size)
	for co := range pmat.ColsOut {
		for k := range size {
			copy(res.At(co, k), pmat.At(row, colIn, co, k))
		}
		for k := size; k < res.Size; k++ {
			clear(res.At(co, k))
		}
	}
}

// VmpApplyTmpBytes returns the arena bytes needed by the vector-matrix product,
// given the number of words per coefficient of the transform domain.
func VmpApplyTmpBytes(m Layouts, resSize, aSize, rows, colsIn, colsOut, bSize int) int {
	return VecZnxDftBytes(m, colsOut, min(resSize, bSize))
}
