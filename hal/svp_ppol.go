package hal

import (
	"fmt"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// SvpPPol is the transform-domain image of a [ScalarZnx], prepared once
// and multiplied many times against [VecZnxDft] columns.
type SvpPPol struct {
	shape
	Data []uint64
}

// NewSvpPPol allocates a new zero [SvpPPol] for the given backend.
func NewSvpPPol(m Layouts, cols int) *SvpPPol {
	s := newShape(m.N(), cols, 1, m.DftWords())
	return &SvpPPol{shape: s, Data: make([]uint64, s.bufferSize())}
}

// At returns the N*Words words of the given column.
func (p *SvpPPol) At(col int) []uint64 {
	i := p.offset(col, 0)
	return p.Data[i : i+p.limbLen()]
}

// AsVecZnxDft returns a single-limb [VecZnxDft] sharing the backing array of the receiver.
func (p *SvpPPol) AsVecZnxDft() *VecZnxDft {
	return &VecZnxDft{shape: p.shape, Data: p.Data}
}

// Clone returns a deep copy of the receiver.
func (p *SvpPPol) Clone() *SvpPPol {
	return &SvpPPol{shape: p.shape, Data: slices.Clone(p.Data)}
}

// Equal returns true if the receiver and other are identical.
func (p *SvpPPol) Equal(other *SvpPPol) bool {
	return p.N == other.N && p.Cols == other.Cols && p.Words == other.Words && cmp.Equal(p.Data, other.Data)
}

// CheckCompatible panics if the receiver does not match the layout of the backend.
func (p *SvpPPol) CheckCompatible(m Layouts) {
	if p.N != m.N() || p.Words != m.DftWords() {
		panic(fmt.Errorf("invalid SvpPPol: N=%d words=%d for backend N=%d words=%d", p.N, p.Words, m.N(), m.DftWords()))
	}
}
