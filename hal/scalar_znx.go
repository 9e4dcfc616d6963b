package hal

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// ScalarZnx is a vector of Cols single-limb polynomials with int64
// coefficients, typically a secret or a small plaintext.
type ScalarZnx struct {
	shape
	Data []int64
}

// NewScalarZnx allocates a new zero [ScalarZnx].
func NewScalarZnx(n, cols int) *ScalarZnx {
	return ScalarZnxFromBuffer(n, cols, make([]int64, n*cols))
}

// ScalarZnxFromBuffer returns a [ScalarZnx] backed by buf.
func ScalarZnxFromBuffer(n, cols int, buf []int64) *ScalarZnx {
	s := newShape(n, cols, 1, 1)
	if len(buf) < s.bufferSize() {
		panic(fmt.Errorf("invalid buffer size: N=%d * cols=%d > len(buf)=%d", n, cols, len(buf)))
	}
	return &ScalarZnx{shape: s, Data: buf[:s.bufferSize()]}
}

// At returns the coefficients of the given column.
func (p *ScalarZnx) At(col int) []int64 {
	i := p.offset(col, 0)
	return p.Data[i : i+p.N]
}

// AsVecZnx returns a single-limb [VecZnx] sharing the backing array of the receiver.
func (p *ScalarZnx) AsVecZnx() *VecZnx {
	return &VecZnx{shape: p.shape, Data: p.Data}
}

// Zero sets the receiver to zero.
func (p *ScalarZnx) Zero() {
	clear(p.Data)
}

// Clone returns a deep copy of the receiver.
func (p *ScalarZnx) Clone() *ScalarZnx {
	return &ScalarZnx{shape: p.shape, Data: slices.Clone(p.Data)}
}

// Equal returns true if the receiver and other are identical.
func (p *ScalarZnx) Equal(other *ScalarZnx) bool {
	return p.N == other.N && p.Cols == other.Cols && cmp.Equal(p.Data, other.Data)
}

// BinarySize returns the size in bytes of the flat dump of the receiver.
func (p *ScalarZnx) BinarySize() int {
	return p.binarySize()
}

// WriteTo writes the flat dump of the receiver on w.
func (p *ScalarZnx) WriteTo(w io.Writer) (n int64, err error) {
	return p.AsVecZnx().WriteTo(w)
}

// ReadFrom reads a flat dump on the receiver.
func (p *ScalarZnx) ReadFrom(r io.Reader) (n int64, err error) {
	return p.AsVecZnx().ReadFrom(r)
}

// MarshalBinary encodes the receiver into a flat dump.
func (p *ScalarZnx) MarshalBinary() (data []byte, err error) {
	return p.AsVecZnx().MarshalBinary()
}

// UnmarshalBinary decodes a flat dump on the receiver.
func (p *ScalarZnx) UnmarshalBinary(data []byte) (err error) {
	return p.AsVecZnx().UnmarshalBinary(data)
}

// Digest returns the BLAKE3 hash of the flat dump of the receiver.
func (p *ScalarZnx) Digest() [32]byte {
	return p.AsVecZnx().Digest()
}
