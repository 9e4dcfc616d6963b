package hal

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/Pro7ech/poulpy/utils"
	"github.com/Pro7ech/poulpy/utils/structs"
)

// VecZnx is a vector of Cols polynomials of degree N in the coefficient domain,
// each stored as Size limbs of signed base 2^basek digits. Limb 0 is the most
// significant: a coefficient represents sum_j a_j * 2^{-(j+1)*basek} mod 1.
// Data is laid out as [col][limb][coeff].
type VecZnx struct {
	shape
	Data []int64
}

var (
	_ structs.Serializable      = (*VecZnx)(nil)
	_ structs.Equatable[VecZnx] = (*VecZnx)(nil)
	_ structs.Cloner[VecZnx]    = (*VecZnx)(nil)
	_ structs.Copyer[VecZnx]    = (*VecZnx)(nil)
)

// VecZnxBufferSize returns the minimum number of words of the backing array of a [VecZnx].
func VecZnxBufferSize(n, cols, size int) int {
	return n * cols * size
}

// NewVecZnx allocates a new zero [VecZnx].
func NewVecZnx(n, cols, size int) *VecZnx {
	return VecZnxFromBuffer(n, cols, size, make([]int64, VecZnxBufferSize(n, cols, size)))
}

// VecZnxFromBuffer returns a [VecZnx] backed by buf.
// Method panics if len(buf) is too small.
func VecZnxFromBuffer(n, cols, size int, buf []int64) *VecZnx {
	s := newShape(n, cols, size, 1)
	if len(buf) < s.bufferSize() {
		panic(fmt.Errorf("invalid buffer size: N=%d * cols=%d * size=%d > len(buf)=%d", n, cols, size, len(buf)))
	}
	return &VecZnx{shape: s, Data: buf[:s.bufferSize()]}
}

// At returns the N coefficients of the given limb of the given column.
func (v *VecZnx) At(col, limb int) []int64 {
	i := v.offset(col, limb)
	return v.Data[i : i+v.N]
}

// Zero sets all the coefficients of the receiver to zero.
func (v *VecZnx) Zero() {
	clear(v.Data)
}

// ZeroCol sets all the limbs of the given column to zero.
func (v *VecZnx) ZeroCol(col int) {
	v.checkCol(col)
	i := v.offset(col, 0)
	clear(v.Data[i : i+v.MaxSize*v.N])
}

// Clone returns a deep copy of the receiver.
func (v *VecZnx) Clone() *VecZnx {
	return &VecZnx{shape: v.shape, Data: slices.Clone(v.Data)}
}

// Copy copies the live limbs of other on the receiver, up to the
// common number of columns and limbs.
func (v *VecZnx) Copy(other *VecZnx) {
	if v.N != other.N {
		panic(fmt.Errorf("invalid ring degree: %d != %d", v.N, other.N))
	}
	for col := range min(v.Cols, other.Cols) {
		for limb := range min(v.Size, other.Size) {
			copy(v.At(col, limb), other.At(col, limb))
		}
	}
}

// Equal returns true if the receiver and other have the same shape and live limbs.
func (v *VecZnx) Equal(other *VecZnx) bool {
	if v.N != other.N || v.Cols != other.Cols || v.Size != other.Size {
		return false
	}
	for col := range v.Cols {
		for limb := range v.Size {
			if !cmp.Equal(v.At(col, limb), other.At(col, limb)) {
				return false
			}
		}
	}
	return true
}

func (v *VecZnx) limbs() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for col := range v.Cols {
			for limb := range v.Size {
				if !yield(utils.Uint64s(v.At(col, limb))) {
					return
				}
			}
		}
	}
}

// BinarySize returns the size in bytes of the flat dump of the receiver.
func (v *VecZnx) BinarySize() int {
	return v.binarySize()
}

// WriteTo writes the flat dump of the live limbs on w. The shape is not written.
// Unless w implements [buffer.Writer], it is wrapped into a bufio.Writer.
func (v *VecZnx) WriteTo(w io.Writer) (n int64, err error) {
	return writeLimbs(w, v.limbs())
}

// ReadFrom reads a flat dump on the receiver, which must already have the expected shape.
// Unless r implements [buffer.Reader], it is wrapped into a bufio.Reader.
func (v *VecZnx) ReadFrom(r io.Reader) (n int64, err error) {
	return readLimbs(r, v.limbs())
}

// MarshalBinary encodes the receiver into a flat dump.
func (v *VecZnx) MarshalBinary() (data []byte, err error) {
	return marshalLimbs(v.BinarySize(), v.limbs())
}

// UnmarshalBinary decodes a flat dump on the receiver, which must already have the expected shape.
func (v *VecZnx) UnmarshalBinary(data []byte) (err error) {
	return unmarshalLimbs(data, v.BinarySize(), v.limbs())
}

// Digest returns the BLAKE3 hash of the flat dump of the receiver.
func (v *VecZnx) Digest() [32]byte {
	return digestLimbs(v.limbs())
}

// sameColumn returns true if the two columns share their backing memory.
func sameColumn(a *VecZnx, aCol int, b *VecZnx, bCol int) bool {
	return utils.SameStart(a.Data[a.offset(aCol, 0):], b.Data[b.offset(bCol, 0):])
}
