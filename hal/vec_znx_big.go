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

// VecZnxBig is the wide accumulator counterpart of [VecZnx], holding the
// coefficient-domain result of products before normalization.
// Each coefficient takes Words 64-bit words: one int64 for the FFT64 backend
// and one int128 stored as [lo, hi] for the NTT120 backend.
type VecZnxBig struct {
	shape
	Data []uint64
}

var (
	_ structs.Serializable         = (*VecZnxBig)(nil)
	_ structs.Equatable[VecZnxBig] = (*VecZnxBig)(nil)
)

// VecZnxBigBufferSize returns the minimum number of words of the backing array of a [VecZnxBig].
func VecZnxBigBufferSize(m Layouts, cols, size int) int {
	return m.N() * m.BigWords() * cols * size
}

// NewVecZnxBig allocates a new zero [VecZnxBig] for the given backend.
func NewVecZnxBig(m Layouts, cols, size int) *VecZnxBig {
	return VecZnxBigFromBuffer(m, cols, size, make([]uint64, VecZnxBigBufferSize(m, cols, size)))
}

// VecZnxBigFromBuffer returns a [VecZnxBig] backed by buf.
func VecZnxBigFromBuffer(m Layouts, cols, size int, buf []uint64) *VecZnxBig {
	s := newShape(m.N(), cols, size, m.BigWords())
	if len(buf) < s.bufferSize() {
		panic(fmt.Errorf("invalid buffer size: %d > len(buf)=%d", s.bufferSize(), len(buf)))
	}
	return &VecZnxBig{shape: s, Data: buf[:s.bufferSize()]}
}

// At returns the N*Words words of the given limb of the given column.
func (v *VecZnxBig) At(col, limb int) []uint64 {
	i := v.offset(col, limb)
	return v.Data[i : i+v.limbLen()]
}

// AtInt64 returns the given limb as a []int64. It requires Words == 1.
func (v *VecZnxBig) AtInt64(col, limb int) []int64 {
	if v.Words != 1 {
		panic(fmt.Errorf("invalid words: AtInt64 requires 1 word per coefficient but has %d", v.Words))
	}
	return utils.Int64s(v.At(col, limb))
}

// AsVecZnx returns a [VecZnx] sharing the backing array of the receiver.
// It requires Words == 1.
func (v *VecZnxBig) AsVecZnx() *VecZnx {
	if v.Words != 1 {
		panic(fmt.Errorf("invalid words: AsVecZnx requires 1 word per coefficient but has %d", v.Words))
	}
	s := v.shape
	return &VecZnx{shape: s, Data: utils.Int64s(v.Data)}
}

// Zero sets the receiver to zero.
func (v *VecZnxBig) Zero() {
	clear(v.Data)
}

// ZeroCol sets all the limbs of the given column to zero.
func (v *VecZnxBig) ZeroCol(col int) {
	v.checkCol(col)
	i := v.offset(col, 0)
	clear(v.Data[i : i+v.MaxSize*v.limbLen()])
}

// Clone returns a deep copy of the receiver.
func (v *VecZnxBig) Clone() *VecZnxBig {
	return &VecZnxBig{shape: v.shape, Data: slices.Clone(v.Data)}
}

// Equal returns true if the receiver and other have the same shape and live limbs.
func (v *VecZnxBig) Equal(other *VecZnxBig) bool {
	if v.N != other.N || v.Cols != other.Cols || v.Size != other.Size || v.Words != other.Words {
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

func (v *VecZnxBig) limbs() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for col := range v.Cols {
			for limb := range v.Size {
				if !yield(v.At(col, limb)) {
					return
				}
			}
		}
	}
}

// BinarySize returns the size in bytes of the flat dump of the receiver.
func (v *VecZnxBig) BinarySize() int {
	return v.binarySize()
}

// WriteTo writes the flat dump of the live limbs on w.
func (v *VecZnxBig) WriteTo(w io.Writer) (n int64, err error) {
	return writeLimbs(w, v.limbs())
}

// ReadFrom reads a flat dump on the receiver, which must already have the expected shape.
func (v *VecZnxBig) ReadFrom(r io.Reader) (n int64, err error) {
	return readLimbs(r, v.limbs())
}

// MarshalBinary encodes the receiver into a flat dump.
func (v *VecZnxBig) MarshalBinary() (data []byte, err error) {
	return marshalLimbs(v.BinarySize(), v.limbs())
}

// UnmarshalBinary decodes a flat dump on the receiver.
func (v *VecZnxBig) UnmarshalBinary(data []byte) (err error) {
	return unmarshalLimbs(data, v.BinarySize(), v.limbs())
}

// Digest returns the BLAKE3 hash of the flat dump of the receiver.
func (v *VecZnxBig) Digest() [32]byte {
	return digestLimbs(v.limbs())
}

// CheckCompatible panics if the receiver does not match the layout of the backend.
func (v *VecZnxBig) CheckCompatible(m Layouts) {
	if v.N != m.N() || v.Words != m.BigWords() {
		panic(fmt.Errorf("invalid VecZnxBig: N=%d words=%d for backend N=%d words=%d", v.N, v.Words, m.N(), m.BigWords()))
	}
}
