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

// VecZnxDft is a vector of polynomials in the transform domain of a backend.
// Each coefficient takes Words 64-bit words: one float64 slot of the reim
// layout for the FFT64 backend and four CRT residues for the NTT120 backend.
type VecZnxDft struct {
	shape
	Data []uint64
}

var (
	_ structs.Serializable         = (*VecZnxDft)(nil)
	_ structs.Equatable[VecZnxDft] = (*VecZnxDft)(nil)
)

// VecZnxDftBufferSize returns the minimum number of words of the backing array of a [VecZnxDft].
func VecZnxDftBufferSize(m Layouts, cols, size int) int {
	return m.N() * m.DftWords() * cols * size
}

// NewVecZnxDft allocates a new zero [VecZnxDft] for the given backend.
func NewVecZnxDft(m Layouts, cols, size int) *VecZnxDft {
	return VecZnxDftFromBuffer(m, cols, size, make([]uint64, VecZnxDftBufferSize(m, cols, size)))
}

// VecZnxDftFromBuffer returns a [VecZnxDft] backed by buf.
func VecZnxDftFromBuffer(m Layouts, cols, size int, buf []uint64) *VecZnxDft {
	s := newShape(m.N(), cols, size, m.DftWords())
	if len(buf) < s.bufferSize() {
		panic(fmt.Errorf("invalid buffer size: %d > len(buf)=%d", s.bufferSize(), len(buf)))
	}
	return &VecZnxDft{shape: s, Data: buf[:s.bufferSize()]}
}

// At returns the N*Words words of the given limb of the given column.
func (v *VecZnxDft) At(col, limb int) []uint64 {
	i := v.offset(col, limb)
	return v.Data[i : i+v.limbLen()]
}

// AtFloat64 returns the given limb as a []float64. It requires Words == 1.
func (v *VecZnxDft) AtFloat64(col, limb int) []float64 {
	if v.Words != 1 {
		panic(fmt.Errorf("invalid words: AtFloat64 requires 1 word per coefficient but has %d", v.Words))
	}
	return utils.Float64s(v.At(col, limb))
}

// Zero sets the receiver to zero.
func (v *VecZnxDft) Zero() {
	clear(v.Data)
}

// ZeroCol sets all the limbs of the given column to zero.
func (v *VecZnxDft) ZeroCol(col int) {
	v.checkCol(col)
	i := v.offset(col, 0)
	clear(v.Data[i : i+v.MaxSize*v.limbLen()])
}

// Clone returns a deep copy of the receiver.
func (v *VecZnxDft) Clone() *VecZnxDft {
	return &VecZnxDft{shape: v.shape, Data: slices.Clone(v.Data)}
}

// Equal returns true if the receiver and other have the same shape and live limbs.
func (v *VecZnxDft) Equal(other *VecZnxDft) bool {
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

func (v *VecZnxDft) limbs() iter.Seq[[]uint64] {
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
func (v *VecZnxDft) BinarySize() int {
	return v.binarySize()
}

// WriteTo writes the flat dump of the live limbs on w.
func (v *VecZnxDft) WriteTo(w io.Writer) (n int64, err error) {
	return writeLimbs(w, v.limbs())
}

// ReadFrom reads a flat dump on the receiver, which must already have the expected shape.
func (v *VecZnxDft) ReadFrom(r io.Reader) (n int64, err error) {
	return readLimbs(r, v.limbs())
}

// MarshalBinary encodes the receiver into a flat dump.
func (v *VecZnxDft) MarshalBinary() (data []byte, err error) {
	return marshalLimbs(v.BinarySize(), v.limbs())
}

// UnmarshalBinary decodes a flat dump on the receiver.
func (v *VecZnxDft) UnmarshalBinary(data []byte) (err error) {
	return unmarshalLimbs(data, v.BinarySize(), v.limbs())
}

// Digest returns the BLAKE3 hash of the flat dump of the receiver.
func (v *VecZnxDft) Digest() [32]byte {
	return digestLimbs(v.limbs())
}

// CheckCompatible panics if the receiver does not match the layout of the backend.
func (v *VecZnxDft) CheckCompatible(m Layouts) {
	if v.N != m.N() || v.Words != m.DftWords() {
		panic(fmt.Errorf("invalid VecZnxDft: N=%d words=%d for backend N=%d words=%d", v.N, v.Words, m.N(), m.DftWords()))
	}
}
