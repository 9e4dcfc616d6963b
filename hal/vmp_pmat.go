package hal

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/Pro7ech/poulpy/utils/structs"
)

// VmpPMat is a gadget matrix of Rows x ColsIn x ColsOut transform-domain
// polynomials of Size limbs, prepared row by row and then read by the
// vector-matrix product. Data is laid out as [row][colIn][colOut][limb][coeff * words].
type VmpPMat struct {
	N       int
	Rows    int
	ColsIn  int
	ColsOut int
	Size    int
	Words   int
	Data    []uint64
}

var _ structs.Serializable = (*VmpPMat)(nil)

// VmpPMatBufferSize returns the number of words of the backing array of a [VmpPMat].
func VmpPMatBufferSize(m Layouts, rows, colsIn, colsOut, size int) int {
	return rows * colsIn * colsOut * size * m.N() * m.DftWords()
}

// NewVmpPMat allocates a new zero [VmpPMat] for the given backend.
func NewVmpPMat(m Layouts, rows, colsIn, colsOut, size int) *VmpPMat {
	if rows < 0 || colsIn < 0 || colsOut < 0 || size < 0 {
		panic(fmt.Errorf("invalid VmpPMat: rows=%d colsIn=%d colsOut=%d size=%d", rows, colsIn, colsOut, size))
	}
	return &VmpPMat{
		N:       m.N(),
		Rows:    rows,
		ColsIn:  colsIn,
		ColsOut: colsOut,
		Size:    size,
		Words:   m.DftWords(),
		Data:    make([]uint64, VmpPMatBufferSize(m, rows, colsIn, colsOut, size)),
	}
}

func (p *VmpPMat) limbLen() int {
	return p.N * p.Words
}

// At returns the words of the given limb of entry [row][colIn][colOut].
func (p *VmpPMat) At(row, colIn, colOut, limb int) []uint64 {
	if row < 0 || row >= p.Rows || colIn < 0 || colIn >= p.ColsIn || colOut < 0 || colOut >= p.ColsOut || limb < 0 || limb >= p.Size {
		panic(fmt.Errorf("invalid index: [%d][%d][%d][%d] for VmpPMat[%d][%d][%d][%d]", row, colIn, colOut, limb, p.Rows, p.ColsIn, p.ColsOut, p.Size))
	}
	i := (((row*p.ColsIn+colIn)*p.ColsOut+colOut)*p.Size + limb) * p.limbLen()
	return p.Data[i : i+p.limbLen()]
}

// Clone returns a deep copy of the receiver.
func (p *VmpPMat) Clone() *VmpPMat {
	c := *p
	c.Data = slices.Clone(p.Data)
	return &c
}

// Equal returns true if the receiver and other are identical.
func (p *VmpPMat) Equal(other *VmpPMat) bool {
	return p.N == other.N &&
		p.Rows == other.Rows &&
		p.ColsIn == other.ColsIn &&
		p.ColsOut == other.ColsOut &&
		p.Size == other.Size &&
		p.Words == other.Words &&
		cmp.Equal(p.Data, other.Data)
}

// CheckCompatible panics if the receiver does not match the layout of the backend.
func (p *VmpPMat) CheckCompatible(m Layouts) {
	if p.N != m.N() || p.Words != m.DftWords() {
		panic(fmt.Errorf("invalid VmpPMat: N=%d words=%d for backend N=%d words=%d", p.N, p.Words, m.N(), m.DftWords()))
	}
}

func (p *VmpPMat) limbs() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		yield(p.Data)
	}
}

// BinarySize returns the size in bytes of the flat dump of the receiver.
func (p *VmpPMat) BinarySize() int {
	return len(p.Data) * 8
}

// WriteTo writes the flat dump of the receiver on w.
func (p *VmpPMat) WriteTo(w io.Writer) (n int64, err error) {
	return writeLimbs(w, p.limbs())
}

// ReadFrom reads a flat dump on the receiver, which must already have the expected shape.
func (p *VmpPMat) ReadFrom(r io.Reader) (n int64, err error) {
	return readLimbs(r, p.limbs())
}

// MarshalBinary encodes the receiver into a flat dump.
func (p *VmpPMat) MarshalBinary() (data []byte, err error) {
	return marshalLimbs(p.BinarySize(), p.limbs())
}

// UnmarshalBinary decodes a flat dump on the receiver.
func (p *VmpPMat) UnmarshalBinary(data []byte) (err error) {
	return unmarshalLimbs(data, p.BinarySize(), p.limbs())
}

// Digest returns the BLAKE3 hash of the flat dump of the receiver.
func (p *VmpPMat) Digest() [32]byte {
	return digestLimbs(p.limbs())
}
