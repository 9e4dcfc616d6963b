// Package hal defines the buffer layouts, the scratch arena and the backend
// contract of the arithmetic core, together with the backend-independent
// operations on coefficient-domain vectors.
package hal

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/zeebo/blake3"

	"github.com/Pro7ech/poulpy/utils/buffer"
)

// Layouts is implemented by the backends and gives the number of 64-bit
// words used per coefficient by the backend-specific layouts.
type Layouts interface {
	// N returns the ring degree.
	N() int
	// BigWords returns the number of words per coefficient of a [VecZnxBig].
	BigWords() int
	// DftWords returns the number of words per coefficient of a [VecZnxDft].
	DftWords() int
}

// shape is the geometry shared by the limb layouts [col][limb][coeff * words].
type shape struct {
	N       int // ring degree
	Cols    int // number of columns
	Size    int // number of live limbs
	MaxSize int // number of allocated limbs per column
	Words   int // 64-bit words per coefficient
}

func newShape(n, cols, size, words int) shape {
	if n < 1 || n&(n-1) != 0 {
		panic(fmt.Errorf("invalid ring degree: N=%d must be a power of two", n))
	}
	if cols < 0 || size < 0 || words < 1 {
		panic(fmt.Errorf("invalid shape: cols=%d size=%d words=%d", cols, size, words))
	}
	return shape{N: n, Cols: cols, Size: size, MaxSize: size, Words: words}
}

// bufferSize returns the number of words of the backing array.
func (s shape) bufferSize() int {
	return s.N * s.Words * s.Cols * s.MaxSize
}

// limbLen returns the number of words of one limb.
func (s shape) limbLen() int {
	return s.N * s.Words
}

func (s shape) offset(col, limb int) int {
	if col < 0 || col >= s.Cols || limb < 0 || limb >= s.MaxSize {
		panic(fmt.Errorf("invalid index: col=%d limb=%d for cols=%d maxsize=%d", col, limb, s.Cols, s.MaxSize))
	}
	return (col*s.MaxSize + limb) * s.limbLen()
}

// SetSize sets the number of live limbs, which must not exceed MaxSize.
func (s *shape) SetSize(size int) {
	if size < 0 || size > s.MaxSize {
		panic(fmt.Errorf("invalid size: %d > maxsize=%d", size, s.MaxSize))
	}
	s.Size = size
}

func (s shape) binarySize() int {
	return s.Cols * s.Size * s.limbLen() * 8
}

func (s shape) checkCol(col int) {
	if col < 0 || col >= s.Cols {
		panic(fmt.Errorf("invalid column: %d not in [0, %d)", col, s.Cols))
	}
}

// The flat dump is the concatenation of the live limbs of all columns,
// as little-endian 64-bit words. The shape is not written.

func writeLimbs(w io.Writer, limbs iter.Seq[[]uint64]) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		for limb := range limbs {
			if inc, err = buffer.WriteUint64Slice(w, limb); err != nil {
				return n + inc, err
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return writeLimbs(bufio.NewWriter(w), limbs)
	}
}

func readLimbs(r io.Reader, limbs iter.Seq[[]uint64]) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		for limb := range limbs {
			if inc, err = buffer.ReadUint64Slice(r, limb); err != nil {
				return n + inc, err
			}
			n += inc
		}

		return

	default:
		return readLimbs(bufio.NewReader(r), limbs)
	}
}

func digestLimbs(limbs iter.Seq[[]uint64]) (digest [32]byte) {
	hasher := blake3.New()
	buf := make([]byte, 0, 4096)
	for limb := range limbs {
		for _, x := range limb {
			if len(buf)+8 > cap(buf) {
				hasher.Write(buf)
				buf = buf[:0]
			}
			buf = append(buf, byte(x), byte(x>>8), byte(x>>16), byte(x>>24), byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
		}
	}
	hasher.Write(buf)
	copy(digest[:], hasher.Sum(nil))
	return
}

func marshalLimbs(size int, limbs iter.Seq[[]uint64]) (data []byte, err error) {
	buf := buffer.NewBuffer(make([]byte, 0, size))
	_, err = writeLimbs(buf, limbs)
	return buf.Bytes(), err
}

func unmarshalLimbs(data []byte, size int, limbs iter.Seq[[]uint64]) (err error) {
	if len(data) != size {
		return fmt.Errorf("invalid data: len(data)=%d != %d", len(data), size)
	}
	_, err = readLimbs(buffer.NewBuffer(data), limbs)
	return
}
