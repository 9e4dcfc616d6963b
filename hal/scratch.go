package hal

import (
	"fmt"
	"unsafe"

	"github.com/Pro7ech/poulpy/utils"
)

// ScratchAlign is the alignment in bytes of every view taken from a [Scratch].
const ScratchAlign = 64

const scratchAlignWords = ScratchAlign / 8

// Scratch is a pre-sized arena from which operations take their temporaries.
// A take returns the view and a new Scratch holding the remainder: the
// receiver is left untouched, so views taken from the same receiver overlap
// and the caller must thread the remainder through nested calls.
// A Scratch never grows and is not safe for concurrent use.
type Scratch struct {
	data []uint64
}

// NewScratch allocates an arena with at least the given number of bytes available.
func NewScratch(bytes int) *Scratch {
	words := utils.AlignUp(max(bytes, 0), ScratchAlign) >> 3
	return ScratchFromBuffer(make([]uint64, words+scratchAlignWords))
}

// ScratchFromBuffer returns an arena backed by buf, starting at the first
// 64-byte aligned word of buf.
func ScratchFromBuffer(buf []uint64) *Scratch {
	if len(buf) == 0 {
		return &Scratch{}
	}
	/* #nosec G103 -- behavior and consequences well understood, address inspection */
	addr := uintptr(unsafe.Pointer(&buf[0]))
	skip := int((ScratchAlign-addr%ScratchAlign)%ScratchAlign) >> 3
	if skip > len(buf) {
		skip = len(buf)
	}
	return &Scratch{data: buf[skip:]}
}

// Available returns the number of bytes left in the arena.
func (s *Scratch) Available() int {
	return len(s.data) << 3
}

// bytesOf returns the arena bytes consumed by a take of the given number of words.
func bytesOf(words int) int {
	return utils.AlignUp(words, scratchAlignWords) << 3
}

// TakeUint64s returns a view of n words and the remaining arena.
// Method panics if the arena is too small.
func (s *Scratch) TakeUint64s(n int) ([]uint64, *Scratch) {
	if n < 0 {
		panic(fmt.Errorf("invalid take: n=%d < 0", n))
	}
	consumed := bytesOf(n) >> 3
	if consumed > len(s.data) {
		panic(fmt.Errorf("invalid scratch: take of %d bytes > available=%d bytes", consumed<<3, s.Available()))
	}
	return s.data[:n:n], &Scratch{data: s.data[consumed:]}
}

// TakeInt64s returns a view of n int64 and the remaining arena.
func (s *Scratch) TakeInt64s(n int) ([]int64, *Scratch) {
	buf, rem := s.TakeUint64s(n)
	return utils.Int64s(buf), rem
}

// TakeFloat64s returns a view of n float64 and the remaining arena.
func (s *Scratch) TakeFloat64s(n int) ([]float64, *Scratch) {
	buf, rem := s.TakeUint64s(n)
	return utils.Float64s(buf), rem
}

// TakeVecZnx returns a [VecZnx] view and the remaining arena.
// The content of the view is not zeroed.
func (s *Scratch) TakeVecZnx(n, cols, size int) (*VecZnx, *Scratch) {
	buf, rem := s.TakeInt64s(VecZnxBufferSize(n, cols, size))
	return VecZnxFromBuffer(n, cols, size, buf), rem
}

// TakeVecZnxBig returns a [VecZnxBig] view and the remaining arena.
// The content of the view is not zeroed.
func (s *Scratch) TakeVecZnxBig(m Layouts, cols, size int) (*VecZnxBig, *Scratch) {
	buf, rem := s.TakeUint64s(VecZnxBigBufferSize(m, cols, size))
	return VecZnxBigFromBuffer(m, cols, size, buf), rem
}

// TakeVecZnxDft returns a [VecZnxDft] view and the remaining arena.
// The content of the view is not zeroed.
func (s *Scratch) TakeVecZnxDft(m Layouts, cols, size int) (*VecZnxDft, *Scratch) {
	buf, rem := s.TakeUint64s(VecZnxDftBufferSize(m, cols, size))
	return VecZnxDftFromBuffer(m, cols, size, buf), rem
}

// VecZnxBytes returns the arena bytes consumed by [Scratch.TakeVecZnx].
func VecZnxBytes(n, cols, size int) int {
	return bytesOf(VecZnxBufferSize(n, cols, size))
}

// VecZnxBigBytes returns the arena bytes consumed by [Scratch.TakeVecZnxBig].
func VecZnxBigBytes(m Layouts, cols, size int) int {
	return bytesOf(VecZnxBigBufferSize(m, cols, size))
}

// VecZnxDftBytes returns the arena bytes consumed by [Scratch.TakeVecZnxDft].
func VecZnxDftBytes(m Layouts, cols, size int) int {
	return bytesOf(VecZnxDftBufferSize(m, cols, size))
}
