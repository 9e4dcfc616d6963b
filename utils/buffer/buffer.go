// Package buffer writes and reads flat dumps of 64-bit words through writers
// and readers that expose their internal buffers.
package buffer

import (
	"io"
)

// Writer is a writer exposing its internal buffer, such as [bufio.Writer] or [Buffer].
type Writer interface {
	io.Writer
	Flush() (err error)
	AvailableBuffer() []byte
	Available() int
}

// Reader is a reader exposing its internal buffer, such as [bufio.Reader] or [Buffer].
type Reader interface {
	io.Reader
	Size() int
	Peek(n int) ([]byte, error)
	Discard(n int) (discarded int, err error)
}

// Buffer is a bounded byte window over a caller-provided slice: the unread
// bytes are data[r:w] and the writable bytes are data[w:cap(data)].
// It never reallocates.
type Buffer struct {
	data []byte
	r, w int
}

// NewBuffer returns a [Buffer] whose unread bytes are data and whose
// writable bytes are the spare capacity of data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data[:cap(data)], w: len(data)}
}

// Write appends p to the unread bytes. It writes nothing and returns
// [io.ErrShortWrite] if p does not fit in the remaining capacity.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) > b.Available() {
		return 0, io.ErrShortWrite
	}
	n = copy(b.data[b.w:], p)
	b.w += n
	return
}

// Flush is a no-op.
func (b *Buffer) Flush() (err error) {
	return
}

// AvailableBuffer returns an empty slice backed by the writable bytes.
// It is only valid until the next write.
func (b *Buffer) AvailableBuffer() []byte {
	return b.data[b.w:b.w]
}

// Available returns the number of writable bytes.
func (b *Buffer) Available() int {
	return len(b.data) - b.w
}

// Bytes returns the unread bytes.
func (b *Buffer) Bytes() []byte {
	return b.data[b.r:b.w]
}

// Read consumes up to len(p) unread bytes into p.
func (b *Buffer) Read(p []byte) (n int, err error) {
	if b.r == b.w && len(p) > 0 {
		return 0, io.EOF
	}
	n = copy(p, b.data[b.r:b.w])
	b.r += n
	return
}

// Size returns the number of unread bytes.
func (b *Buffer) Size() int {
	return b.w - b.r
}

// Peek returns the next n unread bytes without consuming them, or all of
// them with [io.EOF] if fewer are left.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if n > b.Size() {
		return b.data[b.r:b.w], io.EOF
	}
	return b.data[b.r : b.r+n], nil
}

// Discard consumes the next n unread bytes.
func (b *Buffer) Discard(n int) (discarded int, err error) {
	if n > b.Size() {
		discarded = b.Size()
		b.r = b.w
		return discarded, io.EOF
	}
	b.r += n
	return n, nil
}
