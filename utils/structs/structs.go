// Package structs defines the capability interfaces shared by the buffer layouts.
package structs

import (
	"encoding"
	"io"
)

// Equatable is implemented by types that can be compared by value.
type Equatable[T any] interface {
	Equal(*T) bool
}

// Cloner is implemented by types that can allocate a deep copy of themselves.
type Cloner[V any] interface {
	Clone() *V
}

// Copyer is implemented by types that can copy the content of another object
// of the same shape into their own storage.
type Copyer[V any] interface {
	Copy(*V)
}

// BinarySizer is implemented by types that know the size in bytes of their flat dump.
type BinarySizer interface {
	BinarySize() int
}

// Digester is implemented by types that can hash their flat dump.
type Digester interface {
	Digest() [32]byte
}

// Serializable groups the flat dump interfaces of a buffer layout.
type Serializable interface {
	BinarySizer
	Digester
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}
