package datasource

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates that a requested read falls outside the bounds of the source.
	ErrOutOfRange = errors.New("read out of range")

	// ErrClosed indicates an operation was attempted on a closed source.
	ErrClosed = errors.New("data source closed")

	// ErrShortRead indicates fewer bytes were returned than requested, without reaching
	// the end of the underlying source (a torn read on a shared file handle, for example).
	ErrShortRead = errors.New("short read")
)

// RangeError wraps ErrOutOfRange with the offset/length that could not be satisfied
// against a source of the given size.
type RangeError struct {
	Offset, Length, Size int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: offset=%d length=%d size=%d", ErrOutOfRange.Error(), e.Offset, e.Length, e.Size)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}
