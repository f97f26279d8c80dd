// Package datasource provides random-access byte sources for DICOM parsing.
//
// Unlike dicom.Reader, which consumes an io.Reader sequentially, a DataSource
// supports reading from arbitrary offsets without disturbing a cursor. This
// backs lazy pixel-data resolution (value.LazyValue) and memory-mapped
// parsing, where an element's bytes are addressed by offset and length and
// only materialized when the caller actually asks for them.
package datasource

import "encoding/binary"

// DataSource is a random-access byte source of known, fixed length.
//
// Implementations must be safe for concurrent ReadAt calls from multiple
// goroutines; they need not be safe for concurrent Close calls alongside
// reads.
type DataSource interface {
	// Len returns the total size of the source in bytes.
	Len() int64

	// ReadAt returns exactly length bytes starting at offset.
	// Returns a *RangeError wrapping ErrOutOfRange if [offset, offset+length)
	// is not fully contained in [0, Len()).
	ReadAt(offset, length int64) ([]byte, error)

	// ReadUint16At reads a 16-bit unsigned integer at offset using order.
	ReadUint16At(offset int64, order binary.ByteOrder) (uint16, error)

	// ReadUint32At reads a 32-bit unsigned integer at offset using order.
	ReadUint32At(offset int64, order binary.ByteOrder) (uint32, error)

	// Close releases any resources held by the source (an open file handle,
	// for example). Sources backed purely by memory treat this as a no-op.
	Close() error
}

func checkRange(offset, length, size int64) error {
	if offset < 0 || length < 0 || offset+length > size {
		return &RangeError{Offset: offset, Length: length, Size: size}
	}
	return nil
}

func readUint16At(d DataSource, offset int64, order binary.ByteOrder) (uint16, error) {
	b, err := d.ReadAt(offset, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func readUint32At(d DataSource, offset int64, order binary.ByteOrder) (uint32, error) {
	b, err := d.ReadAt(offset, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}
