package datasource

import "encoding/binary"

// MemorySource is a DataSource backed by an in-memory byte slice.
//
// ReadAt returns sub-slices of the backing array rather than copies, so
// callers must not mutate the returned slices.
type MemorySource struct {
	data []byte
}

// NewMemorySource wraps data as a DataSource. The slice is not copied.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

// Len returns the number of bytes in the backing slice.
func (m *MemorySource) Len() int64 {
	return int64(len(m.data))
}

// ReadAt returns a zero-copy sub-slice of the backing array.
func (m *MemorySource) ReadAt(offset, length int64) ([]byte, error) {
	if err := checkRange(offset, length, m.Len()); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

// ReadUint16At reads a 16-bit unsigned integer at offset using order.
func (m *MemorySource) ReadUint16At(offset int64, order binary.ByteOrder) (uint16, error) {
	return readUint16At(m, offset, order)
}

// ReadUint32At reads a 32-bit unsigned integer at offset using order.
func (m *MemorySource) ReadUint32At(offset int64, order binary.ByteOrder) (uint32, error) {
	return readUint32At(m, offset, order)
}

// Close is a no-op for MemorySource; there is no handle to release.
func (m *MemorySource) Close() error {
	return nil
}
