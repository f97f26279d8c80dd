package datasource

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

// FileSource is a DataSource backed by an open *os.File.
//
// os.File.ReadAt is individually safe for concurrent use, but this type
// additionally serializes reads behind a mutex: some callers fall back to
// Seek+Read for platforms or file types where ReadAt is unsupported, and
// mixing that fallback with concurrent ReadAt calls on the same handle is
// not safe. Serializing unconditionally keeps the implementation simple and
// correct rather than relying on every call site to avoid the fallback path.
type FileSource struct {
	mu     sync.Mutex
	f      *os.File
	size   int64
	closed bool
}

// NewFileSource opens path and returns a FileSource over its full contents.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datasource: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("datasource: stat %s: %w", path, err)
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

// Len returns the file size in bytes as of when the source was opened.
func (fs *FileSource) Len() int64 {
	return fs.size
}

// ReadAt reads length bytes starting at offset from the underlying file.
func (fs *FileSource) ReadAt(offset, length int64) ([]byte, error) {
	if err := checkRange(offset, length, fs.size); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return nil, ErrClosed
	}

	buf := make([]byte, length)
	n, err := fs.f.ReadAt(buf, offset)
	if err != nil {
		return nil, fmt.Errorf("datasource: read %d bytes at %d: %w", length, offset, err)
	}
	if int64(n) != length {
		return nil, fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrShortRead, n, length, offset)
	}
	return buf, nil
}

// ReadUint16At reads a 16-bit unsigned integer at offset using order.
func (fs *FileSource) ReadUint16At(offset int64, order binary.ByteOrder) (uint16, error) {
	return readUint16At(fs, offset, order)
}

// ReadUint32At reads a 32-bit unsigned integer at offset using order.
func (fs *FileSource) ReadUint32At(offset int64, order binary.ByteOrder) (uint32, error) {
	return readUint32At(fs, offset, order)
}

// Close closes the underlying file handle. Subsequent reads return ErrClosed.
func (fs *FileSource) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return nil
	}
	fs.closed = true
	return fs.f.Close()
}
