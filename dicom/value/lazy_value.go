package value

import (
	"fmt"
	"sync"

	"github.com/codeninja55/go-radx/dicom/vr"
)

// Source is the minimal random-access byte source a LazyValue resolves
// itself against. dicom/datasource.DataSource satisfies this; it is
// re-declared here (rather than imported) for the same import-direction
// reason as ElementAccessor/SequenceItem: value sits below datasource's
// consumers in the graph and must not import back up to them.
type Source interface {
	ReadAt(offset, length int64) ([]byte, error)
}

// LazyValue is an unresolved element value: a byte range into a Source that
// has not yet been read. It is produced when a parser runs in a mode that
// defers materializing large or unneeded elements (pixel data, typically)
// and resolves to a concrete Value on first access.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
type LazyValue struct {
	valueVR vr.VR
	source  Source
	offset  int64
	length  int64

	mu       sync.Mutex
	resolved Value
	err      error
}

// NewLazyValue describes a value of the given VR occupying [offset,
// offset+length) in source, without reading it.
func NewLazyValue(valueVR vr.VR, source Source, offset, length int64) *LazyValue {
	return &LazyValue{valueVR: valueVR, source: source, offset: offset, length: length}
}

// VR returns the Value Representation this lazy value will resolve to.
func (l *LazyValue) VR() vr.VR {
	return l.valueVR
}

// Offset returns the byte offset of this value within its source.
func (l *LazyValue) Offset() int64 {
	return l.offset
}

// Length returns the byte length of this value within its source.
func (l *LazyValue) Length() int64 {
	return l.length
}

// Resolve reads the underlying bytes from the source and caches the result.
// Subsequent calls return the cached value without re-reading. Concurrent
// callers see exactly one read.
func (l *LazyValue) Resolve() (Value, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved != nil || l.err != nil {
		return l.resolved, l.err
	}

	raw, err := l.source.ReadAt(l.offset, l.length)
	if err != nil {
		l.err = fmt.Errorf("resolve lazy value at offset %d length %d: %w", l.offset, l.length, err)
		return nil, l.err
	}

	bv, err := NewBytesValue(l.valueVR, raw)
	if err != nil {
		l.err = err
		return nil, l.err
	}
	l.resolved = bv
	return l.resolved, nil
}

// Bytes resolves the value if necessary and returns its raw encoding.
// Returns nil if resolution fails; callers that need the error should call
// Resolve directly.
func (l *LazyValue) Bytes() []byte {
	v, err := l.Resolve()
	if err != nil {
		return nil
	}
	return v.Bytes()
}

// String resolves the value if necessary and returns its human-readable
// form, or a placeholder describing the unresolved range on failure.
func (l *LazyValue) String() string {
	v, err := l.Resolve()
	if err != nil {
		return fmt.Sprintf("<unresolved %s, %d bytes at offset %d: %v>", l.valueVR.String(), l.length, l.offset, err)
	}
	return v.String()
}

// Equals resolves both sides and compares the resolved values. Two
// LazyValues over the same unresolved range without a successful Resolve
// are never considered equal.
func (l *LazyValue) Equals(other Value) bool {
	v, err := l.Resolve()
	if err != nil {
		return false
	}
	if lv, ok := other.(*LazyValue); ok {
		ov, err := lv.Resolve()
		if err != nil {
			return false
		}
		return v.Equals(ov)
	}
	return v.Equals(other)
}

var _ Value = (*LazyValue)(nil)
