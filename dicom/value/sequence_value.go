package value

import (
	"fmt"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// ElementAccessor is the minimal read surface a nested sequence item's data
// elements must expose. element.Element satisfies this without any change,
// since it already has Tag/VR/Value methods with these exact signatures.
//
// This indirection exists so the value package, which sits below element and
// dicom in the import graph, can describe "a sequence contains items which
// contain elements" without importing either of them back.
type ElementAccessor interface {
	Tag() tag.Tag
	VR() vr.VR
	Value() Value
}

// SequenceItem is one dataset-shaped item nested inside a Sequence of Items
// (SQ) value. dicom.DataSet implements this interface.
type SequenceItem interface {
	Accessors() []ElementAccessor
}

// SequenceValue represents a DICOM Sequence of Items (SQ) value: zero or
// more nested items, each itself a dataset of elements.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type SequenceValue struct {
	items []SequenceItem
	// undefinedLength records whether the sequence was encoded with length
	// 0xFFFFFFFF (delimited by a Sequence Delimitation Item) rather than an
	// explicit byte length. Preserved so the writer can round-trip the
	// original encoding style.
	undefinedLength bool
}

// NewSequenceValue creates a SequenceValue from the given nested items, in
// order. A nil or empty slice represents an empty sequence.
func NewSequenceValue(items []SequenceItem, undefinedLength bool) *SequenceValue {
	return &SequenceValue{items: items, undefinedLength: undefinedLength}
}

// VR always returns vr.SequenceOfItems for a SequenceValue.
func (s *SequenceValue) VR() vr.VR {
	return vr.SequenceOfItems
}

// Items returns the nested items of this sequence, in encoded order.
func (s *SequenceValue) Items() []SequenceItem {
	return s.items
}

// UndefinedLength reports whether the sequence was parsed with an undefined
// (0xFFFFFFFF) length, delimited by item/sequence delimitation tags instead
// of an explicit byte count.
func (s *SequenceValue) UndefinedLength() bool {
	return s.undefinedLength
}

// Bytes is not meaningful for a SequenceValue: a sequence has no flat byte
// encoding of its own, only a structural one built by walking its items.
// The writer constructs the on-wire encoding directly from Items rather than
// calling Bytes, matching how Explicit VR length fields for SQ never carry a
// value-length the way other VRs do.
func (s *SequenceValue) Bytes() []byte {
	return []byte{}
}

// String returns a human-readable summary of the sequence.
func (s *SequenceValue) String() string {
	return fmt.Sprintf("Sequence of %d item(s)", len(s.items))
}

// Equals returns true if this sequence equals another sequence: same number
// of items, each with the same tags/VRs/values in the same order.
func (s *SequenceValue) Equals(other Value) bool {
	otherSeq, ok := other.(*SequenceValue)
	if !ok {
		return false
	}
	if len(s.items) != len(otherSeq.items) {
		return false
	}
	for i, item := range s.items {
		a := item.Accessors()
		b := otherSeq.items[i].Accessors()
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j].Tag() != b[j].Tag() || a[j].VR() != b[j].VR() {
				return false
			}
			if !a[j].Value().Equals(b[j].Value()) {
				return false
			}
		}
	}
	return true
}

var _ Value = (*SequenceValue)(nil)
