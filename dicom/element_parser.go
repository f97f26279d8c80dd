// Package dicom provides DICOM file parsing and manipulation.
package dicom

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/codeninja55/go-radx/dicom/charset"
	"github.com/codeninja55/go-radx/dicom/datasource"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
)

// specificCharacterSetTag is (0008,0005), whose value selects the decoders
// used for every PN/LO/LT/SH/ST/UC/UT element that follows it in the
// stream. Always encoded in the default repertoire itself.
var specificCharacterSetTag = tag.New(0x0008, 0x0005)

// ElementParser reads individual DICOM data elements from a binary stream.
//
// It handles both Explicit VR and Implicit VR encoding based on the Transfer Syntax.
// Element structure varies by VR:
//   - Explicit VR (most VRs): Tag(4) + VR(2) + Length(2) + Value(n)
//   - Explicit VR (OB/OW/SQ/etc): Tag(4) + VR(2) + Reserved(2) + Length(4) + Value(n)
//   - Implicit VR: Tag(4) + Length(4) + Value(n), VR looked up in dictionary
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
type ElementParser struct {
	reader *Reader
	ts     *TransferSyntax
	// depth counts the nesting level of sequences currently being parsed.
	// Incremented on entry to readSequenceDefinedLength/readSequenceUndefinedLength
	// and decremented on exit, guarding against pathologically (or maliciously)
	// deep SQ nesting.
	depth int
	// lazyPixelDataSource, when non-nil, causes a defined-length Pixel Data
	// (7FE0,0010) element to be skipped rather than read into memory; its
	// bytes are resolved later from this source on first access. Set only
	// under ModeLazyPixelData, where the caller has an independent
	// random-access handle onto the same stream.
	lazyPixelDataSource datasource.DataSource
	// charsetSystem holds the decoders selected by the most recently seen
	// (0008,0005) Specific Character Set element of the current data set or
	// an enclosing one. Zero value decodes nothing, i.e. the DICOM default
	// repertoire.
	charsetSystem charset.CodingSystem
}

// maxSequenceDepth caps how many levels of nested Sequence of Items (SQ)
// values ReadElement will recurse into before giving up with
// ErrSequenceDepthExceeded. DICOM datasets in practice rarely nest more than
// a handful of levels deep (e.g. Referenced Image Sequence inside Request
// Attributes Sequence); 32 is generous headroom over that without letting a
// malformed stream recurse indefinitely.
const maxSequenceDepth = 32

// Sequence/item delimiter tag values (group FFFE), shared by all of the
// sequence- and item-boundary parsing below.
const (
	itemTagMarker                 = uint32(0xFFFEE000) // Item
	itemDelimitationTagMarker     = uint32(0xFFFEE00D) // Item Delimitation Item
	sequenceDelimitationTagMarker = uint32(0xFFFEE0DD) // Sequence Delimitation Item
)

// NewElementParser creates a new element parser with the specified reader and transfer syntax.
func NewElementParser(reader *Reader, ts *TransferSyntax) *ElementParser {
	return &ElementParser{
		reader: reader,
		ts:     ts,
	}
}

// SetLazyPixelDataSource enables lazy Pixel Data parsing: a subsequent
// defined-length (7FE0,0010) element is skipped instead of read, and its
// value becomes a *value.LazyValue resolved against src on first access.
func (p *ElementParser) SetLazyPixelDataSource(src datasource.DataSource) {
	p.lazyPixelDataSource = src
}

// ReadElement reads the next data element from the stream.
//
// Returns an error if the element cannot be parsed or if the stream ends unexpectedly.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
func (p *ElementParser) ReadElement() (*element.Element, error) {
	// Read tag (4 bytes: group + element)
	t, err := p.readTag()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag: %w", err)
	}

	return p.readElementAfterTag(t)
}

// readElementAfterTag reads the VR, length, and value of a data element whose
// tag has already been consumed from the stream. Factored out of ReadElement
// so sequence item parsing, which must inspect a tag before deciding whether
// it is a data element or an Item/Item Delimitation marker, can reuse the
// same VR/length/value dispatch.
func (p *ElementParser) readElementAfterTag(t tag.Tag) (*element.Element, error) {
	// Read VR based on transfer syntax
	var v vr.VR
	var length uint32
	var err error

	if p.ts.ExplicitVR {
		// Explicit VR: VR is in the file
		v, err = p.readVRExplicit()
		if err != nil {
			return nil, fmt.Errorf("failed to read VR for tag %s: %w", t, err)
		}

		// Read length (2 or 4 bytes depending on VR)
		length, err = p.readLength(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read length for tag %s: %w", t, err)
		}
	} else {
		// Implicit VR: VR must be looked up from tag dictionary
		v, err = p.readVRImplicit(t)
		if err != nil {
			return nil, fmt.Errorf("failed to look up VR for tag %s: %w", t, err)
		}

		// For Implicit VR, length is always 4 bytes
		length, err = p.reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read length for tag %s: %w", t, err)
		}
	}

	// Read value based on VR type
	val, err := p.readValue(t, v, length)
	if err != nil {
		return nil, fmt.Errorf("failed to read value for tag %s: %w", t, err)
	}

	// Create and return element
	elem, err := element.NewElement(t, v, val)
	if err != nil {
		return nil, fmt.Errorf("failed to create element for tag %s: %w", t, err)
	}

	if t.Equals(specificCharacterSetTag) {
		if err := p.updateCharsetSystem(elem); err != nil {
			return nil, err
		}
	}

	return elem, nil
}

// updateCharsetSystem replaces the decoders used for subsequent
// PN/LO/LT/SH/ST/UC/UT elements with those named by a (0008,0005) element
// just read. A Specific Character Set value this package cannot map to a
// golang.org/x/text encoding is reported rather than silently ignored,
// since decoding everything after it as the default repertoire would
// corrupt every affected string that follows.
func (p *ElementParser) updateCharsetSystem(elem *element.Element) error {
	sv, ok := elem.Value().(*value.StringValue)
	if !ok {
		return fmt.Errorf("Specific Character Set element has non-string value")
	}

	cs, err := charset.Parse(sv.Strings())
	if err != nil {
		return fmt.Errorf("failed to parse Specific Character Set %v: %w", sv.Strings(), err)
	}

	p.charsetSystem = cs
	return nil
}

// readTag reads a DICOM tag (group and element).
func (p *ElementParser) readTag() (tag.Tag, error) {
	// Read group (2 bytes)
	group, err := p.reader.ReadUint16()
	if err != nil {
		return tag.Tag{}, fmt.Errorf("failed to read tag group: %w", err)
	}

	// Read element (2 bytes)
	elem, err := p.reader.ReadUint16()
	if err != nil {
		return tag.Tag{}, fmt.Errorf("failed to read tag element: %w", err)
	}

	return tag.New(group, elem), nil
}

// readVRExplicit reads a 2-byte VR in Explicit VR encoding.
func (p *ElementParser) readVRExplicit() (vr.VR, error) {
	// Read 2-byte VR string
	vrStr, err := p.reader.ReadString(2)
	if err != nil {
		return 0, fmt.Errorf("failed to read VR: %w", err)
	}

	// Parse VR string
	v, err := vr.Parse(vrStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVR, vrStr)
	}

	return v, nil
}

// readVRImplicit looks up the VR for a tag from the DICOM data dictionary.
// This is used for Implicit VR transfer syntaxes where VR is not encoded in the file.
//
// For tags with multiple possible VRs (e.g., PixelData can be "OB or OW"),
// this returns the first VR in the list as the default.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (p *ElementParser) readVRImplicit(t tag.Tag) (vr.VR, error) {
	// Look up tag in dictionary
	info, err := tag.Find(t)
	if err != nil {
		// Tag not in dictionary - use UN (Unknown) as fallback
		return vr.Unknown, nil
	}

	// Return first VR (for tags with multiple VRs like "OB or OW", use the first one)
	if len(info.VRs) == 0 {
		return vr.Unknown, nil
	}

	return info.VRs[0], nil
}

// readLength reads the value length field.
//
// Length encoding depends on VR:
//   - Most VRs: 2-byte uint16
//   - OB, OD, OF, OL, OV, OW, SQ, UC, UN, UR, UT: 2-byte reserved (0x0000) + 4-byte uint32
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (p *ElementParser) readLength(v vr.VR) (uint32, error) {
	// Check if this VR uses 32-bit length field
	if v.UsesExplicitLength32() {
		// Read 2-byte reserved field (must be 0x0000)
		reserved, err := p.reader.ReadUint16()
		if err != nil {
			return 0, fmt.Errorf("failed to read reserved field: %w", err)
		}
		if reserved != 0x0000 {
			// Not strictly an error per standard, but log for debugging
			// Standard says it "should" be 0x0000 but implementations may vary
		}

		// Read 4-byte length
		length, err := p.reader.ReadUint32()
		if err != nil {
			return 0, fmt.Errorf("failed to read 32-bit length: %w", err)
		}

		return length, nil
	}

	// Read 2-byte length for standard VRs
	length16, err := p.reader.ReadUint16()
	if err != nil {
		return 0, fmt.Errorf("failed to read 16-bit length: %w", err)
	}

	return uint32(length16), nil
}

// readValue reads and parses the value field based on VR type.
func (p *ElementParser) readValue(t tag.Tag, v vr.VR, length uint32) (value.Value, error) {
	// Handle empty values
	if length == 0 {
		return p.createEmptyValue(v)
	}

	// Handle undefined length (0xFFFFFFFF)
	if length == 0xFFFFFFFF {
		// Sequences are delimited by Sequence Delimitation Item (FFFE,E0DD)
		// rather than carrying an explicit byte length.
		if v == vr.SequenceOfItems {
			return p.readSequenceUndefinedLength(t)
		}

		// Handle encapsulated pixel data (OB/OW with undefined length)
		// This is used for compressed transfer syntaxes (JPEG, JPEG 2000, RLE, etc.)
		// Per DICOM Part 5, Section A.4: encapsulated data uses undefined length
		// with fragments: Item (FFFE,E000) + data, terminated by Sequence Delimitation (FFFE,E0DD)
		//
		// DICOM Standard Reference:
		// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
		if (v == vr.OtherByte || v == vr.OtherWord) && t.Group == 0x7FE0 && t.Element == 0x0010 {
			return p.skipEncapsulatedPixelData(t, v)
		}

		return nil, fmt.Errorf("%w: undefined length for non-sequence VR %s", ErrUndefinedLength, v.String())
	}

	// Dispatch to VR-specific reader
	// Check sequences first, then float types before numeric types (floats are also numeric)
	switch {
	case v == vr.SequenceOfItems:
		return p.readSequenceDefinedLength(t, length)
	case p.lazyPixelDataSource != nil && t.Group == 0x7FE0 && t.Element == 0x0010:
		return p.readLazyPixelData(v, length)
	case v.IsStringType():
		return p.readStringValue(v, length)
	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return p.readFloatValue(v, length)
	case v.IsNumericType():
		return p.readIntValue(v, length)
	case v.IsBinaryType():
		return p.readBytesValue(v, length)
	default:
		// Unknown VR, read as bytes
		return p.readBytesValue(vr.Unknown, length)
	}
}

// readLazyPixelData records the current stream offset, skips length bytes
// without retaining them, and returns a value.LazyValue describing that
// range. The range is resolved against lazyPixelDataSource, an independent
// handle onto the same underlying bytes, the first time the value is read.
func (p *ElementParser) readLazyPixelData(v vr.VR, length uint32) (value.Value, error) {
	offset := p.reader.Position()
	if err := p.reader.Skip(int(length)); err != nil {
		return nil, fmt.Errorf("failed to skip lazy pixel data: %w", err)
	}
	return value.NewLazyValue(v, p.lazyPixelDataSource, offset, int64(length)), nil
}

// createEmptyValue creates an empty value for the given VR.
func (p *ElementParser) createEmptyValue(v vr.VR) (value.Value, error) {
	switch {
	case v == vr.SequenceOfItems:
		return value.NewSequenceValue(nil, false), nil
	case v.IsStringType():
		return value.NewStringValue(v, []string{})
	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return value.NewFloatValue(v, []float64{})
	case v.IsNumericType():
		return value.NewIntValue(v, []int64{})
	case v.IsBinaryType():
		return value.NewBytesValue(v, []byte{})
	default:
		return value.NewBytesValue(vr.Unknown, []byte{})
	}
}

// readStringValue reads a string-based VR value.
//
// DICOM strings may contain multiple values separated by backslash (\).
// String values are space-padded for even length and may have trailing nulls for UI.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readStringValue(v vr.VR, length uint32) (*value.StringValue, error) {
	// Read raw bytes
	data, err := p.reader.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read string data: %w", err)
	}

	str, err := p.decodeStringBytes(v, data)
	if err != nil {
		return nil, err
	}

	// Trim trailing null and space padding
	str = strings.TrimRight(str, "\x00 ")

	// Split by backslash for multi-valued elements
	var values []string
	if str == "" {
		values = []string{}
	} else {
		values = strings.Split(str, "\\")
	}

	// Create string value
	val, err := value.NewStringValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create string value: %w", err)
	}

	return val, nil
}

// decodeStringBytes converts raw to a string, applying the decoders from
// the most recently seen Specific Character Set element when v is one of
// the affected VRs (PN, LO, LT, SH, ST, UC, UT). PN additionally splits on
// '=' into its Alphabetic/Ideographic/Phonetic groups (PS3.5 Section 6.2),
// decoding each with its own component decoder. Every other VR is assumed
// to be in the default repertoire and passed through unchanged.
func (p *ElementParser) decodeStringBytes(v vr.VR, raw []byte) (string, error) {
	if !charset.IsAffectedVR(v.String()) {
		return string(raw), nil
	}

	if v != vr.PersonName {
		return p.charsetSystem.DecodeText(raw)
	}

	groups := strings.SplitN(string(raw), "=", 3)
	components := []charset.Component{charset.Alphabetic, charset.Ideographic, charset.Phonetic}
	decoded := make([]string, len(groups))
	for i, group := range groups {
		s, err := p.charsetSystem.DecodePersonName([]byte(group), components[i])
		if err != nil {
			return "", err
		}
		decoded[i] = s
	}
	return strings.Join(decoded, "="), nil
}

// readIntValue reads an integer VR value.
//
// Handles: SS (int16), US (uint16), SL (int32), UL (uint32), SV (int64), UV (uint64), AT (tag)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readIntValue(v vr.VR, length uint32) (*value.IntValue, error) {
	var values []int64

	// Determine bytes per value
	var bytesPerValue int
	switch v {
	case vr.SignedShort, vr.UnsignedShort:
		bytesPerValue = 2
	case vr.SignedLong, vr.UnsignedLong, vr.AttributeTag:
		bytesPerValue = 4
	case vr.SignedVeryLong, vr.UnsignedVeryLong:
		bytesPerValue = 8
	default:
		return nil, fmt.Errorf("unsupported integer VR: %s", v.String())
	}

	// Calculate number of values
	numValues := int(length) / bytesPerValue
	if int(length)%bytesPerValue != 0 {
		return nil, fmt.Errorf("invalid length %d for VR %s (not multiple of %d)", length, v.String(), bytesPerValue)
	}

	// Read each value
	for i := 0; i < numValues; i++ {
		var val int64

		switch v {
		case vr.SignedShort:
			u16, err := p.reader.ReadUint16()
			if err != nil {
				return nil, err
			}
			val = int64(int16(u16))

		case vr.UnsignedShort:
			u16, err := p.reader.ReadUint16()
			if err != nil {
				return nil, err
			}
			val = int64(u16)

		case vr.SignedLong:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(int32(u32))

		case vr.UnsignedLong:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(u32)

		case vr.AttributeTag:
			u32, err := p.reader.ReadUint32()
			if err != nil {
				return nil, err
			}
			val = int64(u32)

		case vr.SignedVeryLong:
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			val = int64(p.ts.ByteOrder.Uint64(data))

		case vr.UnsignedVeryLong:
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			val = int64(p.ts.ByteOrder.Uint64(data))
		}

		values = append(values, val)
	}

	// Create int value
	intVal, err := value.NewIntValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create int value: %w", err)
	}

	return intVal, nil
}

// readFloatValue reads a floating-point VR value.
//
// Handles: FL (float32), FD (float64)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readFloatValue(v vr.VR, length uint32) (*value.FloatValue, error) {
	var values []float64

	// Determine bytes per value
	var bytesPerValue int
	switch v {
	case vr.FloatingPointSingle:
		bytesPerValue = 4
	case vr.FloatingPointDouble:
		bytesPerValue = 8
	default:
		return nil, fmt.Errorf("unsupported float VR: %s", v.String())
	}

	// Calculate number of values
	numValues := int(length) / bytesPerValue
	if int(length)%bytesPerValue != 0 {
		return nil, fmt.Errorf("invalid length %d for VR %s (not multiple of %d)", length, v.String(), bytesPerValue)
	}

	// Read each value
	for i := 0; i < numValues; i++ {
		if v == vr.FloatingPointSingle {
			// Read float32
			data, err := p.reader.ReadBytes(4)
			if err != nil {
				return nil, err
			}
			bits := p.ts.ByteOrder.Uint32(data)
			f32 := math.Float32frombits(bits)
			values = append(values, float64(f32))
		} else {
			// Read float64
			data, err := p.reader.ReadBytes(8)
			if err != nil {
				return nil, err
			}
			bits := p.ts.ByteOrder.Uint64(data)
			f64 := math.Float64frombits(bits)
			values = append(values, f64)
		}
	}

	// Create float value
	floatVal, err := value.NewFloatValue(v, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create float value: %w", err)
	}

	return floatVal, nil
}

// readBytesValue reads a binary VR value.
//
// Handles: OB, OD, OF, OL, OV, OW, UN
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
func (p *ElementParser) readBytesValue(v vr.VR, length uint32) (*value.BytesValue, error) {
	// Read raw bytes
	data, err := p.reader.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("failed to read binary data: %w", err)
	}

	// Create bytes value
	bytesVal, err := value.NewBytesValue(v, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create bytes value: %w", err)
	}

	return bytesVal, nil
}

// readSequenceDefinedLength parses a Sequence of Items (SQ) value whose byte
// length is known in advance, recursing into each item's nested elements.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
func (p *ElementParser) readSequenceDefinedLength(sequenceTag tag.Tag, length uint32) (value.Value, error) {
	if p.depth >= maxSequenceDepth {
		return nil, fmt.Errorf("%w: sequence %s at depth %d", ErrSequenceDepthExceeded, sequenceTag, p.depth)
	}
	p.depth++
	defer func() { p.depth-- }()

	if length == 0 {
		return value.NewSequenceValue(nil, false), nil
	}

	var items []value.SequenceItem
	startPos := p.reader.Position()
	var bytesRead uint32

	for bytesRead < length {
		itemDS, err := p.readOneItem(sequenceTag)
		if err != nil {
			return nil, err
		}
		items = append(items, itemDS)
		bytesRead = uint32(p.reader.Position() - startPos)
	}

	return value.NewSequenceValue(items, false), nil
}

// readSequenceUndefinedLength parses a Sequence of Items (SQ) value that is
// delimited by a Sequence Delimitation Item (FFFE,E0DD) rather than an
// explicit byte length.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
func (p *ElementParser) readSequenceUndefinedLength(sequenceTag tag.Tag) (value.Value, error) {
	if p.depth >= maxSequenceDepth {
		return nil, fmt.Errorf("%w: sequence %s at depth %d", ErrSequenceDepthExceeded, sequenceTag, p.depth)
	}
	p.depth++
	defer func() { p.depth-- }()

	var items []value.SequenceItem

	for {
		t, err := p.readTag()
		if err != nil {
			return nil, fmt.Errorf("unexpected EOF while reading sequence %s: %w", sequenceTag, err)
		}

		if t.Uint32() == sequenceDelimitationTagMarker {
			if _, err := p.reader.ReadUint32(); err != nil {
				return nil, fmt.Errorf("failed to read sequence delimitation length: %w", err)
			}
			return value.NewSequenceValue(items, true), nil
		}

		if t.Uint32() != itemTagMarker {
			return nil, fmt.Errorf("unexpected tag %s in sequence %s (expected Item or Sequence Delimitation)", t, sequenceTag)
		}

		itemDS, err := p.readItemAfterTag(sequenceTag)
		if err != nil {
			return nil, err
		}
		items = append(items, itemDS)
	}
}

// readOneItem reads an Item tag (FFFE,E000) followed by its length, then
// dispatches to the defined- or undefined-length item reader.
func (p *ElementParser) readOneItem(sequenceTag tag.Tag) (*DataSet, error) {
	t, err := p.readTag()
	if err != nil {
		return nil, fmt.Errorf("failed to read item tag in sequence %s: %w", sequenceTag, err)
	}
	if t.Uint32() != itemTagMarker {
		return nil, fmt.Errorf("unexpected tag %s in sequence %s (expected Item)", t, sequenceTag)
	}
	return p.readItemAfterTag(sequenceTag)
}

// readItemAfterTag reads an item's length (the Item tag itself having already
// been consumed) and parses its contents.
func (p *ElementParser) readItemAfterTag(sequenceTag tag.Tag) (*DataSet, error) {
	// A (0008,0005) inside the item applies to the item only; the enclosing
	// data set's character set is restored once the item ends.
	enclosingCharset := p.charsetSystem
	defer func() { p.charsetSystem = enclosingCharset }()

	itemLength, err := p.reader.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("failed to read item length in sequence %s: %w", sequenceTag, err)
	}

	if itemLength == 0xFFFFFFFF {
		return p.readItemUndefinedLength()
	}
	return p.readItemDefinedLength(itemLength)
}

// readItemDefinedLength parses one sequence item's data elements from a known
// byte length.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
func (p *ElementParser) readItemDefinedLength(itemLength uint32) (*DataSet, error) {
	ds := NewDataSet()
	if itemLength == 0 {
		return ds, nil
	}

	startPos := p.reader.Position()
	var bytesRead uint32
	for bytesRead < itemLength {
		elem, err := p.ReadElement()
		if err != nil {
			return nil, fmt.Errorf("failed to read item element: %w", err)
		}
		ds.Add(elem)
		bytesRead = uint32(p.reader.Position() - startPos)
	}
	return ds, nil
}

// readItemUndefinedLength parses one sequence item's data elements until an
// Item Delimitation Item (FFFE,E00D) is reached.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
func (p *ElementParser) readItemUndefinedLength() (*DataSet, error) {
	ds := NewDataSet()

	for {
		t, err := p.readTag()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read tag while reading item: %w", err)
		}

		if t.Uint32() == itemDelimitationTagMarker {
			if _, err := p.reader.ReadUint32(); err != nil {
				return nil, fmt.Errorf("failed to read item delimitation length: %w", err)
			}
			return ds, nil
		}

		elem, err := p.readElementAfterTag(t)
		if err != nil {
			return nil, fmt.Errorf("failed to read item element: %w", err)
		}
		ds.Add(elem)
	}
}

// skipEncapsulatedPixelData reads encapsulated pixel data with undefined length.
//
// Encapsulated pixel data is used for compressed transfer syntaxes (JPEG, JPEG 2000, RLE, etc.)
// and uses a structure similar to sequences:
//   - Basic Offset Table: Item (FFFE,E000) + length + data (may be empty)
//   - Pixel Data Fragments: One or more Item (FFFE,E000) + length + compressed data
//   - Sequence Delimitation Item (FFFE,E0DD) with length 0
//
// This function reads all fragments and stores them as raw bytes in encapsulated format.
// The pixel module will later parse and decompress this data.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func (p *ElementParser) skipEncapsulatedPixelData(pixelDataTag tag.Tag, pixelVR vr.VR) (value.Value, error) {
	// Delimiter tags
	const (
		itemTag                 = uint32(0xFFFEE000) // Item
		sequenceDelimitationTag = uint32(0xFFFEE0DD) // Sequence Delimitation Item
	)

	// Buffer to collect all encapsulated data (including item tags and lengths)
	var encapsulatedData []byte

	for {
		// Read next tag
		t, err := p.readTag()
		if err != nil {
			return nil, fmt.Errorf("unexpected EOF while reading encapsulated pixel data %s: %w", pixelDataTag, err)
		}

		tagValue := t.Uint32()

		// Check for sequence delimitation (end of encapsulated data)
		if tagValue == sequenceDelimitationTag {
			// Read and discard length (should be 0)
			_, err = p.reader.ReadUint32()
			if err != nil {
				return nil, fmt.Errorf("failed to read sequence delimitation length: %w", err)
			}

			// Add sequence delimitation tag to encapsulated data
			encapsulatedData = append(encapsulatedData, 0xFE, 0xFF, 0xDD, 0xE0)
			encapsulatedData = append(encapsulatedData, 0x00, 0x00, 0x00, 0x00) // length = 0

			// Return bytes value with all encapsulated data
			return value.NewBytesValue(pixelVR, encapsulatedData)
		}

		// Should only encounter Item tags in encapsulated pixel data
		if tagValue != itemTag {
			return nil, fmt.Errorf("unexpected tag %s while reading encapsulated pixel data (expected Item or Sequence Delimitation)", t)
		}

		// Read item length (4 bytes)
		itemLength, err := p.reader.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("failed to read item length: %w", err)
		}

		// Add item tag to encapsulated data
		encapsulatedData = append(encapsulatedData, 0xFE, 0xFF, 0x00, 0xE0)

		// Add item length (little-endian uint32)
		encapsulatedData = append(encapsulatedData,
			byte(itemLength&0xFF),
			byte((itemLength>>8)&0xFF),
			byte((itemLength>>16)&0xFF),
			byte((itemLength>>24)&0xFF))

		// Read and append the item data
		if itemLength > 0 {
			itemData, err := p.reader.ReadBytes(int(itemLength))
			if err != nil {
				return nil, fmt.Errorf("failed to read item data (%d bytes): %w", itemLength, err)
			}
			encapsulatedData = append(encapsulatedData, itemData...)
		}
	}
}
