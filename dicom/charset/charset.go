// Package charset decodes the string VRs affected by the (0008,0005)
// Specific Character Set element (PS3.5 Section 6.1.2.3): PN, LO, LT, SH,
// ST, UC, and UT. Values are stored on disk as raw bytes in whatever
// character repertoire the dataset's Specific Character Set names; every
// other string VR (UI, CS, AE, DA, TM, ...) is constrained to the DICOM
// default character repertoire and is never charset-decoded.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// CodingSystem holds the decoder for each of the (up to) three components
// of a PN value: Alphabetic, Ideographic, and Phonetic (PS3.5 Section 6.2).
// For single-byte character sets all three fields hold the same decoder.
// A nil decoder means the DICOM default repertoire (7-bit ASCII), which
// needs no transcoding.
type CodingSystem struct {
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// Component selects which of CodingSystem's three decoders applies.
type Component int

const (
	Alphabetic Component = iota
	Ideographic
	Phonetic
)

// Decoder returns the decoder for the requested component, or nil for the
// default repertoire.
func (cs CodingSystem) Decoder(c Component) *encoding.Decoder {
	switch c {
	case Ideographic:
		return cs.Ideographic
	case Phonetic:
		return cs.Phonetic
	default:
		return cs.Alphabetic
	}
}

// isoIRToHTMLIndex maps a DICOM Specific Character Set value (PS3.3 C.12.1.1.2)
// to the name golang.org/x/text/encoding/htmlindex.Get expects. An empty
// string means the DICOM default repertoire: no decoder needed.
var isoIRToHTMLIndex = map[string]string{
	"":                "",
	"ISO_IR 6":        "",
	"ISO 2022 IR 6":   "",
	"ISO_IR 100":      "iso-8859-1",
	"ISO 2022 IR 100": "iso-8859-1",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO_IR 13":       "shift_jis",
	"ISO 2022 IR 13":  "shift_jis",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO 2022 IR 149": "euc-kr",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO_IR 192":      "utf-8",
	"GB18030":         "gb18030",
	"GBK":             "gbk",
}

// Parse builds a CodingSystem from the (possibly multi-valued) contents of
// (0008,0005). A single value applies to all three PN components; two
// values assign the first to Alphabetic and the second to both Ideographic
// and Phonetic; three assign one decoder per component, matching how
// PS3.5 Section 6.2 describes multi-component Specific Character Set
// values for Japanese and Korean names.
func Parse(values []string) (CodingSystem, error) {
	var decoders []*encoding.Decoder
	for _, name := range values {
		d, err := decoderFor(name)
		if err != nil {
			return CodingSystem{}, err
		}
		decoders = append(decoders, d)
	}

	switch len(decoders) {
	case 0:
		return CodingSystem{}, nil
	case 1:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[0], Phonetic: decoders[0]}, nil
	case 2:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[1]}, nil
	default:
		return CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[2]}, nil
	}
}

func decoderFor(name string) (*encoding.Decoder, error) {
	htmlName, ok := isoIRToHTMLIndex[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("charset: unrecognized Specific Character Set value %q", name)
	}
	if htmlName == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(htmlName)
	if err != nil {
		return nil, fmt.Errorf("charset: no encoding registered for %q (%s): %w", name, htmlName, err)
	}
	return enc.NewDecoder(), nil
}

// DecodeText decodes raw (the raw bytes of an LO/LT/SH/ST/UC/UT value, a
// single component with no caret/backslash structure) using cs's
// Alphabetic decoder. A nil decoder (default repertoire) returns raw
// unchanged as a string.
func (cs CodingSystem) DecodeText(raw []byte) (string, error) {
	return decodeWith(cs.Alphabetic, raw)
}

// DecodePersonName decodes raw, the raw bytes of one group component of a
// PN value (PS3.5 Section 6.2: Alphabetic^Ideographic^Phonetic, separated
// by '='), using the decoder for the given component.
func (cs CodingSystem) DecodePersonName(raw []byte, c Component) (string, error) {
	return decodeWith(cs.Decoder(c), raw)
}

func decodeWith(dec *encoding.Decoder, raw []byte) (string, error) {
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("charset: decode failed: %w", err)
	}
	return string(out), nil
}

// IsAffectedVR reports whether vrName (e.g. "PN", "LO") is one of the
// string VRs PS3.5 Section 6.1.2.3 subjects to Specific Character Set
// decoding. Every other VR is constrained to the default repertoire.
func IsAffectedVR(vrName string) bool {
	switch vrName {
	case "PN", "LO", "LT", "SH", "ST", "UC", "UT":
		return true
	default:
		return false
	}
}
