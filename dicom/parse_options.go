package dicom

import (
	"fmt"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/go-playground/validator/v10"
)

// ParseMode selects how much of a DICOM stream Parser materializes.
type ParseMode int

const (
	// ModeFull reads every element, including Pixel Data, into memory. This
	// is the default and matches the behavior of ParseFile/ParseReader
	// before ParseOptions existed.
	ModeFull ParseMode = iota

	// ModeMetadataOnly stops the main dataset read as soon as it reaches
	// Pixel Data (7FE0,0010), discarding that element rather than reading
	// its value. Useful for indexing large studies by header attributes
	// without paying for every frame's bytes.
	ModeMetadataOnly

	// ModeLazyPixelData reads every element but defers materializing Pixel
	// Data: the element's value is a *value.LazyValue describing a byte
	// range in the source file, resolved on first access. Only supported
	// by ParseFileWithOptions, since resolving later requires an
	// independent random-access handle onto the same file.
	ModeLazyPixelData
)

// String returns the human-readable name of the mode, as used in error
// messages and logging.
func (m ParseMode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeMetadataOnly:
		return "metadata-only"
	case ModeLazyPixelData:
		return "lazy-pixel-data"
	default:
		return fmt.Sprintf("ParseMode(%d)", int(m))
	}
}

// ParseOptions configures how Parser reads a DICOM stream beyond the
// default full, eager parse.
type ParseOptions struct {
	// Mode selects the overall parsing strategy. Zero value is ModeFull.
	Mode ParseMode `validate:"oneof=0 1 2"`

	// StopAfterTag, if non-nil, ends the main dataset read as soon as an
	// element with this tag has been read and added. Elements ordered
	// after it in the stream are never parsed. Independent of Mode; a
	// caller may combine ModeMetadataOnly with a StopAfterTag that occurs
	// even earlier in the dataset.
	StopAfterTag *tag.Tag

	// MaxElements, if greater than zero, caps the number of main dataset
	// elements read before stopping, as a defense against unbounded or
	// adversarial streams. File Meta Information elements do not count
	// against this limit.
	MaxElements int `validate:"gte=0"`

	// PreferMemoryMapping hints that, where the caller's platform and file
	// size make it worthwhile, the file should be mapped into memory
	// rather than read through buffered I/O. Parser does not implement
	// memory mapping itself; this flag is threaded through so a caller's
	// own datasource.DataSource construction can honor it.
	PreferMemoryMapping bool
}

// DefaultParseOptions returns the options ParseFile and ParseReader use
// implicitly: ModeFull, no stop tag, no element cap.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Mode: ModeFull}
}

var optionsValidator = validator.New()

// validate checks ParseOptions for an internally consistent configuration.
func (o ParseOptions) validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParseOptions, err)
	}
	return nil
}

// stopAfter reports whether t is the configured stop tag.
func (o ParseOptions) stopAfter(t tag.Tag) bool {
	return o.StopAfterTag != nil && t.Equals(*o.StopAfterTag)
}
