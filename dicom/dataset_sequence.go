package dicom

import "github.com/codeninja55/go-radx/dicom/value"

// Accessors implements value.SequenceItem, letting a *DataSet be nested
// directly inside a value.SequenceValue as an SQ item. Elements are returned
// in the same tag-sorted order as Elements.
func (ds *DataSet) Accessors() []value.ElementAccessor {
	elems := ds.Elements()
	out := make([]value.ElementAccessor, len(elems))
	for i, e := range elems {
		out[i] = e
	}
	return out
}

var _ value.SequenceItem = (*DataSet)(nil)
