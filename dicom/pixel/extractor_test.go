package pixel

import (
	"testing"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_MetadataOnlyDataSet_ReturnsOperationRequiresFullParse(t *testing.T) {
	ds := dicom.NewDataSet()
	ds.SetMetadataOnly(true)

	_, err := Extract(ds)
	require.Error(t, err)
	assert.ErrorIs(t, err, dicom.ErrOperationRequiresFullParse)
}

func TestExtract_MissingPixelData_ReturnsMissingAttributeError(t *testing.T) {
	ds := dicom.NewDataSet()

	rowsVal, err := value.NewIntValue(vr.UnsignedShort, []int64{4})
	require.NoError(t, err)
	rowsElem, err := element.NewElement(tag.Rows, vr.UnsignedShort, rowsVal)
	require.NoError(t, err)
	require.NoError(t, ds.Add(rowsElem))

	colsVal, err := value.NewIntValue(vr.UnsignedShort, []int64{4})
	require.NoError(t, err)
	colsElem, err := element.NewElement(tag.Columns, vr.UnsignedShort, colsVal)
	require.NoError(t, err)
	require.NoError(t, ds.Add(colsElem))

	_, err = Extract(ds)
	require.Error(t, err)
	assert.NotErrorIs(t, err, dicom.ErrOperationRequiresFullParse,
		"a dataset missing Rows/PixelData for reasons unrelated to ModeMetadataOnly must not be mistaken for it")
}
