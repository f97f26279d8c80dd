package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultRepertoireIsNilDecoders(t *testing.T) {
	cs, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, cs.Alphabetic)
	assert.Nil(t, cs.Ideographic)
	assert.Nil(t, cs.Phonetic)

	s, err := cs.DecodeText([]byte("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", s)
}

func TestParse_SingleValueAppliesToAllComponents(t *testing.T) {
	cs, err := Parse([]string{"ISO_IR 100"})
	require.NoError(t, err)
	require.NotNil(t, cs.Alphabetic)
	assert.Same(t, cs.Alphabetic, cs.Ideographic)
	assert.Same(t, cs.Alphabetic, cs.Phonetic)
}

func TestParse_TwoValuesSplitAlphabeticFromRest(t *testing.T) {
	cs, err := Parse([]string{"", "ISO 2022 IR 87"})
	require.NoError(t, err)
	assert.Nil(t, cs.Alphabetic)
	require.NotNil(t, cs.Ideographic)
	assert.Same(t, cs.Ideographic, cs.Phonetic)
}

func TestParse_UnrecognizedCharacterSetIsError(t *testing.T) {
	_, err := Parse([]string{"MADE_UP_CHARSET"})
	assert.Error(t, err)
}

func TestCodingSystem_DecodeText_Latin1(t *testing.T) {
	cs, err := Parse([]string{"ISO_IR 100"})
	require.NoError(t, err)

	// 0xE9 in ISO-8859-1 is U+00E9 (é).
	s, err := cs.DecodeText([]byte{0xE9})
	require.NoError(t, err)
	assert.Equal(t, "é", s)
}

func TestIsAffectedVR(t *testing.T) {
	for _, v := range []string{"PN", "LO", "LT", "SH", "ST", "UC", "UT"} {
		assert.True(t, IsAffectedVR(v), v)
	}
	for _, v := range []string{"UI", "CS", "AE", "DA", "TM", "IS", "DS"} {
		assert.False(t, IsAffectedVR(v), v)
	}
}

func TestCodingSystem_DecodePersonName_ComponentSelection(t *testing.T) {
	cs, err := Parse([]string{"", "ISO 2022 IR 87"})
	require.NoError(t, err)

	// Alphabetic component has no decoder (default repertoire).
	s, err := cs.DecodePersonName([]byte("Yamada^Tarou"), Alphabetic)
	require.NoError(t, err)
	assert.Equal(t, "Yamada^Tarou", s)
}
