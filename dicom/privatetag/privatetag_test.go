package privatetag

import (
	"fmt"
	"sync"
	"testing"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_AllocateBlock_Sequential(t *testing.T) {
	a := NewAllocator()

	vendorA, err := a.AllocateBlock("VENDOR_A", 0x0029)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0010), vendorA.Element)

	vendorB, err := a.AllocateBlock("VENDOR_B", 0x0029)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0011), vendorB.Element)

	dataTag := CreateTag(vendorA, 0x20)
	assert.Equal(t, tag.New(0x0029, 0x1020), dataTag)

	creator, ok := a.CreatorFor(tag.New(0x0029, 0x1020))
	require.True(t, ok)
	assert.Equal(t, "VENDOR_A", creator.ID)
}

func TestAllocator_AllocateBlock_ReRegistrationReturnsSameSlot(t *testing.T) {
	a := NewAllocator()

	first, err := a.AllocateBlock("VENDOR_A", 0x0029)
	require.NoError(t, err)

	second, err := a.AllocateBlock("VENDOR_A", 0x0029)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAllocator_AllocateBlock_InvalidGroup(t *testing.T) {
	a := NewAllocator()

	_, err := a.AllocateBlock("VENDOR_A", 0x0028) // even group
	var invalidGroupErr *InvalidGroupError
	require.ErrorAs(t, err, &invalidGroupErr)

	_, err = a.AllocateBlock("VENDOR_A", 0x0000)
	require.ErrorAs(t, err, &invalidGroupErr)
}

func TestAllocator_AllocateBlock_Exhaustion(t *testing.T) {
	a := NewAllocator()

	for i := 0; i < maxBlocksPerGroup; i++ {
		_, err := a.AllocateBlock(fmt.Sprintf("VENDOR_%d", i), 0x0029)
		require.NoError(t, err)
	}

	_, err := a.AllocateBlock("ONE_TOO_MANY", 0x0029)
	var noBlocksErr *NoBlocksAvailableError
	require.ErrorAs(t, err, &noBlocksErr)
}

func TestAllocator_CreatorFor_HighBlockNumber(t *testing.T) {
	a := NewAllocator()

	// Allocate 33 creators in the same group so the 33rd lands on element
	// 0x0030, block 0x30: its data elements are (0029,30xx) and CreatorFor
	// must find it at slot 0x0030, beyond the first 16 blocks.
	var last Creator
	var err error
	for i := 0; i < 33; i++ {
		last, err = a.AllocateBlock(fmt.Sprintf("VENDOR_%d", i), 0x0029)
		require.NoError(t, err)
	}
	require.Equal(t, uint16(0x0030), last.Element)

	dataTag := CreateTag(last, 0x05)
	assert.Equal(t, tag.New(0x0029, 0x3005), dataTag)

	creator, ok := a.CreatorFor(dataTag)
	require.True(t, ok)
	assert.Equal(t, last.ID, creator.ID)
}

func TestAllocator_CreatorFor_UnregisteredBlock(t *testing.T) {
	a := NewAllocator()
	_, err := a.AllocateBlock("VENDOR_A", 0x0029)
	require.NoError(t, err)

	_, ok := a.CreatorFor(tag.New(0x0029, 0x1120)) // block 0x11 never registered
	assert.False(t, ok)
}

func TestAllocator_CreatorFor_NotPrivateData(t *testing.T) {
	a := NewAllocator()
	_, ok := a.CreatorFor(tag.New(0x0029, 0x0010)) // a creator slot, not data
	assert.False(t, ok)

	_, ok = a.CreatorFor(tag.New(0x0028, 0x1020)) // even group
	assert.False(t, ok)
}

func TestAllocator_Reset(t *testing.T) {
	a := NewAllocator()
	vendorA, err := a.AllocateBlock("VENDOR_A", 0x0029)
	require.NoError(t, err)

	a.Reset()

	_, ok := a.CreatorFor(CreateTag(vendorA, 0x01))
	assert.False(t, ok)

	// After reset the first slot is free again.
	reallocated, err := a.AllocateBlock("VENDOR_B", 0x0029)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0010), reallocated.Element)
}

func TestCreator_Owns(t *testing.T) {
	c := Creator{ID: "VENDOR_A", Group: 0x0029, Element: 0x0010}

	assert.True(t, c.Owns(tag.New(0x0029, 0x1000)))
	assert.True(t, c.Owns(tag.New(0x0029, 0x10FF)))
	assert.False(t, c.Owns(tag.New(0x0029, 0x1100)), "belongs to the next block")
	assert.False(t, c.Owns(tag.New(0x002A, 0x1000)), "different group")
}

func TestAllocator_GetOrAllocate_ConcurrentSameCreator(t *testing.T) {
	a := NewAllocator()

	var wg sync.WaitGroup
	results := make([]Creator, 50)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := a.GetOrAllocate("VENDOR_A", 0x0029)
			require.NoError(t, err)
			results[idx] = c
		}(i)
	}
	wg.Wait()

	for _, c := range results {
		assert.Equal(t, results[0], c, "every concurrent GetOrAllocate for the same creator must land on the same slot")
	}
}
