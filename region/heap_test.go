package region

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/packlayout/errors"
)

func TestHeap_Allocate(t *testing.T) {
	h := NewHeap(0)
	assert.Equal(t, DefaultHeapLimit, h.Limit())

	r, err := h.Allocate(50001)
	require.NoError(t, err)

	assert.Equal(t, 50001, r.Len())
	assert.Len(t, r.Bytes(), 50001)
	assert.Equal(t, BackingHeap, r.Backing())
	assert.Equal(t, uint32(0), r.Addr())
}

func TestHeap_Zero(t *testing.T) {
	r, err := NewHeap(0).Allocate(0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Bytes())
}

func TestHeap_OverLimit(t *testing.T) {
	h := NewHeap(1024)

	_, err := h.Allocate(1025)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindOutOfMemory))

	_, err = h.Allocate(1024)
	require.NoError(t, err)
}

func TestHeap_HugeSizeIsOutOfMemory(t *testing.T) {
	h := NewHeap(math.MaxInt)
	assert.Equal(t, maxHeapLimit, h.Limit())

	var err error
	assert.NotPanics(t, func() { _, err = h.Allocate(math.MaxInt) })
	assert.True(t, errors.IsKind(err, errors.KindOutOfMemory))
}

func TestHeap_Negative(t *testing.T) {
	_, err := NewHeap(0).Allocate(-1)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestHeap_UniqueIDs(t *testing.T) {
	h := NewHeap(0)
	a, err := h.Allocate(1)
	require.NoError(t, err)
	b, err := h.Allocate(1)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRegion_Snapshot(t *testing.T) {
	r := FromBytes([]byte{1, 2, 3})
	snap := r.Snapshot()
	r.Bytes()[0] = 9

	assert.Equal(t, []byte{1, 2, 3}, snap)
	assert.Equal(t, byte(9), r.Bytes()[0])
}

func TestCursor(t *testing.T) {
	c := Cursor(0)
	c = c.Advance(5).Advance(1)
	assert.Equal(t, 6, c.Int())
}
