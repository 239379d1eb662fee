package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/packlayout/errors"
)

func TestFieldSet(t *testing.T) {
	s := Fields(0, 2, 5)

	assert.True(t, s.Has(0))
	assert.False(t, s.Has(1))
	assert.True(t, s.Has(5))
	assert.False(t, s.Has(-1))
	assert.False(t, s.Has(64))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{0, 2, 5}, s.Indices())
	assert.Equal(t, "{0,2,5}", s.String())
}

func TestFieldSet_OutOfRangeDropped(t *testing.T) {
	assert.Equal(t, FieldSet(0), Fields(-1, 64, 100))
}

func TestAllFields(t *testing.T) {
	assert.Equal(t, FieldSet(0), AllFields(0))
	assert.Equal(t, FieldSet(0b1111), AllFields(4))
	assert.Equal(t, 64, AllFields(64).Len())
	assert.Equal(t, 64, AllFields(100).Len())
}

func TestFieldSet_Validate(t *testing.T) {
	require.NoError(t, Fields(1).Validate(4))
	require.NoError(t, AllFields(4).Validate(4))

	err := FieldSet(0).Validate(4)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	err = Fields(4).Validate(4)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
