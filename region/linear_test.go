package region

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/packlayout/errors"
)

func newLinear(t *testing.T, opts ...LinearOption) *Linear {
	t.Helper()
	ctx := context.Background()
	l, err := NewLinear(ctx, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close(ctx) })
	return l
}

func TestLinear_AllocateReadWrite(t *testing.T) {
	l := newLinear(t)

	r, err := l.Allocate(16)
	require.NoError(t, err)
	assert.Equal(t, BackingLinear, r.Backing())
	assert.Equal(t, uint32(firstAddr), r.Addr())

	copy(r.Bytes(), []byte{1, 2, 3, 4})

	v, ok := l.Memory().ReadUint32Le(r.Addr())
	require.True(t, ok)
	assert.Equal(t, uint32(0x04030201), v)
}

func TestLinear_RegionsAreAlignedAndDisjoint(t *testing.T) {
	l := newLinear(t)

	a, err := l.Allocate(5)
	require.NoError(t, err)
	b, err := l.Allocate(3)
	require.NoError(t, err)

	assert.Zero(t, b.Addr()%regionAlign)
	assert.GreaterOrEqual(t, b.Addr(), a.Addr()+uint32(a.Len()))

	for i := range a.Bytes() {
		a.Bytes()[i] = 0xaa
	}
	for _, x := range b.Bytes() {
		assert.NotEqual(t, byte(0xaa), x)
	}
}

func TestLinear_GrowKeepsContents(t *testing.T) {
	l := newLinear(t)

	a, err := l.Allocate(100)
	require.NoError(t, err)
	a.Bytes()[99] = 7

	b, err := l.Allocate(3 * PageSize)
	require.NoError(t, err)
	assert.Equal(t, 3*PageSize, len(b.Bytes()))
	assert.GreaterOrEqual(t, l.Memory().Size(), uint32(4*PageSize))

	assert.Equal(t, byte(7), a.Bytes()[99])
}

func TestLinear_OutOfMemory(t *testing.T) {
	l := newLinear(t, WithMaxPages(2))

	_, err := l.Allocate(PageSize)
	require.NoError(t, err)

	_, err = l.Allocate(2 * PageSize)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindOutOfMemory))
}

func TestLinear_Zero(t *testing.T) {
	l := newLinear(t)
	r, err := l.Allocate(0)
	require.NoError(t, err)
	assert.Empty(t, r.Bytes())
}

func TestNewLinear_ZeroPages(t *testing.T) {
	_, err := NewLinear(context.Background(), WithMaxPages(0))
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}
