package soa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

type strategy struct {
	name     string
	walkTags bool
	run      func(t *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error)
}

func copyInto(t *testing.T, src *List) *List {
	t.Helper()
	dst, err := Allocate(region.NewHeap(0), src.Descriptor(), src.Count())
	require.NoError(t, err)
	return dst
}

var strategies = []strategy{
	{"rec_in_place", true, func(_ *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		return UpdateRecInPlace(l, set, fn)
	}},
	{"rec_copy", true, func(t *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		return UpdateRecCopy(l, copyInto(t, l), set, fn)
	}},
	{"iter_in_place", true, func(_ *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		return l, UpdateIterInPlace(l, set, fn)
	}},
	{"iter_copy", true, func(t *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		dst := copyInto(t, l)
		return dst, UpdateIterCopy(l, dst, set, fn)
	}},
	{"flat_copy", true, func(t *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		dst := copyInto(t, l)
		return dst, UpdateFlatCopy(l, dst, set, fn)
	}},
	{"flat_in_place", false, func(_ *testing.T, l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
		return l, UpdateFlatInPlace(l, set, fn)
	}},
}

func mustDesc(t *testing.T, widths ...int) *layout.Descriptor {
	t.Helper()
	d, err := layout.New(layout.Columnar, widths...)
	require.NoError(t, err)
	return d
}

func newList(t *testing.T, n int, widths ...int) *List {
	t.Helper()
	l, err := Allocate(region.NewHeap(0), mustDesc(t, widths...), n)
	require.NoError(t, err)
	_, err = Build(l, layout.Sequence)
	require.NoError(t, err)
	return l
}

func snapshot(l *List) [][]byte {
	out := [][]byte{l.Tags().Snapshot()}
	for j := 0; j < l.Descriptor().Arity(); j++ {
		out = append(out, l.Column(j).Snapshot())
	}
	return out
}

func TestBuild_Encoding(t *testing.T) {
	l := newList(t, 3, 2, 1)

	assert.Equal(t, []byte{layout.TagCons, layout.TagCons, layout.TagCons, layout.TagNil}, l.Tags().Bytes())
	assert.Equal(t, []byte{0, 0, 1, 0, 2, 0}, l.Column(0).Bytes())
	assert.Equal(t, []byte{0, 1, 2}, l.Column(1).Bytes())
}

func TestBuild_Empty(t *testing.T) {
	l := newList(t, 0, 4, 8)
	assert.Equal(t, []byte{layout.TagNil}, l.Tags().Bytes())
	assert.Empty(t, l.Column(0).Bytes())
	assert.Empty(t, l.Column(1).Bytes())

	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			out, err := s.run(t, l, layout.Fields(1), layout.Increment(1))
			require.NoError(t, err)
			assert.Equal(t, []byte{layout.TagNil}, out.Tags().Bytes())
		})
	}
}

func TestUpdate_SingleFieldScenario(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 3, 4, 4, 4, 4)
			before := snapshot(l)

			out, err := s.run(t, l, layout.Fields(1), layout.Increment(1))
			require.NoError(t, err)
			after := snapshot(out)

			assert.Equal(t, before[0], after[0], "tags")
			for _, j := range []int{0, 2, 3} {
				assert.Equal(t, before[1+j], after[1+j], "field %d", j)
			}
			col := out.Column(1).Bytes()
			for i := 0; i < 3; i++ {
				assert.Equal(t, uint64(i+1), layout.Load(col, 4*i, 4))
			}
		})
	}
}

func TestStrategies_Equivalent(t *testing.T) {
	widths := []int{1, 4, 8, 2}
	sets := []layout.FieldSet{layout.Fields(0), layout.Fields(1, 3), layout.AllFields(4)}

	for _, n := range []int{0, 1, 7, 300} {
		for _, set := range sets {
			want := layout.Expected(mustDesc(t, widths...), n, layout.Sequence, set, layout.Increment(250))
			for _, s := range strategies {
				l := newList(t, n, widths...)
				out, err := s.run(t, l, set, layout.Increment(250))
				require.NoError(t, err, "%s n=%d set=%s", s.name, n, set)

				got, err := Values(out)
				require.NoError(t, err)
				if n == 0 {
					assert.Empty(t, got)
					continue
				}
				assert.Equal(t, want, got, "%s n=%d set=%s", s.name, n, set)
			}
		}
	}
}

func TestStrategies_RoundTrip(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 50, 4, 1, 8)
			before := snapshot(l)

			out, err := s.run(t, l, layout.AllFields(3), layout.Identity)
			require.NoError(t, err)
			assert.Equal(t, before, snapshot(out))
		})
	}
}

func TestRecursive_ReturnsStartHandle(t *testing.T) {
	l := newList(t, 5, 4)

	got, err := UpdateRecInPlace(l, layout.Fields(0), layout.Identity)
	require.NoError(t, err)
	assert.Same(t, l, got)

	dst := copyInto(t, l)
	got, err = UpdateRecCopy(l, dst, layout.Fields(0), layout.Identity)
	require.NoError(t, err)
	assert.Same(t, dst, got)
}

func TestCopy_LeavesSourceUntouched(t *testing.T) {
	for _, s := range []strategy{strategies[1], strategies[3], strategies[4]} {
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 20, 4, 2)
			before := snapshot(l)

			out, err := s.run(t, l, layout.Fields(0), layout.Increment(1))
			require.NoError(t, err)
			assert.Equal(t, before, snapshot(l))
			assert.NotEqual(t, before[1], out.Column(0).Bytes())
			assert.Equal(t, before[2], out.Column(1).Bytes())
		})
	}
}

func TestFlatInPlace_NeverReadsTags(t *testing.T) {
	l := newList(t, 8, 4, 2)
	tags := l.Tags().Bytes()
	for i := range tags {
		tags[i] = 0xee
	}
	tagsBefore := l.Tags().Snapshot()
	skipped := l.Column(1).Snapshot()

	require.NoError(t, UpdateFlatInPlace(l, layout.Fields(0), layout.Increment(2)))

	assert.Equal(t, tagsBefore, l.Tags().Bytes())
	assert.Equal(t, skipped, l.Column(1).Bytes())
	col := l.Column(0).Bytes()
	for i := 0; i < 8; i++ {
		assert.Equal(t, uint64(i+2), layout.Load(col, 4*i, 4))
	}
}

func TestInPlace_SkipsUnusedColumns(t *testing.T) {
	for _, s := range []strategy{strategies[0], strategies[2], strategies[5]} {
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 16, 8, 1, 2)
			before := snapshot(l)

			_, err := s.run(t, l, layout.Fields(1), layout.Increment(1))
			require.NoError(t, err)

			after := snapshot(l)
			assert.Equal(t, before[0], after[0])
			assert.Equal(t, before[1], after[1])
			assert.Equal(t, before[3], after[3])
			assert.NotEqual(t, before[2], after[2])
		})
	}
}

func TestUpdate_VisitsInOrder(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 100, 4, 2)
			var seen []uint64
			record := func(_ int, v uint64) uint64 {
				seen = append(seen, v)
				return v
			}

			_, err := s.run(t, l, layout.Fields(0), record)
			require.NoError(t, err)
			require.Len(t, seen, 100)
			for i := 1; i < len(seen); i++ {
				assert.Greater(t, seen[i], seen[i-1])
			}
		})
	}
}

func TestUpdate_MalformedTag(t *testing.T) {
	for _, s := range strategies {
		if !s.walkTags {
			continue
		}
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 10, 4)
			l.Tags().Bytes()[3] = 0x7f

			_, err := s.run(t, l, layout.Fields(0), layout.Increment(1))
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindMalformedRegion), "got %v", err)

			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 3, e.Offset)
		})
	}
}

func TestUpdate_EarlyTerminal(t *testing.T) {
	for _, s := range strategies {
		if !s.walkTags {
			continue
		}
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 10, 4)
			l.Tags().Bytes()[6] = layout.TagNil

			_, err := s.run(t, l, layout.Fields(0), layout.Increment(1))
			assert.True(t, errors.IsKind(err, errors.KindMalformedRegion), "got %v", err)
		})
	}
}

func TestUpdate_MissingTerminal(t *testing.T) {
	for _, s := range strategies {
		if !s.walkTags {
			continue
		}
		t.Run(s.name, func(t *testing.T) {
			l := newList(t, 4, 4)
			tags := l.Tags().Bytes()
			tags[len(tags)-1] = layout.TagCons

			_, err := s.run(t, l, layout.Fields(0), layout.Increment(1))
			assert.True(t, errors.IsKind(err, errors.KindMalformedRegion), "got %v", err)
		})
	}
}

func TestUpdate_InvalidFieldSet(t *testing.T) {
	l := newList(t, 3, 4, 4)

	err := UpdateFlatInPlace(l, 0, layout.Identity)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = UpdateRecInPlace(l, layout.Fields(2), layout.Identity)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	err = UpdateIterInPlace(l, layout.Fields(0), nil)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestCopy_ShapeMismatch(t *testing.T) {
	l := newList(t, 3, 4)
	other := newList(t, 4, 4)

	err := UpdateFlatCopy(l, other, layout.Fields(0), layout.Identity)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = UpdateRecCopy(l, l, layout.Fields(0), layout.Identity)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	wide := newList(t, 3, 8)
	err = UpdateIterCopy(l, wide, layout.Fields(0), layout.Identity)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestWrap(t *testing.T) {
	d := mustDesc(t, 4, 1)
	tags := region.FromBytes(make([]byte, 3))
	cols := []*region.Region{region.FromBytes(make([]byte, 8)), region.FromBytes(make([]byte, 2))}

	l, err := Wrap(d, tags, cols, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Count())

	_, err = Wrap(d, tags, cols, 3)
	assert.True(t, errors.IsKind(err, errors.KindCapacityExceeded))

	_, err = Wrap(d, tags, cols[:1], 2)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))

	_, err = Wrap(d.WithKind(layout.Interleaved), tags, cols, 2)
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestAllocate_OutOfMemory(t *testing.T) {
	_, err := Allocate(region.NewHeap(100), mustDesc(t, 8), 100)
	assert.True(t, errors.IsKind(err, errors.KindOutOfMemory))
}

func TestLinearBacking(t *testing.T) {
	ctx := context.Background()
	lin, err := region.NewLinear(ctx)
	require.NoError(t, err)
	defer lin.Close(ctx)

	d := mustDesc(t, 4, 2)
	l, err := Allocate(lin, d, 64)
	require.NoError(t, err)
	_, err = Build(l, layout.Sequence)
	require.NoError(t, err)

	dst, err := Allocate(lin, d, 64)
	require.NoError(t, err)
	require.NoError(t, UpdateFlatCopy(l, dst, layout.Fields(1), layout.Increment(10)))

	mem := lin.Memory()
	v, ok := mem.ReadUint16Le(dst.Column(1).Addr() + uint32(d.ColumnOffset(5, 1)))
	require.True(t, ok)
	assert.Equal(t, uint16(15), v)

	tag, ok := mem.ReadByte(dst.Tags().Addr() + 64)
	require.True(t, ok)
	assert.Equal(t, layout.TagNil, tag)
}

func withSegment(t *testing.T, n int) {
	t.Helper()
	prev := recursionSegment
	recursionSegment = n
	t.Cleanup(func() { recursionSegment = prev })
}

func TestRecursive_Segmented(t *testing.T) {
	for _, seg := range []int{1, 3, 10} {
		for _, n := range []int{0, 1, 9, 10, 11, 31} {
			withSegment(t, seg)
			want := layout.Expected(mustDesc(t, 4, 2), n, layout.Sequence, layout.Fields(1), layout.Increment(5))

			l := newList(t, n, 4, 2)
			got, err := UpdateRecInPlace(l, layout.Fields(1), layout.Increment(5))
			require.NoError(t, err, "seg=%d n=%d", seg, n)
			assert.Same(t, l, got)
			vals, err := Values(got)
			require.NoError(t, err)
			if n > 0 {
				assert.Equal(t, want, vals, "seg=%d n=%d", seg, n)
			}

			src := newList(t, n, 4, 2)
			dst := copyInto(t, src)
			got, err = UpdateRecCopy(src, dst, layout.Fields(1), layout.Increment(5))
			require.NoError(t, err, "seg=%d n=%d", seg, n)
			assert.Same(t, dst, got)
			assert.Equal(t, snapshot(l), snapshot(dst))
		}
	}
}

func TestRecursive_SegmentedMalformed(t *testing.T) {
	withSegment(t, 4)
	l := newList(t, 12, 4)
	l.Tags().Bytes()[9] = 0x7f

	_, err := UpdateRecInPlace(l, layout.Fields(0), layout.Identity)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindMalformedRegion, e.Kind)
	assert.Equal(t, 9, e.Offset)

	_, err = UpdateRecCopy(l, copyInto(t, l), layout.Fields(0), layout.Identity)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 9, e.Offset)
}

func TestRecursive_LongList(t *testing.T) {
	if testing.Short() {
		t.Skip("builds 100 MB of regions")
	}
	const n = 20_000_000
	l := newList(t, n, 4)

	_, err := UpdateRecInPlace(l, layout.Fields(0), layout.Increment(1))
	require.NoError(t, err)

	col := l.Column(0).Bytes()
	assert.Equal(t, uint64(1), layout.Load(col, 0, 4))
	assert.Equal(t, uint64(n), layout.Load(col, 4*(n-1), 4))
	assert.Equal(t, layout.TagNil, l.Tags().Bytes()[n])
}
