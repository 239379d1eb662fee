package soa

import (
	"github.com/wippyai/packlayout"
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

const layoutName = "soa"

// List is the handle to a columnar packed list: its tag region, one region
// per field, its layout and its node count.
type List struct {
	desc  *layout.Descriptor
	tags  *region.Region
	cols  []*region.Region
	count int
}

// Allocate sizes and allocates the k+1 regions of an n-node list. The
// regions are not initialised; Build must run before any traversal.
func Allocate(alloc packlayout.Allocator, d *layout.Descriptor, n int) (*List, error) {
	if d.Kind() != layout.Columnar {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "descriptor %s is not columnar", d)
	}
	sizes, err := d.ColumnarSizes(n)
	if err != nil {
		return nil, err
	}

	l := &List{desc: d, count: n, cols: make([]*region.Region, d.Arity())}
	if l.tags, err = alloc.Allocate(sizes[0]); err != nil {
		return nil, err
	}
	for j := range l.cols {
		if l.cols[j], err = alloc.Allocate(sizes[1+j]); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Wrap adopts existing regions as an n-node list. Every region must be
// exactly the size the descriptor implies.
func Wrap(d *layout.Descriptor, tags *region.Region, cols []*region.Region, n int) (*List, error) {
	if d.Kind() != layout.Columnar {
		return nil, errors.InvalidInput(errors.PhaseConfig, "descriptor %s is not columnar", d)
	}
	if len(cols) != d.Arity() {
		return nil, errors.InvalidInput(errors.PhaseConfig, "%d field regions for %d fields", len(cols), d.Arity())
	}
	l := &List{desc: d, tags: tags, cols: append([]*region.Region(nil), cols...), count: n}
	if _, err := l.tagView(errors.PhaseConfig); err != nil {
		return nil, err
	}
	for j := range cols {
		if _, err := l.colView(errors.PhaseConfig, j); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Descriptor returns the list's layout.
func (l *List) Descriptor() *layout.Descriptor { return l.desc }

// Tags returns the tag region.
func (l *List) Tags() *region.Region { return l.tags }

// Column returns the region of field j.
func (l *List) Column(j int) *region.Region { return l.cols[j] }

// Count returns the number of Cons nodes.
func (l *List) Count() int { return l.count }

func (l *List) tagView(phase errors.Phase) ([]byte, error) {
	want, err := l.desc.TagBufferSize(l.count)
	if err != nil {
		return nil, err
	}
	buf := l.tags.Bytes()
	if len(buf) != want {
		return nil, errors.New(phase, errors.KindCapacityExceeded).
			Layout(layoutName).
			Detail("tag buffer holds %d bytes, need %d", len(buf), want).
			Build()
	}
	return buf, nil
}

func (l *List) colView(phase errors.Phase, j int) ([]byte, error) {
	want, err := l.desc.FieldBufferSize(l.count, j)
	if err != nil {
		return nil, err
	}
	buf := l.cols[j].Bytes()
	if len(buf) != want {
		return nil, errors.New(phase, errors.KindCapacityExceeded).
			Layout(layoutName).
			Detail("field %d buffer holds %d bytes, need %d", j, len(buf), want).
			Build()
	}
	return buf, nil
}

// views fetches the buffers of the fields in set; other entries stay nil.
func (l *List) views(phase errors.Phase, set layout.FieldSet) ([][]byte, error) {
	out := make([][]byte, l.desc.Arity())
	for j := range out {
		if !set.Has(j) {
			continue
		}
		buf, err := l.colView(phase, j)
		if err != nil {
			return nil, err
		}
		out[j] = buf
	}
	return out, nil
}

func sameShape(src, dst *List) error {
	if !src.desc.Equal(dst.desc) {
		return errors.InvalidInput(errors.PhaseTraverse, "destination layout %s differs from source %s", dst.desc, src.desc)
	}
	if src.count != dst.count {
		return errors.InvalidInput(errors.PhaseTraverse, "destination holds %d nodes, source %d", dst.count, src.count)
	}
	if src.tags == dst.tags {
		return errors.InvalidInput(errors.PhaseTraverse, "destination aliases source tag region")
	}
	for j := range src.cols {
		if src.cols[j] == dst.cols[j] {
			return errors.InvalidInput(errors.PhaseTraverse, "destination aliases source field %d region", j)
		}
	}
	return nil
}
