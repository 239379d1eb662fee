package aos

import (
	"github.com/wippyai/packlayout"
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

const layoutName = "aos"

// List is the handle to an interleaved packed list: its start region, its
// layout and its node count.
type List struct {
	desc  *layout.Descriptor
	reg   *region.Region
	count int
}

// Allocate sizes and allocates the region for an n-node list. The region is
// not initialised; Build must run before any traversal.
func Allocate(alloc packlayout.Allocator, d *layout.Descriptor, n int) (*List, error) {
	if d.Kind() != layout.Interleaved {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "descriptor %s is not interleaved", d)
	}
	size, err := d.InterleavedSize(n)
	if err != nil {
		return nil, err
	}
	r, err := alloc.Allocate(size)
	if err != nil {
		return nil, err
	}
	return &List{desc: d, reg: r, count: n}, nil
}

// Wrap adopts an existing region as an n-node list. The region must be
// exactly the size the descriptor implies.
func Wrap(d *layout.Descriptor, r *region.Region, n int) (*List, error) {
	if d.Kind() != layout.Interleaved {
		return nil, errors.InvalidInput(errors.PhaseConfig, "descriptor %s is not interleaved", d)
	}
	l := &List{desc: d, reg: r, count: n}
	if _, err := l.view(errors.PhaseConfig); err != nil {
		return nil, err
	}
	return l, nil
}

// Descriptor returns the list's layout.
func (l *List) Descriptor() *layout.Descriptor { return l.desc }

// Region returns the list's region.
func (l *List) Region() *region.Region { return l.reg }

// Count returns the number of Cons nodes.
func (l *List) Count() int { return l.count }

// view fetches the region bytes and checks they match the exact size for
// the node count.
func (l *List) view(phase errors.Phase) ([]byte, error) {
	want, err := l.desc.InterleavedSize(l.count)
	if err != nil {
		return nil, err
	}
	buf := l.reg.Bytes()
	if len(buf) != want {
		return nil, errors.CapacityExceeded(phase, layoutName, want, len(buf))
	}
	return buf, nil
}

func sameShape(src, dst *List) error {
	if !src.desc.Equal(dst.desc) {
		return errors.InvalidInput(errors.PhaseTraverse, "destination layout %s differs from source %s", dst.desc, src.desc)
	}
	if src.count != dst.count {
		return errors.InvalidInput(errors.PhaseTraverse, "destination holds %d nodes, source %d", dst.count, src.count)
	}
	if src.reg == dst.reg {
		return errors.InvalidInput(errors.PhaseTraverse, "destination aliases source region")
	}
	return nil
}
