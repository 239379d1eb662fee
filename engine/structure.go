package engine

import (
	"github.com/wippyai/packlayout"
	"github.com/wippyai/packlayout/aos"
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
	"github.com/wippyai/packlayout/soa"
)

// Structure is a packed list under either layout. Exactly one of the layout
// handles is set.
type Structure struct {
	alloc       packlayout.Allocator
	interleaved *aos.List
	columnar    *soa.List
}

// valid reports whether the structure holds a list. A zero Structure does not.
func (s *Structure) valid() bool {
	return s != nil && (s.interleaved != nil || s.columnar != nil)
}

func (s *Structure) check(phase errors.Phase) error {
	if !s.valid() {
		return errors.InvalidInput(phase, "structure holds no list")
	}
	return nil
}

// Kind returns the structure's layout.
func (s *Structure) Kind() layout.Kind {
	if s.columnar != nil {
		return layout.Columnar
	}
	return layout.Interleaved
}

// Descriptor returns the structure's field configuration, or nil for a
// zero Structure.
func (s *Structure) Descriptor() *layout.Descriptor {
	switch {
	case s.interleaved != nil:
		return s.interleaved.Descriptor()
	case s.columnar != nil:
		return s.columnar.Descriptor()
	default:
		return nil
	}
}

// Count returns the number of Cons nodes.
func (s *Structure) Count() int {
	switch {
	case s.interleaved != nil:
		return s.interleaved.Count()
	case s.columnar != nil:
		return s.columnar.Count()
	default:
		return 0
	}
}

// Interleaved returns the AoS list, or nil for a columnar structure.
func (s *Structure) Interleaved() *aos.List { return s.interleaved }

// Columnar returns the SoA list, or nil for an interleaved structure.
func (s *Structure) Columnar() *soa.List { return s.columnar }

// Regions returns the structure's regions: the single AoS region, or the
// SoA tag region followed by one region per field.
func (s *Structure) Regions() []*region.Region {
	if s.interleaved != nil {
		return []*region.Region{s.interleaved.Region()}
	}
	if s.columnar == nil {
		return nil
	}
	l := s.columnar
	out := make([]*region.Region, 0, 1+l.Descriptor().Arity())
	out = append(out, l.Tags())
	for j := 0; j < l.Descriptor().Arity(); j++ {
		out = append(out, l.Column(j))
	}
	return out
}

// Buffers returns live byte views of Regions in the same order. Views of
// linear-memory regions must be re-fetched after further allocations.
func (s *Structure) Buffers() [][]byte {
	regs := s.Regions()
	out := make([][]byte, len(regs))
	for i, r := range regs {
		out[i] = r.Bytes()
	}
	return out
}

// Values walks the tag stream and returns every node's field values,
// indexed [node][field].
func (s *Structure) Values() ([][]uint64, error) {
	if err := s.check(errors.PhaseVerify); err != nil {
		return nil, err
	}
	if s.interleaved != nil {
		return aos.Values(s.interleaved)
	}
	return soa.Values(s.columnar)
}

// Verify compares the structure's values with want and reports the first
// difference.
func (s *Structure) Verify(want [][]uint64) error {
	got, err := s.Values()
	if err != nil {
		return err
	}
	name := s.Kind().String()
	if len(got) != len(want) {
		return errors.CountMismatch(errors.PhaseVerify, name, len(want), len(got))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				return errors.Mismatch(name, i, j, want[i][j], got[i][j])
			}
		}
	}
	return nil
}

// Clone deep-copies the structure into regions from the allocator that
// created it.
func (s *Structure) Clone() (*Structure, error) {
	if err := s.check(errors.PhaseAllocate); err != nil {
		return nil, err
	}
	if s.alloc == nil {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "structure has no allocator")
	}
	out, err := allocate(s.alloc, s.Descriptor(), s.Count())
	if err != nil {
		return nil, err
	}
	src, dst := s.Regions(), out.Regions()
	for i := range src {
		copy(dst[i].Bytes(), src[i].Bytes())
	}
	return out, nil
}

func allocate(alloc packlayout.Allocator, d *layout.Descriptor, n int) (*Structure, error) {
	s := &Structure{alloc: alloc}
	var err error
	if d.Kind() == layout.Interleaved {
		s.interleaved, err = aos.Allocate(alloc, d, n)
	} else {
		s.columnar, err = soa.Allocate(alloc, d, n)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Equivalent reports whether a and b hold the same logical values. The
// layouts may differ.
func Equivalent(a, b *Structure) (bool, error) {
	av, err := a.Values()
	if err != nil {
		return false, err
	}
	bv, err := b.Values()
	if err != nil {
		return false, err
	}
	if len(av) != len(bv) {
		return false, nil
	}
	for i := range av {
		if len(av[i]) != len(bv[i]) {
			return false, nil
		}
		for j := range av[i] {
			if av[i][j] != bv[i][j] {
				return false, nil
			}
		}
	}
	return true, nil
}
