package soa

import (
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// Build writes l.Count() Cons tags and their field values from gen, then the
// terminal tag, and returns the start handle. A nil gen uses layout.Sequence.
func Build(l *List, gen layout.Generator) (*List, error) {
	tags, err := l.tagView(errors.PhaseBuild)
	if err != nil {
		return nil, err
	}
	cols, err := l.views(errors.PhaseBuild, layout.AllFields(l.desc.Arity()))
	if err != nil {
		return nil, err
	}
	if gen == nil {
		gen = layout.Sequence
	}

	end := build(tags, cols, l.desc, l.count, gen)
	if end.Int() != len(tags) {
		return nil, errors.CapacityExceeded(errors.PhaseBuild, layoutName, end.Int(), len(tags))
	}
	return l, nil
}

// build advances one tag cursor and one cursor per field buffer, k+1 in all,
// and returns the final tag cursor.
func build(tags []byte, cols [][]byte, d *layout.Descriptor, n int, gen layout.Generator) region.Cursor {
	var (
		t   region.Cursor
		cur = make([]region.Cursor, len(cols))
	)
	for i := 0; i < n; i++ {
		guard.Write(tags, t.Int(), layout.TagSize)
		tags[t] = layout.TagCons
		guard.Advance(t.Int(), t.Advance(layout.TagSize).Int())
		t = t.Advance(layout.TagSize)
		for j, col := range cols {
			w := d.Width(j)
			guard.Write(col, cur[j].Int(), w)
			layout.Store(col, cur[j].Int(), w, gen(i, j))
			guard.Advance(cur[j].Int(), cur[j].Advance(w).Int())
			cur[j] = cur[j].Advance(w)
		}
	}
	guard.Write(tags, t.Int(), layout.TagSize)
	tags[t] = layout.TagNil
	return t.Advance(layout.TagSize)
}
