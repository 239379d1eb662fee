package aos

import (
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// Build writes l.Count() Cons nodes with values from gen, then the terminal
// tag, and returns the start handle. A nil gen uses layout.Sequence.
func Build(l *List, gen layout.Generator) (*List, error) {
	buf, err := l.view(errors.PhaseBuild)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		gen = layout.Sequence
	}

	end := build(buf, l.desc, 0, l.count, gen)
	if end.Int() != len(buf) {
		return nil, errors.CapacityExceeded(errors.PhaseBuild, layoutName, end.Int(), len(buf))
	}
	return l, nil
}

func build(buf []byte, d *layout.Descriptor, cur region.Cursor, n int, gen layout.Generator) region.Cursor {
	k := d.Arity()
	for i := 0; i < n; i++ {
		guard.Write(buf, cur.Int(), layout.TagSize)
		buf[cur] = layout.TagCons
		next := cur.Advance(layout.TagSize)
		guard.Advance(cur.Int(), next.Int())
		for j := 0; j < k; j++ {
			w := d.Width(j)
			guard.Write(buf, next.Int(), w)
			layout.Store(buf, next.Int(), w, gen(i, j))
			guard.Advance(next.Int(), next.Advance(w).Int())
			next = next.Advance(w)
		}
		cur = next
	}
	guard.Write(buf, cur.Int(), layout.TagSize)
	buf[cur] = layout.TagNil
	return cur.Advance(layout.TagSize)
}
