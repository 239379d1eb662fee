package soa

import (
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// Values walks the tag stream and returns every node's field values,
// indexed [node][field].
func Values(l *List) ([][]uint64, error) {
	tags, err := l.tagView(errors.PhaseVerify)
	if err != nil {
		return nil, err
	}
	cols, err := l.views(errors.PhaseVerify, layout.AllFields(l.desc.Arity()))
	if err != nil {
		return nil, err
	}

	p := &pass{d: l.desc}
	out := make([][]uint64, 0, l.count)
	for t := region.Cursor(0); ; t = t.Advance(layout.TagSize) {
		cons, err := p.step(tags, t)
		if err != nil {
			return nil, err
		}
		if !cons {
			return out, nil
		}
		i := t.Int() / layout.TagSize
		row := make([]uint64, len(cols))
		for j, col := range cols {
			row[j] = layout.Load(col, l.desc.ColumnOffset(i, j), l.desc.Width(j))
		}
		out = append(out, row)
	}
}
