package aos

import (
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// Values walks the tag stream and returns every node's field values,
// indexed [node][field].
func Values(l *List) ([][]uint64, error) {
	buf, err := l.view(errors.PhaseVerify)
	if err != nil {
		return nil, err
	}

	p := &pass{d: l.desc}
	k := l.desc.Arity()
	out := make([][]uint64, 0, l.count)
	for cur := region.Cursor(0); ; cur = cur.Advance(l.desc.Stride()) {
		cons, err := p.step(buf, cur)
		if err != nil {
			return nil, err
		}
		if !cons {
			return out, nil
		}
		row := make([]uint64, k)
		for j := range row {
			row[j] = layout.Load(buf, cur.Int()+l.desc.FieldSlot(j), l.desc.Width(j))
		}
		out = append(out, row)
	}
}
