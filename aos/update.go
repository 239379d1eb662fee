package aos

import (
	"math/bits"

	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// pass bundles the read-only inputs shared by every step of one traversal.
type pass struct {
	d   *layout.Descriptor
	fn  layout.UpdateFunc
	set layout.FieldSet
}

// step classifies the node at cur. It returns true for Cons, false for the
// terminal node, and an error for a corrupt or truncated tag stream.
func (p *pass) step(buf []byte, cur region.Cursor) (bool, error) {
	if cur.Int() >= len(buf) {
		return false, errors.Truncated(errors.PhaseTraverse, layoutName, cur.Int(), len(buf))
	}
	switch tag := buf[cur]; tag {
	case layout.TagCons:
		if cur.Int()+p.d.Stride() >= len(buf) {
			return false, errors.Truncated(errors.PhaseTraverse, layoutName, cur.Int(), len(buf))
		}
		return true, nil
	case layout.TagNil:
		if cur.Int() != len(buf)-layout.TagSize {
			return false, errors.CountMismatch(errors.PhaseTraverse, layoutName,
				(len(buf)-layout.TagSize)/p.d.Stride(), cur.Int()/p.d.Stride())
		}
		return false, nil
	default:
		return false, errors.MalformedTag(errors.PhaseTraverse, layoutName, cur.Int(), tag)
	}
}

// apply updates the used fields of the node whose tag is at cur, in place.
func (p *pass) apply(buf []byte, cur region.Cursor) {
	for m := uint64(p.set); m != 0; m &= m - 1 {
		j := bits.TrailingZeros64(m)
		off := cur.Int() + p.d.FieldSlot(j)
		w := p.d.Width(j)
		guard.Write(buf, off, w)
		layout.Store(buf, off, w, p.fn(j, layout.Load(buf, off, w)))
	}
}

// transfer writes the node at in[src] to out[dst]: tag and every field byte
// copied, used fields replaced by their updated values.
func (p *pass) transfer(in, out []byte, src, dst region.Cursor) {
	stride := p.d.Stride()
	guard.Write(out, dst.Int(), stride)
	copy(out[dst:dst.Advance(stride)], in[src:src.Advance(stride)])
	for m := uint64(p.set); m != 0; m &= m - 1 {
		j := bits.TrailingZeros64(m)
		slot := p.d.FieldSlot(j)
		w := p.d.Width(j)
		layout.Store(out, dst.Int()+slot, w, p.fn(j, layout.Load(in, src.Int()+slot, w)))
	}
}

func begin(l *List, set layout.FieldSet, fn layout.UpdateFunc) (*pass, []byte, error) {
	if err := l.desc.CheckUpdate(set, fn); err != nil {
		return nil, nil, err
	}
	buf, err := l.view(errors.PhaseTraverse)
	if err != nil {
		return nil, nil, err
	}
	return &pass{d: l.desc, set: set, fn: fn}, buf, nil
}

// recursionSegment bounds how many nodes one recursive descent visits before
// it unwinds to its entry point, which resumes from the returned cursor.
// Stack use is therefore bounded by the segment, not by the list length.
var recursionSegment = 1 << 14

// UpdateRecInPlace applies fn to the fields in set of every node, mutating l,
// and returns l.
func UpdateRecInPlace(l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
	p, buf, err := begin(l, set, fn)
	if err != nil {
		return nil, err
	}
	for cur := region.Cursor(0); ; {
		next, done, err := p.recInPlace(buf, cur, recursionSegment)
		if err != nil {
			return nil, err
		}
		if done {
			return l, nil
		}
		guard.Advance(cur.Int(), next.Int())
		cur = next
	}
}

// recInPlace updates nodes from cur until the terminal node or until budget
// nodes have been visited. It returns the cursor to resume from and whether
// the terminal node was reached.
func (p *pass) recInPlace(buf []byte, cur region.Cursor, budget int) (region.Cursor, bool, error) {
	cons, err := p.step(buf, cur)
	if err != nil {
		return cur, false, err
	}
	if !cons {
		return cur, true, nil
	}
	p.apply(buf, cur)
	next := cur.Advance(p.d.Stride())
	if budget <= 1 {
		return next, false, nil
	}
	return p.recInPlace(buf, next, budget-1)
}

// UpdateRecCopy writes src with fn applied to the fields in set into dst, an
// allocated list of the same layout and count, and returns dst. src is not
// modified.
func UpdateRecCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
	p, in, out, err := beginCopy(src, dst, set, fn)
	if err != nil {
		return nil, err
	}
	var rd, wr region.Cursor
	for {
		nrd, nwr, done, err := p.recCopy(in, out, rd, wr, recursionSegment)
		if err != nil {
			return nil, err
		}
		if done {
			return dst, nil
		}
		guard.Advance(rd.Int(), nrd.Int())
		guard.Advance(wr.Int(), nwr.Int())
		rd, wr = nrd, nwr
	}
}

func (p *pass) recCopy(in, out []byte, src, dst region.Cursor, budget int) (region.Cursor, region.Cursor, bool, error) {
	cons, err := p.step(in, src)
	if err != nil {
		return src, dst, false, err
	}
	if !cons {
		guard.Write(out, dst.Int(), layout.TagSize)
		out[dst] = layout.TagNil
		return src, dst, true, nil
	}
	p.transfer(in, out, src, dst)
	nsrc, ndst := src.Advance(p.d.Stride()), dst.Advance(p.d.Stride())
	if budget <= 1 {
		return nsrc, ndst, false, nil
	}
	return p.recCopy(in, out, nsrc, ndst, budget-1)
}

// UpdateIterInPlace is the loop form of UpdateRecInPlace.
func UpdateIterInPlace(l *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	p, buf, err := begin(l, set, fn)
	if err != nil {
		return err
	}

	stride := p.d.Stride()
	for cur := region.Cursor(0); ; {
		cons, err := p.step(buf, cur)
		if err != nil {
			return err
		}
		if !cons {
			return nil
		}
		p.apply(buf, cur)
		next := cur.Advance(stride)
		guard.Advance(cur.Int(), next.Int())
		cur = next
	}
}

// UpdateIterCopy is the loop form of UpdateRecCopy.
func UpdateIterCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	p, in, out, err := beginCopy(src, dst, set, fn)
	if err != nil {
		return err
	}

	stride := p.d.Stride()
	var rd, wr region.Cursor
	for {
		cons, err := p.step(in, rd)
		if err != nil {
			return err
		}
		if !cons {
			guard.Write(out, wr.Int(), layout.TagSize)
			out[wr] = layout.TagNil
			return nil
		}
		p.transfer(in, out, rd, wr)
		guard.Advance(rd.Int(), rd.Advance(stride).Int())
		guard.Advance(wr.Int(), wr.Advance(stride).Int())
		rd, wr = rd.Advance(stride), wr.Advance(stride)
	}
}

func beginCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) (*pass, []byte, []byte, error) {
	if err := sameShape(src, dst); err != nil {
		return nil, nil, nil, err
	}
	p, in, err := begin(src, set, fn)
	if err != nil {
		return nil, nil, nil, err
	}
	out, err := dst.view(errors.PhaseTraverse)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, in, out, nil
}
