package soa

import (
	"math/bits"

	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

// pass holds the inputs and buffer views of one traversal. in and out are
// indexed by field; entries the traversal may not touch are nil.
type pass struct {
	d   *layout.Descriptor
	fn  layout.UpdateFunc
	in  [][]byte
	out [][]byte
	set layout.FieldSet
}

// step classifies the node whose tag is at t.
func (p *pass) step(tags []byte, t region.Cursor) (bool, error) {
	if t.Int() >= len(tags) {
		return false, errors.Truncated(errors.PhaseTraverse, layoutName, t.Int(), len(tags))
	}
	switch tag := tags[t]; tag {
	case layout.TagCons:
		if t.Int() >= len(tags)-layout.TagSize {
			return false, errors.Truncated(errors.PhaseTraverse, layoutName, t.Int(), len(tags))
		}
		return true, nil
	case layout.TagNil:
		if t.Int() != len(tags)-layout.TagSize {
			return false, errors.CountMismatch(errors.PhaseTraverse, layoutName, len(tags)-layout.TagSize, t.Int())
		}
		return false, nil
	default:
		return false, errors.MalformedTag(errors.PhaseTraverse, layoutName, t.Int(), tag)
	}
}

func begin(l *List, set layout.FieldSet, fn layout.UpdateFunc) (*pass, []byte, error) {
	if err := l.desc.CheckUpdate(set, fn); err != nil {
		return nil, nil, err
	}
	tags, err := l.tagView(errors.PhaseTraverse)
	if err != nil {
		return nil, nil, err
	}
	in, err := l.views(errors.PhaseTraverse, set)
	if err != nil {
		return nil, nil, err
	}
	return &pass{d: l.desc, set: set, fn: fn, in: in}, tags, nil
}

// beginCopy fetches every buffer of src and dst, since a copy must carry the
// untouched columns too.
func beginCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) (*pass, []byte, []byte, error) {
	if err := sameShape(src, dst); err != nil {
		return nil, nil, nil, err
	}
	if err := src.desc.CheckUpdate(set, fn); err != nil {
		return nil, nil, nil, err
	}
	all := layout.AllFields(src.desc.Arity())

	tagsIn, err := src.tagView(errors.PhaseTraverse)
	if err != nil {
		return nil, nil, nil, err
	}
	tagsOut, err := dst.tagView(errors.PhaseTraverse)
	if err != nil {
		return nil, nil, nil, err
	}
	in, err := src.views(errors.PhaseTraverse, all)
	if err != nil {
		return nil, nil, nil, err
	}
	out, err := dst.views(errors.PhaseTraverse, all)
	if err != nil {
		return nil, nil, nil, err
	}
	return &pass{d: src.desc, set: set, fn: fn, in: in, out: out}, tagsIn, tagsOut, nil
}

// recursionSegment bounds how many nodes one recursive descent visits before
// it unwinds to its entry point, which resumes from the returned cursor.
var recursionSegment = 1 << 14

// UpdateRecInPlace applies fn to the fields in set of every node, mutating
// only the buffers of those fields, and returns l.
func UpdateRecInPlace(l *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
	p, tags, err := begin(l, set, fn)
	if err != nil {
		return nil, err
	}
	for t := region.Cursor(0); ; {
		next, done, err := p.recInPlace(tags, t, recursionSegment)
		if err != nil {
			return nil, err
		}
		if done {
			return l, nil
		}
		guard.Advance(t.Int(), next.Int())
		t = next
	}
}

// recInPlace takes the tag cursor t; node t's column cursors are derived
// from it and only those of used fields are formed. It stops after budget
// nodes and returns the tag cursor to resume from.
func (p *pass) recInPlace(tags []byte, t region.Cursor, budget int) (region.Cursor, bool, error) {
	cons, err := p.step(tags, t)
	if err != nil {
		return t, false, err
	}
	if !cons {
		return t, true, nil
	}
	p.apply(t.Int() / layout.TagSize)
	next := t.Advance(layout.TagSize)
	if budget <= 1 {
		return next, false, nil
	}
	return p.recInPlace(tags, next, budget-1)
}

// apply updates the used fields of node i in place.
func (p *pass) apply(i int) {
	for m := uint64(p.set); m != 0; m &= m - 1 {
		j := bits.TrailingZeros64(m)
		off := p.d.ColumnOffset(i, j)
		w := p.d.Width(j)
		col := p.in[j]
		guard.Write(col, off, w)
		layout.Store(col, off, w, p.fn(j, layout.Load(col, off, w)))
	}
}

// UpdateRecCopy writes src with fn applied to the fields in set into dst and
// returns dst. Untouched fields are copied so dst stands on its own.
func UpdateRecCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) (*List, error) {
	p, tagsIn, tagsOut, err := beginCopy(src, dst, set, fn)
	if err != nil {
		return nil, err
	}
	for t := region.Cursor(0); ; {
		next, done, err := p.recCopy(tagsIn, tagsOut, t, recursionSegment)
		if err != nil {
			return nil, err
		}
		if done {
			return dst, nil
		}
		guard.Advance(t.Int(), next.Int())
		t = next
	}
}

func (p *pass) recCopy(tagsIn, tagsOut []byte, t region.Cursor, budget int) (region.Cursor, bool, error) {
	cons, err := p.step(tagsIn, t)
	if err != nil {
		return t, false, err
	}
	guard.Write(tagsOut, t.Int(), layout.TagSize)
	if !cons {
		tagsOut[t] = layout.TagNil
		return t, true, nil
	}
	tagsOut[t] = layout.TagCons
	p.transfer(t.Int() / layout.TagSize)
	next := t.Advance(layout.TagSize)
	if budget <= 1 {
		return next, false, nil
	}
	return p.recCopy(tagsIn, tagsOut, next, budget-1)
}

// transfer writes every field of node i from in to out.
func (p *pass) transfer(i int) {
	for j := range p.in {
		w := p.d.Width(j)
		off := p.d.ColumnOffset(i, j)
		guard.Write(p.out[j], off, w)
		if p.set.Has(j) {
			layout.Store(p.out[j], off, w, p.fn(j, layout.Load(p.in[j], off, w)))
			continue
		}
		copy(p.out[j][off:off+w], p.in[j][off:off+w])
	}
}

// UpdateIterInPlace is the loop form of UpdateRecInPlace: one tag cursor and
// one cursor per used field buffer.
func UpdateIterInPlace(l *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	p, tags, err := begin(l, set, fn)
	if err != nil {
		return err
	}

	var cur [layout.MaxFields]region.Cursor
	for t := region.Cursor(0); ; {
		cons, err := p.step(tags, t)
		if err != nil {
			return err
		}
		if !cons {
			return nil
		}
		for m := uint64(p.set); m != 0; m &= m - 1 {
			j := bits.TrailingZeros64(m)
			w := p.d.Width(j)
			col := p.in[j]
			guard.Write(col, cur[j].Int(), w)
			layout.Store(col, cur[j].Int(), w, p.fn(j, layout.Load(col, cur[j].Int(), w)))
			guard.Advance(cur[j].Int(), cur[j].Advance(w).Int())
			cur[j] = cur[j].Advance(w)
		}
		guard.Advance(t.Int(), t.Advance(layout.TagSize).Int())
		t = t.Advance(layout.TagSize)
	}
}

// UpdateIterCopy is the loop form of UpdateRecCopy. Read and write cursor
// sets advance in lockstep.
func UpdateIterCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	p, tagsIn, tagsOut, err := beginCopy(src, dst, set, fn)
	if err != nil {
		return err
	}

	var rd, wr [layout.MaxFields]region.Cursor
	var tr, tw region.Cursor
	for {
		cons, err := p.step(tagsIn, tr)
		if err != nil {
			return err
		}
		guard.Write(tagsOut, tw.Int(), layout.TagSize)
		if !cons {
			tagsOut[tw] = layout.TagNil
			return nil
		}
		tagsOut[tw] = layout.TagCons
		guard.Advance(tr.Int(), tr.Advance(layout.TagSize).Int())
		guard.Advance(tw.Int(), tw.Advance(layout.TagSize).Int())
		tr, tw = tr.Advance(layout.TagSize), tw.Advance(layout.TagSize)

		for j := range p.in {
			w := p.d.Width(j)
			r, o := rd[j].Int(), wr[j].Int()
			guard.Write(p.out[j], o, w)
			if p.set.Has(j) {
				layout.Store(p.out[j], o, w, p.fn(j, layout.Load(p.in[j], r, w)))
			} else {
				copy(p.out[j][o:o+w], p.in[j][r:r+w])
			}
			guard.Advance(r, rd[j].Advance(w).Int())
			guard.Advance(o, wr[j].Advance(w).Int())
			rd[j], wr[j] = rd[j].Advance(w), wr[j].Advance(w)
		}
	}
}
