package soa

import (
	"encoding/binary"
	"math/bits"

	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
)

// UpdateFlatCopy writes src into dst with fn applied to the fields in set,
// driven by the node count instead of the tag stream. Tags are copied and
// checked in one bounded loop, used fields are rewritten with a flat loop per
// buffer and untouched field buffers are bulk copied.
func UpdateFlatCopy(src, dst *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	p, tagsIn, tagsOut, err := beginCopy(src, dst, set, fn)
	if err != nil {
		return err
	}
	if err := copyTags(tagsOut, tagsIn, src.count); err != nil {
		return err
	}

	for j := range p.in {
		if !set.Has(j) {
			guard.Write(p.out[j], 0, len(p.in[j]))
			copy(p.out[j], p.in[j])
			continue
		}
		flatUpdate(p.out[j], p.in[j], p.d.Width(j), j, fn)
	}
	return nil
}

// UpdateFlatInPlace applies fn to the fields in set of every node. Only the
// buffers of those fields are touched; the tag buffer is never read.
func UpdateFlatInPlace(l *List, set layout.FieldSet, fn layout.UpdateFunc) error {
	if err := l.desc.CheckUpdate(set, fn); err != nil {
		return err
	}
	cols, err := l.views(errors.PhaseTraverse, set)
	if err != nil {
		return err
	}
	for m := uint64(set); m != 0; m &= m - 1 {
		j := bits.TrailingZeros64(m)
		flatUpdate(cols[j], cols[j], l.desc.Width(j), j, fn)
	}
	return nil
}

// copyTags copies n Cons tags and the terminal tag, failing on the first
// tag out of place.
func copyTags(dst, src []byte, n int) error {
	for i := 0; i < n; i++ {
		if src[i] != layout.TagCons {
			if src[i] == layout.TagNil {
				return errors.CountMismatch(errors.PhaseTraverse, layoutName, n, i)
			}
			return errors.MalformedTag(errors.PhaseTraverse, layoutName, i, src[i])
		}
		guard.Write(dst, i, layout.TagSize)
		dst[i] = layout.TagCons
	}
	if src[n] != layout.TagNil {
		return errors.MalformedTag(errors.PhaseTraverse, layoutName, n, src[n])
	}
	guard.Write(dst, n, layout.TagSize)
	dst[n] = layout.TagNil
	return nil
}

// flatUpdate rewrites every element of a field buffer. dst and src may be the
// same buffer. Each width gets its own loop so the compiler sees a fixed
// stride.
func flatUpdate(dst, src []byte, w, j int, fn layout.UpdateFunc) {
	switch w {
	case 1:
		for i := range src {
			guard.Write(dst, i, 1)
			dst[i] = byte(fn(j, uint64(src[i])))
		}
	case 2:
		for off := 0; off+2 <= len(src); off += 2 {
			guard.Write(dst, off, 2)
			v := binary.LittleEndian.Uint16(src[off:])
			binary.LittleEndian.PutUint16(dst[off:], uint16(fn(j, uint64(v))))
		}
	case 4:
		for off := 0; off+4 <= len(src); off += 4 {
			guard.Write(dst, off, 4)
			v := binary.LittleEndian.Uint32(src[off:])
			binary.LittleEndian.PutUint32(dst[off:], uint32(fn(j, uint64(v))))
		}
	default:
		for off := 0; off+8 <= len(src); off += 8 {
			guard.Write(dst, off, 8)
			v := binary.LittleEndian.Uint64(src[off:])
			binary.LittleEndian.PutUint64(dst[off:], fn(j, v))
		}
	}
}
