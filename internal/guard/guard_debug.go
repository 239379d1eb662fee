//go:build packlayout_debug

package guard

import (
	"fmt"

	"github.com/wippyai/packlayout/errors"
)

// Enabled reports whether assertions are compiled in.
const Enabled = true

// Write panics if writing width bytes at off would cross the end of buf.
func Write(buf []byte, off, width int) {
	if off < 0 || off+width > len(buf) {
		panic(errors.New(errors.PhaseTraverse, errors.KindCapacityExceeded).
			Offset(off).
			Detail("write of %d bytes crosses region end %d", width, len(buf)).
			Build())
	}
}

// Advance panics unless next moves strictly forward from prev.
func Advance(prev, next int) {
	if next <= prev {
		panic(fmt.Sprintf("cursor moved backwards: %d -> %d", prev, next))
	}
}
