package layout

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/wippyai/packlayout/errors"
)

// FieldSet is the set of zero-based field indices a traversal uses.
type FieldSet uint64

// Fields returns the set holding the given indices. Indices outside
// [0, MaxFields) are dropped; Validate reports the resulting set.
func Fields(idx ...int) FieldSet {
	var s FieldSet
	for _, i := range idx {
		if i >= 0 && i < MaxFields {
			s |= 1 << uint(i)
		}
	}
	return s
}

// AllFields returns the set {0..k-1}.
func AllFields(k int) FieldSet {
	if k <= 0 {
		return 0
	}
	if k >= MaxFields {
		return ^FieldSet(0)
	}
	return FieldSet(1)<<uint(k) - 1
}

// Has reports whether field j is in the set.
func (s FieldSet) Has(j int) bool {
	return j >= 0 && j < MaxFields && s&(1<<uint(j)) != 0
}

// Len returns the number of fields in the set.
func (s FieldSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Indices returns the field indices in ascending order.
func (s FieldSet) Indices() []int {
	out := make([]int, 0, s.Len())
	for m := uint64(s); m != 0; m &= m - 1 {
		out = append(out, bits.TrailingZeros64(m))
	}
	return out
}

// Validate checks that the set is non-empty and within arity k.
func (s FieldSet) Validate(k int) error {
	if s == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "used field set is empty")
	}
	if s&^AllFields(k) != 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("used field set %s exceeds arity %d", s, k).
			Value(uint64(s)).
			Build()
	}
	return nil
}

func (s FieldSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, j := range s.Indices() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(j))
	}
	b.WriteByte('}')
	return b.String()
}
