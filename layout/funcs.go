package layout

import "github.com/wippyai/packlayout/errors"

// Generator supplies the value of field j of node i while building.
type Generator func(node, field int) uint64

// UpdateFunc returns the new value of a field given its current value.
// Results are truncated to the field width on store.
type UpdateFunc func(field int, v uint64) uint64

// Sequence sets every field of node i to i.
func Sequence(node, _ int) uint64 { return uint64(node) }

// Constant sets every field to v.
func Constant(v uint64) Generator {
	return func(int, int) uint64 { return v }
}

// Identity leaves every value unchanged.
func Identity(_ int, v uint64) uint64 { return v }

// Increment adds delta to every value, wrapping at the field width.
func Increment(delta uint64) UpdateFunc {
	return func(_ int, v uint64) uint64 { return v + delta }
}

// Expected returns the logical values a list built by gen holds after fn has
// been applied to the fields in set. The result is indexed [node][field].
func Expected(d *Descriptor, n int, gen Generator, set FieldSet, fn UpdateFunc) [][]uint64 {
	out := make([][]uint64, n)
	k := d.Arity()
	for i := 0; i < n; i++ {
		row := make([]uint64, k)
		for j := 0; j < k; j++ {
			v := Truncate(gen(i, j), d.widths[j])
			if set.Has(j) {
				v = Truncate(fn(j, v), d.widths[j])
			}
			row[j] = v
		}
		out[i] = row
	}
	return out
}

// CheckUpdate validates the inputs of an update traversal before any cursor
// moves.
func (d *Descriptor) CheckUpdate(set FieldSet, fn UpdateFunc) error {
	if fn == nil {
		return errors.InvalidInput(errors.PhaseConfig, "update function is nil")
	}
	return set.Validate(d.Arity())
}
