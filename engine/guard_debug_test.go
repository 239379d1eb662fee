//go:build packlayout_debug

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/packlayout/internal/guard"
	"github.com/wippyai/packlayout/layout"
)

// Every write and cursor step is asserted in this build; any out-of-range
// store or backwards cursor panics inside the traversal.
func TestGuarded_AllStrategies(t *testing.T) {
	require.True(t, guard.Enabled)

	widths := []int{1, 8, 2, 4}
	for _, kind := range []layout.Kind{layout.Interleaved, layout.Columnar} {
		e := newEngine(t, kind, widths...)
		for _, n := range []int{0, 1, 64, 40000} {
			for _, strategy := range Strategies(kind) {
				for _, set := range []layout.FieldSet{layout.Fields(2), layout.AllFields(4)} {
					assert.NotPanics(t, func() {
						s, err := e.Build(n, layout.Sequence)
						require.NoError(t, err)
						out, err := e.Update(s, strategy, set, layout.Increment(1))
						require.NoError(t, err)
						require.NoError(t, out.Verify(layout.Expected(e.Descriptor(), n, layout.Sequence, set, layout.Increment(1))))
					}, "%s %s n=%d %s", e.Descriptor(), strategy, n, set)
				}
			}
		}
	}
}

func TestGuarded_RejectsBackwardsCursor(t *testing.T) {
	assert.Panics(t, func() { guard.Advance(8, 4) })
	assert.Panics(t, func() { guard.Write(make([]byte, 8), 6, 4) })
}
