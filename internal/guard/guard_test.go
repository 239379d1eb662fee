package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrite(t *testing.T) {
	buf := make([]byte, 4)
	if !Enabled {
		assert.NotPanics(t, func() { Write(buf, 2, 4) })
		return
	}
	assert.NotPanics(t, func() { Write(buf, 0, 4) })
	assert.Panics(t, func() { Write(buf, 2, 4) })
	assert.Panics(t, func() { Write(buf, -1, 1) })
}

func TestAdvance(t *testing.T) {
	if !Enabled {
		assert.NotPanics(t, func() { Advance(5, 3) })
		return
	}
	assert.NotPanics(t, func() { Advance(3, 5) })
	assert.Panics(t, func() { Advance(5, 5) })
}
