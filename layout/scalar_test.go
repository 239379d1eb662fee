package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadStore(t *testing.T) {
	buf := make([]byte, 16)

	tests := []struct {
		name  string
		width int
		in    uint64
		want  uint64
		bytes []byte
	}{
		{"u8", 1, 0x1ff, 0xff, []byte{0xff}},
		{"u16", 2, 0x12345, 0x2345, []byte{0x45, 0x23}},
		{"u32", 4, 0x12345678, 0x12345678, []byte{0x78, 0x56, 0x34, 0x12}},
		{"u64", 8, 0x0102030405060708, 0x0102030405060708, []byte{8, 7, 6, 5, 4, 3, 2, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			Store(buf, 3, tc.width, tc.in)
			assert.Equal(t, tc.bytes, buf[3:3+tc.width])
			assert.Equal(t, tc.want, Load(buf, 3, tc.width))
			assert.Equal(t, tc.want, Truncate(tc.in, tc.width))
		})
	}
}

func TestExpected(t *testing.T) {
	d, err := New(Columnar, 1, 4)
	assert.NoError(t, err)

	got := Expected(d, 3, Constant(255), Fields(0), Increment(1))
	assert.Equal(t, [][]uint64{{0, 255}, {0, 255}, {0, 255}}, got)

	got = Expected(d, 2, Sequence, Fields(1), Identity)
	assert.Equal(t, [][]uint64{{0, 0}, {1, 1}}, got)
}
