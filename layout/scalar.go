package layout

import "encoding/binary"

// Load reads a little-endian value of the given width at off.
func Load(buf []byte, off, width int) uint64 {
	switch width {
	case 1:
		return uint64(buf[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[off:]))
	default:
		return binary.LittleEndian.Uint64(buf[off:])
	}
}

// Store writes v truncated to width at off, little-endian.
func Store(buf []byte, off, width int, v uint64) {
	switch width {
	case 1:
		buf[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[off:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[off:], uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf[off:], v)
	}
}

// Truncate returns v as it reads back after a Store at width.
func Truncate(v uint64, width int) uint64 {
	if width >= 8 {
		return v
	}
	return v & (1<<(8*uint(width)) - 1)
}
