package region

import (
	"github.com/google/uuid"
	"github.com/tetratelabs/wazero/api"
)

// Backing names where a region's bytes live.
type Backing string

const (
	BackingHeap   Backing = "heap"
	BackingLinear Backing = "linear"
)

// Region is a contiguous, fixed-capacity byte buffer with a single owner.
type Region struct {
	mem     api.Memory
	heap    []byte
	backing Backing
	size    int
	id      uuid.UUID
	addr    uint32
}

// FromBytes wraps buf as a heap region. The caller hands ownership of buf to
// the region.
func FromBytes(buf []byte) *Region {
	return &Region{
		id:      newID(),
		heap:    buf,
		size:    len(buf),
		backing: BackingHeap,
	}
}

// ID returns the region identity.
func (r *Region) ID() uuid.UUID { return r.id }

// Len returns the region capacity in bytes.
func (r *Region) Len() int { return r.size }

// Backing returns where the region's bytes live.
func (r *Region) Backing() Backing { return r.backing }

// Addr returns the region start in linear memory, or 0 for heap regions.
func (r *Region) Addr() uint32 { return r.addr }

// Bytes returns a view of the region. Writes through the view update the
// region. Linear views must be re-fetched after any later allocation.
func (r *Region) Bytes() []byte {
	if r.mem == nil {
		return r.heap
	}
	v, ok := r.mem.Read(r.addr, uint32(r.size))
	if !ok {
		return nil
	}
	return v
}

// Snapshot returns a copy of the region's bytes.
func (r *Region) Snapshot() []byte {
	out := make([]byte, r.size)
	copy(out, r.Bytes())
	return out
}

// Cursor is a byte position within a region.
type Cursor int

// Advance returns the cursor moved forward by n bytes.
func (c Cursor) Advance(n int) Cursor { return c + Cursor(n) }

// Int returns the cursor as a slice index.
func (c Cursor) Int() int { return int(c) }

func newID() uuid.UUID { return uuid.New() }
