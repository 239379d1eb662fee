package region

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/packlayout/errors"
)

// DefaultHeapLimit bounds a single heap allocation when no limit is given.
//
// The limit is the only OutOfMemory the heap allocator reports. The Go
// runtime aborts the process when the heap itself is exhausted, so callers
// handling untrusted sizes should set a limit below the memory they have.
const DefaultHeapLimit = 1 << 36

// maxHeapLimit keeps every accepted size below what make can represent on
// 64-bit platforms.
const maxHeapLimit = 1 << 47

// Heap allocates regions on the Go heap.
type Heap struct {
	limit int
}

// NewHeap creates a heap allocator refusing single allocations above limit
// bytes. A non-positive limit selects DefaultHeapLimit; larger limits are
// capped at 128 TiB.
func NewHeap(limit int) *Heap {
	if limit <= 0 {
		limit = DefaultHeapLimit
	}
	if limit > maxHeapLimit {
		limit = maxHeapLimit
	}
	return &Heap{limit: limit}
}

// Limit returns the largest allocation the allocator accepts.
func (h *Heap) Limit() int { return h.limit }

// Allocate returns a region of exactly size bytes, or OutOfMemory when size
// exceeds the allocator's limit.
func (h *Heap) Allocate(size int) (*Region, error) {
	if size < 0 {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "negative size %d", size)
	}
	if size > h.limit {
		return nil, errors.OutOfMemory(size, fmt.Errorf("exceeds heap limit %d", h.limit))
	}

	r := FromBytes(make([]byte, size))
	Logger().Debug("allocated region",
		zap.Stringer("region", r.id),
		zap.String("backing", string(BackingHeap)),
		zap.Int("size", size))
	return r, nil
}
