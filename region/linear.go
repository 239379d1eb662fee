package region

import (
	"context"
	"fmt"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/packlayout/errors"
)

// PageSize is the WebAssembly linear memory page size.
const PageSize = 65536

// regionAlign is the start alignment of linear regions; the widest field is 8 bytes.
const regionAlign = 8

// firstAddr keeps address 0 free so a zero Addr never names a live region.
const firstAddr = regionAlign

// memoryModule is a minimal WASM module with 1 page of memory exported as "memory"
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

// LinearOption configures a Linear allocator.
type LinearOption func(*linearConfig)

type linearConfig struct {
	maxPages uint32
}

// WithMaxPages caps linear memory growth. The default is the wasm32 maximum
// of 65536 pages (4 GiB).
func WithMaxPages(pages uint32) LinearOption {
	return func(c *linearConfig) {
		c.maxPages = pages
	}
}

// Linear bump-allocates regions in the linear memory of a wazero module.
// Regions are never freed individually; Close releases all of them.
type Linear struct {
	rt   wazero.Runtime
	mem  api.Memory
	next uint32
}

// NewLinear instantiates a memory-only module and returns an allocator over
// its exported memory.
func NewLinear(ctx context.Context, opts ...LinearOption) (*Linear, error) {
	cfg := linearConfig{maxPages: 65536}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxPages == 0 {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "linear memory needs at least one page")
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithMemoryLimitPages(cfg.maxPages))

	compiled, err := rt.CompileModule(ctx, memoryModule)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseAllocate, errors.KindOutOfMemory, err, "compile memory module")
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseAllocate, errors.KindOutOfMemory, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		rt.Close(ctx)
		return nil, errors.Unsupported(errors.PhaseAllocate, "memory module exports no memory")
	}

	return &Linear{
		rt:   rt,
		mem:  mem,
		next: firstAddr,
	}, nil
}

// Memory returns the underlying linear memory.
func (l *Linear) Memory() api.Memory { return l.mem }

// Used returns the first unallocated linear address.
func (l *Linear) Used() uint32 { return l.next }

// Allocate places a region of exactly size bytes in linear memory, growing it
// by whole pages when needed.
func (l *Linear) Allocate(size int) (*Region, error) {
	if size < 0 {
		return nil, errors.InvalidInput(errors.PhaseAllocate, "negative size %d", size)
	}

	start := alignTo(uint64(l.next), regionAlign)
	end := start + uint64(size)
	if end > math.MaxUint32 {
		return nil, errors.OutOfMemory(size, fmt.Errorf("linear memory is limited to 4 GiB"))
	}

	if end > uint64(l.mem.Size()) {
		have := uint64(l.mem.Size()) / PageSize
		need := (end + PageSize - 1) / PageSize
		if _, ok := l.mem.Grow(uint32(need - have)); !ok {
			return nil, errors.OutOfMemory(size, fmt.Errorf("grow linear memory from %d to %d pages", have, need))
		}
	}

	r := &Region{
		id:      newID(),
		mem:     l.mem,
		addr:    uint32(start),
		size:    size,
		backing: BackingLinear,
	}
	l.next = uint32(end)

	Logger().Debug("allocated region",
		zap.Stringer("region", r.id),
		zap.String("backing", string(BackingLinear)),
		zap.Uint32("addr", r.addr),
		zap.Int("size", size))
	return r, nil
}

// Close releases the wazero runtime and every region allocated from it.
func (l *Linear) Close(ctx context.Context) error {
	return l.rt.Close(ctx)
}

func alignTo(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
