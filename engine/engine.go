package engine

import (
	"go.uber.org/zap"

	"github.com/wippyai/packlayout"
	"github.com/wippyai/packlayout/aos"
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
	"github.com/wippyai/packlayout/soa"
)

// Engine builds and updates packed lists of one descriptor.
type Engine struct {
	desc  *layout.Descriptor
	alloc packlayout.Allocator
	log   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllocator sets the allocator for built structures and for the
// destinations of copy strategies. The default is a heap allocator with
// region.DefaultHeapLimit.
func WithAllocator(a packlayout.Allocator) Option {
	return func(e *Engine) {
		e.alloc = a
	}
}

// WithLogger sets the engine's logger. The default is Logger().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine for descriptor d.
func New(d *layout.Descriptor, opts ...Option) (*Engine, error) {
	if d == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "descriptor is nil")
	}
	e := &Engine{desc: d}
	for _, opt := range opts {
		opt(e)
	}
	if e.alloc == nil {
		e.alloc = region.NewHeap(0)
	}
	if e.log == nil {
		e.log = Logger()
	}
	return e, nil
}

// Descriptor returns the engine's field configuration.
func (e *Engine) Descriptor() *layout.Descriptor { return e.desc }

// Allocate sizes and allocates an unbuilt structure of n nodes.
func (e *Engine) Allocate(n int) (*Structure, error) {
	return allocate(e.alloc, e.desc, n)
}

// Build allocates and serializes an n-node list whose field j of node i is
// gen(i, j). A nil gen uses layout.Sequence.
func (e *Engine) Build(n int, gen layout.Generator) (*Structure, error) {
	s, err := e.Allocate(n)
	if err != nil {
		return nil, err
	}
	if s.interleaved != nil {
		_, err = aos.Build(s.interleaved, gen)
	} else {
		_, err = soa.Build(s.columnar, gen)
	}
	if err != nil {
		return nil, err
	}

	e.log.Debug("built structure",
		zap.Stringer("layout", e.desc),
		zap.Int("nodes", n))
	return s, nil
}

// Update applies fn to the fields in set of every node of s using strategy.
// In-place strategies return s; copy strategies return a fresh structure
// from the engine's allocator and leave s unchanged.
func (e *Engine) Update(s *Structure, strategy Strategy, set layout.FieldSet, fn layout.UpdateFunc) (*Structure, error) {
	if err := s.check(errors.PhaseTraverse); err != nil {
		return nil, err
	}
	if !s.Descriptor().Equal(e.desc) {
		return nil, errors.InvalidInput(errors.PhaseTraverse, "structure layout %s differs from engine %s", s.Descriptor(), e.desc)
	}
	if !strategy.Supports(e.desc.Kind()) {
		return nil, errors.Unsupported(errors.PhaseTraverse, strategy.String()+" on "+e.desc.Kind().String())
	}
	if err := e.desc.CheckUpdate(set, fn); err != nil {
		return nil, err
	}

	dst := s
	if !strategy.InPlace() {
		var err error
		if dst, err = e.Allocate(s.Count()); err != nil {
			return nil, err
		}
	}

	e.log.Debug("update pass",
		zap.Stringer("strategy", strategy),
		zap.Stringer("layout", e.desc),
		zap.Int("nodes", s.Count()),
		zap.Stringer("used", set))

	var err error
	if e.desc.Kind() == layout.Interleaved {
		err = updateInterleaved(s.interleaved, dst.interleaved, strategy, set, fn)
	} else {
		err = updateColumnar(s.columnar, dst.columnar, strategy, set, fn)
	}
	if err != nil {
		e.log.Debug("update failed", zap.Stringer("strategy", strategy), zap.Error(err))
		return nil, err
	}
	return dst, nil
}

func updateInterleaved(src, dst *aos.List, strategy Strategy, set layout.FieldSet, fn layout.UpdateFunc) error {
	var err error
	switch strategy {
	case RecursiveInPlace:
		_, err = aos.UpdateRecInPlace(src, set, fn)
	case RecursiveCopy:
		_, err = aos.UpdateRecCopy(src, dst, set, fn)
	case IterativeInPlace:
		err = aos.UpdateIterInPlace(src, set, fn)
	case IterativeCopy:
		err = aos.UpdateIterCopy(src, dst, set, fn)
	default:
		err = errors.Unsupported(errors.PhaseTraverse, strategy.String()+" on aos")
	}
	return err
}

func updateColumnar(src, dst *soa.List, strategy Strategy, set layout.FieldSet, fn layout.UpdateFunc) error {
	var err error
	switch strategy {
	case RecursiveInPlace:
		_, err = soa.UpdateRecInPlace(src, set, fn)
	case RecursiveCopy:
		_, err = soa.UpdateRecCopy(src, dst, set, fn)
	case IterativeInPlace:
		err = soa.UpdateIterInPlace(src, set, fn)
	case IterativeCopy:
		err = soa.UpdateIterCopy(src, dst, set, fn)
	case FlatCopy:
		err = soa.UpdateFlatCopy(src, dst, set, fn)
	case FlatInPlace:
		err = soa.UpdateFlatInPlace(src, set, fn)
	default:
		err = errors.Unsupported(errors.PhaseTraverse, strategy.String()+" on soa")
	}
	return err
}
