// Package engine is the entry point for building and updating packed lists
// under either layout.
//
// # Architecture
//
// The engine package provides two main types:
//
//	Engine    - Owns a descriptor and an allocator; builds and updates lists
//	Structure - A built list of either layout, with read-back helpers
//
// # Strategies
//
// Every update runs one of six traversal strategies:
//
//	Strategy            Layouts    Driven by     Writes
//	──────────────────────────────────────────────────────────────
//	RecursiveInPlace    aos, soa   tag stream    input
//	RecursiveCopy       aos, soa   tag stream    fresh structure
//	IterativeInPlace    aos, soa   tag stream    input
//	IterativeCopy       aos, soa   tag stream    fresh structure
//	FlatCopy            soa        node count    fresh structure
//	FlatInPlace         soa        node count    input
//
// All strategies that a layout supports produce the same logical values.
// Requesting a flat strategy on an interleaved structure fails with
// errors.KindUnsupported.
//
// Recursive strategies recurse once per node within a bounded segment and
// resume from the segment's last cursor, so their stack use does not grow
// with the list length.
//
// # Usage
//
//	d, _ := layout.New(layout.Columnar, 4, 8)
//	eng, _ := engine.New(d)
//	s, _ := eng.Build(1000, layout.Sequence)
//	out, err := eng.Update(s, engine.FlatInPlace, layout.Fields(0), layout.Increment(1))
//
// # Thread Safety
//
// An Engine may be shared once configured. A Structure must be used by one
// goroutine at a time.
package engine
