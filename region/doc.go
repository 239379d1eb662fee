// Package region provides fixed-capacity, exclusively owned byte regions and
// the allocators that produce them.
//
// A Region is a contiguous block of bytes plus an identity. It is sized once,
// populated once by a builder, and never resized. Two allocators are
// provided:
//
//	Heap    regions are Go byte slices, bounded by a configurable limit
//	Linear  regions live in the linear memory of a wazero module instance,
//	        addressable by guest code at Region.Addr()
//
// Linear memory can grow and move, so Region.Bytes returns a fresh view on
// every call. Callers fetch the view at the start of a pass, after every
// allocation the pass needs has been made.
//
// # Cursors
//
// A Cursor is a byte position within one region. Cursors are values: they
// are passed into and returned from every step, never shared by reference.
package region
