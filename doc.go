// Package packlayout provides a packed, pointer-free encoding for a recursive
// Cons/Nil list with fixed-width fields, and update traversals over it.
//
// A list instance is serialized into flat byte regions under one of two
// layouts and then walked by traversals that read and update only the fields
// they use.
//
// # Architecture Overview
//
//	packlayout/          Root package with the Allocator interface
//	├── layout/          Descriptor, used-field sets, sizing and offset arithmetic
//	├── region/          Owned byte regions: Go heap and wazero linear memory
//	├── aos/             Interleaved layout: builder and traversals
//	├── soa/             Columnar layout: builder, traversals and flat loops
//	├── engine/          Strategy dispatch over either layout
//	├── errors/          Structured error types
//	└── cmd/run/         Command line runner
//
// # Layouts
//
// Interleaved (AoS) places each node's tag followed by all of its fields in a
// single buffer, nodes back-to-back:
//
//	[C f1 f2 .. fk][C f1 f2 .. fk] ... [N]
//
// Columnar (SoA) keeps one buffer of tags and one buffer per field. A node is
// its position in every buffer:
//
//	tags: [C C C .. N]
//	f1:   [v v v ..]
//	fk:   [v v v ..]
//
// Tags are single bytes (TagCons = 0x01, TagNil = 0x00). Fields are stored
// little-endian at their declared width with no padding.
//
// # Quick Start
//
//	d, _ := layout.New(layout.Columnar, 4, 4, 8)
//	eng, err := engine.New(d)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	list, err := eng.Build(1_000_000, layout.Sequence)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = eng.Update(list, engine.FlatInPlace, layout.Fields(1), layout.Increment(1))
//
// # Debug Guard
//
// Building with -tags packlayout_debug turns on bounds assertions for every
// write and cursor advance. Release builds rely on exact pre-sizing and a
// capacity check before each pass.
//
// # Ownership
//
// Every region has exactly one owner. In-place strategies require exclusive
// access to the structure; out-of-place strategies read the input and return
// a freshly allocated structure. Nothing in this module is safe for concurrent
// use on the same structure.
package packlayout
