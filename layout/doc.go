// Package layout describes how a packed Cons/Nil list is laid out in memory.
//
// A Descriptor fixes the layout kind, the number of fields per node and the
// width of each field. All sizing and offset arithmetic used by builders and
// traversals goes through the Descriptor, so the encoding invariants live in
// one place.
//
// # Layout Rules
//
// Interleaved (AoS), with stride = 1 + Σ widths:
//   - tag of node i: i*stride
//   - field j of node i: i*stride + 1 + Σ_{m<j} width_m
//   - region size for n nodes: n*stride + 1
//
// Columnar (SoA):
//   - tag of node i: i in the tag buffer (n+1 bytes)
//   - field j of node i: i*width_j in field buffer j (n*width_j bytes)
//
// Fields are stored little-endian at widths 1, 2, 4 or 8 with no padding.
//
// # Field Sets
//
// A FieldSet names the fields a traversal reads and writes. Indices are
// zero-based. The set is fixed before a traversal starts and never changes
// while it runs.
//
// # WIT Types
//
// FromWIT derives field widths from WIT primitive types. Records, tuples,
// enums and flags are flattened into their fixed-width components; strings,
// lists and other variable-length or multi-case types are rejected.
package layout
