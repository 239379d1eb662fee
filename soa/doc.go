// Package soa implements the columnar (struct-of-arrays) packed layout.
//
// A list of n nodes with k fields occupies k+1 regions: a tag buffer of n+1
// bytes and, for each field j, a buffer of n*width_j bytes. A node is its
// position i in every buffer:
//
//	tags: [C C C .. C N]
//	f1:   [v0 v1 .. vn-1]
//	fk:   [v0 v1 .. vn-1]
//
// # Field Skipping
//
// Traversals dereference only the tag buffer and the buffers of the fields
// they use. Buffers outside the used set are never read or written by
// in-place traversals.
//
// # Traversals
//
//	UpdateRecInPlace   recursive, walks tags, mutates used columns
//	UpdateRecCopy      recursive, walks tags, writes every column of dst
//	UpdateIterInPlace  loop form of UpdateRecInPlace
//	UpdateIterCopy     loop form of UpdateRecCopy
//	UpdateFlatCopy     count-bounded: one tag copy loop, one loop per column
//	UpdateFlatInPlace  count-bounded: one loop per used column, no tag access
//
// UpdateFlatInPlace is the only traversal whose per-element work is uniform
// and branch-free: each used column is a dense array updated front to back.
package soa
