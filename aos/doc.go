// Package aos implements the interleaved (array-of-structs) packed layout.
//
// A list of n nodes with field widths w1..wk occupies one region of
// n*(1+Σw)+1 bytes:
//
//	[C f1..fk][C f1..fk] ... [N]
//
// Every traversal walks the tag stream with a single cursor and must step
// over all k fields of a node even when it uses only some of them, since the
// fields sit between consecutive tags.
//
// # Traversals
//
//	UpdateRecInPlace   recursive, mutates the list, returns its handle
//	UpdateRecCopy      recursive, writes into dst, returns dst
//	UpdateIterInPlace  loop, mutates the list
//	UpdateIterCopy     loop, writes into dst
//
// The recursive forms are tail-recursive in shape. Go does not eliminate
// tail calls, so each descent is bounded to a fixed segment of nodes and
// then unwinds to its entry point, which resumes from the returned cursor.
// Stack use stays constant however long the list is. The loop forms are
// separate implementations with the same contract.
package aos
