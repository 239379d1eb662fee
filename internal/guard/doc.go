// Package guard holds hot-path assertions that are compiled in only with the
// packlayout_debug build tag.
//
// Release builds rely on exact pre-sizing: every pass checks region capacity
// once before it starts. Debug builds additionally check every write against
// the region end and every cursor advance for monotonicity, and panic with a
// CapacityExceeded error on violation.
//
//	go test -tags packlayout_debug ./...
package guard
