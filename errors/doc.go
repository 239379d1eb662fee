// Package errors provides structured error types for the packlayout module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the layout involved, the byte offset into the region when
// one is known, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTraverse, errors.KindMalformedRegion).
//		Layout("aos").
//		Offset(40).
//		Detail("unknown tag 0x%02x", tag).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfMemory(size, cause)
//	err := errors.CapacityExceeded(errors.PhaseBuild, "soa", need, have)
//
// Every failure in this module is fatal to the call that produced it: there is
// no partial success and nothing is retried.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
