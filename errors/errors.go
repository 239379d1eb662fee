package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig   Phase = "config"   // descriptor and field-set validation
	PhaseAllocate Phase = "allocate" // region allocation
	PhaseBuild    Phase = "build"    // list serialization
	PhaseTraverse Phase = "traverse" // update traversals
	PhaseVerify   Phase = "verify"   // read-back and comparison
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfMemory      Kind = "out_of_memory"
	KindMalformedRegion  Kind = "malformed_region"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindInvalidInput     Kind = "invalid_input"
	KindUnsupported      Kind = "unsupported"
	KindOverflow         Kind = "overflow"
	KindMismatch         Kind = "mismatch"
)

// Error is the structured error type used throughout the module.
// Offset is a byte offset into the region involved, or -1 when not relevant.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Layout string
	Detail string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Layout != "" {
		b.WriteString(" (")
		b.WriteString(e.Layout)
		b.WriteByte(')')
	}

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err or any error in its chain is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if !stderrors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Layout sets the layout name
func (b *Builder) Layout(name string) *Builder {
	b.err.Layout = name
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfMemory creates an allocation failure error
func OutOfMemory(size int, cause error) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
		Offset: -1,
	}
}

// MalformedTag creates an error for a tag byte that is neither Cons nor Nil
func MalformedTag(phase Phase, layout string, offset int, tag byte) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedRegion,
		Layout: layout,
		Offset: offset,
		Detail: fmt.Sprintf("unknown tag 0x%02x", tag),
		Value:  tag,
	}
}

// Truncated creates an error for a tag stream that runs past its region
func Truncated(phase Phase, layout string, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedRegion,
		Layout: layout,
		Offset: offset,
		Detail: fmt.Sprintf("tag stream runs past region end (length %d)", length),
	}
}

// CountMismatch creates an error for a tag stream disagreeing with a known node count
func CountMismatch(phase Phase, layout string, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedRegion,
		Layout: layout,
		Offset: -1,
		Detail: fmt.Sprintf("node count %d, tag stream holds %d", want, got),
		Value:  got,
	}
}

// CapacityExceeded creates an error for a write crossing a region boundary
func CapacityExceeded(phase Phase, layout string, need, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacityExceeded,
		Layout: layout,
		Offset: -1,
		Detail: fmt.Sprintf("need %d bytes, region holds %d", need, capacity),
		Value:  need,
	}
}

// Mismatch creates a verification error for a value that differs from the
// expected one
func Mismatch(layout string, node, field int, want, got uint64) *Error {
	return &Error{
		Phase:  PhaseVerify,
		Kind:   KindMismatch,
		Layout: layout,
		Offset: -1,
		Detail: fmt.Sprintf("node %d field %d: want %d, got %d", node, field, want, got),
		Value:  got,
	}
}

// Overflow creates an overflow error for size arithmetic
func Overflow(phase Phase, what string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Offset: -1,
		Detail: fmt.Sprintf("%s overflows: %v", what, value),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Offset: -1,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}
