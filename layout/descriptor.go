package layout

import (
	"fmt"
	"strings"

	"github.com/wippyai/packlayout/errors"
)

// MaxFields is the largest field arity a Descriptor accepts. FieldSet is a
// 64-bit mask.
const MaxFields = 64

// Kind selects the memory layout.
type Kind uint8

const (
	// Interleaved stores each node's tag and fields contiguously (AoS).
	Interleaved Kind = iota
	// Columnar stores tags and each field in separate buffers (SoA).
	Columnar
)

func (k Kind) String() string {
	switch k {
	case Interleaved:
		return "aos"
	case Columnar:
		return "soa"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts "aos"/"interleaved" and "soa"/"columnar".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aos", "interleaved":
		return Interleaved, nil
	case "soa", "columnar":
		return Columnar, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, "unknown layout %q", s)
	}
}

// Descriptor is the immutable layout configuration of a packed list.
type Descriptor struct {
	widths []int
	prefix []int
	stride int
	kind   Kind
}

// New creates a descriptor for the given layout and ordered field widths.
func New(kind Kind, widths ...int) (*Descriptor, error) {
	if kind != Interleaved && kind != Columnar {
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown layout kind %d", kind)
	}
	if len(widths) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "at least one field is required")
	}
	if len(widths) > MaxFields {
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Detail("%d fields exceeds maximum of %d", len(widths), MaxFields).
			Value(len(widths)).
			Build()
	}

	d := &Descriptor{
		kind:   kind,
		widths: make([]int, len(widths)),
		prefix: make([]int, len(widths)),
		stride: TagSize,
	}
	sum := 0
	for j, w := range widths {
		if !validWidth(w) {
			return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
				Detail("field %d has width %d, want 1, 2, 4 or 8", j, w).
				Value(w).
				Build()
		}
		d.widths[j] = w
		d.prefix[j] = sum
		sum += w
	}
	d.stride += sum
	return d, nil
}

func validWidth(w int) bool {
	return w == 1 || w == 2 || w == 4 || w == 8
}

// Kind returns the layout kind.
func (d *Descriptor) Kind() Kind { return d.kind }

// Arity returns the number of fields per node (k).
func (d *Descriptor) Arity() int { return len(d.widths) }

// Width returns the byte width of field j.
func (d *Descriptor) Width(j int) int { return d.widths[j] }

// Widths returns a copy of the ordered field widths.
func (d *Descriptor) Widths() []int {
	out := make([]int, len(d.widths))
	copy(out, d.widths)
	return out
}

// Stride returns the byte length of one interleaved Cons node: tag plus all fields.
func (d *Descriptor) Stride() int { return d.stride }

// PayloadSize returns Σ widths.
func (d *Descriptor) PayloadSize() int { return d.stride - TagSize }

// WithKind returns a descriptor with the same fields under another layout.
func (d *Descriptor) WithKind(kind Kind) *Descriptor {
	nd, err := New(kind, d.widths...)
	if err != nil {
		// Only reachable with an invalid kind; the fields were validated already.
		panic(err)
	}
	return nd
}

// Equal reports whether two descriptors describe the same encoding.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || d.kind != o.kind || len(d.widths) != len(o.widths) {
		return false
	}
	for j := range d.widths {
		if d.widths[j] != o.widths[j] {
			return false
		}
	}
	return true
}

func (d *Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.kind.String())
	b.WriteByte('[')
	for j, w := range d.widths {
		if j > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", w)
	}
	b.WriteByte(']')
	return b.String()
}
