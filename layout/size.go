package layout

import (
	"math"

	"github.com/wippyai/packlayout/errors"
)

func safeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func safeAdd(a, b int) (int, bool) {
	if a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

func checkCount(n int) error {
	if n < 0 {
		return errors.InvalidInput(errors.PhaseConfig, "node count %d is negative", n)
	}
	return nil
}

// InterleavedSize returns n*(1+Σ widths)+1, the exact AoS region size for n nodes.
func (d *Descriptor) InterleavedSize(n int) (int, error) {
	if err := checkCount(n); err != nil {
		return 0, err
	}
	body, ok := safeMul(n, d.stride)
	if !ok {
		return 0, errors.Overflow(errors.PhaseConfig, "interleaved region size", n)
	}
	size, ok := safeAdd(body, TagSize)
	if !ok {
		return 0, errors.Overflow(errors.PhaseConfig, "interleaved region size", n)
	}
	return size, nil
}

// TagBufferSize returns n+1, the exact SoA tag buffer size for n nodes.
func (d *Descriptor) TagBufferSize(n int) (int, error) {
	if err := checkCount(n); err != nil {
		return 0, err
	}
	size, ok := safeAdd(n, TagSize)
	if !ok {
		return 0, errors.Overflow(errors.PhaseConfig, "tag buffer size", n)
	}
	return size, nil
}

// FieldBufferSize returns n*width_j, the exact SoA buffer size of field j.
// The terminal node carries no payload.
func (d *Descriptor) FieldBufferSize(n, j int) (int, error) {
	if err := checkCount(n); err != nil {
		return 0, err
	}
	size, ok := safeMul(n, d.widths[j])
	if !ok {
		return 0, errors.Overflow(errors.PhaseConfig, "field buffer size", n)
	}
	return size, nil
}

// ColumnarSizes returns the tag buffer size followed by every field buffer size.
func (d *Descriptor) ColumnarSizes(n int) ([]int, error) {
	sizes := make([]int, 1+len(d.widths))
	var err error
	if sizes[0], err = d.TagBufferSize(n); err != nil {
		return nil, err
	}
	for j := range d.widths {
		if sizes[1+j], err = d.FieldBufferSize(n, j); err != nil {
			return nil, err
		}
	}
	return sizes, nil
}

// TotalSize returns the sum of all region sizes needed for n nodes under the
// descriptor's layout.
func (d *Descriptor) TotalSize(n int) (int, error) {
	if d.kind == Interleaved {
		return d.InterleavedSize(n)
	}
	sizes, err := d.ColumnarSizes(n)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range sizes {
		var ok bool
		if total, ok = safeAdd(total, s); !ok {
			return 0, errors.Overflow(errors.PhaseConfig, "columnar total size", n)
		}
	}
	return total, nil
}
