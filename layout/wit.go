package layout

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/packlayout/errors"
)

// FromWIT creates a descriptor whose fields are the fixed-width components of
// the given WIT types, in order.
func FromWIT(kind Kind, types ...wit.Type) (*Descriptor, error) {
	c := newWidthCalculator()
	var widths []int
	for i, t := range types {
		ws, err := c.widths(t)
		if err != nil {
			return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
				Detail("field type %d", i).
				Cause(err).
				Build()
		}
		widths = append(widths, ws...)
	}
	return New(kind, widths...)
}

// ParseWIT maps a WIT primitive type name such as "u32" or "f64" to its type.
func ParseWIT(name string) (wit.Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool":
		return wit.Bool{}, nil
	case "u8":
		return wit.U8{}, nil
	case "s8":
		return wit.S8{}, nil
	case "u16":
		return wit.U16{}, nil
	case "s16":
		return wit.S16{}, nil
	case "u32":
		return wit.U32{}, nil
	case "s32":
		return wit.S32{}, nil
	case "u64":
		return wit.U64{}, nil
	case "s64":
		return wit.S64{}, nil
	case "f32":
		return wit.F32{}, nil
	case "f64":
		return wit.F64{}, nil
	case "char":
		return wit.Char{}, nil
	case "string":
		return wit.String{}, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseConfig, "unknown WIT primitive %q", name)
	}
}

type widthCalculator struct {
	cache map[*wit.TypeDef][]int
}

func newWidthCalculator() *widthCalculator {
	return &widthCalculator{
		cache: make(map[*wit.TypeDef][]int),
	}
}

func (c *widthCalculator) widths(t wit.Type) ([]int, error) {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return []int{1}, nil
	case wit.U16, wit.S16:
		return []int{2}, nil
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return []int{4}, nil
	case wit.U64, wit.S64, wit.F64:
		return []int{8}, nil
	case wit.String:
		return nil, fmt.Errorf("string is variable-length")
	case *wit.TypeDef:
		return c.typeDefWidths(typ)
	default:
		return nil, fmt.Errorf("unsupported type %T", t)
	}
}

func (c *widthCalculator) typeDefWidths(t *wit.TypeDef) ([]int, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	var (
		ws  []int
		err error
	)

	switch kind := t.Kind.(type) {
	case *wit.Record:
		for _, f := range kind.Fields {
			var fw []int
			if fw, err = c.widths(f.Type); err != nil {
				return nil, fmt.Errorf("record field %q: %w", f.Name, err)
			}
			ws = append(ws, fw...)
		}
	case *wit.Tuple:
		for i, typ := range kind.Types {
			var tw []int
			if tw, err = c.widths(typ); err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			ws = append(ws, tw...)
		}
	case *wit.Enum:
		ws = []int{discriminantSize(len(kind.Cases))}
	case *wit.Flags:
		ws = flagsWidths(len(kind.Flags))
	case *wit.List:
		return nil, fmt.Errorf("list is variable-length")
	case *wit.Variant, *wit.Option, *wit.Result:
		return nil, fmt.Errorf("multi-case type %T has no single fixed shape", kind)
	case wit.Type:
		if ws, err = c.widths(kind); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported type definition %T", kind)
	}

	if len(ws) == 0 {
		return nil, fmt.Errorf("type has no fixed-width components")
	}
	c.cache[t] = ws
	return ws, nil
}

func discriminantSize(n int) int {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	default:
		return 4
	}
}

// flagsWidths follows the canonical flags packing; more than 64 flags become
// consecutive u32 fields.
func flagsWidths(n int) []int {
	switch {
	case n == 0:
		return nil
	case n <= 8:
		return []int{1}
	case n <= 16:
		return []int{2}
	case n <= 32:
		return []int{4}
	case n <= 64:
		return []int{8}
	}
	ws := make([]int, (n+31)/32)
	for i := range ws {
		ws[i] = 4
	}
	return ws
}
