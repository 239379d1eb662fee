package engine

import (
	"fmt"
	"strings"

	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
)

// Strategy selects an update traversal.
type Strategy uint8

const (
	RecursiveInPlace Strategy = iota
	RecursiveCopy
	IterativeInPlace
	IterativeCopy
	FlatCopy
	FlatInPlace
)

var strategyNames = [...]string{
	RecursiveInPlace: "recursive-in-place",
	RecursiveCopy:    "recursive-copy",
	IterativeInPlace: "iterative-in-place",
	IterativeCopy:    "iterative-copy",
	FlatCopy:         "flat-copy",
	FlatInPlace:      "flat-in-place",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// InPlace reports whether the strategy mutates its input.
func (s Strategy) InPlace() bool {
	return s == RecursiveInPlace || s == IterativeInPlace || s == FlatInPlace
}

// Supports reports whether the strategy runs on the given layout.
func (s Strategy) Supports(kind layout.Kind) bool {
	switch s {
	case RecursiveInPlace, RecursiveCopy, IterativeInPlace, IterativeCopy:
		return true
	case FlatCopy, FlatInPlace:
		return kind == layout.Columnar
	default:
		return false
	}
}

// ParseStrategy accepts a strategy name as printed by String. Underscores
// and the short forms "rec" and "iter" are also accepted.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if rest, ok := strings.CutPrefix(n, "rec-"); ok {
		n = "recursive-" + rest
	} else if rest, ok := strings.CutPrefix(n, "iter-"); ok {
		n = "iterative-" + rest
	}
	for i, s := range strategyNames {
		if s == n {
			return Strategy(i), nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, "unknown strategy %q", name)
}

// Strategies returns every strategy the layout supports, in declaration order.
func Strategies(kind layout.Kind) []Strategy {
	var out []Strategy
	for i := range strategyNames {
		if s := Strategy(i); s.Supports(kind) {
			out = append(out, s)
		}
	}
	return out
}
