package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/packlayout"
	"github.com/wippyai/packlayout/engine"
	"github.com/wippyai/packlayout/errors"
	"github.com/wippyai/packlayout/layout"
	"github.com/wippyai/packlayout/region"
)

type config struct {
	layout    string
	fields    string
	used      string
	strategy  string
	backing   string
	logLevel  string
	n         int
	delta     uint64
	heapLimit int
	maxStack  int
}

func main() {
	var (
		cfg         config
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.StringVar(&cfg.layout, "layout", "soa", "Memory layout: aos or soa")
	flag.StringVar(&cfg.fields, "fields", "u32", "Field types as WIT primitives (u32,u64,...)")
	flag.IntVar(&cfg.n, "n", 10000, "Number of list nodes")
	flag.StringVar(&cfg.used, "used", "", "One-based fields to update (1,3); empty means all")
	flag.StringVar(&cfg.strategy, "strategy", "all", "Traversal strategy name or all")
	flag.Uint64Var(&cfg.delta, "delta", 1, "Increment applied to used fields")
	flag.StringVar(&cfg.backing, "backing", "heap", "Region backing: heap or linear")
	flag.IntVar(&cfg.heapLimit, "heap-limit", 0, "Largest heap region in bytes (0 = default)")
	flag.IntVar(&cfg.maxStack, "max-stack", 0, "Goroutine stack limit in bytes (0 = runtime default)")
	flag.StringVar(&cfg.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	log, err := newLogger(cfg.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	engine.SetLogger(log)
	region.SetLogger(log)

	if cfg.maxStack > 0 {
		debug.SetMaxStack(cfg.maxStack)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(2)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(context.Background(), cfg, os.Stdout, styled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Failure: %s\n", failureKind(err))
		os.Exit(1)
	}
}

// run builds, updates and verifies the list once per selected strategy and
// writes one report line per strategy to w.
func run(ctx context.Context, cfg config, w io.Writer, styled bool) error {
	d, err := parseDescriptor(cfg.layout, cfg.fields)
	if err != nil {
		return err
	}
	set, err := parseUsed(cfg.used, d.Arity())
	if err != nil {
		return err
	}
	strategies, err := parseStrategies(cfg.strategy, d.Kind())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s n=%d used=%s delta=%d backing=%s\n", d, cfg.n, set, cfg.delta, cfg.backing)

	outcomes, err := runStrategies(ctx, cfg, d, set, strategies)
	if err != nil {
		return err
	}
	var failed error
	for _, o := range outcomes {
		fmt.Fprintln(w, o.render(styled))
		if o.err != nil && failed == nil {
			failed = o.err
		}
	}
	return failed
}

type outcome struct {
	err      error
	strategy engine.Strategy
	nodes    int
}

func (o outcome) render(styled bool) string {
	name := fmt.Sprintf("%-20s", o.strategy)
	if o.err != nil {
		status := fmt.Sprintf("FAIL %s: %v", failureKind(o.err), o.err)
		if styled {
			return funcStyle.Render(name) + errorStyle.Render(status)
		}
		return name + status
	}
	status := fmt.Sprintf("ok   %d nodes verified", o.nodes)
	if styled {
		return funcStyle.Render(name) + resultStyle.Render(status)
	}
	return name + status
}

// runStrategies runs every strategy against a freshly built list. Allocator
// failures abort the run; everything else is reported per strategy.
func runStrategies(ctx context.Context, cfg config, d *layout.Descriptor, set layout.FieldSet, strategies []engine.Strategy) ([]outcome, error) {
	alloc, release, err := newAllocator(ctx, cfg.backing, cfg.heapLimit)
	if err != nil {
		return nil, err
	}
	defer release()

	e, err := engine.New(d, engine.WithAllocator(alloc))
	if err != nil {
		return nil, err
	}
	fn := layout.Increment(cfg.delta)
	want := layout.Expected(d, cfg.n, layout.Sequence, set, fn)

	out := make([]outcome, 0, len(strategies))
	for _, s := range strategies {
		o := outcome{strategy: s, nodes: cfg.n}
		o.err = runOne(e, s, cfg.n, set, fn, want)
		out = append(out, o)
	}
	return out, nil
}

func runOne(e *engine.Engine, s engine.Strategy, n int, set layout.FieldSet, fn layout.UpdateFunc, want [][]uint64) error {
	st, err := e.Build(n, layout.Sequence)
	if err != nil {
		return err
	}
	out, err := e.Update(st, s, set, fn)
	if err != nil {
		return err
	}
	return out.Verify(want)
}

func newAllocator(ctx context.Context, backing string, heapLimit int) (packlayout.Allocator, func(), error) {
	switch strings.ToLower(backing) {
	case "heap", "":
		return region.NewHeap(heapLimit), func() {}, nil
	case "linear":
		lin, err := region.NewLinear(ctx)
		if err != nil {
			return nil, nil, err
		}
		return lin, func() { _ = lin.Close(ctx) }, nil
	default:
		return nil, nil, errors.InvalidInput(errors.PhaseConfig, "unknown backing %q", backing)
	}
}

func parseDescriptor(kind, fields string) (*layout.Descriptor, error) {
	k, err := layout.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	var types []wit.Type
	for _, name := range strings.Split(fields, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		t, err := layout.ParseWIT(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "no field types given")
	}
	return layout.FromWIT(k, types...)
}

// parseUsed reads a comma-separated list of one-based field numbers.
func parseUsed(s string, k int) (layout.FieldSet, error) {
	if strings.TrimSpace(s) == "" {
		return layout.AllFields(k), nil
	}
	var set layout.FieldSet
	for _, part := range strings.Split(s, ",") {
		j, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, errors.InvalidInput(errors.PhaseConfig, "bad field number %q", part)
		}
		if j < 1 || j > k {
			return 0, errors.InvalidInput(errors.PhaseConfig, "field %d outside 1..%d", j, k)
		}
		set |= layout.Fields(j - 1)
	}
	return set, nil
}

func parseStrategies(s string, kind layout.Kind) ([]engine.Strategy, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return engine.Strategies(kind), nil
	}
	var out []engine.Strategy
	for _, name := range strings.Split(s, ",") {
		st, err := engine.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

func failureKind(err error) string {
	if k := errors.KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
