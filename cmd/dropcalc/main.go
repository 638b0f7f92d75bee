// Command dropcalc prints drop chance milestones, modifier comparisons and
// a sampled probability curve for one catalog entry.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/xtding233/dropcalc/internal/catalog"
	"github.com/xtding233/dropcalc/internal/config"
	"github.com/xtding233/dropcalc/internal/logger"
	"github.com/xtding233/dropcalc/internal/memo"
)

var version = "dev"

// options are the per-invocation flags.
type options struct {
	source string
	item   string

	luck bool
	pity bool

	rate       float64
	pityStart  int
	pityCap    float64
	enrage     float64
	killsPerHr float64

	levels     []float64
	targetRate float64
	trials     int
	points     int

	simulate int
	seed     uint64
	watch    bool
}

// overrides turns the explicitly set flags into catalog overrides.
func (o options) overrides(set map[string]bool) catalog.Overrides {
	var ov catalog.Overrides
	if set["rate"] {
		ov.Rate = &o.rate
	}
	if set["pity-start"] {
		ov.PityStart = &o.pityStart
	}
	if set["pity-cap"] {
		ov.PityCap = &o.pityCap
	}
	if set["enrage"] {
		ov.EnrageLevel = &o.enrage
	}
	if set["kph"] {
		ov.KillsPerHour = &o.killsPerHr
	}
	return ov
}

func parseLevels(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFlags(args []string, stderr io.Writer) (options, catalog.Overrides, error) {
	var o options
	var levels string
	fs := flag.NewFlagSet("dropcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.source, "source", "", "catalog source, e.g. telos (required)")
	fs.StringVar(&o.item, "item", "", "catalog item within the source")
	fs.BoolVar(&o.luck, "luck", false, "apply the luck modifier where the item allows it")
	fs.BoolVar(&o.pity, "pity", false, "apply the pity schedule where the item has one")
	fs.Float64Var(&o.rate, "rate", 0, "override the base rate (1 in N)")
	fs.IntVar(&o.pityStart, "pity-start", 0, "override the kill count after which pity starts")
	fs.Float64Var(&o.pityCap, "pity-cap", 0, "override the best rate pity can reach")
	fs.Float64Var(&o.enrage, "enrage", 0, "override the enrage level")
	fs.Float64Var(&o.killsPerHr, "kph", 0, "override kills per hour")
	fs.StringVar(&levels, "levels", "", "comma separated enrage levels to compare")
	fs.Float64Var(&o.targetRate, "target-rate", 0, "find the lowest enrage level reaching this rate")
	fs.IntVar(&o.trials, "trials", 0, "kill count for the modifier comparison (0 = base 50% mark)")
	fs.IntVar(&o.points, "points", 0, "curve samples (0 = DROPCALC_MAX_POINTS)")
	fs.IntVar(&o.simulate, "simulate", 0, "Monte Carlo runs to cross-check the milestones")
	fs.Uint64Var(&o.seed, "seed", 0, "simulation seed (0 = crypto random)")
	fs.BoolVar(&o.watch, "watch", false, "re-render whenever the catalog files change")

	if err := fs.Parse(args); err != nil {
		return o, catalog.Overrides{}, err
	}
	if o.source == "" {
		return o, catalog.Overrides{}, errors.New("-source is required")
	}
	var err error
	if o.levels, err = parseLevels(levels); err != nil {
		return o, catalog.Overrides{}, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, o.overrides(set), nil
}

func main() {
	opts, ov, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.Logger(version), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, ov, log, os.Stdout); err != nil {
		log.Error("dropcalc failed", "error", err)
		os.Exit(1)
	}
}

// run renders once, then keeps re-rendering on catalog changes when
// -watch is set until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, opts options, ov catalog.Overrides, log *slog.Logger, out io.Writer) error {
	if opts.points == 0 {
		opts.points = cfg.MaxPoints
	}
	loader := catalog.NewLoader(cfg.CatalogDir, log)
	cache, err := memo.NewCurveCache(cfg.CacheSize)
	if err != nil {
		return err
	}
	r := &renderer{loader: loader, cache: cache, log: log}

	if err := r.render(out, opts, ov); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	changed := make(chan string, 1)
	w := catalog.NewFileWatcher(loader.Paths().Files(opts.source, opts.item), cfg.WatchInterval, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.Start()
	defer w.Stop()
	log.Info("watching catalog", "source", opts.source, "item", opts.item, "interval", cfg.WatchInterval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			log.Info("catalog changed", "path", path)
			loader.Invalidate()
			cache.Purge()
			// keep watching after a bad edit
			if err := r.render(out, opts, ov); err != nil {
				log.Error("render failed", "error", err)
			}
		}
	}
}
