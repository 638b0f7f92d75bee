package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xtding233/dropcalc/internal/catalog"
	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/enrage"
	"github.com/xtding233/dropcalc/internal/memo"
	"github.com/xtding233/dropcalc/internal/modifier"
	"github.com/xtding233/dropcalc/internal/report"
)

type renderer struct {
	loader catalog.Resolver
	cache  *memo.CurveCache
	log    *slog.Logger
}

func (r *renderer) render(out io.Writer, opts options, ov catalog.Overrides) error {
	_, prof, err := r.loader.Resolve(opts.source, opts.item, ov)
	if err != nil {
		return err
	}
	flags := modifier.Flags{Luck: opts.luck, Pity: opts.pity}
	on := flags.Gate(prof.Applicability)
	if on != flags {
		r.log.Info("modifier not supported by entry, ignoring", "name", prof.Name,
			"luck", flags.Luck && !on.Luck, "pity", flags.Pity && !on.Pity)
	}
	r.log.Debug("rendering", "name", prof.Name, "version", prof.Version, "rate", prof.BaseRate,
		"mode", modifier.ModeFor(on, prof.Pity))

	w := report.New(out)
	single, err := drop.SingleTrialProbability(prof.BaseRate)
	if err != nil {
		return err
	}
	if err := w.Header(fmt.Sprintf("%s: 1/%.2f (%s per kill)", prof.Name, prof.BaseRate, drop.FormatPercentage(single, 3))); err != nil {
		return err
	}
	if prof.Compound != nil {
		b, err := drop.Breakdown(*prof.Compound)
		if err != nil {
			return err
		}
		if err := w.Breakdown(b); err != nil {
			return err
		}
	}

	base, err := drop.FixedMilestones(prof.BaseRate)
	if err != nil {
		return err
	}
	if err := w.Milestones("base", base, prof.Pace); err != nil {
		return err
	}
	mode := modifier.ModeFor(on, prof.Pity)
	if mode != modifier.Plain {
		m, err := modifier.ItemMilestones(prof.BaseRate, flags, prof.Applicability, prof.Pity)
		if err != nil {
			return err
		}
		if err := w.Milestones(mode.String(), m, prof.Pace); err != nil {
			return err
		}
	}

	if err := r.renderEnrage(w, prof, on, opts); err != nil {
		return err
	}

	if prof.Pity != nil {
		trials := opts.trials
		if trials <= 0 {
			trials = base.P50
		}
		c, err := modifier.CompareAll(trials, prof.BaseRate, *prof.Pity)
		if err != nil {
			return err
		}
		if err := w.Comparison(c); err != nil {
			return err
		}
	}

	if err := w.Header("curve"); err != nil {
		return err
	}
	points, err := r.cache.Curve(prof.CurveOptions(flags, opts.points))
	if err != nil {
		return err
	}
	hits, misses := r.cache.Stats()
	r.log.Debug("curve cache", "hits", hits, "misses", misses, "size", r.cache.Len())
	if err := w.Curve(points); err != nil {
		return err
	}

	if opts.simulate > 0 {
		return r.renderSimulation(w, prof, on, opts)
	}
	return nil
}

func (r *renderer) renderEnrage(w *report.Writer, prof catalog.Profile, on modifier.Flags, opts options) error {
	if prof.Enrage == nil {
		return nil
	}
	s := prof.Enrage.Setting
	if err := w.Header(fmt.Sprintf("%s at %.0f%% enrage", s.Kind, s.Level)); err != nil {
		return err
	}
	m, err := modifier.EnragedMilestones(prof.BaseRate, on, prof.Pity, s)
	if err != nil {
		return err
	}
	if err := w.Milestones("enraged", m, prof.Pace); err != nil {
		return err
	}
	if len(opts.levels) > 0 {
		rows, err := enrage.CompareAcrossLevels(s.Kind, prof.BaseRate, opts.levels)
		if err != nil {
			return err
		}
		if err := w.Levels(s.Kind, rows); err != nil {
			return err
		}
	}
	if opts.targetRate > 0 {
		level, err := enrage.SolveForTargetRate(s.Kind, prof.BaseRate, opts.targetRate, prof.Enrage.Max)
		switch {
		case errors.Is(err, enrage.ErrImpossibleTarget):
			r.log.Warn("target rate unreachable", "target", opts.targetRate, "max_level", prof.Enrage.Max)
		case err != nil:
			return err
		default:
			rows, err := enrage.CompareAcrossLevels(s.Kind, prof.BaseRate, []float64{level})
			if err != nil {
				return err
			}
			if err := w.Levels(s.Kind, rows); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) renderSimulation(w *report.Writer, prof catalog.Profile, on modifier.Flags, opts options) error {
	rng := drop.DefaultRNG()
	if opts.seed != 0 {
		rng = drop.NewSeededRNG(opts.seed)
	}
	params := drop.SimParams{BaseRate: prof.BaseRate, Compound: prof.Compound, Luck: on.Luck}
	if on.Pity {
		params.Pity = prof.Pity
	}
	stats, err := drop.RunMonteCarlo(params, opts.simulate, rng)
	if err != nil {
		return err
	}
	r.log.Debug("simulation done", "runs", stats.Runs, "mean", stats.Mean)
	if err := w.Header("simulation"); err != nil {
		return err
	}
	return w.Simulation(stats)
}
