// resolve.go
package catalog

import (
	"fmt"

	"github.com/xtding233/dropcalc/internal/curve"
	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/effort"
	"github.com/xtding233/dropcalc/internal/enrage"
	"github.com/xtding233/dropcalc/internal/modifier"
)

// Overrides carries per-invocation values that win over the catalog.
type Overrides struct {
	Rate         *float64
	PityStart    *int
	PityCap      *float64
	EnrageLevel  *float64
	KillsPerHour *float64
}

type Resolver interface {
	// Resolve returns the merged RawEntry and the normalized Profile.
	Resolve(source, item string, o Overrides) (RawEntry, Profile, error)
}

var _ Resolver = (*Loader)(nil)

// EnrageProfile is the enrage part of a Profile.
type EnrageProfile struct {
	Setting enrage.Setting
	Max     float64 // upper bound for SolveForTargetRate
}

// Profile is a validated entry in engine terms.
type Profile struct {
	Name          string
	BaseRate      float64
	Compound      *drop.CompoundConfig // set for table drops; BaseRate is its effective rate
	Applicability modifier.Applicability
	Pity          *drop.PityConfig
	Enrage        *EnrageProfile
	Pace          effort.Pace
	Version       string // effective config version for tracing
}

// CurveOptions builds the chart request for this profile.
func (p Profile) CurveOptions(flags modifier.Flags, maxPoints int) curve.Options {
	o := curve.Options{
		BaseRate:      p.BaseRate,
		Flags:         flags,
		Applicability: p.Applicability,
		Pity:          p.Pity,
		MaxPoints:     maxPoints,
	}
	if p.Enrage != nil {
		s := p.Enrage.Setting
		o.Enrage = &s
	}
	return o
}

// Resolve merges default -> source -> item -> overrides, validates the
// result and converts it into a Profile.
func (l *Loader) Resolve(source, item string, o Overrides) (RawEntry, Profile, error) {
	raw, err := l.LoadMerged(source, item)
	if err != nil {
		return RawEntry{}, Profile{}, err
	}
	raw = applyOverrides(raw, o)
	if err := ValidateRaw(raw); err != nil {
		l.log.Warn("catalog entry rejected", "source", source, "item", item, "error", err)
		return raw, Profile{}, fmt.Errorf("%s: %w", cacheKey(source, item), err)
	}
	prof, err := toProfile(raw)
	if err != nil {
		return raw, Profile{}, fmt.Errorf("%s: %w", cacheKey(source, item), err)
	}
	if prof.Name == "" {
		prof.Name = cacheKey(source, item)
	}
	return raw, prof, nil
}

func applyOverrides(raw RawEntry, o Overrides) RawEntry {
	if o.Rate != nil {
		raw.Drop.Rate, raw.Drop.Table = o.Rate, nil
	}
	if o.PityStart != nil || o.PityCap != nil {
		raw = mergeRaw(raw, RawEntry{Pity: &PityCfg{Start: o.PityStart, Cap: o.PityCap}})
	}
	if o.EnrageLevel != nil && raw.Enrage != nil {
		raw = mergeRaw(raw, RawEntry{Enrage: &EnrageCfg{Level: o.EnrageLevel}})
	}
	if o.KillsPerHour != nil {
		raw = mergeRaw(raw, RawEntry{Effort: &EffortCfg{KillsPerHour: o.KillsPerHour}})
	}
	return raw
}

// toProfile assumes raw passed ValidateRaw.
func toProfile(raw RawEntry) (Profile, error) {
	p := Profile{Name: raw.Name, Version: raw.Version}

	if t := raw.Drop.Table; t != nil {
		cfg := t.compound()
		rate, err := drop.EffectiveRate(cfg)
		if err != nil {
			return Profile{}, err
		}
		p.BaseRate, p.Compound = rate, &cfg
	} else {
		p.BaseRate = *raw.Drop.Rate
	}

	p.Applicability.Luck = raw.Drop.Luck != nil && *raw.Drop.Luck
	if raw.Pity != nil {
		cfg := drop.PityConfig{Start: *raw.Pity.Start, Cap: *raw.Pity.Cap}
		p.Pity = &cfg
		p.Applicability.Pity = true
	}

	if e := raw.Enrage; e != nil {
		kind, err := enrage.ParseKind(e.Kind)
		if err != nil {
			return Profile{}, err
		}
		d, _ := enrage.DomainOf(kind)
		ep := &EnrageProfile{Setting: enrage.Setting{Kind: kind}, Max: d.Max}
		if e.Level != nil {
			ep.Setting.Level = *e.Level
		}
		if e.Max != nil {
			ep.Max = *e.Max
		}
		p.Enrage = ep
	}

	if e := raw.Effort; e != nil {
		if e.KillsPerHour != nil {
			p.Pace.KillsPerHour = *e.KillsPerHour
		}
		if e.KillsPerTrip != nil {
			p.Pace.KillsPerTrip = *e.KillsPerTrip
		}
	}
	return p, nil
}
