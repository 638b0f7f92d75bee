// Package modifier decides which drop-rate modifiers apply to a kill
// sequence and dispatches to the matching formulas in package drop.
package modifier

import (
	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/enrage"
)

// Flags are the modifiers a user asked for.
type Flags struct {
	Luck bool
	Pity bool
}

// Applicability says which modifiers an item supports at all.
type Applicability struct {
	Luck bool
	Pity bool
}

// Gate drops every requested modifier the item does not support.
func (f Flags) Gate(a Applicability) Flags {
	return Flags{Luck: f.Luck && a.Luck, Pity: f.Pity && a.Pity}
}

// Mode is one row of the dispatch table.
type Mode int

const (
	Plain Mode = iota
	LuckOnly
	PityOnly
	LuckAndPity
)

func (m Mode) String() string {
	switch m {
	case LuckOnly:
		return "luck"
	case PityOnly:
		return "pity"
	case LuckAndPity:
		return "luck+pity"
	default:
		return "plain"
	}
}

// ModeFor picks the dispatch row. A pity flag without a schedule has
// nothing to apply and falls back as if it were off.
func ModeFor(flags Flags, pity *drop.PityConfig) Mode {
	usePity := flags.Pity && pity != nil
	switch {
	case flags.Luck && usePity:
		return LuckAndPity
	case usePity:
		return PityOnly
	case flags.Luck:
		return LuckOnly
	default:
		return Plain
	}
}

// CumulativeProbability returns the drop chance within trials kills with
// the modifiers in flags applied. flags are taken as already gated: luck
// is applied whenever it is set. Use ItemCumulativeProbability to gate
// against an item's Applicability.
func CumulativeProbability(trials int, baseRate float64, flags Flags, pity *drop.PityConfig) (float64, error) {
	switch ModeFor(flags, pity) {
	case LuckAndPity:
		return drop.CumulativeProbabilityWithLuckAndPity(trials, baseRate, *pity)
	case PityOnly:
		return drop.CumulativeProbabilityWithPity(trials, baseRate, *pity)
	case LuckOnly:
		return drop.CumulativeProbabilityWithLuck(trials, baseRate)
	default:
		return drop.CumulativeProbability(trials, baseRate)
	}
}

// MilestoneTrials mirrors CumulativeProbability with each mode's solver.
// Like CumulativeProbability it expects gated flags.
func MilestoneTrials(target, baseRate float64, flags Flags, pity *drop.PityConfig) (int, error) {
	switch ModeFor(flags, pity) {
	case LuckAndPity:
		return drop.MilestoneTrialsWithLuckAndPity(target, baseRate, *pity)
	case PityOnly:
		return drop.MilestoneTrialsWithPity(target, baseRate, *pity)
	case LuckOnly:
		return drop.MilestoneTrialsWithLuck(target, baseRate)
	default:
		return drop.MilestoneTrials(target, baseRate)
	}
}

// Milestones returns the 50/90/99% kill counts for the active modifiers.
// flags must already be gated; see ItemMilestones.
func Milestones(baseRate float64, flags Flags, pity *drop.PityConfig) (drop.Milestones, error) {
	var out [len(drop.MilestoneTargets)]int
	for i, target := range drop.MilestoneTargets {
		n, err := MilestoneTrials(target, baseRate, flags, pity)
		if err != nil {
			return drop.Milestones{}, err
		}
		out[i] = n
	}
	return drop.Milestones{P50: out[0], P90: out[1], P99: out[2]}, nil
}

// ItemCumulativeProbability gates flags against app, then evaluates
// CumulativeProbability.
func ItemCumulativeProbability(trials int, baseRate float64, flags Flags, app Applicability, pity *drop.PityConfig) (float64, error) {
	return CumulativeProbability(trials, baseRate, flags.Gate(app), pity)
}

// ItemMilestones gates flags against app, then evaluates Milestones.
func ItemMilestones(baseRate float64, flags Flags, app Applicability, pity *drop.PityConfig) (drop.Milestones, error) {
	return Milestones(baseRate, flags.Gate(app), pity)
}

// EnragedCumulativeProbability scales baseRate by the enrage setting and
// then applies the modifiers on top. The pity cap is an absolute rate and
// is left as configured.
func EnragedCumulativeProbability(trials int, baseRate float64, flags Flags, pity *drop.PityConfig, s enrage.Setting) (float64, error) {
	rate, err := s.Rate(baseRate)
	if err != nil {
		return 0, err
	}
	return CumulativeProbability(trials, rate, flags, pity)
}

// EnragedMilestones is Milestones at the enrage-scaled rate.
func EnragedMilestones(baseRate float64, flags Flags, pity *drop.PityConfig, s enrage.Setting) (drop.Milestones, error) {
	rate, err := s.Rate(baseRate)
	if err != nil {
		return drop.Milestones{}, err
	}
	return Milestones(rate, flags, pity)
}

// Comparison puts every modifier combination side by side at one kill
// count. Savings are in percentage points over the named baseline.
type Comparison struct {
	Trials   int
	Base     float64
	WithLuck float64
	WithPity float64
	WithBoth float64

	LuckOverBase float64
	PityOverBase float64
	BothOverBase float64
	BothOverLuck float64
	BothOverPity float64
}

// CompareAll evaluates all four modifier combinations at trials kills.
func CompareAll(trials int, baseRate float64, pity drop.PityConfig) (Comparison, error) {
	c := Comparison{Trials: trials}
	rows := []struct {
		flags Flags
		dst   *float64
	}{
		{Flags{}, &c.Base},
		{Flags{Luck: true}, &c.WithLuck},
		{Flags{Pity: true}, &c.WithPity},
		{Flags{Luck: true, Pity: true}, &c.WithBoth},
	}
	for _, r := range rows {
		p, err := CumulativeProbability(trials, baseRate, r.flags, &pity)
		if err != nil {
			return Comparison{}, err
		}
		*r.dst = p
	}
	c.LuckOverBase = points(c.WithLuck - c.Base)
	c.PityOverBase = points(c.WithPity - c.Base)
	c.BothOverBase = points(c.WithBoth - c.Base)
	c.BothOverLuck = points(c.WithBoth - c.WithLuck)
	c.BothOverPity = points(c.WithBoth - c.WithPity)
	return c, nil
}

func points(delta float64) float64 { return delta * 100 }
