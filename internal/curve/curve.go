// Package curve turns the drop formulas into chart-ready series: it picks
// a kill-count range, down-samples it, and evaluates every active series
// at each sample.
package curve

import (
	"fmt"
	"math"

	"github.com/xtding233/dropcalc/internal/drop"
	"github.com/xtding233/dropcalc/internal/enrage"
	"github.com/xtding233/dropcalc/internal/modifier"
)

// Series names one line on the chart.
type Series string

const (
	SeriesBase     Series = "base"
	SeriesLuck     Series = "luck"
	SeriesPity     Series = "pity"
	SeriesCombined Series = "combined"
	SeriesEnrage   Series = "enrage"
)

const (
	// DefaultMaxPoints bounds the number of samples per series.
	DefaultMaxPoints = 60
	// MinDomainTrials and MaxDomainTrials bound the x axis; the upper bound
	// also bounds the pity fold.
	MinDomainTrials = 50
	MaxDomainTrials = 30000

	domainTarget = 0.99
	domainBuffer = 1.2
)

// Domain is the x axis range [0, MaxTrials].
type Domain struct {
	MaxTrials int
}

// ChooseTrialDomain extends the axis 20% past the base curve's 99%
// milestone, clamped to [MinDomainTrials, MaxDomainTrials].
func ChooseTrialDomain(baseRate float64) (Domain, error) {
	n99, err := drop.MilestoneTrials(domainTarget, baseRate)
	if err != nil {
		return Domain{}, err
	}
	maxTrials := math.Ceil(float64(n99) * domainBuffer)
	maxTrials = math.Min(math.Max(maxTrials, MinDomainTrials), MaxDomainTrials)
	return Domain{MaxTrials: int(maxTrials)}, nil
}

// SampleTrialValues returns 0, evenly spaced counts, and maxTrials, in
// strictly ascending order without duplicates.
func SampleTrialValues(maxTrials, maxPoints int) []int {
	if maxTrials <= 0 {
		return []int{0}
	}
	if maxPoints < 2 {
		maxPoints = 2
	}
	// ceil(maxTrials / (maxPoints-1)) without overflowing near MaxInt
	step := maxTrials / (maxPoints - 1)
	if maxTrials%(maxPoints-1) != 0 {
		step++
	}
	out := make([]int, 0, min(maxPoints, maxTrials)+1)
	for t := 0; t < maxTrials; t += step {
		out = append(out, t)
		if step > maxTrials-t {
			break
		}
	}
	return append(out, maxTrials)
}

// ActiveSeries lists the series to draw, base first. When both luck and
// pity apply only their combination is drawn, to keep the chart readable.
func ActiveSeries(flags modifier.Flags, app modifier.Applicability) []Series {
	on := flags.Gate(app)
	out := []Series{SeriesBase}
	switch {
	case on.Luck && on.Pity:
		out = append(out, SeriesCombined)
	case on.Luck:
		out = append(out, SeriesLuck)
	case on.Pity:
		out = append(out, SeriesPity)
	}
	return out
}

// Point is one x position with the y value of every active series.
type Point struct {
	Trials int
	Series map[Series]float64
}

// Options selects what GenerateCurve draws.
type Options struct {
	BaseRate      float64
	Flags         modifier.Flags
	Applicability modifier.Applicability
	Pity          *drop.PityConfig
	// Enrage adds an enrage series: the scaled rate with the active
	// modifiers applied.
	Enrage *enrage.Setting
	// MaxTrials of 0 picks ChooseTrialDomain(BaseRate).
	MaxTrials int
	// MaxPoints of 0 means DefaultMaxPoints.
	MaxPoints int
}

// applicability gates pity off when there is no schedule to apply.
func (o Options) applicability() modifier.Applicability {
	a := o.Applicability
	a.Pity = a.Pity && o.Pity != nil
	return a
}

// Key is a comparable identity for o, for callers that memoise curves.
type Key struct {
	BaseRate      float64
	Flags         modifier.Flags
	Applicability modifier.Applicability
	HasPity       bool
	Pity          drop.PityConfig
	HasEnrage     bool
	Enrage        enrage.Setting
	MaxTrials     int
	MaxPoints     int
}

// Key returns the memoisation key of o.
func (o Options) Key() Key {
	k := Key{
		BaseRate:      o.BaseRate,
		Flags:         o.Flags,
		Applicability: o.Applicability,
		MaxTrials:     o.MaxTrials,
		MaxPoints:     o.MaxPoints,
	}
	if o.Pity != nil {
		k.HasPity, k.Pity = true, *o.Pity
	}
	if o.Enrage != nil {
		k.HasEnrage, k.Enrage = true, *o.Enrage
	}
	return k
}

// GenerateCurve evaluates every active series at every sampled kill count.
func GenerateCurve(o Options) ([]Point, error) {
	maxTrials := o.MaxTrials
	switch {
	case maxTrials == 0:
		d, err := ChooseTrialDomain(o.BaseRate)
		if err != nil {
			return nil, err
		}
		maxTrials = d.MaxTrials
	case maxTrials < 0 || maxTrials > MaxDomainTrials:
		return nil, fmt.Errorf("%w: max trials %d outside [1, %d]", drop.ErrInvalidTrialCount, maxTrials, MaxDomainTrials)
	}
	maxPoints := o.MaxPoints
	if maxPoints == 0 {
		maxPoints = DefaultMaxPoints
	}

	app := o.applicability()
	on := o.Flags.Gate(app)
	series := ActiveSeries(o.Flags, app)
	if o.Enrage != nil {
		// fail fast on a bad setting rather than on the first sample
		if _, err := o.Enrage.Rate(o.BaseRate); err != nil {
			return nil, err
		}
		series = append(series, SeriesEnrage)
	}

	trials := SampleTrialValues(maxTrials, maxPoints)
	points := make([]Point, 0, len(trials))
	for _, t := range trials {
		pt := Point{Trials: t, Series: make(map[Series]float64, len(series))}
		for _, s := range series {
			p, err := evaluate(s, t, o, on)
			if err != nil {
				return nil, err
			}
			pt.Series[s] = p
		}
		points = append(points, pt)
	}
	return points, nil
}

func evaluate(s Series, trials int, o Options, on modifier.Flags) (float64, error) {
	switch s {
	case SeriesBase:
		return drop.CumulativeProbability(trials, o.BaseRate)
	case SeriesLuck:
		return modifier.CumulativeProbability(trials, o.BaseRate, modifier.Flags{Luck: true}, nil)
	case SeriesPity:
		return modifier.CumulativeProbability(trials, o.BaseRate, modifier.Flags{Pity: true}, o.Pity)
	case SeriesCombined:
		return modifier.CumulativeProbability(trials, o.BaseRate, modifier.Flags{Luck: true, Pity: true}, o.Pity)
	case SeriesEnrage:
		return modifier.EnragedCumulativeProbability(trials, o.BaseRate, on, o.Pity, *o.Enrage)
	default:
		return 0, fmt.Errorf("%w: unknown series %q", drop.ErrInvalidInput, s)
	}
}
