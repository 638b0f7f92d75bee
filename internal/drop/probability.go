// Package drop holds the drop-rate engine: cumulative probabilities for
// repeated kills, the luck bonus, the pity schedule, table-based compound
// drops and their inverse (milestone) solvers.
//
// Rates are always "1 in N" denominators. Every function is pure.
package drop

import (
	"fmt"
	"math"
)

// ProbabilityCap is the highest cumulative probability ever reported.
const ProbabilityCap = 0.9999

// Milestone targets used for the 50/90/99% cards.
var MilestoneTargets = [3]float64{0.5, 0.9, 0.99}

// Milestones is the minimal kill count for each of MilestoneTargets.
type Milestones struct {
	P50 int
	P90 int
	P99 int
}

// SingleTrialProbability returns the chance of a drop on one kill.
// Rates at or below 1 saturate at certainty.
func SingleTrialProbability(rate float64) (float64, error) {
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	return perTrial(rate), nil
}

// CumulativeProbability returns the chance of at least one drop within
// trials kills at a fixed rate, capped at ProbabilityCap.
func CumulativeProbability(trials int, rate float64) (float64, error) {
	if err := validateTrials(trials); err != nil {
		return 0, err
	}
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	if trials == 0 {
		return 0, nil
	}
	return fromLogMiss(float64(trials) * logMiss(rate)), nil
}

// MilestoneTrials returns the fewest kills whose cumulative probability
// reaches target at a fixed rate. Targets above ProbabilityCap are
// treated as ProbabilityCap.
func MilestoneTrials(target, rate float64) (int, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	t := math.Min(target, ProbabilityCap)
	p := perTrial(rate)
	if p >= 1 {
		return 1, nil
	}
	guess := math.Ceil(math.Log1p(-t) / math.Log1p(-p))
	if guess > maxClosedFormTrials {
		return 0, fmt.Errorf("%w: rate %v too rare to solve", ErrInvalidRate, rate)
	}
	n := max(int(guess), 1)
	// The closed form can land one step off when the ratio sits on an
	// integer; settle against the reported curve.
	return settle(n, t, func(k int) float64 {
		c, _ := CumulativeProbability(k, rate)
		return c
	}), nil
}

// FixedMilestones returns the 50/90/99% milestones at a fixed rate.
func FixedMilestones(rate float64) (Milestones, error) {
	return solveMilestones(func(target float64) (int, error) {
		return MilestoneTrials(target, rate)
	})
}

const maxClosedFormTrials = 1 << 53

func solveMilestones(solve func(target float64) (int, error)) (Milestones, error) {
	var out [len(MilestoneTargets)]int
	for i, target := range MilestoneTargets {
		n, err := solve(target)
		if err != nil {
			return Milestones{}, err
		}
		out[i] = n
	}
	return Milestones{P50: out[0], P90: out[1], P99: out[2]}, nil
}

// settle moves n to the smallest count with cum(n) >= target.
func settle(n int, target float64, cum func(int) float64) int {
	for cum(n) < target {
		n++
	}
	for n > 1 && cum(n-1) >= target {
		n--
	}
	return n
}

func perTrial(rate float64) float64 {
	if rate <= 1 {
		return 1
	}
	return 1 / rate
}

// logMiss is ln(1 - p) for one kill; -Inf when the drop is certain.
func logMiss(rate float64) float64 {
	return math.Log1p(-perTrial(rate))
}

func fromLogMiss(sum float64) float64 {
	return capProbability(-math.Expm1(sum))
}

func capProbability(p float64) float64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p > ProbabilityCap:
		return ProbabilityCap
	default:
		return p
	}
}
