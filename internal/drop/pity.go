package drop

import (
	"fmt"
	"math"
	"sort"
)

// PityConfig describes the bad-luck mitigation schedule.
// Example: Start=10, Cap=20 on a 1/128 drop keeps 1/128 for kills 1..10,
// then improves the denominator by one per kill (1/127 on kill 11, ...)
// until it bottoms out at 1/20 on kill 118.
type PityConfig struct {
	Start int     // kills (since the last drop) before the schedule engages
	Cap   float64 // best reachable rate; the denominator never drops below it
}

// Validate checks the config against the base rate it will be applied to.
func (c PityConfig) Validate(baseRate float64) error {
	if math.IsNaN(baseRate) || math.IsInf(baseRate, 0) || baseRate <= 0 {
		return fmt.Errorf("%w: pity base rate %v must be > 0", ErrInvalidInput, baseRate)
	}
	if math.IsNaN(c.Cap) || math.IsInf(c.Cap, 0) || c.Cap <= 0 {
		return fmt.Errorf("%w: pity cap %v must be > 0", ErrInvalidInput, c.Cap)
	}
	if c.Start < 0 {
		return fmt.Errorf("%w: pity start %d must be >= 0", ErrInvalidInput, c.Start)
	}
	return nil
}

// engages reports whether the schedule can ever improve on baseRate.
// A cap at or above the base rate leaves the base rate untouched.
func (c PityConfig) engages(baseRate float64) bool {
	return c.Cap < baseRate
}

// CapReachedAt returns the first kill index whose rate equals the cap.
// ok is false when the schedule never engages for baseRate.
func (c PityConfig) CapReachedAt(baseRate float64) (index int, ok bool) {
	if !c.engages(baseRate) {
		return 0, false
	}
	return c.Start + int(math.Ceil(baseRate-c.Cap)), true
}

// withLuck applies the luck multiplier to the cap as well: the cap is an
// achievable rate and benefits from the bonus like any other.
func (c PityConfig) withLuck(multiplier float64) PityConfig {
	return PityConfig{Start: c.Start, Cap: c.Cap / multiplier}
}

// EffectiveRateAtTrial returns the rate in force on the given kill
// (1-indexed, counted since the last drop).
func EffectiveRateAtTrial(trialIndex int, baseRate float64, cfg PityConfig) (float64, error) {
	if err := cfg.Validate(baseRate); err != nil {
		return 0, err
	}
	if trialIndex < 0 {
		return 0, fmt.Errorf("%w: trial index %d must be >= 0", ErrInvalidInput, trialIndex)
	}
	return effectiveRate(trialIndex, baseRate, cfg), nil
}

func effectiveRate(trialIndex int, baseRate float64, cfg PityConfig) float64 {
	if trialIndex <= cfg.Start || !cfg.engages(baseRate) {
		return baseRate
	}
	return math.Max(baseRate-float64(trialIndex-cfg.Start), cfg.Cap)
}

// CumulativeProbabilityWithPity returns the chance of at least one drop
// within trials kills while the pity schedule is running.
func CumulativeProbabilityWithPity(trials int, baseRate float64, cfg PityConfig) (float64, error) {
	if err := validateTrials(trials); err != nil {
		return 0, err
	}
	if err := cfg.Validate(baseRate); err != nil {
		return 0, err
	}
	return pityCumulative(trials, baseRate, cfg), nil
}

// MilestoneTrialsWithPity returns the fewest kills whose pity-adjusted
// cumulative probability reaches target.
func MilestoneTrialsWithPity(target, baseRate float64, cfg PityConfig) (int, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}
	if err := cfg.Validate(baseRate); err != nil {
		return 0, err
	}
	return pityMilestone(target, baseRate, cfg), nil
}

// CumulativeProbabilityWithLuckAndPity folds the pity schedule after the
// luck bonus has been applied to both the base rate and the cap.
func CumulativeProbabilityWithLuckAndPity(trials int, baseRate float64, cfg PityConfig) (float64, error) {
	if err := validateTrials(trials); err != nil {
		return 0, err
	}
	if err := cfg.Validate(baseRate); err != nil {
		return 0, err
	}
	return pityCumulative(trials, baseRate/DefaultLuckMultiplier, cfg.withLuck(DefaultLuckMultiplier)), nil
}

// MilestoneTrialsWithLuckAndPity mirrors CumulativeProbabilityWithLuckAndPity.
func MilestoneTrialsWithLuckAndPity(target, baseRate float64, cfg PityConfig) (int, error) {
	if err := validateTarget(target); err != nil {
		return 0, err
	}
	if err := cfg.Validate(baseRate); err != nil {
		return 0, err
	}
	return pityMilestone(target, baseRate/DefaultLuckMultiplier, cfg.withLuck(DefaultLuckMultiplier)), nil
}

// PityMilestones returns the 50/90/99% milestones under the pity schedule,
// optionally with luck applied.
func PityMilestones(baseRate float64, cfg PityConfig, luck bool) (Milestones, error) {
	solve := MilestoneTrialsWithPity
	if luck {
		solve = MilestoneTrialsWithLuckAndPity
	}
	return solveMilestones(func(target float64) (int, error) {
		return solve(target, baseRate, cfg)
	})
}

// pityCumulative folds ln(1 - 1/rate_i) over kills 1..trials. Kills up to
// Start all share the base rate and are taken in one step, which keeps
// the result identical to the plain curve until the schedule engages.
func pityCumulative(trials int, baseRate float64, cfg PityConfig) float64 {
	if trials == 0 {
		return 0
	}
	if perTrial(baseRate) >= 1 {
		return ProbabilityCap
	}
	if !cfg.engages(baseRate) || trials <= cfg.Start {
		return fromLogMiss(float64(trials) * logMiss(baseRate))
	}
	prefix := float64(cfg.Start) * logMiss(baseRate)
	sum := foldTrials(cfg.Start+1, trials, prefix, func(acc float64, i int) float64 {
		return acc + logMiss(effectiveRate(i, baseRate, cfg))
	})
	return fromLogMiss(sum)
}

// foldTrials is a left fold over the kill indices from..to inclusive.
func foldTrials(from, to int, init float64, step func(acc float64, i int) float64) float64 {
	acc := init
	for i := from; i <= to; i++ {
		acc = step(acc, i)
	}
	return acc
}

// pityMilestone binary-searches the kill count. The pity curve is
// monotone in trials, and the rate only ever improves, so ten times the
// base rate always reaches the capped target.
func pityMilestone(target, baseRate float64, cfg PityConfig) int {
	t := math.Min(target, ProbabilityCap)
	hi := max(int(math.Ceil(baseRate*10)), 1)
	for pityCumulative(hi, baseRate, cfg) < t {
		hi *= 2
	}
	return sort.Search(hi, func(i int) bool {
		return pityCumulative(i+1, baseRate, cfg) >= t
	}) + 1
}
