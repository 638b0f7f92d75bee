package drop

import (
	"fmt"
	"math"
)

// DefaultLuckMultiplier is the flat bonus granted by the luck effect.
const DefaultLuckMultiplier = 1.01

// ImprovedRate applies the default luck bonus to a base rate.
func ImprovedRate(baseRate float64) (float64, error) {
	return ImprovedRateBy(baseRate, DefaultLuckMultiplier)
}

// ImprovedRateBy divides baseRate by multiplier. The multiplier must be
// above 1: a bonus that leaves the rate unchanged or worse is rejected.
func ImprovedRateBy(baseRate, multiplier float64) (float64, error) {
	if err := validateRate(baseRate); err != nil {
		return 0, err
	}
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 1 {
		return 0, fmt.Errorf("%w: luck multiplier %v must be > 1", ErrInvalidInput, multiplier)
	}
	return baseRate / multiplier, nil
}

// CumulativeProbabilityWithLuck is CumulativeProbability at the improved rate.
func CumulativeProbabilityWithLuck(trials int, baseRate float64) (float64, error) {
	rate, err := ImprovedRate(baseRate)
	if err != nil {
		return 0, err
	}
	return CumulativeProbability(trials, rate)
}

// MilestoneTrialsWithLuck is MilestoneTrials at the improved rate.
func MilestoneTrialsWithLuck(target, baseRate float64) (int, error) {
	rate, err := ImprovedRate(baseRate)
	if err != nil {
		return 0, err
	}
	return MilestoneTrials(target, rate)
}
