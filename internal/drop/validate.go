package drop

import (
	"fmt"
	"math"
)

func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	return nil
}

func validateTrials(trials int) error {
	if trials < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrialCount, trials)
	}
	return nil
}

func validateTarget(target float64) error {
	if math.IsNaN(target) || target <= 0 || target >= 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidTarget, target)
	}
	return nil
}

// validateProb is used by the simulator, where 0 and 1 are legal.
func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: probability %v", ErrInvalidInput, p)
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: probability %v", ErrInvalidInput, p)
	}
	return nil
}
