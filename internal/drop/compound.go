package drop

import "fmt"

// CompoundConfig describes a table-based drop: the kill first has to roll
// the table (StageNumerator in StageDenominator), then the table has to
// pick the item (ItemWeight out of TotalWeight).
type CompoundConfig struct {
	StageNumerator   int
	StageDenominator int
	ItemWeight       int
	TotalWeight      int
}

// Chance pairs a probability with its "1 in N" rate.
type Chance struct {
	Probability float64
	Rate        float64
}

// CompoundBreakdown exposes both stages next to the combined result.
type CompoundBreakdown struct {
	StageOne             Chance
	Item                 Chance
	EffectiveRate        float64
	EffectiveProbability float64
}

// StageProbability returns numerator/denominator for the table roll.
func StageProbability(numerator, denominator int) (float64, error) {
	return ratio("stage", numerator, denominator)
}

// ItemProbability returns weight/totalWeight for the item pick.
func ItemProbability(weight, totalWeight int) (float64, error) {
	return ratio("item weight", weight, totalWeight)
}

func ratio(what string, part, whole int) (float64, error) {
	if part <= 0 || whole <= 0 {
		return 0, fmt.Errorf("%w: %s %d/%d must be positive", ErrInvalidInput, what, part, whole)
	}
	if part > whole {
		return 0, fmt.Errorf("%w: %s %d/%d exceeds 1", ErrInvalidInput, what, part, whole)
	}
	return float64(part) / float64(whole), nil
}

// EffectiveRate folds both stages into one per-kill rate. Both rolls are
// independent per kill, so the product is exact and the result can be fed
// to the fixed-rate formulas.
func EffectiveRate(cfg CompoundConfig) (float64, error) {
	b, err := Breakdown(cfg)
	if err != nil {
		return 0, err
	}
	return b.EffectiveRate, nil
}

// Breakdown returns the per-stage and combined chances for cfg.
func Breakdown(cfg CompoundConfig) (CompoundBreakdown, error) {
	stage, err := StageProbability(cfg.StageNumerator, cfg.StageDenominator)
	if err != nil {
		return CompoundBreakdown{}, err
	}
	item, err := ItemProbability(cfg.ItemWeight, cfg.TotalWeight)
	if err != nil {
		return CompoundBreakdown{}, err
	}
	p := stage * item
	return CompoundBreakdown{
		StageOne:             Chance{Probability: stage, Rate: 1 / stage},
		Item:                 Chance{Probability: item, Rate: 1 / item},
		EffectiveRate:        1 / p,
		EffectiveProbability: p,
	}, nil
}

// CompoundCumulativeProbability is CumulativeProbability at EffectiveRate(cfg).
func CompoundCumulativeProbability(trials int, cfg CompoundConfig) (float64, error) {
	rate, err := EffectiveRate(cfg)
	if err != nil {
		return 0, err
	}
	return CumulativeProbability(trials, rate)
}

// CompoundMilestoneTrials is MilestoneTrials at EffectiveRate(cfg).
func CompoundMilestoneTrials(target float64, cfg CompoundConfig) (int, error) {
	rate, err := EffectiveRate(cfg)
	if err != nil {
		return 0, err
	}
	return MilestoneTrials(target, rate)
}
