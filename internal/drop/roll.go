package drop

// Bernoulli reports whether an event of probability p happened.
// p <= 0 never hits, p >= 1 always hits.
func Bernoulli(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// Roll simulates one kill at a "1 in rate" drop.
func Roll(rate float64, rng RandomSource) (bool, error) {
	if err := validateRate(rate); err != nil {
		return false, err
	}
	return Bernoulli(perTrial(rate), rng)
}

// RollCompound simulates both stages of a table drop: the table roll and,
// only when it hits, the weighted item pick.
func RollCompound(cfg CompoundConfig, rng RandomSource) (bool, error) {
	b, err := Breakdown(cfg)
	if err != nil {
		return false, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	table, err := Bernoulli(b.StageOne.Probability, rng)
	if err != nil || !table {
		return false, err
	}
	return Bernoulli(b.Item.Probability, rng)
}
