package drop

import (
	"fmt"
	"math"
	"sort"
)

// SimParams describes the mechanics simulated for one run.
type SimParams struct {
	// BaseRate is the "1 in N" drop rate. Ignored when Compound is set.
	BaseRate float64
	// Compound rolls the table and the item separately on every kill.
	Compound *CompoundConfig
	Luck     bool
	Pity     *PityConfig
}

// Stats summarizes kills-until-drop over all runs.
type Stats struct {
	Runs   int
	Mean   float64
	StdDev float64 // population
	// Milestones are the empirical 50/90/99% marks: the fewest kills by
	// which that share of runs had their drop. They are directly
	// comparable with the analytic milestones.
	Milestones Milestones
	Worst      int // longest dry streak seen
	// raw samples, for callers that want histograms
	Samples []int `json:"-"`
}

// runawayFactor bounds a single run at runawayFactor x rate kills; the odds
// of a legitimate run getting there are below e^-100.
const runawayFactor = 100

// RunMonteCarlo repeats runs and returns the kill-count distribution.
// It exists to check the analytic curves against an actual roll sequence.
func RunMonteCarlo(p SimParams, runs int, rng RandomSource) (Stats, error) {
	if runs <= 0 {
		return Stats{}, nil
	}
	sched, err := newSchedule(p)
	if err != nil {
		return Stats{}, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, runs)
	for i := range samples {
		kills, err := sched.killsUntilDrop(rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = kills
	}
	return summarize(samples), nil
}

// schedule knows the rate of every kill in a dry streak.
type schedule struct {
	rate     float64
	pity     *PityConfig
	compound *CompoundConfig
	limit    int
}

func newSchedule(p SimParams) (*schedule, error) {
	rate := p.BaseRate
	if p.Compound != nil {
		r, err := EffectiveRate(*p.Compound)
		if err != nil {
			return nil, err
		}
		rate = r
	}
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	s := &schedule{rate: rate}
	if p.Pity != nil {
		if err := p.Pity.Validate(rate); err != nil {
			return nil, err
		}
		cfg := *p.Pity
		s.pity = &cfg
	}
	if p.Luck {
		s.rate /= DefaultLuckMultiplier
		if s.pity != nil {
			cfg := s.pity.withLuck(DefaultLuckMultiplier)
			s.pity = &cfg
		}
	}
	// modifiers act on the folded rate, so only a bare table drop is rolled
	// stage by stage
	if p.Compound != nil && !p.Luck && p.Pity == nil {
		s.compound = p.Compound
	}
	s.limit = runawayFactor*int(math.Ceil(rate)) + 1000
	return s, nil
}

func (s *schedule) rateAt(kill int) float64 {
	if s.pity == nil {
		return s.rate
	}
	return effectiveRate(kill, s.rate, *s.pity)
}

func (s *schedule) killsUntilDrop(rng RandomSource) (int, error) {
	for kill := 1; kill <= s.limit; kill++ {
		var (
			hit bool
			err error
		)
		if s.compound != nil {
			hit, err = RollCompound(*s.compound, rng)
		} else {
			hit, err = Roll(s.rateAt(kill), rng)
		}
		if err != nil {
			return 0, err
		}
		if hit {
			return kill, nil
		}
	}
	return 0, fmt.Errorf("%w: no drop within %d kills", ErrInvalidInput, s.limit)
}

// summarize folds the kill counts of every run into Stats. Mean and
// variance use Welford's update so long simulations stay accurate.
func summarize(kills []int) Stats {
	n := len(kills)
	if n == 0 {
		return Stats{}
	}
	var mean, m2 float64
	for i, k := range kills {
		d := float64(k) - mean
		mean += d / float64(i+1)
		m2 += d * (float64(k) - mean)
	}

	sorted := append([]int(nil), kills...)
	sort.Ints(sorted)
	// nearest rank: the smallest count covering ceil(target*n) runs
	marks, _ := solveMilestones(func(target float64) (int, error) {
		rank := int(math.Ceil(target*float64(n))) - 1
		return sorted[min(max(rank, 0), n-1)], nil
	})

	return Stats{
		Runs:       n,
		Mean:       mean,
		StdDev:     math.Sqrt(m2 / float64(n)),
		Milestones: marks,
		Worst:      sorted[n-1],
		Samples:    kills,
	}
}
