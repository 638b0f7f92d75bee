package drop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPity = PityConfig{Start: 10, Cap: 20}

func TestEffectiveRateAtTrial(t *testing.T) {
	tests := []struct {
		name  string
		trial int
		want  float64
	}{
		{"before any kill", 0, 128},
		{"first kill", 1, 128},
		{"last kill before the schedule", 10, 128},
		{"first improved kill", 11, 127},
		{"fifth improved kill", 15, 123},
		{"one above the cap", 117, 21},
		{"reaches the cap", 118, 20},
		{"stays on the cap", 500, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectiveRateAtTrial(tt.trial, 128, testPity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveRateAtTrial_StaysOnCap(t *testing.T) {
	at, ok := testPity.CapReachedAt(128)
	require.True(t, ok)
	assert.Equal(t, 118, at)

	for i := at; i < at+1000; i++ {
		r, err := EffectiveRateAtTrial(i, 128, testPity)
		require.NoError(t, err)
		require.Equal(t, testPity.Cap, r, "trial %d", i)
	}
}

func TestEffectiveRateAtTrial_CapAboveBase(t *testing.T) {
	cfg := PityConfig{Start: 0, Cap: 200}
	_, ok := cfg.CapReachedAt(128)
	assert.False(t, ok)
	for _, i := range []int{1, 50, 5000} {
		r, err := EffectiveRateAtTrial(i, 128, cfg)
		require.NoError(t, err)
		assert.Equal(t, 128.0, r)
	}
}

func TestEffectiveRateAtTrial_Errors(t *testing.T) {
	tests := []struct {
		name  string
		trial int
		base  float64
		cfg   PityConfig
	}{
		{"zero base", 1, 0, testPity},
		{"negative base", 1, -5, testPity},
		{"zero cap", 1, 128, PityConfig{Start: 10, Cap: 0}},
		{"negative start", 1, 128, PityConfig{Start: -1, Cap: 20}},
		{"negative trial", -1, 128, testPity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EffectiveRateAtTrial(tt.trial, tt.base, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCumulativeProbabilityWithPity_NeverWorse(t *testing.T) {
	configs := []PityConfig{testPity, {Start: 0, Cap: 1}, {Start: 100, Cap: 64}, {Start: 5, Cap: 500}}
	for _, cfg := range configs {
		for n := 0; n <= 1500; n += 3 {
			plain, err := CumulativeProbability(n, 128)
			require.NoError(t, err)
			pity, err := CumulativeProbabilityWithPity(n, 128, cfg)
			require.NoError(t, err)
			require.GreaterOrEqual(t, pity, plain, "cfg=%+v n=%d", cfg, n)
			require.LessOrEqual(t, pity, ProbabilityCap)
			if n <= cfg.Start {
				require.Equal(t, plain, pity, "no improvement before start, n=%d", n)
			}
		}
	}
}

func TestCumulativeProbabilityWithPity_MatchesPerTrialProduct(t *testing.T) {
	const n = 150
	miss := 1.0
	for i := 1; i <= n; i++ {
		r, err := EffectiveRateAtTrial(i, 128, testPity)
		require.NoError(t, err)
		miss *= 1 - 1/r
	}
	got, err := CumulativeProbabilityWithPity(n, 128, testPity)
	require.NoError(t, err)
	assert.InDelta(t, 1-miss, got, 1e-12)
}

func TestCumulativeProbabilityWithPity_Monotone(t *testing.T) {
	prev := 0.0
	for n := 0; n <= 400; n++ {
		p, err := CumulativeProbabilityWithPity(n, 128, testPity)
		require.NoError(t, err)
		require.GreaterOrEqual(t, p, prev, "n=%d", n)
		prev = p
	}
}

func TestCumulativeProbabilityWithPity_Errors(t *testing.T) {
	_, err := CumulativeProbabilityWithPity(-1, 128, testPity)
	assert.ErrorIs(t, err, ErrInvalidTrialCount)
	_, err = CumulativeProbabilityWithPity(10, 128, PityConfig{Start: 1, Cap: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMilestoneTrialsWithPity(t *testing.T) {
	for _, target := range []float64{0.01, 0.5, 0.9, 0.99, 0.9999} {
		n, err := MilestoneTrialsWithPity(target, 128, testPity)
		require.NoError(t, err)

		at, err := CumulativeProbabilityWithPity(n, 128, testPity)
		require.NoError(t, err)
		before, err := CumulativeProbabilityWithPity(n-1, 128, testPity)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, at, target, "target=%v n=%d", target, n)
		assert.Less(t, before, target, "target=%v n=%d", target, n)

		plain, err := MilestoneTrials(target, 128)
		require.NoError(t, err)
		assert.LessOrEqual(t, n, plain, "pity never needs more kills, target=%v", target)
	}

	_, err := MilestoneTrialsWithPity(1, 128, testPity)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestLuckAndPity(t *testing.T) {
	for n := 0; n <= 600; n += 5 {
		pity, err := CumulativeProbabilityWithPity(n, 128, testPity)
		require.NoError(t, err)
		luck, err := CumulativeProbabilityWithLuck(n, 128)
		require.NoError(t, err)
		both, err := CumulativeProbabilityWithLuckAndPity(n, 128, testPity)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, both, pity, "n=%d", n)
		assert.GreaterOrEqual(t, both, luck, "n=%d", n)
	}

	// the cap benefits from luck as well
	deep, err := CumulativeProbabilityWithLuckAndPity(1000, 1000, PityConfig{Start: 0, Cap: 100})
	require.NoError(t, err)
	noLuck, err := CumulativeProbabilityWithPity(1000, 1000, PityConfig{Start: 0, Cap: 100})
	require.NoError(t, err)
	assert.Greater(t, deep, noLuck)

	n, err := MilestoneTrialsWithLuckAndPity(0.9, 128, testPity)
	require.NoError(t, err)
	p, err := CumulativeProbabilityWithLuckAndPity(n, 128, testPity)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.9)
}

func TestPityMilestones(t *testing.T) {
	plain, err := PityMilestones(128, testPity, false)
	require.NoError(t, err)
	lucky, err := PityMilestones(128, testPity, true)
	require.NoError(t, err)
	assert.True(t, plain.P50 <= plain.P90 && plain.P90 <= plain.P99)
	assert.LessOrEqual(t, lucky.P99, plain.P99)
}
