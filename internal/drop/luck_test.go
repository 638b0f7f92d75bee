package drop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImprovedRate(t *testing.T) {
	r, err := ImprovedRate(128)
	require.NoError(t, err)
	assert.InDelta(t, 126.73, r, 0.005)

	for _, base := range []float64{0.01, 1, 2, 128, 1e7} {
		r, err := ImprovedRate(base)
		require.NoError(t, err)
		assert.Less(t, r, base, "luck must strictly improve 1/%v", base)
	}

	_, err = ImprovedRate(0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestImprovedRateBy(t *testing.T) {
	r, err := ImprovedRateBy(100, 1.25)
	require.NoError(t, err)
	assert.InDelta(t, 80, r, 1e-12)

	for _, m := range []float64{1, 0.9, 0, math.NaN(), math.Inf(1)} {
		_, err = ImprovedRateBy(128, m)
		assert.ErrorIs(t, err, ErrInvalidInput, "multiplier %v must strictly improve the rate", m)
	}
}

func TestCumulativeProbabilityWithLuck(t *testing.T) {
	for _, rate := range []float64{2, 50, 128, 4000} {
		for _, n := range []int{0, 1, 10, 100, 1000, 10000} {
			plain, err := CumulativeProbability(n, rate)
			require.NoError(t, err)
			lucky, err := CumulativeProbabilityWithLuck(n, rate)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, lucky, plain, "rate=%v n=%d", rate, n)
		}
	}

	p, err := CumulativeProbabilityWithLuck(0, 128)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestMilestoneTrialsWithLuck(t *testing.T) {
	plain, err := MilestoneTrials(0.9, 128)
	require.NoError(t, err)
	lucky, err := MilestoneTrialsWithLuck(0.9, 128)
	require.NoError(t, err)
	assert.LessOrEqual(t, lucky, plain)

	p, err := CumulativeProbabilityWithLuck(lucky, 128)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.9)
	p, err = CumulativeProbabilityWithLuck(lucky-1, 128)
	require.NoError(t, err)
	assert.Less(t, p, 0.9)
}
