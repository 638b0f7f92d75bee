package drop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveRate(t *testing.T) {
	tests := []struct {
		name string
		cfg  CompoundConfig
		want float64
	}{
		{"two of twelve", CompoundConfig{6, 128, 2, 12}, 128},
		{"five of twelve", CompoundConfig{6, 128, 5, 12}, 51.2},
		{"whole table", CompoundConfig{1, 50, 1, 1}, 50},
		{"guaranteed table", CompoundConfig{3, 3, 1, 4}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EffectiveRate(tt.cfg)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)

			stageRate := float64(tt.cfg.StageDenominator) / float64(tt.cfg.StageNumerator)
			itemRate := float64(tt.cfg.TotalWeight) / float64(tt.cfg.ItemWeight)
			assert.GreaterOrEqual(t, got+1e-9, max(stageRate, itemRate))
		})
	}
}

func TestEffectiveRate_Errors(t *testing.T) {
	bad := []CompoundConfig{
		{0, 128, 2, 12},
		{6, 0, 2, 12},
		{6, 128, 0, 12},
		{6, 128, 2, -12},
		{129, 128, 2, 12},
		{6, 128, 13, 12},
	}
	for _, cfg := range bad {
		_, err := EffectiveRate(cfg)
		assert.ErrorIs(t, err, ErrInvalidInput, "cfg=%+v", cfg)
	}
}

func TestBreakdown(t *testing.T) {
	for _, cfg := range []CompoundConfig{{6, 128, 2, 12}, {6, 128, 5, 12}, {1, 3, 7, 9}} {
		b, err := Breakdown(cfg)
		require.NoError(t, err)
		assert.InDelta(t, b.StageOne.Probability*b.Item.Probability, b.EffectiveProbability, 1e-15)
		assert.InDelta(t, 1/b.EffectiveRate, b.EffectiveProbability, 1e-15)
		assert.InDelta(t, 1/b.StageOne.Probability, b.StageOne.Rate, 1e-12)
		assert.InDelta(t, 1/b.Item.Probability, b.Item.Rate, 1e-12)
	}
}

func TestCompoundDelegatesToFixedRate(t *testing.T) {
	cfg := CompoundConfig{6, 128, 5, 12}
	rate, err := EffectiveRate(cfg)
	require.NoError(t, err)

	for _, n := range []int{0, 1, 25, 100, 400} {
		want, err := CumulativeProbability(n, rate)
		require.NoError(t, err)
		got, err := CompoundCumulativeProbability(n, cfg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	want, err := MilestoneTrials(0.9, rate)
	require.NoError(t, err)
	got, err := CompoundMilestoneTrials(0.9, cfg)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = CompoundMilestoneTrials(0.9, CompoundConfig{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
