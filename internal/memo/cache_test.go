package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/dropcalc/internal/curve"
	"github.com/xtding233/dropcalc/internal/drop"
)

func TestCurveCache(t *testing.T) {
	c, err := NewCurveCache(2)
	require.NoError(t, err)

	pity := drop.PityConfig{Start: 10, Cap: 20}
	opts := curve.Options{BaseRate: 128, Pity: &pity, MaxTrials: 300}

	first, err := c.Curve(opts)
	require.NoError(t, err)
	again, err := c.Curve(opts)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	want, err := curve.GenerateCurve(opts)
	require.NoError(t, err)
	assert.Equal(t, want, first)
}

func TestCurveCache_Eviction(t *testing.T) {
	c, err := NewCurveCache(2)
	require.NoError(t, err)
	for _, rate := range []float64{10, 20, 30} {
		_, err := c.Curve(curve.Options{BaseRate: rate})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCurveCache_ErrorsNotCached(t *testing.T) {
	c, err := NewCurveCache(0)
	require.NoError(t, err)
	_, err = c.Curve(curve.Options{BaseRate: -1})
	assert.ErrorIs(t, err, drop.ErrInvalidRate)
	assert.Equal(t, 0, c.Len())
}
