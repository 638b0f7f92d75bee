package effort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHoursForTrials(t *testing.T) {
	p := Pace{KillsPerHour: 40}

	h, ok := p.HoursForTrials(89)
	assert.True(t, ok)
	assert.InDelta(t, 2.225, h, 1e-12)

	h, ok = p.HoursForTrials(0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, h)

	_, ok = Pace{}.HoursForTrials(89)
	assert.False(t, ok, "unknown pace")
}

func TestTripsForTrials(t *testing.T) {
	tests := []struct {
		name string
		pace Pace
		n    int
		want int
	}{
		{"no trips", Pace{}, 12, 12},
		{"exact", Pace{KillsPerTrip: 4}, 12, 3},
		{"rounds up", Pace{KillsPerTrip: 5}, 12, 3},
		{"zero kills", Pace{KillsPerTrip: 5}, 0, 0},
		{"negative kills", Pace{KillsPerTrip: 5}, -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pace.TripsForTrials(tt.n))
		})
	}
}
