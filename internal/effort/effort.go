package effort

import "math"

// Pace describes how quickly kills happen for a source.
type Pace struct {
	KillsPerHour float64 // 0 when unknown
	KillsPerTrip int     // 0 when kills are not grouped into trips
}

// Known reports whether the pace can convert kills into time.
func (p Pace) Known() bool { return p.KillsPerHour > 0 }

// HoursForTrials returns how long n kills take; ok is false when the
// pace is unknown.
func (p Pace) HoursForTrials(n int) (hours float64, ok bool) {
	if !p.Known() {
		return 0, false
	}
	if n <= 0 {
		return 0, true
	}
	return float64(n) / p.KillsPerHour, true
}

// TripsForTrials returns how many trips n kills take, rounding up.
// Without a trip size every kill counts as its own trip.
func (p Pace) TripsForTrials(n int) int {
	if n <= 0 {
		return 0
	}
	if p.KillsPerTrip <= 1 {
		return n
	}
	return int(math.Ceil(float64(n) / float64(p.KillsPerTrip)))
}
