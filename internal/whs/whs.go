// Package whs implements the World Handicap System playing-handicap formula.
//
// The playing handicap converts a player's handicap index into the number of
// strokes received on a specific tee:
//
//	course handicap  = index * (slope / 113) + (rating - par)
//	playing handicap = round(course handicap * allowance / 100)
//
// Rounding uses math.Round, i.e. halves round away from zero.
package whs

import "math"

// StandardSlope is the neutral slope rating a scratch golfer plays to.
const StandardSlope = 113

// FullAllowance is the default 100% handicap allowance (stroke play).
const FullAllowance = 100

// PlayingHandicap computes the WHS playing handicap for one tee.
// It reports ok=false when slope or rating is zero, which marks a tee
// record that cannot describe a real course rather than an error.
func PlayingHandicap(index float64, slope int, rating float64, par int, allowancePct int) (int, bool) {
	if slope == 0 || rating == 0 {
		return 0, false
	}
	course := index*(float64(slope)/StandardSlope) + (rating - float64(par))
	return int(math.Round(course * float64(allowancePct) / 100)), true
}
