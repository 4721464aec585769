package engine

import (
	"time"
)

// Clock is the time control state for the side to move, as reported by a
// UCI "go" command.
type Clock struct {
	Remaining time.Duration
	Increment time.Duration
	// MoveTime, when set, is a fixed budget that overrides the clock.
	MoveTime time.Duration
}

// IsSet reports whether the clock carries any time information.
func (c Clock) IsSet() bool {
	return c.Remaining > 0 || c.MoveTime > 0
}

// Engine-side safety knobs.
const (
	overheadTime  = 30 * time.Millisecond // reserve for UCI/IO jitter
	minMoveTime   = 5 * time.Millisecond  // never less than this
	maxFrac       = 0.7                   // never spend >70% of remaining time
	panicThresh   = time.Second
	panicFrac     = 0.90 // use 90% of inc in panic
	noIncDivisor  = 40
	movesLeftMin  = 20
	movesLeftSpan = 25
)

// Budget returns how long a search may run before its context should be
// cancelled. endgameWeight comes from Evaluator.EndgameWeight: the further
// into the endgame, the fewer moves are assumed to remain.
func (c Clock) Budget(endgameWeight float64) time.Duration {
	if c.MoveTime > 0 {
		return c.MoveTime
	}

	rem := c.Remaining
	inc := c.Increment
	movesLeft := estimateMovesRemaining(endgameWeight)

	var moveTime time.Duration
	if inc > 0 {
		if rem < panicThresh {
			// Panic: try to "bank" a little time
			moveTime = time.Duration(float64(inc) * panicFrac)
		} else {
			// Normal: spend a fraction of remaining + take (most of) the inc
			moveTime = rem/time.Duration(movesLeft) + inc
		}
	} else {
		moveTime = rem / noIncDivisor
	}

	// Apply overhead and clamps
	if moveTime < minMoveTime {
		moveTime = minMoveTime
	}
	if ceiling := time.Duration(float64(rem) * maxFrac); moveTime > ceiling {
		moveTime = ceiling
	}
	if moveTime > rem-overheadTime {
		moveTime = rem - overheadTime
	}
	if moveTime < minMoveTime {
		moveTime = minMoveTime
	} // re-check after ceiling
	return moveTime
}

// estimateMovesRemaining interpolates between 45 moves at the start and 20
// in a bare endgame.
func estimateMovesRemaining(endgameWeight float64) int {
	return movesLeftMin + int(float64(movesLeftSpan)*(1-clamp(endgameWeight, 0, 1)))
}
