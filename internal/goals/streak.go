package goals

import (
	"time"

	"github.com/benvon/goaltracker/internal/models"
)

// updateStreak applies the daily streak policy. qualifying is true only when a task
// actually flipped from open to completed; repeating a no-op toggle never counts.
//
// Streak rules:
//   - a calendar day with no completion resets the streak to 0
//   - the first completion after a reset (or ever) starts the streak at 1
//   - a completion on the day after the last qualifying day adds 1
//   - further completions on the same day change nothing
func (e *Engine) updateStreak(g *models.Goal, now time.Time, qualifying bool) {
	today := e.day(now)
	decayStreak(g, today)
	if !qualifying {
		return
	}

	if g.LastActivity == nil {
		g.Streak = 1
		g.LastActivity = &today
		return
	}

	switch gap := daysBetween(*g.LastActivity, today); {
	case gap < 0:
		// clock moved backwards; keep the later day as the anchor
		return
	case gap == 0:
		if g.Streak == 0 {
			g.Streak = 1
		}
	case gap == 1:
		g.Streak++
	default:
		g.Streak = 1
	}
	g.LastActivity = &today
}

// decayStreak zeroes a streak whose last qualifying day is older than yesterday
func decayStreak(g *models.Goal, today time.Time) {
	if g.LastActivity == nil {
		return
	}
	if daysBetween(*g.LastActivity, today) > 1 {
		g.Streak = 0
	}
}

// day truncates t to midnight of its calendar day in the engine's location
func (e *Engine) day(t time.Time) time.Time {
	y, m, d := t.In(e.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.location)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
