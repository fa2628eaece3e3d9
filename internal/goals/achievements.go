package goals

import (
	"time"

	"github.com/benvon/goaltracker/internal/models"
)

// AchievementRule awards Badge the first time Earned reports true for a goal
type AchievementRule struct {
	Badge  models.Badge
	Earned func(g *models.Goal) bool
}

// WeekStreakDays is the streak length that earns BadgeWeekStreak
const WeekStreakDays = 7

// DefaultRules returns the built-in achievement rules
func DefaultRules() []AchievementRule {
	return []AchievementRule{
		{
			Badge:  models.BadgeCompleted,
			Earned: func(g *models.Goal) bool { return g.Progress == 100 },
		},
		{
			Badge:  models.BadgeWeekStreak,
			Earned: func(g *models.Goal) bool { return g.Streak >= WeekStreakDays },
		},
	}
}

// evaluateRules appends newly earned badges to g and returns one event per badge.
// Badges already present are skipped, so re-triggering a rule is a no-op.
func (e *Engine) evaluateRules(g *models.Goal, now time.Time) []models.AchievementUnlocked {
	var events []models.AchievementUnlocked
	for _, rule := range e.rules {
		if rule.Earned == nil || g.HasBadge(rule.Badge) || !rule.Earned(g) {
			continue
		}
		g.Badges = append(g.Badges, rule.Badge)
		events = append(events, models.AchievementUnlocked{
			GoalID:     g.ID,
			Badge:      rule.Badge,
			UnlockedAt: now,
		})
	}
	return events
}
