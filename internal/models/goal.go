package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the area of life a goal belongs to
type Category string

const (
	CategoryPersonal  Category = "Personal"
	CategoryCareer    Category = "Career"
	CategoryFitness   Category = "Fitness"
	CategoryEducation Category = "Education"
)

// CategoryAll is the filter sentinel that matches every goal. It is not a Category member.
const CategoryAll = "All"

// Categories lists the recognised categories in display order
var Categories = []Category{CategoryPersonal, CategoryCareer, CategoryFitness, CategoryEducation}

// Valid reports whether c is one of the enumerated categories
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryCareer, CategoryFitness, CategoryEducation:
		return true
	default:
		return false
	}
}

// Accent returns the color token the presentation layer uses for the category badge.
// Unknown values map to "gray".
func (c Category) Accent() string {
	switch c {
	case CategoryPersonal:
		return "purple"
	case CategoryCareer:
		return "blue"
	case CategoryFitness:
		return "green"
	case CategoryEducation:
		return "orange"
	default:
		return "gray"
	}
}

// GoalState is the progress-driven lifecycle state of a goal
type GoalState string

const (
	GoalStateNotStarted GoalState = "not_started"
	GoalStateInProgress GoalState = "in_progress"
	GoalStateCompleted  GoalState = "completed"
)

// StateForProgress maps a progress percentage to its lifecycle state
func StateForProgress(progress int) GoalState {
	switch {
	case progress <= 0:
		return GoalStateNotStarted
	case progress >= 100:
		return GoalStateCompleted
	default:
		return GoalStateInProgress
	}
}

// Badge is an achievement label attached to a goal
type Badge string

const (
	BadgeCompleted  Badge = "Completed"
	BadgeWeekStreak Badge = "Week Streak"
)

// Task is a single checklist item of a goal
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Goal represents a user-defined objective with a deadline and a fixed task list
type Goal struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Category     Category   `json:"category"`
	Timeframe    Timeframe  `json:"timeframe"`
	Tasks        []Task     `json:"tasks"`
	EndDate      time.Time  `json:"end_date"`
	Progress     int        `json:"progress"`
	Streak       int        `json:"streak"`
	Badges       []Badge    `json:"badges"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// State returns the lifecycle state derived from the goal's progress
func (g *Goal) State() GoalState {
	return StateForProgress(g.Progress)
}

// CompletedCount returns how many tasks are marked completed
func (g *Goal) CompletedCount() int {
	n := 0
	for _, t := range g.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// HasBadge reports whether the badge has already been earned
func (g *Goal) HasBadge(b Badge) bool {
	for _, existing := range g.Badges {
		if existing == b {
			return true
		}
	}
	return false
}

// DaysLeft returns the whole days remaining until EndDate, rounded up. It is negative once the goal is overdue.
func (g *Goal) DaysLeft(now time.Time) int {
	remaining := g.EndDate.Sub(now)
	days := remaining / (24 * time.Hour)
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

// Clone returns a deep copy so callers can never alias store-owned slices
func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	out := *g
	out.Tasks = append([]Task(nil), g.Tasks...)
	out.Badges = append([]Badge{}, g.Badges...)
	if g.LastActivity != nil {
		last := *g.LastActivity
		out.LastActivity = &last
	}
	return &out
}

// AchievementUnlocked is emitted once when a goal earns a badge
type AchievementUnlocked struct {
	GoalID     uuid.UUID `json:"goal_id"`
	Badge      Badge     `json:"badge"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
