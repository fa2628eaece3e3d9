// Package goals holds the goal state engine: creation, task toggles, and the
// progress, streak and badge state derived from them. Every function here is
// pure with respect to its inputs; ownership and locking live in the store.
package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/google/uuid"
)

// Engine applies intents to goal snapshots
type Engine struct {
	clock    Clock
	location *time.Location
	newID    func() uuid.UUID
	rules    []AchievementRule
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the time source used for end dates and streak days
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLocation sets the time zone whose calendar days bound a streak
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithIDGenerator overrides how goal ids are minted
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithRules replaces the default achievement rules
func WithRules(rules ...AchievementRule) Option {
	return func(e *Engine) {
		e.rules = append([]AchievementRule(nil), rules...)
	}
}

// NewEngine creates an engine using the wall clock, UTC days and DefaultRules unless overridden
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:    SystemClock{},
		location: time.UTC,
		newID:    uuid.New,
		rules:    DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// CreateGoalInput carries the raw fields of a create intent
type CreateGoalInput struct {
	Title     string
	Category  string
	Timeframe string
	Tasks     []string
}

// CreateGoal validates the input and builds a fresh goal. Nothing is returned on error.
func (e *Engine) CreateGoal(in CreateGoalInput) (*models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	category := models.Category(in.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}

	timeframe := models.Timeframe(in.Timeframe)
	if !timeframe.Valid() {
		return nil, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, in.Timeframe)
	}

	tasks := make([]models.Task, 0, len(in.Tasks))
	for _, raw := range in.Tasks {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		tasks = append(tasks, models.Task{Text: text})
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: a goal needs at least one task", ErrInvalidInput)
	}

	now := e.clock.Now()
	return &models.Goal{
		ID:        e.newID(),
		Title:     title,
		Category:  category,
		Timeframe: timeframe,
		Tasks:     tasks,
		EndDate:   now.AddDate(0, 0, timeframe.Days()),
		Progress:  0,
		Streak:    0,
		Badges:    []models.Badge{},
		CreatedAt: now,
	}, nil
}

// ToggleTask sets the completion flag of one task and returns the updated snapshot
// together with any achievements the change unlocked. The input goal is not modified.
//
// Progress is recomputed first, then the streak, then achievement rules, so a rule
// sees the goal exactly as the caller will.
func (e *Engine) ToggleTask(goal *models.Goal, index int, completed bool) (*models.Goal, []models.AchievementUnlocked, error) {
	if goal == nil {
		return nil, nil, fmt.Errorf("%w: nil goal", ErrInvalidInput)
	}
	if index < 0 || index >= len(goal.Tasks) {
		return nil, nil, fmt.Errorf("%w: index %d, goal has %d tasks", ErrOutOfRange, index, len(goal.Tasks))
	}

	now := e.clock.Now()
	next := goal.Clone()

	changed := next.Tasks[index].Completed != completed
	next.Tasks[index].Completed = completed
	next.Progress = Progress(next.CompletedCount(), len(next.Tasks))

	e.updateStreak(next, now, changed && completed)

	events := e.evaluateRules(next, now)
	return next, events, nil
}

// Snapshot returns a copy of goal with time-derived state brought up to date.
// A streak whose last qualifying day is more than one calendar day ago reads as 0.
func (e *Engine) Snapshot(goal *models.Goal) *models.Goal {
	out := goal.Clone()
	if out == nil {
		return nil
	}
	decayStreak(out, e.day(e.clock.Now()))
	return out
}

// Progress returns round-half-up(100 * completed / total) using integer arithmetic
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return (200*completed + total) / (2 * total)
}
