package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benvon/goaltracker/internal/events"
	"github.com/benvon/goaltracker/internal/goals"
	logpkg "github.com/benvon/goaltracker/internal/logger"
	"github.com/benvon/goaltracker/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/benvon/goaltracker/internal/store"

// GoalStore owns the in-memory goal collection. Each intent runs as one critical
// section, and callers only ever receive deep copies of the stored goals.
type GoalStore struct {
	engine    *goals.Engine
	publisher events.Publisher
	logger    *zap.Logger
	tracer    trace.Tracer
	recorder  Recorder

	mu    sync.Mutex
	goals map[uuid.UUID]*models.Goal
	order []uuid.UUID
}

// Recorder observes committed intents (e.g. metrics.Metrics)
type Recorder interface {
	GoalCreated(category models.Category)
	TaskToggled(completed bool)
	AchievementUnlocked(badge models.Badge)
}

// Option configures a GoalStore
type Option func(*GoalStore)

// WithPublisher sets where achievement events are sent after a toggle commits
func WithPublisher(p events.Publisher) Option {
	return func(s *GoalStore) {
		s.publisher = p
	}
}

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *GoalStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider sets the provider store spans are recorded with (default: the global provider)
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *GoalStore) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRecorder sets the observer notified after each committed intent
func WithRecorder(r Recorder) Option {
	return func(s *GoalStore) {
		s.recorder = r
	}
}

// New creates an empty store driven by engine
func New(engine *goals.Engine, opts ...Option) *GoalStore {
	if engine == nil {
		engine = goals.NewEngine()
	}
	s := &GoalStore{
		engine: engine,
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
		goals:  make(map[uuid.UUID]*models.Goal),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the engine the store applies intents with
func (s *GoalStore) Engine() *goals.Engine {
	return s.engine
}

// Now returns the engine clock's current instant
func (s *GoalStore) Now() time.Time {
	return s.engine.Now()
}

// Create handles the CreateGoal intent and returns a snapshot of the stored goal
func (s *GoalStore) Create(ctx context.Context, in goals.CreateGoalInput) (*models.Goal, error) {
	_, span := s.tracer.Start(ctx, "goalstore.create")
	defer span.End()

	goal, err := s.engine.CreateGoal(in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.mu.Lock()
	if _, exists := s.goals[goal.ID]; exists {
		s.mu.Unlock()
		err := fmt.Errorf("goal id %s already in use", goal.ID)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.goals[goal.ID] = goal
	s.order = append(s.order, goal.ID)
	snapshot := goal.Clone()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("goal.id", goal.ID.String()),
		attribute.String("goal.category", string(goal.Category)),
		attribute.Int("goal.tasks", len(goal.Tasks)),
	)
	s.logger.Info("goal_created",
		zap.String("goal_id", goal.ID.String()),
		zap.String("title", logpkg.SanitizeString(goal.Title, logpkg.MaxTitleLength)),
		zap.String("category", string(goal.Category)),
		zap.String("timeframe", string(goal.Timeframe)),
		zap.Int("task_count", len(goal.Tasks)),
	)
	if s.recorder != nil {
		s.recorder.GoalCreated(goal.Category)
	}

	return snapshot, nil
}

// ToggleTask handles the ToggleTask intent. Unlocked achievements are published after
// the change commits; a publish failure is logged and does not undo the toggle.
func (s *GoalStore) ToggleTask(ctx context.Context, id uuid.UUID, index int, completed bool) (*models.Goal, []models.AchievementUnlocked, error) {
	ctx, span := s.tracer.Start(ctx, "goalstore.toggle_task", trace.WithAttributes(
		attribute.String("goal.id", id.String()),
		attribute.Int("task.index", index),
		attribute.Bool("task.completed", completed),
	))
	defer span.End()

	s.mu.Lock()
	current, ok := s.goals[id]
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("%w: %s", goals.ErrNotFound, id)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	next, unlocked, err := s.engine.ToggleTask(current, index, completed)
	if err != nil {
		s.mu.Unlock()
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	s.goals[id] = next
	snapshot := next.Clone()
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("goal.progress", snapshot.Progress))
	s.logger.Info("task_toggled",
		zap.String("goal_id", id.String()),
		zap.Int("task_index", index),
		zap.Bool("completed", completed),
		zap.Int("progress", snapshot.Progress),
		zap.Int("streak", snapshot.Streak),
	)
	if s.recorder != nil {
		s.recorder.TaskToggled(completed)
		for _, event := range unlocked {
			s.recorder.AchievementUnlocked(event.Badge)
		}
	}

	s.publish(ctx, unlocked)

	return snapshot, unlocked, nil
}

func (s *GoalStore) publish(ctx context.Context, unlocked []models.AchievementUnlocked) {
	if s.publisher == nil {
		return
	}
	for _, event := range unlocked {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed_to_publish_achievement",
				zap.String("goal_id", event.GoalID.String()),
				zap.String("badge", string(event.Badge)),
				zap.Error(err),
			)
		}
	}
}

// Get returns a snapshot of one goal
func (s *GoalStore) Get(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", goals.ErrNotFound, id)
	}
	return s.engine.Snapshot(goal), nil
}

// List returns snapshots of every goal in insertion order
func (s *GoalStore) List(ctx context.Context) []*models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Goal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.engine.Snapshot(s.goals[id]))
	}
	return out
}

// Filter handles the FilterGoals query
func (s *GoalStore) Filter(ctx context.Context, category string) []*models.Goal {
	_, span := s.tracer.Start(ctx, "goalstore.filter", trace.WithAttributes(
		attribute.String("filter.category", category),
	))
	defer span.End()

	result := goals.FilterByCategory(s.List(ctx), category)
	span.SetAttributes(attribute.Int("filter.results", len(result)))
	return result
}

// Count returns the number of stored goals
func (s *GoalStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
