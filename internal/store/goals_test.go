package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benvon/goaltracker/internal/goals"
	"github.com/benvon/goaltracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AchievementUnlocked
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) HealthCheck(ctx context.Context) error { return nil }

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []models.AchievementUnlocked {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.AchievementUnlocked(nil), p.events...)
}

func newTestStore(t *testing.T, opts ...Option) *GoalStore {
	t.Helper()
	clock := goals.ClockFunc(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })
	return New(goals.NewEngine(goals.WithClock(clock)), opts...)
}

func createGoal(t *testing.T, s *GoalStore, title, category string, tasks ...string) *models.Goal {
	t.Helper()
	g, err := s.Create(context.Background(), goals.CreateGoalInput{
		Title: title, Category: category, Timeframe: "1 Month", Tasks: tasks,
	})
	require.NoError(t, err)
	return g
}

func TestGoalStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := createGoal(t, s, "Learn Spanish", "Education", "Lesson 1", "Lesson 2")

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, s.Count())
}

func TestGoalStore_CreateInvalidLeavesStoreEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(context.Background(), goals.CreateGoalInput{
		Title: "", Category: "Personal", Timeframe: "1 Week", Tasks: []string{"a"},
	})
	assert.True(t, errors.Is(err, goals.ErrInvalidInput))
	assert.Equal(t, 0, s.Count())
}

func TestGoalStore_SnapshotsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := createGoal(t, s, "Run", "Fitness", "5k")
	created.Tasks[0].Completed = true
	created.Badges = append(created.Badges, models.BadgeCompleted)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Tasks[0].Completed)
	assert.Empty(t, got.Badges)
}

func TestGoalStore_ToggleTask(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestStore(t, WithPublisher(pub))
	ctx := context.Background()
	g := createGoal(t, s, "Learn Spanish", "Education", "Lesson 1", "Lesson 2")

	updated, unlocked, err := s.ToggleTask(ctx, g.ID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Progress)
	assert.Empty(t, unlocked)
	assert.Empty(t, pub.published())

	updated, unlocked, err = s.ToggleTask(ctx, g.ID, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	require.Len(t, unlocked, 1)
	assert.Equal(t, models.BadgeCompleted, unlocked[0].Badge)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, g.ID, published[0].GoalID)
	assert.Equal(t, models.BadgeCompleted, published[0].Badge)

	// repeating the completing toggle emits nothing new
	_, unlocked, err = s.ToggleTask(ctx, g.ID, 1, true)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
	assert.Len(t, pub.published(), 1)

	stored, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, []models.Badge{models.BadgeCompleted}, stored.Badges)
}

func TestGoalStore_ToggleTaskErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := createGoal(t, s, "Learn Spanish", "Education", "Lesson 1", "Lesson 2")

	_, _, err := s.ToggleTask(ctx, uuid.New(), 0, true)
	assert.True(t, errors.Is(err, goals.ErrNotFound), "got %v", err)

	_, _, err = s.ToggleTask(ctx, g.ID, 5, true)
	assert.True(t, errors.Is(err, goals.ErrOutOfRange), "got %v", err)

	stored, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, stored, "failed intents leave the goal unchanged")
}

func TestGoalStore_GetUnknown(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, goals.ErrNotFound))
}

func TestGoalStore_PublishFailureKeepsToggle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := newTestStore(t, WithPublisher(pub), WithLogger(zap.New(core)))
	ctx := context.Background()
	g := createGoal(t, s, "Stretch", "Fitness", "Morning")

	updated, unlocked, err := s.ToggleTask(ctx, g.ID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Len(t, unlocked, 1)

	assert.Equal(t, 1, logs.FilterMessage("failed_to_publish_achievement").Len())
	assert.Equal(t, 1, logs.FilterMessage("goal_created").Len())
	assert.Equal(t, 1, logs.FilterMessage("task_toggled").Len())
}

func TestGoalStore_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	goalA := createGoal(t, s, "Journal", "Personal", "Write")
	goalB := createGoal(t, s, "Run", "Fitness", "5k")
	goalC := createGoal(t, s, "Meditate", "Personal", "Sit")

	fitness := s.Filter(ctx, "Fitness")
	require.Len(t, fitness, 1)
	assert.Equal(t, goalB.ID, fitness[0].ID)

	personal := s.Filter(ctx, "Personal")
	require.Len(t, personal, 2)
	assert.Equal(t, goalA.ID, personal[0].ID)
	assert.Equal(t, goalC.ID, personal[1].ID)

	all := s.Filter(ctx, models.CategoryAll)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{goalA.ID, goalB.ID, goalC.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	assert.Empty(t, s.Filter(ctx, "Career"))
}

func TestGoalStore_ConcurrentToggles(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestStore(t, WithPublisher(pub))
	ctx := context.Background()

	tasks := make([]string, 40)
	for i := range tasks {
		tasks[i] = "step"
	}
	g := createGoal(t, s, "Big project", "Career", tasks...)

	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _, err := s.ToggleTask(ctx, g.ID, idx, true)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, len(tasks), stored.CompletedCount())
	assert.Equal(t, []models.Badge{models.BadgeCompleted}, stored.Badges)
	assert.Len(t, pub.published(), 1)
}

type countingRecorder struct {
	mu       sync.Mutex
	created  []models.Category
	toggles  []bool
	unlocked []models.Badge
}

func (r *countingRecorder) GoalCreated(category models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, category)
}

func (r *countingRecorder) TaskToggled(completed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles = append(r.toggles, completed)
}

func (r *countingRecorder) AchievementUnlocked(badge models.Badge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlocked = append(r.unlocked, badge)
}

func TestGoalStore_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	s := newTestStore(t, WithRecorder(rec))
	ctx := context.Background()

	g := createGoal(t, s, "Stretch", "Fitness", "Morning")
	_, err := s.Create(ctx, goals.CreateGoalInput{Title: "", Category: "Fitness", Timeframe: "1 Week", Tasks: []string{"a"}})
	require.Error(t, err)

	_, _, err = s.ToggleTask(ctx, g.ID, 0, true)
	require.NoError(t, err)
	_, _, err = s.ToggleTask(ctx, g.ID, 4, true)
	require.Error(t, err)
	_, _, err = s.ToggleTask(ctx, g.ID, 0, false)
	require.NoError(t, err)

	assert.Equal(t, []models.Category{models.CategoryFitness}, rec.created, "rejected intents are not recorded")
	assert.Equal(t, []bool{true, false}, rec.toggles)
	assert.Equal(t, []models.Badge{models.BadgeCompleted}, rec.unlocked)
}
