package events

import (
	"context"

	"github.com/benvon/goaltracker/internal/models"
	"go.uber.org/zap"
)

// LogPublisher writes events to the structured log. It is the default sink when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that logs through logger
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event at info level
func (p *LogPublisher) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	p.logger.Info("achievement_unlocked",
		zap.String("goal_id", event.GoalID.String()),
		zap.String("badge", string(event.Badge)),
		zap.Time("unlocked_at", event.UnlockedAt),
	)
	return nil
}

// HealthCheck always succeeds
func (p *LogPublisher) HealthCheck(ctx context.Context) error {
	return nil
}

// Close flushes nothing; the logger is owned by the caller
func (p *LogPublisher) Close() error {
	return nil
}
