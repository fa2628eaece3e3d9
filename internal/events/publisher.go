package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/google/uuid"
)

// EventType identifies the payload carried by an Envelope
type EventType string

const (
	// EventTypeAchievementUnlocked is published once per badge a goal earns
	EventTypeAchievementUnlocked EventType = "achievement_unlocked"
)

// Publisher hands engine events to the external notification layer
type Publisher interface {
	// Publish delivers one achievement event
	Publish(ctx context.Context, event models.AchievementUnlocked) error

	// HealthCheck verifies the underlying transport is reachable
	HealthCheck(ctx context.Context) error

	// Close releases the transport
	Close() error
}

// Envelope is the wire format shared by every transport
type Envelope struct {
	ID          uuid.UUID    `json:"id"`
	Type        EventType    `json:"type"`
	GoalID      uuid.UUID    `json:"goal_id"`
	Badge       models.Badge `json:"badge"`
	OccurredAt  time.Time    `json:"occurred_at"`
	PublishedAt time.Time    `json:"published_at"`
}

// NewEnvelope wraps an achievement event with a fresh message id
func NewEnvelope(event models.AchievementUnlocked) *Envelope {
	return &Envelope{
		ID:          uuid.New(),
		Type:        EventTypeAchievementUnlocked,
		GoalID:      event.GoalID,
		Badge:       event.Badge,
		OccurredAt:  event.UnlockedAt,
		PublishedAt: time.Now().UTC(),
	}
}

// Marshal encodes the envelope as JSON
func (e *Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// Event converts the envelope back into the engine event
func (e *Envelope) Event() models.AchievementUnlocked {
	return models.AchievementUnlocked{
		GoalID:     e.GoalID,
		Badge:      e.Badge,
		UnlockedAt: e.OccurredAt,
	}
}
