package events

import (
	"context"
	"errors"

	"github.com/benvon/goaltracker/internal/models"
)

// Fanout publishes every event to all of its publishers
type Fanout struct {
	publishers []Publisher
}

// NewFanout creates a fan-out publisher. Nil entries are skipped.
func NewFanout(publishers ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish sends the event to every publisher, even if an earlier one fails, and joins the errors
func (f *Fanout) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HealthCheck reports the joined failures of all publishers
func (f *Fanout) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.HealthCheck(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher
func (f *Fanout) Close() error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
