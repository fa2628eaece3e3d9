package events

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/nats-io/nats.go"
)

// DefaultNATSSubject is the subject achievement events are published on
const DefaultNATSSubject = "goaltracker.achievements"

// NATSPublisher publishes events on a core NATS subject
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to natsURL. The connection reconnects on its own after startup.
func NewNATSPublisher(natsURL, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("goaltracker"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSPublisherWithConn(conn, subject), nil
}

// NewNATSPublisherWithConn publishes through an existing connection; Close drains it
func NewNATSPublisherWithConn(conn *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// Publish encodes the event envelope and publishes it on the subject.
// nats Publish does not take a context, so ctx is checked before sending.
func (p *NATSPublisher) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	body, err := NewEnvelope(event).Marshal()
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.subject, body); err != nil {
		return fmt.Errorf("failed to publish event to nats: %w", err)
	}
	return nil
}

// HealthCheck reports whether the connection is currently up
func (p *NATSPublisher) HealthCheck(ctx context.Context) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return fmt.Errorf("nats connection is %s", p.status())
	}
	return nil
}

func (p *NATSPublisher) status() string {
	if p.conn == nil {
		return "closed"
	}
	return p.conn.Status().String()
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}
