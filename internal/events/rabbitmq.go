package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/benvon/goaltracker/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultExchangeName is the durable direct exchange events are published to
	DefaultExchangeName = "goal_events"
	// DefaultQueueName is the queue the notification layer consumes
	DefaultQueueName = "goal_achievements"
	// DefaultDLQName is the dead letter queue for rejected events
	DefaultDLQName = "goal_achievements_dlq"

	achievementRoutingKey = "achievement"
	dlqRoutingKey         = "dlq"
)

// RabbitMQPublisher implements Publisher using RabbitMQ
type RabbitMQPublisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	queueName    string
	dlqName      string

	// amqp channels are not safe for concurrent publishes
	mu sync.Mutex
}

// NewRabbitMQPublisher connects to amqpURL and declares the exchange and queues
func NewRabbitMQPublisher(amqpURL string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := &RabbitMQPublisher{
		conn:         conn,
		channel:      ch,
		exchangeName: DefaultExchangeName,
		queueName:    DefaultQueueName,
		dlqName:      DefaultDLQName,
	}

	if err := p.setup(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup queues: %w", err)
	}

	return p, nil
}

// setup configures the exchange, the achievements queue and its DLQ
func (p *RabbitMQPublisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.dlqName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := p.channel.QueueBind(p.dlqName, dlqRoutingKey, p.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	queueArgs := amqp.Table{
		"x-dead-letter-exchange":    p.exchangeName,
		"x-dead-letter-routing-key": dlqRoutingKey,
	}
	_, err = p.channel.QueueDeclare(
		p.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		queueArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := p.channel.QueueBind(p.queueName, achievementRoutingKey, p.exchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue to exchange: %w", err)
	}

	return nil
}

// Publish sends the event as a persistent JSON message
func (p *RabbitMQPublisher) Publish(ctx context.Context, event models.AchievementUnlocked) error {
	envelope := NewEnvelope(event)
	body, err := envelope.Marshal()
	if err != nil {
		return err
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    envelope.ID.String(),
		Timestamp:    envelope.OccurredAt,
		Type:         string(envelope.Type),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		achievementRoutingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// HealthCheck verifies the connection and channel are open
func (p *RabbitMQPublisher) HealthCheck(ctx context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed")
	}
	if p.channel == nil || p.channel.IsClosed() {
		return fmt.Errorf("rabbitmq channel is closed")
	}
	return nil
}

// Close closes the channel and the connection
func (p *RabbitMQPublisher) Close() error {
	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
