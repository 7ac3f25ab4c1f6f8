// Package events publishes presence transitions to Kafka. Events are
// advisory; the coordinates table remains the source of truth.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/zachholt/nightout-presence/internal/model"
)

var _ model.PresencePublisher = (*Publisher)(nil)

// MessageWriter is the subset of kafka.Writer the publisher needs.
// It exists so unit tests can substitute a fake.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes presence events keyed by user id, so all transitions
// for one user land on one partition in order. A nil Publisher is a
// valid no-op, which is how deployments without Kafka run.
type Publisher struct {
	writer MessageWriter
}

// NewPublisher creates a Publisher for the given brokers and topic.
// It returns nil when brokers is empty.
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event model.PresenceEvent) error {
	if p == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal presence event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID.String()),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write presence event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
