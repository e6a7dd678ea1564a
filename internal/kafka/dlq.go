package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/relecloud/ticketing/pkg/metrics"
)

// DeadLetterPublisher routes poison messages to a dead-letter topic.
type DeadLetterPublisher struct {
	writer *kafka.Writer

	closeOnce sync.Once
	closeErr  error
}

// NewDeadLetterPublisher creates a publisher for the given dead-letter topic.
func NewDeadLetterPublisher(brokers []string, topic string) *DeadLetterPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		// Dead-letter topics are not pre-provisioned.
		AllowAutoTopicCreation: true,
	}

	return &DeadLetterPublisher{writer: writer}
}

// Publish sends a failed message to the dead-letter topic with the reason and
// failure time in headers.
func (p *DeadLetterPublisher) Publish(ctx context.Context, key, value []byte, reason string) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
		Headers: []kafka.Header{
			{Key: "reason", Value: []byte(reason)},
			{Key: "failed_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish to dead-letter topic",
			"topic", p.writer.Topic,
			"key", string(key),
			"reason", reason,
			slog.Any("error", err))
		return err
	}

	metrics.MessagesDeadLettered.WithLabelValues(p.writer.Topic).Inc()
	slog.WarnContext(ctx, "Message sent to dead-letter topic",
		"topic", p.writer.Topic,
		"key", string(key),
		"reason", reason)
	return nil
}

// Close closes the dead-letter writer. Idempotent.
func (p *DeadLetterPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}
