package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/pkg/correlation"
	"github.com/relecloud/ticketing/pkg/metrics"
)

// Sender publishes raw messages to one Kafka topic, retrying transient
// broker failures with exponential backoff.
type Sender struct {
	writer *kafka.Writer
	retry  messaging.RetryConfig

	closeOnce sync.Once
	closeErr  error
}

// Publish writes one message. The correlation ID from ctx travels in a header.
func (s *Sender) Publish(ctx context.Context, key, value []byte) error {
	msg := kafka.Message{
		Key:   key,
		Value: value,
	}
	if corrID := correlation.FromContext(ctx); corrID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.KafkaHeaderName,
			Value: []byte(corrID),
		})
	}

	err := messaging.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		metrics.MessagesPublished.WithLabelValues(s.writer.Topic, "error").Inc()
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", s.writer.Topic,
			"key", string(key),
			slog.Any("error", err))
		return fmt.Errorf("%w: publish to %q: %v", messaging.ErrTransport, s.writer.Topic, err)
	}

	metrics.MessagesPublished.WithLabelValues(s.writer.Topic, "ok").Inc()
	slog.DebugContext(ctx, "Message published", "topic", s.writer.Topic, "key", string(key))
	return nil
}

// Close closes the Kafka writer. Idempotent.
func (s *Sender) Close(context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.writer.Close()
	})
	return s.closeErr
}
