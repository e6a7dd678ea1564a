// Package kafka binds the messaging.Bus contract to a Kafka cluster using
// segmentio/kafka-go. Messages are fetched one at a time per processor and
// committed only after the handler completes; undecodable payloads are routed
// to a per-topic dead-letter topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/pkg/correlation"
)

const deadLetterSuffix = ".dlq"

// Bus creates Kafka-backed senders and processors.
type Bus struct {
	brokers []string
	retry   messaging.RetryConfig
}

// NewBus creates a bus for the given broker list.
func NewBus(brokers []string, retry messaging.RetryConfig) (*Bus, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	return &Bus{brokers: brokers, retry: retry}, nil
}

// CreateSender returns a sender publishing to topic.
func (b *Bus) CreateSender(topic string) (messaging.RawSender, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(b.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Sender{writer: writer, retry: b.retry}, nil
}

// Subscribe starts a group consumer for cfg.Topic and returns once the fetch
// loop is running. The processor keeps running until Stop is called; the
// subscribe context only scopes startup.
func (b *Bus) Subscribe(ctx context.Context, cfg messaging.SubscribeConfig, handler messaging.RawHandler, errHandler messaging.ErrorHandler) (messaging.Processor, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:          b.brokers,
		Topic:            cfg.Topic,
		GroupID:          cfg.Group,
		MinBytes:         1,
		MaxBytes:         10e6, // 10MB
		CommitInterval:   0,    // Commit synchronously for reliability
		StartOffset:      kafka.FirstOffset,
		MaxWait:          500 * time.Millisecond,
		RebalanceTimeout: 5 * time.Second,
	})

	dlq := NewDeadLetterPublisher(b.brokers, cfg.Topic+deadLetterSuffix)

	p := newProcessor(reader, dlq, handler, errHandler, b.retry)

	// The loop outlives the subscribe call; Stop is the primary stop mechanism.
	p.start(context.WithoutCancel(ctx))

	return p, nil
}

// extractCorrelationID pulls the correlation ID from Kafka headers into the
// context, generating a fresh one for messages without it.
func extractCorrelationID(ctx context.Context, headers []kafka.Header) context.Context {
	for _, h := range headers {
		if h.Key == correlation.KafkaHeaderName && len(h.Value) > 0 {
			return correlation.WithID(ctx, string(h.Value))
		}
	}
	return correlation.WithID(ctx, correlation.NewID())
}
