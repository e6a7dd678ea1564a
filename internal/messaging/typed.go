package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sender publishes JSON-encoded messages of type T to one destination.
type Sender[T any] struct {
	raw   RawSender
	topic string
}

// NewSender binds a typed sender to a destination on the given bus.
func NewSender[T any](bus Bus, topic string) (*Sender[T], error) {
	raw, err := bus.CreateSender(topic)
	if err != nil {
		return nil, fmt.Errorf("create sender for %q: %w", topic, err)
	}
	return &Sender[T]{raw: raw, topic: topic}, nil
}

// Publish serializes and transmits one message.
func (s *Sender[T]) Publish(ctx context.Context, msg T) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encoding %T: %v", ErrSerialization, msg, err)
	}
	return s.raw.Publish(ctx, nil, value)
}

// Close gracefully closes the underlying channel.
func (s *Sender[T]) Close(ctx context.Context) error {
	return s.raw.Close(ctx)
}

// Topic returns the destination this sender is bound to.
func (s *Sender[T]) Topic() string {
	return s.topic
}

// Subscribe begins typed delivery of messages of type T. Payloads that fail to
// decode are classified as poison and surfaced to the adapter via
// ErrPoisonMessage, which dead-letters them without invoking handler.
func Subscribe[T any](
	ctx context.Context,
	bus Bus,
	cfg SubscribeConfig,
	handler func(ctx context.Context, msg T) error,
	errHandler ErrorHandler,
) (Processor, error) {
	raw := func(ctx context.Context, _, value []byte) error {
		var msg T
		if err := json.Unmarshal(value, &msg); err != nil {
			return fmt.Errorf("%w: invalid body, could not be decoded to %T: %v", ErrPoisonMessage, msg, err)
		}
		return handler(ctx, msg)
	}

	return bus.Subscribe(ctx, cfg, raw, errHandler)
}
