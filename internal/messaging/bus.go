// Package messaging defines the transport-agnostic message bus contract.
// Concrete brokers (Kafka, in-memory) bind the raw byte-level Bus interface;
// application code uses the typed Sender and Subscribe layer on top of it.
package messaging

//go:generate mockgen -source bus.go -destination mock_bus.go -package messaging

import (
	"context"
)

// RawHandler processes a single raw message. Returning an error abandons the
// message (no acknowledgment); returning an error wrapping ErrPoisonMessage
// routes it to the dead-letter sink instead.
type RawHandler func(ctx context.Context, key, value []byte) error

// ErrorHandler is invoked for transport-level failures, as opposed to
// per-message handler failures. It must not block for long.
type ErrorHandler func(ctx context.Context, err error)

// SubscribeConfig names the destination a processor listens on.
type SubscribeConfig struct {
	Topic string
	Group string
}

// RawSender is an open publish channel to one queue or topic.
type RawSender interface {
	// Publish transmits one message. The key may be empty.
	Publish(ctx context.Context, key, value []byte) error
	// Close gracefully closes the channel. Idempotent.
	Close(ctx context.Context) error
}

// Processor is an active broker listener created by Subscribe.
type Processor interface {
	// Stop gracefully stops delivery without losing in-flight work. Idempotent.
	Stop(ctx context.Context) error
	// Close releases broker resources. Idempotent, safe without a prior Stop.
	Close() error
}

// Bus creates senders and processors bound to one broker.
type Bus interface {
	// CreateSender returns a sender bound to one destination. Safe to call
	// repeatedly; callers should reuse the handle for their lifetime.
	CreateSender(topic string) (RawSender, error)

	// Subscribe begins asynchronous delivery of messages to handler and
	// returns once the underlying listener has started. errHandler may be nil.
	Subscribe(ctx context.Context, cfg SubscribeConfig, handler RawHandler, errHandler ErrorHandler) (Processor, error)
}
