package messaging

import "errors"

var (
	// ErrPoisonMessage marks a payload that cannot be decoded into its target
	// type. Poison messages are dead-lettered, never retried, and never reach
	// the application handler.
	ErrPoisonMessage = errors.New("poison message")

	// ErrSerialization marks a message that cannot be encoded for transport.
	ErrSerialization = errors.New("message serialization failed")

	// ErrTransport marks broker connectivity or timeout failures.
	ErrTransport = errors.New("transport failure")

	// ErrMaxRetriesExceeded is returned when all retry attempts fail.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
