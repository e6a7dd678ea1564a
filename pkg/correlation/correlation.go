// Package correlation propagates a per-request correlation ID across the
// HTTP layer, log records and bus messages, so one ticket's render can be
// traced through both deployments.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName carries the ID on HTTP requests and responses.
const HeaderName = "X-Correlation-ID"

// KafkaHeaderName carries the ID on published messages; consumers restore it
// into the handler context.
const KafkaHeaderName = "X-Correlation-ID"

type contextKey struct{}

// FromContext returns the correlation ID, or "" when the context has none.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithID attaches the correlation ID to the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// NewID mints a fresh correlation ID.
func NewID() string {
	return uuid.New().String()
}
