// Package health implements the liveness and readiness probes exposed by the
// api and renderer deployments. Each deployment registers checkers for the
// backends it actually depends on (Kafka, Postgres, S3).
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds one readiness probe across all checkers.
const DefaultTimeout = 5 * time.Second

// Status of a single component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result of one check. Message is only set for failures.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one backing dependency.
type Checker interface {
	// Name identifies the dependency in the readiness response.
	Name() string
	// Check probes the dependency within the context deadline.
	Check(ctx context.Context) Result
}
