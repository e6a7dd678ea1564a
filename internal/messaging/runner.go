package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const stopTimeout = 30 * time.Second

// Lifecycle is a background handler owned by a process supervisor.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Close() error
}

// Runner owns a set of background handlers, starting them together and
// stopping them on context cancellation.
type Runner struct {
	handlers []Lifecycle
}

// NewRunner creates a runner supervising the given handlers.
func NewRunner(handlers ...Lifecycle) *Runner {
	return &Runner{handlers: handlers}
}

// Run starts every handler, blocks until ctx is cancelled, then stops and
// releases them. A start failure stops the handlers already started.
func (r *Runner) Run(ctx context.Context) error {
	var started []Lifecycle
	for _, h := range r.handlers {
		if err := h.Start(ctx); err != nil {
			r.shutdown(started)
			return err
		}
		started = append(started, h)
	}

	<-ctx.Done()
	return r.shutdown(started)
}

func (r *Runner) shutdown(handlers []Lifecycle) error {
	// Stops run under a fresh context; the run context is already cancelled.
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	g := new(errgroup.Group)
	for _, h := range handlers {
		h := h
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("Handler panic during shutdown", "panic", rec)
				}
			}()
			return errors.Join(h.Stop(stopCtx), h.Close())
		})
	}
	return g.Wait()
}
