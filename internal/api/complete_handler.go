package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/relecloud/ticketing/internal/domain/ticket"
	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/messaging"
)

type handlerState int

const (
	stateStopped handlerState = iota
	stateStarting
	stateRunning
	stateStopping
)

// RenderCompleteHandler consumes render completions and records the stored
// image path on the ticket. Each message gets its own unit of work; the
// handler itself holds no database state.
type RenderCompleteHandler struct {
	bus     messaging.Bus
	queue   string
	group   string
	tickets *ticket.Service

	mu        sync.Mutex
	state     handlerState
	processor messaging.Processor
	closed    bool
}

func NewRenderCompleteHandler(bus messaging.Bus, queue, group string, tickets *ticket.Service) *RenderCompleteHandler {
	return &RenderCompleteHandler{
		bus:     bus,
		queue:   queue,
		group:   group,
		tickets: tickets,
	}
}

// Start subscribes to the completion queue. An empty queue name is a valid
// configuration for deployments without distributed rendering; the handler
// logs a warning and stays stopped.
func (h *RenderCompleteHandler) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateStopped {
		return fmt.Errorf("render complete handler already started")
	}
	if h.queue == "" {
		slog.WarnContext(ctx, "Render complete queue not configured, handler stays inactive")
		return nil
	}
	h.state = stateStarting

	processor, err := messaging.Subscribe(ctx, h.bus, messaging.SubscribeConfig{
		Topic: h.queue,
		Group: h.group,
	}, h.handle, h.onTransportError)
	if err != nil {
		h.state = stateStopped
		return fmt.Errorf("subscribe to %q: %w", h.queue, err)
	}

	h.processor = processor
	h.state = stateRunning
	slog.InfoContext(ctx, "Render complete handler started", "queue", h.queue, "group", h.group)
	return nil
}

func (h *RenderCompleteHandler) handle(ctx context.Context, msg messages.TicketRenderComplete) error {
	err := h.tickets.SetImagePath(ctx, msg.TicketID, msg.OutputPath)
	if errors.Is(err, ticket.ErrTicketNotFound) {
		// The ticket may have been deleted since the request was published.
		slog.WarnContext(ctx, "Rendered ticket no longer exists",
			"ticket_id", msg.TicketID, "message_id", msg.MessageID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("record ticket image for ticket %d: %w", msg.TicketID, err)
	}

	slog.InfoContext(ctx, "Ticket image recorded",
		"ticket_id", msg.TicketID, "image_path", msg.OutputPath)
	return nil
}

func (h *RenderCompleteHandler) onTransportError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Render complete transport error", "error", err)
}

// Stop gracefully stops delivery. Safe to call when never started.
func (h *RenderCompleteHandler) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateRunning {
		return nil
	}
	h.state = stateStopping
	err := h.processor.Stop(ctx)
	h.state = stateStopped
	return err
}

// Close releases broker resources. Idempotent.
func (h *RenderCompleteHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.processor == nil {
		return nil
	}
	err := h.processor.Close()
	h.processor = nil
	h.state = stateStopped
	return err
}
