package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/internal/render"
)

type handlerState int

const (
	stateStopped handlerState = iota
	stateStarting
	stateRunning
	stateStopping
)

// RenderRequestHandler consumes render requests, renders the ticket image and
// optionally publishes a completion message when a completion topic is
// configured.
type RenderRequestHandler struct {
	bus             messaging.Bus
	queue           string
	group           string
	completionTopic string
	renderer        render.Renderer

	mu        sync.Mutex
	state     handlerState
	processor messaging.Processor
	sender    *messaging.Sender[messages.TicketRenderComplete]
	closed    bool
}

func NewRenderRequestHandler(bus messaging.Bus, queue, group, completionTopic string, r render.Renderer) *RenderRequestHandler {
	return &RenderRequestHandler{
		bus:             bus,
		queue:           queue,
		group:           group,
		completionTopic: completionTopic,
		renderer:        r,
	}
}

// Start creates the completion sender (when configured) and subscribes to the
// request queue. An empty queue name leaves the handler inactive; that is a
// valid configuration for deployments without rendering.
func (h *RenderRequestHandler) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateStopped {
		return fmt.Errorf("render request handler already started")
	}
	if h.queue == "" {
		slog.WarnContext(ctx, "Render request queue not configured, handler stays inactive")
		return nil
	}
	h.state = stateStarting

	if h.completionTopic != "" {
		sender, err := messaging.NewSender[messages.TicketRenderComplete](h.bus, h.completionTopic)
		if err != nil {
			h.state = stateStopped
			return fmt.Errorf("create completion sender for %q: %w", h.completionTopic, err)
		}
		h.sender = sender
	}

	processor, err := messaging.Subscribe(ctx, h.bus, messaging.SubscribeConfig{
		Topic: h.queue,
		Group: h.group,
	}, h.handle, h.onTransportError)
	if err != nil {
		if h.sender != nil {
			_ = h.sender.Close(ctx)
			h.sender = nil
		}
		h.state = stateStopped
		return fmt.Errorf("subscribe to %q: %w", h.queue, err)
	}

	h.processor = processor
	h.state = stateRunning
	slog.InfoContext(ctx, "Render request handler started",
		"queue", h.queue, "group", h.group, "completion_topic", h.completionTopic)
	return nil
}

func (h *RenderRequestHandler) handle(ctx context.Context, req messages.TicketRenderRequest) error {
	path, err := h.renderer.Render(ctx, req)
	if err != nil {
		return err
	}
	if path == "" || h.sender == nil {
		return nil
	}

	complete := messages.NewTicketRenderComplete(req.Ticket.ID, path)
	if err := h.sender.Publish(ctx, complete); err != nil {
		return fmt.Errorf("publish render completion: %w", err)
	}
	return nil
}

func (h *RenderRequestHandler) onTransportError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Render request transport error", "error", err)
}

// Stop stops delivery and closes the completion sender. Safe to call when
// never started.
func (h *RenderRequestHandler) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateRunning {
		return nil
	}
	h.state = stateStopping

	var errs []error
	if h.processor != nil {
		errs = append(errs, h.processor.Stop(ctx))
	}
	if h.sender != nil {
		errs = append(errs, h.sender.Close(ctx))
		h.sender = nil
	}
	h.state = stateStopped
	return errors.Join(errs...)
}

// Close releases broker resources, including a sender that a skipped Stop
// left open. Idempotent.
func (h *RenderRequestHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if h.processor != nil {
		errs = append(errs, h.processor.Close())
		h.processor = nil
	}
	if h.sender != nil {
		errs = append(errs, h.sender.Close(context.Background()))
		h.sender = nil
	}
	h.state = stateStopped
	return errors.Join(errs...)
}
