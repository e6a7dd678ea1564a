// Package rendering creates ticket images, either inline or by handing the
// work to the renderer worker over the message bus.
package rendering

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relecloud/ticketing/internal/domain/ticket"
	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/internal/render"
)

// Service produces a ticket image for a ticket.
type Service interface {
	CreateTicketImage(ctx context.Context, ticketID int) error
}

// DistributedRenderingService publishes a render request for the renderer
// worker to pick up. The output path is left empty so the renderer chooses
// its deterministic default name.
type DistributedRenderingService struct {
	tickets *ticket.Service
	sender  *messaging.Sender[messages.TicketRenderRequest]
}

func NewDistributedRenderingService(bus messaging.Bus, topic string, tickets *ticket.Service) (*DistributedRenderingService, error) {
	sender, err := messaging.NewSender[messages.TicketRenderRequest](bus, topic)
	if err != nil {
		return nil, fmt.Errorf("create render request sender: %w", err)
	}
	return &DistributedRenderingService{tickets: tickets, sender: sender}, nil
}

func (s *DistributedRenderingService) CreateTicketImage(ctx context.Context, ticketID int) error {
	t, err := s.tickets.GetTicketByID(ctx, ticketID)
	if err != nil {
		return err
	}

	req := messages.NewTicketRenderRequest(t.Snapshot(), "")
	if err := s.sender.Publish(ctx, req); err != nil {
		return fmt.Errorf("publish render request: %w", err)
	}

	slog.InfoContext(ctx, "Published ticket render request",
		"ticket_id", ticketID, "message_id", req.MessageID)
	return nil
}

// Close closes the underlying sender.
func (s *DistributedRenderingService) Close(ctx context.Context) error {
	return s.sender.Close(ctx)
}

// LocalRenderingService renders the image in-process and records the stored
// path directly. Used when distributed rendering is switched off.
type LocalRenderingService struct {
	tickets  *ticket.Service
	renderer render.Renderer
}

func NewLocalRenderingService(tickets *ticket.Service, renderer render.Renderer) *LocalRenderingService {
	return &LocalRenderingService{tickets: tickets, renderer: renderer}
}

func (s *LocalRenderingService) CreateTicketImage(ctx context.Context, ticketID int) error {
	t, err := s.tickets.GetTicketByID(ctx, ticketID)
	if err != nil {
		return err
	}

	path, err := s.renderer.Render(ctx, messages.NewTicketRenderRequest(t.Snapshot(), ""))
	if err != nil {
		return fmt.Errorf("render ticket %d: %w", ticketID, err)
	}
	if path == "" {
		// The renderer rejected the request and already logged why.
		return nil
	}

	return s.tickets.SetImagePath(ctx, ticketID, path)
}
