package ticket

import (
	"context"
	"fmt"
)

type Service struct {
	repo TicketRepo
}

func NewService(repo TicketRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetTicketByID(ctx context.Context, id int) (Ticket, error) {
	t, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return t, nil
}

func (s *Service) ListTickets(ctx context.Context) ([]Ticket, error) {
	tickets, err := s.repo.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *Service) CreateTicket(ctx context.Context, newTicket NewTicket) (Ticket, error) {
	if newTicket.Number == "" {
		return Ticket{}, fmt.Errorf("ticket number is required")
	}
	if newTicket.ConcertID <= 0 {
		return Ticket{}, fmt.Errorf("concert id is required")
	}

	t, err := s.repo.CreateTicket(ctx, newTicket)
	if err != nil {
		return Ticket{}, fmt.Errorf("create ticket: %w", err)
	}
	return t, nil
}

// SetImagePath records the stored image path for a ticket. The lookup and
// update run in one transaction so a concurrent delete cannot leave a
// dangling image reference.
func (s *Service) SetImagePath(ctx context.Context, ticketID int, imagePath string) error {
	return s.repo.InTransaction(ctx, func(tx TxTicketRepo) error {
		if _, err := tx.GetTicketByID(ctx, ticketID); err != nil {
			return fmt.Errorf("load ticket: %w", err)
		}
		if err := tx.UpdateTicketImage(ctx, ticketID, imagePath); err != nil {
			return fmt.Errorf("update ticket image: %w", err)
		}
		return nil
	})
}
