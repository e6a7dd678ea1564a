package ticket

//go:generate mockgen -source repo_port.go -destination mock_repo.go -package ticket

import "context"

type TxTicketRepo interface {
	GetTicketByID(ctx context.Context, id int) (Ticket, error)
	ListTickets(ctx context.Context) ([]Ticket, error)

	CreateTicket(ctx context.Context, newTicket NewTicket) (Ticket, error)
	UpdateTicketImage(ctx context.Context, ticketID int, imagePath string) error
}

type TicketRepo interface {
	TxTicketRepo
	InTransaction(ctx context.Context, fn func(repo TxTicketRepo) error) error
}
