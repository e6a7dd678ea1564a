package ticket_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/relecloud/ticketing/internal/domain/ticket"
	"github.com/relecloud/ticketing/pkg/postgres"
)

var ticketColumns = []string{
	"t.id", "t.number", "t.concert_id", "t.customer_id", "t.user_id", "t.image_path", "t.purchased_at",
	"c.id", "c.artist", "c.location", "c.start_time", "c.price",
	"cu.id", "cu.name", "cu.email", "cu.phone",
	"u.id", "u.display_name",
}

type PgTicketRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgTicketRepo(pg *postgres.Postgres) ticket.TicketRepo {
	return &PgTicketRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgTicketRepo) InTransaction(ctx context.Context, fn func(repo ticket.TxTicketRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		txRepo := &repo{db: tx, builder: r.pg.Builder}
		return fn(txRepo)
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) selectTickets() squirrel.SelectBuilder {
	return r.builder.Select(ticketColumns...).
		From("tickets t").
		LeftJoin("concerts c ON c.id = t.concert_id").
		LeftJoin("customers cu ON cu.id = t.customer_id").
		LeftJoin("users u ON u.id = t.user_id")
}

func (r *repo) GetTicketByID(ctx context.Context, id int) (ticket.Ticket, error) {
	query, args, err := r.selectTickets().
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("build ticket query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("query ticket by id: %w", err)
	}
	defer rows.Close()

	tickets, err := parseTicketRows(rows)
	if err != nil {
		return ticket.Ticket{}, err
	}
	if len(tickets) == 0 {
		return ticket.Ticket{}, ticket.ErrTicketNotFound
	}
	return tickets[0], nil
}

func (r *repo) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	query, args, err := r.selectTickets().
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tickets query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	return parseTicketRows(rows)
}

func (r *repo) CreateTicket(ctx context.Context, newTicket ticket.NewTicket) (ticket.Ticket, error) {
	query, args, err := r.builder.Insert("tickets").
		Columns("number", "concert_id", "customer_id", "user_id").
		Values(newTicket.Number, newTicket.ConcertID, newTicket.CustomerID, newTicket.UserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("build insert query: %w", err)
	}

	var id int
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if postgres.IsPgErrorUniqueViolation(err) {
		return ticket.Ticket{}, ticket.ErrTicketAlreadyExists
	}
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	return r.GetTicketByID(ctx, id)
}

func (r *repo) UpdateTicketImage(ctx context.Context, ticketID int, imagePath string) error {
	query, args, err := r.builder.Update("tickets").
		Set("image_path", imagePath).
		Where(squirrel.Eq{"id": ticketID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update ticket image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}
