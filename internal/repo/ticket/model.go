package ticket_repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/relecloud/ticketing/internal/domain/ticket"
)

// ticketRow is one joined row of a ticket with its relations. The relation
// columns come from LEFT JOINs and may be NULL when the referenced row was
// deleted.
type ticketRow struct {
	ID          int
	Number      string
	ConcertID   int
	CustomerID  int
	UserID      string
	ImagePath   sql.NullString
	PurchasedAt time.Time

	ConcertRowID     sql.NullInt64
	ConcertArtist    sql.NullString
	ConcertLocation  sql.NullString
	ConcertStartTime sql.NullTime
	ConcertPrice     sql.NullFloat64

	CustomerRowID sql.NullInt64
	CustomerName  sql.NullString
	CustomerEmail sql.NullString
	CustomerPhone sql.NullString

	UserRowID       sql.NullString
	UserDisplayName sql.NullString
}

func (r ticketRow) toDomain() ticket.Ticket {
	t := ticket.Ticket{
		ID:          r.ID,
		Number:      r.Number,
		ConcertID:   r.ConcertID,
		CustomerID:  r.CustomerID,
		UserID:      r.UserID,
		ImagePath:   r.ImagePath.String,
		PurchasedAt: r.PurchasedAt,
	}

	if r.ConcertRowID.Valid {
		t.Concert = &ticket.Concert{
			ID:        int(r.ConcertRowID.Int64),
			Artist:    r.ConcertArtist.String,
			Location:  r.ConcertLocation.String,
			StartTime: r.ConcertStartTime.Time,
			Price:     r.ConcertPrice.Float64,
		}
	}
	if r.CustomerRowID.Valid {
		t.Customer = &ticket.Customer{
			ID:    int(r.CustomerRowID.Int64),
			Name:  r.CustomerName.String,
			Email: r.CustomerEmail.String,
			Phone: r.CustomerPhone.String,
		}
	}
	if r.UserRowID.Valid {
		t.User = &ticket.User{
			ID:          r.UserRowID.String,
			DisplayName: r.UserDisplayName.String,
		}
	}

	return t
}

func parseTicketRows(rows pgx.Rows) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	for rows.Next() {
		var r ticketRow
		err := rows.Scan(
			&r.ID, &r.Number, &r.ConcertID, &r.CustomerID, &r.UserID, &r.ImagePath, &r.PurchasedAt,
			&r.ConcertRowID, &r.ConcertArtist, &r.ConcertLocation, &r.ConcertStartTime, &r.ConcertPrice,
			&r.CustomerRowID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
			&r.UserRowID, &r.UserDisplayName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, r.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket rows: %w", err)
	}

	return tickets, nil
}
