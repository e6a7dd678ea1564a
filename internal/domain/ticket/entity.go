package ticket

import (
	"time"

	"github.com/relecloud/ticketing/internal/messages"
)

// Ticket is a purchased ticket with its relations loaded.
// Relations may be nil when the referenced row no longer exists; consumers
// treat that as a data-quality condition, not a failure.
type Ticket struct {
	ID          int
	Number      string
	ConcertID   int
	CustomerID  int
	UserID      string
	ImagePath   string
	PurchasedAt time.Time

	Concert  *Concert
	Customer *Customer
	User     *User
}

// Concert is a concert a ticket grants entry to.
type Concert struct {
	ID        int
	Artist    string
	Location  string
	StartTime time.Time
	Price     float64
}

// Customer is the purchasing customer.
type Customer struct {
	ID    int
	Name  string
	Email string
	Phone string
}

// User is the attendee the ticket was issued to.
type User struct {
	ID          string
	DisplayName string
}

// NewTicket carries the fields needed to create a ticket.
type NewTicket struct {
	Number     string
	ConcertID  int
	CustomerID int
	UserID     string
}

// Snapshot builds the denormalized wire representation of the ticket as it
// exists right now. Missing relations stay nil in the snapshot.
func (t Ticket) Snapshot() *messages.TicketSnapshot {
	snap := &messages.TicketSnapshot{
		ID:     t.ID,
		Number: t.Number,
	}
	if t.Concert != nil {
		snap.Concert = &messages.ConcertSnapshot{
			ID:        t.Concert.ID,
			Artist:    t.Concert.Artist,
			Location:  t.Concert.Location,
			StartTime: t.Concert.StartTime,
			Price:     t.Concert.Price,
		}
	}
	if t.Customer != nil {
		snap.Customer = &messages.CustomerSnapshot{
			ID:    t.Customer.ID,
			Name:  t.Customer.Name,
			Email: t.Customer.Email,
			Phone: t.Customer.Phone,
		}
	}
	if t.User != nil {
		snap.User = &messages.UserSnapshot{
			ID:          t.User.ID,
			DisplayName: t.User.DisplayName,
		}
	}
	return snap
}
