// Package messages defines the wire types exchanged over the message bus.
// Messages are immutable once constructed; producers stamp a fresh message ID
// and creation time at publish time.
package messages

import (
	"time"

	"github.com/google/uuid"
)

// TicketRenderRequest asks the renderer worker to produce a ticket image.
// OutputPath is optional; when empty the renderer picks a deterministic name.
type TicketRenderRequest struct {
	MessageID  uuid.UUID       `json:"messageId"`
	Ticket     *TicketSnapshot `json:"ticket"`
	OutputPath string          `json:"outputPath,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// TicketRenderComplete reports that a ticket image was rendered and stored.
type TicketRenderComplete struct {
	MessageID  uuid.UUID `json:"messageId"`
	TicketID   int       `json:"ticketId"`
	OutputPath string    `json:"outputPath"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TicketSnapshot is a denormalized copy of a ticket taken at publish time.
// It is not a live reference; nested relations may be nil when the source
// data is incomplete, which the renderer treats as a data-quality condition.
type TicketSnapshot struct {
	ID       int               `json:"id"`
	Number   string            `json:"number,omitempty"`
	Concert  *ConcertSnapshot  `json:"concert,omitempty"`
	Customer *CustomerSnapshot `json:"customer,omitempty"`
	User     *UserSnapshot     `json:"user,omitempty"`
}

// ConcertSnapshot carries the concert fields printed on the ticket.
type ConcertSnapshot struct {
	ID        int       `json:"id"`
	Artist    string    `json:"artist"`
	Location  string    `json:"location"`
	StartTime time.Time `json:"startTime"`
	Price     float64   `json:"price"`
}

// CustomerSnapshot carries the purchasing customer's contact fields.
type CustomerSnapshot struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// UserSnapshot identifies the attendee the ticket was issued to.
type UserSnapshot struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// NewTicketRenderRequest stamps a render request with a new message ID.
func NewTicketRenderRequest(ticket *TicketSnapshot, outputPath string) TicketRenderRequest {
	return TicketRenderRequest{
		MessageID:  uuid.New(),
		Ticket:     ticket,
		OutputPath: outputPath,
		CreatedAt:  time.Now().UTC(),
	}
}

// NewTicketRenderComplete stamps a completion message with a new message ID.
func NewTicketRenderComplete(ticketID int, outputPath string) TicketRenderComplete {
	return TicketRenderComplete{
		MessageID:  uuid.New(),
		TicketID:   ticketID,
		OutputPath: outputPath,
		CreatedAt:  time.Now().UTC(),
	}
}
