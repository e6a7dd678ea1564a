package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/relecloud/ticketing/internal/api/rendering"
	"github.com/relecloud/ticketing/internal/domain/ticket"
)

type TicketHandler struct {
	service   *ticket.Service
	rendering *rendering.Factory
}

func NewTicketHandler(s *ticket.Service, rendering *rendering.Factory) *TicketHandler {
	return &TicketHandler{service: s, rendering: rendering}
}

type createTicketRequest struct {
	Number     string `json:"number" binding:"required"`
	ConcertID  int    `json:"concertId" binding:"required"`
	CustomerID int    `json:"customerId" binding:"required"`
	UserID     string `json:"userId" binding:"required"`
}

type ticketResponse struct {
	ID          int    `json:"id"`
	Number      string `json:"number"`
	ConcertID   int    `json:"concertId"`
	CustomerID  int    `json:"customerId"`
	UserID      string `json:"userId"`
	ImagePath   string `json:"imagePath,omitempty"`
	PurchasedAt string `json:"purchasedAt"`
}

func toResponse(t ticket.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		Number:      t.Number,
		ConcertID:   t.ConcertID,
		CustomerID:  t.CustomerID,
		UserID:      t.UserID,
		ImagePath:   t.ImagePath,
		PurchasedAt: t.PurchasedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.service.ListTickets(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	t, err := h.service.GetTicketByID(c, id)
	if err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toResponse(t))
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	t, err := h.service.CreateTicket(c, ticket.NewTicket{
		Number:     req.Number,
		ConcertID:  req.ConcertID,
		CustomerID: req.CustomerID,
		UserID:     req.UserID,
	})
	if err != nil {
		if errors.Is(err, ticket.ErrTicketAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Ticket already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toResponse(t))
}

// Render triggers ticket image creation, inline or via the renderer worker
// depending on the distributed-rendering flag.
func (h *TicketHandler) Render(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	if err := h.rendering.Service(c).CreateTicketImage(c, id); err != nil {
		if errors.Is(err, ticket.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Ticket not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Rendering started"})
}

func ticketID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ticket_id"})
		return 0, false
	}
	return id, true
}
