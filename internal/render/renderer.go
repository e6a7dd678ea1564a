// Package render turns ticket render requests into PNG ticket images.
package render

//go:generate mockgen -source renderer.go -destination mock_renderer.go -package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/storage"
	"github.com/relecloud/ticketing/pkg/metrics"
)

// ErrStoreFailed reports that the rendered image could not be persisted.
// The message should be abandoned so broker redelivery retries it.
var ErrStoreFailed = errors.New("failed to store ticket image")

// Default ticket image name format (in case no path is specified).
const ticketNameFormat = "ticket-%d.png"

const (
	imageWidth  = 640
	imageHeight = 200

	barcodeLeft   = 15
	barcodeRight  = 530
	barcodeTop    = 95
	barcodeBottom = 185

	qrSize = 88
)

var (
	slateBlue = color.RGBA{R: 72, G: 61, B: 139, A: 255}
	gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Renderer produces a ticket image for a render request.
type Renderer interface {
	// Render returns the path the image was stored under, or "" when there
	// is nothing to render. A non-nil error means the image could not be
	// persisted and the request should be retried.
	Render(ctx context.Context, req messages.TicketRenderRequest) (string, error)
}

// TicketRenderer renders a fixed-size raster ticket and delegates persistence
// to an image store.
type TicketRenderer struct {
	storage storage.ImageStorage
	barcode BarcodeGenerator
}

// NewTicketRenderer creates a renderer using the given store and barcode source.
func NewTicketRenderer(store storage.ImageStorage, barcode BarcodeGenerator) *TicketRenderer {
	return &TicketRenderer{storage: store, barcode: barcode}
}

// Render validates the request, draws the ticket and stores the PNG.
// A request with missing relations is a data-quality condition upstream, not
// a renderer fault: it is logged and produces no result.
func (r *TicketRenderer) Render(ctx context.Context, req messages.TicketRenderRequest) (string, error) {
	slog.InfoContext(ctx, "Rendering ticket", "message_id", req.MessageID)

	ticket := req.Ticket
	switch {
	case ticket == nil:
		slog.WarnContext(ctx, "Nothing to render for nil ticket", "message_id", req.MessageID)
		metrics.TicketsRendered.WithLabelValues("rejected").Inc()
		return "", nil
	case ticket.Concert == nil:
		slog.WarnContext(ctx, "Cannot find the concert related to this ticket", "ticket_id", ticket.ID)
		metrics.TicketsRendered.WithLabelValues("rejected").Inc()
		return "", nil
	case ticket.User == nil:
		slog.WarnContext(ctx, "Cannot find the user related to this ticket", "ticket_id", ticket.ID)
		metrics.TicketsRendered.WithLabelValues("rejected").Inc()
		return "", nil
	case ticket.Customer == nil:
		slog.WarnContext(ctx, "Cannot find the customer related to this ticket", "ticket_id", ticket.ID)
		metrics.TicketsRendered.WithLabelValues("rejected").Inc()
		return "", nil
	}

	start := time.Now()
	img := r.draw(ticket)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding a valid in-memory RGBA image cannot fail in practice.
		metrics.TicketsRendered.WithLabelValues("error").Inc()
		return "", fmt.Errorf("encode ticket image: %w", err)
	}
	metrics.RenderDuration.Observe(time.Since(start).Seconds())

	// An empty request path means "no path specified".
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf(ticketNameFormat, ticket.ID)
	}

	if !r.storage.Store(ctx, buf.Bytes(), outputPath) {
		slog.ErrorContext(ctx, "Failed to store image for ticket", "ticket_id", ticket.ID)
		metrics.TicketsRendered.WithLabelValues("store_failed").Inc()
		return "", ErrStoreFailed
	}

	metrics.TicketsRendered.WithLabelValues("ok").Inc()
	return outputPath, nil
}

func (r *TicketRenderer) draw(ticket *messages.TicketSnapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	concert := ticket.Concert
	drawText(img, 10, 30, slateBlue, concert.Artist)
	drawText(img, 10, 50, gray, fmt.Sprintf("%s   |   %s",
		concert.Location, concert.StartTime.UTC().Format("2006-01-02 15:04")))
	drawText(img, 10, 70, gray, fmt.Sprintf("%s   |   $%.2f",
		ticket.Customer.Email, concert.Price))

	r.drawBarcode(img)
	r.drawQR(img, ticket)

	return img
}

// drawBarcode prints the fake barcode as alternating black bars and gaps.
func (r *TicketRenderer) drawBarcode(img *image.RGBA) {
	offset := barcodeLeft
	bar := true
	for _, w := range r.barcode.Widths(barcodeRight - barcodeLeft) {
		if offset+w > barcodeRight {
			break
		}
		if bar {
			draw.Draw(img, image.Rect(offset, barcodeTop, offset+w, barcodeBottom),
				image.Black, image.Point{}, draw.Src)
		}
		offset += w
		bar = !bar
	}
}

// drawQR prints a scannable code carrying the ticket identity in the top
// right corner.
func (r *TicketRenderer) drawQR(img *image.RGBA, ticket *messages.TicketSnapshot) {
	content := ticket.Number
	if content == "" {
		content = fmt.Sprintf("ticket:%d", ticket.ID)
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		// Leave the corner blank rather than failing the whole render.
		slog.Warn("Failed to generate ticket QR code", "ticket_id", ticket.ID, "error", err)
		return
	}
	qr.DisableBorder = true

	qrImg := qr.Image(qrSize)
	target := image.Rect(imageWidth-qrSize-10, 5, imageWidth-10, 5+qrSize)
	draw.Draw(img, target, qrImg, qrImg.Bounds().Min, draw.Src)
}

func drawText(img *image.RGBA, x, y int, col color.Color, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
