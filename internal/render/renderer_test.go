package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/storage"
)

func ticketRenderer(t *testing.T) (*TicketRenderer, *storage.MockImageStorage) {
	t.Helper()

	mockStore := storage.NewMockImageStorage(gomock.NewController(t))
	r := NewTicketRenderer(mockStore, NewSeededBarcodeGenerator(42))

	return r, mockStore
}

func validSnapshot() *messages.TicketSnapshot {
	return &messages.TicketSnapshot{
		ID:     7,
		Number: "TKT-0007",
		Concert: &messages.ConcertSnapshot{
			ID:        1,
			Artist:    "Gloria Li",
			Location:  "Seattle Arena",
			StartTime: time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
			Price:     120,
		},
		Customer: &messages.CustomerSnapshot{
			ID:    1,
			Email: "sam.rivera@example.com",
		},
		User: &messages.UserSnapshot{
			ID: "8f4c2e7a-0000-4000-8000-000000000001",
		},
	}
}

func TestTicketRenderer_ValidationGate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*messages.TicketSnapshot) *messages.TicketSnapshot
	}{
		{
			name:   "should reject request without ticket",
			mutate: func(*messages.TicketSnapshot) *messages.TicketSnapshot { return nil },
		},
		{
			name: "should reject ticket without concert",
			mutate: func(s *messages.TicketSnapshot) *messages.TicketSnapshot {
				s.Concert = nil
				return s
			},
		},
		{
			name: "should reject ticket without user",
			mutate: func(s *messages.TicketSnapshot) *messages.TicketSnapshot {
				s.User = nil
				return s
			},
		},
		{
			name: "should reject ticket without customer",
			mutate: func(s *messages.TicketSnapshot) *messages.TicketSnapshot {
				s.Customer = nil
				return s
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given: storage must never be called for a rejected request
			r, _ := ticketRenderer(t)
			req := messages.NewTicketRenderRequest(tc.mutate(validSnapshot()), "")

			// when
			path, err := r.Render(context.Background(), req)

			// then: rejection is not an error, just no result
			assert.NoError(t, err)
			assert.Empty(t, path)
		})
	}
}

func TestTicketRenderer_OutputPathPolicy(t *testing.T) {
	t.Parallel()

	t.Run("should use explicit output path verbatim", func(t *testing.T) {
		// given
		r, mockStore := ticketRenderer(t)
		mockStore.EXPECT().
			Store(gomock.Any(), gomock.Any(), "custom/location.png").
			Return(true)

		// when
		path, err := r.Render(context.Background(),
			messages.NewTicketRenderRequest(validSnapshot(), "custom/location.png"))

		// then
		require.NoError(t, err)
		assert.Equal(t, "custom/location.png", path)
	})

	t.Run("should default to ticket id based name when path is empty", func(t *testing.T) {
		// given
		r, mockStore := ticketRenderer(t)
		mockStore.EXPECT().
			Store(gomock.Any(), gomock.Any(), "ticket-7.png").
			Return(true)

		// when
		path, err := r.Render(context.Background(),
			messages.NewTicketRenderRequest(validSnapshot(), ""))

		// then
		require.NoError(t, err)
		assert.Equal(t, "ticket-7.png", path)
	})
}

func TestTicketRenderer_StoreFailure(t *testing.T) {
	t.Parallel()

	// given
	r, mockStore := ticketRenderer(t)
	mockStore.EXPECT().
		Store(gomock.Any(), gomock.Any(), "ticket-7.png").
		Return(false)

	// when
	path, err := r.Render(context.Background(),
		messages.NewTicketRenderRequest(validSnapshot(), ""))

	// then: no result plus an error so the message is retried
	assert.Empty(t, path)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestTicketRenderer_ProducesPNG(t *testing.T) {
	t.Parallel()

	// given
	r, mockStore := ticketRenderer(t)
	var stored []byte
	mockStore.EXPECT().
		Store(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, image []byte, _ string) bool {
			stored = image
			return true
		})

	// when
	_, err := r.Render(context.Background(),
		messages.NewTicketRenderRequest(validSnapshot(), ""))

	// then
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 640, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
}
