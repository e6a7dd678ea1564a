package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/relecloud/ticketing/internal/domain/ticket"
	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/messaging"
)

func completeHandler(t *testing.T, queue string) (*RenderCompleteHandler, *messaging.MockBus, *ticket.MockTicketRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockBus := messaging.NewMockBus(ctrl)
	mockRepo := ticket.NewMockTicketRepo(ctrl)
	h := NewRenderCompleteHandler(mockBus, queue, "g", ticket.NewService(mockRepo))

	return h, mockBus, mockRepo
}

// inTransaction forwards the transactional closure to the given tx repo.
func inTransaction(mockRepo *ticket.MockTicketRepo, tx ticket.TxTicketRepo) {
	mockRepo.EXPECT().
		InTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(ticket.TxTicketRepo) error) error {
			return fn(tx)
		})
}

func TestRenderCompleteHandler_Start(t *testing.T) {
	t.Parallel()

	t.Run("should stay inactive without a queue name", func(t *testing.T) {
		// given: no Subscribe expectation at all
		h, _, _ := completeHandler(t, "")

		// when
		err := h.Start(context.Background())

		// then
		assert.NoError(t, err)
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Close())
	})

	t.Run("should subscribe to the configured queue", func(t *testing.T) {
		// given
		h, mockBus, _ := completeHandler(t, "complete")
		mockBus.EXPECT().
			Subscribe(gomock.Any(), messaging.SubscribeConfig{Topic: "complete", Group: "g"}, gomock.Any(), gomock.Any()).
			Return(messaging.NewMockProcessor(gomock.NewController(t)), nil)

		// when / then
		assert.NoError(t, h.Start(context.Background()))
	})

	t.Run("should fail when subscribe fails", func(t *testing.T) {
		h, mockBus, _ := completeHandler(t, "complete")
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("broker down"))

		assert.ErrorContains(t, h.Start(context.Background()), "broker down")
	})
}

func TestRenderCompleteHandler_Handle(t *testing.T) {
	t.Parallel()

	t.Run("should record the image path on the ticket", func(t *testing.T) {
		// given
		h, _, mockRepo := completeHandler(t, "complete")
		tx := ticket.NewMockTxTicketRepo(gomock.NewController(t))
		inTransaction(mockRepo, tx)
		tx.EXPECT().GetTicketByID(gomock.Any(), 42).Return(ticket.Ticket{ID: 42}, nil)
		tx.EXPECT().UpdateTicketImage(gomock.Any(), 42, "ticket-42.png").Return(nil)

		// when
		err := h.handle(context.Background(), messages.NewTicketRenderComplete(42, "ticket-42.png"))

		// then
		assert.NoError(t, err)
	})

	t.Run("should acknowledge completions for deleted tickets", func(t *testing.T) {
		// given: the ticket is gone, which is a warning, not a failure
		h, _, mockRepo := completeHandler(t, "complete")
		tx := ticket.NewMockTxTicketRepo(gomock.NewController(t))
		inTransaction(mockRepo, tx)
		tx.EXPECT().GetTicketByID(gomock.Any(), 42).Return(ticket.Ticket{}, ticket.ErrTicketNotFound)

		// when
		err := h.handle(context.Background(), messages.NewTicketRenderComplete(42, "ticket-42.png"))

		// then: nil so the message is acknowledged
		assert.NoError(t, err)
	})

	t.Run("should abandon the message on persistence errors", func(t *testing.T) {
		// given
		h, _, mockRepo := completeHandler(t, "complete")
		tx := ticket.NewMockTxTicketRepo(gomock.NewController(t))
		inTransaction(mockRepo, tx)
		tx.EXPECT().GetTicketByID(gomock.Any(), 42).Return(ticket.Ticket{ID: 42}, nil)
		tx.EXPECT().UpdateTicketImage(gomock.Any(), 42, "ticket-42.png").Return(errors.New("db down"))

		// when
		err := h.handle(context.Background(), messages.NewTicketRenderComplete(42, "ticket-42.png"))

		// then
		assert.ErrorContains(t, err, "db down")
	})
}

func TestRenderCompleteHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("should release the processor exactly once", func(t *testing.T) {
		// given
		h, mockBus, _ := completeHandler(t, "complete")
		mockProcessor := messaging.NewMockProcessor(gomock.NewController(t))
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(mockProcessor, nil)
		mockProcessor.EXPECT().Stop(gomock.Any()).Return(nil).Times(1)
		mockProcessor.EXPECT().Close().Return(nil).Times(1)

		require.NoError(t, h.Start(context.Background()))

		// when: repeated stop and close must not re-release
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Close())
		assert.NoError(t, h.Close())
	})
}
