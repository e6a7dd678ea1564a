package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/relecloud/ticketing/internal/messages"
	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/internal/render"
)

func renderRequest(ticketID int) messages.TicketRenderRequest {
	return messages.NewTicketRenderRequest(&messages.TicketSnapshot{ID: ticketID}, "")
}

func TestRenderRequestHandler_Start(t *testing.T) {
	t.Parallel()

	t.Run("should stay inactive without a request queue", func(t *testing.T) {
		// given: no Subscribe and no CreateSender expectations at all
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		h := NewRenderRequestHandler(mockBus, "", "g", "complete", render.NewMockRenderer(ctrl))

		// when
		err := h.Start(context.Background())

		// then
		assert.NoError(t, err)
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Close())
	})

	t.Run("should create exactly one completion sender when topic configured", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockBus.EXPECT().CreateSender("complete").Return(messaging.NewMockRawSender(ctrl), nil).Times(1)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), messaging.SubscribeConfig{Topic: "requests", Group: "g"}, gomock.Any(), gomock.Any()).
			Return(messaging.NewMockProcessor(ctrl), nil)

		h := NewRenderRequestHandler(mockBus, "requests", "g", "complete", render.NewMockRenderer(ctrl))

		// when / then
		assert.NoError(t, h.Start(context.Background()))
	})

	t.Run("should create no sender without a completion topic", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(messaging.NewMockProcessor(ctrl), nil)

		h := NewRenderRequestHandler(mockBus, "requests", "g", "", render.NewMockRenderer(ctrl))

		// when / then
		assert.NoError(t, h.Start(context.Background()))
	})

	t.Run("should fail when subscribe fails and release the sender", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockRaw := messaging.NewMockRawSender(ctrl)
		mockBus.EXPECT().CreateSender("complete").Return(mockRaw, nil)
		mockRaw.EXPECT().Close(gomock.Any()).Return(nil)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("broker down"))

		h := NewRenderRequestHandler(mockBus, "requests", "g", "complete", render.NewMockRenderer(ctrl))

		// when
		err := h.Start(context.Background())

		// then: a later retry is allowed
		assert.ErrorContains(t, err, "broker down")
	})

	t.Run("should reject a second start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(messaging.NewMockProcessor(ctrl), nil)

		h := NewRenderRequestHandler(mockBus, "requests", "g", "", render.NewMockRenderer(ctrl))
		require.NoError(t, h.Start(context.Background()))

		assert.Error(t, h.Start(context.Background()))
	})
}

func TestRenderRequestHandler_Handle(t *testing.T) {
	t.Parallel()

	start := func(t *testing.T, completionTopic string, mockRenderer *render.MockRenderer) (*RenderRequestHandler, *messaging.MockRawSender) {
		t.Helper()

		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		var mockRaw *messaging.MockRawSender
		if completionTopic != "" {
			mockRaw = messaging.NewMockRawSender(ctrl)
			mockBus.EXPECT().CreateSender(completionTopic).Return(mockRaw, nil)
		}
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(messaging.NewMockProcessor(ctrl), nil)

		h := NewRenderRequestHandler(mockBus, "requests", "g", completionTopic, mockRenderer)
		require.NoError(t, h.Start(context.Background()))
		return h, mockRaw
	}

	t.Run("should publish completion with the resolved path", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockRenderer := render.NewMockRenderer(ctrl)
		req := renderRequest(42)
		mockRenderer.EXPECT().Render(gomock.Any(), req).Return("ticket-42.png", nil)

		h, mockRaw := start(t, "complete", mockRenderer)

		var published []byte
		mockRaw.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, value []byte) error {
				published = value
				return nil
			})

		// when
		err := h.handle(context.Background(), req)

		// then: fresh message id, the ticket id and the resolved path
		require.NoError(t, err)
		var complete messages.TicketRenderComplete
		require.NoError(t, json.Unmarshal(published, &complete))
		assert.Equal(t, 42, complete.TicketID)
		assert.Equal(t, "ticket-42.png", complete.OutputPath)
		assert.NotEqual(t, req.MessageID, complete.MessageID)
		assert.WithinDuration(t, time.Now().UTC(), complete.CreatedAt, time.Minute)
	})

	t.Run("should not publish when the renderer produced no result", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockRenderer := render.NewMockRenderer(ctrl)
		req := renderRequest(42)
		mockRenderer.EXPECT().Render(gomock.Any(), req).Return("", nil)

		h, _ := start(t, "complete", mockRenderer)

		// when / then: no Publish expectation set, so any publish fails the test
		assert.NoError(t, h.handle(context.Background(), req))
	})

	t.Run("should not publish without a completion sender", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockRenderer := render.NewMockRenderer(ctrl)
		req := renderRequest(42)
		mockRenderer.EXPECT().Render(gomock.Any(), req).Return("ticket-42.png", nil)

		h, _ := start(t, "", mockRenderer)

		// when / then
		assert.NoError(t, h.handle(context.Background(), req))
	})

	t.Run("should propagate renderer errors so the message is abandoned", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockRenderer := render.NewMockRenderer(ctrl)
		req := renderRequest(42)
		mockRenderer.EXPECT().Render(gomock.Any(), req).Return("", render.ErrStoreFailed)

		h, _ := start(t, "complete", mockRenderer)

		// when / then
		assert.ErrorIs(t, h.handle(context.Background(), req), render.ErrStoreFailed)
	})
}

func TestRenderRequestHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("should stop processor and close sender exactly once", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockRaw := messaging.NewMockRawSender(ctrl)
		mockProcessor := messaging.NewMockProcessor(ctrl)
		mockBus.EXPECT().CreateSender("complete").Return(mockRaw, nil)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(mockProcessor, nil)

		mockProcessor.EXPECT().Stop(gomock.Any()).Return(nil).Times(1)
		mockProcessor.EXPECT().Close().Return(nil).Times(1)
		mockRaw.EXPECT().Close(gomock.Any()).Return(nil).Times(1)

		h := NewRenderRequestHandler(mockBus, "requests", "g", "complete", render.NewMockRenderer(ctrl))
		require.NoError(t, h.Start(context.Background()))

		// when: stop and close twice each
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Close())
		assert.NoError(t, h.Close())
	})

	t.Run("should close the sender when disposed without a stop", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := messaging.NewMockBus(ctrl)
		mockRaw := messaging.NewMockRawSender(ctrl)
		mockProcessor := messaging.NewMockProcessor(ctrl)
		mockBus.EXPECT().CreateSender("complete").Return(mockRaw, nil)
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(mockProcessor, nil)

		mockProcessor.EXPECT().Close().Return(nil).Times(1)
		mockRaw.EXPECT().Close(gomock.Any()).Return(nil).Times(1)

		h := NewRenderRequestHandler(mockBus, "requests", "g", "complete", render.NewMockRenderer(ctrl))
		require.NoError(t, h.Start(context.Background()))

		// when: dispose directly, skipping the graceful stop
		assert.NoError(t, h.Close())
	})

	t.Run("should be safe to stop and close when never started", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewRenderRequestHandler(messaging.NewMockBus(ctrl), "requests", "g", "", render.NewMockRenderer(ctrl))

		assert.NoError(t, h.Stop(context.Background()))
		assert.NoError(t, h.Close())
	})
}
