package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testMessage struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestSender_Publish(t *testing.T) {
	t.Parallel()

	t.Run("should publish JSON encoded message", func(t *testing.T) {
		// given
		ctrl := gomock.NewController(t)
		mockBus := NewMockBus(ctrl)
		mockRaw := NewMockRawSender(ctrl)
		mockBus.EXPECT().CreateSender("orders").Return(mockRaw, nil)

		var published []byte
		mockRaw.EXPECT().
			Publish(gomock.Any(), gomock.Nil(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, value []byte) error {
				published = value
				return nil
			})

		sender, err := NewSender[testMessage](mockBus, "orders")
		require.NoError(t, err)

		// when
		err = sender.Publish(context.Background(), testMessage{ID: 3, Name: "three"})

		// then
		require.NoError(t, err)
		var got testMessage
		require.NoError(t, json.Unmarshal(published, &got))
		assert.Equal(t, testMessage{ID: 3, Name: "three"}, got)
		assert.Equal(t, "orders", sender.Topic())
	})

	t.Run("should wrap encode failures as serialization errors", func(t *testing.T) {
		// given: a channel cannot be marshalled
		ctrl := gomock.NewController(t)
		mockBus := NewMockBus(ctrl)
		mockRaw := NewMockRawSender(ctrl)
		mockBus.EXPECT().CreateSender("orders").Return(mockRaw, nil)

		sender, err := NewSender[chan int](mockBus, "orders")
		require.NoError(t, err)

		// when
		err = sender.Publish(context.Background(), make(chan int))

		// then: the raw sender is never touched
		assert.ErrorIs(t, err, ErrSerialization)
	})

	t.Run("should fail when the bus cannot create a sender", func(t *testing.T) {
		// given
		mockBus := NewMockBus(gomock.NewController(t))
		mockBus.EXPECT().CreateSender("orders").Return(nil, errors.New("broker down"))

		// when
		_, err := NewSender[testMessage](mockBus, "orders")

		// then
		assert.ErrorContains(t, err, "broker down")
	})
}

func TestSubscribe_Decoding(t *testing.T) {
	t.Parallel()

	subscribe := func(t *testing.T, handler func(ctx context.Context, msg testMessage) error) RawHandler {
		t.Helper()

		ctrl := gomock.NewController(t)
		mockBus := NewMockBus(ctrl)

		var raw RawHandler
		mockBus.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ SubscribeConfig, h RawHandler, _ ErrorHandler) (Processor, error) {
				raw = h
				return NewMockProcessor(ctrl), nil
			})

		_, err := Subscribe(context.Background(), mockBus,
			SubscribeConfig{Topic: "orders", Group: "g"}, handler, nil)
		require.NoError(t, err)
		require.NotNil(t, raw)
		return raw
	}

	t.Run("should invoke handler with the decoded message", func(t *testing.T) {
		// given
		var got testMessage
		raw := subscribe(t, func(_ context.Context, msg testMessage) error {
			got = msg
			return nil
		})

		// when
		err := raw(context.Background(), nil, []byte(`{"id":9,"name":"nine"}`))

		// then
		require.NoError(t, err)
		assert.Equal(t, testMessage{ID: 9, Name: "nine"}, got)
	})

	t.Run("should classify undecodable payloads as poison without invoking handler", func(t *testing.T) {
		// given
		invoked := false
		raw := subscribe(t, func(context.Context, testMessage) error {
			invoked = true
			return nil
		})

		// when
		err := raw(context.Background(), nil, []byte("not json"))

		// then: poison carries a descriptive reason for the dead-letter sink
		assert.ErrorIs(t, err, ErrPoisonMessage)
		assert.ErrorContains(t, err, "could not be decoded")
		assert.False(t, invoked)
	})

	t.Run("should propagate handler errors unchanged", func(t *testing.T) {
		// given
		handlerErr := errors.New("db unavailable")
		raw := subscribe(t, func(context.Context, testMessage) error {
			return handlerErr
		})

		// when
		err := raw(context.Background(), nil, []byte(`{"id":1}`))

		// then
		assert.ErrorIs(t, err, handlerErr)
		assert.NotErrorIs(t, err, ErrPoisonMessage)
	})
}
