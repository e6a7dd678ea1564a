package membus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relecloud/ticketing/internal/messaging"
)

type payload struct {
	Value string `json:"value"`
}

func TestBus_DeliverAndAck(t *testing.T) {
	t.Parallel()

	// given
	bus := New()
	var delivered atomic.Int32
	_, err := bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error {
			delivered.Add(1)
			return nil
		}, nil)
	require.NoError(t, err)

	sender, err := bus.CreateSender("t")
	require.NoError(t, err)

	// when
	require.NoError(t, sender.Publish(context.Background(), nil, []byte("m1")))
	require.NoError(t, sender.Publish(context.Background(), nil, []byte("m2")))

	// then: each message delivered exactly once
	require.Eventually(t, func() bool { return delivered.Load() == 2 },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), delivered.Load())
	assert.Empty(t, bus.DeadLetters())
}

func TestBus_DeliversMessagesPublishedBeforeSubscribe(t *testing.T) {
	t.Parallel()

	bus := New()
	sender, err := bus.CreateSender("t")
	require.NoError(t, err)
	require.NoError(t, sender.Publish(context.Background(), nil, []byte("early")))

	var delivered atomic.Int32
	_, err = bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error {
			delivered.Add(1)
			return nil
		}, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return delivered.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestBus_AbandonedMessageIsRedelivered(t *testing.T) {
	t.Parallel()

	// given: a handler that always fails
	bus := New()
	var attempts atomic.Int32
	_, err := bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error {
			attempts.Add(1)
			return assert.AnError
		}, nil)
	require.NoError(t, err)

	sender, err := bus.CreateSender("t")
	require.NoError(t, err)

	// when
	require.NoError(t, sender.Publish(context.Background(), nil, []byte("m")))

	// then: redelivered until the delivery cap, then dropped, never dead-lettered
	require.Eventually(t, func() bool { return attempts.Load() == defaultMaxDeliveries },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(defaultMaxDeliveries), attempts.Load())
	assert.Empty(t, bus.DeadLetters())
}

func TestBus_PoisonMessageIsDeadLettered(t *testing.T) {
	t.Parallel()

	// given: a typed subscription so decoding happens before the handler
	bus := New()
	var invoked atomic.Bool
	_, err := messaging.Subscribe(context.Background(), bus,
		messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, payload) error {
			invoked.Store(true)
			return nil
		}, nil)
	require.NoError(t, err)

	sender, err := bus.CreateSender("t")
	require.NoError(t, err)

	// when
	require.NoError(t, sender.Publish(context.Background(), nil, []byte("not json")))

	// then: dead-lettered exactly once with a reason, handler never invoked
	require.Eventually(t, func() bool { return len(bus.DeadLetters()) == 1 },
		time.Second, 5*time.Millisecond)
	dl := bus.DeadLetters()[0]
	assert.Equal(t, "t", dl.Topic)
	assert.Equal(t, []byte("not json"), dl.Value)
	assert.Contains(t, dl.Reason, "could not be decoded")
	assert.False(t, invoked.Load())
}

func TestSender_Close(t *testing.T) {
	t.Parallel()

	bus := New()
	sender, err := bus.CreateSender("t")
	require.NoError(t, err)

	require.NoError(t, sender.Close(context.Background()))
	require.NoError(t, sender.Close(context.Background()))

	err = sender.Publish(context.Background(), nil, []byte("m"))
	assert.ErrorIs(t, err, messaging.ErrTransport)
}

func TestProcessor_StopAndCloseAreIdempotent(t *testing.T) {
	t.Parallel()

	bus := New()
	p, err := bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error { return nil }, nil)
	require.NoError(t, err)

	require.NoError(t, p.Stop(context.Background()))
	require.NoError(t, p.Stop(context.Background()))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	// the topic is free again after close
	_, err = bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error { return nil }, nil)
	assert.NoError(t, err)
}

func TestBus_SingleSubscriberPerTopic(t *testing.T) {
	t.Parallel()

	bus := New()
	_, err := bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error { return nil }, nil)
	require.NoError(t, err)

	_, err = bus.Subscribe(context.Background(), messaging.SubscribeConfig{Topic: "t"},
		func(context.Context, []byte, []byte) error { return nil }, nil)
	assert.Error(t, err)
}
