package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLifecycle struct {
	startErr error
	starts   atomic.Int32
	stops    atomic.Int32
	closes   atomic.Int32
}

func (f *fakeLifecycle) Start(context.Context) error {
	f.starts.Add(1)
	return f.startErr
}

func (f *fakeLifecycle) Stop(context.Context) error {
	f.stops.Add(1)
	return nil
}

func (f *fakeLifecycle) Close() error {
	f.closes.Add(1)
	return nil
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("should start all handlers and stop them on cancellation", func(t *testing.T) {
		// given
		a, b := &fakeLifecycle{}, &fakeLifecycle{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		err := NewRunner(a, b).Run(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, int32(1), a.starts.Load())
		assert.Equal(t, int32(1), b.starts.Load())
		assert.Equal(t, int32(1), a.stops.Load())
		assert.Equal(t, int32(1), b.closes.Load())
	})

	t.Run("should stop already started handlers when one fails to start", func(t *testing.T) {
		// given
		ok := &fakeLifecycle{}
		failing := &fakeLifecycle{startErr: errors.New("no broker")}
		never := &fakeLifecycle{}

		// when
		err := NewRunner(ok, failing, never).Run(context.Background())

		// then
		assert.ErrorContains(t, err, "no broker")
		assert.Equal(t, int32(1), ok.stops.Load())
		assert.Equal(t, int32(1), ok.closes.Load())
		assert.Equal(t, int32(0), never.starts.Load())
	})
}
