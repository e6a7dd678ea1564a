package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/relecloud/ticketing/internal/messaging"
	"github.com/relecloud/ticketing/pkg/metrics"
)

const (
	commitTimeout     = 5 * time.Second
	deadLetterTimeout = 5 * time.Second
)

type deadLetterer interface {
	Publish(ctx context.Context, key, value []byte, reason string) error
}

// Processor runs the fetch loop for one subscription. One message is in
// flight at a time; throughput scales by running more replicas, not by
// raising per-instance concurrency.
type Processor struct {
	reader     *kafka.Reader
	dlq        deadLetterer
	handler    messaging.RawHandler
	errHandler messaging.ErrorHandler
	retry      messaging.RetryConfig

	cancel    context.CancelFunc
	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	closeErr  error
}

func newProcessor(reader *kafka.Reader, dlq deadLetterer, handler messaging.RawHandler, errHandler messaging.ErrorHandler, retry messaging.RetryConfig) *Processor {
	return &Processor{
		reader:     reader,
		dlq:        dlq,
		handler:    handler,
		errHandler: errHandler,
		retry:      retry,
		done:       make(chan struct{}),
	}
}

func (p *Processor) start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *Processor) run(ctx context.Context) {
	defer close(p.done)

	cfg := p.reader.Config()
	slog.Info("Processor started", "topic", cfg.Topic, "group_id", cfg.GroupID)

	for {
		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				slog.Info("Processor stopped", "topic", cfg.Topic, "group_id", cfg.GroupID)
				return
			}

			// Transport failures do not stop the processor; report and keep
			// attempting delivery after a backoff.
			slog.Error("Failed to fetch message",
				"topic", cfg.Topic, "group_id", cfg.GroupID, slog.Any("error", err))
			if p.errHandler != nil {
				p.errHandler(ctx, err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.retry.BaseDelay):
			}
			continue
		}

		msgCtx := extractCorrelationID(ctx, msg.Headers)
		if p.settle(msgCtx, msg) {
			p.commit(msgCtx, msg)
		}
	}
}

// settle runs the handler for one delivered message and reports whether the
// message should be acknowledged. Poison messages are dead-lettered and
// acknowledged; handler failures abandon the message so broker redelivery
// takes over.
func (p *Processor) settle(ctx context.Context, msg kafka.Message) bool {
	cfg := p.reader.Config()
	start := time.Now()

	err := p.handler(ctx, msg.Key, msg.Value)

	status := "ok"
	commit := true
	switch {
	case err == nil:
	case errors.Is(err, messaging.ErrPoisonMessage):
		status = "poison"
		// Publish under a fresh context so shutdown doesn't lose the message.
		dlqCtx, cancel := context.WithTimeout(context.Background(), deadLetterTimeout)
		if dlqErr := p.dlq.Publish(dlqCtx, msg.Key, msg.Value, err.Error()); dlqErr != nil {
			// Keep the message on the source topic if dead-lettering failed.
			commit = false
		}
		cancel()
	default:
		status = "error"
		commit = false
		slog.ErrorContext(ctx, "Handler error, message not committed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			slog.Any("error", err))
	}

	metrics.MessageProcessingDuration.
		WithLabelValues(cfg.Topic, cfg.GroupID, status).
		Observe(time.Since(start).Seconds())
	metrics.MessagesProcessed.
		WithLabelValues(cfg.Topic, cfg.GroupID, status).
		Inc()

	return commit
}

func (p *Processor) commit(ctx context.Context, msg kafka.Message) {
	// Separate context so successfully processed messages are committed even
	// when the run context is cancelled mid-shutdown.
	commitCtx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	if err := p.reader.CommitMessages(commitCtx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to commit message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			slog.Any("error", err))
	}
}

// Stop halts the fetch loop and waits for the in-flight message to finish.
// Idempotent.
func (p *Processor) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases the reader and dead-letter writer. Idempotent, safe without
// a prior Stop.
func (p *Processor) Close() error {
	p.closeOnce.Do(func() {
		p.stopOnce.Do(func() {
			if p.cancel != nil {
				p.cancel()
			}
		})

		p.closeErr = p.reader.Close()
		if closer, ok := p.dlq.(interface{ Close() error }); ok {
			p.closeErr = errors.Join(p.closeErr, closer.Close())
		}
	})
	return p.closeErr
}
