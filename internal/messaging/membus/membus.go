// Package membus provides an in-memory messaging.Bus for tests and
// single-process deployments. Delivery is serial per processor, messages are
// acknowledged only when the handler succeeds, and poison messages land in an
// inspectable dead-letter list.
package membus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/relecloud/ticketing/internal/messaging"
)

const defaultMaxDeliveries = 5

// DeadLetter is a message routed to the dead-letter sink.
type DeadLetter struct {
	Topic  string
	Key    []byte
	Value  []byte
	Reason string
}

type delivery struct {
	key      []byte
	value    []byte
	attempts int
}

// Bus is an in-memory message bus. The zero value is not usable; call New.
type Bus struct {
	mu            sync.Mutex
	pending       map[string][]delivery
	subscribers   map[string]*processor
	deadLetters   []DeadLetter
	maxDeliveries int
	closed        bool
}

// New creates an empty in-memory bus.
func New() *Bus {
	return &Bus{
		pending:       make(map[string][]delivery),
		subscribers:   make(map[string]*processor),
		maxDeliveries: defaultMaxDeliveries,
	}
}

// DeadLetters returns a copy of all dead-lettered messages.
func (b *Bus) DeadLetters() []DeadLetter {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]DeadLetter, len(b.deadLetters))
	copy(out, b.deadLetters)
	return out
}

// CreateSender returns a sender bound to topic.
func (b *Bus) CreateSender(topic string) (messaging.RawSender, error) {
	if topic == "" {
		return nil, errors.New("membus: empty topic")
	}
	return &sender{bus: b, topic: topic}, nil
}

// Subscribe registers the single consumer for topic and starts a serial
// delivery loop. Messages published before the subscription are delivered
// once it starts.
func (b *Bus) Subscribe(ctx context.Context, cfg messaging.SubscribeConfig, handler messaging.RawHandler, errHandler messaging.ErrorHandler) (messaging.Processor, error) {
	if cfg.Topic == "" {
		return nil, errors.New("membus: empty topic")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[cfg.Topic]; ok {
		return nil, fmt.Errorf("membus: topic %q already has a subscriber", cfg.Topic)
	}

	p := &processor{
		bus:     b,
		topic:   cfg.Topic,
		handler: handler,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	b.subscribers[cfg.Topic] = p

	go p.run()
	p.signal()

	return p, nil
}

func (b *Bus) publish(topic string, key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("%w: bus closed", messaging.ErrTransport)
	}

	b.pending[topic] = append(b.pending[topic], delivery{key: key, value: value})
	if p, ok := b.subscribers[topic]; ok {
		p.signal()
	}
	return nil
}

// next pops the head of the topic queue; ok is false when empty.
func (b *Bus) next(topic string) (delivery, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	queue := b.pending[topic]
	if len(queue) == 0 {
		return delivery{}, false
	}
	d := queue[0]
	b.pending[topic] = queue[1:]
	return d, true
}

// requeue puts an abandoned message back at the head of the queue.
func (b *Bus) requeue(topic string, d delivery) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[topic] = append([]delivery{d}, b.pending[topic]...)
	if p, ok := b.subscribers[topic]; ok {
		p.signal()
	}
}

func (b *Bus) deadLetter(topic string, d delivery, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deadLetters = append(b.deadLetters, DeadLetter{
		Topic:  topic,
		Key:    d.key,
		Value:  d.value,
		Reason: reason,
	})
}

func (b *Bus) unsubscribe(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, topic)
}

type sender struct {
	bus    *Bus
	topic  string
	mu     sync.Mutex
	closed bool
}

func (s *sender) Publish(_ context.Context, key, value []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("%w: sender for %q closed", messaging.ErrTransport, s.topic)
	}
	return s.bus.publish(s.topic, key, value)
}

func (s *sender) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type processor struct {
	bus     *Bus
	topic   string
	handler messaging.RawHandler

	wake     chan struct{}
	stopped  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	closed   sync.Once
}

func (p *processor) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// run delivers one message at a time until stopped.
func (p *processor) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stopped:
			return
		case <-p.wake:
		}

		for {
			select {
			case <-p.stopped:
				return
			default:
			}

			d, ok := p.bus.next(p.topic)
			if !ok {
				break
			}
			p.dispatch(d)
		}
	}
}

func (p *processor) dispatch(d delivery) {
	d.attempts++
	err := p.handler(context.Background(), d.key, d.value)
	switch {
	case err == nil:
		// acknowledged
	case errors.Is(err, messaging.ErrPoisonMessage):
		p.bus.deadLetter(p.topic, d, err.Error())
	case d.attempts >= p.bus.maxDeliveries:
		slog.Warn("Dropping message after max deliveries",
			"topic", p.topic, "attempts", d.attempts, "error", err)
	default:
		p.bus.requeue(p.topic, d)
	}
}

func (p *processor) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopped)
	})
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *processor) Close() error {
	p.closed.Do(func() {
		p.stopOnce.Do(func() {
			close(p.stopped)
		})
		p.bus.unsubscribe(p.topic)
	})
	return nil
}
