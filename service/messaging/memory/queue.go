package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/tasksched/service/messaging"
)

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	payload   T
	mu        sync.Mutex
	processed bool
	createdAt time.Time
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Age returns time elapsed since the message was published
func (m *Message[T]) Age() time.Duration {
	return time.Since(m.createdAt)
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Nack marks the message as failed, payloads are never redelivered
func (m *Message[T]) Nack(error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return nil
}

// Queue implements an unbounded in-memory messaging.Queue: Publish never blocks.
type Queue[T any] struct {
	messages []*Message[T]
	ready    chan struct{}
	done     chan struct{}
	closed   bool
	mu       sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{payload: *t, createdAt: time.Now()}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return messaging.ErrClosed
	}
	q.messages = append(q.messages, msg)
	q.mu.Unlock()
	q.notify()
	return nil
}

func (q *Queue[T]) notify() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		q.mu.Lock()
		if len(q.messages) > 0 {
			msg := q.messages[0]
			q.messages[0] = nil
			q.messages = q.messages[1:]
			pending := len(q.messages)
			q.mu.Unlock()
			if pending > 0 {
				q.notify()
			}
			return msg, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, messaging.ErrClosed
		}
		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close rejects new messages and releases blocked consumers once the backlog drains
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.done)
	return nil
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
