package messaging

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by Publish and Consume once a queue is closed
var ErrClosed = errors.New("messaging: queue closed")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue, blocking until one is available
	Consume(ctx context.Context) (Message[T], error)

	// Close releases blocked consumers
	Close() error

	// Size returns the number of messages waiting to be consumed
	Size() int
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error

	// Age returns time elapsed since the message was published
	Age() time.Duration
}
