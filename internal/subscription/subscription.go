// Package subscription streams values from a background producer to a consumer channel.
package subscription

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common/errs"
)

// BufferSize is how many values and errors a producer can queue ahead of a slow consumer.
var BufferSize = 8

var errClosed = errors.Wrap(errs.InternalError, "subscription is closed")

// Subscription is the producer side. Values sent to it are forwarded, in order,
// to the consumer channel until the producer closes it or the consumer unsubscribes.
type Subscription[T any] struct {
	out  chan<- T
	in   chan T
	errs chan error

	stop      chan struct{} // closed by the consumer
	done      chan struct{} // closed by the forwarder once it stops sending to out
	stopOnce  sync.Once
	closeOnce sync.Once
}

func New[T any](out chan<- T) *Subscription[T] {
	s := &Subscription[T]{
		out:  out,
		in:   make(chan T, BufferSize),
		errs: make(chan error, BufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.forward()
	return s
}

// Send queues value for the consumer.
func (s *Subscription[T]) Send(ctx context.Context, value T) error {
	if s.finished() {
		return errClosed
	}
	select {
	case s.in <- value:
		return nil
	case <-s.done:
		return errClosed
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// SendError reports a producer failure. The consumer receives it on [Client.Err].
func (s *Subscription[T]) SendError(ctx context.Context, err error) error {
	if s.finished() {
		return errClosed
	}
	select {
	case s.errs <- err:
		return nil
	case <-s.done:
		return errClosed
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// Close marks the end of the stream. Queued values are still delivered before
// the subscription is done. Send must not be called after Close.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() { close(s.in) })
}

// Client returns the consumer side of the subscription.
func (s *Subscription[T]) Client() *Client[T] {
	return &Client[T]{s: s}
}

func (s *Subscription[T]) finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Subscription[T]) forward() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case value, ok := <-s.in:
			if !ok {
				return
			}
			select {
			case s.out <- value:
			case <-s.stop:
				return
			}
		}
	}
}

// Client is the consumer side of a [Subscription].
type Client[T any] struct {
	s *Subscription[T]
}

// Err delivers errors sent by the producer.
func (c *Client[T]) Err() <-chan error { return c.s.errs }

// Done is closed once no more values will be sent to the consumer channel.
func (c *Client[T]) Done() <-chan struct{} { return c.s.done }

// Closed reports whether Done is closed.
func (c *Client[T]) Closed() bool { return c.s.finished() }

// Unsubscribe stops forwarding and waits for the forwarder to exit.
func (c *Client[T]) Unsubscribe() {
	_ = c.UnsubscribeContext(context.Background())
}

// UnsubscribeContext is like Unsubscribe but gives up waiting when ctx is done.
func (c *Client[T]) UnsubscribeContext(ctx context.Context) error {
	c.s.stopOnce.Do(func() { close(c.s.stop) })
	select {
	case <-c.s.done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
