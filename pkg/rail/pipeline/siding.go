package pipeline

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed reports an enqueue attempted after the flow stopped intake.
var ErrClosed = errors.New("pipeline closed")

// siding is the bounded inbound buffer in front of a stage: a buffered
// channel that stays safe when Send races Close. Senders register in a
// wait group under the mutex, so Close can wake them, wait them out and
// only then close the item channel for the consumers to drain.
type siding[T any] struct {
	mu      sync.Mutex
	senders sync.WaitGroup
	closed  bool
	ch      chan T
	done    chan struct{}
}

func newSiding[T any](capacity int) *siding[T] {
	return &siding[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

// Send queues item, blocking while the buffer is full. It returns
// ErrClosed once the siding is closed and the context error when the
// wait ends early; a nil return means a consumer will receive the item.
func (s *siding[T]) Send(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.senders.Add(1)
	s.mu.Unlock()
	defer s.senders.Done()

	select {
	case s.ch <- item:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Items is the consumer side. It delivers queued items in intake order
// and ends after Close once the buffer is drained.
func (s *siding[T]) Items() <-chan T {
	return s.ch
}

// Close stops intake: blocked Sends are woken, in-flight ones finish,
// then the item channel is closed so consumers drain and stop. Safe to
// call repeatedly and concurrently with Send.
func (s *siding[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	// an item sent while Close was waking the senders is still in the
	// channel before it closes, so nothing queued is ever lost
	s.senders.Wait()
	close(s.ch)
}

func (s *siding[T]) Len() int {
	return len(s.ch)
}

func (s *siding[T]) Cap() int {
	return cap(s.ch)
}
