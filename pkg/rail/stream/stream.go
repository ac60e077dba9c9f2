package stream

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/ib-77/rail/pkg/rail"
)

// Stream is a completion-ordered view over one wave of operations. Every
// operation contributes exactly one Result to the ready queue; consuming
// them in arrival order yields outcomes by actual settlement time.
type Stream[T any] struct {
	total   int
	pending atomic.Int32
	ready   chan rail.Result[T]
}

// New starts watching ops and returns immediately. One watcher per
// operation pushes the settled outcome into a queue sized for the whole
// wave, so watchers never block and abandoning a drained stream leaks
// nothing. Canceling ctx requests cancellation of every operation that
// has not settled yet; outcomes produced before or after the signal are
// still delivered.
func New[T any](ctx context.Context, ops []rail.Awaitable[T]) *Stream[T] {
	s := &Stream[T]{
		total: len(ops),
		ready: make(chan rail.Result[T], len(ops)),
	}
	s.pending.Store(int32(len(ops)))

	var wg sync.WaitGroup
	wg.Add(len(ops))
	for _, op := range ops {
		go func() {
			defer wg.Done()

			select {
			case <-op.Done():
			case <-ctx.Done():
				if c, ok := op.(rail.Cancelable[T]); ok {
					c.Cancel()
				}
				<-op.Done()
			}

			s.ready <- op.Outcome()
			s.pending.Add(-1)
		}()
	}

	go func() {
		wg.Wait()
		close(s.ready)
	}()

	return s
}

// Of is New over a fixed set of operations.
func Of[T any](ctx context.Context, ops ...rail.Awaitable[T]) *Stream[T] {
	return New(ctx, ops)
}

// Outcomes returns the completion-ordered channel. It carries one Result
// per watched operation and is closed once the whole wave has settled.
// Ranging over it consumes every outcome regardless of cancellation; an
// operation whose work ignores its cancel request delays the close.
func (s *Stream[T]) Outcomes() <-chan rail.Result[T] {
	return s.ready
}

// Next delivers the next settled outcome. The second return is false once
// the wave is fully consumed, or when ctx ends with nothing ready; in the
// latter case the returned Result is a cancel value carrying the reason
// and no operation outcome is lost. Outcomes already queued are preferred
// over the cancellation signal.
func (s *Stream[T]) Next(ctx context.Context) (rail.Result[T], bool) {
	select {
	case res, ok := <-s.ready:
		if !ok {
			return rail.Result[T]{}, false
		}
		return res, true
	default:
	}

	select {
	case res, ok := <-s.ready:
		if !ok {
			return rail.Result[T]{}, false
		}
		return res, true
	case <-ctx.Done():
		return rail.Cancel[T](fmt.Errorf("next: %w", ctx.Err())), false
	}
}

// Seq iterates the remaining outcomes in completion order. The sequence
// ends when the wave is drained or when ctx is canceled with nothing
// ready; outcomes not consumed stay queued for a later Next or Seq.
func (s *Stream[T]) Seq(ctx context.Context) iter.Seq[rail.Result[T]] {
	return func(yield func(rail.Result[T]) bool) {
		for {
			res, ok := s.Next(ctx)
			if !ok {
				return
			}
			if !yield(res) {
				return
			}
		}
	}
}

// Total is the number of operations in the wave.
func (s *Stream[T]) Total() int {
	return s.total
}

// Pending reports how many operations have not delivered an outcome yet.
func (s *Stream[T]) Pending() int {
	return int(s.pending.Load())
}
