package rail

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrCanceled marks work stopped by a cancellation signal before it settled.
var ErrCanceled = errors.New("operation canceled")

// Status of an Operation: Pending until settled, then exactly one of
// Completed, Failed or Canceled, terminal once reached.
type Status uint8

const (
	Pending Status = iota
	Completed
	Failed
	Canceled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Operation is a handle to one deferred unit of work started by Go. It
// settles exactly once; the outcome may be read after Done is closed.
type Operation[T any] struct {
	id      uuid.UUID
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Result[T]
}

var _ Cancelable[struct{}] = (*Operation[struct{}])(nil)

// Go runs work on its own goroutine under a derived cancelable context and
// returns its handle immediately. A returned error settles the operation as
// failed, a cancellation error as canceled, and a panic inside work is
// captured as a failure rather than propagated.
func Go[T any](ctx context.Context, work func(ctx context.Context) (T, error)) *Operation[T] {
	opCtx, cancel := context.WithCancel(ctx)

	op := &Operation[T]{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go op.run(opCtx, work)

	return op
}

func (o *Operation[T]) run(ctx context.Context, work func(ctx context.Context) (T, error)) {
	defer close(o.done)
	defer o.cancel()
	defer func() {
		if r := recover(); r != nil {
			o.outcome = Fail[T](fmt.Errorf("recovered: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		o.outcome = Cancel[T](fmt.Errorf("%w: %w", ErrCanceled, err))
		return
	}

	result, err := work(ctx)
	switch {
	case err == nil:
		o.outcome = Success(result)
	case IsCancellationError(err):
		o.outcome = Cancel[T](err)
	default:
		o.outcome = Fail[T](err)
	}
}

func (o *Operation[T]) Id() uuid.UUID {
	return o.id
}

// Done returns a channel closed once the operation has settled.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Outcome returns the settled result, or an empty Result while still pending.
func (o *Operation[T]) Outcome() Result[T] {
	select {
	case <-o.done:
		return o.outcome
	default:
		return Result[T]{}
	}
}

// Await blocks until the operation settles and returns its outcome. A
// canceled wait returns a cancel Result without settling the operation; the
// real outcome can still be awaited or read later.
func (o *Operation[T]) Await(ctx context.Context) Result[T] {
	select {
	case <-o.done:
		return o.outcome
	case <-ctx.Done():
		return Cancel[T](fmt.Errorf("await: %w", ctx.Err()))
	}
}

// Cancel requests the work to stop by canceling its derived context. Work
// that ignores the context still settles normally; canceling a settled
// operation is a no-op.
func (o *Operation[T]) Cancel() {
	o.cancel()
}

func (o *Operation[T]) Status() Status {
	select {
	case <-o.done:
	default:
		return Pending
	}

	switch {
	case o.outcome.IsSuccess():
		return Completed
	case o.outcome.IsCancel():
		return Canceled
	default:
		return Failed
	}
}
