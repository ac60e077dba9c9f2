package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// StageError carries one item's failure out of a stage without stopping
// it: a transform error, a captured panic or a cancellation that stranded
// the item before its transform ran.
type StageError struct {
	// Stage is the name of the stage the item failed in.
	Stage string
	// Item is the inbound item as the stage received it.
	Item any
	// Err is the cause; rail.IsCancellationError tells stranded items apart
	// from transform failures.
	Err error
}

func (e StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e StageError) Unwrap() error {
	return e.Err
}

// Handlers receive what leaves a flow. Both are called concurrently from
// stage worker lines and must be safe for that.
type Handlers[Out any] struct {
	// OnOut is the terminal sink, called once per item that made it
	// through every stage.
	OnOut func(ctx context.Context, out Out)
	// OnItemError is the error sink, called once per item dropped by a
	// stage. Nil routes drops to the flow's logger at warn level.
	OnItemError func(ctx context.Context, stageErr StageError)
}

// Flow is one started pipeline instance accepting streamed input until
// Close. Enqueue at any time, from any goroutine; items travel the stages
// concurrently and unordered.
type Flow[In, Out any] struct {
	log     zerolog.Logger
	head    *siding[In]
	closing chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Start wires fresh buffers and worker lines for every stage and begins
// accepting input. Canceling ctx stops intake, lets in-flight transforms
// finish and routes items stranded in buffers to the error sink as
// canceled; the flow then closes itself. Every flow must be closed,
// explicitly or through ctx, for its workers to stop.
func (p *Pipeline[In, Out]) Start(ctx context.Context, handlers Handlers[Out]) *Flow[In, Out] {
	log := p.log

	sink := handlers.OnOut
	if sink == nil {
		sink = func(context.Context, Out) {}
	}
	fail := handlers.OnItemError
	if fail == nil {
		fail = func(ctx context.Context, stageErr StageError) {
			log.Warn().Str("stage", stageErr.Stage).Err(stageErr.Err).Msg("item dropped")
		}
	}

	head, flush := p.wire(ctx, log, sink, fail)

	f := &Flow[In, Out]{
		log:     log,
		head:    head,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	go func() {
		select {
		case <-ctx.Done():
			f.Close()
		case <-f.closing:
		}
	}()

	go func() {
		<-f.closing
		flush()
		close(f.done)
		log.Debug().Msg("pipeline closed")
	}()

	log.Debug().Strs("stages", p.names).Msg("pipeline started")
	return f
}

// Enqueue submits one item to the first stage. It blocks while the
// stage's inbound buffer is full and resumes when capacity frees; that
// is the flow's backpressure. It returns ErrClosed once intake stopped
// and the context error when the wait ends early.
func (f *Flow[In, Out]) Enqueue(ctx context.Context, item In) error {
	if err := f.head.Send(ctx, item); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// EnqueueAll submits the items in order, stopping at the first rejected
// one.
func (f *Flow[In, Out]) EnqueueAll(ctx context.Context, items []In) error {
	for _, item := range items {
		if err := f.Enqueue(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Close stops intake and lets the close cascade through the stages: each
// stage drains its inbound buffer and finishes its in-flight items before
// its successor is closed. Done reports the cascade finished.
func (f *Flow[In, Out]) Close() {
	f.once.Do(func() {
		f.head.Close()
		close(f.closing)
	})
}

// Done returns a channel closed once every stage has flushed.
func (f *Flow[In, Out]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flow is fully closed or ctx ends first.
func (f *Flow[In, Out]) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait: %w", ctx.Err())
	}
}
