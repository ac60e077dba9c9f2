package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/ib-77/rail/pkg/rail"
)

// Stage describes one transform position in a pipeline.
type Stage[In, Out any] struct {
	// Name tags the stage in errors and logs; empty defaults to its position.
	Name string
	// Transform turns one inbound item into one outbound item. A returned
	// error or a panic is routed to the error sink; the stage keeps running.
	Transform func(ctx context.Context, in In) (Out, error)
	// Lines is the number of workers pulling from the inbound buffer, i.e.
	// the stage's maximum in-flight count. Non-positive defaults to the
	// context's rail.WithMaxInFlight value, or a single line.
	Lines int
	// Buffer is the inbound capacity; non-positive defaults to Lines.
	Buffer int
}

// Pipeline is a reusable blueprint of typed stages, In entering the first
// and Out leaving the last. Build it with First and Then; every Start
// wires fresh buffers and workers, so one blueprint can drive several
// independent flows.
type Pipeline[In, Out any] struct {
	log   zerolog.Logger
	names []string
	wire  func(ctx context.Context, log zerolog.Logger,
		sink func(ctx context.Context, out Out),
		fail func(ctx context.Context, stageErr StageError)) (*siding[In], func())
}

// First begins a pipeline with its head stage.
func First[In, Out any](st Stage[In, Out]) *Pipeline[In, Out] {
	st.Name = stageName(st.Name, 1)

	return &Pipeline[In, Out]{
		log:   zerolog.Nop(),
		names: []string{st.Name},
		wire: func(ctx context.Context, log zerolog.Logger,
			sink func(ctx context.Context, out Out),
			fail func(ctx context.Context, stageErr StageError)) (*siding[In], func()) {
			return startStage(ctx, log, st, sink, fail)
		},
	}
}

// Then appends a stage consuming the pipeline's current output type. The
// previous stages feed the new stage's inbound buffer; closing cascades in
// the same order, each stage flushing before its successor is closed.
func Then[In, Mid, Out any](p *Pipeline[In, Mid], st Stage[Mid, Out]) *Pipeline[In, Out] {
	st.Name = stageName(st.Name, len(p.names)+1)

	return &Pipeline[In, Out]{
		log:   p.log,
		names: append(slices.Clone(p.names), st.Name),
		wire: func(ctx context.Context, log zerolog.Logger,
			sink func(ctx context.Context, out Out),
			fail func(ctx context.Context, stageErr StageError)) (*siding[In], func()) {

			inbound, flushed := startStage(ctx, log, st, sink, fail)

			head, upstream := p.wire(ctx, log, func(ctx context.Context, mid Mid) {
				if err := inbound.Send(ctx, mid); err != nil {
					fail(ctx, StageError{
						Stage: st.Name,
						Item:  mid,
						Err:   fmt.Errorf("%w: %w", rail.ErrCanceled, err),
					})
				}
			}, fail)

			return head, func() {
				upstream()
				inbound.Close()
				flushed()
			}
		},
	}
}

// WithLogger sets the logger carried by flows started from this pipeline.
// The default discards everything.
func (p *Pipeline[In, Out]) WithLogger(log zerolog.Logger) *Pipeline[In, Out] {
	p.log = log
	return p
}

// startStage launches the stage's worker lines over a fresh inbound siding
// and returns it with a flush wait. Workers stop once the siding is closed
// and drained; after a context cancellation every still-buffered item is
// routed to the error sink as canceled instead of being transformed.
func startStage[In, Out any](ctx context.Context, log zerolog.Logger, st Stage[In, Out],
	sink func(ctx context.Context, out Out),
	fail func(ctx context.Context, stageErr StageError)) (*siding[In], func()) {

	lines := st.Lines
	if lines <= 0 {
		lines = rail.MaxInFlightFrom(ctx, 1).Max
	}
	capacity := st.Buffer
	if capacity <= 0 {
		capacity = lines
	}
	inbound := newSiding[In](capacity)

	workers := pool.New().WithMaxGoroutines(lines)
	for range lines {
		workers.Go(func() {
			for in := range inbound.Items() {
				if err := ctx.Err(); err != nil {
					fail(ctx, StageError{
						Stage: st.Name,
						Item:  in,
						Err:   fmt.Errorf("%w: %w", rail.ErrCanceled, err),
					})
					continue
				}

				out, err := runTransform(ctx, st, in)
				if err != nil {
					fail(ctx, StageError{Stage: st.Name, Item: in, Err: err})
					continue
				}
				sink(ctx, out)
			}
		})
	}
	log.Debug().Str("stage", st.Name).Int("lines", lines).Int("buffer", capacity).
		Msg("stage started")

	return inbound, func() {
		workers.Wait()
		log.Debug().Str("stage", st.Name).Msg("stage flushed")
	}
}

// runTransform shields the worker line from the transform: a panic settles
// the item as failed the same way rail.Go captures one.
func runTransform[In, Out any](ctx context.Context, st Stage[In, Out], in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered: %v", r)
		}
	}()

	return st.Transform(ctx, in)
}

func stageName(name string, position int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("stage_%d", position)
}
