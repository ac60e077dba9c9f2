package traverse

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/ib-77/rail/pkg/rail"
)

// Results applies fn to every input concurrently and returns the settled
// outcomes with results[i] belonging to inputs[i], whatever the completion
// order was. It returns only after every started input has settled; a
// canceled context stops admitting new inputs, which settle as canceled
// without fn ever running, while in-flight ones are requested to stop and
// still awaited. A panic inside fn settles that input as failed.
func Results[In, Out any](ctx context.Context, inputs []In, fn func(ctx context.Context, in In) (Out, error)) []rail.Result[Out] {
	results := make([]rail.Result[Out], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	opts := rail.MaxInFlightFrom(ctx, len(inputs))
	p := pool.New().WithMaxGoroutines(opts.Max)

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			results[i] = rail.Cancel[Out](fmt.Errorf("%w: %w", rail.ErrCanceled, err))
			continue
		}

		p.Go(func() {
			op := rail.Go(ctx, func(ctx context.Context) (Out, error) {
				return fn(ctx, in)
			})
			results[i] = op.Await(context.Background())
		})
	}

	p.Wait()
	return results
}

// Map is the all-or-nothing form of Results: on full success it returns
// the outputs in input order, otherwise it reports the first input by
// original position that did not succeed. Later failures are discarded,
// but their work still ran to settlement before Map returned.
func Map[In, Out any](ctx context.Context, inputs []In, fn func(ctx context.Context, in In) (Out, error)) ([]Out, error) {
	results := Results(ctx, inputs, fn)

	out := make([]Out, len(results))
	for i, res := range results {
		if !res.IsSuccess() {
			return nil, fmt.Errorf("input %d: %w", i, res.Err())
		}
		out[i] = res.Result()
	}
	return out, nil
}
