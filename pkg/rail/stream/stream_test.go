package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/ib-77/rail/pkg/rail"
)

// waitDelivered blocks until every watcher has queued its outcome.
func waitDelivered[T any](t *testing.T, s *Stream[T]) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for s.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d outcomes never delivered", s.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStream_YieldsInCompletionOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gates := []chan struct{}{make(chan struct{}), make(chan struct{}), make(chan struct{})}
	ops := make([]rail.Awaitable[int], len(gates))
	for i := range gates {
		ops[i] = rail.Go(ctx, func(ctx context.Context) (int, error) {
			<-gates[i]
			return i, nil
		})
	}

	s := New(ctx, ops)

	// release out of submission order; outcomes must follow release order
	for _, want := range []int{1, 2, 0} {
		close(gates[want])

		res, ok := s.Next(ctx)
		if !ok {
			t.Fatalf("expected outcome %d, stream ended early", want)
		}
		if !res.IsSuccess() || res.Result() != want {
			t.Fatalf("expected %d to settle next, got %v (err: %v)", want, res.Result(), res.Err())
		}
	}

	if _, ok := s.Next(ctx); ok {
		t.Fatal("expected drained stream after the whole wave")
	}
}

func TestStream_DeliversEveryOutcomeExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	const n = 16
	ops := make([]rail.Awaitable[int], n)
	for i := range ops {
		ops[i] = rail.Go(ctx, func(ctx context.Context) (int, error) {
			if i%4 == 0 {
				return 0, fmt.Errorf("op %d: %w", i, boom)
			}
			return i, nil
		})
	}

	s := New(ctx, ops)

	succeeded := make(map[int]bool)
	failed := 0
	for res := range s.Outcomes() {
		switch {
		case res.IsSuccess():
			if succeeded[res.Result()] {
				t.Fatalf("value %d delivered twice", res.Result())
			}
			succeeded[res.Result()] = true
		case res.IsFailure():
			if !errors.Is(res.Err(), boom) {
				t.Fatalf("unexpected failure cause: %v", res.Err())
			}
			failed++
		default:
			t.Fatalf("unexpected cancel outcome: %v", res.Err())
		}
	}

	assert.Equal(t, n-4, len(succeeded))
	assert.Equal(t, 4, failed)
	assert.Equal(t, n, s.Total())
	assert.Equal(t, 0, s.Pending())
}

func TestStream_CancelRequestsPendingOperations(t *testing.T) {
	t.Parallel()

	// these settle only when their own context is canceled, which the
	// stream watchers must request
	ops := make([]rail.Awaitable[int], 3)
	for i := range ops {
		ops[i] = rail.Go(context.Background(), func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	s := New(streamCtx, ops)
	cancel()

	delivered, canceled := 0, 0
	for res := range s.Outcomes() {
		delivered++
		if res.IsCancel() {
			canceled++
		}
	}

	if delivered != len(ops) {
		t.Fatalf("expected all %d outcomes after cancel, got %d", len(ops), delivered)
	}
	if canceled != len(ops) {
		t.Fatalf("expected %d canceled outcomes, got %d", len(ops), canceled)
	}
}

func TestNext_PrefersQueuedOutcomeOverCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	op := rail.Go(ctx, func(ctx context.Context) (string, error) {
		return "done", nil
	})
	s := Of[string](ctx, op)

	waitDelivered(t, s)

	canceledCtx, cancelNow := context.WithCancel(context.Background())
	cancelNow()

	res, ok := s.Next(canceledCtx)
	if !ok {
		t.Fatalf("queued outcome must win over cancellation, got: %v", res.Err())
	}
	if !res.IsSuccess() || res.Result() != "done" {
		t.Fatalf("expected queued success, got %v (err: %v)", res.Result(), res.Err())
	}
}

func TestNext_CanceledWaitEndsEarly(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	op := rail.Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 5, nil
	})
	s := Of[int](context.Background(), op)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()

	res, ok := s.Next(waitCtx)
	if ok {
		t.Fatal("expected the wait to end without consuming an outcome")
	}
	if !res.IsCancel() || !errors.Is(res.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected a cancel value carrying the reason, got: %v", res.Err())
	}

	// the outcome is still there for a later pull
	close(release)
	final, ok := s.Next(context.Background())
	if !ok || !final.IsSuccess() || final.Result() != 5 {
		t.Fatalf("expected the real outcome after release, got ok=%v %v (err: %v)", ok, final.Result(), final.Err())
	}
}

func TestSeq_DrainsWave(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 10
	ops := make([]rail.Awaitable[int], n)
	for i := range ops {
		ops[i] = rail.Go(ctx, func(ctx context.Context) (int, error) {
			return i * i, nil
		})
	}

	s := New(ctx, ops)

	seen := 0
	for res := range s.Seq(ctx) {
		if !res.IsSuccess() {
			t.Fatalf("unexpected outcome: %v", res.Err())
		}
		seen++
	}

	assert.Equal(t, n, seen)
}

func TestSeq_BreakKeepsRemainder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ops := make([]rail.Awaitable[int], 4)
	for i := range ops {
		ops[i] = rail.Go(ctx, func(ctx context.Context) (int, error) {
			return i, nil
		})
	}

	s := New(ctx, ops)

	consumed := 0
	for range s.Seq(ctx) {
		consumed++
		if consumed == 1 {
			break
		}
	}

	for res := range s.Seq(ctx) {
		if !res.IsSuccess() {
			t.Fatalf("unexpected outcome: %v", res.Err())
		}
		consumed++
	}

	assert.Equal(t, len(ops), consumed)
}

func TestStream_EmptyWave(t *testing.T) {
	t.Parallel()

	s := New[int](context.Background(), nil)

	if s.Total() != 0 {
		t.Fatalf("expected empty wave, total %d", s.Total())
	}
	if _, ok := s.Next(context.Background()); ok {
		t.Fatal("expected an immediately drained stream")
	}
}

func TestStream_NoGoroutineLeakAfterDrain(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx := context.Background()
	ops := make([]rail.Awaitable[int], 8)
	for i := range ops {
		ops[i] = rail.Go(ctx, func(ctx context.Context) (int, error) {
			return i, nil
		})
	}

	s := New(ctx, ops)
	for range s.Outcomes() {
	}
}
