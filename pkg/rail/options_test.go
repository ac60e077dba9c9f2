package rail

import (
	"context"
	"testing"
)

func TestMaxInFlightFrom_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithMaxInFlight(context.Background(), 4)

	opts := MaxInFlightFrom(ctx, 16)
	if opts.Max != 4 {
		t.Fatalf("expected 4, got %d", opts.Max)
	}
}

func TestMaxInFlightFrom_Default(t *testing.T) {
	t.Parallel()

	opts := MaxInFlightFrom(context.Background(), 16)
	if opts.Max != 16 {
		t.Fatalf("expected default 16, got %d", opts.Max)
	}
}

func TestMaxInFlightFrom_NonPositiveFallsBack(t *testing.T) {
	t.Parallel()

	ctx := WithMaxInFlight(context.Background(), 0)

	opts := MaxInFlightFrom(ctx, 8)
	if opts.Max != 8 {
		t.Fatalf("expected default 8 for non-positive option, got %d", opts.Max)
	}
}
