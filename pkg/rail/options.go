package rail

import "context"

type OptionKey string

const InFlightOptionKey OptionKey = "in_flight_options"

// InFlightOptions bounds how many operations a combinator may have
// running at once. Max <= 0 means unbounded.
type InFlightOptions struct {
	Max int
}

func WithMaxInFlight(ctx context.Context, max int) context.Context {
	return context.WithValue(ctx, InFlightOptionKey, InFlightOptions{Max: max})
}

func MaxInFlightFrom(ctx context.Context, defaultMax int) InFlightOptions {
	if opts, ok := ctx.Value(InFlightOptionKey).(InFlightOptions); ok && opts.Max > 0 {
		return opts
	}
	return InFlightOptions{Max: defaultMax}
}
