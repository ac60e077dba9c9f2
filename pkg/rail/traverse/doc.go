// Package traverse runs a function over a slice concurrently and joins the
// outputs back into input order, trading early availability for ordering.
//
// Highlights:
// - Results: one Result per input, positions matching the input slice
// - Map: all-or-nothing form, surfacing the first failed input by position
//
// Every started input is allowed to settle before either form returns,
// even when some fail or the context is canceled mid-flight. Concurrency
// is bounded through rail.WithMaxInFlight; the default starts everything
// at once.
package traverse
