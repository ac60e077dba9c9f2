// Package stream drains a wave of started operations in the order they
// actually settle, never blocking on a slow operation while a faster one
// is ready.
//
// Highlights:
// - New: watch a wave of operations and queue their outcomes as they settle
// - Outcomes: the raw completion-ordered channel, one Result per operation
// - Next/Seq: pull outcomes with a caller-side cancellation escape
// - Pending/Total: observe wave progress
//
// Failures and cancellations are delivered as Result values; the stream
// never stops early because one operation went wrong. A wave outcome may
// spawn a second wave drained through its own stream before the first
// resumes; see the matcher's race strategy for that composition.
package stream
