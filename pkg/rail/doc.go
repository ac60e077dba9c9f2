// Package rail contains the substrate for asynchronous composition: the
// settled Result[T] variant, the Operation[T] handle started by Go, and the
// context-carried options shared by the combinator packages.
//
// Highlights:
// - Success/Fail/Cancel: construct Result[T]
// - Go/GoRetry: start one unit of work and obtain its handle
// - Await/Done/Outcome/Status: observe settlement
// - WithMaxInFlight: bound combinator concurrency through the context
//
// The combinators themselves live in the subpackages stream, traverse and
// pipeline; package wordmatch demonstrates all of them on one workload.
package rail
