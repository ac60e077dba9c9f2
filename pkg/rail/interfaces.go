package rail

// Awaitable is the read side of an operation handle.
type Awaitable[T any] interface {
	// Done returns a channel closed once the operation has settled
	Done() <-chan struct{}
	// Outcome returns the settled result; empty before Done closes
	Outcome() Result[T]
}

// Cancelable extends Awaitable with cancellation requests.
type Cancelable[T any] interface {
	Awaitable[T]
	// Cancel requests the underlying work to stop; settled operations ignore it
	Cancel()
}
