package rail

import (
	"context"
	"errors"
)

// Flatten unwraps exactly one %w nesting level. Combinators wrap the
// failures they report with a single level of their own context; applying
// Flatten once recovers the cause without digging through the whole chain.
func Flatten(err error) error {
	if err == nil {
		return nil
	}
	if cause := errors.Unwrap(err); cause != nil {
		return cause
	}
	return err
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrCanceled)
}
