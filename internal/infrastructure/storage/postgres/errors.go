package postgres

import (
	"context"
	"errors"
	"fmt"

	"optiretail/internal/core/apperror"
)

// QueryError wraps a failed query as a DATABASE_ERROR. Cancellation passes
// through unwrapped so the caller sees its own context error.
func QueryError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapped
	}
	return apperror.NewDatabase(wrapped)
}
