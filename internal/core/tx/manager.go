// Package tx defines the transaction boundary domain services depend on.
// The pgx-backed implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
// A non-nil error from fn rolls the transaction back; otherwise it commits.
// Nested calls reuse the transaction already carried by ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Nop runs fn directly. For services wired without a database, mostly tests.
type Nop struct{}

// RunInTransaction calls fn with ctx unchanged.
func (Nop) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
