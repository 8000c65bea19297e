package banking

import "context"

// Repository reads and updates bank deposits.
type Repository interface {
	// List returns deposits matching the filter, newest deposit date first.
	List(ctx context.Context, f Filter) ([]BankDeposit, error)

	// SetConfirmed writes is_confirmed in a single statement and returns the
	// deposit after the update together with its state before it.
	// Returns apperror NotFound when the id does not exist.
	SetConfirmed(ctx context.Context, id int64, isConfirmed bool) (after, before *BankDeposit, err error)
}
