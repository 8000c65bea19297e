package reports

import (
	"context"
)

// Repository reads the ledger sources. Every list method returns non-deleted,
// completed rows of one entity with their display fields already joined.
type Repository interface {
	ListOrderPayments(ctx context.Context, f Filter) ([]OrderPaymentRow, error)
	ListChannelPayments(ctx context.Context, f Filter) ([]ChannelPaymentRow, error)
	ListSolderingPayments(ctx context.Context, f Filter) ([]SolderingPaymentRow, error)
	ListExpenses(ctx context.Context, f Filter) ([]ExpenseRow, error)
	ListOtherIncomes(ctx context.Context, f Filter) ([]OtherIncomeRow, error)
	ListSafeTransactions(ctx context.Context, f Filter) ([]SafeTransactionRow, error)

	// SumBySource aggregates counts and amounts per source with its own queries.
	SumBySource(ctx context.Context, f Filter) (Totals, error)

	// ListBranches returns all branches ordered by name.
	ListBranches(ctx context.Context) ([]Branch, error)
}
