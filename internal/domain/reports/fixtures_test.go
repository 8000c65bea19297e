package reports

import (
	"context"
	"time"
	_ "time/tzdata"

	"optiretail/internal/core/types"
)

var colombo = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		panic(err)
	}
	return loc
}()

func at(hour, minute int) *time.Time {
	t := time.Date(2024, 3, 15, hour, minute, 0, 0, colombo)
	return &t
}

func strPtr(s string) *string { return &s }

func money(s string) types.Money { return types.MustMoney(s) }

// fakeRepo serves canned rows and computes totals the way the SQL would.
type fakeRepo struct {
	orders    []OrderPaymentRow
	channels  []ChannelPaymentRow
	soldering []SolderingPaymentRow
	expenses  []ExpenseRow
	incomes   []OtherIncomeRow
	safe      []SafeTransactionRow
	branches  []Branch

	failOn  SourceType
	err     error
	sumErr  error
	filters []Filter
}

func (f *fakeRepo) fail(tag SourceType) error {
	if f.failOn == tag {
		return f.err
	}
	return nil
}

func (f *fakeRepo) ListOrderPayments(_ context.Context, flt Filter) ([]OrderPaymentRow, error) {
	if err := f.fail(SourceOrderPayment); err != nil {
		return nil, err
	}
	return filterRows(f.orders, flt, func(r OrderPaymentRow) (int64, *time.Time) { return r.BranchID, r.PaymentDate }), nil
}

func (f *fakeRepo) ListChannelPayments(_ context.Context, flt Filter) ([]ChannelPaymentRow, error) {
	if err := f.fail(SourceChannelPayment); err != nil {
		return nil, err
	}
	return filterRows(f.channels, flt, func(r ChannelPaymentRow) (int64, *time.Time) { return r.BranchID, r.PaymentDate }), nil
}

func (f *fakeRepo) ListSolderingPayments(_ context.Context, flt Filter) ([]SolderingPaymentRow, error) {
	if err := f.fail(SourceSolderingPayment); err != nil {
		return nil, err
	}
	return filterRows(f.soldering, flt, func(r SolderingPaymentRow) (int64, *time.Time) { return r.BranchID, r.PaymentDate }), nil
}

func (f *fakeRepo) ListExpenses(_ context.Context, flt Filter) ([]ExpenseRow, error) {
	if err := f.fail(SourceExpense); err != nil {
		return nil, err
	}
	return filterRows(f.expenses, flt, func(r ExpenseRow) (int64, *time.Time) { return r.BranchID, r.CreatedAt }), nil
}

func (f *fakeRepo) ListOtherIncomes(_ context.Context, flt Filter) ([]OtherIncomeRow, error) {
	if err := f.fail(SourceOtherIncome); err != nil {
		return nil, err
	}
	return filterRows(f.incomes, flt, func(r OtherIncomeRow) (int64, *time.Time) { return r.BranchID, r.Date }), nil
}

func (f *fakeRepo) ListSafeTransactions(_ context.Context, flt Filter) ([]SafeTransactionRow, error) {
	if err := f.fail(SourceSafeTransaction); err != nil {
		return nil, err
	}
	return filterRows(f.safe, flt, func(r SafeTransactionRow) (int64, *time.Time) { return r.BranchID, r.CreatedAt }), nil
}

func (f *fakeRepo) SumBySource(ctx context.Context, flt Filter) (Totals, error) {
	if f.sumErr != nil {
		return Totals{}, f.sumErr
	}
	f.filters = append(f.filters, flt)
	svc := NewService(&fakeRepo{
		orders: f.orders, channels: f.channels, soldering: f.soldering,
		expenses: f.expenses, incomes: f.incomes, safe: f.safe,
	})
	records, err := svc.Transactions(ctx, flt)
	if err != nil {
		return Totals{}, err
	}
	return totalsFromRecords(records), nil
}

func (f *fakeRepo) ListBranches(context.Context) ([]Branch, error) {
	return f.branches, nil
}

func filterRows[R any](rows []R, flt Filter, key func(R) (int64, *time.Time)) []R {
	var out []R
	for _, r := range rows {
		branch, ts := key(r)
		if flt.BranchID != nil && branch != *flt.BranchID {
			continue
		}
		if ts != nil && (ts.Before(flt.From) || ts.After(flt.To)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// totalsFromRecords computes Totals from a merged list the way the summary
// queries do. Safe amounts are summed unsigned.
func totalsFromRecords(records []TransactionRecord) Totals {
	t := Totals{BySource: make(map[SourceType]SourceTotal), SafeDeposits: types.Zero()}
	for _, r := range records {
		amount := r.Amount
		if r.TransactionType == SourceSafeTransaction {
			amount = amount.Abs()
			if r.TransactionSubtype != nil && *r.TransactionSubtype == SafeTypeDeposit {
				t.SafeDeposits = t.SafeDeposits.Add(amount)
			}
		}
		cur := t.BySource[r.TransactionType]
		cur.Count++
		cur.Amount = cur.Amount.Add(amount)
		t.BySource[r.TransactionType] = cur
	}
	return t
}

func isIncome(s SourceType) bool {
	switch s {
	case SourceOrderPayment, SourceChannelPayment, SourceSolderingPayment, SourceOtherIncome:
		return true
	}
	return false
}
