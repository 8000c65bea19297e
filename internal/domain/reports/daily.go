package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/daterange"
	"optiretail/internal/core/types"
)

// DailyEntry is one ledger row of the daily money report with its indicator.
type DailyEntry struct {
	Record    TransactionRecord
	Indicator Indicator
}

// MethodTotal is the money received through one payment method.
type MethodTotal struct {
	Method string
	Count  int
	Amount types.Money
}

// MoneyBreakdown is the set of daily figures reported per branch and overall.
type MoneyBreakdown struct {
	OrderPayments     types.Money
	ChannelPayments   types.Money
	SolderingPayments types.Money
	OtherIncome       types.Money
	TotalReceived     types.Money
	TotalExpenses     types.Money
	CashExpenses      types.Money
	SafeExpenses      types.Money
	BankDeposits      types.Money
	CashInHand        types.Money
	ByMethod          []MethodTotal
}

// BranchDailyMoney is the daily money breakdown of one branch.
type BranchDailyMoney struct {
	BranchID   int64
	BranchName string
	Entries    []DailyEntry
	Money      MoneyBreakdown
}

// DailyMoneyReport covers one calendar day across one or all branches.
type DailyMoneyReport struct {
	Date     time.Time
	Branches []BranchDailyMoney
	Totals   MoneyBreakdown
}

func zeroBreakdown() MoneyBreakdown {
	z := types.Zero()
	return MoneyBreakdown{
		OrderPayments:     z,
		ChannelPayments:   z,
		SolderingPayments: z,
		OtherIncome:       z,
		TotalReceived:     z,
		TotalExpenses:     z,
		CashExpenses:      z,
		SafeExpenses:      z,
		BankDeposits:      z,
		CashInHand:        z,
	}
}

// Breakdown computes the daily figures of a record list.
// Cash in hand is cash-method payments plus other income minus cash-paid expenses.
func Breakdown(records []TransactionRecord) MoneyBreakdown {
	b := zeroBreakdown()
	methods := make(map[string]*MethodTotal)
	cashReceived := types.Zero()

	for _, r := range records {
		switch r.TransactionType {
		case SourceOrderPayment:
			b.OrderPayments = b.OrderPayments.Add(r.Amount)
		case SourceChannelPayment:
			b.ChannelPayments = b.ChannelPayments.Add(r.Amount)
		case SourceSolderingPayment:
			b.SolderingPayments = b.SolderingPayments.Add(r.Amount)
		case SourceOtherIncome:
			b.OtherIncome = b.OtherIncome.Add(r.Amount)
		case SourceExpense:
			b.TotalExpenses = b.TotalExpenses.Add(r.Amount)
			if r.PaymentMethod != nil && *r.PaymentMethod == PaidFromSafe {
				b.SafeExpenses = b.SafeExpenses.Add(r.Amount)
			} else {
				b.CashExpenses = b.CashExpenses.Add(r.Amount)
			}
		case SourceSafeTransaction:
			if r.TransactionSubtype != nil && *r.TransactionSubtype == SafeTypeDeposit {
				b.BankDeposits = b.BankDeposits.Add(r.Amount.Abs())
			}
		}

		if r.TransactionType == SourceOrderPayment ||
			r.TransactionType == SourceChannelPayment ||
			r.TransactionType == SourceSolderingPayment {
			method := "unknown"
			if r.PaymentMethod != nil && *r.PaymentMethod != "" {
				method = *r.PaymentMethod
			}
			mt, ok := methods[method]
			if !ok {
				mt = &MethodTotal{Method: method, Amount: types.Zero()}
				methods[method] = mt
			}
			mt.Count++
			mt.Amount = mt.Amount.Add(r.Amount)
			if method == PaymentMethodCash {
				cashReceived = cashReceived.Add(r.Amount)
			}
		}
	}

	b.TotalReceived = types.Sum(b.OrderPayments, b.ChannelPayments, b.SolderingPayments, b.OtherIncome)
	b.CashInHand = cashReceived.Add(b.OtherIncome).Sub(b.CashExpenses)
	b.ByMethod = sortedMethods(methods)
	return b
}

func sortedMethods(m map[string]*MethodTotal) []MethodTotal {
	out := make([]MethodTotal, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// DailyMoney builds the daily money report for one day. A nil branchID covers
// every branch, including branches without activity that day.
func (s *Service) DailyMoney(ctx context.Context, day daterange.Range, branchID *int64) (*DailyMoneyReport, error) {
	defer s.logIfSlow(ctx, "daily_money_report", time.Now(), "date", day.Start.Format(time.DateOnly))

	branches, err := s.repo.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily money: list branches: %w", err)
	}

	if branchID != nil {
		var found *Branch
		for i := range branches {
			if branches[i].ID == *branchID {
				found = &branches[i]
				break
			}
		}
		if found == nil {
			return nil, apperror.NewNotFound("branch", *branchID)
		}
		branches = []Branch{*found}
	}

	records, err := s.Transactions(ctx, Filter{BranchID: branchID, From: day.Start, To: day.End})
	if err != nil {
		return nil, fmt.Errorf("daily money: %w", err)
	}

	byBranch := make(map[int64][]TransactionRecord, len(branches))
	for _, r := range records {
		byBranch[r.BranchID] = append(byBranch[r.BranchID], r)
	}

	report := &DailyMoneyReport{
		Date:     day.Start,
		Branches: make([]BranchDailyMoney, 0, len(branches)),
	}
	for _, br := range branches {
		list := byBranch[br.ID]
		entries := make([]DailyEntry, 0, len(list))
		for _, r := range list {
			entries = append(entries, DailyEntry{Record: r, Indicator: r.Indicator()})
		}
		report.Branches = append(report.Branches, BranchDailyMoney{
			BranchID:   br.ID,
			BranchName: br.Name,
			Entries:    entries,
			Money:      Breakdown(list),
		})
	}
	report.Totals = Breakdown(records)

	return report, nil
}
