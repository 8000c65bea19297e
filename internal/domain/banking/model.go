// Package banking covers bank deposits made from branch safes and their confirmation workflow.
package banking

import (
	"time"

	"optiretail/internal/core/types"
)

// EntityType is the audit entity name of a bank deposit.
const EntityType = "bank_deposit"

// BankDeposit is cash or cheque moved from a branch safe to a bank account.
// IsConfirmed has two states and either may be set from the other.
type BankDeposit struct {
	ID            int64       `db:"id"`
	BranchID      int64       `db:"branch_id"`
	BranchName    string      `db:"branch_name"`
	BankAccountID *int64      `db:"bank_account_id"`
	BankName      *string     `db:"bank_name"`
	AccountNumber *string     `db:"account_number"`
	Amount        types.Money `db:"amount"`
	DepositDate   time.Time   `db:"deposit_date"`
	IsConfirmed   bool        `db:"is_confirmed"`
	UserName      *string     `db:"user_name"`
	Note          *string     `db:"note"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

// Filter selects deposits for the banking report. A nil BranchID covers all
// branches; a nil IsConfirmed covers both states.
type Filter struct {
	BranchID    *int64
	From        time.Time
	To          time.Time
	IsConfirmed *bool
}

// Summary totals a list of deposits by confirmation state.
type Summary struct {
	TotalAmount     types.Money
	ConfirmedAmount types.Money
	PendingAmount   types.Money
	Count           int
	ConfirmedCount  int
	PendingCount    int
}

// Summarize computes the summary of deposits.
func Summarize(deposits []BankDeposit) Summary {
	s := Summary{
		TotalAmount:     types.Zero(),
		ConfirmedAmount: types.Zero(),
		PendingAmount:   types.Zero(),
	}
	for _, d := range deposits {
		s.Count++
		s.TotalAmount = s.TotalAmount.Add(d.Amount)
		if d.IsConfirmed {
			s.ConfirmedCount++
			s.ConfirmedAmount = s.ConfirmedAmount.Add(d.Amount)
		} else {
			s.PendingCount++
			s.PendingAmount = s.PendingAmount.Add(d.Amount)
		}
	}
	return s
}

// Report is the banking report: deposits newest first plus totals.
type Report struct {
	Filter   Filter
	Deposits []BankDeposit
	Summary  Summary
}
