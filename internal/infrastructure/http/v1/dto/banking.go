package dto

import (
	"time"

	"optiretail/internal/domain/audit"
	"optiretail/internal/domain/banking"
)

// BankingReportQuery holds the banking report query parameters.
type BankingReportQuery struct {
	BranchID    string `form:"branch_id"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	IsConfirmed string `form:"is_confirmed"`
}

// ConfirmDepositRequest is the body of the confirmation toggle.
type ConfirmDepositRequest struct {
	IsConfirmed *bool `json:"is_confirmed" binding:"required"`
}

// BankDepositResponse is one bank deposit.
type BankDepositResponse struct {
	ID            int64   `json:"id"`
	BranchID      int64   `json:"branch_id"`
	BranchName    string  `json:"branch_name"`
	BankAccountID *int64  `json:"bank_account_id"`
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	Amount        string  `json:"amount"`
	DepositDate   string  `json:"deposit_date"`
	IsConfirmed   bool    `json:"is_confirmed"`
	UserName      *string `json:"user_name"`
	Note          *string `json:"note"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// FromBankDeposit converts a deposit, rendering timestamps in loc.
func FromBankDeposit(d banking.BankDeposit, loc *time.Location) BankDepositResponse {
	return BankDepositResponse{
		ID:            d.ID,
		BranchID:      d.BranchID,
		BranchName:    d.BranchName,
		BankAccountID: d.BankAccountID,
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		Amount:        Money(d.Amount),
		DepositDate:   d.DepositDate.Format(time.DateOnly),
		IsConfirmed:   d.IsConfirmed,
		UserName:      d.UserName,
		Note:          d.Note,
		CreatedAt:     d.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:     d.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}

// BankingSummaryResponse totals deposits by confirmation state.
type BankingSummaryResponse struct {
	TotalAmount     string `json:"total_amount"`
	ConfirmedAmount string `json:"confirmed_amount"`
	PendingAmount   string `json:"pending_amount"`
	Count           int    `json:"count"`
	ConfirmedCount  int    `json:"confirmed_count"`
	PendingCount    int    `json:"pending_count"`
}

// BankingReportResponse is the banking report body.
type BankingReportResponse struct {
	Summary  BankingSummaryResponse `json:"summary"`
	Deposits []BankDepositResponse  `json:"deposits"`
}

// FromBankingReport converts a banking report.
func FromBankingReport(r *banking.Report, loc *time.Location) BankingReportResponse {
	deposits := make([]BankDepositResponse, 0, len(r.Deposits))
	for _, d := range r.Deposits {
		deposits = append(deposits, FromBankDeposit(d, loc))
	}
	s := r.Summary
	return BankingReportResponse{
		Summary: BankingSummaryResponse{
			TotalAmount:     Money(s.TotalAmount),
			ConfirmedAmount: Money(s.ConfirmedAmount),
			PendingAmount:   Money(s.PendingAmount),
			Count:           s.Count,
			ConfirmedCount:  s.ConfirmedCount,
			PendingCount:    s.PendingCount,
		},
		Deposits: deposits,
	}
}

// DepositHistoryQuery holds the deposit history query parameters.
type DepositHistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AuditEntryResponse is one audit record of a deposit.
type AuditEntryResponse struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	UserID    *string        `json:"user_id"`
	UserName  *string        `json:"user_name"`
	Changes   map[string]any `json:"changes"`
	CreatedAt string         `json:"created_at"`
}

// DepositHistoryResponse is the audit trail of one deposit, newest first.
type DepositHistoryResponse struct {
	DepositID int64                `json:"deposit_id"`
	Entries   []AuditEntryResponse `json:"entries"`
}

// FromDepositHistory converts audit entries, rendering timestamps in loc.
func FromDepositHistory(id int64, entries []audit.HistoryEntry, loc *time.Location) DepositHistoryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			UserID:    e.UserID,
			UserName:  e.UserName,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt.In(loc).Format(time.RFC3339),
		})
	}
	return DepositHistoryResponse{DepositID: id, Entries: out}
}
