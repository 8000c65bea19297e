package dto

import (
	"time"

	"optiretail/internal/domain/reports"
)

// TransactionRecordResponse is one ledger row. Every field is always present;
// fields that do not apply to the source are null.
type TransactionRecordResponse struct {
	TransactionType    string         `json:"transaction_type"`
	DateTime           *string        `json:"date_time"`
	Amount             string         `json:"amount"`
	ReferenceNumber    *string        `json:"reference_number"`
	CustomerName       *string        `json:"customer_name"`
	PaymentMethod      *string        `json:"payment_method"`
	MainCategoryName   *string        `json:"main_category_name"`
	SubCategoryName    *string        `json:"sub_category_name"`
	ChannelNo          *int64         `json:"channel_no"`
	TransactionSubtype *string        `json:"transaction_subtype"`
	AdditionalInfo     map[string]any `json:"additional_info"`
	BranchID           int64          `json:"branch_id"`
	BranchName         string         `json:"branch_name"`
}

// FromTransactionRecord converts a ledger record, rendering timestamps in loc.
func FromTransactionRecord(r reports.TransactionRecord, loc *time.Location) TransactionRecordResponse {
	info := make(map[string]any, len(r.AdditionalInfo))
	for k, v := range r.AdditionalInfo {
		info[k] = jsonValue(v)
	}
	return TransactionRecordResponse{
		TransactionType:    string(r.TransactionType),
		DateTime:           Timestamp(r.DateTime, loc),
		Amount:             Money(r.Amount),
		ReferenceNumber:    r.ReferenceNumber,
		CustomerName:       r.CustomerName,
		PaymentMethod:      r.PaymentMethod,
		MainCategoryName:   r.MainCategoryName,
		SubCategoryName:    r.SubCategoryName,
		ChannelNo:          r.ChannelNo,
		TransactionSubtype: r.TransactionSubtype,
		AdditionalInfo:     info,
		BranchID:           r.BranchID,
		BranchName:         r.BranchName,
	}
}

// SummaryResponse holds the headline figures of a ledger report.
type SummaryResponse struct {
	OrderPayments     string `json:"order_payments"`
	ChannelPayments   string `json:"channel_payments"`
	SolderingPayments string `json:"soldering_payments"`
	OtherIncome       string `json:"other_income"`
	Expenses          string `json:"expenses"`
	SafeTransactions  string `json:"safe_transactions"`
	TotalReceived     string `json:"total_received"`
	TotalExpenses     string `json:"total_expenses"`
	TotalBankDeposits string `json:"total_bank_deposits"`
	NetTotal          string `json:"net_total"`
	TransactionCount  int64  `json:"transaction_count"`
}

// FromSummary converts a report summary.
func FromSummary(s reports.Summary) SummaryResponse {
	return SummaryResponse{
		OrderPayments:     Money(s.OrderPayments),
		ChannelPayments:   Money(s.ChannelPayments),
		SolderingPayments: Money(s.SolderingPayments),
		OtherIncome:       Money(s.OtherIncome),
		Expenses:          Money(s.Expenses),
		SafeTransactions:  Money(s.SafeTransactions),
		TotalReceived:     Money(s.TotalReceived),
		TotalExpenses:     Money(s.TotalExpenses),
		TotalBankDeposits: Money(s.TotalBankDeposits),
		NetTotal:          Money(s.NetTotal),
		TransactionCount:  s.TransactionCount,
	}
}

// TimeReportQuery holds the branch time report query parameters.
// branch_id is parsed by the handler to report a field-level error.
type TimeReportQuery struct {
	BranchID  string `form:"branch_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1"`
}

// TimeReportResponse is the branch time report body.
type TimeReportResponse struct {
	BranchID     int64                       `json:"branch_id"`
	StartDate    string                      `json:"start_date"`
	EndDate      string                      `json:"end_date"`
	Summary      SummaryResponse             `json:"summary"`
	Transactions []TransactionRecordResponse `json:"transactions"`
	Pagination   PaginationResponse          `json:"pagination"`
}

// FromTimeReport converts a branch time report.
func FromTimeReport(r *reports.TimeReport, loc *time.Location) TimeReportResponse {
	items := make([]TransactionRecordResponse, 0, len(r.Transactions.Items))
	for _, rec := range r.Transactions.Items {
		items = append(items, FromTransactionRecord(rec, loc))
	}
	return TimeReportResponse{
		BranchID:     r.BranchID,
		StartDate:    r.From.In(loc).Format(time.DateOnly),
		EndDate:      r.To.In(loc).Format(time.DateOnly),
		Summary:      FromSummary(r.Summary),
		Transactions: items,
		Pagination:   NewPaginationResponse(r.Transactions),
	}
}

// DailyMoneyRequest is the daily money report body.
type DailyMoneyRequest struct {
	Date     string `json:"date"`
	BranchID *int64 `json:"branch_id"`
}

// DailyEntryResponse is a ledger row with its special indicator.
type DailyEntryResponse struct {
	TransactionRecordResponse
	SpecialIndicator string `json:"special_indicator"`
}

// MethodTotalResponse is the money received through one payment method.
type MethodTotalResponse struct {
	PaymentMethod string `json:"payment_method"`
	Count         int    `json:"count"`
	Amount        string `json:"amount"`
}

// MoneyBreakdownResponse holds the daily figures.
type MoneyBreakdownResponse struct {
	OrderPayments     string                `json:"order_payments"`
	ChannelPayments   string                `json:"channel_payments"`
	SolderingPayments string                `json:"soldering_payments"`
	OtherIncome       string                `json:"other_income"`
	TotalReceived     string                `json:"total_received"`
	TotalExpenses     string                `json:"total_expenses"`
	CashExpenses      string                `json:"cash_expenses"`
	SafeExpenses      string                `json:"safe_expenses"`
	BankDeposits      string                `json:"bank_deposits"`
	CashInHand        string                `json:"cash_in_hand"`
	ByPaymentMethod   []MethodTotalResponse `json:"by_payment_method"`
}

// FromBreakdown converts daily figures.
func FromBreakdown(b reports.MoneyBreakdown) MoneyBreakdownResponse {
	methods := make([]MethodTotalResponse, 0, len(b.ByMethod))
	for _, m := range b.ByMethod {
		methods = append(methods, MethodTotalResponse{PaymentMethod: m.Method, Count: m.Count, Amount: Money(m.Amount)})
	}
	return MoneyBreakdownResponse{
		OrderPayments:     Money(b.OrderPayments),
		ChannelPayments:   Money(b.ChannelPayments),
		SolderingPayments: Money(b.SolderingPayments),
		OtherIncome:       Money(b.OtherIncome),
		TotalReceived:     Money(b.TotalReceived),
		TotalExpenses:     Money(b.TotalExpenses),
		CashExpenses:      Money(b.CashExpenses),
		SafeExpenses:      Money(b.SafeExpenses),
		BankDeposits:      Money(b.BankDeposits),
		CashInHand:        Money(b.CashInHand),
		ByPaymentMethod:   methods,
	}
}

// BranchDailyMoneyResponse is the daily money breakdown of one branch.
type BranchDailyMoneyResponse struct {
	BranchID   int64                  `json:"branch_id"`
	BranchName string                 `json:"branch_name"`
	Entries    []DailyEntryResponse   `json:"entries"`
	Money      MoneyBreakdownResponse `json:"money"`
}

// DailyMoneyResponse is the daily money report body.
type DailyMoneyResponse struct {
	Date     string                     `json:"date"`
	Branches []BranchDailyMoneyResponse `json:"branches"`
	Totals   MoneyBreakdownResponse     `json:"totals"`
}

// FromDailyMoney converts a daily money report.
func FromDailyMoney(r *reports.DailyMoneyReport, loc *time.Location) DailyMoneyResponse {
	branches := make([]BranchDailyMoneyResponse, 0, len(r.Branches))
	for _, b := range r.Branches {
		entries := make([]DailyEntryResponse, 0, len(b.Entries))
		for _, e := range b.Entries {
			entries = append(entries, DailyEntryResponse{
				TransactionRecordResponse: FromTransactionRecord(e.Record, loc),
				SpecialIndicator:          string(e.Indicator),
			})
		}
		branches = append(branches, BranchDailyMoneyResponse{
			BranchID:   b.BranchID,
			BranchName: b.BranchName,
			Entries:    entries,
			Money:      FromBreakdown(b.Money),
		})
	}
	return DailyMoneyResponse{
		Date:     r.Date.In(loc).Format(time.DateOnly),
		Branches: branches,
		Totals:   FromBreakdown(r.Totals),
	}
}
