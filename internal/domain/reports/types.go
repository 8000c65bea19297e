// Package reports consolidates branch-scoped payments, expenses, incomes and
// safe movements into one ordered ledger view with headline totals.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"optiretail/internal/core/types"
)

// SourceType tags the entity a ledger record was read from.
type SourceType string

const (
	SourceOrderPayment     SourceType = "order_payment"
	SourceChannelPayment   SourceType = "channel_payment"
	SourceSolderingPayment SourceType = "soldering_payment"
	SourceExpense          SourceType = "expense"
	SourceOtherIncome      SourceType = "other_income"
	SourceSafeTransaction  SourceType = "safe_transaction"
)

// AllSources lists every source in the order the ledger reads them.
var AllSources = []SourceType{
	SourceOrderPayment,
	SourceChannelPayment,
	SourceSolderingPayment,
	SourceExpense,
	SourceOtherIncome,
	SourceSafeTransaction,
}

// Safe transaction types with special meaning.
const (
	SafeTypeDeposit = "deposit"
	SafeTypeExpense = "expense"
)

// Expense paid sources.
const (
	PaidFromSafe = "safe"
	PaidFromCash = "cash"
)

// PaymentMethodCash is the payment method counted as cash in hand.
const PaymentMethodCash = "cash"

// Filter scopes every reader. A nil BranchID reads all branches.
type Filter struct {
	BranchID *int64
	From     time.Time
	To       time.Time
}

// Branch is a retail location.
type Branch struct {
	ID   int64  `db:"id"`
	Name string `db:"branch_name"`
}

// --- Raw rows, one type per source ---

// OrderPaymentRow is a successful, non-deleted payment against an order.
type OrderPaymentRow struct {
	ID             int64               `db:"id"`
	OrderID        int64               `db:"order_id"`
	BranchID       int64               `db:"branch_id"`
	BranchName     string              `db:"branch_name"`
	Amount         decimal.Decimal     `db:"amount"`
	PaymentMethod  *string             `db:"payment_method"`
	PaymentDate    *time.Time          `db:"payment_date"`
	IsEdited       bool                `db:"is_edited"`
	IsPartial      bool                `db:"is_partial"`
	IsFinalPayment bool                `db:"is_final_payment"`
	IsRefund       bool                `db:"is_refund"`
	InvoiceNumber  *string             `db:"invoice_number"`
	InvoiceType    *string             `db:"invoice_type"`
	CustomerName   *string             `db:"customer_name"`
	OrderTotal     decimal.NullDecimal `db:"order_total"`
	UserName       *string             `db:"user_name"`
}

// ChannelPaymentRow is a payment against a doctor appointment (channel).
type ChannelPaymentRow struct {
	ID               int64               `db:"id"`
	AppointmentID    int64               `db:"appointment_id"`
	BranchID         int64               `db:"branch_id"`
	BranchName       string              `db:"branch_name"`
	Amount           decimal.Decimal     `db:"amount"`
	PaymentMethod    *string             `db:"payment_method"`
	PaymentDate      *time.Time          `db:"payment_date"`
	IsEdited         bool                `db:"is_edited"`
	IsPartial        bool                `db:"is_partial"`
	IsFinalPayment   bool                `db:"is_final_payment"`
	IsRefund         bool                `db:"is_refund"`
	ChannelNo        *int64              `db:"channel_no"`
	PatientName      *string             `db:"patient_name"`
	DoctorName       *string             `db:"doctor_name"`
	AppointmentTotal decimal.NullDecimal `db:"appointment_total"`
}

// SolderingPaymentRow is a payment against a soldering (repair) order.
type SolderingPaymentRow struct {
	ID             int64               `db:"id"`
	OrderID        int64               `db:"order_id"`
	BranchID       int64               `db:"branch_id"`
	BranchName     string              `db:"branch_name"`
	Amount         decimal.Decimal     `db:"amount"`
	PaymentMethod  *string             `db:"payment_method"`
	PaymentDate    *time.Time          `db:"payment_date"`
	IsEdited       bool                `db:"is_edited"`
	IsPartial      bool                `db:"is_partial"`
	IsFinalPayment bool                `db:"is_final_payment"`
	IsRefund       bool                `db:"is_refund"`
	InvoiceNumber  *string             `db:"invoice_number"`
	CustomerName   *string             `db:"customer_name"`
	OrderTotal     decimal.NullDecimal `db:"order_total"`
}

// ExpenseRow is a branch expense paid from the safe or the cash drawer.
type ExpenseRow struct {
	ID               int64           `db:"id"`
	BranchID         int64           `db:"branch_id"`
	BranchName       string          `db:"branch_name"`
	Amount           decimal.Decimal `db:"amount"`
	CreatedAt        *time.Time      `db:"created_at"`
	MainCategoryName *string         `db:"main_category_name"`
	SubCategoryName  *string         `db:"sub_category_name"`
	PaidSource       string          `db:"paid_source"`
	IsRefund         bool            `db:"is_refund"`
	Note             *string         `db:"note"`
	UserName         *string         `db:"user_name"`
}

// OtherIncomeRow is income that is not tied to an order or appointment.
type OtherIncomeRow struct {
	ID           int64           `db:"id"`
	BranchID     int64           `db:"branch_id"`
	BranchName   string          `db:"branch_name"`
	Amount       decimal.Decimal `db:"amount"`
	Date         *time.Time      `db:"date"`
	CategoryName *string         `db:"category_name"`
	Note         *string         `db:"note"`
}

// SafeTransactionRow is one entry of a branch safe ledger.
type SafeTransactionRow struct {
	ID              int64           `db:"id"`
	BranchID        int64           `db:"branch_id"`
	BranchName      string          `db:"branch_name"`
	TransactionType string          `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	CreatedAt       *time.Time      `db:"created_at"`
	Reason          *string         `db:"reason"`
}

// --- Consolidated view ---

// Flags are the three booleans the special indicator is derived from.
type Flags struct {
	IsRefund  bool
	IsEdited  bool
	IsPartial bool
}

// TransactionRecord is the canonical ledger row every source is mapped into.
// Fields that do not apply to a source stay nil.
type TransactionRecord struct {
	TransactionType    SourceType
	DateTime           *time.Time
	Amount             types.Money
	ReferenceNumber    *string
	CustomerName       *string
	PaymentMethod      *string
	MainCategoryName   *string
	SubCategoryName    *string
	ChannelNo          *int64
	TransactionSubtype *string
	AdditionalInfo     map[string]any

	BranchID   int64
	BranchName string
	Flags      Flags
}

// Indicator returns the special indicator of the record.
func (r TransactionRecord) Indicator() Indicator {
	return SpecialIndicator(r.Flags.IsRefund, r.Flags.IsEdited, r.Flags.IsPartial)
}

// SourceTotal is the count and amount sum of one source.
type SourceTotal struct {
	Count  int64
	Amount types.Money
}

// Totals is what the summary queries return, independently of the record list.
type Totals struct {
	BySource     map[SourceType]SourceTotal
	SafeDeposits types.Money
}

// Summary holds the headline figures of a ledger report.
type Summary struct {
	OrderPayments     types.Money
	ChannelPayments   types.Money
	SolderingPayments types.Money
	OtherIncome       types.Money
	Expenses          types.Money
	SafeTransactions  types.Money

	TotalReceived     types.Money
	TotalExpenses     types.Money
	TotalBankDeposits types.Money
	NetTotal          types.Money
	TransactionCount  int64
}

// NewSummary derives the headline figures from per-source totals.
// Missing sources count as zero.
func NewSummary(t Totals) Summary {
	amount := func(s SourceType) types.Money {
		if v, ok := t.BySource[s]; ok {
			return v.Amount
		}
		return types.Zero()
	}

	s := Summary{
		OrderPayments:     amount(SourceOrderPayment),
		ChannelPayments:   amount(SourceChannelPayment),
		SolderingPayments: amount(SourceSolderingPayment),
		OtherIncome:       amount(SourceOtherIncome),
		Expenses:          amount(SourceExpense),
		SafeTransactions:  amount(SourceSafeTransaction),
		TotalBankDeposits: t.SafeDeposits,
	}
	s.TotalReceived = types.Sum(s.OrderPayments, s.ChannelPayments, s.SolderingPayments, s.OtherIncome)
	s.TotalExpenses = s.Expenses
	s.NetTotal = s.TotalReceived.Sub(s.TotalExpenses)

	for _, v := range t.BySource {
		s.TransactionCount += v.Count
	}
	return s
}

// TimeReport is the branch time report: summary plus one page of records.
type TimeReport struct {
	BranchID     int64
	From         time.Time
	To           time.Time
	Summary      Summary
	Transactions Page[TransactionRecord]
}
