package reports

import (
	"strconv"

	"github.com/shopspring/decimal"

	"optiretail/internal/core/types"
)

// SignConvention decides how safe transaction amounts appear in the ledger.
type SignConvention int

const (
	// SignUnsigned keeps stored amounts as they are; transaction_subtype is the only direction signal.
	SignUnsigned SignConvention = iota
	// SignNegateSafeExpense shows safe transactions of type "expense" as negative amounts.
	SignNegateSafeExpense
)

// ParseSignConvention maps the configuration value onto a convention.
func ParseSignConvention(v string) SignConvention {
	if v == "negative" {
		return SignNegateSafeExpense
	}
	return SignUnsigned
}

// SafeAmount applies the sign convention to one safe transaction amount.
func SafeAmount(transactionType string, amount types.Money, conv SignConvention) types.Money {
	if conv == SignNegateSafeExpense && transactionType == SafeTypeExpense {
		return amount.Abs().Neg()
	}
	return amount
}

func refundSubtype(isRefund bool) *string {
	if !isRefund {
		return nil
	}
	s := string(PaymentKindRefund)
	return &s
}

func nullMoney(m decimal.NullDecimal) *types.Money {
	if !m.Valid {
		return nil
	}
	v := m.Decimal
	return &v
}

// TransformOrderPayment maps an order payment onto the ledger record.
func TransformOrderPayment(row OrderPaymentRow) TransactionRecord {
	info := map[string]any{
		"order_id":         row.OrderID,
		"order_total":      nullMoney(row.OrderTotal),
		"invoice_type":     row.InvoiceType,
		"payment_type":     DerivePaymentKind(row.IsEdited, row.IsRefund),
		"is_partial":       row.IsPartial,
		"is_edited":        row.IsEdited,
		"is_final_payment": row.IsFinalPayment,
		"user_name":        row.UserName,
	}
	return TransactionRecord{
		TransactionType:    SourceOrderPayment,
		DateTime:           row.PaymentDate,
		Amount:             row.Amount,
		ReferenceNumber:    row.InvoiceNumber,
		CustomerName:       row.CustomerName,
		PaymentMethod:      row.PaymentMethod,
		TransactionSubtype: refundSubtype(row.IsRefund),
		AdditionalInfo:     info,
		BranchID:           row.BranchID,
		BranchName:         row.BranchName,
		Flags:              Flags{IsRefund: row.IsRefund, IsEdited: row.IsEdited, IsPartial: row.IsPartial},
	}
}

// TransformChannelPayment maps an appointment payment onto the ledger record.
func TransformChannelPayment(row ChannelPaymentRow) TransactionRecord {
	ref := strconv.FormatInt(row.AppointmentID, 10)
	info := map[string]any{
		"appointment_id":    row.AppointmentID,
		"appointment_total": nullMoney(row.AppointmentTotal),
		"doctor_name":       row.DoctorName,
		"payment_type":      DerivePaymentKind(row.IsEdited, row.IsRefund),
		"is_partial":        row.IsPartial,
		"is_edited":         row.IsEdited,
		"is_final_payment":  row.IsFinalPayment,
	}
	return TransactionRecord{
		TransactionType:    SourceChannelPayment,
		DateTime:           row.PaymentDate,
		Amount:             row.Amount,
		ReferenceNumber:    &ref,
		CustomerName:       row.PatientName,
		PaymentMethod:      row.PaymentMethod,
		ChannelNo:          row.ChannelNo,
		TransactionSubtype: refundSubtype(row.IsRefund),
		AdditionalInfo:     info,
		BranchID:           row.BranchID,
		BranchName:         row.BranchName,
		Flags:              Flags{IsRefund: row.IsRefund, IsEdited: row.IsEdited, IsPartial: row.IsPartial},
	}
}

// TransformSolderingPayment maps a soldering order payment onto the ledger record.
func TransformSolderingPayment(row SolderingPaymentRow) TransactionRecord {
	info := map[string]any{
		"order_id":         row.OrderID,
		"order_total":      nullMoney(row.OrderTotal),
		"payment_type":     DerivePaymentKind(row.IsEdited, row.IsRefund),
		"is_partial":       row.IsPartial,
		"is_edited":        row.IsEdited,
		"is_final_payment": row.IsFinalPayment,
	}
	return TransactionRecord{
		TransactionType:    SourceSolderingPayment,
		DateTime:           row.PaymentDate,
		Amount:             row.Amount,
		ReferenceNumber:    row.InvoiceNumber,
		CustomerName:       row.CustomerName,
		PaymentMethod:      row.PaymentMethod,
		TransactionSubtype: refundSubtype(row.IsRefund),
		AdditionalInfo:     info,
		BranchID:           row.BranchID,
		BranchName:         row.BranchName,
		Flags:              Flags{IsRefund: row.IsRefund, IsEdited: row.IsEdited, IsPartial: row.IsPartial},
	}
}

// TransformExpense maps an expense onto the ledger record. The paid source
// (safe or cash) is reported as the payment method.
func TransformExpense(row ExpenseRow) TransactionRecord {
	paidSource := row.PaidSource
	info := map[string]any{
		"paid_source": row.PaidSource,
		"note":        row.Note,
		"is_refund":   row.IsRefund,
		"user_name":   row.UserName,
	}
	return TransactionRecord{
		TransactionType:    SourceExpense,
		DateTime:           row.CreatedAt,
		Amount:             row.Amount,
		PaymentMethod:      &paidSource,
		MainCategoryName:   row.MainCategoryName,
		SubCategoryName:    row.SubCategoryName,
		TransactionSubtype: refundSubtype(row.IsRefund),
		AdditionalInfo:     info,
		BranchID:           row.BranchID,
		BranchName:         row.BranchName,
		Flags:              Flags{IsRefund: row.IsRefund},
	}
}

// TransformOtherIncome maps an other-income entry onto the ledger record.
func TransformOtherIncome(row OtherIncomeRow) TransactionRecord {
	return TransactionRecord{
		TransactionType:  SourceOtherIncome,
		DateTime:         row.Date,
		Amount:           row.Amount,
		MainCategoryName: row.CategoryName,
		AdditionalInfo:   map[string]any{"note": row.Note},
		BranchID:         row.BranchID,
		BranchName:       row.BranchName,
	}
}

// SafeTransformer returns the safe transaction mapper for a sign convention.
// The subtype is always the raw transaction type, whatever the refund state.
func SafeTransformer(conv SignConvention) func(SafeTransactionRow) TransactionRecord {
	return func(row SafeTransactionRow) TransactionRecord {
		subtype := row.TransactionType
		return TransactionRecord{
			TransactionType:    SourceSafeTransaction,
			DateTime:           row.CreatedAt,
			Amount:             SafeAmount(row.TransactionType, row.Amount, conv),
			TransactionSubtype: &subtype,
			AdditionalInfo:     map[string]any{"reason": row.Reason},
			BranchID:           row.BranchID,
			BranchName:         row.BranchName,
		}
	}
}
