package reports

// Indicator is the two-state marker the daily money report prints next to a row.
type Indicator string

const (
	IndicatorFilled Indicator = "●"
	IndicatorEmpty  Indicator = "○"
)

// SpecialIndicator is filled when the record is a refund, was edited, or is a partial payment.
func SpecialIndicator(isRefund, isEdited, isPartial bool) Indicator {
	if isRefund || isEdited || isPartial {
		return IndicatorFilled
	}
	return IndicatorEmpty
}

// PaymentKind is the derived type of a payment; it is never stored.
type PaymentKind string

const (
	PaymentKindSave   PaymentKind = "save"
	PaymentKindUpdate PaymentKind = "update"
	PaymentKindRefund PaymentKind = "refund"
)

// DerivePaymentKind classifies a payment from its edited flag and the refund flag of its owner.
// A refunded owner wins over an edit.
func DerivePaymentKind(isEdited, ownerIsRefund bool) PaymentKind {
	switch {
	case ownerIsRefund:
		return PaymentKindRefund
	case isEdited:
		return PaymentKindUpdate
	default:
		return PaymentKindSave
	}
}
