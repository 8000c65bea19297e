package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecialIndicator(t *testing.T) {
	tests := []struct {
		refund, edited, partial bool
		want                    Indicator
	}{
		{false, false, false, IndicatorEmpty},
		{true, false, false, IndicatorFilled},
		{false, true, false, IndicatorFilled},
		{false, false, true, IndicatorFilled},
		{true, true, false, IndicatorFilled},
		{true, false, true, IndicatorFilled},
		{false, true, true, IndicatorFilled},
		{true, true, true, IndicatorFilled},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SpecialIndicator(tt.refund, tt.edited, tt.partial),
			"refund=%v edited=%v partial=%v", tt.refund, tt.edited, tt.partial)
	}
}

func TestDerivePaymentKind(t *testing.T) {
	assert.Equal(t, PaymentKindSave, DerivePaymentKind(false, false))
	assert.Equal(t, PaymentKindUpdate, DerivePaymentKind(true, false))
	assert.Equal(t, PaymentKindRefund, DerivePaymentKind(false, true))
	assert.Equal(t, PaymentKindRefund, DerivePaymentKind(true, true))
}

func TestTransactionRecordIndicator(t *testing.T) {
	rec := TransactionRecord{Flags: Flags{IsPartial: true}}
	assert.Equal(t, IndicatorFilled, rec.Indicator())

	rec = TransactionRecord{}
	assert.Equal(t, IndicatorEmpty, rec.Indicator())
}
