package dto

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/types"
	"optiretail/internal/domain/reports"
)

func TestFromTransactionRecord_NullsAreExplicit(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	rec := reports.TransformOtherIncome(reports.OtherIncomeRow{
		ID:       1,
		BranchID: 1,
		Amount:   types.MustMoney("12.5"),
	})

	body, err := json.Marshal(FromTransactionRecord(rec, loc))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	for _, key := range []string{
		"date_time", "reference_number", "customer_name", "payment_method",
		"main_category_name", "sub_category_name", "channel_no", "transaction_subtype",
	} {
		v, ok := got[key]
		assert.True(t, ok, "%s must be present", key)
		assert.Nil(t, v, "%s must be null", key)
	}
	assert.Equal(t, "12.50", got["amount"])
	assert.Equal(t, "other_income", got["transaction_type"])
}

func TestFromTransactionRecord_FormatsAmountsAndZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)

	paid := time.Date(2025, 1, 5, 4, 30, 0, 0, time.UTC)
	rec := reports.TransformOrderPayment(reports.OrderPaymentRow{
		Amount:      types.MustMoney("1500"),
		PaymentDate: &paid,
	})

	resp := FromTransactionRecord(rec, loc)
	assert.Equal(t, "1500.00", resp.Amount)
	require.NotNil(t, resp.DateTime)
	assert.Equal(t, "2025-01-05T10:00:00+05:30", *resp.DateTime)
	assert.Nil(t, resp.AdditionalInfo["order_total"])
}

func TestJSONValue(t *testing.T) {
	m := types.MustMoney("3000")
	assert.Equal(t, "3000.00", jsonValue(m))
	assert.Equal(t, "3000.00", jsonValue(&m))
	assert.Equal(t, true, jsonValue(true))
}

func TestFromSummary_Zero(t *testing.T) {
	s := FromSummary(reports.NewSummary(reports.Totals{}))
	assert.Equal(t, "0.00", s.TotalReceived)
	assert.Equal(t, "0.00", s.NetTotal)
	assert.Equal(t, int64(0), s.TransactionCount)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(apperror.NewInvalidField("branch_id", "branch_id is required"))

	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, apperror.CodeValidation, resp.Code)
	assert.Equal(t, "branch_id", resp.Details["field"])

	resp = NewErrorResponse(apperror.NewUnauthorized("nope"))
	assert.NotNil(t, resp.Details)
}
