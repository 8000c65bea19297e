package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiretail/internal/core/apperror"
)

func TestDailyMoney_AllBranches(t *testing.T) {
	r := day(t, "2024-03-15")

	report, err := NewService(populatedRepo()).DailyMoney(context.Background(), r, nil)
	require.NoError(t, err)

	require.Len(t, report.Branches, 2)
	colombo03 := report.Branches[0]
	assert.Equal(t, int64(1), colombo03.BranchID)
	assert.Len(t, colombo03.Entries, 8)

	m := colombo03.Money
	assert.Equal(t, "1500.00", m.OrderPayments.StringFixed(2))
	assert.Equal(t, "2000.00", m.ChannelPayments.StringFixed(2))
	assert.Equal(t, "350.00", m.SolderingPayments.StringFixed(2))
	assert.Equal(t, "50.00", m.OtherIncome.StringFixed(2))
	assert.Equal(t, "3900.00", m.TotalReceived.StringFixed(2))
	assert.Equal(t, "1200.00", m.TotalExpenses.StringFixed(2))
	assert.Equal(t, "200.00", m.CashExpenses.StringFixed(2))
	assert.Equal(t, "1000.00", m.SafeExpenses.StringFixed(2))
	assert.Equal(t, "5000.00", m.BankDeposits.StringFixed(2))
	// cash 1500 + 350, other income 50, cash expense 200
	assert.Equal(t, "1700.00", m.CashInHand.StringFixed(2))

	require.Len(t, m.ByMethod, 2)
	assert.Equal(t, "card", m.ByMethod[0].Method)
	assert.Equal(t, "2000.00", m.ByMethod[0].Amount.StringFixed(2))
	assert.Equal(t, "cash", m.ByMethod[1].Method)
	assert.Equal(t, 2, m.ByMethod[1].Count)

	kandy := report.Branches[1]
	assert.Len(t, kandy.Entries, 1)
	assert.Equal(t, "700.00", kandy.Money.TotalReceived.StringFixed(2))

	assert.Equal(t, "4600.00", report.Totals.TotalReceived.StringFixed(2))
}

func TestDailyMoney_Indicators(t *testing.T) {
	r := day(t, "2024-03-15")
	id := int64(1)

	report, err := NewService(populatedRepo()).DailyMoney(context.Background(), r, &id)
	require.NoError(t, err)
	require.Len(t, report.Branches, 1)

	filled := 0
	for _, e := range report.Branches[0].Entries {
		assert.Equal(t, e.Record.Indicator(), e.Indicator)
		if e.Indicator == IndicatorFilled {
			filled++
		}
	}
	// only the partial channel payment is flagged
	assert.Equal(t, 1, filled)
}

func TestDailyMoney_UnknownBranch(t *testing.T) {
	r := day(t, "2024-03-15")
	id := int64(404)

	_, err := NewService(populatedRepo()).DailyMoney(context.Background(), r, &id)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDailyMoney_QuietBranchHasZeroes(t *testing.T) {
	repo := &fakeRepo{branches: []Branch{{ID: 3, Name: "Galle"}}}
	r := day(t, "2024-03-15")

	report, err := NewService(repo).DailyMoney(context.Background(), r, nil)
	require.NoError(t, err)
	require.Len(t, report.Branches, 1)

	b := report.Branches[0]
	assert.Empty(t, b.Entries)
	assert.Equal(t, "0.00", b.Money.CashInHand.StringFixed(2))
	assert.Empty(t, b.Money.ByMethod)
}
