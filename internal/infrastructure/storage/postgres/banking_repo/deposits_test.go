package banking_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiretail/internal/domain/banking"
)

func TestListQuery_AllFilters(t *testing.T) {
	repo := NewDepositRepo(nil)
	branch := int64(2)
	confirmed := false
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sql, args, err := repo.listQuery(banking.Filter{
		BranchID:    &branch,
		From:        from,
		To:          to,
		IsConfirmed: &confirmed,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM bank_deposits d JOIN branches b ON b.id = d.branch_id")
	assert.Contains(t, sql, "LEFT JOIN bank_accounts ba ON ba.id = d.bank_account_id")
	assert.Contains(t, sql, "d.deposit_date >= $1 AND d.deposit_date <= $2 AND d.branch_id = $3 AND d.is_confirmed = $4")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY d.deposit_date DESC, d.id DESC"))
	assert.Equal(t, []any{from, to, int64(2), false}, args)
}

func TestListQuery_NoFilters(t *testing.T) {
	sql, args, err := NewDepositRepo(nil).listQuery(banking.Filter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestSetConfirmedSQL_SingleStatement(t *testing.T) {
	assert.Equal(t, 1, strings.Count(setConfirmedSQL, "UPDATE bank_deposits"))
	assert.Contains(t, setConfirmedSQL, "prev.is_confirmed AS previous_confirmed")
	assert.NotContains(t, setConfirmedSQL, "FOR UPDATE")
}

func TestUpdatedDeposit_SplitRestoresPreviousState(t *testing.T) {
	prevUpdated := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	row := updatedDeposit{
		BankDeposit: banking.BankDeposit{
			ID:          41,
			BranchID:    3,
			IsConfirmed: true,
			UpdatedAt:   prevUpdated.Add(3 * time.Hour),
		},
		PreviousConfirmed: false,
		PreviousUpdatedAt: prevUpdated,
	}

	after, before := row.split()

	assert.True(t, after.IsConfirmed)
	assert.Equal(t, prevUpdated.Add(3*time.Hour), after.UpdatedAt)
	assert.False(t, before.IsConfirmed)
	assert.Equal(t, prevUpdated, before.UpdatedAt)
	assert.Equal(t, after.ID, before.ID)
	assert.Equal(t, after.BranchID, before.BranchID)
	assert.Contains(t, setConfirmedSQL, "prev.updated_at AS previous_updated_at")
}
