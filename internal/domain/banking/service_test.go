package banking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiretail/internal/core/apperror"
	appctx "optiretail/internal/core/context"
	"optiretail/internal/core/tx"
	"optiretail/internal/core/types"
	"optiretail/internal/domain/audit"
)

type memRepo struct {
	mu       sync.Mutex
	deposits map[int64]*BankDeposit
	listErr  error
}

func newMemRepo(deps ...BankDeposit) *memRepo {
	r := &memRepo{deposits: make(map[int64]*BankDeposit)}
	for i := range deps {
		d := deps[i]
		r.deposits[d.ID] = &d
	}
	return r
}

func (r *memRepo) List(_ context.Context, f Filter) ([]BankDeposit, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []BankDeposit
	for _, d := range r.deposits {
		if f.BranchID != nil && d.BranchID != *f.BranchID {
			continue
		}
		if f.IsConfirmed != nil && d.IsConfirmed != *f.IsConfirmed {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memRepo) SetConfirmed(_ context.Context, id int64, isConfirmed bool) (*BankDeposit, *BankDeposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[id]
	if !ok {
		return nil, nil, apperror.NewNotFound("bank_deposit", id)
	}
	before := *d
	d.IsConfirmed = isConfirmed
	d.UpdatedAt = before.UpdatedAt.Add(time.Minute)
	after := *d
	return &after, &before, nil
}

type memRecorder struct {
	entries []audit.Entry
	err     error
}

type memHistory struct {
	entries  []audit.HistoryEntry
	err      error
	gotType  string
	gotID    string
	gotLimit int
}

func (m *memHistory) History(_ context.Context, entityType, entityID string, limit int) ([]audit.HistoryEntry, error) {
	m.gotType, m.gotID, m.gotLimit = entityType, entityID, limit
	return m.entries, m.err
}

func (m *memRecorder) Record(_ context.Context, e audit.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func deposit(id, branch int64, amount string, confirmed bool) BankDeposit {
	return BankDeposit{
		ID:          id,
		BranchID:    branch,
		Amount:      types.MustMoney(amount),
		DepositDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		IsConfirmed: confirmed,
	}
}

func TestSetConfirmed_Idempotent(t *testing.T) {
	repo := newMemRepo(deposit(1, 1, "5000", false))
	rec := &memRecorder{}
	svc := NewService(repo, tx.Nop{}, rec)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "7", UserName: "manager"})

	dep, err := svc.SetConfirmed(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, dep.IsConfirmed)

	dep, err = svc.SetConfirmed(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, dep.IsConfirmed)
	assert.True(t, repo.deposits[1].IsConfirmed)

	// only the real change is audited
	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, EntityType, e.EntityType)
	assert.Equal(t, "1", e.EntityID)
	assert.Equal(t, audit.ActionConfirm, e.Action)
	assert.Equal(t, "manager", e.UserName)
	diff := e.Changes["diff"].(map[string]any)
	assert.Equal(t, map[string]any{"old": false, "new": true}, diff["is_confirmed"])
	assert.Contains(t, diff, "updated_at")
	assert.NotContains(t, diff, "amount")
}

func TestSetConfirmed_AuditsFullSnapshots(t *testing.T) {
	d := deposit(4, 2, "125000.5", false)
	note := "cheque batch"
	d.Note = &note
	repo := newMemRepo(d)
	rec := &memRecorder{}

	_, err := NewService(repo, tx.Nop{}, rec).SetConfirmed(context.Background(), 4, true)
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	before := rec.entries[0].Changes["before"].(map[string]any)
	after := rec.entries[0].Changes["after"].(map[string]any)

	assert.Equal(t, false, before["is_confirmed"])
	assert.Equal(t, true, after["is_confirmed"])
	for _, snap := range []map[string]any{before, after} {
		assert.Equal(t, int64(4), snap["id"])
		assert.Equal(t, int64(2), snap["branch_id"])
		assert.Equal(t, "125000.50", snap["amount"])
		assert.Equal(t, "2024-03-15", snap["deposit_date"])
		assert.Equal(t, "cheque batch", snap["note"])
		assert.Nil(t, snap["bank_account_id"])
	}
	assert.NotEqual(t, before["updated_at"], after["updated_at"])
}

func TestSetConfirmed_EitherDirection(t *testing.T) {
	repo := newMemRepo(deposit(1, 1, "5000", true))
	rec := &memRecorder{}
	svc := NewService(repo, tx.Nop{}, rec)

	dep, err := svc.SetConfirmed(context.Background(), 1, false)
	require.NoError(t, err)
	assert.False(t, dep.IsConfirmed)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, audit.ActionUnconfirm, rec.entries[0].Action)

	dep, err = svc.SetConfirmed(context.Background(), 1, true)
	require.NoError(t, err)
	assert.True(t, dep.IsConfirmed)
}

func TestSetConfirmed_NotFound(t *testing.T) {
	svc := NewService(newMemRepo(), tx.Nop{}, nil)

	_, err := svc.SetConfirmed(context.Background(), 99, true)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetConfirmed_InvalidID(t *testing.T) {
	svc := NewService(newMemRepo(), tx.Nop{}, nil)

	_, err := svc.SetConfirmed(context.Background(), 0, true)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSetConfirmed_AuditFailureFails(t *testing.T) {
	repo := newMemRepo(deposit(1, 1, "5000", false))
	svc := NewService(repo, tx.Nop{}, &memRecorder{err: errors.New("disk full")})

	_, err := svc.SetConfirmed(context.Background(), 1, true)
	assert.ErrorContains(t, err, "disk full")
}

func TestReport(t *testing.T) {
	repo := newMemRepo(
		deposit(1, 1, "5000.00", true),
		deposit(2, 1, "1250.50", false),
		deposit(3, 2, "999.99", false),
	)
	svc := NewService(repo, tx.Nop{}, nil)
	branch := int64(1)

	report, err := svc.Report(context.Background(), Filter{BranchID: &branch})
	require.NoError(t, err)

	assert.Len(t, report.Deposits, 2)
	s := report.Summary
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.ConfirmedCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, "6250.50", s.TotalAmount.StringFixed(2))
	assert.Equal(t, "5000.00", s.ConfirmedAmount.StringFixed(2))
	assert.Equal(t, "1250.50", s.PendingAmount.StringFixed(2))
}

func TestReport_Empty(t *testing.T) {
	report, err := NewService(newMemRepo(), tx.Nop{}, nil).Report(context.Background(), Filter{})
	require.NoError(t, err)

	assert.NotNil(t, report.Deposits)
	assert.Equal(t, "0.00", report.Summary.TotalAmount.StringFixed(2))
}

func TestReport_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), tx.Nop{}, nil)
	bad := int64(-1)

	_, err := svc.Report(context.Background(), Filter{BranchID: &bad})
	assert.Error(t, err)

	now := time.Now()
	_, err = svc.Report(context.Background(), Filter{From: now, To: now.Add(-time.Hour)})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidDateRange, appErr.Code)
}

func TestReport_RepositoryError(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = errors.New("pool closed")

	_, err := NewService(repo, tx.Nop{}, nil).Report(context.Background(), Filter{})
	assert.ErrorContains(t, err, "pool closed")
}

func TestHistory(t *testing.T) {
	user := "manager"
	hist := &memHistory{entries: []audit.HistoryEntry{
		{ID: 2, EntityType: EntityType, EntityID: "7", Action: audit.ActionUnconfirm, UserName: &user},
		{ID: 1, EntityType: EntityType, EntityID: "7", Action: audit.ActionConfirm, UserName: &user},
	}}
	svc := NewService(newMemRepo(), tx.Nop{}, nil, WithHistory(hist))

	entries, err := svc.History(context.Background(), 7, 10)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionUnconfirm, entries[0].Action)
	assert.Equal(t, EntityType, hist.gotType)
	assert.Equal(t, "7", hist.gotID)
	assert.Equal(t, 10, hist.gotLimit)
}

func TestHistory_Limits(t *testing.T) {
	hist := &memHistory{}
	svc := NewService(newMemRepo(), tx.Nop{}, nil, WithHistory(hist))

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"unset", 0, DefaultHistoryLimit},
		{"negative", -5, DefaultHistoryLimit},
		{"within", 25, 25},
		{"above cap", 10_000, MaxHistoryLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := svc.History(context.Background(), 1, tt.limit)
			require.NoError(t, err)
			assert.NotNil(t, entries)
			assert.Equal(t, tt.want, hist.gotLimit)
		})
	}
}

func TestHistory_Errors(t *testing.T) {
	svc := NewService(newMemRepo(), tx.Nop{}, nil, WithHistory(&memHistory{err: errors.New("pool closed")}))

	_, err := svc.History(context.Background(), 1, 0)
	assert.ErrorContains(t, err, "pool closed")

	_, err = svc.History(context.Background(), -3, 0)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestHistory_WithoutReaderIsEmpty(t *testing.T) {
	entries, err := NewService(newMemRepo(), tx.Nop{}, nil).History(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
