package banking

import (
	"context"
	"fmt"
	"time"

	"optiretail/internal/core/apperror"
	"optiretail/internal/core/tx"
	"optiretail/internal/core/types"
	"optiretail/internal/domain/audit"
	"optiretail/pkg/logger"
)

// History limits for the deposit audit trail.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// Service implements the banking report and the deposit confirmation toggle.
type Service struct {
	repo    Repository
	txm     tx.Manager
	audit   audit.Recorder
	history audit.Reader
}

// Option configures a Service.
type Option func(*Service)

// WithHistory sets the reader behind the deposit audit history.
func WithHistory(r audit.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.history = r
		}
	}
}

// NewService creates a new banking service.
func NewService(repo Repository, txm tx.Manager, recorder audit.Recorder, opts ...Option) *Service {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	s := &Service{repo: repo, txm: txm, audit: recorder, history: audit.NopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report lists deposits for the filter with their totals.
func (s *Service) Report(ctx context.Context, f Filter) (*Report, error) {
	if f.BranchID != nil && *f.BranchID <= 0 {
		return nil, apperror.NewInvalidField("branch_id", "branch_id must be a positive integer")
	}
	if f.To.Before(f.From) {
		return nil, apperror.NewInvalidDateRange("start_date must not be after end_date")
	}

	deposits, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("banking report: %w", err)
	}
	if deposits == nil {
		deposits = []BankDeposit{}
	}

	return &Report{Filter: f, Deposits: deposits, Summary: Summarize(deposits)}, nil
}

// SetConfirmed sets the confirmation flag of one deposit and returns it.
// Concurrent calls are not serialized; the last write wins. Setting the
// current value again succeeds and changes nothing.
func (s *Service) SetConfirmed(ctx context.Context, id int64, isConfirmed bool) (*BankDeposit, error) {
	if id <= 0 {
		return nil, apperror.NewInvalidField("id", "deposit id must be a positive integer")
	}

	var updated *BankDeposit
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		after, before, err := s.repo.SetConfirmed(ctx, id, isConfirmed)
		if err != nil {
			return err
		}
		updated = after

		if before.IsConfirmed == isConfirmed {
			return nil
		}

		action := audit.ActionConfirm
		if !isConfirmed {
			action = audit.ActionUnconfirm
		}
		oldState, newState := snapshot(before), snapshot(after)
		entry := audit.Entry{
			EntityType: EntityType,
			EntityID:   audit.EntityID(id),
			Action:     action,
			Changes: map[string]any{
				"before": oldState,
				"after":  newState,
				"diff":   audit.Diff(oldState, newState),
			},
		}
		audit.EnrichUser(ctx, &entry)
		if err := s.audit.Record(ctx, entry); err != nil {
			return fmt.Errorf("record audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bank deposit confirmation set",
		"deposit_id", id,
		"is_confirmed", isConfirmed,
	)
	return updated, nil
}

// History returns the audit trail of one deposit, newest first. A limit
// outside 1..MaxHistoryLimit falls back to the default or the cap.
func (s *Service) History(ctx context.Context, id int64, limit int) ([]audit.HistoryEntry, error) {
	if id <= 0 {
		return nil, apperror.NewInvalidField("id", "deposit id must be a positive integer")
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	entries, err := s.history.History(ctx, EntityType, audit.EntityID(id), limit)
	if err != nil {
		return nil, fmt.Errorf("deposit history: %w", err)
	}
	if entries == nil {
		entries = []audit.HistoryEntry{}
	}
	return entries, nil
}

// snapshot is the audited state of a deposit.
func snapshot(d *BankDeposit) map[string]any {
	return map[string]any{
		"id":              d.ID,
		"branch_id":       d.BranchID,
		"branch_name":     d.BranchName,
		"bank_account_id": derefOrNil(d.BankAccountID),
		"bank_name":       derefOrNil(d.BankName),
		"account_number":  derefOrNil(d.AccountNumber),
		"amount":          types.FormatMoney(d.Amount),
		"deposit_date":    d.DepositDate.Format(time.DateOnly),
		"is_confirmed":    d.IsConfirmed,
		"user_name":       derefOrNil(d.UserName),
		"note":            derefOrNil(d.Note),
		"created_at":      d.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at":      d.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func derefOrNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
