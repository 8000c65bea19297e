package reports

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"optiretail/internal/core/apperror"
	"optiretail/pkg/logger"
)

var tracer = otel.Tracer("optiretail/reports")

// Service provides ledger report generation.
type Service struct {
	repo          Repository
	sign          SignConvention
	slowThreshold time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithSignConvention sets how safe expense amounts are signed.
func WithSignConvention(c SignConvention) Option {
	return func(s *Service) { s.sign = c }
}

// WithSlowThreshold sets the duration after which a report is logged as slow.
// Zero disables slow-report logging.
func WithSlowThreshold(d time.Duration) Option {
	return func(s *Service) { s.slowThreshold = d }
}

// NewService creates a new reports service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, sign: SignUnsigned}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// collect runs one reader and maps its rows into tagged ledger records.
func collect[R any](
	ctx context.Context,
	tag SourceType,
	read func(context.Context, Filter) ([]R, error),
	transform func(R) TransactionRecord,
	f Filter,
) ([]TransactionRecord, error) {
	ctx, span := tracer.Start(ctx, "reports.read",
		trace.WithAttributes(attribute.String("ledger.source", string(tag))))
	defer span.End()

	rows, err := read(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read %s: %w", tag, err)
	}

	records := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec := transform(row)
		rec.TransactionType = tag
		records = append(records, rec)
	}
	return records, nil
}

// Transactions reads all six sources concurrently and merges them newest first.
// The first failing source cancels the others and fails the whole call.
func (s *Service) Transactions(ctx context.Context, f Filter) ([]TransactionRecord, error) {
	lists := make([][]TransactionRecord, len(AllSources))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		lists[0], err = collect(gctx, SourceOrderPayment, s.repo.ListOrderPayments, TransformOrderPayment, f)
		return err
	})
	g.Go(func() (err error) {
		lists[1], err = collect(gctx, SourceChannelPayment, s.repo.ListChannelPayments, TransformChannelPayment, f)
		return err
	})
	g.Go(func() (err error) {
		lists[2], err = collect(gctx, SourceSolderingPayment, s.repo.ListSolderingPayments, TransformSolderingPayment, f)
		return err
	})
	g.Go(func() (err error) {
		lists[3], err = collect(gctx, SourceExpense, s.repo.ListExpenses, TransformExpense, f)
		return err
	})
	g.Go(func() (err error) {
		lists[4], err = collect(gctx, SourceOtherIncome, s.repo.ListOtherIncomes, TransformOtherIncome, f)
		return err
	})
	g.Go(func() (err error) {
		lists[5], err = collect(gctx, SourceSafeTransaction, s.repo.ListSafeTransactions, SafeTransformer(s.sign), f)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return MergeSorted(lists...), nil
}

// Summary queries the headline totals independently of the record list.
// A write landing between the list reads and these reads can make them disagree.
func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	totals, err := s.repo.SumBySource(ctx, f)
	if err != nil {
		return Summary{}, fmt.Errorf("sum by source: %w", err)
	}
	return NewSummary(totals), nil
}

// TimeReportRequest selects a branch, a normalized range and a page.
type TimeReportRequest struct {
	BranchID int64
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// BranchTimeReport builds the paginated branch ledger with its summary.
func (s *Service) BranchTimeReport(ctx context.Context, req TimeReportRequest) (*TimeReport, error) {
	if req.BranchID <= 0 {
		return nil, apperror.NewInvalidField("branch_id", "branch_id must be a positive integer")
	}
	defer s.logIfSlow(ctx, "branch_time_report", time.Now(), "branch_id", req.BranchID)

	f := Filter{BranchID: &req.BranchID, From: req.From, To: req.To}

	records, err := s.Transactions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("branch time report: %w", err)
	}

	summary, err := s.Summary(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("branch time report: %w", err)
	}

	return &TimeReport{
		BranchID:     req.BranchID,
		From:         req.From,
		To:           req.To,
		Summary:      summary,
		Transactions: Paginate(records, req.Page, req.PageSize),
	}, nil
}

// BranchLedger returns every merged record with the summary, unpaginated. Used by exports.
func (s *Service) BranchLedger(ctx context.Context, branchID int64, from, to time.Time) ([]TransactionRecord, Summary, error) {
	report, err := s.BranchTimeReport(ctx, TimeReportRequest{
		BranchID: branchID,
		From:     from,
		To:       to,
		Page:     1,
		PageSize: MaxPageSize,
	})
	if err != nil {
		return nil, Summary{}, err
	}
	if report.Transactions.TotalPages <= 1 {
		return report.Transactions.Items, report.Summary, nil
	}

	records, err := s.Transactions(ctx, Filter{BranchID: &branchID, From: from, To: to})
	if err != nil {
		return nil, Summary{}, fmt.Errorf("branch ledger: %w", err)
	}
	return records, report.Summary, nil
}

func (s *Service) logIfSlow(ctx context.Context, name string, started time.Time, keysAndValues ...any) {
	elapsed := time.Since(started)
	if s.slowThreshold <= 0 || elapsed < s.slowThreshold {
		return
	}
	kv := append([]any{"report", name, "elapsed_ms", elapsed.Milliseconds()}, keysAndValues...)
	logger.Warn(ctx, "slow report", kv...)
}
