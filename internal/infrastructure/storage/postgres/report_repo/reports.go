// Package report_repo provides the PostgreSQL readers behind the ledger reports.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"optiretail/internal/domain/reports"
	"optiretail/internal/infrastructure/storage/postgres"
)

// source describes how one ledger source is read: its table, display joins,
// fixed conditions and the columns the branch and date filters apply to.
type source struct {
	from      string
	joins     []string
	where     []string
	branchCol string
	dateCol   string
	amountCol string
	columns   []string
}

// latestInvoice joins at most one live invoice per order, the newest, so a
// re-issued invoice cannot duplicate the payment row or its sums.
func latestInvoice(table, columns, orderRef, alias string) string {
	return fmt.Sprintf(
		"LEFT JOIN LATERAL (SELECT %s FROM %s WHERE order_id = %s AND is_deleted = false ORDER BY id DESC LIMIT 1) %s ON true",
		columns, table, orderRef, alias,
	)
}

var orderPayments = source{
	from: "order_payments op",
	joins: []string{
		"JOIN orders o ON o.id = op.order_id",
		"JOIN branches b ON b.id = o.branch_id",
		"LEFT JOIN customers c ON c.id = o.customer_id",
		latestInvoice("invoices", "invoice_number, invoice_type", "o.id", "inv"),
		"LEFT JOIN users u ON u.id = op.user_id",
	},
	where: []string{
		"op.is_deleted = false",
		"o.is_deleted = false",
		"op.transaction_status = 'success'",
	},
	branchCol: "o.branch_id",
	dateCol:   "op.payment_date",
	amountCol: "op.amount",
	columns: []string{
		"op.id", "op.order_id", "o.branch_id", "b.branch_name", "op.amount",
		"op.payment_method", "op.payment_date", "op.is_edited", "op.is_partial",
		"op.is_final_payment", "o.is_refund", "inv.invoice_number", "inv.invoice_type",
		"c.name AS customer_name", "o.total_price AS order_total", "u.username AS user_name",
	},
}

var channelPayments = source{
	from: "channel_payments cp",
	joins: []string{
		"JOIN appointments a ON a.id = cp.appointment_id",
		"JOIN branches b ON b.id = a.branch_id",
		"LEFT JOIN patients p ON p.id = a.patient_id",
		"LEFT JOIN doctors d ON d.id = a.doctor_id",
	},
	where: []string{
		"cp.is_deleted = false",
		"a.is_deleted = false",
	},
	branchCol: "a.branch_id",
	dateCol:   "cp.payment_date",
	amountCol: "cp.amount",
	columns: []string{
		"cp.id", "cp.appointment_id", "a.branch_id", "b.branch_name", "cp.amount",
		"cp.payment_method", "cp.payment_date", "cp.is_edited", "cp.is_partial",
		"cp.is_final_payment", "a.is_refund", "a.channel_no",
		"p.name AS patient_name", "d.name AS doctor_name", "a.amount AS appointment_total",
	},
}

// Soldering invoice numbers come from the same read through a lateral join.
var solderingPayments = source{
	from: "soldering_payments sp",
	joins: []string{
		"JOIN soldering_orders so ON so.id = sp.order_id",
		"JOIN branches b ON b.id = so.branch_id",
		"LEFT JOIN customers c ON c.id = so.customer_id",
		latestInvoice("soldering_invoices", "invoice_number", "so.id", "si"),
	},
	where: []string{
		"sp.is_deleted = false",
		"so.is_deleted = false",
		"sp.transaction_status = 'success'",
	},
	branchCol: "so.branch_id",
	dateCol:   "sp.payment_date",
	amountCol: "sp.amount",
	columns: []string{
		"sp.id", "sp.order_id", "so.branch_id", "b.branch_name", "sp.amount",
		"sp.payment_method", "sp.payment_date", "sp.is_edited", "sp.is_partial",
		"sp.is_final_payment", "so.is_refund", "si.invoice_number",
		"c.name AS customer_name", "so.total_price AS order_total",
	},
}

var expenses = source{
	from: "expenses e",
	joins: []string{
		"JOIN branches b ON b.id = e.branch_id",
		"LEFT JOIN expense_main_categories mc ON mc.id = e.main_category_id",
		"LEFT JOIN expense_sub_categories sc ON sc.id = e.sub_category_id",
		"LEFT JOIN users u ON u.id = e.user_id",
	},
	branchCol: "e.branch_id",
	dateCol:   "e.created_at",
	amountCol: "e.amount",
	columns: []string{
		"e.id", "e.branch_id", "b.branch_name", "e.amount", "e.created_at",
		"mc.name AS main_category_name", "sc.name AS sub_category_name",
		"e.paid_source", "e.is_refund", "e.note", "u.username AS user_name",
	},
}

var otherIncomes = source{
	from: "other_incomes oi",
	joins: []string{
		"JOIN branches b ON b.id = oi.branch_id",
		"LEFT JOIN other_income_categories ic ON ic.id = oi.category_id",
	},
	branchCol: "oi.branch_id",
	dateCol:   "oi.date",
	amountCol: "oi.amount",
	columns: []string{
		"oi.id", "oi.branch_id", "b.branch_name", "oi.amount", "oi.date",
		"ic.name AS category_name", "oi.note",
	},
}

// Safe amounts are summed unsigned; the transaction type carries the direction.
var safeTransactions = source{
	from: "safe_transactions st",
	joins: []string{
		"JOIN branches b ON b.id = st.branch_id",
	},
	branchCol: "st.branch_id",
	dateCol:   "st.created_at",
	amountCol: "ABS(st.amount)",
	columns: []string{
		"st.id", "st.branch_id", "b.branch_name", "st.transaction_type",
		"st.amount", "st.created_at", "st.reason",
	},
}

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// scoped builds the FROM/JOIN/WHERE part of a source read with the given columns.
func (r *ReportRepo) scoped(s source, f reports.Filter, columns ...string) squirrel.SelectBuilder {
	q := r.builder.Select(columns...).From(s.from)
	for _, j := range s.joins {
		q = q.JoinClause(j)
	}
	for _, w := range s.where {
		q = q.Where(w)
	}
	q = q.Where(squirrel.Expr(s.dateCol+" BETWEEN ? AND ?", f.From, f.To))
	if f.BranchID != nil {
		q = q.Where(squirrel.Eq{s.branchCol: *f.BranchID})
	}
	return q
}

// listQuery orders rows newest first; the merge stage re-sorts across sources.
func (r *ReportRepo) listQuery(s source, f reports.Filter) squirrel.SelectBuilder {
	return r.scoped(s, f, s.columns...).OrderBy(s.dateCol + " DESC NULLS LAST")
}

// sumQuery counts rows and sums amounts for the same scope as listQuery.
func (r *ReportRepo) sumQuery(s source, f reports.Filter) squirrel.SelectBuilder {
	return r.scoped(s, f,
		"COUNT(*) AS count",
		fmt.Sprintf("COALESCE(SUM(%s), 0) AS amount", s.amountCol),
	)
}

func selectRows[R any](ctx context.Context, r *ReportRepo, s source, f reports.Filter) ([]R, error) {
	sql, args, err := r.listQuery(s, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", s.from, err)
	}

	rows := []R{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.QueryError("select "+s.from, err)
	}
	return rows, nil
}

func (r *ReportRepo) ListOrderPayments(ctx context.Context, f reports.Filter) ([]reports.OrderPaymentRow, error) {
	return selectRows[reports.OrderPaymentRow](ctx, r, orderPayments, f)
}

func (r *ReportRepo) ListChannelPayments(ctx context.Context, f reports.Filter) ([]reports.ChannelPaymentRow, error) {
	return selectRows[reports.ChannelPaymentRow](ctx, r, channelPayments, f)
}

func (r *ReportRepo) ListSolderingPayments(ctx context.Context, f reports.Filter) ([]reports.SolderingPaymentRow, error) {
	return selectRows[reports.SolderingPaymentRow](ctx, r, solderingPayments, f)
}

func (r *ReportRepo) ListExpenses(ctx context.Context, f reports.Filter) ([]reports.ExpenseRow, error) {
	return selectRows[reports.ExpenseRow](ctx, r, expenses, f)
}

func (r *ReportRepo) ListOtherIncomes(ctx context.Context, f reports.Filter) ([]reports.OtherIncomeRow, error) {
	return selectRows[reports.OtherIncomeRow](ctx, r, otherIncomes, f)
}

func (r *ReportRepo) ListSafeTransactions(ctx context.Context, f reports.Filter) ([]reports.SafeTransactionRow, error) {
	return selectRows[reports.SafeTransactionRow](ctx, r, safeTransactions, f)
}

type sourceTotal struct {
	Count  int64           `db:"count"`
	Amount decimal.Decimal `db:"amount"`
}

// SumBySource runs one aggregate per source plus the safe deposit total.
// The reads are independent of the list reads and share no snapshot with them.
func (r *ReportRepo) SumBySource(ctx context.Context, f reports.Filter) (reports.Totals, error) {
	totals := reports.Totals{BySource: make(map[reports.SourceType]reports.SourceTotal, len(reports.AllSources))}
	querier := r.txm.GetQuerier(ctx)

	bySource := map[reports.SourceType]source{
		reports.SourceOrderPayment:     orderPayments,
		reports.SourceChannelPayment:   channelPayments,
		reports.SourceSolderingPayment: solderingPayments,
		reports.SourceExpense:          expenses,
		reports.SourceOtherIncome:      otherIncomes,
		reports.SourceSafeTransaction:  safeTransactions,
	}

	for _, tag := range reports.AllSources {
		sql, args, err := r.sumQuery(bySource[tag], f).ToSql()
		if err != nil {
			return reports.Totals{}, fmt.Errorf("build %s sum: %w", tag, err)
		}

		var t sourceTotal
		if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
			return reports.Totals{}, postgres.QueryError("sum "+string(tag), err)
		}
		totals.BySource[tag] = reports.SourceTotal{Count: t.Count, Amount: t.Amount}
	}

	sql, args, err := r.depositQuery(f).ToSql()
	if err != nil {
		return reports.Totals{}, fmt.Errorf("build deposit sum: %w", err)
	}
	if err := querier.QueryRow(ctx, sql, args...).Scan(&totals.SafeDeposits); err != nil {
		return reports.Totals{}, postgres.QueryError("sum safe deposits", err)
	}

	return totals, nil
}

func (r *ReportRepo) depositQuery(f reports.Filter) squirrel.SelectBuilder {
	return r.scoped(safeTransactions, f, "COALESCE(SUM(ABS(st.amount)), 0)").
		Where(squirrel.Eq{"st.transaction_type": reports.SafeTypeDeposit})
}

// ListBranches returns every branch ordered by name.
func (r *ReportRepo) ListBranches(ctx context.Context) ([]reports.Branch, error) {
	sql, args, err := r.builder.Select("id", "branch_name").From("branches").OrderBy("branch_name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build branches query: %w", err)
	}

	branches := []reports.Branch{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &branches, sql, args...); err != nil {
		return nil, postgres.QueryError("select branches", err)
	}
	return branches, nil
}
