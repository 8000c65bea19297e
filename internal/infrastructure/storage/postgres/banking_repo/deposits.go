// Package banking_repo provides the PostgreSQL repository for bank deposits.
package banking_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"optiretail/internal/core/apperror"
	"optiretail/internal/domain/banking"
	"optiretail/internal/infrastructure/storage/postgres"
)

var depositColumns = []string{
	"d.id", "d.branch_id", "b.branch_name", "d.bank_account_id", "ba.bank_name",
	"ba.account_number", "d.amount", "d.deposit_date", "d.is_confirmed",
	"u.username AS user_name", "d.note", "d.created_at", "d.updated_at",
}

// DepositRepo implements banking.Repository.
type DepositRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ banking.Repository = (*DepositRepo)(nil)

// NewDepositRepo creates a new deposit repository.
func NewDepositRepo(txm *postgres.TxManager) *DepositRepo {
	return &DepositRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *DepositRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(depositColumns...).
		From("bank_deposits d").
		Join("branches b ON b.id = d.branch_id").
		LeftJoin("bank_accounts ba ON ba.id = d.bank_account_id").
		LeftJoin("users u ON u.id = d.user_id")
}

func (r *DepositRepo) listQuery(f banking.Filter) squirrel.SelectBuilder {
	q := r.baseSelect()

	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"d.deposit_date": f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"d.deposit_date": f.To})
	}
	if f.BranchID != nil {
		q = q.Where(squirrel.Eq{"d.branch_id": *f.BranchID})
	}
	if f.IsConfirmed != nil {
		q = q.Where(squirrel.Eq{"d.is_confirmed": *f.IsConfirmed})
	}

	return q.OrderBy("d.deposit_date DESC", "d.id DESC")
}

// List returns deposits matching the filter, newest first.
func (r *DepositRepo) List(ctx context.Context, f banking.Filter) ([]banking.BankDeposit, error) {
	sql, args, err := r.listQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deposits query: %w", err)
	}

	deposits := []banking.BankDeposit{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &deposits, sql, args...); err != nil {
		return nil, postgres.QueryError("select deposits", err)
	}
	return deposits, nil
}

// setConfirmedSQL updates the flag and reads the row back with its display joins.
// The replaced values are taken from the pre-update snapshot in the same statement.
const setConfirmedSQL = `
	WITH prev AS (
		SELECT id, is_confirmed, updated_at FROM bank_deposits WHERE id = $1
	), upd AS (
		UPDATE bank_deposits d
		SET is_confirmed = $2, updated_at = now()
		FROM prev
		WHERE d.id = prev.id
		RETURNING d.*
	)
	SELECT d.id, d.branch_id, b.branch_name, d.bank_account_id, ba.bank_name,
	       ba.account_number, d.amount, d.deposit_date, d.is_confirmed,
	       u.username AS user_name, d.note, d.created_at, d.updated_at,
	       prev.is_confirmed AS previous_confirmed, prev.updated_at AS previous_updated_at
	FROM upd d
	JOIN prev ON prev.id = d.id
	JOIN branches b ON b.id = d.branch_id
	LEFT JOIN bank_accounts ba ON ba.id = d.bank_account_id
	LEFT JOIN users u ON u.id = d.user_id
`

type updatedDeposit struct {
	banking.BankDeposit
	PreviousConfirmed bool      `db:"previous_confirmed"`
	PreviousUpdatedAt time.Time `db:"previous_updated_at"`
}

// SetConfirmed writes is_confirmed in one statement. No row lock is taken;
// concurrent toggles resolve as last write wins.
func (r *DepositRepo) SetConfirmed(ctx context.Context, id int64, isConfirmed bool) (*banking.BankDeposit, *banking.BankDeposit, error) {
	var row updatedDeposit
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, setConfirmedSQL, id, isConfirmed)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil, apperror.NewNotFound("bank_deposit", id)
		}
		return nil, nil, postgres.QueryError("set deposit confirmation", err)
	}

	after, before := row.split()
	return &after, &before, nil
}

// split returns the updated row and the row as it was before the update.
func (u updatedDeposit) split() (after, before banking.BankDeposit) {
	after = u.BankDeposit
	before = u.BankDeposit
	before.IsConfirmed = u.PreviousConfirmed
	before.UpdatedAt = u.PreviousUpdatedAt
	return after, before
}
