// Package transactionrepo manages repository layer of transaction records.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/dbpkg"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const createQuery = `
INSERT INTO
    transactions (type, from_account_id, to_account_id, amount, ts, idempotency_key)
VALUES
    ($1, $2, $3, $4, COALESCE($5, now()), $6)
ON CONFLICT (idempotency_key) DO NOTHING
RETURNING id, type, from_account_id, to_account_id, amount, ts, idempotency_key
`

const getByKeyQuery = `
SELECT
	id, type, from_account_id, to_account_id, amount, ts, idempotency_key
FROM transactions
WHERE idempotency_key = $1
`

// Create appends the record, assigning id and timestamp, and returns it.
// A record replayed with an already stored idempotency key is not
// duplicated; the stored record is returned instead.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var ts sql.NullTime
	if !arg.Timestamp.IsZero() {
		ts = sql.NullTime{Time: arg.Timestamp, Valid: true}
	}

	var key sql.NullString
	if arg.IdempotencyKey != "" {
		key = sql.NullString{String: arg.IdempotencyKey, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Type,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Amount,
		ts,
		key,
	)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows && key.Valid {
			// Replayed submission; return the already stored record.
			return scanTransaction(r.db.QueryRowContext(ctx, getByKeyQuery, key))
		}

		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, type, from_account_id, to_account_id, amount, ts, idempotency_key
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	id, type, from_account_id, to_account_id, amount, ts, idempotency_key
FROM transactions
ORDER BY id
`

// List returns all transactions in append order.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, listQuery)
}

const listByAccountQuery = `
SELECT
	id, type, from_account_id, to_account_id, amount, ts, idempotency_key
FROM transactions
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY id
`

// ListByAccount returns the transactions where the account appears as
// source or destination.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, listByAccountQuery, accountID)
}

const listByAccountsQuery = `
SELECT
	id, type, from_account_id, to_account_id, amount, ts, idempotency_key
FROM transactions
WHERE from_account_id = ANY($1) OR to_account_id = ANY($1)
ORDER BY id
`

// ListByAccounts returns the transactions where the source or destination
// is any of the given accounts.
func (r *RepoPGS) ListByAccounts(ctx context.Context, accountIDs []int64) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, listByAccountsQuery, pq.Array(accountIDs))
}

const updateQuery = `
UPDATE transactions
SET type = $1, from_account_id = $2, to_account_id = $3, amount = $4, ts = $5
WHERE id = $6
RETURNING id, type, from_account_id, to_account_id, amount, ts, idempotency_key
`

// Update overwrites the record with the given id. The idempotency key is
// never touched so a replayed append cannot resurrect overwritten state.
func (r *RepoPGS) Update(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery,
		arg.Type,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Amount,
		arg.Timestamp,
		arg.ID,
	)

	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "transactions_amount_check" {
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const deleteQuery = `
DELETE FROM transactions
WHERE id = $1
`

// Delete removes the record with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	affected, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if affected == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t   domain.Transaction
		key sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.Type,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.Timestamp,
		&key,
	)

	t.IdempotencyKey = key.String

	return t, err
}

func (r *RepoPGS) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
