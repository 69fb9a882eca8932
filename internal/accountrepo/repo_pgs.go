// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/dbpkg"
	"github.com/cypherbank/banking/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns account RepoPGS bound to an already open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns account RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (user_id, type, balance)
VALUES
    ($1, $2, $3)
RETURNING id, user_id, type, balance, created_at, updated_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, userID int64, accountType, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, userID, accountType, balance)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInvalidAmount
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, user_id, type, balance, created_at, updated_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT
	id, user_id, type, balance, created_at, updated_at
FROM accounts
ORDER BY id
`

// List returns all accounts in insertion order.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Account, error) {
	return r.queryAccounts(ctx, listQuery)
}

const listByUserQuery = `
SELECT
	id, user_id, type, balance, created_at, updated_at
FROM accounts
WHERE user_id = $1
ORDER BY id
`

// ListByUser returns the accounts owned by the given user.
func (r *RepoPGS) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	return r.queryAccounts(ctx, listByUserQuery, userID)
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, updated_at = now()
WHERE id = $2
RETURNING id, user_id, type, balance, created_at, updated_at
`

// AddBalance changes the account's balance by the given signed amount and
// returns the changed account. The statement is atomic per account row;
// the balance check constraint keeps the result non-negative.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const setBalanceQuery = `
UPDATE accounts
SET balance = $1, updated_at = now()
WHERE id = $2
RETURNING id, user_id, type, balance, created_at, updated_at
`

// SetBalance overrides the account's balance. Administrative operation.
func (r *RepoPGS) SetBalance(ctx context.Context, newBalance string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setBalanceQuery, newBalance, id)

	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInvalidAmount
			}
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const deleteQuery = `
DELETE FROM accounts
WHERE id = $1
`

// Delete removes the account with the given id.
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
		return domain.ErrAccountNotFound
	}

	return nil
}

// Transfer debits the from account and credits the to account within a
// single database transaction so that either both balances change or
// neither does.
func (r *RepoPGS) Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	txRepo := NewTxRepoPGS(tx)

	// To avoid deadlocks execute statements in consistent id order.
	if fromID <= toID {
		result.FromAccount, err = txRepo.AddBalance(ctx, "-"+amount, fromID)
		if err != nil {
			return domain.TransferResult{}, err
		}

		result.ToAccount, err = txRepo.AddBalance(ctx, amount, toID)
		if err != nil {
			return domain.TransferResult{}, err
		}
	} else {
		result.ToAccount, err = txRepo.AddBalance(ctx, amount, toID)
		if err != nil {
			return domain.TransferResult{}, err
		}

		result.FromAccount, err = txRepo.AddBalance(ctx, "-"+amount, fromID)
		if err != nil {
			return domain.TransferResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, errorspkg.ErrInternal
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Balance,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	return a, err
}

func (r *RepoPGS) queryAccounts(ctx context.Context, query string, args ...interface{}) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
