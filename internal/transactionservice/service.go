// Package transactionservice manages the transaction log and the read-side
// history aggregation across service boundaries.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cypherbank/banking/internal/domain"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Create(ctx context.Context, arg domain.Transaction) (domain.Transaction, error)
	Get(ctx context.Context, id int64) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListByAccounts(ctx context.Context, accountIDs []int64) ([]domain.Transaction, error)
	Update(ctx context.Context, arg domain.Transaction) (domain.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// AccountDirectory resolves accounts living in the account service.
type AccountDirectory interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
}

// UserDirectory resolves users living in the user service.
type UserDirectory interface {
	Get(ctx context.Context, id int64) (domain.User, error)
}

// Service facilitates transaction log and history aggregation logic.
type Service struct {
	repo     Repo
	accounts AccountDirectory
	users    UserDirectory
}

// New returns transaction service struct to manage the transaction log.
func New(tr Repo, accounts AccountDirectory, users UserDirectory) *Service {
	return &Service{
		repo:     tr,
		accounts: accounts,
		users:    users,
	}
}

// Append stores the record, assigning id and timestamp if absent, and
// returns the stored record.
func (s *Service) Append(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	return s.repo.Create(ctx, arg)
}

// Get returns the transaction with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	return s.repo.Get(ctx, id)
}

// List returns all transactions.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.List(ctx)
}

// Amend overwrites the record with the given id. History is meant to be
// append-only; this exists for corrections only and mutates the audit
// trail in place.
func (s *Service) Amend(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)
	l.Warn().Int64("transaction_id", arg.ID).Msg("amending a stored transaction record")

	return s.repo.Update(ctx, arg)
}

// Delete removes the record with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ByUser returns all transactions involving any of the user's accounts.
func (s *Service) ByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}

	if len(ids) == 0 {
		return []domain.Transaction{}, nil
	}

	return s.repo.ListByAccounts(ctx, ids)
}

// ByUserWithEmails returns the user's transactions enriched with the
// resolved counterparty emails.
func (s *Service) ByUserWithEmails(ctx context.Context, userID int64) ([]domain.TransactionView, error) {
	transactions, err := s.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.Enrich(ctx, transactions), nil
}

// History returns the enriched transactions of a single account. The
// account itself must resolve; an unknown account is an error, not an
// empty history.
func (s *Service) History(ctx context.Context, accountID int64) ([]domain.TransactionView, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return s.Enrich(ctx, transactions), nil
}

// Enrich resolves the counterparty emails for each transaction. A side
// whose account or user cannot be resolved gets a nil email; the batch
// never fails as a whole. Within one call each distinct account and user
// is resolved at most once.
func (s *Service) Enrich(ctx context.Context, transactions []domain.Transaction) []domain.TransactionView {
	r := resolver{
		service:  s,
		accounts: make(map[int64]*domain.Account),
		users:    make(map[int64]*domain.User),
	}

	views := make([]domain.TransactionView, 0, len(transactions))

	for _, t := range transactions {
		views = append(views, domain.TransactionView{
			ID:            t.ID,
			Type:          t.Type,
			Amount:        t.Amount,
			FromUserEmail: r.email(ctx, t.FromAccountID),
			ToUserEmail:   r.email(ctx, t.ToAccountID),
			Timestamp:     t.Timestamp,
		})
	}

	return views
}

// resolver memoizes account and user lookups, including misses, for the
// duration of one aggregation call. This bounds the remote fan-out to
// O(distinct accounts + distinct users) instead of O(transactions).
type resolver struct {
	service  *Service
	accounts map[int64]*domain.Account
	users    map[int64]*domain.User
}

func (r *resolver) email(ctx context.Context, accountID *int64) *string {
	if accountID == nil {
		return nil
	}

	account := r.account(ctx, *accountID)
	if account == nil {
		return nil
	}

	user := r.user(ctx, account.UserID)
	if user == nil {
		return nil
	}

	email := user.Email

	return &email
}

func (r *resolver) account(ctx context.Context, id int64) *domain.Account {
	if account, ok := r.accounts[id]; ok {
		return account
	}

	account, err := r.service.accounts.Get(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Int64("account_id", id).Msg("counterparty account not resolved")
		r.accounts[id] = nil

		return nil
	}

	r.accounts[id] = &account

	return &account
}

func (r *resolver) user(ctx context.Context, id int64) *domain.User {
	if user, ok := r.users[id]; ok {
		return user
	}

	user, err := r.service.users.Get(ctx, id)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Int64("user_id", id).Msg("counterparty user not resolved")
		r.users[id] = nil

		return nil
	}

	r.users[id] = &user

	return &user
}
