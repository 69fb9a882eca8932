// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherbank/banking/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, userID int64, accountType, balance string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Account, error)
	AddBalance(ctx context.Context, amount string, id int64) (domain.Account, error)
	SetBalance(ctx context.Context, newBalance string, id int64) (domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates an account for the given user with the given initial
// balance. The initial balance must not be negative.
func (s *Service) Create(ctx context.Context, userID int64, accountType, initialBalance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balance, err := decimal.NewFromString(initialBalance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balance.IsNegative() {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	return s.repo.Create(ctx, userID, accountType, balance.String())
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.repo.List(ctx)
}

// ListByUser returns accounts that are owned by the given user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Credit atomically adds the given positive amount to the account balance.
func (s *Service) Credit(ctx context.Context, id int64, amount string) (domain.Account, error) {
	parsed, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	return s.repo.AddBalance(ctx, parsed.String(), id)
}

// Debit atomically subtracts the given positive amount from the account
// balance. Returns domain.ErrInsufficientBalance when the balance is
// lower than the amount; the balance stays unchanged.
func (s *Service) Debit(ctx context.Context, id int64, amount string) (domain.Account, error) {
	parsed, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	return s.repo.AddBalance(ctx, parsed.Neg().String(), id)
}

// SetBalance overrides the account balance. Administrative operation,
// not part of the transfer protocol.
func (s *Service) SetBalance(ctx context.Context, id int64, newBalance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balance, err := decimal.NewFromString(newBalance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	return s.repo.SetBalance(ctx, balance.String(), id)
}

// Delete removes the account. Administrative operation.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func parseAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if parsed.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrNegativeAmount
	}

	return parsed, nil
}
