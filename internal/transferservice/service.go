// Package transferservice orchestrates balance mutations and propagates
// each completed mutation to the transaction log service.
package transferservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherbank/banking/internal/domain"
)

// Ledger provides the account service layer interface needed by the
// transfer coordinator.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Ledger interface {
	Get(ctx context.Context, id int64) (domain.Account, error)
	Credit(ctx context.Context, id int64, amount string) (domain.Account, error)
	Debit(ctx context.Context, id int64, amount string) (domain.Account, error)
}

// TransferRepo executes the two-account balance mutation atomically.
type TransferRepo interface {
	Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferResult, error)
}

// Sink accepts transaction records on behalf of the transaction log service.
type Sink interface {
	Submit(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
}

// Service facilitates transfer coordination logic.
type Service struct {
	ledger      Ledger
	repo        TransferRepo
	sink        Sink
	sinkTimeout time.Duration

	wg sync.WaitGroup
}

// New returns transfer service struct to coordinate balance mutations.
func New(ledger Ledger, repo TransferRepo, sink Sink, sinkTimeout time.Duration) *Service {
	return &Service{
		ledger:      ledger,
		repo:        repo,
		sink:        sink,
		sinkTimeout: sinkTimeout,
	}
}

// Deposit credits the account and submits a DEPOSIT record to the
// transaction log. The record submission is best-effort: its failure
// does not roll back or fail the already committed credit.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	account, err := s.ledger.Credit(ctx, accountID, amount)
	if err != nil {
		return domain.Account{}, err
	}

	s.submitRecord(ctx, domain.Transaction{
		Type:        domain.Deposit,
		ToAccountID: &accountID,
	}, amount)

	return account, nil
}

// Withdraw debits the account and submits a WITHDRAW record to the
// transaction log. A failed debit produces no record.
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount string) (domain.Account, error) {
	account, err := s.ledger.Debit(ctx, accountID, amount)
	if err != nil {
		return domain.Account{}, err
	}

	s.submitRecord(ctx, domain.Transaction{
		Type:          domain.Withdraw,
		FromAccountID: &accountID,
	}, amount)

	return account, nil
}

// Transfer moves the amount between the two accounts and submits a
// TRANSFER record. Both balances change or neither does. Transferring
// to the same account is legal and conserves the balance.
func (s *Service) Transfer(ctx context.Context, fromID, toID int64, amount string) (domain.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.TransferResult{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.TransferResult{}, domain.ErrNegativeAmount
	}

	fromAccount, err := s.ledger.Get(ctx, fromID)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if _, err := s.ledger.Get(ctx, toID); err != nil {
		return domain.TransferResult{}, err
	}

	fromBalance, err := decimal.NewFromString(fromAccount.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.TransferResult{}, err
	}

	if fromBalance.LessThan(amountDecimal) {
		return domain.TransferResult{}, domain.ErrInsufficientBalance
	}

	result, err := s.repo.Transfer(ctx, fromID, toID, amount)
	if err != nil {
		return domain.TransferResult{}, err
	}

	s.submitRecord(ctx, domain.Transaction{
		Type:          domain.Transfer,
		FromAccountID: &fromID,
		ToAccountID:   &toID,
	}, amount)

	return result, nil
}

// Flush waits for all in-flight record submissions. Called on shutdown
// and in tests.
func (s *Service) Flush() {
	s.wg.Wait()
}

// submitRecord fires an asynchronous, best-effort submission of exactly
// one transaction record for a completed mutation. The idempotency key
// lets the log deduplicate a retried submission.
func (s *Service) submitRecord(ctx context.Context, record domain.Transaction, amount string) {
	record.Amount = amount
	record.IdempotencyKey = uuid.NewString()

	l := zerolog.Ctx(ctx).With().Str("idempotency_key", record.IdempotencyKey).Logger()

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		submitCtx, cancel := context.WithTimeout(l.WithContext(context.Background()), s.sinkTimeout)
		defer cancel()

		if _, err := s.sink.Submit(submitCtx, record); err != nil {
			// Balances are the source of truth; the log converges later.
			l.Error().Err(err).Str("type", record.Type).Msg("transaction record submission failed")
		}
	}()
}
