package transferservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/cypherbank/banking/internal/domain"
	"github.com/cypherbank/banking/pkg/errorspkg"
	"github.com/cypherbank/banking/pkg/randompkg"
)

const testSinkTimeout = time.Second

func randomAccount(id, userID int64, balance string) domain.Account {
	return domain.Account{
		ID:        id,
		UserID:    userID,
		Type:      randompkg.AccountType(),
		Balance:   balance,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
		UpdatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// captureSubmit expects exactly one sink submission and delivers the
// submitted record on the returned channel.
func captureSubmit(sink *MockSink) chan domain.Transaction {
	records := make(chan domain.Transaction, 1)

	sink.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
			records <- tx
			return tx, nil
		})

	return records
}

func TestDeposit(t *testing.T) {
	testAccount := randomAccount(1, 10, "200")

	t.Run("OK", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().
			Credit(gomock.Any(), gomock.Eq(testAccount.ID), gomock.Eq("100")).
			Times(1).
			Return(testAccount, nil)

		records := captureSubmit(sink)

		account, err := service.Deposit(context.Background(), testAccount.ID, "100")
		require.NoError(t, err)
		require.Equal(t, testAccount, account)

		service.Flush()

		record := <-records
		require.Equal(t, domain.Deposit, record.Type)
		require.Nil(t, record.FromAccountID)
		require.NotNil(t, record.ToAccountID)
		require.Equal(t, testAccount.ID, *record.ToAccountID)
		require.Equal(t, "100", record.Amount)
		require.NotEmpty(t, record.IdempotencyKey)
	})

	t.Run("CreditFails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().
			Credit(gomock.Any(), gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Account{}, domain.ErrAccountNotFound)

		sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.Deposit(context.Background(), testAccount.ID, "100")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		service.Flush()
	})

	t.Run("SinkFailureDoesNotFailDeposit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().
			Credit(gomock.Any(), gomock.Eq(testAccount.ID), gomock.Eq("100")).
			Times(1).
			Return(testAccount, nil)

		sink.EXPECT().
			Submit(gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Transaction{}, errorspkg.ErrInternal)

		account, err := service.Deposit(context.Background(), testAccount.ID, "100")
		require.NoError(t, err)
		require.Equal(t, testAccount, account)

		service.Flush()
	})
}

func TestWithdraw(t *testing.T) {
	testAccount := randomAccount(1, 10, "100")

	t.Run("OK", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().
			Debit(gomock.Any(), gomock.Eq(testAccount.ID), gomock.Eq("40")).
			Times(1).
			Return(testAccount, nil)

		records := captureSubmit(sink)

		account, err := service.Withdraw(context.Background(), testAccount.ID, "40")
		require.NoError(t, err)
		require.Equal(t, testAccount, account)

		service.Flush()

		record := <-records
		require.Equal(t, domain.Withdraw, record.Type)
		require.NotNil(t, record.FromAccountID)
		require.Equal(t, testAccount.ID, *record.FromAccountID)
		require.Nil(t, record.ToAccountID)
		require.Equal(t, "40", record.Amount)
		require.NotEmpty(t, record.IdempotencyKey)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().
			Debit(gomock.Any(), gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Account{}, domain.ErrInsufficientBalance)

		sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.Withdraw(context.Background(), testAccount.ID, "150")
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		service.Flush()
	})
}

func TestTransfer(t *testing.T) {
	fromAccount := randomAccount(1, 10, "100")
	toAccount := randomAccount(2, 20, "10")

	testResult := domain.TransferResult{
		FromAccount: fromAccount,
		ToAccount:   toAccount,
	}

	testCases := []struct {
		name          string
		fromID        int64
		toID          int64
		amount        string
		buildStubs    func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink)
		checkResponse func(res domain.TransferResult, err error)
	}{
		{
			name:   "InvalidAmount",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "!@#$",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:   "NegativeAmount",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "-40",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "FromAccountNotFound",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "40",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(fromAccount.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name:   "ToAccountNotFound",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "40",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(fromAccount.ID)).
					Times(1).
					Return(fromAccount, nil)
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(toAccount.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name:   "InsufficientBalance",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "150",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(fromAccount.ID)).
					Times(1).
					Return(fromAccount, nil)
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(toAccount.ID)).
					Times(1).
					Return(toAccount, nil)
				repo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			name:   "RepoError",
			fromID: fromAccount.ID,
			toID:   toAccount.ID,
			amount: "40",
			buildStubs: func(ledger *MockLedger, repo *MockTransferRepo, sink *MockSink) {
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(fromAccount.ID)).
					Times(1).
					Return(fromAccount, nil)
				ledger.EXPECT().
					Get(gomock.Any(), gomock.Eq(toAccount.ID)).
					Times(1).
					Return(toAccount, nil)
				repo.EXPECT().
					Transfer(gomock.Any(), gomock.Eq(fromAccount.ID), gomock.Eq(toAccount.ID), gomock.Eq("40")).
					Times(1).
					Return(domain.TransferResult{}, errorspkg.ErrInternal)
				sink.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.TransferResult, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ledger := NewMockLedger(ctrl)
			repo := NewMockTransferRepo(ctrl)
			sink := NewMockSink(ctrl)
			service := New(ledger, repo, sink, testSinkTimeout)

			tc.buildStubs(ledger, repo, sink)

			res, err := service.Transfer(context.Background(), tc.fromID, tc.toID, tc.amount)
			tc.checkResponse(res, err)

			service.Flush()
		})
	}

	t.Run("OK", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().Get(gomock.Any(), gomock.Eq(fromAccount.ID)).Times(1).Return(fromAccount, nil)
		ledger.EXPECT().Get(gomock.Any(), gomock.Eq(toAccount.ID)).Times(1).Return(toAccount, nil)
		repo.EXPECT().
			Transfer(gomock.Any(), gomock.Eq(fromAccount.ID), gomock.Eq(toAccount.ID), gomock.Eq("40")).
			Times(1).
			Return(testResult, nil)

		records := captureSubmit(sink)

		res, err := service.Transfer(context.Background(), fromAccount.ID, toAccount.ID, "40")
		require.NoError(t, err)
		require.Equal(t, testResult, res)

		service.Flush()

		record := <-records
		require.Equal(t, domain.Transfer, record.Type)
		require.NotNil(t, record.FromAccountID)
		require.NotNil(t, record.ToAccountID)
		require.Equal(t, fromAccount.ID, *record.FromAccountID)
		require.Equal(t, toAccount.ID, *record.ToAccountID)
		require.Equal(t, "40", record.Amount)
		require.NotEmpty(t, record.IdempotencyKey)
	})

	t.Run("SameAccountIsLegal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := NewMockLedger(ctrl)
		repo := NewMockTransferRepo(ctrl)
		sink := NewMockSink(ctrl)
		service := New(ledger, repo, sink, testSinkTimeout)

		ledger.EXPECT().Get(gomock.Any(), gomock.Eq(fromAccount.ID)).Times(2).Return(fromAccount, nil)
		repo.EXPECT().
			Transfer(gomock.Any(), gomock.Eq(fromAccount.ID), gomock.Eq(fromAccount.ID), gomock.Eq("40")).
			Times(1).
			Return(domain.TransferResult{FromAccount: fromAccount, ToAccount: fromAccount}, nil)

		records := captureSubmit(sink)

		_, err := service.Transfer(context.Background(), fromAccount.ID, fromAccount.ID, "40")
		require.NoError(t, err)

		service.Flush()

		record := <-records
		require.Equal(t, domain.Transfer, record.Type)
	})
}
