package accountservice

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

func TestCreate(t *testing.T) {
	testAccount := randomAccount(1, 10, "100")

	testCases := []struct {
		name           string
		userID         int64
		initialBalance string
		buildStubs     func(repo *MockRepo)
		checkResponse  func(account domain.Account, err error)
	}{
		{
			name:           "InvalidBalance",
			userID:         testAccount.UserID,
			initialBalance: "!@#$",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.Empty(t, account)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:           "NegativeBalance",
			userID:         testAccount.UserID,
			initialBalance: "-100",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.Empty(t, account)
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:           "ZeroBalance",
			userID:         testAccount.UserID,
			initialBalance: "0",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Eq(testAccount.UserID), gomock.Eq(testAccount.Type), gomock.Eq("0")).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(account domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, account)
			},
		},
		{
			name:           "RepoError",
			userID:         testAccount.UserID,
			initialBalance: "100",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			checkResponse: func(account domain.Account, err error) {
				require.Empty(t, account)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
		{
			name:           "OK",
			userID:         testAccount.UserID,
			initialBalance: "100",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Eq(testAccount.UserID), gomock.Eq(testAccount.Type), gomock.Eq("100")).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(account domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, account)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			account, err := service.Create(context.Background(), tc.userID, testAccount.Type, tc.initialBalance)
			tc.checkResponse(account, err)
		})
	}
}

func TestCredit(t *testing.T) {
	testAccount := randomAccount(1, 10, "150")

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(account domain.Account, err error)
	}{
		{
			name:   "InvalidAmount",
			amount: "abc",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name:   "ZeroAmount",
			amount: "0",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "NegativeAmount",
			amount: "-50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "AccountNotFound",
			amount: "50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					AddBalance(gomock.Any(), gomock.Eq("50"), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name:   "OK",
			amount: "50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					AddBalance(gomock.Any(), gomock.Eq("50"), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(account domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, account)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			account, err := service.Credit(context.Background(), testAccount.ID, tc.amount)
			tc.checkResponse(account, err)
		})
	}
}

func TestDebit(t *testing.T) {
	testAccount := randomAccount(1, 10, "50")

	testCases := []struct {
		name          string
		amount        string
		buildStubs    func(repo *MockRepo)
		checkResponse func(account domain.Account, err error)
	}{
		{
			name:   "NegativeAmount",
			amount: "-50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrNegativeAmount)
			},
		},
		{
			name:   "InsufficientBalance",
			amount: "100",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					AddBalance(gomock.Any(), gomock.Eq("-100"), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(account domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientBalance)
			},
		},
		{
			name:   "OK",
			amount: "50",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().
					AddBalance(gomock.Any(), gomock.Eq("-50"), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(testAccount, nil)
			},
			checkResponse: func(account domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, account)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := NewMockRepo(ctrl)
			service := New(repo)

			tc.buildStubs(repo)

			account, err := service.Debit(context.Background(), testAccount.ID, tc.amount)
			tc.checkResponse(account, err)
		})
	}
}

func TestSetBalance(t *testing.T) {
	testAccount := randomAccount(1, 10, "0")

	t.Run("InvalidBalance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().SetBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := service.SetBalance(context.Background(), testAccount.ID, "not-a-number")
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("OK", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().
			SetBalance(gomock.Any(), gomock.Eq("0"), gomock.Eq(testAccount.ID)).
			Times(1).
			Return(testAccount, nil)

		account, err := service.SetBalance(context.Background(), testAccount.ID, "0")
		require.NoError(t, err)
		require.Equal(t, testAccount, account)
	})
}
