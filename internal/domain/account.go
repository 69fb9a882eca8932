// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates non-positive amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Account holds the authoritative balance for a single ledger account.
// Balance is mutated only through credit/debit operations.
type Account struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"` // never negative after a successful operation
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransferResult is the result of a transfer between two accounts.
type TransferResult struct {
	FromAccount Account `json:"fromAccount"`
	ToAccount   Account `json:"toAccount"`
}
