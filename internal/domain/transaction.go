package domain

import (
	"errors"
	"time"
)

// ErrTransactionNotFound indicates that the transaction is not found.
var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction types. The (type, fromAccountId, toAccountId) triple is
// consistent with the type: DEPOSIT has no source, WITHDRAW has no
// destination, TRANSFER has both.
const (
	Deposit  = "DEPOSIT"
	Withdraw = "WITHDRAW"
	Transfer = "TRANSFER"
)

// Transaction holds a single recorded movement of money. The id and
// timestamp are assigned by the transaction log on creation.
type Transaction struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type" binding:"required,transactiontype"`
	FromAccountID  *int64    `json:"fromAccountId"`
	ToAccountID    *int64    `json:"toAccountId"`
	Amount         string    `json:"amount"` // must be positive
	Timestamp      time.Time `json:"timestamp"`
	IdempotencyKey string    `json:"idempotencyKey,omitempty"`
}

// TransactionView is the read projection of a transaction enriched with
// the resolved counterparty emails. An email is nil when the counterparty
// account or user cannot be resolved.
type TransactionView struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	FromUserEmail *string   `json:"fromUserEmail"`
	ToUserEmail   *string   `json:"toUserEmail"`
	Timestamp     time.Time `json:"timestamp"`
}
