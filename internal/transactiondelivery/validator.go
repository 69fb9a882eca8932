package transactiondelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/cypherbank/banking/internal/domain"
)

// ValidTransactionType validates whether the transaction type is one of
// the recorded movement kinds.
var ValidTransactionType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		switch t {
		case domain.Deposit, domain.Withdraw, domain.Transfer:
			return true
		}
	}

	return false
}
