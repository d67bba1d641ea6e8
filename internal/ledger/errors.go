package ledger

import (
	"errors"

	"github.com/hance08/bankd/internal/store"
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCurrencyMismatch = errors.New("currency does not match account currency")
	ErrSameAccount      = errors.New("source and destination accounts must differ")
	ErrInFlight         = errors.New("an identical request is still in flight")
	ErrNotReversible    = errors.New("only completed transactions can be reversed")
)

// isBusinessRule reports whether an operation failed on a business rule.
// These failures leave a FAILED transaction row behind for audit; validation
// errors and infrastructure failures do not.
func isBusinessRule(err error) bool {
	return errors.Is(err, store.ErrInsufficientFunds) ||
		errors.Is(err, store.ErrAccountNotActive) ||
		errors.Is(err, ErrCurrencyMismatch)
}
