package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hance08/bankd/internal/store"
)

const maxNameLen = 64

// ErrInvalidInput marks every validation failure so transport layers can
// map them to a bad-request response.
var ErrInvalidInput = errors.New("invalid input")

// ValidateCurrency validates a 3-letter currency code.
func ValidateCurrency(currency string) error {
	currency = strings.TrimSpace(strings.ToUpper(currency))

	if len(currency) != 3 {
		return fmt.Errorf("%w: currency code must be 3 characters (e.g. USD)", ErrInvalidInput)
	}

	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("%w: currency code must contain only letters", ErrInvalidInput)
		}
	}

	return nil
}

func ValidateAccountType(accType string) error {
	switch accType {
	case store.TypeChecking, store.TypeSavings:
		return nil
	}
	return fmt.Errorf("%w: account type must be %s or %s", ErrInvalidInput, store.TypeChecking, store.TypeSavings)
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email can't be empty", ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return fmt.Errorf("%w: '%s' is not a valid email address", ErrInvalidInput, email)
	}

	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name can't be empty", ErrInvalidInput)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidInput, maxNameLen)
	}
	return nil
}

// ParseAmount parses a user-supplied money amount. Amounts must be positive
// and are normalized to two decimal places with banker's rounding.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, fmt.Errorf("%w: amount can't be empty", ErrInvalidInput)
	}

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a valid amount", ErrInvalidInput, input)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return amount.RoundBank(2), nil
}

// ValidateAmountInput is a prompt validator wrapping ParseAmount.
func ValidateAmountInput(input string) error {
	_, err := ParseAmount(input)
	return err
}
