package store

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account number already exists")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrAccountClosed       = errors.New("account is closed")
	ErrBalanceNotZero      = errors.New("account balance is not zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("duplicate reference number")
	ErrTransactionFinal    = errors.New("transaction is already in a terminal state")
	ErrJobNotFound         = errors.New("notification job not found")
	ErrConstraintViolation = errors.New("database constraint violation")
)
