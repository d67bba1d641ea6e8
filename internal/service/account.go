package service

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/validation"
)

const accountNumberLen = 12

// accountNumberAttempts bounds the retry loop on number collisions; the
// unique index on accounts.account_number is the actual guarantee.
const accountNumberAttempts = 5

type AccountService struct {
	repo store.Repository
	cfg  Config
}

func NewAccountService(repo store.Repository, cfg Config) *AccountService {
	return &AccountService{repo: repo, cfg: cfg}
}

// CreateAccount opens an account for a user with a freshly generated
// account number and a zero balance.
func (as *AccountService) CreateAccount(userID int64, accType, currency string) (*store.Account, error) {
	if err := validation.ValidateAccountType(accType); err != nil {
		return nil, err
	}

	if currency == "" {
		currency = as.cfg.DefaultCurrency
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	if _, err := as.repo.GetUserByID(userID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		number := generateAccountNumber()

		exists, err := as.repo.AccountNumberExists(number)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		acc, err := as.repo.CreateAccount(userID, number, accType, currency)
		if errors.Is(err, store.ErrAccountExists) {
			continue
		}
		return acc, err
	}

	return nil, fmt.Errorf("could not allocate a unique account number")
}

func (as *AccountService) GetAccount(accountNumber string) (*store.Account, error) {
	return as.repo.GetAccountByNumber(accountNumber)
}

func (as *AccountService) ListAccounts(userID int64) ([]*store.Account, error) {
	return as.repo.GetAccountsByUser(userID)
}

func (as *AccountService) GetStatement(accountNumber string, limit int) ([]*store.Transaction, error) {
	if _, err := as.repo.GetAccountByNumber(accountNumber); err != nil {
		return nil, err
	}
	return as.repo.GetTransactionsByAccount(accountNumber, limit)
}

// Freeze suspends an active account. Frozen accounts reject every balance
// mutation until unfrozen.
func (as *AccountService) Freeze(accountNumber string) error {
	return as.transition(accountNumber, store.AccountActive, store.AccountFrozen)
}

func (as *AccountService) Unfreeze(accountNumber string) error {
	return as.transition(accountNumber, store.AccountFrozen, store.AccountActive)
}

// Close moves an account to its terminal state. Only an account with a zero
// balance can be closed.
func (as *AccountService) Close(accountNumber string) error {
	return as.repo.ExecTx(func(r store.Repository) error {
		acc, err := r.GetAccountByNumber(accountNumber)
		if err != nil {
			return err
		}
		if acc.Status == store.AccountClosed {
			return store.ErrAccountClosed
		}
		if !acc.Balance.IsZero() {
			return store.ErrBalanceNotZero
		}
		return r.UpdateAccountStatus(accountNumber, store.AccountClosed)
	})
}

func (as *AccountService) transition(accountNumber, from, to string) error {
	return as.repo.ExecTx(func(r store.Repository) error {
		acc, err := r.GetAccountByNumber(accountNumber)
		if err != nil {
			return err
		}
		if acc.Status == store.AccountClosed {
			return store.ErrAccountClosed
		}
		if acc.Status != from {
			return fmt.Errorf("account %s is %s: %w", accountNumber, acc.Status, store.ErrAccountNotActive)
		}
		return r.UpdateAccountStatus(accountNumber, to)
	})
}

func generateAccountNumber() string {
	buf := make([]byte, accountNumberLen)
	for i := range buf {
		buf[i] = byte('0' + rand.IntN(10))
	}
	return string(buf)
}
