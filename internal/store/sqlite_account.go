package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func (s *Store) CreateAccount(userID int64, accountNumber, accType, currency string) (*Account, error) {
	acc := &Account{
		AccountNumber: accountNumber,
		UserID:        userID,
		Type:          accType,
		Balance:       decimal.Zero,
		Currency:      currency,
		Status:        AccountActive,
		CreatedAt:     time.Now().Unix(),
	}

	err := s.db.QueryRow(`
		INSERT INTO accounts (account_number, user_id, type, balance, currency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id;
	`, acc.AccountNumber, acc.UserID, acc.Type, acc.Balance.String(), acc.Currency, acc.Status, acc.CreatedAt).Scan(&acc.ID)

	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique {
				return nil, ErrAccountExists
			}
			if sqliteErr.Code == sqlite.ErrConstraint {
				return nil, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
			}
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return acc, nil
}

func (s *Store) GetAccountByNumber(accountNumber string) (*Account, error) {
	row := s.db.QueryRow(`
		SELECT id, account_number, user_id, type, balance, currency, status, created_at
		FROM accounts
		WHERE account_number = ?
	`, accountNumber)

	return scanAccount(row)
}

func (s *Store) GetAccountsByUser(userID int64) ([]*Account, error) {
	rows, err := s.db.Query(`
		SELECT id, account_number, user_id, type, balance, currency, status, created_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY account_number
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		acc := &Account{}
		var balance string

		err := rows.Scan(
			&acc.ID, &acc.AccountNumber, &acc.UserID, &acc.Type,
			&balance, &acc.Currency, &acc.Status, &acc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		if acc.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("corrupt balance for account %s: %w", acc.AccountNumber, err)
		}

		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

func (s *Store) AccountNumberExists(accountNumber string) (bool, error) {
	var exists bool
	row := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = ?)", accountNumber)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

func (s *Store) UpdateAccountStatus(accountNumber, status string) error {
	result, err := s.db.Exec(`
		UPDATE accounts
		SET status = ?
		WHERE account_number = ?
	`, status, accountNumber)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ApplyBalanceDelta adds delta (negative for debits) to the account balance
// and returns the new balance. The resulting balance may not be negative and
// the account must be ACTIVE. Callers must run this inside ExecTx together
// with the matching transaction-log write.
func (s *Store) ApplyBalanceDelta(accountNumber string, delta decimal.Decimal) (decimal.Decimal, error) {
	acc, err := s.GetAccountByNumber(accountNumber)
	if err != nil {
		return decimal.Zero, err
	}

	if acc.Status != AccountActive {
		return decimal.Zero, ErrAccountNotActive
	}

	newBalance := acc.Balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	result, err := s.db.Exec(`
		UPDATE accounts
		SET balance = ?
		WHERE account_number = ?
	`, newBalance.String(), accountNumber)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, ErrAccountNotFound
	}

	return newBalance, nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	acc := &Account{}
	var balance string

	err := row.Scan(
		&acc.ID, &acc.AccountNumber, &acc.UserID, &acc.Type,
		&balance, &acc.Currency, &acc.Status, &acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	if acc.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("corrupt balance for account %s: %w", acc.AccountNumber, err)
	}

	return acc, nil
}
