package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// CreatePendingTransaction appends a PENDING row to the transaction log.
// The unique index on reference_number is the idempotency barrier: a second
// insert with the same reference fails with ErrDuplicateReference.
func (s *Store) CreatePendingTransaction(tx Transaction) (int64, error) {
	stmt, err := s.db.Prepare(`
        INSERT INTO transactions
            (reference_number, type, amount, currency, source_account, destination_account, status, description, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id;
    `)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare transaction SQL: %w", err)
	}
	defer stmt.Close()

	var newTxID int64
	err = stmt.QueryRow(
		tx.ReferenceNumber, tx.Type, tx.Amount.String(), tx.Currency,
		tx.SourceAccount, tx.DestinationAccount, TxPending, tx.Description, tx.CreatedAt,
	).Scan(&newTxID)

	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) {
			if sqliteErr.Code == sqlite.ErrConstraint || sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique {
				return 0, ErrDuplicateReference
			}
		}
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return newTxID, nil
}

// MarkTransactionCompleted moves a PENDING row to COMPLETED and records the
// balance snapshot per leg. Rows already in a terminal state are not touched.
func (s *Store) MarkTransactionCompleted(referenceNumber string, completedAt int64, sourceAfter, destAfter *decimal.Decimal) error {
	var srcVal, dstVal any
	if sourceAfter != nil {
		srcVal = sourceAfter.String()
	}
	if destAfter != nil {
		dstVal = destAfter.String()
	}

	result, err := s.db.Exec(`
        UPDATE transactions
        SET status = ?, completed_at = ?, source_balance_after = ?, destination_balance_after = ?
        WHERE reference_number = ? AND status = ?
    `, TxCompleted, completedAt, srcVal, dstVal, referenceNumber, TxPending)
	if err != nil {
		return fmt.Errorf("failed to complete transaction: %w", err)
	}

	return requireTransition(result, referenceNumber)
}

func (s *Store) MarkTransactionFailed(referenceNumber, reason string) error {
	result, err := s.db.Exec(`
        UPDATE transactions
        SET status = ?, failure_reason = ?
        WHERE reference_number = ? AND status = ?
    `, TxFailed, reason, referenceNumber, TxPending)
	if err != nil {
		return fmt.Errorf("failed to mark transaction failed: %w", err)
	}

	return requireTransition(result, referenceNumber)
}

// MarkTransactionReversed is the one exception to terminal COMPLETED rows:
// a reversal moves the original COMPLETED row to REVERSED.
func (s *Store) MarkTransactionReversed(referenceNumber string) error {
	result, err := s.db.Exec(`
        UPDATE transactions
        SET status = ?
        WHERE reference_number = ? AND status = ?
    `, TxReversed, referenceNumber, TxCompleted)
	if err != nil {
		return fmt.Errorf("failed to mark transaction reversed: %w", err)
	}

	return requireTransition(result, referenceNumber)
}

func (s *Store) GetTransactionByReference(referenceNumber string) (*Transaction, error) {
	row := s.db.QueryRow(`
        SELECT id, reference_number, type, amount, currency, source_account, destination_account,
               status, source_balance_after, destination_balance_after, description, failure_reason,
               created_at, completed_at
        FROM transactions
        WHERE reference_number = ?
    `, referenceNumber)

	tx, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to query transaction '%s': %w", referenceNumber, err)
	}

	return tx, nil
}

func (s *Store) GetTransactionsByAccount(accountNumber string, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
        SELECT id, reference_number, type, amount, currency, source_account, destination_account,
               status, source_balance_after, destination_balance_after, description, failure_reason,
               created_at, completed_at
        FROM transactions
        WHERE source_account = ? OR destination_account = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?
    `, accountNumber, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// SumCompletedEffects recomputes the balance of an account from the log:
// credits minus debits over every transaction that was applied. REVERSED
// originals still count, their compensating REVERSAL rows cancel them out.
func (s *Store) SumCompletedEffects(accountNumber string) (decimal.Decimal, error) {
	rows, err := s.db.Query(`
        SELECT amount, source_account, destination_account
        FROM transactions
        WHERE (source_account = ? OR destination_account = ?)
          AND status IN (?, ?)
    `, accountNumber, accountNumber, TxCompleted, TxReversed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query transaction effects: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amountStr string
		var source, dest sql.NullString
		if err := rows.Scan(&amountStr, &source, &dest); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan effect: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt amount in log: %w", err)
		}

		if source.Valid && source.String == accountNumber {
			total = total.Sub(amount)
		}
		if dest.Valid && dest.String == accountNumber {
			total = total.Add(amount)
		}
	}

	return total, rows.Err()
}

// requireTransition guards the one-way status machine: an update that
// matched no row means the transaction is missing or already terminal.
func requireTransition(result sql.Result, referenceNumber string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("transaction '%s': %w", referenceNumber, ErrTransactionFinal)
	}

	return nil
}

func scanTransaction(scan func(dest ...any) error) (*Transaction, error) {
	tx := &Transaction{}
	var amountStr string
	var source, dest, srcAfter, dstAfter sql.NullString
	var completedAt sql.NullInt64

	err := scan(
		&tx.ID, &tx.ReferenceNumber, &tx.Type, &amountStr, &tx.Currency,
		&source, &dest, &tx.Status, &srcAfter, &dstAfter,
		&tx.Description, &tx.FailureReason, &tx.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("corrupt amount for transaction %s: %w", tx.ReferenceNumber, err)
	}

	if source.Valid {
		tx.SourceAccount = &source.String
	}
	if dest.Valid {
		tx.DestinationAccount = &dest.String
	}
	if srcAfter.Valid {
		d, err := decimal.NewFromString(srcAfter.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance snapshot for transaction %s: %w", tx.ReferenceNumber, err)
		}
		tx.SourceBalanceAfter = &d
	}
	if dstAfter.Valid {
		d, err := decimal.NewFromString(dstAfter.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt balance snapshot for transaction %s: %w", tx.ReferenceNumber, err)
		}
		tx.DestinationBalanceAfter = &d
	}
	if completedAt.Valid {
		tx.CompletedAt = &completedAt.Int64
	}

	return tx, nil
}
