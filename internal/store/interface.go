package store

import "github.com/shopspring/decimal"

type Repository interface {
	// User Operations
	CreateUser(email, firstName, lastName string) (*User, error)
	GetUserByID(id int64) (*User, error)
	GetUserByEmail(email string) (*User, error)

	// Account Operations (Ledger Store)
	CreateAccount(userID int64, accountNumber, accType, currency string) (*Account, error)
	GetAccountByNumber(accountNumber string) (*Account, error)
	GetAccountsByUser(userID int64) ([]*Account, error)
	AccountNumberExists(accountNumber string) (bool, error)
	UpdateAccountStatus(accountNumber, status string) error
	ApplyBalanceDelta(accountNumber string, delta decimal.Decimal) (decimal.Decimal, error)

	// Transaction Operations (Transaction Log)
	CreatePendingTransaction(tx Transaction) (int64, error)
	MarkTransactionCompleted(referenceNumber string, completedAt int64, sourceAfter, destAfter *decimal.Decimal) error
	MarkTransactionFailed(referenceNumber, reason string) error
	MarkTransactionReversed(referenceNumber string) error
	GetTransactionByReference(referenceNumber string) (*Transaction, error)
	GetTransactionsByAccount(accountNumber string, limit int) ([]*Transaction, error)
	SumCompletedEffects(accountNumber string) (decimal.Decimal, error)

	// Notification Outbox
	EnqueueNotification(id string, payload []byte, nextRunAt int64) error
	NextDueNotification(now int64) (*NotificationJob, error)
	MarkNotificationCompleted(id string) error
	MarkNotificationFailed(id string) error
	RescheduleNotification(id string, nextRunAt int64) error

	ExecTx(fn func(Repository) error) error
	Close() error
}
