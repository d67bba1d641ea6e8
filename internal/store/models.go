package store

import "github.com/shopspring/decimal"

// Account statuses. Closed is terminal.
const (
	AccountActive = "ACTIVE"
	AccountFrozen = "FROZEN"
	AccountClosed = "CLOSED"
)

// Account types.
const (
	TypeChecking = "CHECKING"
	TypeSavings  = "SAVINGS"
)

// Transaction types.
const (
	TxDeposit    = "DEPOSIT"
	TxWithdrawal = "WITHDRAWAL"
	TxTransfer   = "TRANSFER"
	TxReversal   = "REVERSAL"
)

// Transaction statuses. Completed and Failed are terminal for the engine;
// Reversed is reachable only from Completed through a reversal.
const (
	TxPending   = "PENDING"
	TxCompleted = "COMPLETED"
	TxFailed    = "FAILED"
	TxReversed  = "REVERSED"
)

// Notification job statuses.
const (
	JobPending   = "PENDING"
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
)

type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt int64
}

type Account struct {
	ID            int64
	AccountNumber string
	UserID        int64
	Type          string
	Balance       decimal.Decimal
	Currency      string
	Status        string
	CreatedAt     int64
}

type Transaction struct {
	ID                      int64
	ReferenceNumber         string
	Type                    string
	Amount                  decimal.Decimal
	Currency                string
	SourceAccount           *string
	DestinationAccount      *string
	Status                  string
	SourceBalanceAfter      *decimal.Decimal
	DestinationBalanceAfter *decimal.Decimal
	Description             string
	FailureReason           string
	CreatedAt               int64
	CompletedAt             *int64
}

type NotificationJob struct {
	ID        string
	Payload   []byte
	Status    string
	Attempts  int
	NextRunAt int64
	CreatedAt int64
}
