package ledger

// Event is the transaction-completed payload handed to the notification
// dispatcher after a financial commit. Delivery is fire-and-forget with
// at-least-once semantics; it never participates in the atomic unit.
type Event struct {
	TransactionType string   `json:"transaction_type"`
	ReferenceNumber string   `json:"reference_number"`
	Amount          string   `json:"amount"`
	Currency        string   `json:"currency"`
	AccountNumber   string   `json:"account_number"`
	BalanceAfter    string   `json:"balance_after"`
	Timestamp       int64    `json:"timestamp"`
	Description     string   `json:"description"`
	Counterparties  []string `json:"counterparties,omitempty"`
}

// Notifier consumes completed-transaction events. Implementations must not
// block the caller on delivery.
type Notifier interface {
	Enqueue(event Event) error
}
