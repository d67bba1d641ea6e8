package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/validation"
)

type accountResponse struct {
	AccountNumber string `json:"account_number"`
	UserID        int64  `json:"user_id"`
	Type          string `json:"type"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type transactionResponse struct {
	ReferenceNumber         string  `json:"reference_number"`
	Type                    string  `json:"type"`
	Amount                  string  `json:"amount"`
	Currency                string  `json:"currency"`
	SourceAccount           *string `json:"source_account,omitempty"`
	DestinationAccount      *string `json:"destination_account,omitempty"`
	Status                  string  `json:"status"`
	SourceBalanceAfter      *string `json:"source_balance_after,omitempty"`
	DestinationBalanceAfter *string `json:"destination_balance_after,omitempty"`
	Description             string  `json:"description"`
	FailureReason           string  `json:"failure_reason,omitempty"`
	CreatedAt               string  `json:"created_at"`
	CompletedAt             *string `json:"completed_at,omitempty"`
}

func newAccountResponse(acc *store.Account) accountResponse {
	return accountResponse{
		AccountNumber: acc.AccountNumber,
		UserID:        acc.UserID,
		Type:          acc.Type,
		Balance:       acc.Balance.StringFixed(2),
		Currency:      acc.Currency,
		Status:        acc.Status,
		CreatedAt:     formatTime(acc.CreatedAt),
	}
}

func newTransactionResponse(tx *store.Transaction) transactionResponse {
	resp := transactionResponse{
		ReferenceNumber:    tx.ReferenceNumber,
		Type:               tx.Type,
		Amount:             tx.Amount.StringFixed(2),
		Currency:           tx.Currency,
		SourceAccount:      tx.SourceAccount,
		DestinationAccount: tx.DestinationAccount,
		Status:             tx.Status,
		Description:        tx.Description,
		FailureReason:      tx.FailureReason,
		CreatedAt:          formatTime(tx.CreatedAt),
	}

	if tx.SourceBalanceAfter != nil {
		s := tx.SourceBalanceAfter.StringFixed(2)
		resp.SourceBalanceAfter = &s
	}
	if tx.DestinationBalanceAfter != nil {
		s := tx.DestinationBalanceAfter.StringFixed(2)
		resp.DestinationBalanceAfter = &s
	}
	if tx.CompletedAt != nil {
		s := formatTime(*tx.CompletedAt)
		resp.CompletedAt = &s
	}

	return resp
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// writeError maps domain errors onto HTTP statuses. Unrecognized errors are
// treated as transient infrastructure failures: the unit of work has rolled
// back and the caller may retry with the same reference number.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusServiceUnavailable

	switch {
	case errors.Is(err, validation.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSameAccount):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrAccountNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTransactionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrCurrencyMismatch):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrAccountNotActive),
		errors.Is(err, store.ErrAccountClosed),
		errors.Is(err, store.ErrBalanceNotZero),
		errors.Is(err, store.ErrUserExists),
		errors.Is(err, store.ErrTransactionFinal),
		errors.Is(err, ledger.ErrNotReversible),
		errors.Is(err, ledger.ErrInFlight):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusServiceUnavailable {
		slog.Error("request failed", slog.String("path", c.Path()), slog.String("error", err.Error()))
		return c.Status(status).JSON(fiber.Map{"error": "temporary failure, retry with the same reference number"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
