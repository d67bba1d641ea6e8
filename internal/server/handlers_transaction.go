package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/validation"
)

type TransactionHandler struct {
	Engine *ledger.Engine
}

type moneyRequest struct {
	AccountNumber      string `json:"account_number"`
	SourceAccount      string `json:"source_account"`
	DestinationAccount string `json:"destination_account"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	ReferenceNumber    string `json:"reference_number"`
	Description        string `json:"description"`
}

func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	var req moneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	tx, err := h.Engine.Deposit(c.Context(), ledger.DepositParams{
		AccountNumber:   req.AccountNumber,
		Amount:          amount,
		Currency:        req.Currency,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondTransaction(c, tx)
}

func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	var req moneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	tx, err := h.Engine.Withdraw(c.Context(), ledger.WithdrawParams{
		AccountNumber:   req.AccountNumber,
		Amount:          amount,
		Currency:        req.Currency,
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondTransaction(c, tx)
}

func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var req moneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	amount, err := validation.ParseAmount(req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	tx, err := h.Engine.Transfer(c.Context(), ledger.TransferParams{
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Amount:             amount,
		Currency:           req.Currency,
		ReferenceNumber:    req.ReferenceNumber,
		Description:        req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}

	return respondTransaction(c, tx)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.Engine.Lookup(c.Params("reference"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newTransactionResponse(tx))
}

type reverseRequest struct {
	Description string `json:"description"`
}

func (h *TransactionHandler) ReverseTransaction(c *fiber.Ctx) error {
	var req reverseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	tx, err := h.Engine.Reverse(c.Context(), c.Params("reference"), req.Description)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(tx))
}

// respondTransaction distinguishes a fresh COMPLETED unit from an
// idempotent replay of a FAILED one: the row is returned either way, the
// status code tells the caller which world they are in.
func respondTransaction(c *fiber.Ctx, tx *store.Transaction) error {
	status := fiber.StatusCreated
	if tx.Status == store.TxFailed {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(newTransactionResponse(tx))
}
