package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hance08/bankd/internal/service"
)

type AccountHandler struct {
	Svc *service.Service
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *AccountHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.Svc.User.CreateUser(req.Email, req.FirstName, req.LastName)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"created_at": formatTime(user.CreatedAt),
	})
}

type createAccountRequest struct {
	UserID   int64  `json:"user_id"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	acc, err := h.Svc.Account.CreateAccount(req.UserID, req.Type, req.Currency)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newAccountResponse(acc))
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	acc, err := h.Svc.Account.GetAccount(c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newAccountResponse(acc))
}

func (h *AccountHandler) FreezeAccount(c *fiber.Ctx) error {
	number := c.Params("number")
	if err := h.Svc.Account.Freeze(number); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "account " + number + " frozen"})
}

func (h *AccountHandler) UnfreezeAccount(c *fiber.Ctx) error {
	number := c.Params("number")
	if err := h.Svc.Account.Unfreeze(number); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "account " + number + " active"})
}

func (h *AccountHandler) CloseAccount(c *fiber.Ctx) error {
	number := c.Params("number")
	if err := h.Svc.Account.Close(number); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "account " + number + " closed"})
}

func (h *AccountHandler) GetStatement(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	transactions, err := h.Svc.Account.GetStatement(c.Params("number"), limit)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, newTransactionResponse(tx))
	}

	return c.JSON(fiber.Map{"data": items})
}
