package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/service"
)

// New builds the HTTP API. The caller owns the listener lifecycle.
func New(svc *service.Service, engine *ledger.Engine) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "bankd",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	accounts := &AccountHandler{Svc: svc}
	transactions := &TransactionHandler{Engine: engine}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/v1")

	v1.Post("/users", accounts.CreateUser)

	v1.Post("/accounts", accounts.CreateAccount)
	v1.Get("/accounts/:number", accounts.GetAccount)
	v1.Post("/accounts/:number/freeze", accounts.FreezeAccount)
	v1.Post("/accounts/:number/unfreeze", accounts.UnfreezeAccount)
	v1.Post("/accounts/:number/close", accounts.CloseAccount)
	v1.Get("/accounts/:number/transactions", accounts.GetStatement)

	v1.Post("/transactions/deposit", transactions.Deposit)
	v1.Post("/transactions/withdraw", transactions.Withdraw)
	v1.Post("/transactions/transfer", transactions.Transfer)
	v1.Get("/transactions/:reference", transactions.GetTransaction)
	v1.Post("/transactions/:reference/reverse", transactions.ReverseTransaction)

	return app
}
