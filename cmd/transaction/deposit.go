package transaction

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/ui/prompts"
	"github.com/hance08/bankd/internal/validation"
)

var (
	depositAccount   string
	depositAmount    string
	depositReference string
	depositDesc      string
)

func NewDepositCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit money into an account",
		Long: `Deposit money into an account. Pass --reference to make the operation
idempotent across retries.

Example: bankd transaction deposit -a 123456789012 -m 100.00`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := depositAccount
			amountInput := depositAmount

			if !cmd.Flags().Changed("account") {
				var err error
				if account, err = prompts.PromptAccountNumber("Account number:"); err != nil {
					return err
				}
				if amountInput, err = prompts.PromptMoneyAmount(); err != nil {
					return err
				}
				if depositReference, err = prompts.PromptReference(); err != nil {
					return err
				}
			}

			amount, err := validation.ParseAmount(amountInput)
			if err != nil {
				return err
			}

			tx, err := application.Engine.Deposit(cmd.Context(), ledger.DepositParams{
				AccountNumber:   account,
				Amount:          amount,
				ReferenceNumber: depositReference,
				Description:     depositDesc,
			})
			if err != nil {
				return fmt.Errorf("deposit failed: %w", err)
			}

			displayResult(tx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&depositAccount, "account", "a", "", "Account number")
	cmd.Flags().StringVarP(&depositAmount, "amount", "m", "", "Amount, e.g. 100.00")
	cmd.Flags().StringVarP(&depositReference, "reference", "r", "", "Client reference number (optional)")
	cmd.Flags().StringVarP(&depositDesc, "description", "d", "", "Description (optional)")

	return cmd
}
