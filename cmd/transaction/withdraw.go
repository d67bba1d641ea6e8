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
	withdrawAccount   string
	withdrawAmount    string
	withdrawReference string
	withdrawDesc      string
)

func NewWithdrawCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "withdraw",
		Short:        "Withdraw money from an account",
		Long:         `Withdraw money from an account. Overdrafts are rejected.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := withdrawAccount
			amountInput := withdrawAmount

			if !cmd.Flags().Changed("account") {
				var err error
				if account, err = prompts.PromptAccountNumber("Account number:"); err != nil {
					return err
				}
				if amountInput, err = prompts.PromptMoneyAmount(); err != nil {
					return err
				}
				if withdrawReference, err = prompts.PromptReference(); err != nil {
					return err
				}
			}

			amount, err := validation.ParseAmount(amountInput)
			if err != nil {
				return err
			}

			tx, err := application.Engine.Withdraw(cmd.Context(), ledger.WithdrawParams{
				AccountNumber:   account,
				Amount:          amount,
				ReferenceNumber: withdrawReference,
				Description:     withdrawDesc,
			})
			if err != nil {
				return fmt.Errorf("withdrawal failed: %w", err)
			}

			displayResult(tx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&withdrawAccount, "account", "a", "", "Account number")
	cmd.Flags().StringVarP(&withdrawAmount, "amount", "m", "", "Amount, e.g. 100.00")
	cmd.Flags().StringVarP(&withdrawReference, "reference", "r", "", "Client reference number (optional)")
	cmd.Flags().StringVarP(&withdrawDesc, "description", "d", "", "Description (optional)")

	return cmd
}
