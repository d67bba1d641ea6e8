package transaction

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ledger"
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/ui"
	"github.com/hance08/bankd/internal/ui/prompts"
	"github.com/hance08/bankd/internal/utils"
	"github.com/hance08/bankd/internal/validation"
)

var (
	transferFrom      string
	transferTo        string
	transferAmount    string
	transferReference string
	transferDesc      string
)

func NewTransferCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer money between two accounts",
		Long: `Transfer money between two accounts of the same currency. Both legs
commit atomically or not at all.

Example: bankd transaction transfer -f 111111111111 -t 222222222222 -m 50.00`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := transferFrom, transferTo
			amountInput := transferAmount

			if !cmd.Flags().Changed("from") {
				var err error
				if from, to, err = prompts.PromptTransferAccounts(); err != nil {
					return err
				}
				if amountInput, err = prompts.PromptMoneyAmount(); err != nil {
					return err
				}
				if transferReference, err = prompts.PromptReference(); err != nil {
					return err
				}
			}

			amount, err := validation.ParseAmount(amountInput)
			if err != nil {
				return err
			}

			tx, err := application.Engine.Transfer(cmd.Context(), ledger.TransferParams{
				SourceAccount:      from,
				DestinationAccount: to,
				Amount:             amount,
				ReferenceNumber:    transferReference,
				Description:        transferDesc,
			})
			if err != nil {
				return fmt.Errorf("transfer failed: %w", err)
			}

			displayResult(tx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&transferFrom, "from", "f", "", "Source account number")
	cmd.Flags().StringVarP(&transferTo, "to", "t", "", "Destination account number")
	cmd.Flags().StringVarP(&transferAmount, "amount", "m", "", "Amount, e.g. 50.00")
	cmd.Flags().StringVarP(&transferReference, "reference", "r", "", "Client reference number (optional)")
	cmd.Flags().StringVarP(&transferDesc, "description", "d", "", "Description (optional)")

	return cmd
}

func displayResult(tx *store.Transaction) {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Reference"), tx.ReferenceNumber},
		{pterm.Blue("Type"), tx.Type},
		{pterm.Blue("Amount"), utils.FormatAmount(tx.Amount, tx.Currency)},
		{pterm.Blue("Status"), tx.Status},
	}
	if tx.SourceBalanceAfter != nil {
		tableData = append(tableData, []string{
			pterm.Blue("Source Balance"), utils.FormatAmount(*tx.SourceBalanceAfter, tx.Currency)})
	}
	if tx.DestinationBalanceAfter != nil {
		tableData = append(tableData, []string{
			pterm.Blue("Destination Balance"), utils.FormatAmount(*tx.DestinationBalanceAfter, tx.Currency)})
	}
	if tx.FailureReason != "" {
		tableData = append(tableData, []string{pterm.Blue("Failure Reason"), pterm.Red(tx.FailureReason)})
	}

	pterm.DefaultTable.WithData(tableData).Render()

	if tx.Status == store.TxCompleted {
		pterm.Success.Println("Transaction completed!")
	} else {
		pterm.Warning.Printf("Transaction %s\n", tx.Status)
	}
}
