package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
)

func NewTransactionCmd(application *app.App) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Move money and inspect the transaction log",
		Long:  "Move money between accounts and inspect or reverse entries in the transaction log.",
	}

	transactionCmd.AddCommand(NewDepositCmd(application))
	transactionCmd.AddCommand(NewWithdrawCmd(application))
	transactionCmd.AddCommand(NewTransferCmd(application))
	transactionCmd.AddCommand(NewShowCmd(application))
	transactionCmd.AddCommand(NewReverseCmd(application))

	return transactionCmd
}
