package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/views"
)

func NewStatementCmd(application *app.App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:          "statement <account-number>",
		Short:        "Show recent transactions for an account",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			transactions, err := application.Service.Account.GetStatement(args[0], limit)
			if err != nil {
				return fmt.Errorf("failed to get statement: %w", err)
			}

			return views.NewTransactionListView().Render(args[0], transactions, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of transactions to show")

	return cmd
}
