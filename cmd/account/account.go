package account

import (
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
)

func NewAccountCmd(application *app.App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Open, list, freeze and close bank accounts.",
		Long:  `Open, list, freeze and close bank accounts.`,
	}

	accountCmd.AddCommand(NewCreateCmd(application))
	accountCmd.AddCommand(NewListCmd(application))
	accountCmd.AddCommand(NewStatementCmd(application))
	accountCmd.AddCommand(NewFreezeCmd(application))
	accountCmd.AddCommand(NewUnfreezeCmd(application))
	accountCmd.AddCommand(NewCloseCmd(application))

	return accountCmd
}
