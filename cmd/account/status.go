package account

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/prompts"
)

func NewFreezeCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:          "freeze <account-number>",
		Short:        "Freeze an account, rejecting all balance mutations",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Service.Account.Freeze(args[0]); err != nil {
				return fmt.Errorf("failed to freeze account: %w", err)
			}
			pterm.Success.Printf("Account %s frozen\n", args[0])
			return nil
		},
	}
}

func NewUnfreezeCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:          "unfreeze <account-number>",
		Short:        "Return a frozen account to active",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Service.Account.Unfreeze(args[0]); err != nil {
				return fmt.Errorf("failed to unfreeze account: %w", err)
			}
			pterm.Success.Printf("Account %s active\n", args[0])
			return nil
		},
	}
}

func NewCloseCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:          "close <account-number>",
		Short:        "Close an account permanently",
		Long:         `Close an account permanently. Only accounts with a zero balance can be closed.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm, err := prompts.PromptConfirm(
				fmt.Sprintf("Close account %s? This cannot be undone.", args[0]), false)
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("close cancelled")
			}

			if err := application.Service.Account.Close(args[0]); err != nil {
				return fmt.Errorf("failed to close account: %w", err)
			}
			pterm.Success.Printf("Account %s closed\n", args[0])
			return nil
		},
	}
}
