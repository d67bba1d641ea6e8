package transaction

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/prompts"
)

var reverseDesc string

func NewReverseCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse <reference-number>",
		Short: "Reverse a completed transaction",
		Long: `Apply a compensating entry that undoes a completed transaction and mark
the original as reversed. Only completed transactions can be reversed.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm, err := prompts.PromptConfirm(
				fmt.Sprintf("Reverse transaction %s?", args[0]), false)
			if err != nil {
				return err
			}
			if !confirm {
				return fmt.Errorf("reversal cancelled")
			}

			tx, err := application.Engine.Reverse(cmd.Context(), args[0], reverseDesc)
			if err != nil {
				return fmt.Errorf("reversal failed: %w", err)
			}

			displayResult(tx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reverseDesc, "description", "d", "", "Reversal description (optional)")

	return cmd
}
