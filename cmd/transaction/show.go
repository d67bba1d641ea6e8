package transaction

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/views"
)

type ShowCommandRunner struct {
	app *app.App
}

func NewShowCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:          "show <reference-number>",
		Short:        "Show transaction details",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				app: application,
			}
			return runner.Run(args)
		},
	}
}

func (r *ShowCommandRunner) Run(args []string) error {
	tx, err := r.app.Engine.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}

	return views.RenderTransactionDetail(tx)
}
