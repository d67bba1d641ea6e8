package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/views"
)

type reconcileRunner struct {
	app *app.App
}

func NewReconcileCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account-number>",
		Short: "Check an account balance against its transaction history",
		Long: `Recompute the balance of an account from the transaction log and compare
it with the stored balance. A mismatch means the ledger has been tampered
with or corrupted.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &reconcileRunner{app: application}
			return runner.Run(args[0])
		},
	}
}

func (r *reconcileRunner) Run(accountNumber string) error {
	report, err := r.app.Engine.Reconcile(accountNumber)
	if err != nil {
		return fmt.Errorf("failed to reconcile account: %w", err)
	}

	if err := views.RenderReconcileReport(report); err != nil {
		return err
	}

	if !report.Consistent {
		return fmt.Errorf("account %s is inconsistent", accountNumber)
	}
	return nil
}
