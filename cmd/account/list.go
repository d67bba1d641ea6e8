package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/service"
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/ui/views"
)

type listFlags struct {
	UserID     int64
	ShowClosed bool
}

type ListCommandRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(application *app.App) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's accounts with their balances",
		Long: `List all accounts owned by a user with their current balances.
Closed accounts are hidden unless --show-closed is given.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				svc:   application.Service,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().Int64VarP(&flags.UserID, "user", "u", 0, "Owner user ID")
	cmd.Flags().BoolVar(&flags.ShowClosed, "show-closed", false, "Show closed accounts")
	cmd.MarkFlagRequired("user")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	accounts, err := r.svc.Account.ListAccounts(r.flags.UserID)
	if err != nil {
		return fmt.Errorf("failed to get accounts: %w", err)
	}

	if !r.flags.ShowClosed {
		accounts = filterClosedAccounts(accounts)
	}

	return views.NewAccountListView().Render(accounts)
}

func filterClosedAccounts(accounts []*store.Account) []*store.Account {
	var filtered []*store.Account
	for _, acc := range accounts {
		if acc.Status != store.AccountClosed {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}
