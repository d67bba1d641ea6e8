package account

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/service"
	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/ui"
	"github.com/hance08/bankd/internal/ui/prompts"
	"github.com/hance08/bankd/internal/validation"
)

// Command-line flags
var (
	accUserID   int64
	accType     string
	accCurrency string
)

// AccountCreator manages the state and logic for creating an account
type AccountCreator struct {
	userID      int64
	accountType string
	currency    string

	svc *service.Service
}

func NewAccountCreator(svc *service.Service) *AccountCreator {
	return &AccountCreator{svc: svc}
}

func NewCreateCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new account.",
		Long: `Open a new account for an existing user. The account number is generated
by the system and the account starts with a zero balance.

Example: bankd account create -u 1 -t CHECKING --currency USD`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator := NewAccountCreator(application.Service)

			if cmd.Flags().Changed("user") {
				return creator.FlagsMode(application.Config.Defaults.Currency)
			}
			return creator.InteractiveMode(application.Config.Defaults.Currency)
		},
	}

	cmd.Flags().Int64VarP(&accUserID, "user", "u", 0, "Owner user ID")
	cmd.Flags().StringVarP(&accType, "type", "t", store.TypeChecking, "Account type: CHECKING or SAVINGS")
	cmd.Flags().StringVar(&accCurrency, "currency", "", "Currency code (defaults to config default)")

	return cmd
}

// FlagsMode builds an account from command-line flags
func (ac *AccountCreator) FlagsMode(defaultCurrency string) error {
	if accUserID <= 0 {
		return fmt.Errorf("--user must be a positive user ID")
	}

	ac.userID = accUserID
	ac.accountType = strings.ToUpper(strings.TrimSpace(accType))
	ac.currency = strings.ToUpper(strings.TrimSpace(accCurrency))
	if ac.currency == "" {
		ac.currency = defaultCurrency
	}

	newAccount, err := ac.Save()
	if err != nil {
		return err
	}

	displaySuccessInformation(newAccount)
	return nil
}

// InteractiveMode builds an account through interactive prompts
func (ac *AccountCreator) InteractiveMode(defaultCurrency string) error {
	// Step 1: Owner
	userInput, err := prompts.PromptUserID(func(s string) error {
		if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
			return fmt.Errorf("user ID must be a number")
		}
		return nil
	})
	if err != nil {
		return err
	}
	ac.userID, _ = strconv.ParseInt(strings.TrimSpace(userInput), 10, 64)

	// Step 2: Account type
	selectedType, err := prompts.PromptAccountType()
	if err != nil {
		return err
	}
	ac.accountType = selectedType

	// Step 3: Currency
	currency, err := prompts.PromptCurrency(defaultCurrency, validation.ValidateCurrency)
	if err != nil {
		return err
	}
	ac.currency = currency

	ac.displaySummary()

	// Confirm proceed with creation
	if err := confirmProceed(); err != nil {
		return err
	}

	newAccount, err := ac.Save()
	if err != nil {
		return err
	}

	displaySuccessInformation(newAccount)
	return nil
}

func (ac *AccountCreator) displaySummary() {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Owner User ID"), fmt.Sprintf("%d", ac.userID)},
		{pterm.Blue("Type"), ac.accountType},
		{pterm.Blue("Currency"), ac.currency},
	}

	pterm.DefaultTable.WithData(tableData).Render()
}

// Save persists the account to the database
func (ac *AccountCreator) Save() (*store.Account, error) {
	newAccount, err := ac.svc.Account.CreateAccount(ac.userID, ac.accountType, ac.currency)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return newAccount, nil
}

func confirmProceed() error {
	confirm, err := prompts.PromptConfirm("Proceed with account creation?", true)
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("account creation cancelled")
	}

	return nil
}

func displaySuccessInformation(acc *store.Account) {
	ui.Separator()
	tableData := pterm.TableData{
		{pterm.Blue("Account Number"), acc.AccountNumber},
		{pterm.Blue("Type"), acc.Type},
		{pterm.Blue("Currency"), acc.Currency},
		{pterm.Blue("Status"), acc.Status},
	}
	pterm.DefaultTable.WithData(tableData).Render()
	pterm.Success.Print("Account created successfully!")
}
