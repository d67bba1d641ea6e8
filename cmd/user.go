package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/bankd/internal/app"
	"github.com/hance08/bankd/internal/ui/prompts"
	"github.com/hance08/bankd/internal/validation"
)

var (
	userEmail     string
	userFirstName string
	userLastName  string
)

func NewUserCmd(application *app.App) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  `Manage users that own accounts.`,
	}

	createCmd := &cobra.Command{
		Use:          "create",
		Short:        "Register a new user",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &userCreateRunner{app: application}

			if cmd.Flags().Changed("email") {
				return runner.FlagsMode()
			}
			return runner.InteractiveMode()
		},
	}

	createCmd.Flags().StringVarP(&userEmail, "email", "e", "", "User email address")
	createCmd.Flags().StringVar(&userFirstName, "first-name", "", "First name")
	createCmd.Flags().StringVar(&userLastName, "last-name", "", "Last name")

	userCmd.AddCommand(createCmd)

	return userCmd
}

type userCreateRunner struct {
	app *app.App
}

func (r *userCreateRunner) FlagsMode() error {
	return r.create(userEmail, userFirstName, userLastName)
}

func (r *userCreateRunner) InteractiveMode() error {
	email, err := prompts.PromptInput("Email:", "", validation.ValidateEmail)
	if err != nil {
		return err
	}

	firstName, err := prompts.PromptInput("First name:", "", validation.ValidateName)
	if err != nil {
		return err
	}

	lastName, err := prompts.PromptInput("Last name:", "", validation.ValidateName)
	if err != nil {
		return err
	}

	return r.create(email, firstName, lastName)
}

func (r *userCreateRunner) create(email, firstName, lastName string) error {
	user, err := r.app.Service.User.CreateUser(email, firstName, lastName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	tableData := pterm.TableData{
		{pterm.Blue("User ID"), fmt.Sprintf("%d", user.ID)},
		{pterm.Blue("Email"), user.Email},
		{pterm.Blue("Name"), user.FirstName + " " + user.LastName},
	}
	pterm.DefaultTable.WithData(tableData).Render()
	pterm.Success.Println("User created successfully!")
	return nil
}
