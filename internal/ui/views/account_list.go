package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/utils"
)

type AccountListView struct{}

func NewAccountListView() *AccountListView {
	return &AccountListView{}
}

func (v *AccountListView) Render(accounts []*store.Account) error {
	headers := []string{"Account Number", "Type", "Balance", "Status"}
	tableData := pterm.TableData{headers}

	for _, acc := range accounts {
		balanceWithCurrency := utils.FormatAmount(acc.Balance, acc.Currency)

		var coloredNumber, coloredBalance, coloredStatus string
		switch acc.Status {
		case store.AccountActive:
			coloredNumber = pterm.Green(acc.AccountNumber)
			coloredBalance = pterm.Green(balanceWithCurrency)
			coloredStatus = pterm.Green(acc.Status)
		case store.AccountFrozen:
			coloredNumber = pterm.Yellow(acc.AccountNumber)
			coloredBalance = pterm.Yellow(balanceWithCurrency)
			coloredStatus = pterm.Yellow(acc.Status)
		case store.AccountClosed:
			coloredNumber = pterm.Gray(acc.AccountNumber)
			coloredBalance = pterm.Gray(balanceWithCurrency)
			coloredStatus = pterm.Gray(acc.Status)
		default:
			coloredNumber = acc.AccountNumber
			coloredBalance = balanceWithCurrency
			coloredStatus = acc.Status
		}
		tableData = append(tableData, []string{coloredNumber, acc.Type, coloredBalance, coloredStatus})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))

	return nil
}
