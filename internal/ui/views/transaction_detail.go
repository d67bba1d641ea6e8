package views

import (
	"time"

	"github.com/pterm/pterm"

	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/ui"
	"github.com/hance08/bankd/internal/utils"
)

func RenderTransactionDetail(tx *store.Transaction) error {
	pterm.Println()
	ui.PrintL2Title("Transaction Info")

	infoData := pterm.TableData{
		{"Field", "Value"},
		{"Reference", tx.ReferenceNumber},
		{"Type", tx.Type},
		{"Amount", utils.FormatAmount(tx.Amount, tx.Currency)},
		{"Status", coloredStatus(tx.Status)},
		{"Description", orDash(tx.Description)},
		{"Created", formatUnix(tx.CreatedAt)},
	}

	if tx.CompletedAt != nil {
		infoData = append(infoData, []string{"Completed", formatUnix(*tx.CompletedAt)})
	}
	if tx.FailureReason != "" {
		infoData = append(infoData, []string{"Failure Reason", pterm.Red(tx.FailureReason)})
	}

	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Legs")
	legsData := pterm.TableData{
		{"Account", "Direction", "Balance After"},
	}

	if tx.SourceAccount != nil {
		after := "-"
		if tx.SourceBalanceAfter != nil {
			after = utils.FormatAmount(*tx.SourceBalanceAfter, tx.Currency)
		}
		legsData = append(legsData, []string{*tx.SourceAccount, pterm.Red("Debit -"), after})
	}
	if tx.DestinationAccount != nil {
		after := "-"
		if tx.DestinationBalanceAfter != nil {
			after = utils.FormatAmount(*tx.DestinationBalanceAfter, tx.Currency)
		}
		legsData = append(legsData, []string{*tx.DestinationAccount, pterm.Green("Credit +"), after})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(legsData).
		Render()
}

func coloredStatus(status string) string {
	switch status {
	case store.TxCompleted:
		return pterm.Green(status)
	case store.TxFailed:
		return pterm.Red(status)
	case store.TxReversed:
		return pterm.Yellow(status)
	default:
		return status
	}
}

func formatUnix(unix int64) string {
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
