package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/bankd/internal/ledger"
)

func RenderReconcileReport(report *ledger.ReconcileReport) error {
	verdict := pterm.Green("CONSISTENT")
	if !report.Consistent {
		verdict = pterm.Red("MISMATCH")
	}

	tableData := pterm.TableData{
		{"Account", report.AccountNumber},
		{"Stored Balance", report.Balance.StringFixed(2)},
		{"Ledger Sum", report.LedgerSum.StringFixed(2)},
		{"Verdict", verdict},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
