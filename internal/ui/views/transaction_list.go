package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/bankd/internal/store"
	"github.com/hance08/bankd/internal/utils"
)

type TransactionListView struct{}

func NewTransactionListView() *TransactionListView {
	return &TransactionListView{}
}

// Render displays a statement for one account. Amounts are signed from the
// statement account's point of view.
func (v *TransactionListView) Render(accountNumber string, transactions []*store.Transaction, limit int) error {
	if len(transactions) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("Statement for %s (limit: %d)", accountNumber, limit)

	tableData := pterm.TableData{
		{"Reference", "Date", "Type", "Amount", "Status", "Description"},
	}

	for _, tx := range transactions {
		amount := utils.FormatAmount(tx.Amount, tx.Currency)

		var coloredType, coloredAmount string
		switch {
		case tx.DestinationAccount != nil && *tx.DestinationAccount == accountNumber:
			coloredType = pterm.Green(tx.Type)
			coloredAmount = pterm.Green("+" + amount)
		case tx.SourceAccount != nil && *tx.SourceAccount == accountNumber:
			coloredType = pterm.Red(tx.Type)
			coloredAmount = pterm.Red("-" + amount)
		default:
			coloredType = tx.Type
			coloredAmount = amount
		}

		tableData = append(tableData, []string{
			tx.ReferenceNumber,
			formatUnix(tx.CreatedAt),
			coloredType,
			coloredAmount,
			coloredStatus(tx.Status),
			tx.Description,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(transactions))
	return nil
}
