package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/hance08/bankd/internal/store"
)

// ReconcileReport compares an account's stored balance against the sum of
// the completed transaction effects in the log.
type ReconcileReport struct {
	AccountNumber string
	Balance       decimal.Decimal
	LedgerSum     decimal.Decimal
	Consistent    bool
}

// Reconcile recomputes the balance of an account from the transaction log
// inside a single snapshot. The two values must agree for every account at
// all times; a mismatch means a balance was mutated outside the engine.
func (e *Engine) Reconcile(accountNumber string) (*ReconcileReport, error) {
	report := &ReconcileReport{AccountNumber: accountNumber}

	err := e.repo.ExecTx(func(r store.Repository) error {
		acc, err := r.GetAccountByNumber(accountNumber)
		if err != nil {
			return err
		}

		sum, err := r.SumCompletedEffects(accountNumber)
		if err != nil {
			return err
		}

		report.Balance = acc.Balance
		report.LedgerSum = sum
		report.Consistent = acc.Balance.Equal(sum)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}
