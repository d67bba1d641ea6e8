package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hance08/bankd/internal/metrics"
	"github.com/hance08/bankd/internal/store"
)

const (
	defaultWaitTimeout  = 3 * time.Second
	defaultPollInterval = 50 * time.Millisecond

	maxUnitAttempts = 3
)

// Engine applies deposits, withdrawals, transfers and reversals against the
// ledger store and the transaction log as atomic units of work. All balance
// mutation in the system goes through here.
type Engine struct {
	repo     store.Repository
	notifier Notifier
	metrics  *metrics.Collector
	logger   *slog.Logger

	waitTimeout  time.Duration
	pollInterval time.Duration
}

func NewEngine(repo store.Repository, notifier Notifier, collector *metrics.Collector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:         repo,
		notifier:     notifier,
		metrics:      collector,
		logger:       logger,
		waitTimeout:  defaultWaitTimeout,
		pollInterval: defaultPollInterval,
	}
}

// WithWaitWindow tunes how long a caller waits on a concurrent identical
// request before giving up with ErrInFlight.
func (e *Engine) WithWaitWindow(timeout, poll time.Duration) *Engine {
	e.waitTimeout = timeout
	e.pollInterval = poll
	return e
}

type DepositParams struct {
	AccountNumber   string
	Amount          decimal.Decimal
	Currency        string
	ReferenceNumber string
	Description     string
}

type WithdrawParams struct {
	AccountNumber   string
	Amount          decimal.Decimal
	Currency        string
	ReferenceNumber string
	Description     string
}

type TransferParams struct {
	SourceAccount      string
	DestinationAccount string
	Amount             decimal.Decimal
	Currency           string
	ReferenceNumber    string
	Description        string
}

func (e *Engine) Deposit(ctx context.Context, p DepositParams) (*store.Transaction, error) {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return nil, err
	}

	acc, err := e.repo.GetAccountByNumber(p.AccountNumber)
	if err != nil {
		return nil, err
	}

	ref := p.ReferenceNumber
	if ref == "" {
		ref = GenerateReference(store.TxDeposit)
	}
	desc := orDefault(p.Description, "Deposit")

	template := store.Transaction{
		ReferenceNumber:    ref,
		Type:               store.TxDeposit,
		Amount:             amount,
		Currency:           acc.Currency,
		DestinationAccount: &p.AccountNumber,
		Description:        desc,
	}

	if p.Currency != "" && p.Currency != acc.Currency {
		return nil, e.recordRejection(template, ErrCurrencyMismatch)
	}

	var balanceAfter decimal.Decimal
	tx, fresh, err := e.runUnit(ctx, ref, template, func(r store.Repository) error {
		if _, err := r.CreatePendingTransaction(withCreatedAt(template)); err != nil {
			return err
		}
		var err error
		if balanceAfter, err = r.ApplyBalanceDelta(p.AccountNumber, amount); err != nil {
			return err
		}
		return r.MarkTransactionCompleted(ref, time.Now().Unix(), nil, &balanceAfter)
	})
	if err != nil || !fresh {
		return tx, err
	}

	e.emit(Event{
		TransactionType: store.TxDeposit,
		ReferenceNumber: ref,
		Amount:          amount.StringFixed(2),
		Currency:        acc.Currency,
		AccountNumber:   p.AccountNumber,
		BalanceAfter:    balanceAfter.StringFixed(2),
		Timestamp:       completedAtOrNow(tx),
		Description:     desc,
	})

	return tx, nil
}

func (e *Engine) Withdraw(ctx context.Context, p WithdrawParams) (*store.Transaction, error) {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return nil, err
	}

	acc, err := e.repo.GetAccountByNumber(p.AccountNumber)
	if err != nil {
		return nil, err
	}

	ref := p.ReferenceNumber
	if ref == "" {
		ref = GenerateReference(store.TxWithdrawal)
	}
	desc := orDefault(p.Description, "Withdrawal")

	template := store.Transaction{
		ReferenceNumber: ref,
		Type:            store.TxWithdrawal,
		Amount:          amount,
		Currency:        acc.Currency,
		SourceAccount:   &p.AccountNumber,
		Description:     desc,
	}

	if p.Currency != "" && p.Currency != acc.Currency {
		return nil, e.recordRejection(template, ErrCurrencyMismatch)
	}

	var balanceAfter decimal.Decimal
	tx, fresh, err := e.runUnit(ctx, ref, template, func(r store.Repository) error {
		if _, err := r.CreatePendingTransaction(withCreatedAt(template)); err != nil {
			return err
		}
		var err error
		if balanceAfter, err = r.ApplyBalanceDelta(p.AccountNumber, amount.Neg()); err != nil {
			return err
		}
		return r.MarkTransactionCompleted(ref, time.Now().Unix(), &balanceAfter, nil)
	})
	if err != nil || !fresh {
		return tx, err
	}

	e.emit(Event{
		TransactionType: store.TxWithdrawal,
		ReferenceNumber: ref,
		Amount:          amount.StringFixed(2),
		Currency:        acc.Currency,
		AccountNumber:   p.AccountNumber,
		BalanceAfter:    balanceAfter.StringFixed(2),
		Timestamp:       completedAtOrNow(tx),
		Description:     desc,
	})

	return tx, nil
}

func (e *Engine) Transfer(ctx context.Context, p TransferParams) (*store.Transaction, error) {
	amount, err := normalizeAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	if p.SourceAccount == p.DestinationAccount {
		return nil, ErrSameAccount
	}

	src, err := e.repo.GetAccountByNumber(p.SourceAccount)
	if err != nil {
		return nil, fmt.Errorf("source account: %w", err)
	}
	dst, err := e.repo.GetAccountByNumber(p.DestinationAccount)
	if err != nil {
		return nil, fmt.Errorf("destination account: %w", err)
	}

	ref := p.ReferenceNumber
	if ref == "" {
		ref = GenerateReference(store.TxTransfer)
	}
	desc := orDefault(p.Description, "Transfer")

	template := store.Transaction{
		ReferenceNumber:    ref,
		Type:               store.TxTransfer,
		Amount:             amount,
		Currency:           src.Currency,
		SourceAccount:      &p.SourceAccount,
		DestinationAccount: &p.DestinationAccount,
		Description:        desc,
	}

	if src.Currency != dst.Currency || (p.Currency != "" && p.Currency != src.Currency) {
		return nil, e.recordRejection(template, ErrCurrencyMismatch)
	}

	var sourceAfter, destAfter decimal.Decimal
	tx, fresh, err := e.runUnit(ctx, ref, template, func(r store.Repository) error {
		if _, err := r.CreatePendingTransaction(withCreatedAt(template)); err != nil {
			return err
		}

		// Both legs commit or neither does. Rows are touched in ascending
		// account-number order so any two concurrent transfers acquire
		// their locks in the same global order.
		for _, number := range ascending(p.SourceAccount, p.DestinationAccount) {
			delta := amount
			if number == p.SourceAccount {
				delta = amount.Neg()
			}
			after, err := r.ApplyBalanceDelta(number, delta)
			if err != nil {
				return err
			}
			if number == p.SourceAccount {
				sourceAfter = after
			} else {
				destAfter = after
			}
		}

		return r.MarkTransactionCompleted(ref, time.Now().Unix(), &sourceAfter, &destAfter)
	})
	if err != nil || !fresh {
		return tx, err
	}

	ts := completedAtOrNow(tx)
	e.emit(Event{
		TransactionType: store.TxTransfer,
		ReferenceNumber: ref,
		Amount:          amount.StringFixed(2),
		Currency:        src.Currency,
		AccountNumber:   p.SourceAccount,
		BalanceAfter:    sourceAfter.StringFixed(2),
		Timestamp:       ts,
		Description:     desc,
		Counterparties:  []string{p.DestinationAccount},
	})
	e.emit(Event{
		TransactionType: store.TxTransfer,
		ReferenceNumber: ref,
		Amount:          amount.StringFixed(2),
		Currency:        src.Currency,
		AccountNumber:   p.DestinationAccount,
		BalanceAfter:    destAfter.StringFixed(2),
		Timestamp:       ts,
		Description:     desc,
		Counterparties:  []string{p.SourceAccount},
	})

	return tx, nil
}

// Lookup returns the settled or pending log entry for a reference number.
func (e *Engine) Lookup(referenceNumber string) (*store.Transaction, error) {
	return e.repo.GetTransactionByReference(referenceNumber)
}

// Reverse applies a compensating REVERSAL transaction for a COMPLETED
// original and moves the original to REVERSED, atomically.
func (e *Engine) Reverse(ctx context.Context, referenceNumber, description string) (*store.Transaction, error) {
	orig, err := e.repo.GetTransactionByReference(referenceNumber)
	if err != nil {
		return nil, err
	}
	if orig.Status != store.TxCompleted {
		return nil, fmt.Errorf("transaction '%s' is %s: %w", referenceNumber, orig.Status, ErrNotReversible)
	}

	revRef := GenerateReference(store.TxReversal)
	desc := orDefault(description, "Reversal of "+referenceNumber)

	// The compensating entry swaps the legs of the original.
	template := store.Transaction{
		ReferenceNumber:    revRef,
		Type:               store.TxReversal,
		Amount:             orig.Amount,
		Currency:           orig.Currency,
		SourceAccount:      orig.DestinationAccount,
		DestinationAccount: orig.SourceAccount,
		Description:        desc,
	}

	var sourceAfter, destAfter *decimal.Decimal
	tx, fresh, err := e.runUnit(ctx, revRef, template, func(r store.Repository) error {
		if _, err := r.CreatePendingTransaction(withCreatedAt(template)); err != nil {
			return err
		}

		if template.SourceAccount != nil {
			after, err := r.ApplyBalanceDelta(*template.SourceAccount, orig.Amount.Neg())
			if err != nil {
				return err
			}
			sourceAfter = &after
		}
		if template.DestinationAccount != nil {
			after, err := r.ApplyBalanceDelta(*template.DestinationAccount, orig.Amount)
			if err != nil {
				return err
			}
			destAfter = &after
		}

		if err := r.MarkTransactionReversed(referenceNumber); err != nil {
			return err
		}
		return r.MarkTransactionCompleted(revRef, time.Now().Unix(), sourceAfter, destAfter)
	})
	if err != nil || !fresh {
		return tx, err
	}

	ts := completedAtOrNow(tx)
	if template.SourceAccount != nil && sourceAfter != nil {
		e.emit(Event{
			TransactionType: store.TxReversal,
			ReferenceNumber: revRef,
			Amount:          orig.Amount.StringFixed(2),
			Currency:        orig.Currency,
			AccountNumber:   *template.SourceAccount,
			BalanceAfter:    sourceAfter.StringFixed(2),
			Timestamp:       ts,
			Description:     desc,
		})
	}
	if template.DestinationAccount != nil && destAfter != nil {
		e.emit(Event{
			TransactionType: store.TxReversal,
			ReferenceNumber: revRef,
			Amount:          orig.Amount.StringFixed(2),
			Currency:        orig.Currency,
			AccountNumber:   *template.DestinationAccount,
			BalanceAfter:    destAfter.StringFixed(2),
			Timestamp:       ts,
			Description:     desc,
		})
	}

	return tx, nil
}

// runUnit drives one atomic unit of work for a reference number: idempotency
// check, the unit itself, duplicate-race retries and the FAILED audit row for
// business-rule rejections. On success it returns the settled log row; fresh
// reports whether this call applied the unit, as opposed to replaying a
// stored result. Only a fresh commit may trigger post-commit side effects.
func (e *Engine) runUnit(ctx context.Context, ref string, template store.Transaction, apply func(store.Repository) error) (tx *store.Transaction, fresh bool, err error) {
	for attempt := 0; attempt < maxUnitAttempts; attempt++ {
		existing, err := e.awaitSettled(ctx, ref)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			// Idempotent short-circuit: the reference already settled,
			// return the stored result without re-applying.
			return existing, false, nil
		}

		start := time.Now()
		err = e.repo.ExecTx(apply)
		e.metrics.ObserveTransaction(template.Type, time.Since(start), err == nil)

		if err == nil {
			tx, err := e.repo.GetTransactionByReference(ref)
			return tx, err == nil, err
		}

		if errors.Is(err, store.ErrDuplicateReference) {
			// Lost the insert race against a concurrent identical request;
			// loop back and wait for its outcome.
			continue
		}

		if isBusinessRule(err) {
			return nil, false, e.recordRejection(template, err)
		}

		e.logger.Error("unit of work failed",
			slog.String("reference", ref),
			slog.String("type", template.Type),
			slog.String("error", err.Error()))
		return nil, false, err
	}

	return nil, false, ErrInFlight
}

// awaitSettled implements the idempotency guard against the transaction log.
// It returns nil when the reference is novel, the stored row once the
// reference has settled, and ErrInFlight when a concurrent identical request
// stays PENDING past the wait window.
func (e *Engine) awaitSettled(ctx context.Context, ref string) (*store.Transaction, error) {
	deadline := time.Now().Add(e.waitTimeout)

	for {
		tx, err := e.repo.GetTransactionByReference(ref)
		if errors.Is(err, store.ErrTransactionNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if tx.Status != store.TxPending {
			return tx, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrInFlight
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
}

// recordRejection writes the FAILED audit row for a business-rule violation
// and hands the violation back to the caller. The row is best-effort: audit
// must never mask the original error.
func (e *Engine) recordRejection(template store.Transaction, cause error) error {
	err := e.repo.ExecTx(func(r store.Repository) error {
		if _, err := r.CreatePendingTransaction(withCreatedAt(template)); err != nil {
			return err
		}
		return r.MarkTransactionFailed(template.ReferenceNumber, cause.Error())
	})
	if err != nil {
		e.logger.Warn("could not record failed transaction",
			slog.String("reference", template.ReferenceNumber),
			slog.String("error", err.Error()))
	}
	return cause
}

func (e *Engine) emit(event Event) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Enqueue(event); err != nil {
		// Notification failure never rolls back a financial commit.
		e.logger.Warn("failed to enqueue notification",
			slog.String("reference", event.ReferenceNumber),
			slog.String("error", err.Error()))
	}
}

func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	// Banker's rounding to two decimal places at the boundary.
	return amount.RoundBank(2), nil
}

func ascending(a, b string) []string {
	numbers := []string{a, b}
	sort.Strings(numbers)
	return numbers
}

func withCreatedAt(tx store.Transaction) store.Transaction {
	tx.CreatedAt = time.Now().Unix()
	return tx
}

func completedAtOrNow(tx *store.Transaction) int64 {
	if tx.CompletedAt != nil {
		return *tx.CompletedAt
	}
	return time.Now().Unix()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
