package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hance08/bankd/internal/store"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureNotifier) Enqueue(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *captureNotifier) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func newTestEngine(t *testing.T) (*Engine, *store.Store, *captureNotifier) {
	t.Helper()

	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	notifier := &captureNotifier{}
	engine := NewEngine(s, notifier, nil, nil)

	return engine, s, notifier
}

func seedAccount(t *testing.T, s *store.Store, number, currency, balance string) {
	t.Helper()

	user, err := s.CreateUser(number+"@example.com", "Test", "User")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateAccount(user.ID, number, store.TypeChecking, currency); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if balance != "0" {
		if _, err := s.ApplyBalanceDelta(number, dec(t, balance)); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestDepositCompletes(t *testing.T) {
	engine, s, notifier := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "0")

	tx, err := engine.Deposit(context.Background(), DepositParams{
		AccountNumber: "111111111111",
		Amount:        dec(t, "100.005"), // banker's rounding
	})
	if err != nil {
		t.Fatal(err)
	}

	if tx.Status != store.TxCompleted {
		t.Fatalf("status=%s want=COMPLETED", tx.Status)
	}
	if !tx.Amount.Equal(dec(t, "100.00")) {
		t.Fatalf("amount=%s want=100.00", tx.Amount)
	}
	if tx.DestinationBalanceAfter == nil || !tx.DestinationBalanceAfter.Equal(dec(t, "100.00")) {
		t.Fatalf("destination snapshot=%v want=100.00", tx.DestinationBalanceAfter)
	}
	if tx.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}

	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("balance=%s want=100.00", acc.Balance)
	}

	events := notifier.all()
	if len(events) != 1 {
		t.Fatalf("events=%d want=1", len(events))
	}
	if events[0].AccountNumber != "111111111111" || events[0].BalanceAfter != "100.00" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestDepositIdempotentReplay(t *testing.T) {
	engine, s, notifier := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "0")

	params := DepositParams{
		AccountNumber:   "111111111111",
		Amount:          dec(t, "50.00"),
		ReferenceNumber: "DEPIDEMPOTENT001",
	}

	first, err := engine.Deposit(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Deposit(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}

	// The replay returns the stored result and applies nothing.
	if second.ID != first.ID || second.Status != store.TxCompleted {
		t.Fatalf("replay returned a different transaction: %+v vs %+v", first, second)
	}

	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(dec(t, "50.00")) {
		t.Fatalf("balance=%s want=50.00, deposit applied twice", acc.Balance)
	}

	events := notifier.all()
	if len(events) != 1 {
		t.Fatalf("events=%d want=1, replay must not emit", len(events))
	}
	if events[0].BalanceAfter != "50.00" {
		t.Fatalf("event balance_after=%s want=50.00", events[0].BalanceAfter)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "20.00")

	_, err := engine.Withdraw(context.Background(), WithdrawParams{
		AccountNumber:   "111111111111",
		Amount:          dec(t, "50.00"),
		ReferenceNumber: "WTHTOOBIG0000001",
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	// The rejection leaves a FAILED audit row and no balance change.
	tx, err := s.GetTransactionByReference("WTHTOOBIG0000001")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Status != store.TxFailed || tx.FailureReason == "" {
		t.Fatalf("audit row=%+v want FAILED with reason", tx)
	}

	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(dec(t, "20.00")) {
		t.Fatalf("balance=%s want=20.00", acc.Balance)
	}

	// Replaying the failed reference returns the stored rejection.
	replay, err := engine.Withdraw(context.Background(), WithdrawParams{
		AccountNumber:   "111111111111",
		Amount:          dec(t, "50.00"),
		ReferenceNumber: "WTHTOOBIG0000001",
	})
	if err != nil {
		t.Fatal(err)
	}
	if replay.Status != store.TxFailed {
		t.Fatalf("replay status=%s want=FAILED", replay.Status)
	}
}

func TestInvalidAmountLeavesNoRow(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "0")

	_, err := engine.Deposit(context.Background(), DepositParams{
		AccountNumber:   "111111111111",
		Amount:          dec(t, "-5.00"),
		ReferenceNumber: "DEPNEGATIVE00001",
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}

	if _, err := s.GetTransactionByReference("DEPNEGATIVE00001"); !errors.Is(err, store.ErrTransactionNotFound) {
		t.Fatalf("validation failure must not write a log row, got %v", err)
	}
}

func TestFrozenAccountRejectsDeposit(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "0")
	if err := s.UpdateAccountStatus("111111111111", store.AccountFrozen); err != nil {
		t.Fatal(err)
	}

	_, err := engine.Deposit(context.Background(), DepositParams{
		AccountNumber:   "111111111111",
		Amount:          dec(t, "10.00"),
		ReferenceNumber: "DEPFROZEN0000001",
	})
	if !errors.Is(err, store.ErrAccountNotActive) {
		t.Fatalf("want ErrAccountNotActive, got %v", err)
	}

	tx, err := s.GetTransactionByReference("DEPFROZEN0000001")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Status != store.TxFailed {
		t.Fatalf("status=%s want=FAILED", tx.Status)
	}
}

func TestTransferMovesMoneyAtomically(t *testing.T) {
	engine, s, notifier := newTestEngine(t)
	seedAccount(t, s, "222222222222", "USD", "100.00")
	seedAccount(t, s, "111111111111", "USD", "10.00")

	tx, err := engine.Transfer(context.Background(), TransferParams{
		SourceAccount:      "222222222222",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "40.00"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if tx.Status != store.TxCompleted {
		t.Fatalf("status=%s want=COMPLETED", tx.Status)
	}
	if tx.SourceBalanceAfter == nil || !tx.SourceBalanceAfter.Equal(dec(t, "60.00")) {
		t.Fatalf("source snapshot=%v want=60.00", tx.SourceBalanceAfter)
	}
	if tx.DestinationBalanceAfter == nil || !tx.DestinationBalanceAfter.Equal(dec(t, "50.00")) {
		t.Fatalf("destination snapshot=%v want=50.00", tx.DestinationBalanceAfter)
	}

	// Both parties get an event naming the other as counterparty.
	events := notifier.all()
	if len(events) != 2 {
		t.Fatalf("events=%d want=2", len(events))
	}
	for _, event := range events {
		if len(event.Counterparties) != 1 {
			t.Fatalf("event without counterparty: %+v", event)
		}
	}
}

func TestTransferInsufficientFundsRollsBack(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "222222222222", "USD", "30.00")
	seedAccount(t, s, "111111111111", "USD", "0")

	_, err := engine.Transfer(context.Background(), TransferParams{
		SourceAccount:      "222222222222",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "40.00"),
		ReferenceNumber:    "TRFTOOBIG0000001",
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	// Neither leg may stick. The destination is credited before the source
	// is debited (ascending account-number order), so this catches a
	// half-applied transfer.
	src, _ := s.GetAccountByNumber("222222222222")
	dst, _ := s.GetAccountByNumber("111111111111")
	if !src.Balance.Equal(dec(t, "30.00")) || !dst.Balance.IsZero() {
		t.Fatalf("balances src=%s dst=%s want 30.00/0", src.Balance, dst.Balance)
	}
}

func TestTransferSameAccount(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "10.00")

	_, err := engine.Transfer(context.Background(), TransferParams{
		SourceAccount:      "111111111111",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "1.00"),
	})
	if !errors.Is(err, ErrSameAccount) {
		t.Fatalf("want ErrSameAccount, got %v", err)
	}
}

func TestTransferCurrencyMismatch(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "222222222222", "USD", "100.00")
	seedAccount(t, s, "111111111111", "EUR", "0")

	_, err := engine.Transfer(context.Background(), TransferParams{
		SourceAccount:      "222222222222",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "10.00"),
		ReferenceNumber:    "TRFMISMATCH00001",
	})
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("want ErrCurrencyMismatch, got %v", err)
	}

	tx, err := s.GetTransactionByReference("TRFMISMATCH00001")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Status != store.TxFailed {
		t.Fatalf("status=%s want=FAILED", tx.Status)
	}
}

func TestReverseTransfer(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "222222222222", "USD", "100.00")
	seedAccount(t, s, "111111111111", "USD", "0")

	orig, err := engine.Transfer(context.Background(), TransferParams{
		SourceAccount:      "222222222222",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "25.00"),
	})
	if err != nil {
		t.Fatal(err)
	}

	rev, err := engine.Reverse(context.Background(), orig.ReferenceNumber, "")
	if err != nil {
		t.Fatal(err)
	}
	if rev.Type != store.TxReversal || rev.Status != store.TxCompleted {
		t.Fatalf("reversal=%+v", rev)
	}

	// Money is back where it started and the original is marked REVERSED.
	src, _ := s.GetAccountByNumber("222222222222")
	dst, _ := s.GetAccountByNumber("111111111111")
	if !src.Balance.Equal(dec(t, "100.00")) || !dst.Balance.IsZero() {
		t.Fatalf("balances src=%s dst=%s want 100.00/0", src.Balance, dst.Balance)
	}

	stored, err := s.GetTransactionByReference(orig.ReferenceNumber)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != store.TxReversed {
		t.Fatalf("original status=%s want=REVERSED", stored.Status)
	}

	// A second reversal must refuse.
	if _, err := engine.Reverse(context.Background(), orig.ReferenceNumber, ""); !errors.Is(err, ErrNotReversible) {
		t.Fatalf("want ErrNotReversible, got %v", err)
	}
}

func TestConcurrentIdenticalDeposits(t *testing.T) {
	engine, s, notifier := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "0")

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Deposit(context.Background(), DepositParams{
				AccountNumber:   "111111111111",
				Amount:          dec(t, "10.00"),
				ReferenceNumber: "DEPRACE000000001",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}

	// The reference settles exactly once no matter how many callers raced.
	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(dec(t, "10.00")) {
		t.Fatalf("balance=%s want=10.00", acc.Balance)
	}
	if events := notifier.all(); len(events) != 1 {
		t.Fatalf("events=%d want=1", len(events))
	}
}

func TestConcurrentOpposingTransfers(t *testing.T) {
	engine, s, notifier := newTestEngine(t)
	seedAccount(t, s, "111111111111", "USD", "100.00")
	seedAccount(t, s, "222222222222", "USD", "100.00")

	// transfer(A->B) and transfer(B->A) racing each other. Both fit the
	// balances in either order, so any serial schedule ends with the same
	// net result; a lost update or a half-applied leg would not.
	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = engine.Transfer(context.Background(), TransferParams{
			SourceAccount:      "111111111111",
			DestinationAccount: "222222222222",
			Amount:             dec(t, "30.00"),
			ReferenceNumber:    "TRFOPPOSEAB00001",
		})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = engine.Transfer(context.Background(), TransferParams{
			SourceAccount:      "222222222222",
			DestinationAccount: "111111111111",
			Amount:             dec(t, "50.00"),
			ReferenceNumber:    "TRFOPPOSEBA00001",
		})
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}

	a, _ := s.GetAccountByNumber("111111111111")
	b, _ := s.GetAccountByNumber("222222222222")
	if !a.Balance.Equal(dec(t, "120.00")) || !b.Balance.Equal(dec(t, "80.00")) {
		t.Fatalf("balances a=%s b=%s want 120.00/80.00", a.Balance, b.Balance)
	}
	if !a.Balance.Add(b.Balance).Equal(dec(t, "200.00")) {
		t.Fatalf("money not conserved: %s", a.Balance.Add(b.Balance))
	}

	// Each account's log must agree with its stored balance.
	for _, number := range []string{"111111111111", "222222222222"} {
		report, err := engine.Reconcile(number)
		if err != nil {
			t.Fatal(err)
		}
		if !report.Consistent {
			t.Fatalf("account %s inconsistent: balance=%s sum=%s",
				number, report.Balance, report.LedgerSum)
		}
	}

	if events := notifier.all(); len(events) != 4 {
		t.Fatalf("events=%d want=4, two per transfer", len(events))
	}
}

func TestReconcile(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	seedAccount(t, s, "222222222222", "USD", "0")
	seedAccount(t, s, "111111111111", "USD", "0")

	ctx := context.Background()
	if _, err := engine.Deposit(ctx, DepositParams{AccountNumber: "222222222222", Amount: dec(t, "100.00")}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Withdraw(ctx, WithdrawParams{AccountNumber: "222222222222", Amount: dec(t, "15.00")}); err != nil {
		t.Fatal(err)
	}
	tx, err := engine.Transfer(ctx, TransferParams{
		SourceAccount:      "222222222222",
		DestinationAccount: "111111111111",
		Amount:             dec(t, "20.00"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.Reverse(ctx, tx.ReferenceNumber, ""); err != nil {
		t.Fatal(err)
	}

	for _, number := range []string{"222222222222", "111111111111"} {
		report, err := engine.Reconcile(number)
		if err != nil {
			t.Fatal(err)
		}
		if !report.Consistent {
			t.Fatalf("account %s inconsistent: balance=%s sum=%s",
				number, report.Balance, report.LedgerSum)
		}
	}
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference(store.TxDeposit)
	if len(ref) != 15 || ref[:3] != "DEP" {
		t.Fatalf("reference=%q want DEP + 12 chars", ref)
	}

	if GenerateReference(store.TxTransfer)[:3] != "TRF" {
		t.Fatal("transfer prefix")
	}

	// Collisions over a small sample would indicate a broken generator.
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		r := GenerateReference(store.TxWithdrawal)
		if seen[r] {
			t.Fatalf("duplicate reference %q", r)
		}
		seen[r] = true
	}
}
