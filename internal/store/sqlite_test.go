package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// seedAccount creates a user with one active account holding the given balance.
func seedAccount(t *testing.T, s *Store, number, balance string) *Account {
	t.Helper()

	user, err := s.CreateUser(number+"@example.com", "Test", "User")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	acc, err := s.CreateAccount(user.ID, number, TypeChecking, "USD")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if balance != "0" {
		if _, err := s.ApplyBalanceDelta(number, mustDecimal(t, balance)); err != nil {
			t.Fatalf("ApplyBalanceDelta: %v", err)
		}
	}

	return acc
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateUser("dup@example.com", "A", "B"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateUser("dup@example.com", "C", "D"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("want ErrUserExists, got %v", err)
	}
}

func TestCreateAccountAndGet(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "0")

	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if acc.Status != AccountActive || !acc.Balance.IsZero() || acc.Currency != "USD" {
		t.Fatalf("unexpected account: %+v", acc)
	}

	if _, err := s.GetAccountByNumber("000000000000"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestCreateAccountDuplicateNumber(t *testing.T) {
	s := newTestStore(t)
	acc := seedAccount(t, s, "111111111111", "0")

	if _, err := s.CreateAccount(acc.UserID, "111111111111", TypeSavings, "USD"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("want ErrAccountExists, got %v", err)
	}
}

func TestApplyBalanceDelta(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "100.00")

	// Overdraft is rejected, balance untouched.
	if _, err := s.ApplyBalanceDelta("111111111111", mustDecimal(t, "-150.00")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	after, err := s.ApplyBalanceDelta("111111111111", mustDecimal(t, "-30.50"))
	if err != nil {
		t.Fatal(err)
	}
	if !after.Equal(mustDecimal(t, "69.50")) {
		t.Fatalf("balance=%s want=69.50", after)
	}

	// Frozen accounts reject every mutation.
	if err := s.UpdateAccountStatus("111111111111", AccountFrozen); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ApplyBalanceDelta("111111111111", mustDecimal(t, "1.00")); !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("want ErrAccountNotActive, got %v", err)
	}
}

func TestDuplicateReferenceNumber(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "0")

	number := "111111111111"
	tx := Transaction{
		ReferenceNumber:    "DEPAAAAAAAAAAAAA",
		Type:               TxDeposit,
		Amount:             mustDecimal(t, "10.00"),
		Currency:           "USD",
		DestinationAccount: &number,
		CreatedAt:          time.Now().Unix(),
	}

	if _, err := s.CreatePendingTransaction(tx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePendingTransaction(tx); !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("want ErrDuplicateReference, got %v", err)
	}
}

func TestTransactionStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "0")

	number := "111111111111"
	after := mustDecimal(t, "10.00")
	tx := Transaction{
		ReferenceNumber:    "DEPBBBBBBBBBBBBB",
		Type:               TxDeposit,
		Amount:             mustDecimal(t, "10.00"),
		Currency:           "USD",
		DestinationAccount: &number,
		CreatedAt:          time.Now().Unix(),
	}
	if _, err := s.CreatePendingTransaction(tx); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkTransactionCompleted(tx.ReferenceNumber, time.Now().Unix(), nil, &after); err != nil {
		t.Fatal(err)
	}

	// Completed rows are final for the engine: a second completion and a
	// failure mark must both refuse.
	if err := s.MarkTransactionCompleted(tx.ReferenceNumber, time.Now().Unix(), nil, &after); !errors.Is(err, ErrTransactionFinal) {
		t.Fatalf("want ErrTransactionFinal, got %v", err)
	}
	if err := s.MarkTransactionFailed(tx.ReferenceNumber, "nope"); !errors.Is(err, ErrTransactionFinal) {
		t.Fatalf("want ErrTransactionFinal, got %v", err)
	}

	// Reversal is reachable from COMPLETED exactly once.
	if err := s.MarkTransactionReversed(tx.ReferenceNumber); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkTransactionReversed(tx.ReferenceNumber); !errors.Is(err, ErrTransactionFinal) {
		t.Fatalf("want ErrTransactionFinal, got %v", err)
	}

	got, err := s.GetTransactionByReference(tx.ReferenceNumber)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != TxReversed {
		t.Fatalf("status=%s want=%s", got.Status, TxReversed)
	}
}

func TestSumCompletedEffects(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "0")

	number := "111111111111"
	entries := []struct {
		ref    string
		amount string
		credit bool
		status string
	}{
		{"DEP1AAAAAAAAAAAA", "100.00", true, TxCompleted},
		{"WTH1AAAAAAAAAAAA", "30.00", false, TxCompleted},
		{"WTH2AAAAAAAAAAAA", "999.00", false, TxFailed}, // failed rows carry no effect
	}

	for _, e := range entries {
		tx := Transaction{
			ReferenceNumber: e.ref,
			Type:            TxDeposit,
			Amount:          mustDecimal(t, e.amount),
			Currency:        "USD",
			CreatedAt:       time.Now().Unix(),
		}
		if e.credit {
			tx.DestinationAccount = &number
		} else {
			tx.SourceAccount = &number
		}
		if _, err := s.CreatePendingTransaction(tx); err != nil {
			t.Fatal(err)
		}

		switch e.status {
		case TxCompleted:
			if err := s.MarkTransactionCompleted(e.ref, time.Now().Unix(), nil, nil); err != nil {
				t.Fatal(err)
			}
		case TxFailed:
			if err := s.MarkTransactionFailed(e.ref, "insufficient funds"); err != nil {
				t.Fatal(err)
			}
		}
	}

	sum, err := s.SumCompletedEffects(number)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Equal(mustDecimal(t, "70.00")) {
		t.Fatalf("sum=%s want=70.00", sum)
	}
}

func TestGetTransactionsByAccountLimit(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "0")

	number := "111111111111"
	refs := []string{"DEPX1AAAAAAAAAAA", "DEPX2AAAAAAAAAAA", "DEPX3AAAAAAAAAAA"}
	for i, ref := range refs {
		tx := Transaction{
			ReferenceNumber:    ref,
			Type:               TxDeposit,
			Amount:             mustDecimal(t, "1.00"),
			Currency:           "USD",
			DestinationAccount: &number,
			CreatedAt:          time.Now().Unix() + int64(i),
		}
		if _, err := s.CreatePendingTransaction(tx); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetTransactionsByAccount(number, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
	// Newest first.
	if got[0].ReferenceNumber != "DEPX3AAAAAAAAAAA" {
		t.Fatalf("first=%s want newest", got[0].ReferenceNumber)
	}
}

func TestExecTxRollback(t *testing.T) {
	s := newTestStore(t)
	seedAccount(t, s, "111111111111", "100.00")

	boom := errors.New("boom")
	err := s.ExecTx(func(r Repository) error {
		if _, err := r.ApplyBalanceDelta("111111111111", mustDecimal(t, "-40.00")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	acc, err := s.GetAccountByNumber("111111111111")
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("balance=%s want=100.00 after rollback", acc.Balance)
	}
}

func TestOutboxLifecycle(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Unix()

	if err := s.EnqueueNotification("job-1", []byte(`{"ok":true}`), now); err != nil {
		t.Fatal(err)
	}
	if err := s.EnqueueNotification("job-2", []byte(`{}`), now+3600); err != nil {
		t.Fatal(err)
	}

	// Only job-1 is due; claiming bumps its attempt counter.
	job, err := s.NextDueNotification(now)
	if err != nil {
		t.Fatal(err)
	}
	if job.ID != "job-1" || job.Attempts != 1 {
		t.Fatalf("job=%+v want id=job-1 attempts=1", job)
	}

	if err := s.MarkNotificationCompleted(job.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.NextDueNotification(now); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("want ErrJobNotFound, got %v", err)
	}

	// job-2 becomes due after its scheduled time.
	job, err = s.NextDueNotification(now + 7200)
	if err != nil {
		t.Fatal(err)
	}
	if job.ID != "job-2" {
		t.Fatalf("id=%s want=job-2", job.ID)
	}

	if err := s.RescheduleNotification(job.ID, now+9000); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkNotificationFailed("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("want ErrJobNotFound, got %v", err)
	}
}
