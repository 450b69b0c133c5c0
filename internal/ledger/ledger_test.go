package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "multas.json")
	l := New(NewStore(path))
	if err := l.Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	return l, path
}

func TestIssueAssignsIncreasingIDs(t *testing.T) {
	l, _ := newTestLedger(t)

	users := []string{"u1", "u2", "u1", "u3", "u2"}
	prev := 0
	for _, u := range users {
		f, err := l.Issue(u, 10, "razon")
		if err != nil {
			t.Fatalf("Issue(%q) = %v", u, err)
		}
		if f.ID <= prev {
			t.Errorf("id %d after %d, want strictly increasing", f.ID, prev)
		}
		prev = f.ID
	}
	if prev != len(users) {
		t.Errorf("last id = %d, want %d", prev, len(users))
	}
}

func TestIssueValidation(t *testing.T) {
	l, _ := newTestLedger(t)

	tests := []struct {
		name   string
		amount int
		reason string
		want   error
	}{
		{"zero amount", 0, "razon", ErrInvalidAmount},
		{"negative amount", -5, "razon", ErrInvalidAmount},
		{"empty reason", 50, "", ErrEmptyReason},
		{"blank reason", 50, "   ", ErrEmptyReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Issue("u1", tt.amount, tt.reason); !errors.Is(err, tt.want) {
				t.Errorf("Issue() = %v, want %v", err, tt.want)
			}
		})
	}

	if got := l.ListForUser("u1"); len(got) != 0 {
		t.Errorf("ListForUser after rejected issues = %d fines, want 0", len(got))
	}
}

func TestRevoke(t *testing.T) {
	l, _ := newTestLedger(t)

	f1, _ := l.Issue("u1", 50, "speeding")
	f2, _ := l.Issue("u1", 30, "parking")

	if _, err := l.Revoke("nobody", f1.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Revoke(unknown user) = %v, want ErrUserNotFound", err)
	}
	if _, err := l.Revoke("u1", 999); !errors.Is(err, ErrFineNotFound) {
		t.Errorf("Revoke(unknown fine) = %v, want ErrFineNotFound", err)
	}

	removed, err := l.Revoke("u1", f1.ID)
	if err != nil {
		t.Fatalf("Revoke() = %v", err)
	}
	if removed.ID != f1.ID || removed.Amount != 50 {
		t.Errorf("removed = %+v, want id=%d amount=50", removed, f1.ID)
	}

	rest := l.ListForUser("u1")
	if len(rest) != 1 || rest[0].ID != f2.ID {
		t.Errorf("ListForUser after revoke = %+v, want only #%d", rest, f2.ID)
	}

	// снятие последней мульты убирает пользователя целиком
	if _, err := l.Revoke("u1", f2.ID); err != nil {
		t.Fatalf("Revoke(last) = %v", err)
	}
	if _, err := l.Revoke("u1", f2.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Revoke after user pruned = %v, want ErrUserNotFound", err)
	}
}

func TestRevokePaidFine(t *testing.T) {
	l, _ := newTestLedger(t)

	f, _ := l.Issue("u1", 50, "speeding")
	if err := l.markPaid("u1", f.ID); err != nil {
		t.Fatalf("markPaid() = %v", err)
	}
	if _, err := l.Revoke("u1", f.ID); err != nil {
		t.Errorf("Revoke(paid fine) = %v, want nil", err)
	}
}

func TestListForUserPreservesOrder(t *testing.T) {
	l, _ := newTestLedger(t)

	if got := l.ListForUser("u1"); got == nil || len(got) != 0 {
		t.Errorf("ListForUser(empty) = %v, want empty slice", got)
	}

	amounts := []int{10, 20, 30}
	for _, a := range amounts {
		l.Issue("u1", a, "razon")
	}
	got := l.ListForUser("u1")
	for i, f := range got {
		if f.Amount != amounts[i] {
			t.Errorf("fines[%d].Amount = %d, want %d", i, f.Amount, amounts[i])
		}
	}

	// наружу отдаются копии, мутация среза реестр не трогает
	got[0].Paid = true
	if l.ListForUser("u1")[0].Paid {
		t.Error("mutating returned slice leaked into ledger")
	}
}

func TestFindPayable(t *testing.T) {
	l, _ := newTestLedger(t)

	f, _ := l.Issue("u1", 50, "speeding")

	if _, err := l.findPayable("u1", f.ID); err != nil {
		t.Fatalf("findPayable(unpaid) = %v", err)
	}
	if err := l.markPaid("u1", f.ID); err != nil {
		t.Fatalf("markPaid() = %v", err)
	}
	// уже оплаченная — не подлежит повторной оплате
	if _, err := l.findPayable("u1", f.ID); !errors.Is(err, ErrFineNotFound) {
		t.Errorf("findPayable(paid) = %v, want ErrFineNotFound", err)
	}
}

func TestCounterSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multas.json")

	l1 := New(NewStore(path))
	if err := l1.Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	l1.Issue("u1", 10, "a")
	f2, _ := l1.Issue("u2", 20, "b")

	// "рестарт": новый реестр поверх того же файла
	l2 := New(NewStore(path))
	if err := l2.Load(); err != nil {
		t.Fatalf("Load() after restart = %v", err)
	}
	f3, err := l2.Issue("u1", 30, "c")
	if err != nil {
		t.Fatalf("Issue() after restart = %v", err)
	}
	if f3.ID != f2.ID+1 {
		t.Errorf("id after restart = %d, want %d (no reuse)", f3.ID, f2.ID+1)
	}
}

func TestLoadCorruptFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multas.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	l := New(NewStore(path))
	if err := l.Load(); err != nil {
		t.Fatalf("Load(corrupt) = %v, want nil (fallback)", err)
	}
	if got := l.ListForUser("u1"); len(got) != 0 {
		t.Errorf("ListForUser after corrupt load = %d fines, want 0", len(got))
	}
	f, err := l.Issue("u1", 10, "razon")
	if err != nil {
		t.Fatalf("Issue() after fallback = %v", err)
	}
	if f.ID != 1 {
		t.Errorf("first id after fallback = %d, want 1", f.ID)
	}
}
