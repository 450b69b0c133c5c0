package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multas.json")
	s := NewStore(path)

	created := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	in := map[string][]*Fine{
		"u1": {
			{ID: 1, Amount: 50, Reason: "speeding", CreatedAt: created, Paid: false},
			{ID: 3, Amount: 20, Reason: "parking", CreatedAt: created, Paid: true},
		},
		"u2": {
			{ID: 2, Amount: 100, Reason: "rdm", CreatedAt: created, Paid: false},
		},
	}

	if err := s.Save(in, 4); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	out, nextID, err := s.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if nextID != 4 {
		t.Errorf("nextID = %d, want 4", nextID)
	}
	if len(out) != len(in) {
		t.Fatalf("users = %d, want %d", len(out), len(in))
	}
	for user, seq := range in {
		got := out[user]
		if len(got) != len(seq) {
			t.Fatalf("user %s: %d fines, want %d", user, len(got), len(seq))
		}
		for i, want := range seq {
			f := got[i]
			if f.ID != want.ID || f.Amount != want.Amount || f.Reason != want.Reason || f.Paid != want.Paid {
				t.Errorf("user %s fine[%d] = %+v, want %+v", user, i, f, want)
			}
			if !f.CreatedAt.Equal(want.CreatedAt) {
				t.Errorf("user %s fine[%d].CreatedAt = %v, want %v", user, i, f.CreatedAt, want.CreatedAt)
			}
		}
	}
}

func TestStoreLoadAbsent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.json"))

	fines, nextID, err := s.Load()
	if err != nil {
		t.Fatalf("Load(absent) = %v", err)
	}
	if len(fines) != 0 {
		t.Errorf("fines = %d entries, want 0", len(fines))
	}
	if nextID != 1 {
		t.Errorf("nextID = %d, want 1", nextID)
	}
}

func TestStoreLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multas.json")
	if err := os.WriteFile(path, []byte("???"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewStore(path).Load(); !errors.Is(err, ErrCorruptState) {
		t.Errorf("Load(malformed) = %v, want ErrCorruptState", err)
	}
}

func TestStoreLoadPrunesEmptySequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multas.json")
	raw := `{"fines":{"u1":[],"u2":[{"id":1,"amount":5,"reason":"x","createdAt":"2025-08-30T12:00:00Z","paid":false}]},"nextId":2}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	fines, _, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if _, ok := fines["u1"]; ok {
		t.Error("empty sequence for u1 not pruned")
	}
	if len(fines["u2"]) != 1 {
		t.Errorf("u2 fines = %d, want 1", len(fines["u2"]))
	}
}

func TestStoreSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multas.json")
	s := NewStore(path)

	if err := s.Save(map[string][]*Fine{}, 1); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("storage file missing: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}
