package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/cashrun/internal/money"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testProfile(id, email, code string) Profile {
	return Profile{ID: id, Email: email, Name: "Rahim", ReferralCode: code}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveProfile(ctx, testProfile("u1", "a@x.com", "AAA")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	if _, err := store.Profile(ctx, "u1"); err != nil {
		t.Errorf("profile lost after reopen: %v", err)
	}
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	acc := Account{ID: "u1", Email: "a@x.com", PasswordHash: "hash"}
	if err := store.CreateAccount(ctx, acc, testProfile("u1", "a@x.com", "AAA")); err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}

	got, err := store.AccountByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("AccountByEmail() failed: %v", err)
	}
	if got != acc {
		t.Errorf("AccountByEmail() = %+v, want %+v", got, acc)
	}

	dup := Account{ID: "u2", Email: "a@x.com", PasswordHash: "other"}
	err = store.CreateAccount(ctx, dup, testProfile("u2", "a@x.com", "BBB"))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate CreateAccount() error = %v, want ErrEmailExists", err)
	}
	if _, err := store.Profile(ctx, "u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("failed registration left a profile behind: %v", err)
	}

	if _, err := store.AccountByEmail(ctx, "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AccountByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestProfileLookups(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	p := testProfile("u1", "a@x.com", "REF123")
	p.Balance = money.FromTaka(5)
	p.TotalCoins = 42
	if err := store.SaveProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := store.Profile(ctx, "u1")
	if err != nil {
		t.Fatalf("Profile() failed: %v", err)
	}
	if got != p {
		t.Errorf("Profile() = %+v, want %+v", got, p)
	}

	byCode, err := store.ProfileByReferralCode(ctx, "REF123")
	if err != nil || byCode.ID != "u1" {
		t.Errorf("ProfileByReferralCode() = %+v, %v", byCode, err)
	}

	if _, err := store.Profile(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Profile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.SaveProfile(ctx, testProfile("u1", "a@x.com", "AAA")); err != nil {
		t.Fatal(err)
	}

	updated, err := store.UpdateProfile(ctx, "u1", func(p *Profile) error {
		p.TotalCoins += 100
		p.Balance += 250
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}
	if updated.TotalCoins != 100 || updated.Balance != 250 {
		t.Errorf("UpdateProfile() = %+v", updated)
	}

	boom := errors.New("boom")
	_, err = store.UpdateProfile(ctx, "u1", func(p *Profile) error {
		p.TotalCoins = 0
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("UpdateProfile() error = %v, want boom", err)
	}
	got, _ := store.Profile(ctx, "u1")
	if got.TotalCoins != 100 {
		t.Errorf("failed update was written: TotalCoins = %d", got.TotalCoins)
	}

	if _, err := store.UpdateProfile(ctx, "missing", func(*Profile) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProfile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Session(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Session() on empty db error = %v, want ErrNotFound", err)
	}

	if err := store.SetSession(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSession(ctx, "u2"); err != nil {
		t.Fatal(err)
	}
	id, err := store.Session(ctx)
	if err != nil || id != "u2" {
		t.Errorf("Session() = %q, %v, want u2", id, err)
	}

	if err := store.ClearSession(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Session(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Session() after clear error = %v, want ErrNotFound", err)
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i, score := range []int{100, 50, 200, 150} {
		if _, err := store.SaveRun(ctx, RunEntry{UserID: "u1", Score: score, Coins: i + 1}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(ctx, RunEntry{UserID: "u2", Score: 999}); err != nil {
		t.Fatal(err)
	}

	top, err := store.TopRuns(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 || top[0].Score != 200 || top[1].Score != 150 || top[2].Score != 100 {
		t.Errorf("TopRuns() = %+v", top)
	}

	recent, err := store.RecentRuns(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 4 || recent[0].Score != 150 {
		t.Errorf("RecentRuns() newest = %+v", recent)
	}

	stats, err := store.GetRunStats(ctx, "u1")
	if err != nil {
		t.Fatalf("GetRunStats() failed: %v", err)
	}
	if stats.RunsCount != 4 || stats.BestScore != 200 || stats.AvgScore != 125 || stats.TotalCoins != 10 {
		t.Errorf("GetRunStats() = %+v", stats)
	}

	empty, err := store.GetRunStats(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetRunStats(empty) failed: %v", err)
	}
	if empty.RunsCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("GetRunStats(empty) = %+v", empty)
	}
}

func TestWithdrawals(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := Withdrawal{UserID: "u1", Method: "bKash", Number: "01700000000", Amount: money.FromTaka(120)}
	if _, err := store.SaveWithdrawal(ctx, first); err != nil {
		t.Fatalf("SaveWithdrawal() failed: %v", err)
	}
	second := Withdrawal{UserID: "u1", Method: "Nagad", Number: "01800000000", Amount: money.FromTaka(300)}
	if _, err := store.SaveWithdrawal(ctx, second); err != nil {
		t.Fatal(err)
	}

	list, err := store.Withdrawals(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("Withdrawals() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Withdrawals() returned %d rows, want 2", len(list))
	}
	if list[0].Method != "Nagad" || list[0].Amount != money.FromTaka(300) || list[0].Status != "pending" {
		t.Errorf("newest withdrawal = %+v", list[0])
	}
}
