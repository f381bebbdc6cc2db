package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/money"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/remote"
	"github.com/vovakirdan/cashrun/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	profiles := profile.NewStore(db, nil, 0, nil)
	t.Cleanup(func() {
		profiles.Close()
		db.Close()
	})
	s := NewService(db, profiles, config.DefaultEconomyConfig(), false, nil)
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndCurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	p, err := s.Register(ctx, "  Rahim@Example.com ", "secret1", "Rahim", "")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if p.Email != "rahim@example.com" || p.Name != "Rahim" {
		t.Errorf("profile = %+v", p)
	}
	if !strings.HasPrefix(p.ID, profile.LocalPrefix) {
		t.Errorf("ID %q should be local without a remote", p.ID)
	}
	if len(p.ReferralCode) != 8 || p.Balance != 0 {
		t.Errorf("ReferralCode %q Balance %v", p.ReferralCode, p.Balance)
	}

	cur, err := s.Current(ctx)
	if err != nil || cur.ID != p.ID {
		t.Errorf("Current() = %+v, %v", cur, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	if _, err := s.Register(ctx, "taken@x.com", "secret1", "A", ""); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		user     string
		want     error
	}{
		{"bad email", "nope", "secret1", "B", ErrInvalidEmail},
		{"no name", "b@x.com", "secret1", "  ", ErrNameRequired},
		{"short password", "b@x.com", "12345", "B", ErrWeakPassword},
		{"duplicate", "TAKEN@x.com", "secret1", "B", ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.email, tt.password, tt.user, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrAuthFailure) {
				t.Errorf("error %v should match ErrAuthFailure", err)
			}
		})
	}
}

func TestReferralBonusBothWays(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	referrer, err := s.Register(ctx, "old@x.com", "secret1", "Old", "")
	if err != nil {
		t.Fatal(err)
	}

	p, err := s.Register(ctx, "new@x.com", "secret1", "New", strings.ToLower(referrer.ReferralCode))
	if err != nil {
		t.Fatalf("Register() with referral failed: %v", err)
	}
	if p.Balance != money.FromTaka(5) || p.ReferredBy != referrer.ReferralCode {
		t.Errorf("new profile = %+v, want ৳5.00 referred by %s", p, referrer.ReferralCode)
	}

	r, err := s.profiles.Get(ctx, referrer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if r.Balance != money.FromTaka(5) {
		t.Errorf("referrer balance = %v, want ৳5.00", r.Balance)
	}
}

func TestUnknownReferralIgnored(t *testing.T) {
	s := newTestService(t)
	p, err := s.Register(context.Background(), "a@x.com", "secret1", "A", "NOSUCHCODE")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if p.Balance != 0 || p.ReferredBy != "" {
		t.Errorf("unknown code applied: %+v", p)
	}
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	reg, err := s.Register(ctx, "a@x.com", "secret1", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Current() after logout error = %v, want ErrNotLoggedIn", err)
	}

	if _, err := s.Login(ctx, "a@x.com", "wrong-pass"); !errors.Is(err, ErrAuthFailure) {
		t.Errorf("Login(bad password) error = %v, want ErrAuthFailure", err)
	}
	if _, err := s.Login(ctx, "ghost@x.com", "secret1"); !errors.Is(err, ErrAuthFailure) {
		t.Errorf("Login(unknown) error = %v, want ErrAuthFailure", err)
	}

	p, err := s.Login(ctx, "A@X.COM", "secret1")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if p.ID != reg.ID {
		t.Errorf("Login() id = %q, want %q", p.ID, reg.ID)
	}
	if cur, err := s.Current(ctx); err != nil || cur.ID != reg.ID {
		t.Errorf("Current() = %+v, %v", cur, err)
	}
}

func TestProvisionIsStable(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	first, err := s.Provision(ctx, "Karim")
	if err != nil {
		t.Fatalf("Provision() failed: %v", err)
	}
	second, err := s.Provision(ctx, "karim")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID || first.Name != "karim" {
		t.Errorf("Provision() ids %q and %q, name %q", first.ID, second.ID, first.Name)
	}
	if _, err := s.Current(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Provision() should not start a local session: %v", err)
	}
}

func TestLoginPullsRemoteProfile(t *testing.T) {
	ctx := context.Background()
	var missing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if missing.Load() {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Rahim","balance":4200,"totalCoins":77,"highScore":1300}`))
	}))
	defer srv.Close()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	client := remote.New(config.RemoteConfig{URL: srv.URL, Timeout: time.Second})
	profiles := profile.NewStore(db, client, 0, nil)
	t.Cleanup(func() {
		profiles.Close()
		db.Close()
	})
	s := NewService(db, profiles, config.DefaultEconomyConfig(), true, nil)
	s.cost = bcrypt.MinCost

	missing.Store(true)
	reg, err := s.Register(ctx, "rahim@x.com", "secret1", "R", "")
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.Login(ctx, "rahim@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() with no remote document failed: %v", err)
	}
	if p.Balance != 0 || p.Name != "R" {
		t.Errorf("Login() without remote document = %+v, want local copy", p)
	}

	missing.Store(false)
	p, err = s.Login(ctx, "rahim@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if p.ID != reg.ID || p.Balance != 4200 || p.TotalCoins != 77 || p.HighScore != 1300 || p.Name != "Rahim" {
		t.Errorf("Login() = %+v, want remote balance and coins", p)
	}
	if p.Email != "rahim@x.com" || p.ReferralCode != reg.ReferralCode {
		t.Errorf("Login() lost local fields: %+v", p)
	}

	cur, err := s.Current(ctx)
	if err != nil || cur.Balance != 4200 {
		t.Errorf("Current() = %+v, %v", cur, err)
	}
}
