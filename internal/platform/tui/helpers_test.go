package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/storage"
	"github.com/vovakirdan/cashrun/internal/trivia"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1}
}

// testServices opens a throwaway database holding one local profile.
func testServices(t *testing.T, coins int) (Services, profile.Profile) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "cashrun.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	p := storage.Profile{
		ID:           "local_tester",
		Email:        "tester@example.com",
		Name:         "Tester",
		TotalCoins:   coins,
		ReferralCode: "TESTER01",
	}
	if err := db.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	cfg := config.Default()
	cfg.Ads.Delay = time.Millisecond
	profiles := profile.NewStore(db, nil, 0, nil)
	t.Cleanup(func() { profiles.Close() })

	return Services{
		Profiles: profiles,
		Wallet:   wallet.New(profiles, db, cfg.Economy, nil),
		Ads:      ads.NewWatcher(cfg.Ads, cfg.Economy, nil),
		Trivia:   trivia.WithFallback(nil, nil),
		Config:   cfg,
		Preset:   config.DifficultyNormal,
	}, p
}
