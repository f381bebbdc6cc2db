package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/auth"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/money"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/trivia"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

// Services bundles what the screens talk to.
type Services struct {
	Auth     *auth.Service
	Profiles *profile.Store
	Wallet   *wallet.Service
	Ads      *ads.Watcher
	Trivia   trivia.Source
	Config   config.Config
	Preset   config.DifficultyPreset // Empty keeps the configured speeds
	Logger   *log.Logger

	// ConfigUpdates delivers reloaded config files. Nil disables hot reload.
	ConfigUpdates <-chan config.Config
}

func (s Services) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// runnerConfig returns the game tuning with the difficulty preset applied.
// Without a preset the file's speeds are used as is.
func (s Services) runnerConfig(cfg config.Config) config.RunnerConfig {
	rc := cfg.Game
	if s.Preset != "" {
		config.ApplyRunnerPreset(&rc, s.Preset)
	}
	return rc
}

// resultMsg reports the outcome of a background profile operation.
// Profile is set when the operation returned a fresh copy.
type resultMsg struct {
	text    string
	err     error
	profile *profile.Profile
}

func result(p profile.Profile, err error, format string, args ...any) tea.Msg {
	if err != nil {
		return resultMsg{err: err}
	}
	return resultMsg{text: fmt.Sprintf(format, args...), profile: &p}
}

// configMsg carries a reloaded config file.
type configMsg struct {
	cfg config.Config
}

// waitConfig blocks on the reload channel and returns the next config.
func waitConfig(ch <-chan config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

// adDoneMsg is sent when an ad finishes or is aborted.
type adDoneMsg struct {
	purpose ads.Purpose
	grant   ads.Grant
	err     error
}

func watchAd(ctx context.Context, w *ads.Watcher, purpose ads.Purpose) tea.Cmd {
	return func() tea.Msg {
		g, err := w.Watch(ctx, purpose)
		return adDoneMsg{purpose: purpose, grant: g, err: err}
	}
}

func creditCoins(ctx context.Context, w *wallet.Service, id string, coins int) tea.Cmd {
	return func() tea.Msg {
		p, err := w.CreditCoins(ctx, id, coins)
		return result(p, err, "+%d coins", coins)
	}
}

func addBalance(ctx context.Context, w *wallet.Service, id string, amount money.Amount) tea.Cmd {
	return func() tea.Msg {
		p, err := w.AddBalance(ctx, id, amount)
		return result(p, err, "%s added to your balance", amount)
	}
}
