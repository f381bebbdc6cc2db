// Package ads simulates the reward-ad flow. Watching cannot be verified, so a
// watch is a fixed wait that resolves to a Grant.
package ads

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/config"
)

// Purpose selects the reward an ad pays out.
type Purpose int

const (
	PurposeEarn   Purpose = iota // Coins credited to the profile
	PurposeRevive                // Continue a run after game over
)

// String returns the purpose name.
func (p Purpose) String() string {
	switch p {
	case PurposeEarn:
		return "earn"
	case PurposeRevive:
		return "revive"
	default:
		return fmt.Sprintf("purpose(%d)", int(p))
	}
}

// Grant is the reward of a completed ad watch.
type Grant struct {
	Coins  int
	Revive bool
}

// Watcher runs simulated ad watches.
type Watcher struct {
	delay  time.Duration
	coins  int
	link   string
	logger *log.Logger
	after  func(time.Duration) <-chan time.Time
}

// NewWatcher creates a watcher from the ads and economy config.
func NewWatcher(cfg config.AdsConfig, econ config.EconomyConfig, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{
		delay:  cfg.Delay,
		coins:  econ.AdRewardCoins,
		link:   cfg.Link,
		logger: logger,
		after:  time.After,
	}
}

// Link returns the ad landing page shown to the player.
func (w *Watcher) Link() string {
	return w.link
}

// Delay returns how long a watch takes.
func (w *Watcher) Delay() time.Duration {
	return w.delay
}

// Watch waits out the ad and returns its grant. A cancelled context aborts
// the watch with no reward.
func (w *Watcher) Watch(ctx context.Context, purpose Purpose) (Grant, error) {
	w.logger.Debug("ad started", "purpose", purpose, "delay", w.delay)
	select {
	case <-ctx.Done():
		return Grant{}, fmt.Errorf("ads: watch aborted: %w", ctx.Err())
	case <-w.after(w.delay):
	}

	var g Grant
	switch purpose {
	case PurposeRevive:
		g.Revive = true
	default:
		g.Coins = w.coins
	}
	w.logger.Info("ad completed", "purpose", purpose, "coins", g.Coins, "revive", g.Revive)
	return g, nil
}
