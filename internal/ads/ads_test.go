package ads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/cashrun/internal/config"
)

func instantWatcher() *Watcher {
	w := NewWatcher(config.Default().Ads, config.Default().Economy, nil)
	w.after = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	return w
}

func TestWatchGrants(t *testing.T) {
	tests := []struct {
		purpose Purpose
		want    Grant
	}{
		{PurposeEarn, Grant{Coins: 100}},
		{PurposeRevive, Grant{Revive: true}},
	}
	for _, tt := range tests {
		t.Run(tt.purpose.String(), func(t *testing.T) {
			got, err := instantWatcher().Watch(context.Background(), tt.purpose)
			if err != nil {
				t.Fatalf("Watch() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Watch() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWatchUsesConfiguredDelay(t *testing.T) {
	w := instantWatcher()
	var waited time.Duration
	w.after = func(d time.Duration) <-chan time.Time {
		waited = d
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	if _, err := w.Watch(context.Background(), PurposeEarn); err != nil {
		t.Fatal(err)
	}
	if waited != 3*time.Second {
		t.Errorf("waited %v, want 3s", waited)
	}
}

func TestWatchCancelled(t *testing.T) {
	w := instantWatcher()
	w.after = func(time.Duration) <-chan time.Time { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := w.Watch(ctx, PurposeEarn)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Watch() error = %v, want context.Canceled", err)
	}
	if g != (Grant{}) {
		t.Errorf("cancelled watch granted %+v", g)
	}
}
