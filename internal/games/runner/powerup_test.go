package runner

import (
	"testing"
	"time"
)

func TestMagnetExpiresAfterEightSeconds(t *testing.T) {
	var p Powerups
	p.Activate(Magnet, t0, 8*time.Second)

	if p.Expire(t0.Add(8*time.Second - time.Millisecond)) {
		t.Fatal("magnet expired early")
	}
	if !p.Magnet {
		t.Fatal("magnet should still be on")
	}
	if !p.Expire(t0.Add(8 * time.Second)) {
		t.Fatal("magnet should expire at T+8s")
	}
	if p.Magnet || !p.MagnetExpiry.IsZero() {
		t.Errorf("magnet state after expiry = %+v", p)
	}
}

func TestMagnetRepickupReplacesExpiry(t *testing.T) {
	var p Powerups
	p.Activate(Magnet, t0, 8*time.Second)
	p.Activate(Magnet, t0.Add(4*time.Second), 8*time.Second)

	if want := t0.Add(12 * time.Second); !p.MagnetExpiry.Equal(want) {
		t.Errorf("MagnetExpiry = %v, want %v", p.MagnetExpiry, want)
	}
	if p.Expire(t0.Add(8 * time.Second)) {
		t.Error("original expiry should no longer apply")
	}
	if !p.Expire(t0.Add(12 * time.Second)) {
		t.Error("magnet should expire at T+12s")
	}
}

func TestShieldIsOneShot(t *testing.T) {
	var p Powerups
	if p.ConsumeShield() {
		t.Fatal("no shield to consume")
	}
	p.Activate(Shield, t0, 8*time.Second)
	if !p.ConsumeShield() {
		t.Fatal("shield should absorb one hit")
	}
	if p.ConsumeShield() {
		t.Error("shield should be gone after one hit")
	}
}

func TestShieldHasNoPassiveExpiry(t *testing.T) {
	var p Powerups
	p.Activate(Shield, t0, 8*time.Second)
	p.Expire(t0.Add(time.Hour))
	if !p.Shield {
		t.Error("shield expired with time")
	}
}

func TestShiftAndRemaining(t *testing.T) {
	var p Powerups
	if got := p.MagnetRemaining(t0); got != 0 {
		t.Errorf("MagnetRemaining(off) = %v, want 0", got)
	}
	p.Shift(time.Second)
	if !p.MagnetExpiry.IsZero() {
		t.Error("Shift should not touch an inactive magnet")
	}

	p.Activate(Magnet, t0, 8*time.Second)
	p.Shift(3 * time.Second)
	if got := p.MagnetRemaining(t0.Add(time.Second)); got != 10*time.Second {
		t.Errorf("MagnetRemaining = %v, want 10s", got)
	}
	if got := p.MagnetRemaining(t0.Add(time.Minute)); got != 0 {
		t.Errorf("MagnetRemaining(past expiry) = %v, want 0", got)
	}

	p.Clear()
	if p != (Powerups{}) {
		t.Errorf("Clear() left %+v", p)
	}
}
