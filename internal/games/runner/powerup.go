package runner

import "time"

// Powerups holds the two independent effects. The magnet expires at a wall
// clock instant; the shield lasts until it absorbs one hit.
type Powerups struct {
	Magnet       bool
	MagnetExpiry time.Time
	Shield       bool
}

// Activate turns on an effect. A magnet pickup replaces any pending expiry.
func (p *Powerups) Activate(t PowerupType, now time.Time, magnetFor time.Duration) {
	switch t {
	case Magnet:
		p.Magnet = true
		p.MagnetExpiry = now.Add(magnetFor)
	case Shield:
		p.Shield = true
	}
}

// Expire clears the magnet once now has reached its expiry. It reports
// whether the magnet turned off.
func (p *Powerups) Expire(now time.Time) bool {
	if p.Magnet && !now.Before(p.MagnetExpiry) {
		p.Magnet = false
		p.MagnetExpiry = time.Time{}
		return true
	}
	return false
}

// ConsumeShield uses up the shield. It reports whether one was active.
func (p *Powerups) ConsumeShield() bool {
	if !p.Shield {
		return false
	}
	p.Shield = false
	return true
}

// Shift pushes the magnet expiry back by d, used when time stops counting.
func (p *Powerups) Shift(d time.Duration) {
	if p.Magnet && d > 0 {
		p.MagnetExpiry = p.MagnetExpiry.Add(d)
	}
}

// MagnetRemaining returns the time left on the magnet, or 0 when off.
func (p Powerups) MagnetRemaining(now time.Time) time.Duration {
	if !p.Magnet {
		return 0
	}
	if left := p.MagnetExpiry.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Clear turns everything off.
func (p *Powerups) Clear() {
	*p = Powerups{}
}
