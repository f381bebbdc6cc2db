package runner

import (
	"math"
	"time"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

// Signal is the terminal outcome of a step.
type Signal int

const (
	SignalNone Signal = iota
	SignalObstacleHit
)

// Burst colors.
const (
	ShieldColor  = core.ColorBlue
	CoinColor    = core.ColorYellow
	PowerupColor = core.ColorMagenta
)

// Sim advances a RunState one tick at a time.
type Sim struct {
	cfg     config.RunnerConfig
	spawner *Spawner
	rnd     Rand
}

// NewSim creates a simulation. rnd feeds both the spawner and particle bursts.
func NewSim(cfg config.RunnerConfig, rnd Rand, newID func() string) *Sim {
	return &Sim{
		cfg:     cfg,
		spawner: NewSpawner(cfg, rnd, newID),
		rnd:     rnd,
	}
}

// Config returns the tuning the simulation runs with.
func (s *Sim) Config() config.RunnerConfig {
	return s.cfg
}

// Speed returns the scroll speed for a score. Speed follows score, not time.
func (s *Sim) Speed(score float64) float64 {
	p := s.cfg.Physics
	if p.SpeedDivisor <= 0 {
		return p.BaseSpeed
	}
	return p.BaseSpeed + score/p.SpeedDivisor
}

// SpawnInterval returns the ticks between spawns for a score.
func (s *Sim) SpawnInterval(score float64) int {
	sp := s.cfg.Spawn
	n := sp.BaseInterval
	if sp.IntervalStep > 0 {
		n -= int(math.Floor(score / sp.IntervalStep))
	}
	if n < sp.MinInterval {
		n = sp.MinInterval
	}
	return n
}

// Step advances st by one tick. On SignalObstacleHit the fatal obstacle is
// removed, entities after it are left untouched and the score is not
// incremented for that tick.
func (s *Sim) Step(st *RunState, now time.Time) Signal {
	track := s.cfg.Track
	st.Powerups.Expire(now)
	st.Frame++

	speed := s.Speed(st.Score)
	if st.Frame%s.SpawnInterval(st.Score) == 0 {
		st.Entities = append(st.Entities, s.spawner.Spawn())
	}

	st.PlayerX = core.Approach(st.PlayerX, track.LaneCenter(st.Lane), s.cfg.Physics.Smoothing)
	player := core.Vec2{X: st.PlayerX, Y: track.PlayerY()}

	for i := range st.Entities {
		e := &st.Entities[i]
		e.Y += speed
		if st.Powerups.Magnet && e.IsCoin() {
			coin := core.Vec2{X: track.LaneCenter(e.Lane), Y: e.Y}
			if core.Dist(player, coin) < s.cfg.Powerups.MagnetRadius {
				e.Lane = st.Lane
				e.Y += s.cfg.Powerups.MagnetPull
			}
		}
	}

	sig := s.resolve(st, player, now)
	st.Particles = updateParticles(st.Particles, s.cfg.Particles.Decay)
	// A run ends with the score from before its fatal tick.
	if sig == SignalNone {
		st.Score += s.cfg.Physics.ScorePerTick
	}
	return sig
}

// resolve runs the single removal and collision pass in spawn order.
func (s *Sim) resolve(st *RunState, player core.Vec2, now time.Time) Signal {
	track := s.cfg.Track
	hb := core.Hitbox{Center: player, HalfW: s.cfg.Hitbox.HalfWidth, HalfH: s.cfg.Hitbox.HalfHeight}
	pc := s.cfg.Particles

	kept := st.Entities[:0]
	for i, e := range st.Entities {
		if e.Y > track.Height {
			continue
		}
		ex := track.LaneCenter(e.Lane)
		if !hb.Overlaps(core.Vec2{X: ex, Y: e.Y + s.cfg.Hitbox.EntityOffset}) {
			kept = append(kept, e)
			continue
		}

		switch b := e.Body.(type) {
		case Obstacle:
			if !st.Powerups.ConsumeShield() {
				kept = append(kept, st.Entities[i+1:]...)
				st.Entities = kept
				return SignalObstacleHit
			}
			st.Particles = burst(st.Particles, s.rnd, ex, e.Y, pc.ShieldBurst, pc.Spread, ShieldColor)
		case Coin:
			st.Coins++
			st.Particles = burst(st.Particles, s.rnd, ex, e.Y, pc.CoinBurst, pc.Spread, CoinColor)
		case Powerup:
			st.Powerups.Activate(b.Type, now, s.cfg.Powerups.MagnetDuration)
			st.Particles = burst(st.Particles, s.rnd, ex, e.Y, pc.PowerupBurst, pc.Spread, PowerupColor)
		}
	}
	st.Entities = kept
	return SignalNone
}
