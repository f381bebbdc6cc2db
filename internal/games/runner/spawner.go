package runner

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/cashrun/internal/config"
)

// Rand is the random source used by the spawner and particle bursts.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded random source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewEntityID returns a fresh random entity id.
func NewEntityID() string {
	return uuid.NewString()
}

// Spawner creates entities. It keeps no cadence state; the simulation decides
// when to call it.
type Spawner struct {
	rnd   Rand
	newID func() string
	cfg   config.RunnerConfig
}

// NewSpawner creates a spawner. A nil newID uses NewEntityID.
func NewSpawner(cfg config.RunnerConfig, rnd Rand, newID func() string) *Spawner {
	if newID == nil {
		newID = NewEntityID
	}
	return &Spawner{rnd: rnd, newID: newID, cfg: cfg}
}

// Spawn returns a new entity above the visible track.
// Draw order: lane, kind roll, then subtype roll for obstacles and powerups.
func (s *Spawner) Spawn() Entity {
	lane := s.rnd.Intn(s.cfg.Track.Lanes)
	roll := s.rnd.Float64()

	var b Body
	switch {
	case roll > s.cfg.Spawn.PowerupAbove:
		if s.rnd.Float64() > 0.5 {
			b = Powerup{Type: Magnet}
		} else {
			b = Powerup{Type: Shield}
		}
	case roll > s.cfg.Spawn.CoinAbove:
		b = Coin{}
	default:
		if s.rnd.Float64() > 0.5 {
			b = Obstacle{Type: Wall}
		} else {
			b = Obstacle{Type: Car}
		}
	}

	return Entity{
		ID:   s.newID(),
		Lane: lane,
		Y:    s.cfg.Spawn.StartY,
		Body: b,
	}
}
