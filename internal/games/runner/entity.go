// Package runner implements the three-lane runner: spawning, the per-tick
// simulation, powerup timing and the run-loop driver.
package runner

import "fmt"

// Kind is the top-level entity category.
type Kind int

const (
	KindObstacle Kind = iota
	KindCoin
	KindPowerup
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindCoin:
		return "coin"
	case KindPowerup:
		return "powerup"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Body is what an entity is. The set of implementations is closed: Obstacle,
// Coin and Powerup.
type Body interface {
	Kind() Kind
	body()
}

// ObstacleType distinguishes obstacle sprites. Both are equally fatal.
type ObstacleType int

const (
	Wall ObstacleType = iota
	Car
)

// PowerupType distinguishes powerup effects.
type PowerupType int

const (
	Magnet PowerupType = iota
	Shield
)

// String returns the powerup name.
func (p PowerupType) String() string {
	if p == Magnet {
		return "magnet"
	}
	return "shield"
}

// Obstacle ends the run on contact unless a shield absorbs it.
type Obstacle struct {
	Type ObstacleType
}

// Coin is collected on contact.
type Coin struct{}

// Powerup activates its effect on contact.
type Powerup struct {
	Type PowerupType
}

func (Obstacle) Kind() Kind { return KindObstacle }
func (Coin) Kind() Kind     { return KindCoin }
func (Powerup) Kind() Kind  { return KindPowerup }

func (Obstacle) body() {}
func (Coin) body()     {}
func (Powerup) body()  {}

// Entity is a moving object on the track.
type Entity struct {
	ID   string
	Lane int     // 0..lanes-1; only the magnet changes it after spawn
	Y    float64 // Top edge in canvas units; grows every tick
	Body Body
}

// IsCoin reports whether the entity is a coin.
func (e Entity) IsCoin() bool {
	_, ok := e.Body.(Coin)
	return ok
}
