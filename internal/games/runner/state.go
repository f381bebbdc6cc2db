package runner

import (
	"fmt"

	"github.com/vovakirdan/cashrun/internal/config"
)

// Phase is the run lifecycle state. Exactly one holds at a time.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhasePlaying
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game-over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RunState is the complete mutable state of one run. The Driver is its only
// writer; Sim.Step mutates it in place.
type RunState struct {
	Phase     Phase
	Paused    bool // Only meaningful while Playing
	Countdown int  // Seconds left while in PhaseCountdown

	Score    float64 // Ticks survived times score_per_tick
	Coins    int     // Collected this run, kept across revives
	Revives  int
	Frame    int
	Powerups Powerups

	Lane    int     // Player lane, changed only by input
	PlayerX float64 // Smoothed render position, also the hitbox center

	Entities  []Entity
	Particles []Particle
}

// NewRunState returns a fresh idle state with the player centered on the
// start lane.
func NewRunState(cfg config.RunnerConfig) RunState {
	lane := cfg.Physics.StartLane
	return RunState{
		Phase:     PhaseIdle,
		Lane:      lane,
		PlayerX:   cfg.Track.LaneCenter(lane),
		Entities:  make([]Entity, 0, 16),
		Particles: make([]Particle, 0, 32),
	}
}

// MoveLane shifts the player by delta lanes, clamped to the track.
func (st *RunState) MoveLane(delta, lanes int) {
	lane := st.Lane + delta
	if lane < 0 {
		lane = 0
	}
	if lane > lanes-1 {
		lane = lanes - 1
	}
	st.Lane = lane
}
