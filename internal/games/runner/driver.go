package runner

import (
	"time"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

// RunResult is what a game over reports to the profile store. Coins only
// counts coins not already reported by an earlier game over of the same run.
type RunResult struct {
	Score   float64
	Coins   int
	Revives int
	Frames  int
}

// TickResult reports what happened during one Driver tick.
type TickResult struct {
	Signal        Signal
	Ended         *RunResult // Set on the tick the run hits an obstacle
	CreditedCoins int        // Coins from ad grants applied this tick
	Revived       bool
	Started       bool // Countdown finished and play began
}

// Driver owns a RunState and the transitions
// Idle -> Countdown -> Playing -> GameOver -> Playing (revive) | Idle (restart).
type Driver struct {
	cfg     config.RunnerConfig
	pending *config.RunnerConfig
	rnd     Rand
	newID   func() string
	sim     *Sim
	st      RunState

	reported      int       // Coins already forwarded for this run
	countdownNext time.Time // When the countdown drops by one
	haltedAt      time.Time // Start of the current pause or game over
	grants        []ads.Grant
	stopped       bool
}

// NewDriver creates an idle driver.
func NewDriver(cfg config.RunnerConfig, rnd Rand, newID func() string) *Driver {
	return &Driver{
		cfg:   cfg,
		rnd:   rnd,
		newID: newID,
		sim:   NewSim(cfg, rnd, newID),
		st:    NewRunState(cfg),
	}
}

// SetConfig stages new tuning. It takes effect at the next fresh run.
func (d *Driver) SetConfig(cfg config.RunnerConfig) {
	d.pending = &cfg
}

// Config returns the tuning of the current run.
func (d *Driver) Config() config.RunnerConfig {
	return d.cfg
}

// State returns the current run state. Callers must not mutate it.
func (d *Driver) State() *RunState {
	return &d.st
}

// Stopped reports whether Stop was called.
func (d *Driver) Stopped() bool {
	return d.stopped
}

// StartFreshRun resets score, coins, entities and powerups and begins the
// countdown.
func (d *Driver) StartFreshRun(now time.Time) {
	if d.stopped {
		return
	}
	if d.pending != nil {
		d.cfg = *d.pending
		d.pending = nil
		d.sim = NewSim(d.cfg, d.rnd, d.newID)
	}
	d.st = NewRunState(d.cfg)
	d.reported = 0
	d.haltedAt = time.Time{}

	if d.cfg.Countdown.From <= 0 {
		d.st.Phase = PhasePlaying
		return
	}
	d.st.Phase = PhaseCountdown
	d.st.Countdown = d.cfg.Countdown.From
	d.countdownNext = now.Add(d.cfg.Countdown.Step)
}

// Revive continues a run after game over, keeping score, coins, position
// and powerups. It reports whether the run was revived.
func (d *Driver) Revive(now time.Time) bool {
	if d.stopped || d.st.Phase != PhaseGameOver {
		return false
	}
	d.resumeTimers(now)
	d.st.Phase = PhasePlaying
	d.st.Paused = false
	d.st.Revives++
	return true
}

// Restart abandons a finished run and returns to idle.
func (d *Driver) Restart() {
	if d.stopped || d.st.Phase != PhaseGameOver {
		return
	}
	d.st = NewRunState(d.cfg)
	d.reported = 0
}

// Pause stops the simulation. Only valid while playing.
func (d *Driver) Pause(now time.Time) {
	if d.stopped || d.st.Phase != PhasePlaying || d.st.Paused {
		return
	}
	d.st.Paused = true
	d.haltedAt = now
}

// Resume restarts the simulation after Pause.
func (d *Driver) Resume(now time.Time) {
	if d.stopped || !d.st.Paused {
		return
	}
	d.st.Paused = false
	d.resumeTimers(now)
}

// resumeTimers shifts the magnet expiry by the halted time when the config
// suspends timers.
func (d *Driver) resumeTimers(now time.Time) {
	if d.cfg.Powerups.PauseSuspendsTimers && !d.haltedAt.IsZero() {
		d.st.Powerups.Shift(now.Sub(d.haltedAt))
	}
	d.haltedAt = time.Time{}
}

// Enqueue queues an ad grant for the next tick.
func (d *Driver) Enqueue(g ads.Grant) {
	if d.stopped {
		return
	}
	d.grants = append(d.grants, g)
}

// Stop tears the driver down. Queued grants and the magnet are dropped and
// every later call is a no-op.
func (d *Driver) Stop() {
	d.stopped = true
	d.grants = nil
	d.st.Powerups.Magnet = false
	d.st.Powerups.MagnetExpiry = time.Time{}
}

// Unsaved returns the coins of a run in progress that no game over has
// reported yet. Leaving such a run loses them.
func (d *Driver) Unsaved() int {
	if d.st.Phase != PhasePlaying && d.st.Phase != PhaseCountdown {
		return 0
	}
	return d.st.Coins - d.reported
}

// Tick applies queued grants and input, advances the countdown and runs one
// simulation step while playing.
func (d *Driver) Tick(now time.Time, in core.InputFrame) TickResult {
	var res TickResult
	if d.stopped {
		return res
	}

	for _, g := range d.grants {
		if g.Revive && d.Revive(now) {
			res.Revived = true
		}
		res.CreditedCoins += g.Coins
	}
	d.grants = d.grants[:0]

	switch d.st.Phase {
	case PhaseIdle:
		if in.Has(core.ActionConfirm) {
			d.StartFreshRun(now)
		}
		return res

	case PhaseGameOver:
		if in.Has(core.ActionRestart) {
			d.Restart()
		}
		return res

	case PhaseCountdown:
		d.applyLanes(in)
		for d.st.Countdown > 0 && !now.Before(d.countdownNext) {
			d.st.Countdown--
			d.countdownNext = d.countdownNext.Add(d.cfg.Countdown.Step)
		}
		if d.st.Countdown > 0 {
			return res
		}
		d.st.Phase = PhasePlaying
		res.Started = true
		return res
	}

	if in.Has(core.ActionPause) {
		if d.st.Paused {
			d.Resume(now)
		} else {
			d.Pause(now)
		}
	}
	if d.st.Paused {
		return res
	}

	d.applyLanes(in)
	res.Signal = d.sim.Step(&d.st, now)
	if res.Signal == SignalObstacleHit {
		d.st.Phase = PhaseGameOver
		d.haltedAt = now
		res.Ended = d.report()
	}
	return res
}

func (d *Driver) applyLanes(in core.InputFrame) {
	delta := in.Count(core.ActionRight) - in.Count(core.ActionLeft)
	if delta != 0 {
		d.st.MoveLane(delta, d.cfg.Track.Lanes)
	}
}

// report builds the run result and marks its coins as forwarded.
func (d *Driver) report() *RunResult {
	delta := d.st.Coins - d.reported
	d.reported = d.st.Coins
	return &RunResult{
		Score:   d.st.Score,
		Coins:   delta,
		Revives: d.st.Revives,
		Frames:  d.st.Frame,
	}
}

// View is a read-only snapshot for rendering.
type View struct {
	Entities   []Entity
	Particles  []Particle
	Lane       int
	PlayerX    float64
	Powerups   Powerups
	MagnetLeft time.Duration
	Frame      int
	Score      float64
	Coins      int
	Speed      float64
	Phase      Phase
	Countdown  int
	Paused     bool
	Revives    int
}

// View returns the state to draw at now.
func (d *Driver) View(now time.Time) View {
	left := d.st.Powerups.MagnetRemaining(now)
	if d.st.Paused || d.st.Phase == PhaseGameOver {
		if d.cfg.Powerups.PauseSuspendsTimers && !d.haltedAt.IsZero() {
			left = d.st.Powerups.MagnetRemaining(d.haltedAt)
		}
	}
	return View{
		Entities:   d.st.Entities,
		Particles:  d.st.Particles,
		Lane:       d.st.Lane,
		PlayerX:    d.st.PlayerX,
		Powerups:   d.st.Powerups,
		MagnetLeft: left,
		Frame:      d.st.Frame,
		Score:      d.st.Score,
		Coins:      d.st.Coins,
		Speed:      d.sim.Speed(d.st.Score),
		Phase:      d.st.Phase,
		Countdown:  d.st.Countdown,
		Paused:     d.st.Paused,
		Revives:    d.st.Revives,
	}
}
