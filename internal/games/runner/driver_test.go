package runner

import (
	"testing"
	"time"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

func newTestDriver(mutate func(*config.RunnerConfig)) *Driver {
	cfg := config.DefaultRunnerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return NewDriver(cfg, &scriptedRand{}, seqIDs())
}

// playingDriver skips the countdown.
func playingDriver() *Driver {
	d := newTestDriver(func(c *config.RunnerConfig) { c.Countdown.From = 0 })
	d.StartFreshRun(t0)
	return d
}

func tickN(d *Driver, n int, now time.Time) {
	for i := 0; i < n; i++ {
		d.Tick(now, core.NewInputFrame())
	}
}

func crash(d *Driver, now time.Time) TickResult {
	d.State().Entities = append(d.State().Entities, obstacleAt(d.State().Lane, 474))
	return d.Tick(now, core.NewInputFrame())
}

func TestCountdownThenPlay(t *testing.T) {
	d := newTestDriver(nil)
	d.StartFreshRun(t0)

	if st := d.State(); st.Phase != PhaseCountdown || st.Countdown != 3 {
		t.Fatalf("after start: phase %v countdown %d, want countdown 3", st.Phase, st.Countdown)
	}

	steps := []struct {
		at        time.Duration
		wantCount int
		wantPhase Phase
	}{
		{999 * time.Millisecond, 3, PhaseCountdown},
		{time.Second, 2, PhaseCountdown},
		{2 * time.Second, 1, PhaseCountdown},
	}
	for _, s := range steps {
		d.Tick(t0.Add(s.at), core.NewInputFrame())
		if st := d.State(); st.Countdown != s.wantCount || st.Phase != s.wantPhase {
			t.Errorf("at %v: countdown %d phase %v, want %d %v", s.at, st.Countdown, st.Phase, s.wantCount, s.wantPhase)
		}
	}

	res := d.Tick(t0.Add(3*time.Second), core.NewInputFrame())
	if !res.Started || d.State().Phase != PhasePlaying {
		t.Fatalf("countdown should end at 3s, phase %v", d.State().Phase)
	}
	if d.State().Score != 0 {
		t.Errorf("countdown ticks must not score, got %v", d.State().Score)
	}
}

func TestLaneInputDuringCountdownAndClamp(t *testing.T) {
	d := newTestDriver(nil)
	d.StartFreshRun(t0)

	d.Tick(t0, input(core.ActionLeft))
	if d.State().Lane != 0 {
		t.Fatalf("Lane = %d, want 0", d.State().Lane)
	}
	d.Tick(t0, input(core.ActionLeft))
	if d.State().Lane != 0 {
		t.Errorf("Lane should clamp at 0, got %d", d.State().Lane)
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRight)
	in.Set(core.ActionRight)
	in.Set(core.ActionRight)
	d.Tick(t0, in)
	if d.State().Lane != 2 {
		t.Errorf("Lane should clamp at 2, got %d", d.State().Lane)
	}
}

func TestScoreFrozenAfterGameOver(t *testing.T) {
	d := playingDriver()
	tickN(d, 4, t0)

	res := crash(d, t0)
	if res.Signal != SignalObstacleHit || res.Ended == nil {
		t.Fatalf("expected game over, got %+v", res)
	}
	if res.Ended.Score != 2 {
		t.Errorf("Ended.Score = %v, want 2", res.Ended.Score)
	}

	tickN(d, 10, t0)
	if st := d.State(); st.Phase != PhaseGameOver || st.Score != 2 {
		t.Errorf("after game over: phase %v score %v, want game-over 2", st.Phase, st.Score)
	}
}

func TestReviveKeepsScoreAndCoins(t *testing.T) {
	d := playingDriver()
	tickN(d, 4, t0)
	d.State().Coins = 3
	d.State().Lane = 2
	d.State().PlayerX = 250
	first := crash(d, t0)
	if first.Ended.Coins != 3 {
		t.Fatalf("first game over reported %d coins, want 3", first.Ended.Coins)
	}

	d.Enqueue(ads.Grant{Revive: true})
	res := d.Tick(t0, core.NewInputFrame())
	if !res.Revived {
		t.Fatal("revive grant should revive the run")
	}
	st := d.State()
	if st.Phase != PhasePlaying || st.Coins != 3 || st.Lane != 2 || st.Revives != 1 {
		t.Errorf("after revive: %+v", st)
	}
	// The revive tick itself steps the simulation.
	if st.Score != 2.5 {
		t.Errorf("Score = %v, want 2.5", st.Score)
	}

	st.Coins = 4
	second := crash(d, t0)
	if second.Ended.Coins != 1 {
		t.Errorf("second game over reported %d coins, want only the new 1", second.Ended.Coins)
	}
	if second.Ended.Revives != 1 {
		t.Errorf("Revives = %d, want 1", second.Ended.Revives)
	}
}

func TestReviveOnlyFromGameOver(t *testing.T) {
	d := playingDriver()
	if d.Revive(t0) {
		t.Error("Revive while playing should be refused")
	}
}

func TestRestartThenFreshRunZeroes(t *testing.T) {
	d := playingDriver()
	tickN(d, 6, t0)
	d.State().Coins = 5
	crash(d, t0)

	d.Tick(t0, input(core.ActionRestart))
	if d.State().Phase != PhaseIdle {
		t.Fatalf("phase = %v, want idle", d.State().Phase)
	}

	d.Tick(t0, input(core.ActionConfirm))
	st := d.State()
	if st.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", st.Phase)
	}
	if st.Score != 0 || st.Coins != 0 || st.Lane != 1 || st.PlayerX != 150 || len(st.Entities) != 0 {
		t.Errorf("fresh run not reset: %+v", st)
	}
}

func TestPauseStopsSimulation(t *testing.T) {
	d := playingDriver()
	tickN(d, 2, t0)

	d.Tick(t0, input(core.ActionPause))
	if !d.State().Paused {
		t.Fatal("pause action should pause")
	}
	tickN(d, 5, t0)
	if d.State().Score != 1 {
		t.Errorf("Score = %v while paused, want 1", d.State().Score)
	}

	d.Tick(t0, input(core.ActionPause))
	if d.State().Paused || d.State().Score != 1.5 {
		t.Errorf("resume tick: paused %v score %v, want false 1.5", d.State().Paused, d.State().Score)
	}
}

func TestPauseSuspendsMagnetTimer(t *testing.T) {
	tests := []struct {
		name    string
		suspend bool
		want    time.Time
	}{
		{"suspend", true, t0.Add(11 * time.Second)},
		{"wall clock", false, t0.Add(8 * time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDriver(func(c *config.RunnerConfig) {
				c.Countdown.From = 0
				c.Powerups.PauseSuspendsTimers = tt.suspend
			})
			d.StartFreshRun(t0)
			d.State().Powerups.Activate(Magnet, t0, 8*time.Second)

			d.Pause(t0.Add(2 * time.Second))
			d.Resume(t0.Add(5 * time.Second))

			if got := d.State().Powerups.MagnetExpiry; !got.Equal(tt.want) {
				t.Errorf("MagnetExpiry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGameOverSuspendsMagnetUntilRevive(t *testing.T) {
	d := playingDriver()
	d.State().Powerups.Activate(Magnet, t0, 8*time.Second)
	crash(d, t0.Add(time.Second))

	if !d.Revive(t0.Add(31 * time.Second)) {
		t.Fatal("Revive failed")
	}
	if got, want := d.State().Powerups.MagnetExpiry, t0.Add(38*time.Second); !got.Equal(want) {
		t.Errorf("MagnetExpiry = %v, want %v", got, want)
	}
}

func TestAdCoinsAreCredited(t *testing.T) {
	d := playingDriver()
	d.Enqueue(ads.Grant{Coins: 100})

	res := d.Tick(t0, core.NewInputFrame())
	if res.CreditedCoins != 100 {
		t.Errorf("CreditedCoins = %d, want 100", res.CreditedCoins)
	}
	if again := d.Tick(t0, core.NewInputFrame()); again.CreditedCoins != 0 {
		t.Errorf("grant applied twice: %d", again.CreditedCoins)
	}
}

func TestStopMakesTicksNoOps(t *testing.T) {
	d := playingDriver()
	d.State().Powerups.Activate(Magnet, t0, 8*time.Second)
	d.Enqueue(ads.Grant{Coins: 100})

	d.Stop()
	d.Enqueue(ads.Grant{Coins: 100})

	res := d.Tick(t0, core.NewInputFrame())
	if res != (TickResult{}) {
		t.Errorf("Tick after Stop = %+v, want zero", res)
	}
	st := d.State()
	if st.Score != 0 || st.Powerups.Magnet || !st.Powerups.MagnetExpiry.IsZero() {
		t.Errorf("state after Stop: %+v", st)
	}
	if !d.Stopped() {
		t.Error("Stopped() = false")
	}
}

func TestSetConfigAppliesOnFreshRun(t *testing.T) {
	d := playingDriver()
	cfg := config.DefaultRunnerConfig()
	cfg.Physics.BaseSpeed = 9
	cfg.Countdown.From = 0
	d.SetConfig(cfg)

	if d.View(t0).Speed != 6 {
		t.Fatalf("staged config applied mid-run")
	}
	d.StartFreshRun(t0)
	if got := d.View(t0).Speed; got != 9 {
		t.Errorf("Speed after fresh run = %v, want 9", got)
	}
}

func TestViewFreezesMagnetWhilePaused(t *testing.T) {
	d := playingDriver()
	d.State().Powerups.Activate(Magnet, t0, 8*time.Second)
	d.Pause(t0.Add(3 * time.Second))

	if got := d.View(t0.Add(6 * time.Second)).MagnetLeft; got != 5*time.Second {
		t.Errorf("MagnetLeft while paused = %v, want 5s", got)
	}
}

func TestUnsavedCoins(t *testing.T) {
	d := playingDriver()
	d.State().Coins = 3
	if got := d.Unsaved(); got != 3 {
		t.Errorf("Unsaved() while playing = %d, want 3", got)
	}

	crash(d, t0)
	if got := d.Unsaved(); got != 0 {
		t.Errorf("Unsaved() after game over = %d, want 0", got)
	}

	d.Revive(t0)
	d.State().Coins += 2
	d.Pause(t0)
	if got := d.Unsaved(); got != 2 {
		t.Errorf("Unsaved() after revive = %d, want 2", got)
	}
	d.Stop()
	if got := d.Unsaved(); got != 2 {
		t.Errorf("Unsaved() after Stop = %d, want 2", got)
	}
}
