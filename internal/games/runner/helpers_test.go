package runner

import (
	"fmt"
	"time"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

// scriptedRand replays fixed values. When a script runs out it returns 0 for
// Intn and 0.5 for Float64, which gives particles zero velocity.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testSim() (*Sim, *RunState) {
	cfg := config.DefaultRunnerConfig()
	s := NewSim(cfg, &scriptedRand{}, seqIDs())
	st := NewRunState(cfg)
	st.Phase = PhasePlaying
	return s, &st
}

func obstacleAt(lane int, y float64) Entity {
	return Entity{ID: fmt.Sprintf("o%d-%v", lane, y), Lane: lane, Y: y, Body: Obstacle{Type: Wall}}
}

func coinAt(lane int, y float64) Entity {
	return Entity{ID: fmt.Sprintf("c%d-%v", lane, y), Lane: lane, Y: y, Body: Coin{}}
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}
