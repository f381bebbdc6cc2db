package runner

import (
	"strings"
	"testing"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

func renderView(v View) *core.Screen {
	cfg := config.DefaultRunnerConfig()
	dst := core.NewScreen(64, 32)
	Render(dst, cfg.Track, cfg.Hitbox, v)
	return dst
}

func TestLayoutFitsTrack(t *testing.T) {
	l := NewLayout(config.DefaultRunnerConfig().Track, 64, 32)
	if l.LaneCols != 13 {
		t.Errorf("LaneCols = %d, want 13", l.LaneCols)
	}
	if l.Track.W != 41 || l.HUDX != 43 {
		t.Errorf("Track.W = %d HUDX = %d, want 41 and 43", l.Track.W, l.HUDX)
	}
	if got := l.Col(150); got != 20 {
		t.Errorf("Col(150) = %d, want 20", got)
	}
	if got := l.Row(0); got != 1 {
		t.Errorf("Row(0) = %d, want 1", got)
	}
	if got := l.Row(300); got != 16 {
		t.Errorf("Row(300) = %d, want 16", got)
	}
}

func TestRenderPlayerAndShield(t *testing.T) {
	dst := renderView(View{
		PlayerX:  150,
		Phase:    PhasePlaying,
		Frame:    100,
		Powerups: Powerups{Shield: true},
	})

	l := NewLayout(config.DefaultRunnerConfig().Track, 64, 32)
	row := l.Row(510)
	if got := dst.Get(20, row); got != PlayerChar {
		t.Errorf("player cell = %q, want %q", got, PlayerChar)
	}
	if dst.Get(19, row) != '(' || dst.Get(21, row) != ')' {
		t.Errorf("shield ring missing around player: %q", dst.Row(row))
	}
	if !strings.Contains(dst.String(), "Shield ON") {
		t.Error("HUD should show the shield")
	}
}

func TestRenderEntities(t *testing.T) {
	dst := renderView(View{
		PlayerX: 150,
		Phase:   PhasePlaying,
		Frame:   100,
		Entities: []Entity{
			{ID: "w", Lane: 0, Y: 280, Body: Obstacle{Type: Wall}},
			{ID: "c", Lane: 2, Y: 280, Body: Obstacle{Type: Car}},
			{ID: "hidden", Lane: 1, Y: -60, Body: Coin{}},
		},
	})

	row := NewLayout(config.DefaultRunnerConfig().Track, 64, 32).Row(300)
	line := []rune(dst.Row(row))
	if line[2] != WallChar {
		t.Errorf("lane 0 should hold a wall, row %q", string(line))
	}
	if line[28] != CarChar {
		t.Errorf("lane 2 should hold a car, row %q", string(line))
	}
	if cell := dst.GetCell(28, row); cell.Color != core.ColorRed {
		t.Errorf("car color = %v, want red", cell.Color)
	}
	if strings.ContainsRune(dst.Row(0), CoinChar) {
		t.Error("entity above the track should not be drawn on the border")
	}
}

func TestRenderOverlays(t *testing.T) {
	tests := []struct {
		name string
		view View
		want []string
	}{
		{"idle", View{Phase: PhaseIdle, PlayerX: 150}, []string{"READY?"}},
		{"countdown", View{Phase: PhaseCountdown, Countdown: 2, PlayerX: 150}, []string{"2"}},
		{"go", View{Phase: PhasePlaying, Frame: 3, PlayerX: 150}, []string{"GO!"}},
		{"paused", View{Phase: PhasePlaying, Paused: true, Frame: 200, PlayerX: 150}, []string{"PAUSED"}},
		{"game over", View{Phase: PhaseGameOver, Score: 321.5, Coins: 7, PlayerX: 150}, []string{"GAME OVER", "Score 321", "Coins 7", "revive"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderView(tt.view).String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("render missing %q", w)
				}
			}
		})
	}
}

func TestRenderNoGoBannerAfterRevive(t *testing.T) {
	out := renderView(View{Phase: PhasePlaying, Frame: 3, Revives: 1, PlayerX: 150}).String()
	if strings.Contains(out, "GO!") {
		t.Error("GO! banner shown after a revive")
	}
}
