package runner

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
)

// Glyphs used on the track.
const (
	WallChar     = '▓'
	CarChar      = '█'
	CoinChar     = 'o'
	MagnetChar   = 'M'
	ShieldChar   = 'S'
	ParticleChar = '·'
	PlayerChar   = '@'
	LaneChar     = '┆'
)

const (
	hudWidth     = 22
	maxLaneCols  = 13
	minLaneCols  = 5
	goBannerTick = 20
)

// Layout maps canvas coordinates onto screen cells.
type Layout struct {
	Track    core.Rect // Box around the lanes, border included
	LaneCols int
	HUDX     int

	track config.RunnerTrack
}

// NewLayout fits the track into a screen of w×h cells.
func NewLayout(track config.RunnerTrack, w, h int) Layout {
	cols := (w - hudWidth - 2) / track.Lanes
	if cols > maxLaneCols {
		cols = maxLaneCols
	}
	if cols < minLaneCols {
		cols = minLaneCols
	}
	boxW := cols*track.Lanes + 2
	return Layout{
		Track:    core.NewRect(0, 0, boxW, h),
		LaneCols: cols,
		HUDX:     boxW + 2,
		track:    track,
	}
}

// Col converts a canvas x to a screen column.
func (l Layout) Col(x float64) int {
	return l.Track.X + 1 + int(math.Floor(x/l.track.LaneWidth*float64(l.LaneCols)))
}

// Row converts a canvas y to a screen row. Rows outside the box are
// off-track.
func (l Layout) Row(y float64) int {
	inner := l.Track.H - 2
	if inner < 1 {
		inner = 1
	}
	return l.Track.Y + 1 + int(math.Floor(y/l.track.Height*float64(inner)))
}

// onTrack reports whether row lies inside the box borders.
func (l Layout) onTrack(row int) bool {
	return row > l.Track.Y && row < l.Track.Bottom()-1
}

// Render draws v onto dst.
func Render(dst *core.Screen, track config.RunnerTrack, hitbox config.RunnerHitbox, v View) {
	dst.Clear()
	l := NewLayout(track, dst.Width(), dst.Height())

	dst.DrawBox(l.Track, core.ColorGray)
	drawLanes(dst, l, track, v.Frame)

	for _, e := range v.Entities {
		drawEntity(dst, l, hitbox, e, v.Frame)
	}
	for _, p := range v.Particles {
		row := l.Row(p.Y)
		if !l.onTrack(row) {
			continue
		}
		col := l.Col(p.X)
		if col > l.Track.X && col < l.Track.Right()-1 {
			dst.SetColored(col, row, ParticleChar, p.Color)
		}
	}
	drawPlayer(dst, l, track, v)
	drawHUD(dst, l, v)
	drawOverlay(dst, l, v)
}

func drawLanes(dst *core.Screen, l Layout, track config.RunnerTrack, frame int) {
	offset := frame / 4
	for lane := 1; lane < track.Lanes; lane++ {
		x := l.Track.X + lane*l.LaneCols
		for row := l.Track.Y + 1; row < l.Track.Bottom()-1; row++ {
			if (row+offset)%4 < 2 {
				dst.SetColored(x, row, LaneChar, core.ColorDarkGray)
			}
		}
	}
}

func drawEntity(dst *core.Screen, l Layout, hitbox config.RunnerHitbox, e Entity, frame int) {
	row := l.Row(e.Y + hitbox.EntityOffset)
	if !l.onTrack(row) {
		return
	}
	left := l.Track.X + 1 + e.Lane*l.LaneCols
	mid := left + l.LaneCols/2

	switch b := e.Body.(type) {
	case Obstacle:
		r, c := WallChar, core.ColorGray
		if b.Type == Car {
			r, c = CarChar, core.ColorRed
		}
		for x := left + 1; x < left+l.LaneCols-1; x++ {
			dst.SetColored(x, row, r, c)
		}
	case Coin:
		// Bob sideways with the frame.
		bob := int(math.Round(math.Sin(float64(frame)*0.1) * 0.6))
		dst.SetColored(mid+bob, row, CoinChar, core.ColorYellow)
	case Powerup:
		if b.Type == Magnet {
			dst.SetColored(mid, row, MagnetChar, core.ColorBrightMagenta)
		} else {
			dst.SetColored(mid, row, ShieldChar, core.ColorBlue)
		}
	}
}

func drawPlayer(dst *core.Screen, l Layout, track config.RunnerTrack, v View) {
	row := l.Row(track.PlayerY())
	if row >= l.Track.Bottom()-1 {
		row = l.Track.Bottom() - 2
	}
	col := l.Col(v.PlayerX)
	dst.SetColored(col, row, PlayerChar, core.ColorBrightCyan)
	if v.Powerups.Shield {
		dst.SetColored(col-1, row, '(', core.ColorBlue)
		dst.SetColored(col+1, row, ')', core.ColorBlue)
	}
}

func drawHUD(dst *core.Screen, l Layout, v View) {
	x := l.HUDX
	if x >= dst.Width() {
		return
	}
	dst.DrawTextColored(x, 1, "CASH RUN", core.ColorBrightGreen)
	dst.DrawTextColored(x, 3, fmt.Sprintf("Score  %d", int(v.Score)), core.ColorWhite)
	dst.DrawTextColored(x, 4, fmt.Sprintf("Coins  %d", v.Coins), core.ColorYellow)
	dst.DrawTextColored(x, 5, fmt.Sprintf("Speed  %.1f", v.Speed), core.ColorCyan)

	magnet := "-"
	if v.Powerups.Magnet {
		magnet = fmt.Sprintf("%ds", int(math.Ceil(v.MagnetLeft.Seconds())))
	}
	shield := "-"
	if v.Powerups.Shield {
		shield = "ON"
	}
	dst.DrawTextColored(x, 7, "Magnet "+magnet, core.ColorBrightMagenta)
	dst.DrawTextColored(x, 8, "Shield "+shield, core.ColorBlue)
	if v.Revives > 0 {
		dst.DrawTextColored(x, 9, fmt.Sprintf("Revives %d", v.Revives), core.ColorGray)
	}
}

func drawOverlay(dst *core.Screen, l Layout, v View) {
	mid := l.Track.Y + l.Track.H/2
	switch {
	case v.Phase == PhaseIdle:
		centerIn(dst, l.Track, mid-1, "READY?", core.ColorBrightGreen)
		centerIn(dst, l.Track, mid+1, "enter: run", core.ColorGray)
	case v.Phase == PhaseCountdown:
		centerIn(dst, l.Track, mid, fmt.Sprintf("%d", v.Countdown), core.ColorBrightYellow)
	case v.Phase == PhasePlaying && v.Paused:
		centerIn(dst, l.Track, mid, "PAUSED", core.ColorBrightYellow)
	case v.Phase == PhasePlaying && v.Revives == 0 && v.Frame < goBannerTick:
		centerIn(dst, l.Track, mid, "GO!", core.ColorBrightGreen)
	case v.Phase == PhaseGameOver:
		centerIn(dst, l.Track, mid-2, "GAME OVER", core.ColorRed)
		centerIn(dst, l.Track, mid, fmt.Sprintf("Score %d", int(v.Score)), core.ColorWhite)
		centerIn(dst, l.Track, mid+1, fmt.Sprintf("Coins %d", v.Coins), core.ColorYellow)
		centerIn(dst, l.Track, mid+3, "v: revive (ad)", core.ColorCyan)
		centerIn(dst, l.Track, mid+4, "r: restart", core.ColorGray)
	}
}

// centerIn writes text centered inside the box r.
func centerIn(dst *core.Screen, r core.Rect, y int, text string, c core.Color) {
	x := r.X + (r.W-utf8.RuneCountInString(text))/2
	if x < r.X {
		x = r.X
	}
	dst.DrawTextColored(x, y, text, c)
}
