package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
	"github.com/vovakirdan/cashrun/internal/games/runner"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

// RunModel is the Bubble Tea model for the lane runner.
type RunModel struct {
	driver     *runner.Driver
	screen     *core.Screen
	rt         core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gen        int

	ctx      context.Context
	cancelAd context.CancelFunc
	userID   string
	wallet   *wallet.Service
	ads      *ads.Watcher
	logger   *log.Logger
	clock    func() time.Time

	watchingAd bool
	message    string
	backToMenu bool
	quitting   bool
}

// NewRunModel creates an idle run for the given user. Gen tags its ticks.
func NewRunModel(ctx context.Context, svc Services, userID string, cfg config.RunnerConfig, rt core.RuntimeConfig, gen int) RunModel {
	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return RunModel{
		driver:     runner.NewDriver(cfg, runner.NewRand(seed), runner.NewEntityID),
		screen:     core.NewScreen(rt.ScreenW, trackRows(rt.ScreenH)),
		rt:         rt,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		gen:        gen,
		ctx:        ctx,
		userID:     userID,
		wallet:     svc.Wallet,
		ads:        svc.Ads,
		logger:     svc.logger(),
		clock:      time.Now,
	}
}

// Init starts the tick loop.
func (m RunModel) Init() tea.Cmd {
	return tickCmd(m.gen, m.rt.TickInterval())
}

// Update handles messages and updates the model state.
func (m RunModel) Update(msg tea.Msg) (RunModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.rt.ScreenW = msg.Width
		m.rt.ScreenH = msg.Height
		m.screen.Resize(msg.Width, trackRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Gen != m.gen || m.driver.Stopped() {
			return m, nil
		}
		return m.handleTick(msg.At)

	case adDoneMsg:
		if msg.purpose != ads.PurposeRevive {
			return m, nil
		}
		m.watchingAd = false
		m.cancelAd = nil
		if msg.err != nil {
			m.message = "ad interrupted, no revive"
			return m, nil
		}
		m.driver.Enqueue(msg.grant)
		return m, nil

	}

	return m, nil
}

// handleKey processes keyboard input.
func (m RunModel) handleKey(msg tea.KeyMsg) (RunModel, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.Leave()
		m.quitting = true
		return m, tea.Quit
	}

	st := m.driver.State()
	switch action {
	case core.ActionBack:
		if st.Phase == runner.PhaseIdle || st.Phase == runner.PhaseGameOver || st.Paused {
			m.Leave()
			m.backToMenu = true
		}
		return m, nil

	case core.ActionRevive:
		if st.Phase != runner.PhaseGameOver || m.watchingAd || m.ads == nil {
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancelAd = cancel
		m.watchingAd = true
		m.message = ""
		return m, watchAd(ctx, m.ads, ads.PurposeRevive)

	case core.ActionRestart:
		if m.watchingAd {
			return m, nil
		}
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs one driver tick and schedules the next.
func (m RunModel) handleTick(now time.Time) (RunModel, tea.Cmd) {
	res := m.driver.Tick(now, m.inputFrame)
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.gen, m.rt.TickInterval())}
	if res.Started {
		m.message = ""
	}
	if res.Revived {
		m.message = "revived"
	}
	if res.Ended != nil {
		cmds = append(cmds, m.saveRun(*res.Ended))
	}
	if res.CreditedCoins > 0 {
		cmds = append(cmds, creditCoins(m.ctx, m.wallet, m.userID, res.CreditedCoins))
	}
	return m, tea.Batch(cmds...)
}

// saveRun forwards a game over to the wallet.
func (m RunModel) saveRun(r runner.RunResult) tea.Cmd {
	ctx, w, id, logger := m.ctx, m.wallet, m.userID, m.logger
	return func() tea.Msg {
		p, err := w.SaveRun(ctx, id, r)
		if err != nil {
			logger.Error("could not save run", "id", id, "score", r.Score, "err", err)
			return resultMsg{err: err}
		}
		logger.Info("run saved", "id", id, "score", int(r.Score), "coins", r.Coins, "revives", r.Revives)
		return resultMsg{text: fmt.Sprintf("run saved: +%d coins", r.Coins), profile: &p}
	}
}

// Leave stops the driver and aborts a pending ad.
func (m *RunModel) Leave() {
	if m.cancelAd != nil {
		m.cancelAd()
		m.cancelAd = nil
	}
	m.driver.Stop()
}

// BackToMenu returns true if user requested to go back to menu.
func (m RunModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user requested to quit entirely.
func (m RunModel) IsQuitting() bool {
	return m.quitting
}

// Driver exposes the underlying run driver.
func (m RunModel) Driver() *runner.Driver {
	return m.driver
}

// View renders the run.
func (m RunModel) View() string {
	if m.quitting {
		return ""
	}

	cfg := m.driver.Config()
	runner.Render(m.screen, cfg.Track, cfg.Hitbox, m.driver.View(m.clock()))

	status := dimStyle.Render(m.message)
	if m.watchingAd {
		status = successStyle.Render(fmt.Sprintf("watching ad (%s)... %s", m.ads.Delay(), m.ads.Link()))
	}
	return RenderScreen(m.screen) + "\n" + status + "\n" + m.help.View(m.keyMapper.Keys().RunHelp())
}

// Reconfigure stages new tuning for the next fresh run.
func (m *RunModel) Reconfigure(cfg config.RunnerConfig) {
	m.driver.SetConfig(cfg)
	m.message = "config reloaded, applies next run"
}

// trackRows leaves room for the status and help lines.
func trackRows(h int) int {
	return max(h-2, 1)
}

