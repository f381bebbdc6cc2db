package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
	"github.com/vovakirdan/cashrun/internal/profile"
)

type screenID int

const (
	screenMenu screenID = iota
	screenRun
	screenWallet
	screenTrivia
	screenHistory
)

// App routes messages between the menu and the screens it opens.
type App struct {
	ctx         context.Context
	svc         Services
	user        profile.Profile
	rt          core.RuntimeConfig
	runnerCfg   config.RunnerConfig
	allowLogout bool
	keyMapper   *KeyMapper

	screen  screenID
	gen     int
	menu    MenuModel
	run     RunModel
	wallet  WalletModel
	trivia  TriviaModel
	history HistoryModel

	cancelAd  context.CancelFunc
	status    string
	statusErr bool
	loggedOut bool
	quitting  bool
}

// NewApp creates the app on the main menu.
func NewApp(ctx context.Context, svc Services, user profile.Profile, rt core.RuntimeConfig, allowLogout bool) App {
	return App{
		ctx:         ctx,
		svc:         svc,
		user:        user,
		rt:          rt,
		runnerCfg:   svc.runnerConfig(svc.Config),
		allowLogout: allowLogout,
		keyMapper:   NewKeyMapper(),
		menu:        NewMenuModel(user, allowLogout, rt.ScreenW, rt.ScreenH),
	}
}

// Init starts listening for config reloads.
func (a App) Init() tea.Cmd {
	return waitConfig(a.svc.ConfigUpdates)
}

// Update handles messages and updates the current screen.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.rt.ScreenW = msg.Width
		a.rt.ScreenH = msg.Height
		a.menu, _ = a.menu.Update(msg)
		if a.screen == screenMenu {
			return a, nil
		}
		return a.forward(msg)

	case configMsg:
		a.svc.Config = msg.cfg
		a.runnerCfg = a.svc.runnerConfig(msg.cfg)
		a.svc.logger().Info("config reloaded")
		if a.screen == screenRun {
			a.run.Reconfigure(a.runnerCfg)
		}
		return a, waitConfig(a.svc.ConfigUpdates)

	case resultMsg:
		if msg.profile != nil {
			a.user = *msg.profile
			a.menu.SetProfile(a.user)
		}
		a.setStatus(msg.text, msg.err)
		return a.forward(msg)

	case adDoneMsg:
		if msg.purpose == ads.PurposeRevive {
			return a.forward(msg)
		}
		a.cancelAd = nil
		a.menu.SetBusy("")
		if msg.err != nil {
			a.setStatus("", msg.err)
			return a, nil
		}
		return a, creditCoins(a.ctx, a.svc.Wallet, a.user.ID, msg.grant.Coins)

	case menuSelectMsg:
		return a.open(msg.choice)

	case tea.KeyMsg:
		if a.screen != screenMenu && a.wantsBack(msg) {
			return a.backToMenu(), nil
		}
		if a.screen == screenMenu && a.keyMapper.MapKeyToMenuAction(msg) == MenuActionQuit {
			a.leave()
			a.quitting = true
			return a, tea.Quit
		}
	}

	return a.forward(msg)
}

// wantsBack reports whether a key should close the current screen.
func (a App) wantsBack(msg tea.KeyMsg) bool {
	switch a.screen {
	case screenRun:
		return false // the run decides, see RunModel.BackToMenu
	case screenWallet:
		return a.wallet.WantsBack(msg)
	case screenTrivia:
		action := a.keyMapper.MapKeyToMenuAction(msg)
		return action == MenuActionBack || (a.trivia.Done() && action == MenuActionSelect)
	default:
		return a.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack
	}
}

// forward passes msg to the current screen.
func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenMenu:
		a.menu, cmd = a.menu.Update(msg)
	case screenRun:
		a.run, cmd = a.run.Update(msg)
		if a.run.IsQuitting() {
			a.quitting = true
		} else if a.run.BackToMenu() {
			return a.backToMenu(), cmd
		}
	case screenWallet:
		a.wallet, cmd = a.wallet.Update(msg)
	case screenTrivia:
		a.trivia, cmd = a.trivia.Update(msg)
	case screenHistory:
		a.history, cmd = a.history.Update(msg)
	}
	return a, cmd
}

// open switches to the screen behind a menu entry.
func (a App) open(choice MenuChoice) (tea.Model, tea.Cmd) {
	a.status = ""
	w, h := a.rt.ScreenW, a.rt.ScreenH
	switch choice {
	case ChoicePlay:
		a.gen++
		a.run = NewRunModel(a.ctx, a.svc, a.user.ID, a.runnerCfg, a.rt, a.gen)
		a.screen = screenRun
		return a, a.run.Init()

	case ChoiceTrivia:
		a.trivia = NewTriviaModel(a.ctx, a.svc.Trivia, a.svc.Wallet, a.user.ID, w, h)
		a.screen = screenTrivia
		return a, a.trivia.Init()

	case ChoiceWallet:
		a.wallet = NewWalletModel(a.ctx, a.svc.Wallet, a.user, w, h)
		a.screen = screenWallet
		return a, nil

	case ChoiceHistory:
		a.history = NewHistoryModel(a.ctx, a.svc.Wallet, a.user.ID, w, h)
		a.screen = screenHistory
		return a, a.history.Init()

	case ChoiceWatchAd:
		if a.cancelAd != nil || a.svc.Ads == nil {
			return a, nil
		}
		ctx, cancel := context.WithCancel(a.ctx)
		a.cancelAd = cancel
		a.menu.SetBusy("watching ad... " + a.svc.Ads.Link())
		return a, watchAd(ctx, a.svc.Ads, ads.PurposeEarn)

	case ChoiceLogout:
		if err := a.svc.Auth.Logout(a.ctx); err != nil {
			a.setStatus("", err)
			return a, nil
		}
		a.leave()
		a.loggedOut = true
		a.quitting = true
		return a, tea.Quit
	}
	return a, nil
}

// backToMenu closes the current screen.
func (a App) backToMenu() App {
	if a.screen == screenRun {
		a.run.Leave()
		if n := a.run.Driver().Unsaved(); n > 0 {
			a.setStatus(fmt.Sprintf("run abandoned, %d coins not saved", n), nil)
		}
	}
	a.screen = screenMenu
	a.menu.SetProfile(a.user)
	return a
}

// leave cancels everything still running before the program exits.
func (a *App) leave() {
	if a.cancelAd != nil {
		a.cancelAd()
		a.cancelAd = nil
	}
	if a.screen == screenRun {
		a.run.Leave()
	}
}

func (a *App) setStatus(text string, err error) {
	a.statusErr = err != nil
	a.status = text
	if err != nil {
		a.status = err.Error()
		a.svc.logger().Warn("operation failed", "err", err)
	}
}

// View renders the current screen.
func (a App) View() string {
	if a.quitting {
		return ""
	}

	var body string
	switch a.screen {
	case screenRun:
		return a.run.View()
	case screenWallet:
		body = a.wallet.View()
	case screenTrivia:
		body = a.trivia.View()
	case screenHistory:
		body = a.history.View()
	default:
		body = a.menu.View()
	}

	style := successStyle
	if a.statusErr {
		style = errorStyle
	}
	return body + "\n" + style.Render(a.status)
}

// LoggedOut reports whether the user logged out from the menu.
func (a App) LoggedOut() bool {
	return a.loggedOut
}

// User returns the latest copy of the signed-in profile.
func (a App) User() profile.Profile {
	return a.user
}

// Run starts the Bubble Tea program for a signed-in user.
func Run(ctx context.Context, svc Services, user profile.Profile, rt core.RuntimeConfig) (App, error) {
	app := NewApp(ctx, svc, user, rt, true)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return app, err
	}
	if m, ok := final.(App); ok {
		return m, nil
	}
	return app, nil
}
