package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

type walletTab int

const (
	tabExchange walletTab = iota
	tabWithdraw
)

// WalletModel is the exchange and withdraw screen.
type WalletModel struct {
	ctx       context.Context
	svc       *wallet.Service
	user      profile.Profile
	tab       walletTab
	method    int
	number    textinput.Model
	keyMapper *KeyMapper
	help      help.Model
	width     int
	height    int
	pending   bool
	notice    string
	failed    bool
}

// NewWalletModel creates the wallet screen on the exchange tab.
func NewWalletModel(ctx context.Context, svc *wallet.Service, user profile.Profile, width, height int) WalletModel {
	ti := textinput.New()
	ti.Placeholder = "01XXXXXXXXX"
	ti.CharLimit = 14
	ti.Width = 16
	ti.Validate = func(s string) error {
		for _, r := range s {
			if (r < '0' || r > '9') && r != '+' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}
	return WalletModel{
		ctx:       ctx,
		svc:       svc,
		user:      user,
		number:    ti,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
}

// SetProfile refreshes the balances shown.
func (m *WalletModel) SetProfile(p profile.Profile) {
	m.user = p
}

// Update handles messages for the wallet.
func (m WalletModel) Update(msg tea.Msg) (WalletModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resultMsg:
		m.pending = false
		m.failed = msg.err != nil
		m.notice = msg.text
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		if msg.profile != nil {
			m.user = *msg.profile
		}
		if !m.failed && m.tab == tabWithdraw {
			m.number.SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.number, cmd = m.number.Update(msg)
	return m, cmd
}

func (m WalletModel) handleKey(msg tea.KeyMsg) (WalletModel, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.tab == tabExchange {
			m.tab = tabWithdraw
			return m, m.number.Focus()
		}
		m.tab = tabExchange
		m.number.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		if m.pending {
			return m, nil
		}
		m.pending = true
		m.notice = ""
		if m.tab == tabExchange {
			return m, m.exchange()
		}
		return m, m.withdraw()
	}

	if m.tab == tabWithdraw {
		switch msg.Type {
		case tea.KeyLeft, tea.KeyUp:
			m.method = (m.method + len(wallet.Methods) - 1) % len(wallet.Methods)
			return m, nil
		case tea.KeyRight, tea.KeyDown:
			m.method = (m.method + 1) % len(wallet.Methods)
			return m, nil
		}
		var cmd tea.Cmd
		m.number, cmd = m.number.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	return m, nil
}

// WantsBack reports whether the key leaves the screen. Esc always does;
// "b" only while no text field has focus.
func (m WalletModel) WantsBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return m.tab == tabExchange && msg.String() == "b"
}

func (m WalletModel) exchange() tea.Cmd {
	ctx, svc, id := m.ctx, m.svc, m.user.ID
	return func() tea.Msg {
		coins, credit, err := svc.ExchangeAll(ctx, id)
		if err != nil {
			return resultMsg{err: err}
		}
		p, err := svc.Profile(ctx, id)
		return result(p, err, "exchanged %d coins for %s", coins, credit)
	}
}

func (m WalletModel) withdraw() tea.Cmd {
	ctx, svc, id := m.ctx, m.svc, m.user.ID
	method, number := wallet.Methods[m.method], m.number.Value()
	return func() tea.Msg {
		w, err := svc.Withdraw(ctx, id, method, number)
		if err != nil {
			return resultMsg{err: err}
		}
		p, err := svc.Profile(ctx, id)
		return result(p, err, "%s withdrawal to %s %s is processing", w.Amount, w.Method, w.Number)
	}
}

// View renders the wallet.
func (m WalletModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("WALLET"))
	b.WriteString("\n\n")

	tabs := []string{"Exchange", "Withdraw"}
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if walletTab(i) == m.tab {
			rendered[i] = activeTab.Render(t)
		} else {
			rendered[i] = inactiveTab.Render(t)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	var body string
	if m.tab == tabExchange {
		body = m.exchangeView()
	} else {
		body = m.withdrawView()
	}
	b.WriteString(panelStyle.Render(body))
	b.WriteString("\n\n")

	switch {
	case m.pending:
		b.WriteString(dimStyle.Render("processing..."))
	case m.failed:
		b.WriteString(errorStyle.Render(m.notice))
	case m.notice != "":
		b.WriteString(successStyle.Render(m.notice))
	}
	b.WriteString("\n")
	keys := m.keyMapper.Keys()
	b.WriteString(m.help.View(bindings{keys.Tab, keys.Confirm, keys.Back}))

	return place(m.width, m.height-1, b.String())
}

func (m WalletModel) exchangeView() string {
	minCoins := m.svc.MinExchangeCoins()
	lines := []string{
		field("Coins  ", fmt.Sprintf("%d", m.user.TotalCoins)),
		labelStyle.Render("Balance ") + moneyStyle.Render(m.user.Balance.String()),
		"",
		field("Rate   ", fmt.Sprintf("%d Coins = %s", minCoins, m.svc.Quote(minCoins))),
		field("You get", m.svc.Quote(m.user.TotalCoins).String()),
		"",
	}
	if m.user.TotalCoins < minCoins {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("collect at least %d coins to exchange", minCoins)))
	} else {
		lines = append(lines, "enter: exchange all coins")
	}
	return strings.Join(lines, "\n")
}

func (m WalletModel) withdrawView() string {
	methods := make([]string, len(wallet.Methods))
	for i, meth := range wallet.Methods {
		if i == m.method {
			methods[i] = cursorStyle.Render(" " + string(meth) + " ")
		} else {
			methods[i] = " " + string(meth) + " "
		}
	}
	lines := []string{
		labelStyle.Render("Balance ") + moneyStyle.Render(m.user.Balance.String()),
		field("Minimum", m.svc.MinWithdrawal().String()),
		"",
		labelStyle.Render("Method  ") + strings.Join(methods, " "),
		labelStyle.Render("Number  ") + m.number.View(),
		"",
		dimStyle.Render("←/→: method  enter: withdraw full balance"),
	}
	return strings.Join(lines, "\n")
}
