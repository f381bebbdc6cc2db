package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cashrun/internal/profile"
)

// MenuChoice identifies a main menu entry.
type MenuChoice int

const (
	ChoicePlay MenuChoice = iota
	ChoiceTrivia
	ChoiceWatchAd
	ChoiceWallet
	ChoiceHistory
	ChoiceLogout
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
	Hint   string
}

// menuSelectMsg is sent when an entry is chosen.
type menuSelectMsg struct {
	choice MenuChoice
}

// MenuModel is the main menu with the profile summary.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	user      profile.Profile
	keyMapper *KeyMapper
	help      help.Model
	busy      string // Shown instead of the cursor while an ad plays
}

// NewMenuModel creates the main menu. Logout is replaced by a plain quit
// entry when the session cannot log out (SSH).
func NewMenuModel(user profile.Profile, allowLogout bool, width, height int) MenuModel {
	items := []MenuItem{
		{Choice: ChoicePlay, Title: "Play", Hint: "dodge walls, grab coins"},
		{Choice: ChoiceTrivia, Title: "AI Challenge", Hint: "answer right, win cash"},
		{Choice: ChoiceWatchAd, Title: "Watch Ad", Hint: "+100 coins"},
		{Choice: ChoiceWallet, Title: "Wallet", Hint: "exchange and withdraw"},
		{Choice: ChoiceHistory, Title: "Run History", Hint: "recent runs"},
	}
	if allowLogout {
		items = append(items, MenuItem{Choice: ChoiceLogout, Title: "Logout"})
	}
	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		user:      user,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
}

// SetProfile replaces the summary shown at the top.
func (m *MenuModel) SetProfile(p profile.Profile) {
	m.user = p
}

// SetBusy shows a progress line; empty clears it.
func (m *MenuModel) SetBusy(text string) {
	m.busy = text
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if m.busy != "" || len(m.items) == 0 {
			return m, nil
		}
		choice := m.items[m.cursor].Choice
		return m, func() tea.Msg { return menuSelectMsg{choice: choice} }
	}
	return m, nil
}

// Selected returns the highlighted entry.
func (m MenuModel) Selected() MenuItem {
	return m.items[m.cursor]
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("C A S H   R U N"))
	b.WriteString("\n\n")

	name := m.user.Name
	if name == "" {
		name = m.user.Email
	}
	summary := lipgloss.JoinVertical(lipgloss.Left,
		field("Player ", name),
		labelStyle.Render("Balance ")+moneyStyle.Render(m.user.Balance.String()),
		field("Coins  ", fmt.Sprintf("%d", m.user.TotalCoins)),
		field("Best   ", fmt.Sprintf("%d", m.user.HighScore)),
		field("Referral", m.user.ReferralCode),
	)
	b.WriteString(panelStyle.Render(summary))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %-14s %s", item.Title, dimStyle.Render(item.Hint))
		if i == m.cursor {
			line = cursorStyle.Render(fmt.Sprintf("> %-14s", item.Title)) + " " + dimStyle.Render(item.Hint)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.busy != "" {
		b.WriteString(successStyle.Render(m.busy))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keyMapper.Keys().MenuHelp()))

	return place(m.width, m.height-1, b.String())
}
