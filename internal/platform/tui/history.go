package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cashrun/internal/storage"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

// History layout constants
const (
	maxHistory    = 100
	tableMinWidth = 50
)

type historyTab int

const (
	tabRuns historyTab = iota
	tabWithdrawals
)

// historyMsg carries everything the history screen shows.
type historyMsg struct {
	runs        []storage.RunEntry
	stats       *storage.RunStats
	withdrawals []storage.Withdrawal
	err         error
}

// HistoryModel lists past runs and withdrawal requests.
type HistoryModel struct {
	ctx         context.Context
	wallet      *wallet.Service
	userID      string
	tab         historyTab
	runs        []storage.RunEntry
	stats       *storage.RunStats
	withdrawals []storage.Withdrawal
	table       table.Model
	keyMapper   *KeyMapper
	help        help.Model
	width       int
	height      int
	loaded      bool
	err         error
}

// NewHistoryModel creates the history screen.
func NewHistoryModel(ctx context.Context, w *wallet.Service, userID string, width, height int) HistoryModel {
	m := HistoryModel{
		ctx:       ctx,
		wallet:    w,
		userID:    userID,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	return m
}

// Init loads runs, stats and withdrawals.
func (m HistoryModel) Init() tea.Cmd {
	ctx, w, id := m.ctx, m.wallet, m.userID
	return func() tea.Msg {
		runs, err := w.History(ctx, id, maxHistory)
		if err != nil {
			return historyMsg{err: err}
		}
		stats, err := w.Stats(ctx, id)
		if err != nil {
			return historyMsg{err: err}
		}
		ws, err := w.Withdrawals(ctx, id, maxHistory)
		return historyMsg{runs: runs, stats: stats, withdrawals: ws, err: err}
	}
}

// createTable creates a table with the columns of the current tab.
func (m *HistoryModel) createTable() table.Model {
	width := max(m.width-8, tableMinWidth)

	var columns []table.Column
	if m.tab == tabRuns {
		columns = []table.Column{
			{Title: "#", Width: 5},
			{Title: "Score", Width: 10},
			{Title: "Coins", Width: 8},
			{Title: "Revives", Width: 8},
			{Title: "Date", Width: min(width-39, 20)},
		}
	} else {
		columns = []table.Column{
			{Title: "Method", Width: 8},
			{Title: "Number", Width: 15},
			{Title: "Amount", Width: 12},
			{Title: "Status", Width: 10},
			{Title: "Date", Width: min(width-53, 20)},
		}
	}
	for i := range columns {
		columns[i].Width = max(columns[i].Width, 6)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded data.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row
	if m.tab == tabRuns {
		rows = make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			rows[i] = table.Row{
				fmt.Sprintf("%d", len(m.runs)-i),
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Coins),
				fmt.Sprintf("%d", r.Revives),
				r.CreatedAt.Local().Format("Jan 02 15:04"),
			}
		}
	} else {
		rows = make([]table.Row, len(m.withdrawals))
		for i, w := range m.withdrawals {
			rows[i] = table.Row{
				w.Method,
				w.Number,
				w.Amount.String(),
				w.Status,
				w.CreatedAt.Local().Format("Jan 02 15:04"),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case historyMsg:
		m.loaded = true
		m.err = msg.err
		m.runs, m.stats, m.withdrawals = msg.runs, msg.stats, msg.withdrawals
		m.updateTableRows()
		return m, nil

	case tea.KeyMsg:
		keys := m.keyMapper.Keys()
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.tab == tabRuns {
				m.tab = tabWithdrawals
			} else {
				m.tab = tabRuns
			}
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("HISTORY"))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.RunsCount > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			field("Runs", fmt.Sprintf("%d", m.stats.RunsCount)), "   ",
			field("Best", fmt.Sprintf("%d", m.stats.BestScore)), "   ",
			field("Avg", fmt.Sprintf("%.0f", m.stats.AvgScore)), "   ",
			field("Coins", fmt.Sprintf("%d", m.stats.TotalCoins)),
		))
		b.WriteString("\n\n")
	}

	tabs := []string{"Runs", "Withdrawals"}
	for i, t := range tabs {
		if historyTab(i) == m.tab {
			b.WriteString(activeTab.Render(t))
		} else {
			b.WriteString(inactiveTab.Render(t))
		}
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	keys := m.keyMapper.Keys()
	b.WriteString(m.help.View(bindings{keys.Up, keys.Down, keys.Tab, keys.Back}))
	return place(m.width, m.height-1, b.String())
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)

	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case !m.loaded:
		return emptyStyle.Render("loading...")
	case m.tab == tabRuns && len(m.runs) == 0:
		return emptyStyle.Render("No runs recorded yet.\nPlay a run to set a high score!")
	case m.tab == tabWithdrawals && len(m.withdrawals) == 0:
		return emptyStyle.Render("No withdrawals yet.")
	}
	return m.table.View()
}
