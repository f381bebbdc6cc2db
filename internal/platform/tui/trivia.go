package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cashrun/internal/trivia"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

type triviaState int

const (
	triviaLoading triviaState = iota
	triviaAsking
	triviaRevealed
)

// questionMsg delivers a generated question.
type questionMsg struct {
	q   trivia.Question
	err error
}

// TriviaModel is the AI challenge modal.
type TriviaModel struct {
	ctx       context.Context
	src       trivia.Source
	wallet    *wallet.Service
	userID    string
	state     triviaState
	question  trivia.Question
	cursor    int
	correct   bool
	spinner   spinner.Model
	keyMapper *KeyMapper
	help      help.Model
	width     int
	height    int
	notice    string
}

// NewTriviaModel creates the challenge screen in its loading state.
func NewTriviaModel(ctx context.Context, src trivia.Source, w *wallet.Service, userID string, width, height int) TriviaModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	return TriviaModel{
		ctx:       ctx,
		src:       src,
		wallet:    w,
		userID:    userID,
		spinner:   sp,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
}

// Init starts the spinner and the question request.
func (m TriviaModel) Init() tea.Cmd {
	ctx, src := m.ctx, m.src
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		q, err := src.Generate(ctx)
		return questionMsg{q: q, err: err}
	})
}

// Update handles messages for the challenge.
func (m TriviaModel) Update(msg tea.Msg) (TriviaModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.state != triviaLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case questionMsg:
		if msg.err != nil {
			m.state = triviaRevealed
			m.notice = msg.err.Error()
			return m, nil
		}
		m.question = msg.q
		m.state = triviaAsking
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TriviaModel) handleKey(msg tea.KeyMsg) (TriviaModel, tea.Cmd) {
	if m.state != triviaAsking {
		if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionQuit {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.question.Options)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.state = triviaRevealed
		m.correct = m.question.Correct(m.question.Options[m.cursor])
		if m.correct {
			return m, addBalance(m.ctx, m.wallet, m.userID, m.question.RewardAmount())
		}
	}
	return m, nil
}

// Done reports whether the question was answered or failed to load.
func (m TriviaModel) Done() bool {
	return m.state == triviaRevealed
}

// View renders the challenge.
func (m TriviaModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI CHALLENGE"))
	b.WriteString("\n\n")

	if m.state == triviaLoading {
		b.WriteString(m.spinner.View() + " generating question...")
		return place(m.width, m.height-1, b.String())
	}

	var body []string
	if m.question.Question != "" {
		body = append(body,
			valueStyle.Render(m.question.Question),
			labelStyle.Render(fmt.Sprintf("reward: %s", m.question.RewardAmount())),
			"",
		)
	}
	for i, opt := range m.question.Options {
		line := "  " + opt
		switch {
		case m.state == triviaRevealed && m.question.Correct(opt):
			line = successStyle.Render("✓ " + opt)
		case m.state == triviaRevealed && i == m.cursor:
			line = errorStyle.Render("✗ " + opt)
		case i == m.cursor:
			line = cursorStyle.Render("> " + opt)
		}
		body = append(body, line)
	}
	b.WriteString(panelStyle.Render(strings.Join(body, "\n")))
	b.WriteString("\n\n")

	if m.state == triviaRevealed {
		switch {
		case m.question.Question == "":
		case m.correct:
			b.WriteString(successStyle.Render("Correct!"))
		default:
			b.WriteString(errorStyle.Render("Wrong answer."))
		}
		if m.notice != "" {
			b.WriteString(" " + dimStyle.Render(m.notice))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keyMapper.Keys().MenuHelp()))
	return place(m.width, m.height-1, b.String())
}
