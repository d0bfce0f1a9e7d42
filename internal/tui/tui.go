package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/fileagg/fileagg"
	"github.com/sokinpui/fileagg/internal/ui"
	"github.com/sokinpui/fileagg/model"
)

// ErrCancelled is reported when the user quits before the operation ends.
var ErrCancelled = errors.New("cancelled by user")

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct {
	current, total int
}

// Runner is the part of fileagg.App the TUI drives.
type Runner interface {
	Execute() (model.Summary, error)
	SetProgressCallback(cb fileagg.ProgressUpdate)
	TransportName() string
}

// programRef is shared by every copy of Model so the progress callback can
// reach the running program.
type programRef struct {
	p *tea.Program
}

// --- Model ---
type Model struct {
	app      Runner
	program  *programRef
	spinner  spinner.Model
	state    state
	progress progressMsg
	summary  summaryMsg
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(app Runner) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ref := &programRef{}
	app.SetProgressCallback(func(current, total int) {
		if ref.p != nil {
			ref.p.Send(progressMsg{current: current, total: total})
		}
	})

	return Model{
		app:     app,
		program: ref,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram connects progress reporting to p. Call it before p.Run.
func (m Model) SetProgram(p *tea.Program) {
	m.program.p = p
}

// Err returns the failure of the finished operation, if any.
func (m Model) Err() error {
	return m.err
}

// Summary returns the result of the finished operation.
func (m Model) Summary() model.Summary {
	return m.summary.Summary
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.state == stateProcessing {
				m.state = stateError
				m.err = ErrCancelled
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.progress.total > 0 {
			return fmt.Sprintf("%s Processing %d/%d (%s)...\n", m.spinner.View(), m.progress.current, m.progress.total, m.app.TransportName())
		}
		return fmt.Sprintf("%s Processing (%s)...\n", m.spinner.View(), m.app.TransportName())
	case stateError:
		return ui.ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return ui.RenderSummary(m.summary.Summary)
	default:
		return ""
	}
}

func (m Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	if err != nil {
		// Check for detailed error to print stack
		var detailed *fileagg.DetailedError
		if errors.As(err, &detailed) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{
		Summary: summary,
	}
}
