package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunWithSpinner executes work in the background while showing a spinner
// with a live visited-entry count. On non-interactive runs it just calls
// work synchronously.
func RunWithSpinner(label string, visited func() int64, work func()) {
	if !Interactive {
		work()
		return
	}

	done := make(chan struct{})
	go func() {
		work()
		close(done)
	}()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := progressModel{sp: sp, label: label, visited: visited, done: done}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		// TUI failure must not abort the scan; just wait for it.
		<-done
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

type scanDoneMsg struct{}

type progressModel struct {
	sp      spinner.Model
	label   string
	visited func() int64
	done    chan struct{}
	quit    bool
}

func waitDone(done chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return scanDoneMsg{}
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, waitDone(m.done))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.quit = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// The scan is not cancellable; ignore keys rather than leaving a
		// half-finished walk behind a dismissed spinner.
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quit {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n", m.sp.View(), m.label,
		Muted(fmt.Sprintf("(%d entries)", m.visited())))
}
