package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a yes/no question and blocks for the answer. On a terminal it
// is a single-keypress bubbletea prompt; otherwise it reads one line from
// stdin. Only "y"/"Y" confirms — any other input declines.
func Confirm(prompt string) (bool, error) {
	if !Interactive {
		return confirmLine(prompt)
	}

	m, err := tea.NewProgram(confirmModel{prompt: prompt}).Run()
	if err != nil {
		// Fall back to the plain prompt if the TUI cannot start.
		return confirmLine(prompt)
	}
	cm, ok := m.(confirmModel)
	return ok && cm.yes, nil
}

func confirmLine(prompt string) (bool, error) {
	fmt.Printf("%s (y/N) ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

// ─── Model ───────────────────────────────────────────────────────────────────

type confirmModel struct {
	prompt string
	yes    bool
	done   bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes = true
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		answer := "n"
		if m.yes {
			answer = "y"
		}
		return fmt.Sprintf("%s %s %s\n", Warning(m.prompt), Muted("(y/N)"), answer)
	}
	return fmt.Sprintf("%s %s ", Warning(m.prompt), Muted("(y/N)"))
}
