// Package menu renders the full-screen main menu shown when lm runs with no
// subcommand on a terminal. It only picks an action; the command layer
// executes it after the program exits alternate screen mode.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

// Action is the user's selection.
type Action int

const (
	ActionNone Action = iota
	ActionClean
	ActionPreview
	ActionAnalyze
	ActionStatus
	ActionUpdate
)

type item struct {
	action Action
	title  string
	desc   string
}

var items = []item{
	{ActionClean, "Deep clean", "Reclaim disk space from caches, logs, and temp files"},
	{ActionPreview, "Preview clean", "Show what deep clean would remove, without deleting"},
	{ActionAnalyze, "Analyze disk", "Browse directory sizes interactively"},
	{ActionStatus, "System status", "Disk, memory, and uptime overview"},
	{ActionUpdate, "Update", "Check for and install the latest version"},
}

type model struct {
	cursor   int
	choice   Action
	version  string
	quitting bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = items[m.cursor].action
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	dim := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	s.WriteString("\n")
	s.WriteString(title.Render("  " + ui.IconDiamond + " linmole"))
	s.WriteString(dim.Render("  " + m.version))
	s.WriteString("\n\n")

	for i, it := range items {
		cursor := "  "
		nameStyle := lipgloss.NewStyle().Foreground(ui.ColorText)
		if i == m.cursor {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render("▌ ")
			nameStyle = nameStyle.Foreground(ui.ColorPrimary).Bold(true)
		}
		s.WriteString(fmt.Sprintf("  %s%-16s %s\n",
			cursor,
			nameStyle.Render(it.title),
			dim.Render(it.desc)))
	}

	s.WriteString("\n")
	s.WriteString(dim.Render("  ↑↓ select · Enter run · q quit"))
	s.WriteString("\n")
	return s.String()
}

// Run shows the menu and blocks until the user picks an action or quits.
func Run(version string) (Action, error) {
	p := tea.NewProgram(model{version: version})
	final, err := p.Run()
	if err != nil {
		return ActionNone, err
	}
	return final.(model).choice, nil
}
