package analyze

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

type scanDoneMsg struct {
	tree *Entry
	err  error
}

// ScanModel shows a live spinner with the visited-entry count while the
// scanner walks the tree in the background.
type ScanModel struct {
	Tree *Entry
	Err  error

	spin    spinner.Model
	scanner *Scanner
	ctx     context.Context
	root    string
	done    bool
}

// NewScanModel prepares the progress view for scanning root. The context
// bounds the scan; expiry yields a partial tree, not an error.
func NewScanModel(ctx context.Context, s *Scanner, root string) ScanModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	return ScanModel{spin: sp, scanner: s, ctx: ctx, root: root}
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		tree, err := m.scanner.Scan(m.ctx, m.root)
		return scanDoneMsg{tree: tree, err: err}
	})
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.Tree = msg.tree
		m.Err = msg.err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if s := msg.String(); s == "q" || s == "esc" || s == "ctrl+c" {
			m.Err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ScanModel) View() string {
	if m.done {
		return ""
	}
	count := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("%d entries", m.scanner.Visited()))
	return fmt.Sprintf("\n  %s Scanning %s  %s\n", m.spin.View(), m.root, count)
}
