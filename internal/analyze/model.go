package analyze

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
)

// largeThreshold is the cutoff for the "large entries only" filter.
const largeThreshold = 100 << 20

// ─── Messages ────────────────────────────────────────────────────────────────

type deleteDoneMsg struct {
	path   string
	freed  int64
	dryRun bool
	err    error
}

// deleteEntry removes the entry through the guarded executor so the
// analyzer's delete key obeys the same protected-path rules and dry-run mode
// as every cleanup routine.
func deleteEntry(e *Entry, dryRun bool) tea.Cmd {
	return func() tea.Msg {
		exec := fsops.New(dryRun, nil)
		exec.DeleteTree(e.Path)
		if w := exec.Warnings(); len(w) > 0 {
			return deleteDoneMsg{path: e.Path, err: errors.New(w[0])}
		}
		return deleteDoneMsg{path: e.Path, freed: e.Size, dryRun: dryRun}
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Browser is the bubbletea model for interactive tree navigation.
type Browser struct {
	root    *Entry
	current *Entry
	crumbs  []*Entry

	cursor int
	offset int
	width  int
	height int

	largeOnly     bool
	confirmDelete bool
	partial       bool
	dryRun        bool
	quitting      bool
	notice        string
	err           error
}

// NewBrowser returns a Browser rooted at the scan result. partial marks the
// header when the scan timed out and the tree is incomplete; dryRun turns
// the delete key into a report-only action.
func NewBrowser(root *Entry, partial, dryRun bool) Browser {
	return Browser{
		root:    root,
		current: root,
		width:   80,
		height:  24,
		partial: partial,
		dryRun:  dryRun,
	}
}

func (m Browser) Init() tea.Cmd {
	return nil
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Pending delete: Enter confirms, anything else cancels.
		if m.confirmDelete {
			if msg.String() == "enter" {
				m.confirmDelete = false
				items := m.visible()
				if m.cursor >= 0 && m.cursor < len(items) {
					return m, deleteEntry(items[m.cursor], m.dryRun)
				}
			}
			m.confirmDelete = false
			return m, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.clampViewport()
			}

		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
				m.clampViewport()
			}

		case "right", "l", "enter":
			items := m.visible()
			if m.cursor >= 0 && m.cursor < len(items) {
				e := items[m.cursor]
				if e.IsDir && len(e.Children) > 0 {
					m.crumbs = append(m.crumbs, m.current)
					m.current = e
					m.cursor = 0
					m.offset = 0
				}
			}

		case "left", "h":
			if n := len(m.crumbs); n > 0 {
				m.current = m.crumbs[n-1]
				m.crumbs = m.crumbs[:n-1]
				m.cursor = 0
				m.offset = 0
			}

		case "backspace":
			if items := m.visible(); m.cursor >= 0 && m.cursor < len(items) {
				m.confirmDelete = true
			}

		case "L":
			m.largeOnly = !m.largeOnly
			m.cursor = 0
			m.offset = 0
		}
		return m, nil

	case deleteDoneMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.dryRun:
			// Nothing moved; keep the entry and say what would have gone.
			m.err = nil
			m.notice = fmt.Sprintf("dry run: would delete %s", msg.path)
		default:
			m.err = nil
			m.notice = ""
			m.dropEntry(msg.path)
		}
		return m, nil
	}

	return m, nil
}

func (m Browser) View() string {
	return m.render()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Browser) clampViewport() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Browser) viewportHeight() int {
	h := m.height - 8
	if h < 1 {
		h = 1
	}
	return h
}

// visible returns the current directory's children after filters.
func (m Browser) visible() []*Entry {
	if m.current == nil {
		return nil
	}
	var out []*Entry
	for _, c := range m.current.Children {
		if m.largeOnly && c.Size < largeThreshold {
			continue
		}
		out = append(out, c)
	}
	return out
}

// dropEntry removes a deleted child from the current level and re-sums the
// directory size so the bars stay truthful.
func (m *Browser) dropEntry(path string) {
	if m.current == nil {
		return
	}
	for i, c := range m.current.Children {
		if c.Path != path {
			continue
		}
		m.current.Children = append(m.current.Children[:i], m.current.Children[i+1:]...)
		var total int64
		for _, rest := range m.current.Children {
			total += rest.Size
		}
		m.current.Size = total
		if m.cursor >= len(m.current.Children) && m.cursor > 0 {
			m.cursor--
		}
		return
	}
}
