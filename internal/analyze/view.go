package analyze

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Browser) render() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 40 {
		w = 40
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")
	s.WriteString(m.renderBody(w))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Browser) renderHeader(w int) string {
	label := "  " + ui.IconDiamond + " Disk Analyzer"
	if m.partial {
		label += "  (scan timed out, showing partial data)"
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorCoral).
		Render(label)

	pathLine := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("  %s    %s", m.current.Path, ui.FormatBytes(m.current.Size)))

	var crumbs []string
	for _, c := range m.crumbs {
		crumbs = append(crumbs, c.Name)
	}
	crumbs = append(crumbs, m.current.Name)
	trail := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render("  " + strings.Join(crumbs, " / "))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, pathLine, trail)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Browser) renderBody(w int) string {
	items := m.visible()
	if len(items) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  (empty directory)")
	}

	vh := m.viewportHeight()
	barWidth := 20
	if w > 100 {
		barWidth = 28
	}

	parentSize := m.current.Size
	var lines []string
	for i := m.offset; i < len(items) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(items[i], parentSize, barWidth, i == m.cursor))
	}

	if len(items) > vh {
		hint := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  -- %d/%d entries --", min(m.offset+vh, len(items)), len(items)))
		lines = append(lines, hint)
	}
	return strings.Join(lines, "\n")
}

func (m Browser) renderEntry(e *Entry, parentSize int64, barWidth int, selected bool) string {
	pct := e.Share(parentSize)

	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(ui.ColorCoral).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", barWidth-filled))

	nameColor := ui.ColorText
	switch {
	case e.IsDir:
		nameColor = ui.ColorCoral
	case e.Size >= largeThreshold:
		nameColor = ui.ColorWarning
	}
	if e.Stale() {
		nameColor = ui.ColorMuted
	}

	maxName := m.width - barWidth - 30
	if maxName < 12 {
		maxName = 12
	}
	name := e.Name
	if e.IsDir {
		name += "/"
	}
	name = truncateName(name, maxName)
	nameStr := lipgloss.NewStyle().Foreground(nameColor).Bold(e.IsDir).Render(name)

	pctStr := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(fmt.Sprintf("%5.1f%%", pct))

	line := fmt.Sprintf("  %s  %s  %s  %s", bar, pctStr, nameStr, ui.FormatBytes(e.Size))

	if selected {
		cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render("▌")
		line = " " + cursor + line[2:]
		if m.confirmDelete {
			line += lipgloss.NewStyle().
				Foreground(ui.ColorDanger).
				Bold(true).
				Render("  " + ui.IconWarn + " Enter to delete")
		}
	}
	return line
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Browser) renderFooter() string {
	var parts []string
	if m.err != nil {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(ui.ColorDanger).
			Render("  "+ui.IconCross+" "+m.err.Error()))
	}
	if m.notice != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Render("  "+ui.IconWarn+" "+m.notice))
	}
	if m.largeOnly {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(ui.ColorWarning).
			Render("  >100 MiB filter on"))
	}
	hints := "↑↓ nav · → drill · ← back · ⌫ delete · L large · q quit"
	parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  "+hints))
	return strings.Join(parts, "\n")
}

// truncateName shortens a display name to max runes. Counting runes instead
// of bytes keeps multibyte names from being split into invalid UTF-8.
func truncateName(name string, max int) string {
	if utf8.RuneCountInString(name) <= max {
		return name
	}
	runes := []rune(name)
	return string(runes[:max-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
