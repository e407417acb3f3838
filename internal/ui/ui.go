// Package ui holds the shared visual vocabulary: color tokens, icons, and
// byte formatting used across the menu, analyzer, and summaries.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color tokens. Components alias these rather than hardcoding hex values so
// the palette stays consistent.
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorCoral   = lipgloss.Color("#FF7F6E")
	ColorText    = lipgloss.Color("#DDDDDD")
	ColorMuted   = lipgloss.Color("#777777")
	ColorWarning = lipgloss.Color("#FFB454")
	ColorSuccess = lipgloss.Color("#73D216")
	ColorDanger  = lipgloss.Color("#E05561")
)

// Icons.
const (
	IconDiamond = "◆"
	IconCheck   = "✓"
	IconCross   = "✗"
	IconWarn    = "!"
	IconArrow   = "→"
)

// FormatBytes renders a byte count in human units (binary, matching df -h).
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
