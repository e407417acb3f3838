// Package status collects and renders a one-shot system overview focused on
// disk usage: every real filesystem with a usage bar, plus memory and uptime
// context lines.
package status

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/lakshaymaurya-felt/linmole/internal/ui"
)

// Filesystem is one mounted real filesystem.
type Filesystem struct {
	Mountpoint  string
	Device      string
	Fstype      string
	TotalBytes  uint64
	UsedBytes   uint64
	UsedPercent float64
}

// Report is a point-in-time system snapshot.
type Report struct {
	Hostname    string
	Platform    string
	Uptime      time.Duration
	MemTotal    uint64
	MemUsed     uint64
	MemPercent  float64
	Filesystems []Filesystem
}

// pseudoFstypes mirrors the exclusions used for size accounting: virtual
// filesystems whose usage numbers say nothing about the disk.
var pseudoFstypes = map[string]bool{
	"proc": true, "sysfs": true, "devtmpfs": true, "devpts": true,
	"tmpfs": true, "cgroup": true, "cgroup2": true, "overlay": true,
	"squashfs": true, "ramfs": true, "debugfs": true, "tracefs": true,
	"securityfs": true, "fusectl": true, "pstore": true, "bpf": true,
	"autofs": true, "mqueue": true, "hugetlbfs": true, "configfs": true,
}

// Collect gathers the report. Per-mount stat failures are skipped; only a
// total inability to enumerate mounts is an error.
func Collect() (*Report, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}

	r := &Report{}

	if info, err := host.Info(); err == nil {
		r.Hostname = info.Hostname
		r.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		r.Uptime = time.Duration(info.Uptime) * time.Second
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.MemTotal = vm.Total
		r.MemUsed = vm.Used
		r.MemPercent = vm.UsedPercent
	}

	seen := map[string]bool{}
	for _, p := range parts {
		if pseudoFstypes[p.Fstype] || seen[p.Device] {
			continue
		}
		u, err := disk.Usage(p.Mountpoint)
		if err != nil || u.Total == 0 {
			continue
		}
		seen[p.Device] = true
		r.Filesystems = append(r.Filesystems, Filesystem{
			Mountpoint:  p.Mountpoint,
			Device:      p.Device,
			Fstype:      p.Fstype,
			TotalBytes:  u.Total,
			UsedBytes:   u.Used,
			UsedPercent: u.UsedPercent,
		})
	}
	sort.Slice(r.Filesystems, func(i, j int) bool {
		return r.Filesystems[i].Mountpoint < r.Filesystems[j].Mountpoint
	})
	return r, nil
}

// ─── Rendering ───────────────────────────────────────────────────────────────

const barWidth = 24

// Render formats the report for terminal output.
func Render(r *Report) string {
	var s strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	dim := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	s.WriteString(title.Render("  " + ui.IconDiamond + " System Status"))
	s.WriteString("\n")
	if r.Hostname != "" {
		s.WriteString(dim.Render(fmt.Sprintf("  %s · %s · up %s", r.Hostname, r.Platform, formatUptime(r.Uptime))))
		s.WriteString("\n")
	}
	if r.MemTotal > 0 {
		s.WriteString(fmt.Sprintf("  Memory  %s  %s / %s\n",
			usageBar(r.MemPercent),
			ui.FormatBytes(int64(r.MemUsed)),
			ui.FormatBytes(int64(r.MemTotal))))
	}
	s.WriteString("\n")

	if len(r.Filesystems) == 0 {
		s.WriteString(dim.Render("  No filesystems found.\n"))
		return s.String()
	}

	width := 0
	for _, fs := range r.Filesystems {
		if len(fs.Mountpoint) > width {
			width = len(fs.Mountpoint)
		}
	}
	for _, fs := range r.Filesystems {
		s.WriteString(fmt.Sprintf("  %-*s  %s %5.1f%%  %s / %s  %s\n",
			width, fs.Mountpoint,
			usageBar(fs.UsedPercent),
			fs.UsedPercent,
			ui.FormatBytes(int64(fs.UsedBytes)),
			ui.FormatBytes(int64(fs.TotalBytes)),
			dim.Render(fs.Fstype)))
	}
	return s.String()
}

// usageBar renders a colored fill bar; the color shifts with pressure.
func usageBar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)

	color := ui.ColorSuccess
	switch {
	case pct >= 90:
		color = ui.ColorDanger
	case pct >= 75:
		color = ui.ColorWarning
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(strings.Repeat("░", barWidth-filled))
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh %dm", hours, int(d.Minutes())%60)
}
