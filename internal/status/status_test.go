package status

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderShowsEveryFilesystem(t *testing.T) {
	r := &Report{
		Hostname: "box",
		Platform: "debian 13",
		Uptime:   36 * time.Hour,
		MemTotal: 16 << 30,
		MemUsed:  8 << 30,
		Filesystems: []Filesystem{
			{Mountpoint: "/", Fstype: "ext4", TotalBytes: 100 << 30, UsedBytes: 40 << 30, UsedPercent: 40},
			{Mountpoint: "/data", Fstype: "xfs", TotalBytes: 500 << 30, UsedBytes: 475 << 30, UsedPercent: 95},
		},
	}
	out := Render(r)
	assert.Contains(t, out, "/data")
	assert.Contains(t, out, "ext4")
	assert.Contains(t, out, "box")
	assert.Contains(t, out, "1d 12h")
}

func TestRenderEmptyReport(t *testing.T) {
	out := Render(&Report{})
	assert.Contains(t, out, "No filesystems")
}

func TestUsageBarClampsOutOfRange(t *testing.T) {
	assert.NotPanics(t, func() {
		usageBar(-5)
		usageBar(150)
	})
	full := usageBar(100)
	assert.Equal(t, barWidth, strings.Count(full, "█"))
	assert.Equal(t, 0, strings.Count(full, "░"))
}

func TestPseudoFilesystemsAreExcludedTypes(t *testing.T) {
	for _, fstype := range []string{"proc", "tmpfs", "overlay", "squashfs", "cgroup2"} {
		assert.True(t, pseudoFstypes[fstype], fstype)
	}
	assert.False(t, pseudoFstypes["ext4"])
	assert.False(t, pseudoFstypes["xfs"])
	assert.False(t, pseudoFstypes["btrfs"])
}
