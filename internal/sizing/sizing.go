// Package sizing measures disk usage: per-path sizes for the "bytes removed"
// estimate and whole-filesystem snapshots for the "bytes freed" ground truth.
// The two numbers legitimately diverge (open file handles, deferred block
// reclamation), which is why both exist.
package sizing

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
)

// Snapshot is the total used bytes across all mounted real filesystems at a
// point in time. Immutable once captured; used only for delta computation.
type Snapshot struct {
	UsedBytes int64
	Taken     time.Time
}

// pseudoFSTypes never hold reclaimable disk blocks.
var pseudoFSTypes = map[string]bool{
	"proc":        true,
	"procfs":      true,
	"sysfs":       true,
	"devfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"tmpfs":       true,
	"ramfs":       true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"tracefs":     true,
	"configfs":    true,
	"fusectl":     true,
	"mqueue":      true,
	"hugetlbfs":   true,
	"binfmt_misc": true,
	"bpf":         true,
	"nsfs":        true,
	"autofs":      true,
	"squashfs":    true,
}

// pseudoMountPrefixes are mount trees that only ever contain pseudo or
// ephemeral filesystems.
var pseudoMountPrefixes = []string{"/proc", "/sys", "/dev", "/run"}

// allocatedSize returns the on-disk footprint of a file. Backends that
// expose block counts are exact to 512-byte granularity; otherwise the
// apparent size is rounded up to whole KiB so both report in bytes.
func allocatedSize(info fs.FileInfo) int64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return st.Blocks * 512
	}
	const kib = 1024
	return (info.Size() + kib - 1) / kib * kib
}

// PathSizeBytes returns the disk usage of a file or a directory tree in
// bytes. A missing path is 0. Symlinks are counted as themselves, never
// followed.
func PathSizeBytes(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return allocatedSize(info)
	}

	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += allocatedSize(fi)
		}
		return nil
	})
	return total
}

// MatchingFilesSizeBytes sums the apparent sizes of regular files under dir
// that satisfy match; 0 for no matches or a missing dir. Apparent sizes line
// up with what TruncateMatching will report as bytes removed.
func MatchingFilesSizeBytes(dir string, match fsops.Predicate) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if match.Matches(d.Name(), info) {
			total += info.Size()
		}
		return nil
	})
	return total
}

// countablePartition reports whether a mount contributes real, not-yet-counted
// disk blocks. Pseudo filesystems are skipped, as are container overlay
// mounts and anything under the docker backing store — those are views of
// blocks already counted through the filesystem holding /var.
func countablePartition(p disk.PartitionStat) bool {
	if pseudoFSTypes[strings.ToLower(p.Fstype)] {
		return false
	}
	for _, prefix := range pseudoMountPrefixes {
		if p.Mountpoint == prefix || strings.HasPrefix(p.Mountpoint, prefix+"/") {
			return false
		}
	}
	if p.Fstype == "overlay" || strings.HasPrefix(p.Mountpoint, "/var/lib/docker/") {
		return false
	}
	return true
}

// CaptureUsedBytes sums used bytes across all mounted real filesystems.
// Bind mounts repeat their device and are counted once. An error here means
// no usable size measurement exists at all and the caller cannot report
// freed space truthfully.
func CaptureUsedBytes() (Snapshot, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return Snapshot{}, err
	}

	seen := make(map[string]bool, len(parts))
	var total int64
	for _, p := range parts {
		if !countablePartition(p) {
			continue
		}
		if seen[p.Device] {
			continue
		}
		seen[p.Device] = true

		u, err := disk.Usage(p.Mountpoint)
		if err != nil {
			// A single unreadable mount (stale NFS, fuse without access)
			// must not sink the whole snapshot.
			continue
		}
		total += int64(u.Used)
	}
	return Snapshot{UsedBytes: total, Taken: time.Now()}, nil
}

// FreedSince returns the drop in filesystem usage since the snapshot was
// taken, floored at zero: usage can rise mid-operation (a log write landing
// between snapshots) and a negative "freed" number would only mislead.
func (s Snapshot) FreedSince() int64 {
	now, err := CaptureUsedBytes()
	if err != nil {
		return 0
	}
	freed := s.UsedBytes - now.UsedBytes
	if freed < 0 {
		return 0
	}
	return freed
}
