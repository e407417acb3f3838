// Package paths is the catalog of cleanable locations on a Linux host. The
// cleanup routines consume these; the destructive layer still guards every
// one of them individually.
package paths

import (
	"os"
	"path/filepath"
)

// CleanTarget represents a category of files that can be cleaned.
type CleanTarget struct {
	// Name is the unique identifier for this target.
	Name string

	// Paths is the list of directories whose contents are cleaned.
	Paths []string

	// Description is a human-readable description.
	Description string

	// RequiresRoot indicates whether elevated privileges are needed.
	RequiresRoot bool

	// Category groups related targets (e.g., "user", "system", "dev").
	Category string

	// RiskLevel is one of "low", "medium", "high".
	RiskLevel string
}

func home() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "/root"
	}
	return h
}

// cacheDir returns ~/.cache or $XDG_CACHE_HOME.
func cacheDir() string {
	if d := os.Getenv("XDG_CACHE_HOME"); d != "" {
		return d
	}
	return filepath.Join(home(), ".cache")
}

// CleanTargets returns all cleanup targets with paths expanded for the
// current user.
func CleanTargets() []CleanTarget {
	h := home()
	cache := cacheDir()

	return []CleanTarget{
		// ── User caches ─────────────────────────────────────────
		{
			Name:         "ThumbnailCache",
			Paths:        []string{filepath.Join(cache, "thumbnails")},
			Description:  "Desktop thumbnail cache (rebuilds automatically)",
			RequiresRoot: false,
			Category:     "user",
			RiskLevel:    "low",
		},
		{
			Name:         "UserTrash",
			Paths:        []string{filepath.Join(h, ".local", "share", "Trash", "files"), filepath.Join(h, ".local", "share", "Trash", "info")},
			Description:  "Desktop trash contents",
			RequiresRoot: false,
			Category:     "user",
			RiskLevel:    "medium",
		},

		// ── Developer caches ────────────────────────────────────
		{
			Name:         "PipCache",
			Paths:        []string{filepath.Join(cache, "pip")},
			Description:  "Python pip download cache",
			RequiresRoot: false,
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "NpmCache",
			Paths:        []string{filepath.Join(h, ".npm", "_cacache")},
			Description:  "npm package manager cache",
			RequiresRoot: false,
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "GoBuildCache",
			Paths:        []string{filepath.Join(cache, "go-build")},
			Description:  "Go build cache",
			RequiresRoot: false,
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "CargoRegistryCache",
			Paths:        []string{filepath.Join(h, ".cargo", "registry", "cache")},
			Description:  "Rust cargo registry cache",
			RequiresRoot: false,
			Category:     "dev",
			RiskLevel:    "low",
		},
		{
			Name:         "ComposerCache",
			Paths:        []string{filepath.Join(cache, "composer")},
			Description:  "PHP composer cache",
			RequiresRoot: false,
			Category:     "dev",
			RiskLevel:    "low",
		},

		// ── System ──────────────────────────────────────────────
		{
			Name:         "VarTmp",
			Paths:        []string{"/var/tmp"},
			Description:  "Aged files under /var/tmp",
			RequiresRoot: true,
			Category:     "system",
			RiskLevel:    "low",
		},
		{
			Name:         "CrashDumps",
			Paths:        []string{"/var/crash"},
			Description:  "Crash dump reports",
			RequiresRoot: true,
			Category:     "system",
			RiskLevel:    "low",
		},
		{
			Name:         "SystemdCoredumps",
			Paths:        []string{"/var/lib/systemd/coredump"},
			Description:  "systemd core dumps",
			RequiresRoot: true,
			Category:     "system",
			RiskLevel:    "low",
		},
	}
}

// TargetsByCategory returns clean targets filtered by category.
func TargetsByCategory(category string) []CleanTarget {
	var result []CleanTarget
	for _, t := range CleanTargets() {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result
}

// Well-known locations the routines reference directly.
const (
	SystemLogDir        = "/var/log"
	JournalDir          = "/var/log/journal"
	DockerContainersDir = "/var/lib/docker/containers"
)
