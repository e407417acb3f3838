package clean

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
	"github.com/lakshaymaurya-felt/linmole/internal/paths"
	"github.com/lakshaymaurya-felt/linmole/internal/runner"
	"github.com/lakshaymaurya-felt/linmole/internal/sizing"
)

// rotatedLogPattern matches logrotate output: numbered rotations and
// compressed archives. Live logs (*.log) are deliberately absent — those are
// truncated only by the Docker routine, where the json-file naming makes the
// ownership unambiguous.
var rotatedLogPattern = fsops.Any{
	fsops.NameSuffix(".1"),
	fsops.NameSuffix(".old"),
	fsops.NameSuffix(".gz"),
	fsops.NameSuffix(".xz"),
}

// clearTargets empties the contents of each target directory, summing the
// size estimate first so dry-run still reports what it would touch.
func clearTargets(exec *fsops.Executor, targets []paths.CleanTarget) int64 {
	var removed int64
	for _, t := range targets {
		for _, dir := range t.Paths {
			removed += sizing.PathSizeBytes(dir)
			exec.ClearDirectoryContents(dir)
		}
	}
	return removed
}

// UserCaches clears per-user cache directories.
func UserCaches() Routine {
	return Routine{
		Name:        "User caches",
		Description: "Thumbnail cache, desktop trash",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			return clearTargets(exec, paths.TargetsByCategory("user")), nil
		},
	}
}

// DevCaches clears developer tool caches (pip, npm, go, cargo, composer).
func DevCaches() Routine {
	return Routine{
		Name:        "Developer caches",
		Description: "pip, npm, Go, cargo, composer caches",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			return clearTargets(exec, paths.TargetsByCategory("dev")), nil
		},
	}
}

// AgedTempFiles deletes files under /var/tmp and the crash-dump dirs that
// haven't been touched within the configured age.
func AgedTempFiles() Routine {
	return Routine{
		Name:        "Aged temp files",
		Description: "Old files in /var/tmp, crash dumps, core dumps",
		Run: func(env *Env, exec *fsops.Executor) (int64, error) {
			age := 7 * 24 * time.Hour
			if env.Cfg != nil {
				age = env.Cfg.TempFileMaxAge()
			}
			var removed int64
			for _, t := range paths.TargetsByCategory("system") {
				for _, dir := range t.Paths {
					removed += exec.DeleteMatching(dir, fsops.OlderThan(age))
				}
			}
			return removed, nil
		},
	}
}

// RotatedLogs truncates rotated and compressed logs under /var/log. The
// files stay in place so logrotate's bookkeeping and any open handles
// survive.
func RotatedLogs() Routine {
	return Routine{
		Name:        "Rotated logs",
		Description: "Truncate rotated and compressed logs in /var/log",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			return exec.TruncateMatching(paths.SystemLogDir, rotatedLogPattern), nil
		},
	}
}

// DockerLogs truncates container json logs. Truncation is mandatory here:
// the logging driver keeps the file open and deletion would orphan the
// descriptor without freeing anything.
func DockerLogs() Routine {
	return Routine{
		Name:        "Docker container logs",
		Description: "Truncate json-file logs under /var/lib/docker/containers",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			if _, err := os.Stat(paths.DockerContainersDir); os.IsNotExist(err) {
				return 0, nil
			}
			return exec.TruncateMatching(paths.DockerContainersDir, fsops.NameGlob("*-json.log")), nil
		},
	}
}

// JournalVacuum asks journald to drop entries older than the configured
// retention. The estimate is the journal directory's shrinkage, measured
// around the call, since journald does its own deletion.
func JournalVacuum() Routine {
	return Routine{
		Name:        "System journal",
		Description: "Vacuum journald entries past retention",
		Run: func(env *Env, exec *fsops.Executor) (int64, error) {
			retention := 7 * 24 * time.Hour
			if env.Cfg != nil {
				retention = env.Cfg.JournalVacuumAge()
			}
			days := int(retention / (24 * time.Hour))
			if days < 1 {
				days = 1
			}

			before := sizing.PathSizeBytes(paths.JournalDir)
			if exec.DryRun {
				// journald has no preview mode; report the journal size as
				// the upper bound of what vacuuming could touch.
				return before, nil
			}

			res, err := env.Runner.Run(2*time.Minute, "journalctl", "--vacuum-time="+strconv.Itoa(days)+"d")
			if err != nil {
				return 0, fmt.Errorf("journalctl: %w", err)
			}
			if res.Outcome == runner.TimedOut {
				return 0, fmt.Errorf("journalctl vacuum timed out")
			}
			if res.ExitCode != 0 {
				return 0, fmt.Errorf("journalctl exited %d", res.ExitCode)
			}

			after := sizing.PathSizeBytes(paths.JournalDir)
			if removed := before - after; removed > 0 {
				return removed, nil
			}
			return 0, nil
		},
	}
}

// PackageCache drops the package manager's download cache and autoremoves
// orphaned dependencies.
func PackageCache() Routine {
	return Routine{
		Name:        "Package cache",
		Description: "Package manager cache and orphaned dependencies",
		Run: func(env *Env, exec *fsops.Executor) (int64, error) {
			before := sizing.PathSizeBytes(env.Pkg.CachePath)
			if exec.DryRun {
				return before, nil
			}
			if err := env.Pkg.CleanCache(); err != nil {
				return 0, err
			}
			if err := env.Pkg.Autoremove(); err != nil {
				// Cache already cleaned; orphan removal failing is a
				// warning-grade problem, not a rollback.
				after := sizing.PathSizeBytes(env.Pkg.CachePath)
				return maxInt64(before-after, 0), err
			}
			after := sizing.PathSizeBytes(env.Pkg.CachePath)
			return maxInt64(before-after, 0), nil
		},
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
