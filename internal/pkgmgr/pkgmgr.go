// Package pkgmgr identifies the system package manager and exposes the two
// cleanup verbs the cleaner needs: dropping the download cache and removing
// orphaned dependencies. The cleanup core only accounts for sizes around
// these calls; which commands run is decided here.
package pkgmgr

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/lakshaymaurya-felt/linmole/internal/runner"
)

// opTimeout bounds a package-manager invocation. Generous: dnf metadata
// cleanup on a cold cache can take minutes, but it must not hang forever.
const opTimeout = 10 * time.Minute

// Manager is the detected package manager and its cleanup verbs.
type Manager struct {
	// Name is the package-manager identifier (apt, dnf, ...).
	Name string

	// CachePath is the download cache directory, for size accounting.
	CachePath string

	cleanArgs      [][]string
	autoremoveArgs [][]string

	run *runner.Runner
}

// known lists supported package managers in probe order. The probe binary is
// what LookPath checks; multi-command verbs run in sequence.
var known = []Manager{
	{
		Name:      "apt",
		CachePath: "/var/cache/apt/archives",
		cleanArgs: [][]string{{"apt-get", "clean"}},
		autoremoveArgs: [][]string{
			{"apt-get", "autoremove", "-y"},
		},
	},
	{
		Name:      "dnf",
		CachePath: "/var/cache/dnf",
		cleanArgs: [][]string{{"dnf", "clean", "all"}},
		autoremoveArgs: [][]string{
			{"dnf", "autoremove", "-y"},
		},
	},
	{
		Name:      "yum",
		CachePath: "/var/cache/yum",
		cleanArgs: [][]string{{"yum", "clean", "all"}},
		autoremoveArgs: [][]string{
			{"yum", "autoremove", "-y"},
		},
	},
	{
		Name:      "pacman",
		CachePath: "/var/cache/pacman/pkg",
		cleanArgs: [][]string{{"pacman", "-Sc", "--noconfirm"}},
		autoremoveArgs: [][]string{
			// pacman has no single autoremove verb; orphan removal needs a
			// pipeline the operator should drive. Cache cleanup only.
		},
	},
	{
		Name:      "zypper",
		CachePath: "/var/cache/zypp/packages",
		cleanArgs: [][]string{{"zypper", "clean", "--all"}},
	},
	{
		Name:      "apk",
		CachePath: "/var/cache/apk",
		cleanArgs: [][]string{{"apk", "cache", "clean"}},
	},
}

// probeBinary maps manager name to the binary whose presence identifies it.
var probeBinary = map[string]string{
	"apt":    "apt-get",
	"dnf":    "dnf",
	"yum":    "yum",
	"pacman": "pacman",
	"zypper": "zypper",
	"apk":    "apk",
}

// Detect probes PATH for a supported package manager. No package manager at
// all is an error; callers skip the package-cache routine in that case.
func Detect(run *runner.Runner) (*Manager, error) {
	for _, m := range known {
		if _, err := exec.LookPath(probeBinary[m.Name]); err == nil {
			found := m
			found.run = run
			return &found, nil
		}
	}
	return nil, fmt.Errorf("no supported package manager found")
}

// CleanCache drops the package download cache. A non-zero exit is returned
// as an error for the caller to surface as a warning; the enclosing sequence
// continues.
func (m *Manager) CleanCache() error {
	return m.runAll(m.cleanArgs)
}

// Autoremove removes orphaned dependency packages, when the manager has such
// a verb.
func (m *Manager) Autoremove() error {
	if len(m.autoremoveArgs) == 0 {
		return nil
	}
	return m.runAll(m.autoremoveArgs)
}

func (m *Manager) runAll(cmds [][]string) error {
	for _, argv := range cmds {
		res, err := m.run.Run(opTimeout, argv...)
		if err != nil {
			return fmt.Errorf("%s: %w", argv[0], err)
		}
		if res.Outcome == runner.TimedOut {
			return fmt.Errorf("%s timed out", argv[0])
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("%s exited %d", argv[0], res.ExitCode)
		}
	}
	return nil
}
