// Package fsops performs the destructive filesystem operations behind every
// cleanup routine. Each operation consults the path guard before touching
// anything, honors dry-run mode, and records refusals and recoverable
// failures as warnings instead of aborting the enclosing sequence.
package fsops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/linmole/internal/guard"
)

// Executor performs guarded delete/clear/truncate operations. DryRun is an
// explicit field rather than package state so preview and live behavior are
// independently testable per call.
type Executor struct {
	DryRun bool

	log      logrus.FieldLogger
	warnings []string
}

// New returns an Executor. log may be nil when the caller has no diagnostic
// channel (tests, one-shot helpers).
func New(dryRun bool, log logrus.FieldLogger) *Executor {
	return &Executor{DryRun: dryRun, log: log}
}

// Warnings returns refusals and recoverable failures in the order they
// occurred. The slice is drained so each routine reports only its own.
func (e *Executor) Warnings() []string {
	w := e.warnings
	e.warnings = nil
	return w
}

func (e *Executor) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.warnings = append(e.warnings, msg)
	if e.log != nil {
		e.log.Warn(msg)
	}
}

func (e *Executor) debugf(format string, args ...any) {
	if e.log != nil {
		e.log.Debugf(format, args...)
	}
}

// DeleteFile removes a single file or empty directory. A protected target is
// refused with a warning; a missing target is success — every destructive
// operation is safe to invoke twice.
func (e *Executor) DeleteFile(path string) {
	if !guard.IsSafe(path) {
		e.warnf("refusing to delete protected path %s", path)
		return
	}
	if e.DryRun {
		e.debugf("dry-run: would delete %s", path)
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.warnf("delete %s: %v", path, err)
	}
}

// DeleteTree removes a file or directory tree. Same guard and dry-run
// semantics as DeleteFile; used for cache directories that are recreated by
// their owners.
func (e *Executor) DeleteTree(path string) {
	if !guard.IsSafe(path) {
		e.warnf("refusing to delete protected path %s", path)
		return
	}
	if e.DryRun {
		e.debugf("dry-run: would delete tree %s", path)
		return
	}
	if err := os.RemoveAll(path); err != nil {
		e.warnf("delete %s: %v", path, err)
	}
}

// ClearDirectoryContents removes every entry strictly inside dir, leaving
// dir itself intact. A missing dir is not an error. Entries are removed
// recursively; symlinked entries are unlinked, never followed.
func (e *Executor) ClearDirectoryContents(dir string) {
	if !guard.IsSafe(dir) {
		e.warnf("refusing to clear protected path %s", dir)
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.warnf("clear %s: %v", dir, err)
		}
		return
	}
	if e.DryRun {
		e.debugf("dry-run: would clear %d entries from %s", len(entries), dir)
		return
	}
	for _, ent := range entries {
		p := filepath.Join(dir, ent.Name())
		if err := os.RemoveAll(p); err != nil {
			e.warnf("clear %s: %v", p, err)
		}
	}
}

// TruncateMatching truncates to zero length every regular file under dir
// that satisfies match, and returns the sum of their pre-truncation sizes.
// Truncation rather than deletion preserves open file handles held by
// running processes — log writers and Docker's json-file driver keep their
// descriptor and simply continue at offset zero.
//
// Under dry-run the sizes are still summed and returned but nothing is
// touched. A missing dir yields zero.
func (e *Executor) TruncateMatching(dir string, match Predicate) int64 {
	if !guard.IsSafe(dir) {
		e.warnf("refusing to truncate under protected path %s", dir)
		return 0
	}

	var total int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree or missing root: skip, don't fail.
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !match.Matches(d.Name(), info) {
			return nil
		}
		if e.DryRun {
			total += info.Size()
			return nil
		}
		if err := os.Truncate(path, 0); err != nil {
			e.warnf("truncate %s: %v", path, err)
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

// DeleteMatching removes every regular file under dir that satisfies match
// and returns the sum of their pre-deletion sizes. Used for aged temp files
// and similar expendable content where truncation has no benefit.
func (e *Executor) DeleteMatching(dir string, match Predicate) int64 {
	if !guard.IsSafe(dir) {
		e.warnf("refusing to delete under protected path %s", dir)
		return 0
	}

	var total int64
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !match.Matches(d.Name(), info) {
			return nil
		}
		if e.DryRun {
			total += info.Size()
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.warnf("delete %s: %v", path, err)
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}
