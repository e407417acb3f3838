// Package clean composes the safety substrate into user-facing cleanup
// routines. Every routine follows the same discipline: capture a filesystem
// snapshot, mutate through the guarded executor, re-measure, and report both
// the file-size estimate and the filesystem-level truth.
package clean

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
	"github.com/lakshaymaurya-felt/linmole/internal/pkgmgr"
	"github.com/lakshaymaurya-felt/linmole/internal/runner"
	"github.com/lakshaymaurya-felt/linmole/internal/sizing"
)

// Env carries the collaborators each routine composes. Pkg may be nil when
// no supported package manager exists.
type Env struct {
	DryRun bool
	Runner *runner.Runner
	Pkg    *pkgmgr.Manager
	Cfg    *config.Store
	Log    logrus.FieldLogger
}

// Routine is one step of a cleanup sequence. Run performs the mutations
// through exec and returns the bytes-removed estimate.
type Routine struct {
	Name        string
	Description string
	Run         func(env *Env, exec *fsops.Executor) (int64, error)
}

// Result is the user-facing outcome of one routine. BytesRemoved is the
// estimate summed from file sizes before mutation; BytesFreed is the
// observed drop in filesystem usage. They diverge legitimately — open file
// handles, reserved blocks, copy-on-write backends — and both are surfaced.
type Result struct {
	Name         string
	BytesRemoved int64
	BytesFreed   int64
	Warnings     []string
	Err          error
}

// delayedReclaimWarning is emitted when files were removed but the
// filesystem hasn't released the blocks yet.
const delayedReclaimWarning = "space not reclaimed yet: the filesystem may release blocks later (open file handles or deferred reclamation)"

// captureUsedBytes is swappable so tests can exercise the no-measurement
// path without unmounting the test machine's filesystems.
var captureUsedBytes = sizing.CaptureUsedBytes

// RunRoutine executes one routine under the snapshot discipline: the before
// snapshot strictly precedes all mutations, which strictly precede the after
// measurement. Guard refusals and tool failures surface as warnings on the
// result. A failed snapshot terminates the routine before any mutation —
// without a usable size measurement the freed-space report would be a lie.
// Dry-run skips the snapshot entirely since nothing will move.
func RunRoutine(env *Env, r Routine) Result {
	res := Result{Name: r.Name}
	exec := fsops.New(env.DryRun, env.Log)

	if env.DryRun {
		res.BytesRemoved, res.Err = r.Run(env, exec)
		res.Warnings = exec.Warnings()
		return res
	}

	snap, err := captureUsedBytes()
	if err != nil {
		if env.Log != nil {
			env.Log.WithError(err).Error("cannot measure filesystem usage")
		}
		res.Err = fmt.Errorf("cannot measure filesystem usage: %w", err)
		return res
	}

	res.BytesRemoved, res.Err = r.Run(env, exec)
	res.Warnings = exec.Warnings()

	res.BytesFreed = snap.FreedSince()
	if res.BytesRemoved > 0 && res.BytesFreed == 0 {
		res.Warnings = append(res.Warnings, delayedReclaimWarning)
	}
	return res
}

// Routines returns the full deep-clean sequence in execution order.
func Routines(env *Env) []Routine {
	rs := []Routine{
		UserCaches(),
		DevCaches(),
		AgedTempFiles(),
		RotatedLogs(),
		DockerLogs(),
		JournalVacuum(),
	}
	if env.Pkg != nil {
		rs = append(rs, PackageCache())
	}
	return rs
}

// DeepClean runs every routine in order. A failing routine is recorded and
// the sequence continues; partial progress is normal, silent partial success
// is not.
func DeepClean(env *Env) []Result {
	var results []Result
	for _, r := range Routines(env) {
		results = append(results, RunRoutine(env, r))
	}
	return results
}
