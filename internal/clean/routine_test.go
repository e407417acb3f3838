package clean

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
	"github.com/lakshaymaurya-felt/linmole/internal/sizing"
)

func clearDirRoutine(dir string) Routine {
	return Routine{
		Name: "test",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			removed := sizing.PathSizeBytes(dir)
			exec.ClearDirectoryContents(dir)
			return removed, nil
		},
	}
}

func TestRunRoutineLiveClearsAndReports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk"), make([]byte, 4096), 0o644))

	env := &Env{DryRun: false}
	res := RunRoutine(env, clearDirRoutine(dir))

	assert.NoError(t, res.Err)
	assert.Greater(t, res.BytesRemoved, int64(0))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRoutineDryRunMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(junk, make([]byte, 4096), 0o644))

	before, err := sizing.CaptureUsedBytes()
	if err != nil {
		t.Skipf("no filesystem stats available: %v", err)
	}

	env := &Env{DryRun: true}
	res := RunRoutine(env, clearDirRoutine(dir))

	// The estimate is still computed...
	assert.Greater(t, res.BytesRemoved, int64(0))
	// ...but nothing moved: the file exists and usage didn't drop.
	assert.FileExists(t, junk)
	assert.Equal(t, int64(0), res.BytesFreed)
	assert.GreaterOrEqual(t, before.FreedSince(), int64(0))
}

func TestRunRoutineSnapshotFailureStopsBeforeMutating(t *testing.T) {
	orig := captureUsedBytes
	captureUsedBytes = func() (sizing.Snapshot, error) {
		return sizing.Snapshot{}, errors.New("no mounts readable")
	}
	t.Cleanup(func() { captureUsedBytes = orig })

	dir := t.TempDir()
	junk := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(junk, []byte("data"), 0o644))

	ran := false
	env := &Env{DryRun: false}
	res := RunRoutine(env, Routine{
		Name: "blocked",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			ran = true
			exec.DeleteFile(junk)
			return 4, nil
		},
	})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "no mounts readable")
	assert.False(t, ran, "routine must not run without a before snapshot")
	assert.FileExists(t, junk)
	assert.Zero(t, res.BytesRemoved)
}

func TestRunRoutineDryRunNeedsNoSnapshot(t *testing.T) {
	orig := captureUsedBytes
	captureUsedBytes = func() (sizing.Snapshot, error) {
		return sizing.Snapshot{}, errors.New("no mounts readable")
	}
	t.Cleanup(func() { captureUsedBytes = orig })

	env := &Env{DryRun: true}
	res := RunRoutine(env, Routine{
		Name: "estimate",
		Run: func(_ *Env, _ *fsops.Executor) (int64, error) {
			return 1234, nil
		},
	})

	assert.NoError(t, res.Err)
	assert.Equal(t, int64(1234), res.BytesRemoved)
	assert.Zero(t, res.BytesFreed)
}

func TestRunRoutineSurfacesExecutorWarnings(t *testing.T) {
	env := &Env{DryRun: false}
	res := RunRoutine(env, Routine{
		Name: "refused",
		Run: func(_ *Env, exec *fsops.Executor) (int64, error) {
			exec.DeleteFile("/etc")
			return 0, nil
		},
	})

	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "/etc")
}

func TestRunRoutineRecordsRoutineError(t *testing.T) {
	boom := errors.New("tool exploded")
	env := &Env{DryRun: false}
	res := RunRoutine(env, Routine{
		Name: "failing",
		Run: func(_ *Env, _ *fsops.Executor) (int64, error) {
			return 0, boom
		},
	})
	assert.ErrorIs(t, res.Err, boom)
}

func TestRunRoutineWarnsOnDelayedReclaim(t *testing.T) {
	// A routine claiming it removed bytes while the filesystem shows no drop
	// must say so explicitly instead of reporting a silent zero.
	if _, err := sizing.CaptureUsedBytes(); err != nil {
		t.Skipf("no filesystem stats available: %v", err)
	}
	env := &Env{DryRun: false}
	res := RunRoutine(env, Routine{
		Name: "phantom",
		Run: func(_ *Env, _ *fsops.Executor) (int64, error) {
			return 1 << 30, nil // claims a gigabyte, deletes nothing
		},
	})
	assert.Contains(t, res.Warnings, delayedReclaimWarning)
}

func TestDeepCleanContinuesPastFailures(t *testing.T) {
	// Routines() composes real targets; here we only check sequencing with a
	// local list, mirroring how DeepClean drives it.
	env := &Env{DryRun: true}
	rs := []Routine{
		{Name: "first", Run: func(_ *Env, _ *fsops.Executor) (int64, error) { return 0, errors.New("fail") }},
		{Name: "second", Run: func(_ *Env, _ *fsops.Executor) (int64, error) { return 42, nil }},
	}
	var results []Result
	for _, r := range rs {
		results = append(results, RunRoutine(env, r))
	}
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, int64(42), results[1].BytesRemoved)
}

func TestRoutinesIncludePackageCacheOnlyWithManager(t *testing.T) {
	without := Routines(&Env{})
	for _, r := range without {
		assert.NotEqual(t, "Package cache", r.Name)
	}
}
