package update

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicInstallReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "new")
	target := filepath.Join(dir, "lm")
	require.NoError(t, os.WriteFile(source, []byte("new contents"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("old contents"), 0o755))

	require.NoError(t, AtomicInstall(source, target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestAtomicInstallFreshTarget(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "new")
	target := filepath.Join(dir, "bin", "lm")
	require.NoError(t, os.WriteFile(source, []byte("payload"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))

	require.NoError(t, AtomicInstall(source, target))
	assert.FileExists(t, target)
}

func TestAtomicInstallOverItselfIsNoOp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lm")
	require.NoError(t, os.WriteFile(target, []byte("self"), 0o644))

	require.NoError(t, AtomicInstall(target, target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "self", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "exec bit is ensured")
}

func TestAtomicInstallSymlinkedTargetIsSameFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lm")
	link := filepath.Join(dir, "lm-link")
	require.NoError(t, os.WriteFile(target, []byte("self"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, AtomicInstall(link, target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "self", string(data))
}

func TestAtomicInstallMissingSourceLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lm")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	err := AtomicInstall(filepath.Join(dir, "no-such-source"), target)
	assert.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestAtomicInstallStagingFailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "new")
	require.NoError(t, os.WriteFile(source, []byte("new"), 0o644))

	// Target directory does not exist: staging fails before any mutation.
	target := filepath.Join(dir, "missing-dir", "lm")
	err := AtomicInstall(source, target)
	assert.Error(t, err)
	assert.NoFileExists(t, target)

	// No staged temp files left behind anywhere in dir.
	var leftovers []string
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && path != source {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	assert.Empty(t, leftovers)
}

func TestAtomicInstallLeavesNoStageFileOnRenameTarget(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "new")
	target := filepath.Join(dir, "lm")
	require.NoError(t, os.WriteFile(source, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, AtomicInstall(source, target))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // source and target only
}
