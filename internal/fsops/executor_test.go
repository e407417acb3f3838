package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func TestDeleteFileRemovesFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "junk.tmp")
	writeFile(t, f, "junk")

	e := New(false, nil)
	e.DeleteFile(f)

	assert.NoFileExists(t, f)
	assert.Empty(t, e.Warnings())
}

func TestDeleteFileMissingIsNotAnError(t *testing.T) {
	e := New(false, nil)
	e.DeleteFile(filepath.Join(t.TempDir(), "already-gone"))
	assert.Empty(t, e.Warnings())
}

func TestDeleteFileRefusesProtectedPath(t *testing.T) {
	e := New(false, nil)
	e.DeleteFile("/etc")

	warnings := e.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "/etc")
	assert.DirExists(t, "/etc")
}

func TestDeleteFileDryRunLeavesFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "junk.tmp")
	writeFile(t, f, "junk")

	e := New(true, nil)
	e.DeleteFile(f)

	assert.FileExists(t, f)
}

func TestClearDirectoryContentsKeepsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "a")
	writeFile(t, filepath.Join(dir, "b"), "bb")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "deep"), 0o755))
	writeFile(t, filepath.Join(dir, "sub", "deep", "c"), "ccc")

	e := New(false, nil)
	e.ClearDirectoryContents(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.DirExists(t, dir)
}

func TestClearDirectoryContentsMissingDirIsNotAnError(t *testing.T) {
	e := New(false, nil)
	e.ClearDirectoryContents(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, e.Warnings())
}

func TestClearDirectoryContentsDryRunLeavesEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "a")

	e := New(true, nil)
	e.ClearDirectoryContents(dir)

	assert.FileExists(t, filepath.Join(dir, "a"))
}

func TestClearDirectoryContentsRefusesProtectedPath(t *testing.T) {
	e := New(false, nil)
	e.ClearDirectoryContents("/var")

	warnings := e.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "protected")
}

func TestTruncateMatchingContainerLogs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-json.log"), "aaaaa")     // 5 bytes
	writeFile(t, filepath.Join(dir, "b-json.log"), "bbbbbbbbb") // 9 bytes
	writeFile(t, filepath.Join(dir, "c.txt"), "cccccc")         // 6 bytes

	e := New(false, nil)
	got := e.TruncateMatching(dir, NameGlob("*-json.log"))

	assert.Equal(t, int64(14), got)
	assert.Equal(t, int64(0), fileSize(t, filepath.Join(dir, "a-json.log")))
	assert.Equal(t, int64(0), fileSize(t, filepath.Join(dir, "b-json.log")))
	assert.Equal(t, int64(6), fileSize(t, filepath.Join(dir, "c.txt")))
}

func TestTruncateMatchingKeepsFilesInPlace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.log.1"), "0123456789")

	e := New(false, nil)
	got := e.TruncateMatching(dir, NameSuffix(".1"))

	assert.Equal(t, int64(10), got)
	// Truncated, not deleted: the path survives for open handles.
	assert.FileExists(t, filepath.Join(dir, "app.log.1"))
	assert.Equal(t, int64(0), fileSize(t, filepath.Join(dir, "app.log.1")))
}

func TestTruncateMatchingDryRunSumsWithoutTruncating(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-json.log"), "aaaaa")

	e := New(true, nil)
	got := e.TruncateMatching(dir, NameGlob("*-json.log"))

	assert.Equal(t, int64(5), got)
	assert.Equal(t, int64(5), fileSize(t, filepath.Join(dir, "a-json.log")))
}

func TestTruncateMatchingMissingDirYieldsZero(t *testing.T) {
	e := New(false, nil)
	got := e.TruncateMatching(filepath.Join(t.TempDir(), "nope"), NameSuffix(".log"))
	assert.Equal(t, int64(0), got)
}

func TestDeleteMatchingRemovesOnlyMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.bin"), "0123456789") // 10 bytes
	writeFile(t, filepath.Join(dir, "small.bin"), "01")       // 2 bytes

	e := New(false, nil)
	got := e.DeleteMatching(dir, MinSize(5))

	assert.Equal(t, int64(10), got)
	assert.NoFileExists(t, filepath.Join(dir, "big.bin"))
	assert.FileExists(t, filepath.Join(dir, "small.bin"))
}

func TestWarningsAreDrained(t *testing.T) {
	e := New(false, nil)
	e.DeleteFile("/usr")
	require.Len(t, e.Warnings(), 1)
	assert.Empty(t, e.Warnings())
}
