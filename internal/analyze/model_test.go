package analyze

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteEntryDryRunLeavesFileInPlace(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim.bin")
	require.NoError(t, os.WriteFile(victim, []byte("data"), 0o644))

	msg := deleteEntry(&Entry{Path: victim, Size: 4}, true)()
	done, ok := msg.(deleteDoneMsg)
	require.True(t, ok)

	assert.NoError(t, done.err)
	assert.True(t, done.dryRun)
	assert.FileExists(t, victim)
}

func TestDeleteEntryLiveRemovesFile(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim.bin")
	require.NoError(t, os.WriteFile(victim, []byte("data"), 0o644))

	msg := deleteEntry(&Entry{Path: victim, Size: 4}, false)()
	done, ok := msg.(deleteDoneMsg)
	require.True(t, ok)

	assert.NoError(t, done.err)
	assert.Equal(t, int64(4), done.freed)
	assert.NoFileExists(t, victim)
}

func TestDeleteEntryRefusesProtectedPath(t *testing.T) {
	msg := deleteEntry(&Entry{Path: "/etc", Size: 1}, false)()
	done, ok := msg.(deleteDoneMsg)
	require.True(t, ok)

	require.Error(t, done.err)
	assert.Contains(t, done.err.Error(), "/etc")
}

func TestBrowserDryRunDeleteKeepsEntryListed(t *testing.T) {
	child := &Entry{Path: "/tmp/x/big", Name: "big", Size: 10}
	root := &Entry{Path: "/tmp/x", Name: "x", IsDir: true, Size: 10, Children: []*Entry{child}}

	m := NewBrowser(root, false, true)
	updated, _ := m.Update(deleteDoneMsg{path: child.Path, dryRun: true})
	b := updated.(Browser)

	require.Len(t, b.current.Children, 1)
	assert.Contains(t, b.notice, "would delete")
}

func TestTruncateNameIsRuneSafe(t *testing.T) {
	name := "ファイル名がとても長いディレクトリ"
	got := truncateName(name, 8)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 8, utf8.RuneCountInString(got))

	short := "ok.txt"
	assert.Equal(t, short, truncateName(short, 12))
}
