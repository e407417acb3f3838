package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/linmole/internal/fsops"
)

func TestPurgeDeleteSkipsRefusedFilesInTotal(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(real, make([]byte, 100), 0o644))

	files := []bigFile{
		{path: "/etc", size: 1 << 20}, // guard refuses this
		{path: real, size: 100},
	}

	removed, warnings := purgeDelete(fsops.New(false, nil), files, func(bigFile) bool { return true })

	assert.Equal(t, int64(100), removed, "refused path must not count as removed")
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "/etc")
	assert.NoFileExists(t, real)
}

func TestPurgeDeleteDryRunDeletesNothing(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(real, make([]byte, 100), 0o644))

	removed, warnings := purgeDelete(fsops.New(true, nil), []bigFile{{path: real, size: 100}},
		func(bigFile) bool { return true })

	assert.Equal(t, int64(100), removed)
	assert.Empty(t, warnings)
	assert.FileExists(t, real)
}

func TestPurgeDeleteHonorsDeclines(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(real, make([]byte, 100), 0o644))

	removed, warnings := purgeDelete(fsops.New(false, nil), []bigFile{{path: real, size: 100}},
		func(bigFile) bool { return false })

	assert.Zero(t, removed)
	assert.Empty(t, warnings)
	assert.FileExists(t, real)
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"100MB", 100 << 20},
		{"1.5GB", 3 << 29},
		{"2GiB", 2 << 30},
		{"512", 512},
	}
	for _, c := range cases {
		got, err := parseSize(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}
