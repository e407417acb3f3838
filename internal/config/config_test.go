package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	s := LoadFrom(filepath.Join(t.TempDir(), "nope.ini"))

	assert.False(t, s.DryRun())
	assert.Equal(t, int64(500*1024*1024), s.BigFileMinBytes())
	assert.Equal(t, 7*24*time.Hour, s.TempFileMaxAge())
	assert.True(t, s.LastUpdateCheck().IsZero())
}

func TestReadsConfiguredValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := "[clean]\ndry_run = true\nbig_file_min_bytes = 1048576\ntemp_file_max_age_days = 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := LoadFrom(path)
	assert.True(t, s.DryRun())
	assert.Equal(t, int64(1048576), s.BigFileMinBytes())
	assert.Equal(t, 3*24*time.Hour, s.TempFileMaxAge())
}

func TestLastUpdateCheckRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	s := LoadFrom(path)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLastUpdateCheck(ts))

	reloaded := LoadFrom(path)
	assert.Equal(t, ts.Unix(), reloaded.LastUpdateCheck().Unix())
}
