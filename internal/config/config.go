// Package config reads and persists user settings from the ini file at
// ~/.config/linmole/config.ini. The cleanup core consumes these as
// already-validated typed values; nothing else reads the file directly.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/ini.v1"
)

const (
	defaultBigFileMinBytes  = 500 * 1024 * 1024
	defaultTempFileMaxAge   = 7 * 24 * time.Hour
	defaultJournalVacuumAge = 7 * 24 * time.Hour
)

// Store is the loaded settings file.
type Store struct {
	path string
	file *ini.File
}

// Path returns the config file location, honoring XDG conventions.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "linmole", "config.ini")
}

// Load reads the settings file. A missing file is an empty store with
// defaults; it is only written to disk once a value is persisted.
func Load() *Store {
	path := Path()
	file, err := ini.Load(path)
	if err != nil {
		file = ini.Empty()
	}
	return &Store{path: path, file: file}
}

// LoadFrom reads settings from an explicit path. Used by tests.
func LoadFrom(path string) *Store {
	file, err := ini.Load(path)
	if err != nil {
		file = ini.Empty()
	}
	return &Store{path: path, file: file}
}

// DryRun returns the configured default for dry-run mode; the --dry-run flag
// overrides it per invocation.
func (s *Store) DryRun() bool {
	return s.file.Section("clean").Key("dry_run").MustBool(false)
}

// BigFileMinBytes is the size threshold for the big-file report.
func (s *Store) BigFileMinBytes() int64 {
	return s.file.Section("clean").Key("big_file_min_bytes").MustInt64(defaultBigFileMinBytes)
}

// TempFileMaxAge is how old a temp file must be before deep clean deletes it.
func (s *Store) TempFileMaxAge() time.Duration {
	days := s.file.Section("clean").Key("temp_file_max_age_days").MustInt(int(defaultTempFileMaxAge / (24 * time.Hour)))
	return time.Duration(days) * 24 * time.Hour
}

// JournalVacuumAge is the retention passed to journald vacuuming.
func (s *Store) JournalVacuumAge() time.Duration {
	days := s.file.Section("clean").Key("journal_vacuum_days").MustInt(int(defaultJournalVacuumAge / (24 * time.Hour)))
	return time.Duration(days) * 24 * time.Hour
}

// LastUpdateCheck returns when the background update check last ran; zero
// time when it never has.
func (s *Store) LastUpdateCheck() time.Time {
	sec := s.file.Section("update").Key("last_check").MustInt64(0)
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// SetLastUpdateCheck persists the check timestamp. Best effort: an unwritable
// config dir only means the next launch checks again.
func (s *Store) SetLastUpdateCheck(t time.Time) error {
	s.file.Section("update").Key("last_check").SetValue(strconv.FormatInt(t.Unix(), 10))
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return s.file.SaveTo(s.path)
}
