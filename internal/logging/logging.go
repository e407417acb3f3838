// Package logging builds the diagnostic logger. Diagnostics go to a rotated
// file under the user's state dir so background failures (silent update
// checks, refused deletions) stay auditable without cluttering the
// interactive surface; --debug tees them to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns the process logger.
func New(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rotated := &lumberjack.Logger{
		Filename:   LogPath(),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetOutput(rotated)
	}
	return log
}

// LogPath is where diagnostics land: $XDG_STATE_HOME/linmole/lm.log or the
// ~/.local/state fallback.
func LogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "linmole", "lm.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "linmole", "lm.log")
	}
	return filepath.Join(home, ".local", "state", "linmole", "lm.log")
}
