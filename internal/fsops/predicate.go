package fsops

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// Predicate selects regular files for truncation, deletion, or size
// accounting. The criteria form a deliberately closed set — suffix, glob,
// size, and age cover every cleanup rule the tool ships — and each one is
// unit-testable without composing shell find pipelines.
type Predicate interface {
	Matches(name string, info fs.FileInfo) bool
}

// NameSuffix matches files whose base name ends with the given suffix,
// e.g. ".gz" for compressed log rotations.
type NameSuffix string

func (p NameSuffix) Matches(name string, _ fs.FileInfo) bool {
	return strings.HasSuffix(name, string(p))
}

// NameGlob matches the base name against a shell-style pattern,
// e.g. "*-json.log" for container log files.
type NameGlob string

func (p NameGlob) Matches(name string, _ fs.FileInfo) bool {
	ok, err := filepath.Match(string(p), name)
	return err == nil && ok
}

// MinSize matches files strictly larger than the given byte count.
type MinSize int64

func (p MinSize) Matches(_ string, info fs.FileInfo) bool {
	return info.Size() > int64(p)
}

// OlderThan matches files whose modification time is further in the past
// than the given duration.
type OlderThan time.Duration

func (p OlderThan) Matches(_ string, info fs.FileInfo) bool {
	return time.Since(info.ModTime()) > time.Duration(p)
}

// All matches only when every member matches.
type All []Predicate

func (p All) Matches(name string, info fs.FileInfo) bool {
	for _, m := range p {
		if !m.Matches(name, info) {
			return false
		}
	}
	return true
}

// Any matches when at least one member matches.
type Any []Predicate

func (p Any) Matches(name string, info fs.FileInfo) bool {
	for _, m := range p {
		if m.Matches(name, info) {
			return true
		}
	}
	return false
}
