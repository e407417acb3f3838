package guard

import (
	"path/filepath"
)

// ProtectedPaths is the fixed set of absolute paths that must never be a
// direct target of deletion or clearing. This is an exact-match blocklist,
// not a prefix check: /etc itself is protected, /etc/foo is not. Callers
// that want to empty a directory delete the entries inside it, never the
// directory itself, so the guard only needs to block the roots.
var ProtectedPaths = []string{
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/home",
	"/lib",
	"/lib64",
	"/opt",
	"/proc",
	"/root",
	"/run",
	"/sbin",
	"/srv",
	"/sys",
	"/usr",
	"/var",
}

// Canonicalize resolves a path to its absolute, symlink-free form. When
// resolution fails (missing target, permission denied) it falls back to the
// cleaned literal path — the guard never returns an error, so a symlink we
// cannot resolve is judged by where it sits, not where it points.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// IsSafe reports whether path may be a direct target of a destructive
// operation. Anything that canonicalizes to / or to a member of
// ProtectedPaths is refused.
func IsSafe(path string) bool {
	canon := Canonicalize(path)
	if canon == "/" {
		return false
	}
	for _, p := range ProtectedPaths {
		if canon == p {
			return false
		}
	}
	return true
}
