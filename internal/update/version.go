// Package update checks for, downloads, validates, and atomically installs
// new releases. Every failure path leaves the currently-installed executable
// untouched; the only mutation of the install path is a same-directory
// rename.
package update

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Release artifacts carry their version as a fixed marker line. Comparison
// is byte-for-byte string equality, not semantic ordering: a remote
// "1.0.0-beta" against a local "1.0.0" is "different" and will be offered as
// an update. That matches the release channel's contract (it only ever
// publishes the latest artifact) and is a known limitation, kept rather than
// replaced with an invented ordering policy.
var versionMarker = regexp.MustCompile(`VERSION="([^"\n]*)"`)

// headLimit bounds how much of an artifact is scanned for the marker.
const headLimit = 512 * 1024

var (
	// ErrNoVersionMarker means the artifact has no VERSION marker at all.
	ErrNoVersionMarker = errors.New("no version marker found")
	// ErrEmptyVersion means the marker is present but carries no value —
	// a malformed artifact, distinct from one missing the marker.
	ErrEmptyVersion = errors.New("version marker is empty")
)

// extractVersion finds the version marker in raw artifact bytes.
func extractVersion(data []byte) (string, error) {
	m := versionMarker.FindSubmatch(data)
	if m == nil {
		return "", ErrNoVersionMarker
	}
	if len(m[1]) == 0 {
		return "", ErrEmptyVersion
	}
	return string(m[1]), nil
}

// ExtractVersion reads the version marker from an artifact on disk.
func ExtractVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	buf := make([]byte, headLimit)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return extractVersion(buf[:n])
}

// executable markers: a shebang for script artifacts, the ELF magic for
// compiled ones. Anything else is not a runnable release.
var (
	shebangMagic = []byte("#!/")
	elfMagic     = []byte("\x7fELF")
)

func hasExecutableMarker(data []byte) bool {
	return bytes.HasPrefix(data, shebangMagic) || bytes.HasPrefix(data, elfMagic)
}
