package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicInstall replaces target with the contents of source such that any
// outside observer sees either the old complete file or the new complete
// file, never a partial one. The staged copy lives in target's own directory
// because rename(2) is only atomic within a single filesystem.
//
// Installing a file over itself is a no-op, not an error: the executable bit
// is ensured and nothing else moves.
func AtomicInstall(source, target string) error {
	if sameFile(source, target) {
		return os.Chmod(target, 0o755)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	dir := filepath.Dir(target)
	stage, err := os.CreateTemp(dir, "."+filepath.Base(target)+".stage-*")
	if err != nil {
		return fmt.Errorf("stage in %s: %w", dir, err)
	}
	stagePath := stage.Name()

	// From here on, any failure removes the staged copy; target is only
	// ever touched by the final rename.
	if _, err := io.Copy(stage, in); err != nil {
		stage.Close()
		os.Remove(stagePath)
		return fmt.Errorf("copy to stage: %w", err)
	}
	if err := stage.Close(); err != nil {
		os.Remove(stagePath)
		return fmt.Errorf("flush stage: %w", err)
	}
	if err := os.Chmod(stagePath, 0o755); err != nil {
		os.Remove(stagePath)
		return fmt.Errorf("chmod stage: %w", err)
	}
	if err := os.Rename(stagePath, target); err != nil {
		os.Remove(stagePath)
		return fmt.Errorf("swap into place: %w", err)
	}
	return nil
}

// sameFile reports whether two paths resolve to the same inode. A missing
// target (fresh install) is simply "not the same".
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
