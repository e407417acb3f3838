// Package analyze builds an in-memory size tree of a directory hierarchy and
// presents it either as an interactive browser or a plain-text tree. Scans
// are bounded by the caller's context: when the deadline fires the partially
// built tree is still returned, flagged as incomplete.
package analyze

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// staleAge marks entries untouched for this long as candidates for review.
const staleAge = 180 * 24 * time.Hour

// Entry is one node of the scanned tree. Children of directories are sorted
// by size, largest first, once the scan completes.
type Entry struct {
	Path     string
	Name     string
	Size     int64
	IsDir    bool
	ModTime  time.Time
	Children []*Entry
	Parent   *Entry
}

// Stale reports whether the entry has gone unmodified long enough to flag.
func (e *Entry) Stale() bool {
	return time.Since(e.ModTime) > staleAge
}

// Share returns the entry's size as a percentage of parentSize.
func (e *Entry) Share(parentSize int64) float64 {
	if parentSize <= 0 {
		return 0
	}
	return float64(e.Size) / float64(parentSize) * 100
}

// virtualRoots are kernel-backed trees that report sizes without occupying
// disk. Descending into them would dominate the scan with meaningless data.
var virtualRoots = map[string]bool{
	"/proc": true,
	"/sys":  true,
	"/dev":  true,
	"/run":  true,
}

// Scanner walks a directory tree with bounded parallelism. Symlinks are
// recorded by their link size and never followed; a symlink cycle can
// otherwise keep the walk alive until the deadline kills it.
type Scanner struct {
	sem chan struct{}

	mu       sync.Mutex
	warnings []string

	visited atomic.Int64
	partial atomic.Bool
}

// NewScanner returns a Scanner running at most workers concurrent directory
// reads.
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 8
	}
	return &Scanner{sem: make(chan struct{}, workers)}
}

// Visited returns the number of entries seen so far. Safe to call while a
// scan is running; the progress spinner polls it.
func (s *Scanner) Visited() int64 {
	return s.visited.Load()
}

// Partial reports whether the last scan was cut short by its context.
func (s *Scanner) Partial() bool {
	return s.partial.Load()
}

// Warnings returns unreadable paths encountered during the scan.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Scanner) warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan builds the size tree rooted at root. If ctx expires mid-walk the tree
// built so far is returned with Partial set; sizes then undercount the
// unvisited subtrees but remain internally consistent.
func (s *Scanner) Scan(ctx context.Context, root string) (*Entry, error) {
	root = filepath.Clean(root)
	s.partial.Store(false)

	info, err := os.Lstat(root)
	if err != nil {
		return nil, err
	}

	top := &Entry{
		Path:    root,
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !info.IsDir() {
		top.Size = info.Size()
		return top, nil
	}

	s.scanDir(ctx, top)
	sumAndSort(top)
	return top, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir *Entry) {
	if ctx.Err() != nil {
		s.partial.Store(true)
		return
	}

	// The semaphore bounds the ReadDir I/O only; holding it across the
	// recursive descent would deadlock once nesting exceeds the pool.
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir.Path)
	<-s.sem

	if err != nil {
		s.warn("cannot read " + dir.Path + ": " + err.Error())
		return
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, ent := range entries {
		if ctx.Err() != nil {
			s.partial.Store(true)
			break
		}
		childPath := filepath.Join(dir.Path, ent.Name())
		s.visited.Add(1)

		if ent.IsDir() && virtualRoots[childPath] {
			continue
		}

		info, err := ent.Info()
		if err != nil {
			s.warn("cannot stat " + childPath + ": " + err.Error())
			continue
		}

		child := &Entry{
			Path:    childPath,
			Name:    ent.Name(),
			IsDir:   ent.IsDir(),
			Parent:  dir,
			ModTime: info.ModTime(),
		}

		switch {
		case ent.Type()&fs.ModeSymlink != 0:
			child.Size = info.Size()
		case ent.IsDir():
			wg.Add(1)
			go func(d *Entry) {
				defer wg.Done()
				s.scanDir(ctx, d)
			}(child)
		default:
			child.Size = info.Size()
		}

		mu.Lock()
		dir.Children = append(dir.Children, child)
		mu.Unlock()
	}

	wg.Wait()
}

// sumAndSort fills directory sizes bottom-up and orders every child list by
// size descending.
func sumAndSort(e *Entry) {
	if !e.IsDir {
		return
	}
	var total int64
	for _, c := range e.Children {
		sumAndSort(c)
		total += c.Size
	}
	e.Size = total
	sort.Slice(e.Children, func(i, j int) bool {
		return e.Children[i].Size > e.Children[j].Size
	})
}
