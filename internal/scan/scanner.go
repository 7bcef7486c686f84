// Package scan walks a directory tree once, concurrently, and partitions
// everything the artifact classifier recognizes into per-kind buckets.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lakshaymaurya-felt/scour/internal/artifact"
)

// Discovered is the snapshot a single scan produces: one path list per
// artifact kind, plus project roots and orphaned Rust targets. It is built
// once behind the scanner's locks, merged, and immutable from then on.
type Discovered struct {
	// Projects are directories containing a Cargo.toml — candidates for
	// validated per-project cleaning.
	Projects []string

	// OrphanedTargets are Rust target directories whose parent has no
	// Cargo.toml: the project is gone but its build cache survived.
	OrphanedTargets []string

	NodeModules   []string
	PythonVenvs   []string
	SccacheDirs   []string
	StackWorkDirs []string
	RustupDirs    []string
	NextDirs      []string
	CargoNixDirs  []string
}

// Empty reports whether the scan found nothing at all.
func (d *Discovered) Empty() bool {
	return len(d.Projects) == 0 &&
		len(d.OrphanedTargets) == 0 &&
		len(d.NodeModules) == 0 &&
		len(d.PythonVenvs) == 0 &&
		len(d.SccacheDirs) == 0 &&
		len(d.StackWorkDirs) == 0 &&
		len(d.RustupDirs) == 0 &&
		len(d.NextDirs) == 0 &&
		len(d.CargoNixDirs) == 0
}

// Total returns the number of discovered items across all buckets.
func (d *Discovered) Total() int {
	return len(d.Projects) + len(d.OrphanedTargets) + len(d.NodeModules) +
		len(d.PythonVenvs) + len(d.SccacheDirs) + len(d.StackWorkDirs) +
		len(d.RustupDirs) + len(d.NextDirs) + len(d.CargoNixDirs)
}

// Scanner performs the parallel recursive walk. Concurrency is bounded by a
// semaphore held only during directory reads, so deeply nested goroutines
// cannot deadlock on it.
type Scanner struct {
	sem     chan struct{}
	exclude map[string]bool

	mu       sync.Mutex
	found    Discovered
	warnings []string

	visited atomic.Int64
}

// NewScanner creates a scanner with bounded concurrency.
// exclude is a list of directory names (case-insensitive) to skip entirely.
func NewScanner(maxConcurrency int, exclude []string) *Scanner {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	excMap := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excMap[strings.ToLower(e)] = true
	}
	return &Scanner{
		sem:     make(chan struct{}, maxConcurrency),
		exclude: excMap,
	}
}

// Visited returns the number of entries examined so far. Safe to call while
// a scan is running; the progress spinner polls it.
func (s *Scanner) Visited() int64 {
	return s.visited.Load()
}

// Warnings returns any warnings accumulated during scanning.
func (s *Scanner) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Scanner) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < 500 {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan walks root and returns everything the classifier recognizes. Only a
// completely unreadable root is an error; unreadable subtrees are recorded
// as warnings and skipped.
func (s *Scanner) Scan(root string) (*Discovered, error) {
	root = filepath.Clean(root)
	info, err := os.Lstat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	// The root itself is a candidate too: pointing the scanner straight at
	// an artifact directory (an orphaned target, a ~/.rustup) must discover
	// it, not just its children.
	s.classifyDir(root, filepath.Base(root))
	s.scanDir(root)

	// The walk has joined; sort each bucket so output and logs are stable.
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.found
	for _, bucket := range [][]string{
		d.Projects, d.OrphanedTargets, d.NodeModules, d.PythonVenvs,
		d.SccacheDirs, d.StackWorkDirs, d.RustupDirs, d.NextDirs, d.CargoNixDirs,
	} {
		sort.Strings(bucket)
	}
	return &d, nil
}

// scanDir reads one directory, classifies every entry, and recurses into
// subdirectories on fresh goroutines. The semaphore is held only across the
// ReadDir call.
func (s *Scanner) scanDir(dir string) {
	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.addWarning("cannot read " + dir + ": " + err.Error())
		return
	}

	var wg sync.WaitGroup
	for _, e := range entries {
		child := filepath.Join(dir, e.Name())
		s.visited.Add(1)

		// ReadDir lstats its entries, so a symlinked directory reports
		// IsDir false and is never followed.
		if !e.IsDir() {
			if e.Name() == "Cargo.toml" {
				s.appendProject(dir)
			}
			continue
		}

		if s.exclude[strings.ToLower(e.Name())] {
			continue
		}

		s.classifyDir(child, e.Name())

		// Descend even into matched artifact directories: nested projects
		// (a crate vendored under node_modules, a venv inside a workspace)
		// must still be discovered.
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			s.scanDir(d)
		}(child)
	}
	wg.Wait()
}

// classifyDir runs the name-gated classifier on one directory and files it
// into the right bucket.
func (s *Scanner) classifyDir(path, name string) {
	kind, ok := artifact.LookupName(name)
	if !ok || !artifact.Matches(kind, path) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case artifact.KindRustTarget:
		// Owned targets are cleaned through their project; only the
		// orphaned ones get their own bucket.
		if !artifact.HasCargoManifest(filepath.Dir(path)) {
			s.found.OrphanedTargets = append(s.found.OrphanedTargets, path)
		}
	case artifact.KindNodeModules:
		s.found.NodeModules = append(s.found.NodeModules, path)
	case artifact.KindPythonVenv:
		s.found.PythonVenvs = append(s.found.PythonVenvs, path)
	case artifact.KindSccache:
		s.found.SccacheDirs = append(s.found.SccacheDirs, path)
	case artifact.KindStackWork:
		s.found.StackWorkDirs = append(s.found.StackWorkDirs, path)
	case artifact.KindRustup:
		s.found.RustupDirs = append(s.found.RustupDirs, path)
	case artifact.KindNextBuild:
		s.found.NextDirs = append(s.found.NextDirs, path)
	case artifact.KindCargoNix:
		s.found.CargoNixDirs = append(s.found.CargoNixDirs, path)
	}
}

func (s *Scanner) appendProject(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.found.Projects = append(s.found.Projects, dir)
}
