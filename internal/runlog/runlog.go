// Package runlog writes the per-run cleanup log: a human-readable,
// line-oriented file with timestamped entries and a trailing summary. The
// file is written once per run and never read back.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/scour/internal/ui"
)

// Logger appends timestamped events to the run log file.
type Logger struct {
	f    *os.File
	path string
}

// New creates the run log at customPath, or under dir (default: the user
// cache directory) as scour/clean-<timestamp>.log when customPath is empty.
// Failure to create the log aborts the run before any scanning starts.
func New(customPath, dir string) (*Logger, error) {
	path := customPath
	if path == "" {
		if dir == "" {
			cache, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("determine cache directory: %w", err)
			}
			dir = filepath.Join(cache, "scour")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		path = filepath.Join(dir, "clean-"+time.Now().Format("20060102-150405")+".log")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file %s: %w", path, err)
	}

	l := &Logger{f: f, path: path}
	l.header()
	return l, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	return l.f.Close()
}

func (l *Logger) header() {
	fmt.Fprintln(l.f, "Scour Project Artifact Cleaner")
	fmt.Fprintln(l.f, "==========================")
	fmt.Fprintf(l.f, "Started: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
}

func (l *Logger) stamp() string {
	return time.Now().Format("15:04:05")
}

// Found records a discovery bucket with its paths.
func (l *Logger) Found(label string, paths []string) {
	fmt.Fprintf(l.f, "Found %d %s:\n", len(paths), label)
	for _, p := range paths {
		fmt.Fprintf(l.f, "  - %s\n", p)
	}
	fmt.Fprintln(l.f)
}

// Start marks the beginning of the destructive phase.
func (l *Logger) Start() {
	fmt.Fprint(l.f, "Starting cleanup...\n\n")
}

// Success records a fully cleaned project.
func (l *Logger) Success(project string, freed int64, known bool) {
	if known {
		fmt.Fprintf(l.f, "[%s] SUCCESS: %s (freed %s)\n", l.stamp(), project, ui.FormatBytes(freed))
		return
	}
	fmt.Fprintf(l.f, "[%s] SUCCESS: %s\n", l.stamp(), project)
}

// TargetOnly records a project whose build cache was removed despite failed
// validation.
func (l *Logger) TargetOnly(project string, freed int64, reason string) {
	fmt.Fprintf(l.f, "[%s] TARGET ONLY: %s (freed %s) - %s\n", l.stamp(), project, ui.FormatBytes(freed), reason)
}

// Skipped records a project left untouched.
func (l *Logger) Skipped(project, reason string) {
	fmt.Fprintf(l.f, "[%s] SKIPPED: %s - %s\n", l.stamp(), project, reason)
}

// Failed records a deletion failure.
func (l *Logger) Failed(project, msg string) {
	fmt.Fprintf(l.f, "[%s] FAILED: %s - %s\n", l.stamp(), project, msg)
}

// Cleaned records a standalone artifact directory removal under the given
// tag (ORPHANED, NODE_MODULES, PYTHON_VENV, ...).
func (l *Logger) Cleaned(tag, path string, freed int64) {
	fmt.Fprintf(l.f, "[%s] %s: %s (freed %s)\n", l.stamp(), tag, path, ui.FormatBytes(freed))
}

// Summary aggregates the whole run.
type Summary struct {
	Projects   int
	Success    int
	TargetOnly int
	Skipped    int
	Failed     int

	Orphaned    int
	NodeModules int
	Venvs       int
	Sccache     int
	StackWork   int
	Rustup      int
	Next        int
	CargoNix    int

	TotalFreed int64
}

// WriteSummary appends the trailing summary block and the completion stamp.
func (l *Logger) WriteSummary(s Summary) {
	fmt.Fprintln(l.f)
	fmt.Fprintln(l.f, "==========================")
	fmt.Fprintln(l.f, "Summary")
	fmt.Fprintln(l.f, "==========================")
	fmt.Fprintf(l.f, "Total projects found: %d\n", s.Projects)
	fmt.Fprintf(l.f, "Successfully cleaned: %d\n", s.Success)
	fmt.Fprintf(l.f, "Target-only cleaned: %d\n", s.TargetOnly)
	fmt.Fprintf(l.f, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(l.f, "Failed: %d\n", s.Failed)
	fmt.Fprintf(l.f, "Orphaned targets cleaned: %d\n", s.Orphaned)
	fmt.Fprintf(l.f, "Node modules cleaned: %d\n", s.NodeModules)
	fmt.Fprintf(l.f, "Python venvs cleaned: %d\n", s.Venvs)
	fmt.Fprintf(l.f, "Sccache dirs cleaned: %d\n", s.Sccache)
	fmt.Fprintf(l.f, "Stack work dirs cleaned: %d\n", s.StackWork)
	fmt.Fprintf(l.f, "Rustup dirs cleaned: %d\n", s.Rustup)
	fmt.Fprintf(l.f, "Next.js builds cleaned: %d\n", s.Next)
	fmt.Fprintf(l.f, "Cargo-nix dirs cleaned: %d\n", s.CargoNix)
	fmt.Fprintf(l.f, "Total space freed: %s\n", ui.FormatBytes(s.TotalFreed))
	fmt.Fprintln(l.f)
	fmt.Fprintf(l.f, "Completed: %s\n", time.Now().Format("2006-01-02 15:04:05"))
}
