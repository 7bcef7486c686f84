package runlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesLineOrientedLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := New(path, "")
	require.NoError(t, err)
	require.Equal(t, path, l.Path())

	l.Found("projects", []string{"/src/app", "/src/lib"})
	l.Found("node_modules directories", nil)
	l.Start()
	l.Success("/src/app", 2048, true)
	l.Success("/src/lib", 0, false)
	l.TargetOnly("/src/broken", 512, "error: bad manifest")
	l.Skipped("/src/skipped", "strict mode")
	l.Failed("/src/failed", "permission denied")
	l.Cleaned("ORPHANED", "/old/target", 1024)
	l.WriteSummary(Summary{
		Projects:   2,
		Success:    2,
		Orphaned:   1,
		TotalFreed: 3584,
	})
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	require.Contains(t, out, "Scour Project Artifact Cleaner")
	require.Contains(t, out, "Found 2 projects:")
	require.Contains(t, out, "  - /src/app")
	require.Contains(t, out, "Found 0 node_modules directories:")
	require.Contains(t, out, "SUCCESS: /src/app (freed 2.00 KB)")
	require.Contains(t, out, "SUCCESS: /src/lib\n")
	require.Contains(t, out, "TARGET ONLY: /src/broken (freed 512 B) - error: bad manifest")
	require.Contains(t, out, "SKIPPED: /src/skipped - strict mode")
	require.Contains(t, out, "FAILED: /src/failed - permission denied")
	require.Contains(t, out, "ORPHANED: /old/target (freed 1.00 KB)")
	require.Contains(t, out, "Total projects found: 2")
	require.Contains(t, out, "Orphaned targets cleaned: 1")
	require.Contains(t, out, "Total space freed: 3.50 KB")
	require.Contains(t, out, "Completed: ")
}

func TestLoggerDefaultLocation(t *testing.T) {
	dir := t.TempDir()
	l, err := New("", dir)
	require.NoError(t, err)
	defer l.Close()

	require.Equal(t, dir, filepath.Dir(l.Path()))
	require.Regexp(t, `clean-\d{8}-\d{6}\.log$`, l.Path())
}

func TestLoggerUncreatablePathFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing-dir", "run.log"), "")
	require.Error(t, err)
}
