package clean

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkdir(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func write(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
}

// seedProject creates a Cargo project with the requested target variants.
func seedProject(t *testing.T, variants ...string) string {
	t.Helper()
	dir := t.TempDir()
	write(t, dir, "Cargo.toml")
	write(t, dir, "src", "lib.rs")
	for _, v := range variants {
		target := mkdir(t, dir, v)
		write(t, target, "CACHEDIR.TAG")
		write(t, target, "debug", "artifact.o")
	}
	return dir
}

func newCleaner(opts Options, validate func(string) error) *Cleaner {
	c := New(opts)
	c.Validate = validate
	return c
}

func validOK(string) error { return nil }

func TestCleanValidProject(t *testing.T) {
	dir := seedProject(t, "target", "target-ra")

	res := newCleaner(Options{}, validOK).CleanProject(dir)
	require.Equal(t, StatusSuccess, res.Status)
	require.True(t, res.FreedKnown)
	require.Greater(t, res.Freed, int64(0))

	freed, ok := res.Space()
	require.True(t, ok)
	require.Equal(t, res.Freed, freed)

	require.NoDirExists(t, filepath.Join(dir, "target"))
	require.NoDirExists(t, filepath.Join(dir, "target-ra"))
	require.FileExists(t, filepath.Join(dir, "Cargo.toml"))
}

func TestCleanProjectWithoutTarget(t *testing.T) {
	dir := seedProject(t)

	res := newCleaner(Options{}, validOK).CleanProject(dir)
	require.Equal(t, StatusSuccess, res.Status)
	// No variant existed, so there is no measurement to report.
	require.False(t, res.FreedKnown)
	_, ok := res.Space()
	require.False(t, ok)
}

func TestCleanDryRunTouchesNothing(t *testing.T) {
	dir := seedProject(t, "target")

	res := newCleaner(Options{DryRun: true}, validOK).CleanProject(dir)
	require.Equal(t, StatusSuccess, res.Status)
	require.False(t, res.FreedKnown)
	require.Zero(t, res.Freed)
	require.DirExists(t, filepath.Join(dir, "target"))
}

func TestCleanInvalidStrictSkips(t *testing.T) {
	dir := seedProject(t, "target")
	invalid := func(string) error { return errors.New("error: failed to parse manifest") }

	res := newCleaner(Options{Strict: true}, invalid).CleanProject(dir)
	require.Equal(t, StatusSkipped, res.Status)
	require.Equal(t, "error: failed to parse manifest", res.Reason)
	require.DirExists(t, filepath.Join(dir, "target"))
}

func TestCleanInvalidFallsBackToTargetOnly(t *testing.T) {
	dir := seedProject(t, "target")
	invalid := func(string) error { return errors.New("error: invalid TOML") }

	res := newCleaner(Options{}, invalid).CleanProject(dir)
	require.Equal(t, StatusTargetOnly, res.Status)
	require.Equal(t, "error: invalid TOML", res.Reason)
	require.True(t, res.FreedKnown)
	require.Greater(t, res.Freed, int64(0))
	require.NoDirExists(t, filepath.Join(dir, "target"))
	// Only the build cache goes; the broken project stays intact.
	require.FileExists(t, filepath.Join(dir, "Cargo.toml"))
	require.FileExists(t, filepath.Join(dir, "src", "lib.rs"))
}

func TestCleanInvalidWithoutTargetSkips(t *testing.T) {
	dir := seedProject(t)
	invalid := func(string) error { return errors.New("broken") }

	res := newCleaner(Options{}, invalid).CleanProject(dir)
	require.Equal(t, StatusSkipped, res.Status)
	require.Equal(t, "broken", res.Reason)
}

func TestCleanForceBypassesValidation(t *testing.T) {
	dir := seedProject(t, "target")
	calls := 0
	counting := func(string) error { calls++; return errors.New("must not be called") }

	res := newCleaner(Options{Force: true}, counting).CleanProject(dir)
	require.Equal(t, StatusSuccess, res.Status)
	require.Zero(t, calls)
	require.NoDirExists(t, filepath.Join(dir, "target"))
}

func TestCleanInvalidDryRunReportsTargetOnly(t *testing.T) {
	dir := seedProject(t, "target")
	invalid := func(string) error { return errors.New("bad manifest") }

	res := newCleaner(Options{DryRun: true}, invalid).CleanProject(dir)
	require.Equal(t, StatusTargetOnly, res.Status)
	require.Equal(t, "bad manifest", res.Reason)
	require.Zero(t, res.Freed)
	require.DirExists(t, filepath.Join(dir, "target"))
}

func TestValidateProjectMissingManifest(t *testing.T) {
	if _, err := exec.LookPath("cargo"); err != nil {
		t.Skip("cargo not installed")
	}
	err := ValidateProject(t.TempDir())
	require.Error(t, err)
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "error: bad", firstLine("error: bad\ncaused by: worse\n"))
	require.Equal(t, "single", firstLine("single"))
	require.Equal(t, "", firstLine("  \n\n"))
}
