package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/scour/internal/artifact"
	"github.com/lakshaymaurya-felt/scour/internal/clean"
)

func mkdir(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func write(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

// seedRustProject creates a Cargo project with a populated target directory.
func seedRustProject(t *testing.T, root, name string) string {
	t.Helper()
	proj := mkdir(t, root, name)
	write(t, proj, "Cargo.toml")
	write(t, proj, "src", "main.rs")
	target := mkdir(t, proj, "target")
	write(t, target, "CACHEDIR.TAG")
	write(t, target, "debug", "binary")
	return proj
}

// seedNodeProject creates an npm project with a populated node_modules.
func seedNodeProject(t *testing.T, root, name string) string {
	t.Helper()
	proj := mkdir(t, root, name)
	write(t, proj, "package.json")
	write(t, proj, "node_modules", "left-pad", "index.js")
	return proj
}

// seedPythonProject creates a project owning a complete .venv.
func seedPythonProject(t *testing.T, root, name string) string {
	t.Helper()
	proj := mkdir(t, root, name)
	write(t, proj, "requirements.txt")
	venv := mkdir(t, proj, ".venv")
	write(t, venv, "pyvenv.cfg")
	write(t, venv, "bin", "activate")
	write(t, venv, "lib", "python3.12", "site-packages", "pkg.py")
	return proj
}

// seedTree builds the full discovery fixture: three Rust projects, one
// orphaned target, two node projects, and two Python projects.
func seedTree(t *testing.T, root string) {
	t.Helper()
	seedRustProject(t, root, "rust-project-1")
	seedRustProject(t, root, "rust-project-2")
	seedRustProject(t, root, "nested/rust-project-3")

	orphan := mkdir(t, root, "orphaned-workspace", "target")
	write(t, orphan, "CACHEDIR.TAG")
	write(t, orphan, "release", "binary")

	seedNodeProject(t, root, "node-project-1")
	seedNodeProject(t, root, "node-project-2")

	seedPythonProject(t, root, "python-project-1")
	seedPythonProject(t, root, "python-project-2")
}

func TestScanDiscoversAllBuckets(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root)

	s := NewScanner(4, nil)
	found, err := s.Scan(root)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{
		filepath.Join(root, "rust-project-1"),
		filepath.Join(root, "rust-project-2"),
		filepath.Join(root, "nested", "rust-project-3"),
	}, found.Projects)

	require.Equal(t, []string{filepath.Join(root, "orphaned-workspace", "target")},
		found.OrphanedTargets)

	require.GreaterOrEqual(t, len(found.NodeModules), 2)
	require.Len(t, found.PythonVenvs, 2)
	require.Empty(t, found.SccacheDirs)
	require.Greater(t, s.Visited(), int64(0))
}

func TestScanOwnedTargetsStayOutOfOrphanBucket(t *testing.T) {
	root := t.TempDir()
	seedRustProject(t, root, "proj")

	found, err := NewScanner(2, nil).Scan(root)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "proj")}, found.Projects)
	require.Empty(t, found.OrphanedTargets)
}

func TestScanRejectsImpostors(t *testing.T) {
	root := t.TempDir()

	// A real project named "target": manifest inside, never discovered.
	impostor := mkdir(t, root, "target")
	write(t, impostor, "Cargo.toml")
	write(t, impostor, "CACHEDIR.TAG")

	// An empty .venv with no structure.
	mkdir(t, root, ".venv")

	found, err := NewScanner(2, nil).Scan(root)
	require.NoError(t, err)
	require.Empty(t, found.OrphanedTargets)
	require.Empty(t, found.PythonVenvs)
	// The impostor's Cargo.toml does make it an owning project.
	require.Equal(t, []string{impostor}, found.Projects)
}

func TestScanHonorsExcludes(t *testing.T) {
	root := t.TempDir()
	seedNodeProject(t, root, "kept")
	seedNodeProject(t, filepath.Join(root, "Skipme"), "ignored")

	s := NewScanner(2, []string{"skipme"})
	found, err := s.Scan(root)
	require.NoError(t, err)
	require.Len(t, found.NodeModules, 1)
	require.Equal(t, filepath.Join(root, "kept", "node_modules"), found.NodeModules[0])
}

func TestScanOtherArtifactKinds(t *testing.T) {
	root := t.TempDir()

	sccache := mkdir(t, root, ".sccache")
	write(t, sccache, "0", "obj")

	hs := mkdir(t, root, "hs-proj")
	write(t, hs, "stack.yaml")
	work := mkdir(t, hs, ".stack-work")
	write(t, work, "stack.sqlite3")

	rustup := mkdir(t, root, "home", ".rustup")
	write(t, rustup, "settings.toml")

	web := mkdir(t, root, "web")
	write(t, web, "next.config.js")
	next := mkdir(t, web, ".next")
	write(t, next, "BUILD_ID")

	nix := mkdir(t, root, ".cargo-nix")
	write(t, nix, "store", "drv")

	found, err := NewScanner(4, nil).Scan(root)
	require.NoError(t, err)
	require.Equal(t, []string{sccache}, found.SccacheDirs)
	require.Equal(t, []string{work}, found.StackWorkDirs)
	require.Equal(t, []string{rustup}, found.RustupDirs)
	require.Equal(t, []string{next}, found.NextDirs)
	require.Equal(t, []string{nix}, found.CargoNixDirs)
}

func TestScanClassifiesRootItself(t *testing.T) {
	base := t.TempDir()

	// Pointing the scanner straight at an orphaned target discovers it.
	orphan := mkdir(t, base, "workspace", "target")
	write(t, orphan, "CACHEDIR.TAG")
	write(t, orphan, "release", "binary")

	found, err := NewScanner(2, nil).Scan(orphan)
	require.NoError(t, err)
	require.Equal(t, []string{orphan}, found.OrphanedTargets)

	// Same for a toolchain directory given as the root.
	rustup := mkdir(t, base, ".rustup")
	write(t, rustup, "settings.toml")

	found, err = NewScanner(2, nil).Scan(rustup)
	require.NoError(t, err)
	require.Equal(t, []string{rustup}, found.RustupDirs)
}

func TestScanRootOwnedTargetStaysOutOfOrphanBucket(t *testing.T) {
	root := t.TempDir()
	proj := seedRustProject(t, root, "proj")
	target := filepath.Join(proj, "target")

	found, err := NewScanner(2, nil).Scan(target)
	require.NoError(t, err)
	require.Empty(t, found.OrphanedTargets)
}

func TestScanErrorsOnMissingRoot(t *testing.T) {
	_, err := NewScanner(2, nil).Scan(filepath.Join(t.TempDir(), "gone"))
	require.Error(t, err)
}

// TestFullCleanup exercises the whole pipeline: discovery, per-project
// cleaning, and standalone bucket removal must leave no artifact behind and
// report a positive byte total.
func TestFullCleanup(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root)

	found, err := NewScanner(4, nil).Scan(root)
	require.NoError(t, err)
	require.Len(t, found.Projects, 3)

	var totalFreed int64

	cleaner := clean.New(clean.Options{})
	cleaner.Validate = func(string) error { return nil }
	for _, proj := range found.Projects {
		res := cleaner.CleanProject(proj)
		require.Equal(t, clean.StatusSuccess, res.Status, proj)
		if n, ok := res.Space(); ok {
			totalFreed += n
		}
		require.NoDirExists(t, filepath.Join(proj, "target"))
		// Sources survive cleaning.
		require.FileExists(t, filepath.Join(proj, "Cargo.toml"))
	}

	for _, p := range found.OrphanedTargets {
		freed, ok, err := artifact.RemoveOrphanedTarget(p, false)
		require.NoError(t, err)
		require.True(t, ok)
		totalFreed += freed
		require.NoDirExists(t, p)
	}
	for _, p := range found.NodeModules {
		freed, ok, err := artifact.Remove(artifact.KindNodeModules, p, false)
		require.NoError(t, err)
		if ok {
			totalFreed += freed
		}
		require.NoDirExists(t, p)
	}
	for _, p := range found.PythonVenvs {
		freed, ok, err := artifact.Remove(artifact.KindPythonVenv, p, false)
		require.NoError(t, err)
		require.True(t, ok)
		totalFreed += freed
		require.NoDirExists(t, p)
	}

	require.Greater(t, totalFreed, int64(0))

	// A rescan of the cleaned tree finds only the owning projects.
	after, err := NewScanner(4, nil).Scan(root)
	require.NoError(t, err)
	require.Len(t, after.Projects, 3)
	require.Empty(t, after.OrphanedTargets)
	require.Empty(t, after.NodeModules)
	require.Empty(t, after.PythonVenvs)
}
