package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Remove deletes the artifact directory at path after re-validating its
// classification. The re-check happens at delete time, not at scan time, so
// a tree that changed between discovery and deletion is never removed on
// stale evidence.
//
// The returned ok is false when path no longer classifies as kind — an
// already-deleted or repurposed directory is "nothing to do", not an error.
// In dry-run mode classification is the only work performed: no size is
// measured (freed is always 0) and nothing is removed. In real mode the size
// is captured before removal, since afterwards there is nothing left to
// measure.
func Remove(kind Kind, path string, dryRun bool) (freed int64, ok bool, err error) {
	if !Matches(kind, path) {
		return 0, false, nil
	}
	if dryRun {
		return 0, true, nil
	}

	freed = DirSize(path)
	if err := os.RemoveAll(path); err != nil {
		return 0, false, fmt.Errorf("delete %s directory %s: %w", kind, path, err)
	}
	return freed, true, nil
}

// RemoveOwnedTarget deletes a Rust target directory that belongs to a live
// Cargo project. On top of classification it requires a Cargo.toml in the
// parent directory; calling it on an orphaned target is a no-op.
func RemoveOwnedTarget(path string, dryRun bool) (int64, bool, error) {
	parent := filepath.Dir(path)
	if parent == path || !HasCargoManifest(parent) {
		return 0, false, nil
	}
	return Remove(KindRustTarget, path, dryRun)
}

// RemoveOrphanedTarget deletes a Rust target directory whose owning project
// is gone. It refuses targets that still have a manifest-bearing parent;
// those belong to RemoveOwnedTarget.
func RemoveOrphanedTarget(path string, dryRun bool) (int64, bool, error) {
	if HasCargoManifest(filepath.Dir(path)) {
		return 0, false, nil
	}
	return Remove(KindRustTarget, path, dryRun)
}
