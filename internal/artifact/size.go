package artifact

import (
	"os"
	"path/filepath"
)

// DirSize returns the total size in bytes of all regular files reachable
// from path, descending depth-first. Symbolic links are never followed, so
// cycles cannot occur and nothing outside the tree is counted. A missing
// path sizes to zero, which keeps re-measurement after a partial cleanup
// idempotent. Entries whose metadata cannot be read are skipped; the total
// may undercount but the accounting never fails.
func DirSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if info.Mode().IsRegular() {
		return info.Size()
	}
	if !info.IsDir() {
		return 0
	}

	var total int64
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		child := filepath.Join(path, e.Name())
		if e.IsDir() {
			total += DirSize(child)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		total += fi.Size()
	}
	return total
}
