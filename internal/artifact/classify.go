package artifact

import (
	"os"
	"path/filepath"
	"strings"
)

// Matches reports whether path is a genuine artifact directory of the given
// kind. Checks run cheapest and most discriminating first: basename, then
// negative markers, then positive marker groups, then the parent
// relationship. Any I/O error during a marker probe counts as "marker
// absent" — ambiguity never classifies as deletable.
func Matches(kind Kind, path string) bool {
	rule, ok := rules[kind]
	if !ok {
		return false
	}

	name := filepath.Base(path)
	if !containsString(rule.Names, name) {
		return false
	}

	// A directory carrying its own project manifest is never disposable,
	// whatever else it looks like.
	for _, neg := range rule.Negative {
		if childExists(path, neg) {
			return false
		}
	}

	for _, group := range rule.MarkerGroups {
		if !groupSatisfied(path, group) {
			return false
		}
	}

	if len(rule.ParentMarkers) > 0 && !parentSatisfied(path, rule) {
		return false
	}

	return true
}

// HasCargoManifest reports whether dir contains a Cargo.toml. The walker and
// deleter use it to split Rust target directories into owned and orphaned.
func HasCargoManifest(dir string) bool {
	return childExists(dir, "Cargo.toml")
}

// groupSatisfied reports whether at least one marker of the any-of group is
// present inside dir.
func groupSatisfied(dir string, group []string) bool {
	for _, m := range group {
		switch {
		case m == AnyEntry:
			if hasChild(dir, func(e os.DirEntry) bool { return true }) {
				return true
			}
		case m == AnySubdir:
			if hasChild(dir, func(e os.DirEntry) bool { return e.IsDir() }) {
				return true
			}
		case strings.ContainsAny(m, "*?["):
			if hasChild(dir, func(e os.DirEntry) bool {
				ok, err := filepath.Match(m, e.Name())
				return err == nil && ok
			}) {
				return true
			}
		default:
			if childExists(dir, m) {
				return true
			}
		}
	}
	return false
}

// parentSatisfied applies the kind's parent-relationship requirement. A
// definitive marker inside the candidate waives it; otherwise the parent
// must exist and carry at least one parent marker. When the candidate is a
// filesystem root there is no parent to vouch for it, so the check fails
// closed.
func parentSatisfied(path string, rule Rule) bool {
	for _, m := range rule.Definitive {
		if childExists(path, m) {
			return true
		}
	}

	parent := filepath.Dir(path)
	if parent == path {
		return false
	}
	return groupSatisfied(parent, rule.ParentMarkers)
}

// childExists reports whether rel (a slash-separated relative path) exists
// under dir. Stat errors are treated as absence.
func childExists(dir, rel string) bool {
	_, err := os.Lstat(filepath.Join(dir, filepath.FromSlash(rel)))
	return err == nil
}

// hasChild reports whether any direct child of dir satisfies pred. An
// unreadable directory has no matching children.
func hasChild(dir string, pred func(os.DirEntry) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if pred(e) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
