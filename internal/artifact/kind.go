// Package artifact decides whether a directory is a disposable build or
// dependency artifact and, once that is certain, removes it. Classification
// is the sole source of truth for every destructive operation in scour:
// nothing is deleted without passing the kind's full rule set at delete time.
package artifact

// Kind identifies one recognized ecosystem artifact directory.
type Kind int

const (
	// KindRustTarget is a Cargo build cache ("target" or the rust-analyzer
	// variant "target-ra").
	KindRustTarget Kind = iota
	// KindNodeModules is an npm/yarn/pnpm dependency tree.
	KindNodeModules
	// KindPythonVenv is a Python virtual environment.
	KindPythonVenv
	// KindSccache is an sccache compiler cache.
	KindSccache
	// KindStackWork is a Haskell Stack work directory.
	KindStackWork
	// KindRustup is a rustup toolchain installation.
	KindRustup
	// KindNextBuild is a Next.js build output directory.
	KindNextBuild
	// KindCargoNix is a cargo-nix cross-toolchain cache.
	KindCargoNix
)

// kindNames is the display label for each kind.
var kindNames = []string{
	"Rust target",
	"node_modules",
	"Python venv",
	"sccache",
	"Stack work",
	"rustup",
	"Next.js build",
	"cargo-nix",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds lists every recognized kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Pseudo-markers understood by the rule engine. Real artifact layouts never
// use these as file names.
const (
	// AnyEntry is satisfied by any direct child, file or directory.
	AnyEntry = "*"
	// AnySubdir is satisfied by any direct child directory.
	AnySubdir = "*/"
)

// Rule is the declarative classification contract for one Kind. A candidate
// matches when its basename is one of Names, none of the Negative markers
// exist inside it, every MarkerGroups entry has at least one member present,
// and (when ParentMarkers is non-empty) the parent directory carries at least
// one parent marker. Markers containing glob metacharacters are matched
// against direct child names; plain markers may be relative paths.
type Rule struct {
	Names []string

	// Negative markers prove the candidate is a real project that happens
	// to share an artifact name. Their presence always rejects.
	Negative []string

	// MarkerGroups are all-of groups of any-of markers.
	MarkerGroups [][]string

	// ParentMarkers, when set, require the parent directory to look like a
	// project of the owning ecosystem.
	ParentMarkers []string

	// Definitive markers are strong enough on their own to waive the parent
	// requirement (e.g. a database file only the owning tool writes).
	Definitive []string
}

// rules maps each Kind to its classification contract. Marker sets mirror
// what the tools themselves write; negative sets cover the manifests a real
// project named like an artifact directory would contain.
var rules = map[Kind]Rule{
	KindRustTarget: {
		Names:        []string{"target", "target-ra"},
		Negative:     []string{"Cargo.toml"},
		MarkerGroups: [][]string{{"CACHEDIR.TAG", ".rustc_info.json"}},
	},
	KindNodeModules: {
		Names:         []string{"node_modules"},
		Negative:      []string{"Cargo.toml", "setup.py"},
		MarkerGroups:  [][]string{{".bin", ".package-lock.json", AnySubdir}},
		ParentMarkers: []string{"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml"},
	},
	KindPythonVenv: {
		Names:    []string{"venv", ".venv", "env", "ENV", "virtualenv", ".virtualenv"},
		Negative: []string{".git"},
		MarkerGroups: [][]string{
			{"pyvenv.cfg"},
			{"bin", "Scripts"},
			{"bin/activate", "Scripts/activate.bat"},
			{"lib", "Lib"},
		},
	},
	KindSccache: {
		Names:        []string{".sccache"},
		Negative:     []string{"Cargo.toml", "package.json", ".git"},
		MarkerGroups: [][]string{{AnyEntry}},
	},
	KindStackWork: {
		Names:         []string{".stack-work"},
		Negative:      []string{"Cargo.toml", "package.json", ".git", "setup.py"},
		MarkerGroups:  [][]string{{"stack.sqlite3", "dist", "install"}},
		ParentMarkers: []string{"stack.yaml", "package.yaml", "*.cabal"},
		Definitive:    []string{"stack.sqlite3"},
	},
	KindRustup: {
		Names:        []string{".rustup"},
		Negative:     []string{"Cargo.toml", "package.json", ".git"},
		MarkerGroups: [][]string{{"settings.toml", "toolchains", "downloads", "update-hashes"}},
	},
	KindNextBuild: {
		Names:         []string{".next"},
		Negative:      []string{"Cargo.toml", "package.json", ".git"},
		MarkerGroups:  [][]string{{"BUILD_ID", "cache", "server", "static"}},
		ParentMarkers: []string{"next.config.js", "next.config.mjs", "next.config.ts", "package.json"},
	},
	KindCargoNix: {
		Names:        []string{".cargo-nix"},
		Negative:     []string{"Cargo.toml", "package.json", ".git"},
		MarkerGroups: [][]string{{AnyEntry}},
	},
}

// byName maps every accepted basename to its kind. Basenames are unique
// across kinds, so a single-valued map suffices.
var byName = func() map[string]Kind {
	m := make(map[string]Kind)
	for k, r := range rules {
		for _, n := range r.Names {
			m[n] = k
		}
	}
	return m
}()

// LookupName returns the kind claiming the given directory basename, if any.
// This is the cheap first-stage filter the scanner applies to every
// directory it visits; no filesystem I/O happens here.
func LookupName(name string) (Kind, bool) {
	k, ok := byName[name]
	return k, ok
}
