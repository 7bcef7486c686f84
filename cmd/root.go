// Package cmd wires the CLI surface: flag parsing, bucket selection,
// confirmation, and the run loop over everything discovery found.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/scour/internal/artifact"
	"github.com/lakshaymaurya-felt/scour/internal/clean"
	"github.com/lakshaymaurya-felt/scour/internal/config"
	"github.com/lakshaymaurya-felt/scour/internal/runlog"
	"github.com/lakshaymaurya-felt/scour/internal/scan"
	"github.com/lakshaymaurya-felt/scour/internal/ui"
	"github.com/lakshaymaurya-felt/scour/internal/volume"
)

var (
	dryRun    bool
	verbose   bool
	noConfirm bool
	force     bool
	strict    bool

	orphanedOnly bool
	rustOnly     bool
	nodeOnly     bool
	pythonOnly   bool
	sccacheOnly  bool
	haskellOnly  bool
	rustupOnly   bool
	nextOnly     bool
	cargoNixOnly bool

	logFile string

	// Version info populated from main.
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "scour [path]",
	Short: "Find and clean project build artifacts",
	Long: `Scour - project artifact cleaner.

Recursively finds disposable build and dependency directories (Cargo target,
node_modules, Python venvs, sccache, Stack work dirs, rustup toolchains,
Next.js builds, cargo-nix caches), verifies each one really is an artifact,
and deletes it after confirmation.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClean,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(ui.Danger("Error: " + err.Error()))
	}
	return err
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be cleaned without executing")
	f.BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	f.BoolVarP(&noConfirm, "no-confirm", "y", false, "Skip confirmation prompts")
	f.BoolVarP(&force, "force", "f", false, "Clean even if project validation fails")
	f.BoolVarP(&strict, "strict", "s", false, "Skip projects with invalid configurations entirely")

	f.BoolVar(&orphanedOnly, "orphaned-only", false, "Clean only orphaned target directories (no parent Cargo.toml)")
	f.BoolVar(&rustOnly, "rust-only", false, "Clean only Rust projects and artifacts")
	f.BoolVar(&nodeOnly, "node-only", false, "Clean only node_modules directories")
	f.BoolVar(&pythonOnly, "python-only", false, "Clean only Python virtual environments")
	f.BoolVar(&sccacheOnly, "sccache-only", false, "Clean only sccache directories")
	f.BoolVar(&haskellOnly, "haskell-only", false, "Clean only Haskell Stack work directories")
	f.BoolVar(&rustupOnly, "rustup-only", false, "Clean only rustup toolchain directories")
	f.BoolVar(&nextOnly, "next-only", false, "Clean only Next.js build directories")
	f.BoolVar(&cargoNixOnly, "cargo-nix-only", false, "Clean only cargo-nix directories")

	f.StringVar(&logFile, "log-file", "", "Custom log file path (default: <cache-dir>/scour/clean-<timestamp>.log)")

	rootCmd.MarkFlagsMutuallyExclusive(
		"orphaned-only", "rust-only", "node-only", "python-only", "sccache-only",
		"haskell-only", "rustup-only", "next-only", "cargo-nix-only",
	)

	rootCmd.AddCommand(versionCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := runlog.New(logFile, cfg.LogDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	root, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("resolve target directory %s: %w", target, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	fmt.Println(ui.Title("Scour - project artifact cleaner"))
	fmt.Println()
	if verbose {
		fmt.Println(ui.Muted("Searching for project artifacts in: " + root))
	}

	scanner := scan.NewScanner(cfg.Workers, cfg.Exclude)
	var found *scan.Discovered
	var scanErr error
	ui.RunWithSpinner("Scanning "+root, scanner.Visited, func() {
		found, scanErr = scanner.Scan(root)
	})
	if scanErr != nil {
		return scanErr
	}
	if verbose {
		for _, w := range scanner.Warnings() {
			fmt.Println(ui.Muted("warning: " + w))
		}
	}

	plan := selectBuckets(found)
	if plan.Empty() {
		fmt.Println(ui.Warning("No artifacts found."))
		logger.Found("projects", nil)
		return nil
	}

	announce(plan, logger)

	if !noConfirm && !dryRun {
		ok, err := ui.Confirm("\nProceed with cleaning?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.Danger("Aborted."))
			return nil
		}
	}
	fmt.Println()

	logger.Start()
	before, beforeErr := volume.Stat(root)

	summary := runlog.Summary{Projects: len(plan.Projects)}
	cleaner := clean.New(clean.Options{DryRun: dryRun, Force: force, Strict: strict})
	for _, project := range plan.Projects {
		res := cleaner.CleanProject(project)
		printProjectResult(res)
		switch res.Status {
		case clean.StatusSuccess:
			summary.Success++
			logger.Success(res.ProjectPath, res.Freed, res.FreedKnown)
		case clean.StatusTargetOnly:
			summary.TargetOnly++
			logger.TargetOnly(res.ProjectPath, res.Freed, res.Reason)
		case clean.StatusSkipped:
			summary.Skipped++
			logger.Skipped(res.ProjectPath, res.Reason)
		case clean.StatusFailed:
			summary.Failed++
			logger.Failed(res.ProjectPath, res.Reason)
		}
		if n, ok := res.Space(); ok {
			summary.TotalFreed += n
		}
	}

	cleanBuckets(plan, logger, &summary)

	printSummary(plan, summary)
	if beforeErr == nil && !dryRun {
		if after, err := volume.Stat(root); err == nil {
			fmt.Printf("         volume free space: %s %s %s\n",
				ui.FormatBytes(int64(before.Free)), ui.Muted("->"), ui.FormatBytes(int64(after.Free)))
		}
	}

	logger.WriteSummary(summary)

	fmt.Println()
	fmt.Println(ui.Muted("Log file: " + logger.Path()))
	return nil
}

// selectBuckets narrows discovery output to the buckets the mode flags ask
// for. No selector means everything.
func selectBuckets(d *scan.Discovered) *scan.Discovered {
	switch {
	case orphanedOnly:
		return &scan.Discovered{OrphanedTargets: d.OrphanedTargets}
	case rustOnly:
		return &scan.Discovered{Projects: d.Projects, OrphanedTargets: d.OrphanedTargets}
	case nodeOnly:
		return &scan.Discovered{NodeModules: d.NodeModules}
	case pythonOnly:
		return &scan.Discovered{PythonVenvs: d.PythonVenvs}
	case sccacheOnly:
		return &scan.Discovered{SccacheDirs: d.SccacheDirs}
	case haskellOnly:
		return &scan.Discovered{StackWorkDirs: d.StackWorkDirs}
	case rustupOnly:
		return &scan.Discovered{RustupDirs: d.RustupDirs}
	case nextOnly:
		return &scan.Discovered{NextDirs: d.NextDirs}
	case cargoNixOnly:
		return &scan.Discovered{CargoNixDirs: d.CargoNixDirs}
	default:
		return d
	}
}

// announce prints and logs what discovery found.
func announce(plan *scan.Discovered, logger *runlog.Logger) {
	logger.Found("projects", plan.Projects)
	if len(plan.Projects) > 0 {
		fmt.Printf("%s %d %s\n", ui.Success("Found"), len(plan.Projects),
			plural(len(plan.Projects), "Rust project", "Rust projects"))
		listPaths(plan.Projects, verbose)
	}

	type foundBucket struct {
		paths    []string
		label    string
		singular string
		plural   string
		listAll  bool
	}
	buckets := []foundBucket{
		{plan.OrphanedTargets, "orphaned target directories", "orphaned target directory", "orphaned target directories", verbose || orphanedOnly},
		{plan.NodeModules, "node_modules directories", "node_modules directory", "node_modules directories", verbose},
		{plan.PythonVenvs, "Python virtual environments", "Python virtual environment", "Python virtual environments", verbose},
		{plan.SccacheDirs, "sccache directories", "sccache directory", "sccache directories", verbose},
		{plan.StackWorkDirs, "Stack work directories", "Stack work directory", "Stack work directories", verbose},
		{plan.RustupDirs, "rustup directories", "rustup directory", "rustup directories", verbose},
		{plan.NextDirs, "Next.js build directories", "Next.js build directory", "Next.js build directories", verbose},
		{plan.CargoNixDirs, "cargo-nix directories", "cargo-nix directory", "cargo-nix directories", verbose},
	}
	for _, b := range buckets {
		if len(b.paths) == 0 {
			continue
		}
		fmt.Printf("%s %d %s\n", ui.Success("Found"), len(b.paths),
			plural(len(b.paths), b.singular, b.plural))
		listPaths(b.paths, b.listAll)
		logger.Found(b.label, b.paths)
	}
}

// cleanBuckets removes every standalone artifact directory in the plan.
// Failures are reported per item and never stop the run.
func cleanBuckets(plan *scan.Discovered, logger *runlog.Logger, summary *runlog.Summary) {
	type bucket struct {
		paths  []string
		tag    string
		suffix string
		remove func(path string, dryRun bool) (int64, bool, error)
		count  *int
	}

	removeKind := func(kind artifact.Kind) func(string, bool) (int64, bool, error) {
		return func(path string, dry bool) (int64, bool, error) {
			return artifact.Remove(kind, path, dry)
		}
	}

	buckets := []bucket{
		{plan.OrphanedTargets, "ORPHANED", " (orphaned)", artifact.RemoveOrphanedTarget, &summary.Orphaned},
		{plan.NodeModules, "NODE_MODULES", "", removeKind(artifact.KindNodeModules), &summary.NodeModules},
		{plan.PythonVenvs, "PYTHON_VENV", "", removeKind(artifact.KindPythonVenv), &summary.Venvs},
		{plan.SccacheDirs, "SCCACHE", "", removeKind(artifact.KindSccache), &summary.Sccache},
		{plan.StackWorkDirs, "STACK_WORK", "", removeKind(artifact.KindStackWork), &summary.StackWork},
		{plan.RustupDirs, "RUSTUP", "", removeKind(artifact.KindRustup), &summary.Rustup},
		{plan.NextDirs, "NEXT", "", removeKind(artifact.KindNextBuild), &summary.Next},
		{plan.CargoNixDirs, "CARGO_NIX", "", removeKind(artifact.KindCargoNix), &summary.CargoNix},
	}

	for _, b := range buckets {
		for _, path := range b.paths {
			if dryRun {
				fmt.Printf("%s %s\n", ui.Warning("[DRY RUN "+b.tag+"]"), path)
				continue
			}
			freed, ok, err := b.remove(path, false)
			if err != nil {
				fmt.Printf("%s %s - %s\n", ui.Danger(ui.IconFail), path, err.Error())
				logger.Failed(path, err.Error())
				continue
			}
			if !ok {
				// Already gone, likely nested under something removed
				// earlier in this run.
				if verbose {
					fmt.Println(ui.Muted(ui.IconSkip + " " + path + " (already removed)"))
				}
				continue
			}
			*b.count++
			summary.TotalFreed += freed
			fmt.Printf("%s %s%s\n", ui.Success(ui.IconOrphan), path, ui.Muted(b.suffix))
			logger.Cleaned(b.tag, path, freed)
		}
	}
}

func printProjectResult(r clean.Result) {
	switch r.Status {
	case clean.StatusSuccess:
		if dryRun {
			fmt.Printf("%s %s\n", ui.Warning("[DRY RUN]"), r.ProjectPath)
			return
		}
		fmt.Printf("%s %s\n", ui.Success(ui.IconOK), r.ProjectPath)
	case clean.StatusTargetOnly:
		fmt.Printf("%s %s%s\n", ui.Warning(ui.IconPartial), r.ProjectPath, ui.Muted(" (target only)"))
	case clean.StatusSkipped:
		if verbose {
			fmt.Printf("%s %s - %s\n", ui.Warning(ui.IconSkip), r.ProjectPath, r.Reason)
		}
	case clean.StatusFailed:
		fmt.Printf("%s %s - %s\n", ui.Danger(ui.IconFail), r.ProjectPath, r.Reason)
	}
}

func printSummary(plan *scan.Discovered, s runlog.Summary) {
	fmt.Println()

	if dryRun {
		total := plan.Total()
		fmt.Printf("%s %d %s would be cleaned\n", ui.Bold("Summary:"), total,
			plural(total, "item", "items"))
		return
	}

	fmt.Println(ui.Bold(ui.Success("Summary:")))

	line := func(n int, singular, pluralForm string) {
		if n > 0 {
			fmt.Printf("         %d %s\n", n, plural(n, singular, pluralForm))
		}
	}
	line(s.Success, "Rust project cleaned", "Rust projects cleaned")
	line(s.TargetOnly, "Rust project cleaned (target only - invalid config)", "Rust projects cleaned (target only - invalid config)")
	line(s.Orphaned, "orphaned target cleaned", "orphaned targets cleaned")
	line(s.NodeModules, "node_modules directory", "node_modules directories")
	line(s.Venvs, "Python venv", "Python venvs")
	line(s.Sccache, "sccache directory", "sccache directories")
	line(s.StackWork, "Stack work directory", "Stack work directories")
	line(s.Rustup, "rustup directory", "rustup directories")
	line(s.Next, "Next.js build", "Next.js builds")
	line(s.CargoNix, "cargo-nix directory", "cargo-nix directories")

	if s.TotalFreed > 0 {
		fmt.Printf("         %s total space freed\n", ui.Bold(ui.FormatBytes(s.TotalFreed)))
	}
	line(s.Skipped, "project skipped (invalid configuration)", "projects skipped (invalid configuration)")
	if s.Failed > 0 {
		fmt.Printf("         %s\n", ui.Danger(fmt.Sprintf("%d %s failed", s.Failed,
			plural(s.Failed, "project", "projects"))))
	}
}

func listPaths(paths []string, show bool) {
	if !show {
		return
	}
	for _, p := range paths {
		fmt.Println("  " + p)
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
