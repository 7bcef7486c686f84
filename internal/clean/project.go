// Package clean drives per-project cleanup: validate the project with its
// own toolchain, then delete its build caches through the artifact package.
package clean

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/scour/internal/artifact"
)

// metadataTimeout caps the cargo metadata call. A hung toolchain otherwise
// stalls its project forever; timing out counts as a validation failure.
const metadataTimeout = 120 * time.Second

// targetVariants are the Cargo build-cache directory names cleaned per
// project.
var targetVariants = []string{"target", "target-ra"}

// Status is the terminal outcome of processing one project. Exactly one
// holds per project.
type Status int

const (
	// StatusSuccess: the project validated (or validation was bypassed) and
	// its build caches were removed, or would be in dry-run.
	StatusSuccess Status = iota
	// StatusTargetOnly: validation failed but the target directory was
	// still removed, leaving the broken project untouched.
	StatusTargetOnly
	// StatusSkipped: validation failed in strict mode; nothing was touched.
	StatusSkipped
	// StatusFailed: a deletion error occurred.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTargetOnly:
		return "target-only"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result pairs a project path with its outcome. Freed is only meaningful
// when FreedKnown is true; dry runs and projects without a build cache
// report no measurement.
type Result struct {
	ProjectPath string
	Status      Status
	Freed       int64
	FreedKnown  bool
	Reason      string
}

// Space returns the bytes freed for this project, if any were measured.
func (r Result) Space() (int64, bool) {
	return r.Freed, r.FreedKnown && (r.Status == StatusSuccess || r.Status == StatusTargetOnly)
}

// Options controls how projects are processed.
type Options struct {
	// DryRun reports what would happen without deleting or measuring.
	DryRun bool
	// Force bypasses project validation entirely.
	Force bool
	// Strict skips projects that fail validation instead of falling back
	// to target-only cleaning.
	Strict bool
}

// Cleaner processes owning projects one at a time. Projects are independent;
// a Cleaner may be shared across goroutines as long as Validate is.
type Cleaner struct {
	opts Options

	// Validate checks that dir is a loadable project. Overridable in tests;
	// defaults to ValidateProject.
	Validate func(dir string) error
}

// New returns a Cleaner with the given options and the cargo-backed
// validator.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts, Validate: ValidateProject}
}

// CleanProject runs the per-project state machine:
//
//	validate → valid   → dry-run report | delete all target variants
//	         → invalid → strict: skip | otherwise: delete target only
//
// Every path re-validates through the artifact classifier before deleting,
// so a project that changed since discovery is handled on current evidence.
func (c *Cleaner) CleanProject(dir string) Result {
	targetPath := filepath.Join(dir, "target")

	if !c.opts.Force {
		if err := c.Validate(dir); err != nil {
			reason := err.Error()
			if !c.opts.Strict && artifact.Matches(artifact.KindRustTarget, targetPath) {
				return c.cleanTargetOnly(dir, targetPath, reason)
			}
			return Result{ProjectPath: dir, Status: StatusSkipped, Reason: reason}
		}
	}

	if c.opts.DryRun {
		return Result{ProjectPath: dir, Status: StatusSuccess}
	}

	var total int64
	var found bool
	for _, variant := range targetVariants {
		freed, ok, err := artifact.RemoveOwnedTarget(filepath.Join(dir, variant), false)
		if err != nil {
			return Result{ProjectPath: dir, Status: StatusFailed, Reason: err.Error()}
		}
		if ok {
			found = true
			total += freed
		}
	}
	return Result{ProjectPath: dir, Status: StatusSuccess, Freed: total, FreedKnown: found}
}

// cleanTargetOnly removes just the build cache of a project whose metadata
// failed to validate. The surrounding project is left alone.
func (c *Cleaner) cleanTargetOnly(dir, targetPath, reason string) Result {
	if c.opts.DryRun {
		return Result{ProjectPath: dir, Status: StatusTargetOnly, Reason: reason}
	}

	freed, ok, err := artifact.RemoveOwnedTarget(targetPath, false)
	if err != nil {
		return Result{ProjectPath: dir, Status: StatusFailed, Reason: err.Error()}
	}
	if !ok {
		// The target vanished (or its ownership changed) between the
		// classifier check and the delete. Nothing to free.
		return Result{ProjectPath: dir, Status: StatusTargetOnly, Reason: reason}
	}
	return Result{ProjectPath: dir, Status: StatusTargetOnly, Freed: freed, FreedKnown: true, Reason: reason}
}

// ValidateProject asks cargo to parse the project metadata without building
// anything. A non-zero exit (or a timeout) is a validation failure carrying
// the first line of cargo's diagnostic.
func ValidateProject(dir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "cargo", "metadata", "--format-version=1", "--no-deps")
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.New("cargo metadata timed out")
		}
		if first := firstLine(stderr.String()); first != "" {
			return errors.New(first)
		}
		return errors.New("invalid project: " + err.Error())
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
