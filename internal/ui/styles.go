// Package ui holds the console glue: color tokens, icons, byte formatting,
// the confirmation prompt, and the scan progress spinner.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0ea5e9", Dark: "#38bdf8"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconOK       = "✓"
	IconFail     = "✗"
	IconSkip     = "⊘"
	IconPartial  = "⊙"
	IconOrphan   = "⊗"
	IconFoundDot = "•"
)

// Interactive reports whether stdout is a terminal. Styled rendering and the
// TUI prompt are reserved for interactive runs; piped output stays plain.
var Interactive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// render applies a foreground style only on interactive runs.
func render(c lipgloss.AdaptiveColor, bold bool, s string) string {
	if !Interactive {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(s)
}

// Styled text helpers used across commands.
func Title(s string) string   { return render(ColorPrimary, true, s) }
func Success(s string) string { return render(ColorSuccess, false, s) }
func Warning(s string) string { return render(ColorWarning, false, s) }
func Danger(s string) string  { return render(ColorDanger, false, s) }
func Muted(s string) string   { return render(ColorMuted, false, s) }
func Bold(s string) string {
	if !Interactive {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}
