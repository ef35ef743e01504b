// Package report renders findings to a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mwtools/unusedres/internal/history"
)

// detailIndent aligns continuation lines under the value column of
// "  last seen: " style detail lines.
var detailIndent = strings.Repeat(" ", 13)

// Reporter writes findings to w.
type Reporter struct {
	w         io.Writer
	useColors bool
}

// New creates a reporter. Colors are decided by ShouldUseColors.
func New(w io.Writer, forceColors bool) *Reporter {
	return &Reporter{w: w, useColors: ShouldUseColors(w, forceColors)}
}

// NewPlain creates a reporter that never emits escape codes.
func NewPlain(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// ShouldUseColors determines if colors should be enabled for w.
func ShouldUseColors(w io.Writer, force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if fileInfo, err := f.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// Line prints text followed by a newline.
func (r *Reporter) Line(text string) {
	fmt.Fprintln(r.w, text)
}

// Warning prints a yellow header surrounded by blank lines.
func (r *Reporter) Warning(text string) {
	fmt.Fprintf(r.w, "\n%s\n\n", RenderStyle(StyleYellow, text, r.useColors))
}

// Success prints a green line preceded by a blank line.
func (r *Reporter) Success(text string) {
	fmt.Fprintf(r.w, "\n%s\n", RenderStyle(StyleGreen, text, r.useColors))
}

// Item prints a "* name" finding line.
func (r *Reporter) Item(name string) {
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "* "+name, r.useColors))
}

// Detail prints a right-aligned label with a dimmed value. Newlines in
// the value are indented under the value column.
func (r *Reporter) Detail(label, value string) {
	value = strings.ReplaceAll(value, "\n", "\n"+detailIndent)
	fmt.Fprintf(r.w, "%11s: %s\n", label, RenderStyle(StyleDim, value, r.useColors))
}

// Provenance prints where an identifier was last seen, or that it was not
// found in history.
func (r *Reporter) Provenance(rec *history.Record) {
	if rec == nil {
		fmt.Fprintln(r.w, RenderStyle(StyleRed, detailIndent+"not found in git history", r.useColors))
		return
	}
	r.Detail("last seen", rec.Hash)
	r.Detail("subject", rec.Subject)
	r.Detail("files", strings.Join(rec.Files, "\n"))
}

// Groups prints identifiers grouped by last-seen commit. Nothing is
// printed when there are no groups.
func (r *Reporter) Groups(title string, groups []history.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(r.w, "%s\n\n", title)
	for _, g := range groups {
		fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleYellow, "* "+g.Record.Hash, r.useColors), g.Record.Subject)
		for _, id := range g.Identifiers {
			fmt.Fprintf(r.w, "   - %s\n", id)
		}
	}
}

// Module prints the per-module mismatch block. Nothing is printed when
// both lists are empty.
func (r *Reporter) Module(name string, loadedNotUsed, usedNotLoaded []string) {
	if len(loadedNotUsed) == 0 && len(usedNotLoaded) == 0 {
		return
	}
	fmt.Fprintf(r.w, "\n%s\n", RenderStyle(StyleCyan, "ResourceLoader module: "+name, r.useColors))
	if len(loadedNotUsed) > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, "  Messages loaded but not used in scripts:", r.useColors))
		for _, msg := range loadedNotUsed {
			fmt.Fprintf(r.w, "    - %s\n", msg)
		}
	}
	if len(usedNotLoaded) > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, "  Messages used in scripts but not loaded:", r.useColors))
		for _, msg := range usedNotLoaded {
			fmt.Fprintf(r.w, "    - %s\n", msg)
		}
	}
}

// Warnings prints recovered problems, one per line.
func (r *Reporter) Warnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow, w, r.useColors))
	}
}

// Position identifies a location in a source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// Issue prints a positioned finding in golangci-lint style, followed by the
// source line and a caret under the column when source is not empty.
func (r *Reporter) Issue(pos Position, text, source string) {
	location := fmt.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column)
	fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleCyan, location, r.useColors), text)

	if source == "" {
		return
	}
	fmt.Fprintf(r.w, "\t%s\n", source)
	caret := buildCaretIndicator(source, pos.Column)
	fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
}

// buildCaretIndicator creates the "^" indicator aligned with the column.
// Tabs in the prefix are kept so the caret lines up in any tab width.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	// Extract the prefix up to the column (0-based index = column - 1)
	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	prefix := sourceLine[:prefixLen]

	var padding strings.Builder
	for _, ch := range prefix {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}

	return padding.String() + "^"
}

// PluralizeCount returns a formatted string with count and singular/plural form
func PluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
