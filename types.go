package unusedres

import (
	"fmt"
	"io"

	"github.com/mwtools/unusedres/internal/corpus"
	"github.com/mwtools/unusedres/internal/history"
	"github.com/mwtools/unusedres/internal/less"
)

// Progress receives one tick per finished history lookup.
type Progress interface {
	Tick()
	Finish()
}

// ProgressFunc starts progress reporting for total lookups.
type ProgressFunc func(label string, total int) Progress

// Corpus selects the files a check reads.
type Corpus struct {
	Root          string   // Repository root; globs are relative to it
	ResourceFiles []string // Declaration files (stylesheets or catalogs)
	SourceFiles   []string // Files searched for references
	IgnoreFiles   []string // Excluded from both
	Gitignore     bool     // Also exclude paths matched by Root/.gitignore
}

// Runtime holds the collaborators and knobs shared by every check.
type Runtime struct {
	// Searcher traces unused identifiers in history. Nil disables the
	// lookup.
	Searcher history.Searcher
	// Jobs bounds parallel lookups and compilations. Zero means 2x NumCPU.
	Jobs int
	// Progress is called before history lookups start. Optional.
	Progress ProgressFunc
	// Log receives progress lines. Nil discards them.
	Log io.Writer
	// Verbose adds per-file lines to Log.
	Verbose bool
}

func (rt Runtime) logf(format string, args ...any) {
	if rt.Log == nil {
		return
	}
	fmt.Fprintf(rt.Log, format+"\n", args...)
}

func (rt Runtime) debugf(format string, args ...any) {
	if rt.Verbose {
		rt.logf(format, args...)
	}
}

// CSSConfig configures CheckCSS.
type CSSConfig struct {
	Corpus
	Runtime

	// IgnorePrefixes exclude class names from consideration entirely.
	IgnorePrefixes []string
	// KeepComments disables stripping /* */ comments before extraction.
	KeepComments bool
	// Undeclared enables the used-but-undeclared direction.
	Undeclared bool
	// Compiler compiles .less files. Nil scans LESS sources uncompiled.
	Compiler less.Compiler
}

// MessagesConfig configures CheckMessages.
type MessagesConfig struct {
	Corpus
	Runtime

	// IgnorePrefixes exclude keys from consideration entirely.
	IgnorePrefixes []string
}

// ModulesConfig configures CheckModuleMessages.
type ModulesConfig struct {
	Root        string
	IgnoreFiles []string // Applied to the glob fallback for script paths
	// Namespaces are the aliases recognised in <ns>.msg('key') calls.
	// Nil means "ve" and "mw".
	Namespaces []string
	Log        io.Writer
	Verbose    bool
}

// Finding is one declared identifier that nothing uses.
type Finding struct {
	ID     string
	Value  string          // Base-locale text (messages only)
	Doc    string          // Documentation text (messages only)
	Record *history.Record // Nil when not found or history was not searched
}

// Provenance summarizes the history lookup of a check.
type Provenance struct {
	Searched bool
	Groups   []history.Group
	Failed   int // Lookups that errored and count as not found
}

// CSSResult is the outcome of CheckCSS.
type CSSResult struct {
	Declared   int // Candidate classes after prefix exclusion
	Unused     []Finding
	Undeclared []Issue
	History    Provenance
	Stats      corpus.Stats
	Warnings   []string
}

// HasFindings reports whether any unused class was found.
func (r *CSSResult) HasFindings() bool {
	return len(r.Unused) > 0
}

// MessagesResult is the outcome of CheckMessages.
type MessagesResult struct {
	Total    int // Candidate keys after prefix exclusion
	Unused   []Finding
	History  Provenance
	Stats    corpus.Stats
	Warnings []string
}

// HasFindings reports whether any unused key was found.
func (r *MessagesResult) HasFindings() bool {
	return len(r.Unused) > 0
}

// ModuleReport lists the mismatches of one ResourceLoader module.
type ModuleReport struct {
	Name          string
	LoadedNotUsed []string
	UsedNotLoaded []string
}

// ModulesResult is the outcome of CheckModuleMessages.
type ModulesResult struct {
	Descriptor string
	Modules    []ModuleReport // Only modules with at least one mismatch
	Checked    int
	Skipped    []string
	Warnings   []string
}

// HasFindings reports whether any module has a mismatch.
func (r *ModulesResult) HasFindings() bool {
	return len(r.Modules) > 0
}
