package unusedres

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/mwtools/unusedres/internal/corpus"
	"github.com/mwtools/unusedres/internal/extract"
	"github.com/mwtools/unusedres/internal/less"
	"github.com/mwtools/unusedres/internal/match"
)

// CheckCSS reports declared classes that no source file references and,
// when cfg.Undeclared is set, class references with no declaration.
func CheckCSS(ctx context.Context, cfg CSSConfig) (*CSSResult, error) {
	result := &CSSResult{}

	cfg.logf("Finding style files...")
	styleFiles, stats, err := corpus.Resolve(corpus.Options{
		Root:      cfg.Root,
		Include:   cfg.ResourceFiles,
		Ignore:    cfg.IgnoreFiles,
		Gitignore: cfg.Gitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve stylesheets: %w", err)
	}

	stylesheets, warnings, err := loadStylesheets(ctx, cfg, styleFiles)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	// Declared classes, in order of first declaration
	declared := match.NewSet()
	for _, text := range stylesheets {
		if !cfg.KeepComments {
			text = extract.StripComments(text)
		}
		for _, name := range extract.ClassNames(text) {
			if extract.IsCandidateClass(name, cfg.IgnorePrefixes) {
				declared.Add(name)
			}
		}
	}
	result.Declared = declared.Len()

	cfg.logf("Searching code for CSS class names...")
	sourceFiles, sourceStats, err := corpus.Resolve(corpus.Options{
		Root:      cfg.Root,
		Include:   cfg.SourceFiles,
		Ignore:    cfg.IgnoreFiles,
		Gitignore: cfg.Gitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve source files: %w", err)
	}
	result.Stats = mergeStats(stats, sourceStats)

	usage := match.NewUsage(declared, match.CSSClassChars)
	for _, file := range sourceFiles {
		content, err := corpus.ReadFile(cfg.Root, file)
		if err != nil {
			return nil, err
		}
		cfg.debugf("  %s", file)
		usage.Scan(content)

		if cfg.Undeclared {
			result.Undeclared = append(result.Undeclared,
				undeclaredReferences(file, content, declared, cfg.IgnorePrefixes)...)
		}
	}
	sortIssues(result.Undeclared)

	for _, name := range usage.Unused() {
		result.Unused = append(result.Unused, Finding{ID: name})
	}

	prov, warnings := cfg.trace(ctx, "CSS classes", result.Unused)
	result.History = prov
	result.Warnings = append(result.Warnings, warnings...)

	return result, nil
}

// loadStylesheets reads every stylesheet and compiles the LESS ones.
// Compilation failures become warnings and contribute no classes.
func loadStylesheets(ctx context.Context, cfg CSSConfig, files []string) ([]string, []string, error) {
	texts := make([]string, len(files))
	var lessSources []less.Source
	var lessIndex []int
	var warnings []string

	for i, file := range files {
		content, err := corpus.ReadFile(cfg.Root, file)
		if err != nil {
			return nil, nil, err
		}
		cfg.debugf("  %s", file)

		if cfg.Compiler != nil && strings.EqualFold(path.Ext(file), ".less") {
			lessSources = append(lessSources, less.Source{File: file, Text: content})
			lessIndex = append(lessIndex, i)
			continue
		}
		texts[i] = content
	}

	for j, res := range less.CompileAll(ctx, cfg.Compiler, lessSources, cfg.Jobs) {
		if res.Err != nil {
			warnings = append(warnings, fmt.Sprintf("Error processing LESS content: %v", res.Err))
			continue
		}
		texts[lessIndex[j]] = res.CSS
	}

	return texts, warnings, nil
}

// undeclaredReferences returns the class references in one source file
// that no stylesheet declares.
func undeclaredReferences(file, content string, declared *match.Set, ignorePrefixes []string) []Issue {
	var issues []Issue
	for _, ref := range extract.ScanReferences(file, content) {
		if declared.Has(ref.ClassName) || !extract.IsCandidateClass(ref.ClassName, ignorePrefixes) {
			continue
		}
		issues = append(issues, Issue{
			ClassName: ref.ClassName,
			Text:      fmt.Sprintf(IssueUndeclaredClass, ref.ClassName),
			Pos: IssuePos{
				Filename: ref.Location.File,
				Line:     ref.Location.Line,
				Column:   ref.Location.Column,
			},
			SourceLine: ref.Location.Text,
		})
	}
	return issues
}

func mergeStats(a, b corpus.Stats) corpus.Stats {
	return corpus.Stats{
		FilesDiscovered: a.FilesDiscovered + b.FilesDiscovered,
		FilesIgnored:    a.FilesIgnored + b.FilesIgnored,
		FilesResolved:   a.FilesResolved + b.FilesResolved,
	}
}
