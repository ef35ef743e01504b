package unusedres

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mwtools/unusedres/internal/corpus"
	"github.com/mwtools/unusedres/internal/extract"
	"github.com/mwtools/unusedres/internal/match"
)

// CheckMessages reports catalog keys that nothing uses. A key counts as
// used when it appears on identifier boundaries in a source file, in any
// catalog value (messages transclude each other) or among the keys
// derived from the extension or skin descriptor.
func CheckMessages(ctx context.Context, cfg MessagesConfig) (*MessagesResult, error) {
	result := &MessagesResult{}
	root := cfg.Root
	if root == "" {
		root = "."
	}

	cfg.logf("Finding i18n files...")
	catalogFiles, stats, err := corpus.Resolve(corpus.Options{
		Root:      root,
		Include:   cfg.ResourceFiles,
		Ignore:    cfg.IgnoreFiles,
		Gitignore: cfg.Gitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve catalogs: %w", err)
	}

	messages := extract.NewCatalog()
	docs := extract.NewCatalog()
	for _, file := range catalogFiles {
		cfg.debugf("  %s", file)
		full := filepath.Join(root, filepath.FromSlash(file))

		c, err := extract.LoadCatalog(full)
		if err != nil {
			return nil, err
		}
		messages.Merge(c)

		doc, err := extract.LoadOptionalCatalog(extract.DocPath(full))
		if err != nil {
			return nil, err
		}
		docs.Merge(doc)
	}

	descriptors, err := extract.LoadDescriptors(root)
	if err != nil {
		return nil, err
	}

	candidates := match.NewSet()
	for _, key := range messages.Keys() {
		if extract.IsCandidateKey(key, cfg.IgnorePrefixes) {
			candidates.Add(key)
		}
	}
	result.Total = candidates.Len()

	cfg.logf("Searching code for message keys...")
	sourceFiles, sourceStats, err := corpus.Resolve(corpus.Options{
		Root:      root,
		Include:   cfg.SourceFiles,
		Ignore:    cfg.IgnoreFiles,
		Gitignore: cfg.Gitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve source files: %w", err)
	}
	result.Stats = mergeStats(stats, sourceStats)

	usage := match.NewUsage(candidates, match.MessageKeyChars)
	for _, file := range sourceFiles {
		content, err := corpus.ReadFile(root, file)
		if err != nil {
			return nil, err
		}
		cfg.debugf("  %s", file)
		usage.Scan(content)
	}
	usage.Scan(messages.ValuesText())
	usage.Scan(extract.SynthesizedText(descriptors))

	for _, key := range usage.Unused() {
		result.Unused = append(result.Unused, Finding{
			ID:    key,
			Value: messages.Value(key),
			Doc:   docs.Value(key),
		})
	}

	prov, warnings := cfg.trace(ctx, "message keys", result.Unused)
	result.History = prov
	result.Warnings = append(result.Warnings, warnings...)

	return result, nil
}
