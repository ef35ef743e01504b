// Package corpus resolves the set of files an analysis reads.
package corpus

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Options controls file resolution.
type Options struct {
	Root      string   // Repository root; "" means the working directory
	Include   []string // Glob patterns, relative to Root
	Ignore    []string // Glob patterns removed from the result
	Gitignore bool     // Also drop paths matched by Root/.gitignore
}

// Stats tracks resolution statistics.
type Stats struct {
	FilesDiscovered int // Files matched by include patterns
	FilesIgnored    int // Files dropped by ignore patterns or .gitignore
	FilesResolved   int // Files returned
}

// Resolve expands the include patterns into a sorted, de-duplicated list
// of slash-separated file paths relative to the root. Directories are
// skipped.
func Resolve(opts Options) ([]string, Stats, error) {
	var stats Stats
	root := opts.Root
	if root == "" {
		root = "."
	}

	for _, pattern := range append(append([]string{}, opts.Include...), opts.Ignore...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gi = loadGitIgnore(root)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range opts.Include {
		matches, err := doublestar.Glob(fsys, path.Clean(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if isIgnored(match, opts.Ignore) || (gi != nil && gi.MatchesPath(match)) {
				stats.FilesIgnored++
				continue
			}
			files = append(files, match)
		}
	}

	sort.Strings(files)
	stats.FilesResolved = len(files)
	return files, stats, nil
}

// isIgnored reports whether p matches any ignore pattern.
func isIgnored(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// loadGitIgnore loads root/.gitignore, or returns nil if there is none.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// ReadFile reads a resolved file. A path that came out of Resolve is
// expected to be readable, so failures are returned to the caller.
func ReadFile(root, rel string) (string, error) {
	if root == "" {
		root = "."
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(data), nil
}

// Exists reports whether rel names an existing regular file under root.
func Exists(root, rel string) bool {
	if root == "" {
		root = "."
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// FirstMatch resolves pattern under root and returns the first file it
// matches, used when a declared path is itself a glob.
func FirstMatch(root, pattern string) (string, bool) {
	if root == "" {
		root = "."
	}
	matches, err := doublestar.Glob(os.DirFS(root), path.Clean(pattern), doublestar.WithFilesOnly())
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
