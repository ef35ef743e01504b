// Package less compiles LESS sources to CSS through an external compiler.
package less

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

// DefaultBinary is the compiler executable looked up on PATH.
const DefaultBinary = "lessc"

// MediaWikiIncludeDirs are resolved against a MediaWiki install path so
// that skin and extension LESS can import core mixins.
var MediaWikiIncludeDirs = []string{
	"resources/src/mediawiki.less/mediawiki.ui/",
	"resources/src/mediawiki.less/",
}

// Compiler turns LESS source into CSS.
type Compiler interface {
	Compile(ctx context.Context, filename, source string) (string, error)
}

// Source is one LESS file to compile.
type Source struct {
	File string // Path relative to Dir, used for messages and imports
	Text string
}

// Result is the outcome of compiling one Source. CSS is empty when Err
// is set.
type Result struct {
	File string
	CSS  string
	Err  error
}

// Lessc runs the lessc command line compiler with the source on stdin.
type Lessc struct {
	Binary       string
	Dir          string // Repository root; relative imports resolve from the file's directory
	IncludePaths []string
}

// IncludePaths returns the include directories for a MediaWiki install,
// or nil when mwInstallPath is empty.
func IncludePaths(mwInstallPath string) []string {
	if mwInstallPath == "" {
		return nil
	}
	paths := make([]string, 0, len(MediaWikiIncludeDirs))
	for _, dir := range MediaWikiIncludeDirs {
		paths = append(paths, filepath.Join(mwInstallPath, filepath.FromSlash(dir)))
	}
	return paths
}

// Available reports an error when the compiler binary cannot be found.
func (l *Lessc) Available() error {
	if _, err := exec.LookPath(l.binary()); err != nil {
		return fmt.Errorf("less compiler not available: %w", err)
	}
	return nil
}

func (l *Lessc) binary() string {
	if l.Binary == "" {
		return DefaultBinary
	}
	return l.Binary
}

// Compile implements Compiler.
func (l *Lessc) Compile(ctx context.Context, filename, source string) (string, error) {
	fileDir := filepath.Dir(filepath.Join(l.Dir, filepath.FromSlash(filename)))
	paths := append([]string{fileDir}, l.IncludePaths...)

	cmd := exec.CommandContext(ctx, l.binary(),
		"--no-color",
		"--include-path="+strings.Join(paths, string(os.PathListSeparator)),
		"-",
	)
	cmd.Dir = fileDir
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("compile %s: %w", filename, err)
		}
		return "", fmt.Errorf("compile %s: %w: %s", filename, err, firstLine(msg))
	}
	return stdout.String(), nil
}

// CompileAll compiles sources concurrently with at most workers compilers
// running. Results are in source order. A failed file yields an empty CSS
// string and its error; other files are unaffected.
func CompileAll(ctx context.Context, c Compiler, sources []Source, workers int) []Result {
	if len(sources) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	results := make([]Result, len(sources))
	p := pool.New().WithMaxGoroutines(workers)
	for i, src := range sources {
		p.Go(func() {
			css, err := c.Compile(ctx, src.File, src.Text)
			if err != nil {
				css = ""
			}
			results[i] = Result{File: src.File, CSS: css, Err: err}
		})
	}
	p.Wait()

	return results
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
