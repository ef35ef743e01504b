// Package cli builds the cobra commands behind the unused-css,
// unused-messages and unloaded-messages binaries.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mwtools/unusedres"
	"github.com/mwtools/unusedres/internal/config"
	"github.com/mwtools/unusedres/internal/history"
	"github.com/mwtools/unusedres/internal/report"
)

// Exit codes returned by Execute.
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitFatal    = 2
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/mwtools/unusedres/internal/cli.version=1.0.0" ./cmd/unused-css
var version = "dev"

// ExitError carries the process exit code out of a command. Err may be
// nil when the findings were already reported.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Env is the process environment a command runs in.
type Env struct {
	Dir    string // Repository root; defaults to the working directory
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv runs in the working directory with the process streams.
func DefaultEnv() Env {
	return Env{Dir: ".", Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e Env) dir() string {
	if e.Dir == "" {
		return "."
	}
	return e.Dir
}

// Execute runs cmd with args and maps the outcome to an exit code.
// Errors other than ExitError are printed to stderr and are fatal.
func Execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return ExitFatal
}

// newCommand returns a root command with the settings shared by every
// binary.
func newCommand(env Env, use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)
	return cmd
}

// addCommonFlags registers the flags every check accepts.
func addCommonFlags(fs *pflag.FlagSet, d config.Defaults) {
	fs.String("config", config.DefaultFile, "Config file path (.json, .yaml or .toml)")
	fs.StringArray("ignore-files", d.IgnoreFiles, "Glob patterns excluded from every search")
	fs.Bool("strict", false, "Exit 1 on any finding (CI mode)")
	fs.Bool("color", false, "Force color output")
	fs.Bool("quiet", false, "Suppress progress output")
	fs.BoolP("verbose", "v", false, "List every file read")
}

// addCorpusFlags registers the flags of the checks that scan a corpus and
// search git history.
func addCorpusFlags(fs *pflag.FlagSet, d config.Defaults) {
	fs.StringArray("resource-files", d.ResourceFiles, "Glob patterns of declaration files")
	fs.StringArray("source-files", d.SourceFiles, "Glob patterns of files searched for references")
	fs.StringSlice("ignore-prefixes", d.IgnorePrefixes, "Identifier prefixes never reported")
	fs.Bool("gitignore", false, "Also skip paths matched by .gitignore")
	fs.Bool("git", d.Git, "Look up the last commit of every unused identifier")
	fs.Bool("no-git", false, "Disable the git history lookup")
	fs.String("git-backend", history.BackendAuto, "Git backend: auto, cli or go-git")
	fs.IntP("jobs", "j", 0, "Parallel git lookups and LESS compilations (0 = 2x CPUs)")
}

// loadOptions layers defaults, the config file, the environment and the
// flags of cmd.
func loadOptions(cmd *cobra.Command, env Env, kind config.Kind) (config.Options, error) {
	dir := env.dir()
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultFile
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(dir, configPath)
	}

	l := config.New(kind)
	if err := l.LoadFile(configPath); err != nil {
		return config.Options{}, err
	}
	if err := l.LoadEnv(); err != nil {
		return config.Options{}, err
	}
	if err := l.LoadFlags(cmd.Flags()); err != nil {
		return config.Options{}, err
	}
	return l.Options(), nil
}

// newRuntime wires the history searcher, progress bar and log stream.
// A repository that cannot be opened disables the history lookup with a
// warning; only an unknown backend name is an error.
func newRuntime(env Env, opts config.Options, filter history.FileFilter) (unusedres.Runtime, []string, error) {
	rt := unusedres.Runtime{
		Jobs:    opts.Jobs,
		Verbose: opts.Verbose,
	}
	if !opts.Quiet {
		rt.Log = env.Stderr
		rt.Progress = func(label string, total int) unusedres.Progress {
			return report.NewTracker(env.Stderr, label, total)
		}
	}

	if opts.Git {
		searcher, err := history.NewSearcher(opts.GitBackend, env.dir(), filter)
		switch {
		case errors.Is(err, history.ErrUnknownBackend):
			return rt, nil, err
		case err != nil:
			return rt, []string{fmt.Sprintf("git history lookup disabled: %v", err)}, nil
		}
		rt.Searcher = searcher
	}
	return rt, nil, nil
}

func corpusOf(env Env, opts config.Options) unusedres.Corpus {
	return unusedres.Corpus{
		Root:          env.dir(),
		ResourceFiles: opts.ResourceFiles,
		SourceFiles:   opts.SourceFiles,
		IgnoreFiles:   opts.IgnoreFiles,
		Gitignore:     opts.Gitignore,
	}
}

// fatal wraps an error that ends the run before a report is written.
func fatal(err error) error {
	return &ExitError{Code: ExitFatal, Err: err}
}

// gate returns the findings exit error when findings should fail the run.
func gate(findings, gating bool) error {
	if findings && gating {
		return &ExitError{Code: ExitFindings}
	}
	return nil
}
