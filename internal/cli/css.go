package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwtools/unusedres"
	"github.com/mwtools/unusedres/internal/config"
	"github.com/mwtools/unusedres/internal/history"
	"github.com/mwtools/unusedres/internal/less"
)

// NewCSSCommand builds the unused-css command.
func NewCSSCommand(env Env) *cobra.Command {
	cmd := newCommand(env, "unused-css",
		"Find CSS classes that no source file uses",
		`Collects the classes declared in the stylesheets of an extension or skin
and reports those whose names never appear in its sources. LESS files are
compiled with lessc first. Class references in markup and scripts that no
stylesheet declares are reported as well.`)

	d := config.DefaultsFor(config.KindCSS)
	f := cmd.Flags()
	addCommonFlags(f, d)
	addCorpusFlags(f, d)
	f.Bool("keep-comments", false, "Also count classes inside /* */ comments")
	f.Bool("no-undeclared", false, "Skip the used-but-undeclared report")
	f.String("less-binary", less.DefaultBinary, "LESS compiler command")
	f.String("mw-install-path", "", "MediaWiki install used for LESS imports (default $MW_INSTALL_PATH)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts, err := loadOptions(cmd, env, config.KindCSS)
		if err != nil {
			return fatal(err)
		}
		rt, warnings, err := newRuntime(env, opts, history.CSSFilter)
		if err != nil {
			return fatal(err)
		}

		cfg := unusedres.CSSConfig{
			Corpus:         corpusOf(env, opts),
			Runtime:        rt,
			IgnorePrefixes: opts.IgnorePrefixes,
			KeepComments:   opts.KeepComments,
			Undeclared:     !opts.NoUndeclared,
		}

		compiler, lessWarnings := lessCompiler(env, opts)
		cfg.Compiler = compiler
		warnings = append(warnings, lessWarnings...)

		result, err := unusedres.CheckCSS(cmd.Context(), cfg)
		if err != nil {
			return fatal(err)
		}
		result.Warnings = append(warnings, result.Warnings...)

		unusedres.WriteCSSReport(env.Stdout, result, unusedres.ReportOptions{
			Color:    opts.Color,
			Verbose:  opts.Verbose,
			Warnings: env.Stderr,
		})
		return gate(result.HasFindings() || len(result.Undeclared) > 0, opts.Strict)
	}
	return cmd
}

// lessCompiler returns the lessc compiler, or nil with a warning when the
// binary is missing. Nil is also returned when no resource pattern can
// select LESS files.
func lessCompiler(env Env, opts config.Options) (less.Compiler, []string) {
	if !slices.ContainsFunc(opts.ResourceFiles, func(pattern string) bool {
		return strings.Contains(pattern, "less")
	}) {
		return nil, nil
	}

	var warnings []string
	if opts.MWInstallPath == "" {
		warnings = append(warnings, "MW_INSTALL_PATH not defined")
	}

	lessc := &less.Lessc{
		Binary:       opts.LessBinary,
		Dir:          env.dir(),
		IncludePaths: less.IncludePaths(opts.MWInstallPath),
	}
	if err := lessc.Available(); err != nil {
		warnings = append(warnings, fmt.Sprintf("LESS files are scanned uncompiled: %v", err))
		return nil, warnings
	}
	return lessc, warnings
}
