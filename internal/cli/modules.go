package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwtools/unusedres"
	"github.com/mwtools/unusedres/internal/config"
)

// NewModulesCommand builds the unloaded-messages command.
func NewModulesCommand(env Env) *cobra.Command {
	cmd := newCommand(env, "unloaded-messages",
		"Compare the messages of each ResourceLoader module with its scripts",
		`Reads the ResourceLoader modules of extension.json or skin.json and, for
every module, reports messages it loads that its scripts never use and
messages its scripts request with mw.msg() or similar that it does not load.`)

	d := config.DefaultsFor(config.KindModules)
	addCommonFlags(cmd.Flags(), d)
	cmd.Flags().StringSlice("namespaces", d.Namespaces, "Global aliases whose msg() and message() calls are recognised")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts, err := loadOptions(cmd, env, config.KindModules)
		if err != nil {
			return fatal(err)
		}

		cfg := unusedres.ModulesConfig{
			Root:        env.dir(),
			IgnoreFiles: opts.IgnoreFiles,
			Namespaces:  opts.Namespaces,
			Verbose:     opts.Verbose,
		}
		if !opts.Quiet {
			cfg.Log = env.Stderr
		}

		result, err := unusedres.CheckModuleMessages(cmd.Context(), cfg)
		if err != nil {
			return fatal(err)
		}

		unusedres.WriteModulesReport(env.Stdout, result, unusedres.ReportOptions{
			Color:    opts.Color,
			Verbose:  opts.Verbose,
			Warnings: env.Stderr,
		})
		return gate(result.HasFindings(), opts.Strict)
	}
	return cmd
}
