package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwtools/unusedres"
	"github.com/mwtools/unusedres/internal/config"
	"github.com/mwtools/unusedres/internal/history"
)

// NewMessagesCommand builds the unused-messages command.
func NewMessagesCommand(env Env) *cobra.Command {
	cmd := newCommand(env, "unused-messages",
		"Find i18n message keys that nothing uses",
		`Collects the keys of the en.json message catalogs of an extension or skin
and reports those that appear neither in its sources, nor in other
messages, nor among the keys MediaWiki derives from extension.json or
skin.json. Each unused key is traced to the last commit that mentioned it.`)

	d := config.DefaultsFor(config.KindMessages)
	addCommonFlags(cmd.Flags(), d)
	addCorpusFlags(cmd.Flags(), d)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts, err := loadOptions(cmd, env, config.KindMessages)
		if err != nil {
			return fatal(err)
		}
		rt, warnings, err := newRuntime(env, opts, history.MessagesFilter)
		if err != nil {
			return fatal(err)
		}

		result, err := unusedres.CheckMessages(cmd.Context(), unusedres.MessagesConfig{
			Corpus:         corpusOf(env, opts),
			Runtime:        rt,
			IgnorePrefixes: opts.IgnorePrefixes,
		})
		if err != nil {
			return fatal(err)
		}
		result.Warnings = append(warnings, result.Warnings...)

		unusedres.WriteMessagesReport(env.Stdout, result, unusedres.ReportOptions{
			Color:    opts.Color,
			Verbose:  opts.Verbose,
			Warnings: env.Stderr,
		})
		// Unused messages always fail the run.
		return gate(result.HasFindings(), true)
	}
	return cmd
}
