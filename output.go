package unusedres

import (
	"fmt"
	"io"

	"github.com/mwtools/unusedres/internal/report"
)

// ReportOptions controls console rendering.
type ReportOptions struct {
	// Color forces colored output; otherwise it is auto-detected.
	Color bool
	// Verbose adds the commit summary table and skipped modules.
	Verbose bool
	// Warnings receives recovered problems. Nil writes them with the report.
	Warnings io.Writer
}

func (o ReportOptions) reporters(w io.Writer) (*report.Reporter, *report.Reporter) {
	r := report.New(w, o.Color)
	if o.Warnings == nil {
		return r, r
	}
	return r, report.New(o.Warnings, o.Color)
}

// WriteCSSReport prints the result of CheckCSS.
func WriteCSSReport(w io.Writer, result *CSSResult, opts ReportOptions) {
	r, warn := opts.reporters(w)
	warn.Warnings(result.Warnings)

	if result.HasFindings() {
		r.Warning(fmt.Sprintf("Warning: %d unused CSS classes found:", len(result.Unused)))
		writeFindings(r, result.Unused, result.History, false)
		r.Groups("Classes grouped by last-seen commit:", result.History.Groups)
		if opts.Verbose {
			r.CommitTable("Classes", result.History.Groups)
		}
	} else {
		r.Line("No unused CSS classes found.")
	}

	if len(result.Undeclared) > 0 {
		r.Warning(fmt.Sprintf("Warning: %s used in source but not declared in any stylesheet:",
			report.PluralizeCount(len(result.Undeclared), "class reference", "class references")))
		for _, issue := range result.Undeclared {
			r.Issue(report.Position{
				Filename: issue.Pos.Filename,
				Line:     issue.Pos.Line,
				Column:   issue.Pos.Column,
			}, issue.Text, issue.SourceLine)
		}
	}
}

// WriteMessagesReport prints the result of CheckMessages.
func WriteMessagesReport(w io.Writer, result *MessagesResult, opts ReportOptions) {
	r, warn := opts.reporters(w)
	warn.Warnings(result.Warnings)

	if !result.HasFindings() {
		r.Line(fmt.Sprintf("All %d keys are used or documented in the source code.", result.Total))
		return
	}

	r.Warning(fmt.Sprintf("Warning: %d unused or undocumented keys found (out of %d):", len(result.Unused), result.Total))
	writeFindings(r, result.Unused, result.History, true)
	r.Groups("Messages grouped by last-seen commit:", result.History.Groups)
	if opts.Verbose {
		r.CommitTable("Keys", result.History.Groups)
	}
}

// writeFindings prints each finding with its values and provenance.
func writeFindings(r *report.Reporter, findings []Finding, prov Provenance, values bool) {
	for _, f := range findings {
		r.Item(f.ID)
		if values {
			r.Detail("en", f.Value)
			r.Detail("qqq", f.Doc)
		}
		if prov.Searched {
			r.Provenance(f.Record)
		}
	}
}

// WriteModulesReport prints the result of CheckModuleMessages.
func WriteModulesReport(w io.Writer, result *ModulesResult, opts ReportOptions) {
	r, warn := opts.reporters(w)
	warn.Warnings(result.Warnings)

	if opts.Verbose && len(result.Skipped) > 0 {
		r.Line(fmt.Sprintf("Skipped %s with veModules: %v",
			report.PluralizeCount(len(result.Skipped), "module", "modules"), result.Skipped))
	}

	for _, m := range result.Modules {
		r.Module(m.Name, m.LoadedNotUsed, m.UsedNotLoaded)
	}
	r.Success("Check complete.")
}

