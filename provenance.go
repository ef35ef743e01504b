package unusedres

import (
	"context"
	"fmt"
	"time"

	"github.com/mwtools/unusedres/internal/history"
)

// trace looks up the last commit of every unused identifier and attaches
// the records to findings. It returns warnings for failed lookups; those
// identifiers are reported as not found.
func (rt Runtime) trace(ctx context.Context, noun string, findings []Finding) (Provenance, []string) {
	if rt.Searcher == nil || len(findings) == 0 {
		return Provenance{}, nil
	}

	ids := make([]string, len(findings))
	for i, f := range findings {
		ids[i] = f.ID
	}

	start := time.Now()
	rt.logf("Searching git history for %d missing %s...", len(ids), noun)

	var onDone func()
	if rt.Progress != nil {
		p := rt.Progress("git log -S", len(ids))
		defer p.Finish()
		onDone = p.Tick
	}

	records, errs := history.Lookup(ctx, rt.Searcher, ids, rt.Jobs, onDone)
	for i := range findings {
		findings[i].Record = records[i]
	}
	rt.logf("Searched git: %s", time.Since(start).Round(time.Millisecond))

	prov := Provenance{
		Searched: true,
		Groups:   history.GroupByCommit(ids, records),
	}

	var warnings []string
	failed, first := history.FirstError(errs)
	if failed > 0 {
		prov.Failed = failed
		warnings = append(warnings, fmt.Sprintf("git history lookup failed for %d of %d %s: %v",
			failed, len(ids), noun, first))
	}
	return prov, warnings
}
