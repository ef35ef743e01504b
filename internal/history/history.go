// Package history finds the most recent commit that added or removed an
// identifier, the way "git log -S" does, and groups identifiers by that
// commit.
package history

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"
)

// Record is the last commit that changed the number of occurrences of an
// identifier in at least one file passing the search filter.
type Record struct {
	Hash    string
	Subject string
	Files   []string
}

// Searcher looks up the provenance record of one identifier. A nil record
// with a nil error means the identifier was not found in history.
type Searcher interface {
	Search(ctx context.Context, needle string) (*Record, error)
}

// FileFilter reports whether a changed file counts as a usage site.
type FileFilter func(file string) bool

// CSSFilter drops stylesheets, which only declare classes.
func CSSFilter(file string) bool {
	ext := path.Ext(file)
	return ext != ".css" && ext != ".less"
}

// MessagesFilter drops catalogs and PHP message files, which only declare
// keys.
func MessagesFilter(file string) bool {
	return path.Ext(file) != ".json" && !strings.HasSuffix(file, "i18n.php")
}

// Backend names accepted by NewSearcher.
const (
	BackendAuto  = "auto"
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

// ErrUnknownBackend is returned for a backend name NewSearcher does not know.
var ErrUnknownBackend = errors.New("unknown git backend")

// NewSearcher returns a searcher for the repository at dir. The auto
// backend uses the git binary when it is on PATH and go-git otherwise.
func NewSearcher(backend, dir string, filter FileFilter) (Searcher, error) {
	switch backend {
	case BackendCLI:
		return &GitCLI{Dir: dir, Filter: filter}, nil
	case BackendGoGit:
		return OpenGoGit(dir, filter)
	case BackendAuto, "":
		if _, err := exec.LookPath("git"); err == nil {
			return &GitCLI{Dir: dir, Filter: filter}, nil
		}
		return OpenGoGit(dir, filter)
	default:
		return nil, fmt.Errorf("%w: %q (valid: auto, cli, go-git)", ErrUnknownBackend, backend)
	}
}

// Lookup searches every identifier concurrently with at most workers
// searches in flight. records[i] and errs[i] belong to ids[i]. A failed
// search leaves a nil record and does not affect the others. onDone, if
// set, is called once per identifier and must be safe for concurrent use.
func Lookup(ctx context.Context, s Searcher, ids []string, workers int, onDone func()) ([]*Record, []error) {
	records := make([]*Record, len(ids))
	errs := make([]error, len(ids))
	if len(ids) == 0 {
		return records, errs
	}
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i, id := range ids {
		p.Go(func() {
			if onDone != nil {
				defer onDone()
			}
			rec, err := s.Search(ctx, id)
			if err != nil {
				errs[i] = err
				return
			}
			records[i] = rec
		})
	}
	p.Wait()

	return records, errs
}

// FirstError returns the number of failures and the first non-nil error.
func FirstError(errs []error) (int, error) {
	var first error
	n := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		n++
	}
	return n, first
}

// Group is the identifiers whose provenance resolved to the same commit.
type Group struct {
	Record      *Record
	Identifiers []string
}

// GroupByCommit groups identifiers by commit hash in order of first
// appearance. Identifiers without a record are left out.
func GroupByCommit(ids []string, records []*Record) []Group {
	var groups []Group
	index := make(map[string]int)

	for i, id := range ids {
		if i >= len(records) || records[i] == nil {
			continue
		}
		rec := records[i]
		if at, ok := index[rec.Hash]; ok {
			groups[at].Identifiers = append(groups[at].Identifiers, id)
			continue
		}
		index[rec.Hash] = len(groups)
		groups = append(groups, Group{Record: rec, Identifiers: []string{id}})
	}

	return groups
}
