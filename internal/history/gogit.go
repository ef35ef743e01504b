package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// minAbbrevLen is git's fallback abbreviation length.
const minAbbrevLen = 7

// GoGit is a pickaxe search over a repository opened with go-git. It walks
// commits from HEAD newest first, skips merges like "git log -S" does and
// compares the number of occurrences of the needle in each changed file
// against the parent.
type GoGit struct {
	Filter FileFilter

	mu      sync.Mutex // go-git object storage is not safe for concurrent walks
	repo    *git.Repository
	objects []plumbing.Hash // sorted; loaded on the first hit
}

// OpenGoGit opens the repository containing dir.
func OpenGoGit(dir string, filter FileFilter) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return &GoGit{Filter: filter, repo: repo}, nil
}

// NewGoGit wraps an already open repository.
func NewGoGit(repo *git.Repository, filter FileFilter) *GoGit {
	return &GoGit{Filter: filter, repo: repo}
}

// Search implements Searcher.
func (g *GoGit) Search(ctx context.Context, needle string) (*Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	head, err := g.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := g.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	var found *Record
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() > 1 {
			return nil
		}

		files, err := g.changedOccurrences(ctx, c, needle)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}

		hash, err := g.abbreviate(c.Hash)
		if err != nil {
			return err
		}
		found = &Record{
			Hash:    hash,
			Subject: subjectLine(c.Message),
			Files:   files,
		}
		return storer.ErrStop
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("search %q: %w", needle, err)
	}

	return found, nil
}

// abbreviate shortens h the way git does with core.abbrev unset: the
// length grows with the object count and then until the prefix is unique.
func (g *GoGit) abbreviate(h plumbing.Hash) (string, error) {
	if g.objects == nil {
		iter, err := g.repo.Storer.IterEncodedObjects(plumbing.AnyObject)
		if err != nil {
			return "", fmt.Errorf("list objects: %w", err)
		}
		objects := []plumbing.Hash{}
		err = iter.ForEach(func(o plumbing.EncodedObject) error {
			objects = append(objects, o.Hash())
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("list objects: %w", err)
		}
		slices.SortFunc(objects, compareHash)
		g.objects = slices.Compact(objects)
	}
	return uniqueAbbrev(g.objects, h), nil
}

// autoAbbrevLen is the number of hex digits covering twice the bits of
// the object count.
func autoAbbrevLen(objects int) int {
	return max(minAbbrevLen, (bits.Len(uint(objects))+1)/2)
}

// uniqueAbbrev returns the shortest prefix of h, at least autoAbbrevLen
// long, that no other hash in sorted shares.
func uniqueAbbrev(sorted []plumbing.Hash, h plumbing.Hash) string {
	full := h.String()
	n := autoAbbrevLen(len(sorted))

	i, _ := slices.BinarySearchFunc(sorted, h, compareHash)
	for _, j := range []int{i - 1, i, i + 1} {
		if j < 0 || j >= len(sorted) || sorted[j] == h {
			continue
		}
		n = max(n, commonPrefix(full, sorted[j].String())+1)
	}
	return full[:min(n, len(full))]
}

func compareHash(a, b plumbing.Hash) int {
	return bytes.Compare(a[:], b[:])
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// changedOccurrences returns the files of c, passing the filter, in which
// the occurrence count of needle differs from the first parent.
func (g *GoGit) changedOccurrences(ctx context.Context, c *object.Commit, needle string) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeContext(ctx, parentTree, tree)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		if g.Filter != nil && !g.Filter(name) {
			continue
		}

		from, to, err := change.Files()
		if err != nil {
			return nil, err
		}
		before, err := countIn(from, needle)
		if err != nil {
			return nil, err
		}
		after, err := countIn(to, needle)
		if err != nil {
			return nil, err
		}
		if before != after {
			files = append(files, name)
		}
	}
	return files, nil
}

func countIn(f *object.File, needle string) (int, error) {
	if f == nil {
		return 0, nil
	}
	if binary, err := f.IsBinary(); err != nil || binary {
		return 0, err
	}
	contents, err := f.Contents()
	if err != nil {
		return 0, err
	}
	return strings.Count(contents, needle), nil
}

func subjectLine(message string) string {
	message = strings.TrimSpace(message)
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return message
}
