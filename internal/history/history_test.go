package history

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog(t *testing.T) {
	output := "aaa1111\nAdd styles\nresources/a.less\n\n" +
		"bbb2222\nUse class in template\nresources/a.less\ntemplates/a.mustache\n\n" +
		"ccc3333\nInitial\nsrc/init.js\n"

	rec := ParseLog(output, CSSFilter)
	require.NotNil(t, rec)
	assert.Equal(t, "bbb2222", rec.Hash)
	assert.Equal(t, "Use class in template", rec.Subject)
	assert.Equal(t, []string{"templates/a.mustache"}, rec.Files)

	assert.Nil(t, ParseLog("", CSSFilter))
	assert.Nil(t, ParseLog("aaa1111\nOnly styles\nx.css\n", CSSFilter))

	rec = ParseLog("ddd4444\r\nWindows\r\nfile.js\r\n", nil)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"file.js"}, rec.Files)
}

func TestFilters(t *testing.T) {
	assert.False(t, CSSFilter("resources/a.css"))
	assert.False(t, CSSFilter("resources/a.less"))
	assert.True(t, CSSFilter("resources/a.js"))

	assert.False(t, MessagesFilter("i18n/en.json"))
	assert.False(t, MessagesFilter("extension.json"))
	assert.False(t, MessagesFilter("Sample.i18n.php"))
	assert.True(t, MessagesFilter("includes/Hooks.php"))
}

type fakeSearcher struct {
	records map[string]*Record
	fail    map[string]bool
}

func (f *fakeSearcher) Search(_ context.Context, needle string) (*Record, error) {
	if f.fail[needle] {
		return nil, errors.New("boom")
	}
	return f.records[needle], nil
}

func TestLookupAndGroup(t *testing.T) {
	shared := &Record{Hash: "abc1234", Subject: "Remove sidebar", Files: []string{"src/a.js"}}
	other := &Record{Hash: "def5678", Subject: "Drop dialog", Files: []string{"src/b.js"}}
	s := &fakeSearcher{
		records: map[string]*Record{"a": shared, "b": other, "c": shared},
		fail:    map[string]bool{"e": true},
	}
	ids := []string{"a", "b", "c", "d", "e"}

	var done atomic.Int32
	records, errs := Lookup(context.Background(), s, ids, 2, func() { done.Add(1) })
	require.Len(t, records, 5)
	assert.Equal(t, int32(5), done.Load())

	n, first := FirstError(errs)
	assert.Equal(t, 1, n)
	assert.EqualError(t, first, "boom")

	groups := GroupByCommit(ids, records)
	require.Len(t, groups, 2)
	assert.Equal(t, "abc1234", groups[0].Record.Hash)
	assert.Equal(t, []string{"a", "c"}, groups[0].Identifiers)
	assert.Equal(t, []string{"b"}, groups[1].Identifiers)

	assert.Nil(t, records[3])
	assert.Nil(t, records[4])
}

func TestLookupEmpty(t *testing.T) {
	records, errs := Lookup(context.Background(), &fakeSearcher{}, nil, 0, nil)
	assert.Empty(t, records)
	assert.Empty(t, errs)
}

func TestNewSearcherUnknownBackend(t *testing.T) {
	_, err := NewSearcher("svn", t.TempDir(), nil)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

// commitFiles commits files on top of parents, or of HEAD when none are
// given.
func commitFiles(t *testing.T, repo *git.Repository, dir, message string, when time.Time, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	w, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		_, err := w.Add(name)
		require.NoError(t, err)
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author:  &object.Signature{Name: "Test", Email: "test@example.com", When: when},
		Parents: parents,
	})
	require.NoError(t, err)
	return hash
}

// mergeRepo builds a history where a side branch commit is newer than the
// main branch commit and both are joined by a merge:
//
//	Initial -> Main adds widget ----------> Merge side
//	       \-> Side adds widget (newer) -/
func mergeRepo(t *testing.T) (*git.Repository, string, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	initial := commitFiles(t, repo, dir, "Initial", base, map[string]string{
		"src/a.js": "none\n",
		"src/b.js": "none\n",
	})
	mainTip := commitFiles(t, repo, dir, "Main adds widget", base.Add(time.Hour), map[string]string{
		"src/a.js": "el.addClass( 'ext-widget' );\n",
	})
	side := commitFiles(t, repo, dir, "Side adds widget", base.Add(2*time.Hour), map[string]string{
		"src/a.js": "none\n",
		"src/b.js": "el.addClass( 'ext-widget' );\n",
	}, initial)
	commitFiles(t, repo, dir, "Merge side", base.Add(3*time.Hour), map[string]string{
		"src/a.js": "el.addClass( 'ext-widget' );\n",
	}, mainTip, side)
	return repo, dir, side
}

func TestGoGitSearch(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	commitFiles(t, repo, dir, "Add sidebar", base, map[string]string{
		"resources/sidebar.less": ".ext-sidebar { color: red; }\n",
		"resources/sidebar.js":   "$el.addClass( 'ext-sidebar' );\n",
	})
	commitFiles(t, repo, dir, "Unrelated change\n\nLonger body.", base.Add(time.Hour), map[string]string{
		"README.md": "docs\n",
	})
	commitFiles(t, repo, dir, "Remove sidebar usage", base.Add(2*time.Hour), map[string]string{
		"resources/sidebar.js": "// gone\n",
	})

	s, err := OpenGoGit(dir, CSSFilter)
	require.NoError(t, err)

	rec, err := s.Search(context.Background(), "ext-sidebar")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Remove sidebar usage", rec.Subject)
	assert.Equal(t, []string{"resources/sidebar.js"}, rec.Files)
	assert.Len(t, rec.Hash, minAbbrevLen)

	rec, err = s.Search(context.Background(), "docs")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Unrelated change", rec.Subject)

	rec, err = s.Search(context.Background(), "never-written")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGoGitSearchCancelled(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFiles(t, repo, dir, "Initial", time.Now(), map[string]string{"a.js": "x\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewGoGit(repo, nil).Search(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestGoGitSkipsMergesNewestFirst(t *testing.T) {
	repo, _, side := mergeRepo(t)

	rec, err := NewGoGit(repo, CSSFilter).Search(context.Background(), "ext-widget")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Side adds widget", rec.Subject)
	assert.Equal(t, []string{"src/b.js"}, rec.Files)
	assert.True(t, strings.HasPrefix(side.String(), rec.Hash))
}

func TestGitCLIAgreesWithGoGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo, dir, side := mergeRepo(t)
	ctx := context.Background()

	cli := &GitCLI{Dir: dir, Filter: CSSFilter}
	rec, err := cli.Search(ctx, "ext-widget")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Side adds widget", rec.Subject)
	assert.Equal(t, []string{"src/b.js"}, rec.Files)
	assert.True(t, strings.HasPrefix(side.String(), rec.Hash))

	native, err := NewGoGit(repo, CSSFilter).Search(ctx, "ext-widget")
	require.NoError(t, err)
	assert.Equal(t, rec, native)

	rec, err = cli.Search(ctx, "never-written")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGitCLIOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	_, err := (&GitCLI{Dir: t.TempDir()}).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")
}

func TestAutoAbbrevLen(t *testing.T) {
	tests := []struct {
		objects int
		want    int
	}{
		{0, 7},
		{5000, 7},
		{1 << 14, 8},
		{10_000_000, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, autoAbbrevLen(tt.objects), "objects=%d", tt.objects)
	}
}

func TestUniqueAbbrev(t *testing.T) {
	a := plumbing.NewHash("1234567890abcdef1234567890abcdef12345678")
	b := plumbing.NewHash("1234567890ffffff1234567890abcdef12345678")
	c := plumbing.NewHash("9999999999999999999999999999999999999999")
	sorted := []plumbing.Hash{a, b, c}

	assert.Equal(t, "1234567890a", uniqueAbbrev(sorted, a))
	assert.Equal(t, "1234567890f", uniqueAbbrev(sorted, b))
	assert.Equal(t, "9999999", uniqueAbbrev(sorted, c))
}
