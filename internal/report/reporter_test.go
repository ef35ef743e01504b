package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtools/unusedres/internal/history"
)

func TestBuildCaretIndicator(t *testing.T) {
	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{
			name:       "spaces only",
			sourceLine: "  <div class=\"btn\">",
			column:     15,
			want:       "              ^", // 14 spaces + caret
		},
		{
			name:       "tabs and spaces",
			sourceLine: "\t\t<button class=\"icon\">",
			column:     17,
			want:       "\t\t              ^", // 2 tabs + 14 spaces + caret
		},
		{
			name:       "start of line",
			sourceLine: "class=\"btn\"",
			column:     1,
			want:       "^",
		},
		{
			name:       "column 0 fallback",
			sourceLine: "some line",
			column:     0,
			want:       "^",
		},
		{
			name:       "column beyond line length",
			sourceLine: "short",
			column:     100,
			want:       "     ^", // Pads to line length only
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, buildCaretIndicator(tt.sourceLine, tt.column))
		})
	}
}

func TestProvenanceAndDetails(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlain(&buf)

	r.Item("ext-old")
	r.Detail("en", "Line one\nLine two")
	r.Detail("qqq", "")
	r.Provenance(&history.Record{Hash: "abc1234", Subject: "Remove panel", Files: []string{"a.js", "b.php"}})
	r.Provenance(nil)

	want := "* ext-old\n" +
		"         en: Line one\n" +
		"             Line two\n" +
		"        qqq: \n" +
		"  last seen: abc1234\n" +
		"    subject: Remove panel\n" +
		"      files: a.js\n" +
		"             b.php\n" +
		"             not found in git history\n"
	assert.Equal(t, want, buf.String())
}

func TestGroups(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlain(&buf)

	r.Groups("Classes grouped by last-seen commit:", nil)
	assert.Empty(t, buf.String())

	rec := &history.Record{Hash: "abc1234", Subject: "Remove panel"}
	r.Groups("Classes grouped by last-seen commit:", []history.Group{
		{Record: rec, Identifiers: []string{"a", "b"}},
	})
	assert.Equal(t, "Classes grouped by last-seen commit:\n\n* abc1234 Remove panel\n   - a\n   - b\n", buf.String())
}

func TestModule(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlain(&buf)

	r.Module("ext.clean", nil, nil)
	assert.Empty(t, buf.String())

	r.Module("ext.sample", []string{"sample-unused"}, []string{"sample-missing"})
	assert.Equal(t, "\nResourceLoader module: ext.sample\n"+
		"  Messages loaded but not used in scripts:\n"+
		"    - sample-unused\n"+
		"  Messages used in scripts but not loaded:\n"+
		"    - sample-missing\n", buf.String())
}

func TestIssue(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlain(&buf)

	r.Issue(Position{Filename: "a.html", Line: 3, Column: 13}, `class "ext-x" is not declared in any stylesheet`, `<div class="ext-x">`)
	assert.Equal(t, "a.html:3:13: class \"ext-x\" is not declared in any stylesheet\n"+
		"\t<div class=\"ext-x\">\n"+
		"\t            ^\n", buf.String())
}

func TestCommitTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlain(&buf)

	r.CommitTable("Keys", []history.Group{
		{Record: &history.Record{Hash: "abc1234", Subject: "Remove panel"}, Identifiers: []string{"a", "b"}},
	})
	out := buf.String()
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "Remove panel")
	assert.Contains(t, out, "2")
}

func TestShouldUseColors(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ShouldUseColors(&buf, true))

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, ShouldUseColors(&buf, false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColors(&buf, false))
}

func TestPluralizeCount(t *testing.T) {
	assert.Equal(t, "1 key", PluralizeCount(1, "key", "keys"))
	assert.Equal(t, "0 keys", PluralizeCount(0, "key", "keys"))
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	tr.Tick()
	tr.Finish()
}
