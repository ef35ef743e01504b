package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanReferences(t *testing.T) {
	content := "<div class=\"ext-a ext-b\">\n" +
		"// el.classList.add('commented')\n" +
		"$el.addClass( 'ext-c' );\n" +
		"node.classList.toggle(\"ext-d\");\n" +
		"<span class=\"<?php echo $cls ?>\">\n" +
		"<p :class=\"{ active: isActive }\">\n"

	refs := ScanReferences("src/view.js", content)
	require.Len(t, refs, 4)

	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.ClassName
	}
	assert.Equal(t, []string{"ext-a", "ext-b", "ext-c", "ext-d"}, names)

	assert.Equal(t, FileLocation{
		File:   "src/view.js",
		Line:   1,
		Column: 13,
		Text:   "<div class=\"ext-a ext-b\">",
	}, refs[0].Location)
	assert.Equal(t, 19, refs[1].Location.Column)
	assert.Equal(t, 3, refs[2].Location.Line)
	assert.Equal(t, 4, refs[3].Location.Line)
}

func TestExtractReferencesFromLineSkipsInvalidTokens(t *testing.T) {
	refs := extractReferencesFromLine(`<b class="ok 9bad -ok2">`, 7, "a.html")
	require.Len(t, refs, 2)
	assert.Equal(t, "ok", refs[0].ClassName)
	assert.Equal(t, "-ok2", refs[1].ClassName)
	assert.Equal(t, 7, refs[1].Location.Line)
}

func TestSplitClassValue(t *testing.T) {
	tokens := splitClassValue("  a\tbc ", 10)
	require.Equal(t, []classValueToken{
		{name: "a", offset: 12},
		{name: "bc", offset: 14},
	}, tokens)
	assert.Empty(t, splitClassValue("   ", 0))
}
