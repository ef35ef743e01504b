// Package extract derives candidate identifiers from declaration sources:
// stylesheets, message catalogs and extension descriptors.
package extract

import (
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DefaultClassIgnorePrefixes are class prefixes owned by UI libraries.
var DefaultClassIgnorePrefixes = []string{"oo-ui-"}

// classPattern captures the identifier of a class selector. The terminator
// is consumed, so in ".a.b{" only "a" is captured.
var classPattern = regexp.MustCompile(`\.([-_a-zA-Z0-9]+)[\s{\[,.:#]`)

// ClassNames returns the class names selected in stylesheet text, in order
// of first appearance.
func ClassNames(stylesheet string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range classPattern.FindAllStringSubmatch(stylesheet, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// IsCandidateClass reports whether a class name is checked at all. Names
// owned by a library prefix are never reported, and names starting with a
// digit are artifacts of numbers such as "1.5em" or "#fff.5".
func IsCandidateClass(name string, ignorePrefixes []string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// StripComments removes /* */ comments from stylesheet text so that
// commented-out selectors are not treated as declarations. Each comment is
// replaced with a single space. Input the lexer cannot tokenize is
// returned unchanged.
func StripComments(stylesheet string) string {
	if !strings.Contains(stylesheet, "/*") {
		return stylesheet
	}

	lexer := css.NewLexer(parse.NewInputString(stylesheet))
	var b strings.Builder
	b.Grow(len(stylesheet))

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if lexer.Err() != io.EOF {
				return stylesheet
			}
			break
		}

		if tt == css.CommentToken {
			b.WriteByte(' ')
			continue
		}
		b.Write(text)
	}

	return b.String()
}
