// Package match implements boundary-safe identifier matching.
//
// An identifier counts as referenced in a body of text only when the
// characters immediately around the occurrence are not identifier
// continuation characters. "foo-bar" is found in "a foo-bar b" but not in
// "xfoo-barx" or "foo-bar-baz".
package match

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Charset is the bracket-expression body listing the characters that may
// continue an identifier.
type Charset string

const (
	// MessageKeyChars continues message keys. Digits and upper case letters
	// are deliberately absent.
	MessageKeyChars Charset = `a-z\-_`
	// CSSClassChars continues CSS class names.
	CSSClassChars Charset = `\-_a-zA-Z0-9`
)

// patternCacheSize bounds the compiled pattern cache.
const patternCacheSize = 8192

var patternCache, _ = lru.New[string, *regexp.Regexp](patternCacheSize)

// Pattern is an identifier with its compiled boundary-anchored expression.
type Pattern struct {
	Text string
	re   *regexp.Regexp
}

// NewPattern compiles the boundary pattern for id.
func NewPattern(id string, chars Charset) Pattern {
	key := string(chars) + "\x00" + id
	if re, ok := patternCache.Get(key); ok {
		return Pattern{Text: id, re: re}
	}

	re := regexp.MustCompile(`(?:^|[^` + string(chars) + `])(` +
		regexp.QuoteMeta(id) +
		`)(?:$|[^` + string(chars) + `])`)
	patternCache.Add(key, re)

	return Pattern{Text: id, re: re}
}

// Matches reports whether the identifier occurs in text as a bounded token.
// The substring check is only a fast rejection gate.
func (p Pattern) Matches(text string) bool {
	if p.Text == "" || !strings.Contains(text, p.Text) {
		return false
	}
	return p.re.MatchString(text)
}

// Compile builds patterns for every identifier in ids, in order.
func Compile(ids []string, chars Charset) []Pattern {
	patterns := make([]Pattern, 0, len(ids))
	for _, id := range ids {
		patterns = append(patterns, NewPattern(id, chars))
	}
	return patterns
}

// Find returns the identifiers of patterns that match text, in pattern order.
func Find(patterns []Pattern, text string) []string {
	var found []string
	for _, p := range patterns {
		if p.Matches(text) {
			found = append(found, p.Text)
		}
	}
	return found
}
