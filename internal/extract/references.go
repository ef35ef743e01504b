package extract

import (
	"regexp"
	"strings"
)

// ClassReference is a class name referenced from source markup or script.
type ClassReference struct {
	ClassName string
	Location  FileLocation
}

// FileLocation tracks where a reference was found.
type FileLocation struct {
	File   string
	Line   int
	Column int    // 1-based column of the first character of the class name
	Text   string // Full line content for source display
}

// referencePattern is a regex whose first group captures one or more
// whitespace-separated class names.
type referencePattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// Ordered from most to least common in extension code.
	referencePatterns = []referencePattern{
		{
			name:  "class attribute with double quotes",
			regex: regexp.MustCompile(`\bclass(?:Name)?\s*=\s*"([^"]*)"`),
		},
		{
			name:  "class attribute with single quotes",
			regex: regexp.MustCompile(`\bclass(?:Name)?\s*=\s*'([^']*)'`),
		},
		{
			name:  "classList call",
			regex: regexp.MustCompile(`\.classList\.(?:add|remove|toggle|contains)\(\s*['"]([^'"]+)['"]`),
		},
		{
			name:  "jQuery class call",
			regex: regexp.MustCompile(`\.(?:addClass|removeClass|toggleClass|hasClass)\(\s*['"]([^'"]+)['"]`),
		},
	}

	// Comment lines are not scanned.
	commentPattern = regexp.MustCompile(`^\s*//`)

	classToken = regexp.MustCompile(`^[-_a-zA-Z][-_a-zA-Z0-9]*$`)
)

// dynamicMarkers appear in attribute values assembled by templates or
// string concatenation; such values are skipped entirely.
const dynamicMarkers = "{}<>$()[]+`"

// ScanReferences returns every class reference in content, in line order.
func ScanReferences(file, content string) []ClassReference {
	var refs []ClassReference
	for i, line := range strings.Split(content, "\n") {
		refs = append(refs, extractReferencesFromLine(line, i+1, file)...)
	}
	return refs
}

// extractReferencesFromLine extracts all class references from one line.
func extractReferencesFromLine(line string, lineNum int, file string) []ClassReference {
	if commentPattern.MatchString(line) {
		return nil
	}

	var refs []ClassReference
	text := strings.TrimRight(line, "\r")

	for _, pattern := range referencePatterns {
		for _, m := range pattern.regex.FindAllStringSubmatchIndex(text, -1) {
			if len(m) < 4 {
				continue
			}
			value := text[m[2]:m[3]]
			if strings.ContainsAny(value, dynamicMarkers) {
				continue
			}

			for _, token := range splitClassValue(value, m[2]) {
				if !classToken.MatchString(token.name) {
					continue
				}
				refs = append(refs, ClassReference{
					ClassName: token.name,
					Location: FileLocation{
						File:   file,
						Line:   lineNum,
						Column: token.offset + 1,
						Text:   text,
					},
				})
			}
		}
	}

	return refs
}

type classValueToken struct {
	name   string
	offset int // byte offset within the line
}

// splitClassValue splits a class attribute value on whitespace, keeping
// each token's offset relative to the start of the line.
func splitClassValue(value string, start int) []classValueToken {
	var tokens []classValueToken
	i := 0
	for i < len(value) {
		for i < len(value) && isSpace(value[i]) {
			i++
		}
		j := i
		for j < len(value) && !isSpace(value[j]) {
			j++
		}
		if j > i {
			tokens = append(tokens, classValueToken{name: value[i:j], offset: start + i})
		}
		i = j
	}
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
