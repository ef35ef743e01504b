package extract

import (
	"regexp"
	"strings"
)

// DefaultNamespaces are the global aliases whose msg/message calls are
// recognised in module scripts.
var DefaultNamespaces = []string{"ve", "mw"}

var defaultMessageCall = messageCallPattern(DefaultNamespaces)

func messageCallPattern(namespaces []string) *regexp.Regexp {
	quoted := make([]string, len(namespaces))
	for i, ns := range namespaces {
		quoted[i] = regexp.QuoteMeta(ns)
	}
	return regexp.MustCompile(`(?:` + strings.Join(quoted, "|") +
		`)\.(?:msg|message)\( *['"]([a-zA-Z0-9\-_]+)['"] *\)`)
}

// ScriptMessageKeys returns the keys passed literally to <ns>.msg('key')
// or <ns>.message('key') in a script body, in order of first appearance.
// A nil namespaces slice uses DefaultNamespaces.
func ScriptMessageKeys(script string, namespaces []string) []string {
	re := defaultMessageCall
	if namespaces != nil {
		if len(namespaces) == 0 {
			return nil
		}
		re = messageCallPattern(namespaces)
	}

	var keys []string
	seen := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(script, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}
