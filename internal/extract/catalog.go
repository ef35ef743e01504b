package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultKeyIgnorePrefixes are message key namespaces that follow generated
// naming conventions and are verified elsewhere.
var DefaultKeyIgnorePrefixes = []string{"@", "tag-", "apihelp-"}

// Catalog is an ordered key to value mapping built from one or more
// translation files. Later files override values; the first occurrence of a
// key fixes its position.
type Catalog struct {
	keys   []string
	values map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{values: make(map[string]string)}
}

// Set inserts or overrides a key.
func (c *Catalog) Set(key, value string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Merge folds other into c.
func (c *Catalog) Merge(other *Catalog) {
	for _, key := range other.keys {
		c.Set(key, other.values[key])
	}
}

// Keys returns the keys in catalog order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Value returns the value for key, or "" if absent.
func (c *Catalog) Value(key string) string {
	return c.values[key]
}

// Len returns the number of keys.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// ValuesText joins all values with newlines. Messages may transclude other
// messages, so this text is scanned like a source file.
func (c *Catalog) ValuesText() string {
	values := make([]string, 0, len(c.keys))
	for _, key := range c.keys {
		values = append(values, c.values[key])
	}
	return strings.Join(values, "\n")
}

// IsCandidateKey reports whether a message key takes part in the unused
// check.
func IsCandidateKey(key string, ignorePrefixes []string) bool {
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}
	return key != ""
}

// LoadCatalog reads one translation file. Non-string values (such as
// "@metadata") keep their key with an empty value.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", filename, err)
	}
	return c, nil
}

// LoadOptionalCatalog is LoadCatalog, except a missing file yields an empty
// catalog.
func LoadOptionalCatalog(filename string) (*Catalog, error) {
	c, err := LoadCatalog(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return NewCatalog(), nil
	}
	return c, err
}

// DocPath returns the documentation companion of a base-locale catalog:
// "i18n/en.json" becomes "i18n/qqq.json".
func DocPath(catalogPath string) string {
	dir, base := path.Split(filepath.ToSlash(catalogPath))
	base = strings.Replace(base, "en.json", "qqq.json", 1)
	return filepath.FromSlash(dir + base)
}

// parseCatalog decodes a JSON object while preserving key order.
func parseCatalog(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New("expected a JSON object")
	}

	c := NewCatalog()
	doc.ForEach(func(key, value gjson.Result) bool {
		text := ""
		if value.Type == gjson.String {
			text = value.Str
		}
		c.Set(key.Str, text)
		return true
	})
	return c, nil
}
