package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// ErrDescriptorNotFound is returned when no extension or skin descriptor
// exists in the repository root.
var ErrDescriptorNotFound = errors.New("extension.json or skin.json not found in repo root")

// DescriptorFiles are the descriptor names looked up in the repository
// root, in order of preference.
var DescriptorFiles = []string{"extension.json", "skin.json"}

// Descriptor is the subset of an extension or skin registration file the
// checks read.
type Descriptor struct {
	Path string `json:"-"`

	AvailableRights    []string                              `json:"AvailableRights"`
	GrantPermissions   map[string]json.RawMessage            `json:"GrantPermissions"`
	GroupPermissions   map[string]json.RawMessage            `json:"GroupPermissions"`
	SpecialPages       map[string]json.RawMessage            `json:"SpecialPages"`
	LogTypes           []string                              `json:"LogTypes"`
	ActionFilteredLogs map[string]map[string]json.RawMessage `json:"ActionFilteredLogs"`

	ResourceModules         map[string]ModuleDef `json:"ResourceModules"`
	ResourceLoaderModules   map[string]ModuleDef `json:"ResourceLoaderModules"`
	ResourceFileModulePaths *struct {
		LocalBasePath string `json:"localBasePath"`
	} `json:"ResourceFileModulePaths"`
}

// ModuleDef is one ResourceLoader module definition.
type ModuleDef struct {
	Messages      []string        `json:"messages"`
	Scripts       json.RawMessage `json:"scripts"`
	PackageFiles  json.RawMessage `json:"packageFiles"`
	VEModules     json.RawMessage `json:"veModules"`
	LocalBasePath string          `json:"localBasePath"`
}

// Module groups a module's loaded messages with its script files.
type Module struct {
	Name     string
	Messages []string
	Scripts  []string // As declared, scripts first then packageFiles
	BasePath string   // Effective localBasePath, slash-separated
	Skipped  bool     // Module type not supported (veModules)
}

// ScriptCandidates returns the repository-relative paths a declared script
// may live at, most likely first.
func (m Module) ScriptCandidates(script string) []string {
	script = filepath.ToSlash(script)
	if m.BasePath == "" {
		return []string{path.Clean(script)}
	}
	return []string{path.Join(m.BasePath, script), path.Clean(script)}
}

// LoadDescriptor decodes a descriptor file.
func LoadDescriptor(filename string) (*Descriptor, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", filename, err)
	}
	d.Path = filename
	return &d, nil
}

// FindDescriptor returns the path of the first descriptor present in root.
func FindDescriptor(root string) (string, error) {
	for _, name := range DescriptorFiles {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrDescriptorNotFound
}

// LoadDescriptors loads every descriptor present in root. Missing files
// are skipped.
func LoadDescriptors(root string) ([]*Descriptor, error) {
	var out []*Descriptor
	for _, name := range DescriptorFiles {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		d, err := LoadDescriptor(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Modules returns the descriptor's ResourceLoader modules sorted by name.
func (d *Descriptor) Modules() []Module {
	defs := d.ResourceModules
	if len(defs) == 0 {
		defs = d.ResourceLoaderModules
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	base := ""
	if d.ResourceFileModulePaths != nil {
		base = d.ResourceFileModulePaths.LocalBasePath
	}

	modules := make([]Module, 0, len(names))
	for _, name := range names {
		def := defs[name]
		m := Module{
			Name:     name,
			Messages: def.Messages,
			Scripts:  append(stringEntries(def.Scripts), stringEntries(def.PackageFiles)...),
			BasePath: filepath.ToSlash(base),
			Skipped:  len(def.VEModules) > 0 && string(def.VEModules) != "null",
		}
		if def.LocalBasePath != "" {
			m.BasePath = filepath.ToSlash(def.LocalBasePath)
		}

		modules = append(modules, m)
	}
	return modules
}

// stringEntries accepts a JSON string or an array and returns the string
// entries. Object entries (virtual package files and the like) are ignored.
func stringEntries(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	var out []string
	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
