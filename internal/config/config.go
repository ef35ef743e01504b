// Package config resolves the options of one check from defaults, the
// project config file, environment variables and command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/mwtools/unusedres/internal/extract"
)

// Kind selects the section of the config file layered over "common".
type Kind string

const (
	KindCSS      Kind = "css"
	KindMessages Kind = "messages"
	KindModules  Kind = "modules"
)

const (
	// DefaultFile is looked up in the working directory.
	DefaultFile = ".unused-resources.json"
	// EnvPrefix marks environment variables that override file values.
	EnvPrefix = "UNUSED_RESOURCES_"
	// MWInstallPathEnv is the conventional MediaWiki install location variable.
	MWInstallPathEnv = "MW_INSTALL_PATH"
)

// DefaultIgnoreFiles excludes dependency, build and test trees.
var DefaultIgnoreFiles = []string{
	"**/node_modules/**",
	"**/build/**",
	"**/dist/**",
	"**/docs/**",
	"**/demos/**",
	"**/tests/**",
	"**/vendor/**",
	"**/coverage/**",
	"**/lib/**",
}

// Defaults are the built-in list options of one check.
type Defaults struct {
	ResourceFiles  []string
	SourceFiles    []string
	IgnoreFiles    []string
	IgnorePrefixes []string
	Namespaces     []string
	Git            bool
}

// DefaultsFor returns the built-in defaults of a check.
func DefaultsFor(kind Kind) Defaults {
	switch kind {
	case KindCSS:
		return Defaults{
			ResourceFiles:  []string{"**/*.{css,less}"},
			SourceFiles:    []string{"**/*.{html,php,js,vue}"},
			IgnoreFiles:    DefaultIgnoreFiles,
			IgnorePrefixes: slices.Clone(extract.DefaultClassIgnorePrefixes),
		}
	case KindMessages:
		return Defaults{
			ResourceFiles: []string{"**/en.json"},
			SourceFiles: []string{
				"**/{src,resources,rebaser,includes,modules}/**/*.{js,php,vue,html}",
				"**/{extension,skin}.json",
			},
			IgnoreFiles:    DefaultIgnoreFiles,
			IgnorePrefixes: slices.Clone(extract.DefaultKeyIgnorePrefixes),
			Git:            true,
		}
	default:
		return Defaults{
			IgnoreFiles: DefaultIgnoreFiles,
			Namespaces:  slices.Clone(extract.DefaultNamespaces),
		}
	}
}

// Options is the effective configuration of one run.
type Options struct {
	ResourceFiles  []string
	SourceFiles    []string
	IgnoreFiles    []string
	IgnorePrefixes []string
	Namespaces     []string

	Git        bool
	GitBackend string
	Gitignore  bool
	Jobs       int
	Strict     bool

	MWInstallPath string
	LessBinary    string
	KeepComments  bool
	NoUndeclared  bool

	Color   bool
	Quiet   bool
	Verbose bool
}

// Loader accumulates configuration layers for one check.
type Loader struct {
	k    *koanf.Koanf
	kind Kind
}

// New creates an empty loader for kind.
func New(kind Kind) *Loader {
	return &Loader{k: koanf.New("."), kind: kind}
}

// LoadFile merges the "common" section of the config file and then the
// section named after the loader's kind. A missing file is not an error.
// The parser is chosen from the file extension; anything other than
// YAML or TOML is read as JSON.
func (l *Loader) LoadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}

	raw := koanf.New(".")
	if err := raw.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("loading config file %s: %w", path, err)
	}

	if err := l.k.Merge(raw.Cut("common")); err != nil {
		return fmt.Errorf("merging common config: %w", err)
	}
	if err := l.k.Merge(raw.Cut(string(l.kind))); err != nil {
		return fmt.Errorf("merging %s config: %w", l.kind, err)
	}
	return nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return json.Parser()
	}
}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"resourceFiles":      true,
	"extraResourceFiles": true,
	"sourceFiles":        true,
	"extraSourceFiles":   true,
	"ignoreFiles":        true,
	"extraIgnoreFiles":   true,
	"ignorePrefixes":     true,
	"namespaces":         true,
}

// LoadEnv merges UNUSED_RESOURCES_* variables.
func (l *Loader) LoadEnv() error {
	// UNUSED_RESOURCES_EXTRA_SOURCE_FILES -> extraSourceFiles
	err := l.k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		name := camelCase(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), '_')
		if listKeys[name] {
			return name, splitList(value)
		}
		return name, value
	}), nil)
	if err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}
	return nil
}

// LoadFlags merges explicitly set flags. Flag defaults are for help
// output only; unset options fall back to DefaultsFor.
func (l *Loader) LoadFlags(fs *pflag.FlagSet) error {
	err := l.k.Load(posflag.ProviderWithFlag(fs, ".", l.k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return camelCase(f.Name, '-'), posflag.FlagVal(fs, f)
	}), nil)
	if err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}
	return nil
}

// Options resolves the effective options. List options follow
// "override, else defaults plus extras".
func (l *Loader) Options() Options {
	d := DefaultsFor(l.kind)

	opts := Options{
		ResourceFiles:  l.list("resourceFiles", d.ResourceFiles),
		SourceFiles:    l.list("sourceFiles", d.SourceFiles),
		IgnoreFiles:    l.list("ignoreFiles", d.IgnoreFiles),
		IgnorePrefixes: l.list("ignorePrefixes", d.IgnorePrefixes),
		Namespaces:     l.list("namespaces", d.Namespaces),

		Git:        l.boolOr("git", d.Git),
		GitBackend: l.stringOr("gitBackend", "auto"),
		Gitignore:  l.boolOr("gitignore", false),
		Jobs:       l.k.Int("jobs"),
		Strict:     l.boolOr("strict", false),

		MWInstallPath: l.stringOr("mwInstallPath", os.Getenv(MWInstallPathEnv)),
		LessBinary:    l.stringOr("lessBinary", "lessc"),
		KeepComments:  l.boolOr("keepComments", false),
		NoUndeclared:  l.boolOr("noUndeclared", false),

		Color:   l.boolOr("color", false),
		Quiet:   l.boolOr("quiet", false),
		Verbose: l.boolOr("verbose", false),
	}

	if l.boolOr("noGit", false) {
		opts.Git = false
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU() * 2
	}
	return opts
}

// list implements x = x_override || defaults ++ extraX. An override that
// is present but empty clears the list.
func (l *Loader) list(key string, defaults []string) []string {
	if l.k.Exists(key) {
		return l.k.Strings(key)
	}
	extraKey := "extra" + strings.ToUpper(key[:1]) + key[1:]
	out := make([]string, 0, len(defaults))
	out = append(out, defaults...)
	return append(out, l.k.Strings(extraKey)...)
}

func (l *Loader) boolOr(key string, def bool) bool {
	if l.k.Exists(key) {
		return l.k.Bool(key)
	}
	return def
}

func (l *Loader) stringOr(key, def string) string {
	if v := l.k.String(key); v != "" {
		return v
	}
	return def
}

// camelCase turns "resource-files" into "resourceFiles".
func camelCase(s string, sep rune) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == sep {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
