package unusedres

import (
	"context"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mwtools/unusedres/internal/corpus"
	"github.com/mwtools/unusedres/internal/extract"
	"github.com/mwtools/unusedres/internal/match"
)

// CheckModuleMessages compares, for every ResourceLoader module in the
// descriptor, the messages the module loads with the messages its scripts
// use. A descriptor must exist in cfg.Root.
func CheckModuleMessages(ctx context.Context, cfg ModulesConfig) (*ModulesResult, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	rt := Runtime{Log: cfg.Log, Verbose: cfg.Verbose}

	descriptorPath, err := extract.FindDescriptor(root)
	if err != nil {
		return nil, err
	}
	d, err := extract.LoadDescriptor(descriptorPath)
	if err != nil {
		return nil, err
	}

	result := &ModulesResult{Descriptor: descriptorPath}

	for _, m := range d.Modules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.Skipped {
			result.Skipped = append(result.Skipped, m.Name)
			continue
		}
		if len(m.Messages) == 0 || len(m.Scripts) == 0 {
			continue
		}
		result.Checked++
		rt.debugf("Checking %s (%d scripts)", m.Name, len(m.Scripts))

		report, warnings, err := checkModule(root, m, cfg)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		if len(report.LoadedNotUsed) > 0 || len(report.UsedNotLoaded) > 0 {
			result.Modules = append(result.Modules, report)
		}
	}

	return result, nil
}

// checkModule scans the scripts of one module.
func checkModule(root string, m extract.Module, cfg ModulesConfig) (ModuleReport, []string, error) {
	report := ModuleReport{Name: m.Name}
	var warnings []string

	loaded := match.NewSet(m.Messages...)
	usage := match.NewUsage(loaded, match.MessageKeyChars)
	referenced := match.NewSet()

	for _, script := range m.Scripts {
		file, ok := resolveScript(root, m, script, cfg.IgnoreFiles)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Script not found: %s in module %s", script, m.Name))
			continue
		}

		content, err := corpus.ReadFile(root, file)
		if err != nil {
			return report, nil, err
		}
		usage.Scan(content)
		for _, key := range extract.ScriptMessageKeys(content, cfg.Namespaces) {
			referenced.Add(key)
		}
	}

	report.LoadedNotUsed = usage.Unused()
	report.UsedNotLoaded = referenced.Difference(loaded)
	return report, warnings, nil
}

// resolveScript finds the file a declared script refers to: the path under
// the module's base path, the path as written, and finally the path as a
// glob pattern.
func resolveScript(root string, m extract.Module, script string, ignore []string) (string, bool) {
	candidates := m.ScriptCandidates(script)
	for _, candidate := range candidates {
		if corpus.Exists(root, candidate) {
			return candidate, true
		}
	}

	for _, candidate := range candidates {
		if !doublestar.ValidatePattern(candidate) {
			continue
		}
		file, ok := corpus.FirstMatch(root, candidate)
		if !ok {
			continue
		}
		if slices.ContainsFunc(ignore, func(pattern string) bool {
			matched, _ := doublestar.Match(pattern, file)
			return matched
		}) {
			continue
		}
		return file, true
	}
	return "", false
}
