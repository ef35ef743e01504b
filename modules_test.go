package unusedres

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwtools/unusedres/internal/extract"
)

const modulesDescriptor = `{
	"ResourceFileModulePaths": {"localBasePath": "modules"},
	"ResourceModules": {
		"ext.sample": {
			"scripts": ["ext.sample/init.js"],
			"packageFiles": "ext.sample/panel.js",
			"messages": ["sample-title", "sample-unused", "sample-title-long"]
		},
		"ext.sample.clean": {
			"scripts": "clean.js",
			"messages": ["sample-clean"]
		},
		"ext.sample.missing": {
			"scripts": ["gone.js"],
			"messages": ["sample-gone"]
		},
		"ext.sample.ve": {
			"veModules": ["x"],
			"messages": ["sample-ve"]
		},
		"ext.sample.styles": {
			"styles": ["a.css"]
		}
	}
}`

func TestCheckModuleMessages(t *testing.T) {
	root := writeTree(t, map[string]string{
		"extension.json":              modulesDescriptor,
		"modules/ext.sample/init.js":  "mw.msg( 'sample-title' );\nmw.message( 'sample-extra' ).text();\n",
		"modules/ext.sample/panel.js": "ve.msg( 'sample-title' );\n",
		"modules/clean.js":            "mw.msg( 'sample-clean' );\n",
	})

	result, err := CheckModuleMessages(context.Background(), ModulesConfig{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Checked)
	assert.Equal(t, []string{"ext.sample.ve"}, result.Skipped)
	assert.Equal(t, []string{"Script not found: gone.js in module ext.sample.missing"}, result.Warnings)

	require.Len(t, result.Modules, 2)
	assert.Equal(t, ModuleReport{
		Name:          "ext.sample",
		LoadedNotUsed: []string{"sample-unused", "sample-title-long"},
		UsedNotLoaded: []string{"sample-extra"},
	}, result.Modules[0])
	assert.Equal(t, ModuleReport{
		Name:          "ext.sample.missing",
		LoadedNotUsed: []string{"sample-gone"},
	}, result.Modules[1])

	var out, warn bytes.Buffer
	WriteModulesReport(&out, result, ReportOptions{Warnings: &warn})
	assert.Equal(t, "Script not found: gone.js in module ext.sample.missing\n", warn.String())
	assert.Contains(t, out.String(), "\nResourceLoader module: ext.sample\n"+
		"  Messages loaded but not used in scripts:\n"+
		"    - sample-unused\n"+
		"    - sample-title-long\n"+
		"  Messages used in scripts but not loaded:\n"+
		"    - sample-extra\n")
	assert.NotContains(t, out.String(), "ext.sample.clean")
	assert.True(t, strings.HasSuffix(out.String(), "\nCheck complete.\n"))
}

func TestCheckModuleMessagesGlobFallback(t *testing.T) {
	root := writeTree(t, map[string]string{
		"skin.json":         `{"ResourceModules": {"skins.sample": {"scripts": ["resources/*.js"], "messages": ["skin-msg"]}}}`,
		"resources/skin.js": "mw.msg( 'skin-msg' );\n",
	})

	result, err := CheckModuleMessages(context.Background(), ModulesConfig{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Empty(t, result.Modules)
	assert.Empty(t, result.Warnings)
}

func TestCheckModuleMessagesCustomNamespaces(t *testing.T) {
	root := writeTree(t, map[string]string{
		"extension.json": `{"ResourceModules": {"ext.x": {"scripts": "x.js", "messages": ["x-msg"]}}}`,
		"x.js":           "mw.msg( 'x-msg' );\nOO.ui.msg( 'x-other' );\n",
	})

	result, err := CheckModuleMessages(context.Background(), ModulesConfig{Root: root, Namespaces: []string{"OO.ui"}})
	require.NoError(t, err)
	require.Len(t, result.Modules, 1)
	assert.Equal(t, []string{"x-other"}, result.Modules[0].UsedNotLoaded)
	assert.Empty(t, result.Modules[0].LoadedNotUsed)
}

func TestCheckModuleMessagesMissingDescriptor(t *testing.T) {
	_, err := CheckModuleMessages(context.Background(), ModulesConfig{Root: t.TempDir()})
	require.ErrorIs(t, err, extract.ErrDescriptorNotFound)
}
