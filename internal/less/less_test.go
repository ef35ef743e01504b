package less

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompiler struct {
	calls atomic.Int32
}

func (f *fakeCompiler) Compile(_ context.Context, filename, source string) (string, error) {
	f.calls.Add(1)
	if strings.Contains(source, "@import 'missing'") {
		return "", errors.New("file not found")
	}
	return strings.ReplaceAll(source, "&-x", ".nested-x") + "/* " + filename + " */", nil
}

func TestCompileAll(t *testing.T) {
	fake := &fakeCompiler{}
	sources := []Source{
		{File: "a.less", Text: ".a { &-x {} }"},
		{File: "b.less", Text: "@import 'missing';"},
		{File: "c.less", Text: ".c {}"},
	}

	results := CompileAll(context.Background(), fake, sources, 2)
	require.Len(t, results, 3)
	assert.Equal(t, int32(3), fake.calls.Load())

	assert.Equal(t, "a.less", results[0].File)
	assert.NoError(t, results[0].Err)
	assert.Contains(t, results[0].CSS, ".nested-x")

	assert.Equal(t, "b.less", results[1].File)
	assert.Error(t, results[1].Err)
	assert.Empty(t, results[1].CSS)

	assert.Equal(t, ".c {}/* c.less */", results[2].CSS)
}

func TestCompileAllEmpty(t *testing.T) {
	assert.Nil(t, CompileAll(context.Background(), &fakeCompiler{}, nil, 0))
}

func TestIncludePaths(t *testing.T) {
	assert.Nil(t, IncludePaths(""))

	paths := IncludePaths("/srv/mw")
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join("/srv/mw", "resources", "src", "mediawiki.less", "mediawiki.ui"), paths[0])
	assert.Equal(t, filepath.Join("/srv/mw", "resources", "src", "mediawiki.less"), paths[1])
}

func TestLesscMissingBinary(t *testing.T) {
	l := &Lessc{Binary: "definitely-not-a-less-compiler"}
	require.Error(t, l.Available())

	_, err := l.Compile(context.Background(), "a.less", ".a{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile a.less")
}
