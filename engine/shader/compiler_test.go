package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend records how often the underlying compiler actually runs,
// so cache hits are observable.
type countingBackend struct {
	calls int
	fail  bool
	empty bool
}

func (b *countingBackend) Compile(source string, stage Stage, entryPoint string, opts Options) ([]uint32, error) {
	b.calls++
	if b.fail {
		return nil, errors.New("syntax error near line 3")
	}
	if b.empty {
		return nil, nil
	}
	// Derive words from the source so different content yields different
	// binaries.
	words := make([]uint32, 0, len(source)+1)
	words = append(words, 0x07230203) // SPIR-V magic
	for _, r := range source {
		words = append(words, uint32(r))
	}
	return words, nil
}

func writeShader(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileFileCacheHit(t *testing.T) {
	backend := &countingBackend{}
	c := NewCompiler(backend)
	path := writeShader(t, t.TempDir(), "a.frag", "content-x")

	first, err := c.CompileFile(path, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)

	second, err := c.CompileFile(path, "main")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls, "unchanged source must not recompile")
	assert.Equal(t, first.Words, second.Words)
	assert.Equal(t, first.SourceHash, second.SourceHash)
}

func TestCompileFileCacheMissOnContentChange(t *testing.T) {
	backend := &countingBackend{}
	c := NewCompiler(backend)
	dir := t.TempDir()
	path := writeShader(t, dir, "a.frag", "content-x")

	first, err := c.CompileFile(path, "main")
	require.NoError(t, err)

	writeShader(t, dir, "a.frag", "content-y")

	second, err := c.CompileFile(path, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls, "changed content must recompile")
	assert.NotEqual(t, first.SourceHash, second.SourceHash)
	assert.NotEqual(t, first.Words, second.Words)
}

func TestCompileFileCacheDisabled(t *testing.T) {
	backend := &countingBackend{}
	c := NewCompiler(backend)
	c.Configure(false, false, OptimizationNone)
	path := writeShader(t, t.TempDir(), "a.vert", "content")

	_, err := c.CompileFile(path, "main")
	require.NoError(t, err)
	_, err = c.CompileFile(path, "main")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)

	count, size := c.CacheStats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, size)
}

func TestCompileFileUnsupportedExtension(t *testing.T) {
	c := NewCompiler(&countingBackend{})
	path := writeShader(t, t.TempDir(), "a.glsl", "content")

	_, err := c.CompileFile(path, "main")
	assert.ErrorIs(t, err, ErrUnsupportedStage)
}

func TestCompileFileBackendFailure(t *testing.T) {
	c := NewCompiler(&countingBackend{fail: true})
	path := writeShader(t, t.TempDir(), "a.frag", "broken {")

	_, err := c.CompileFile(path, "main")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.Path)
	assert.Contains(t, ce.Diagnostic, "syntax error")

	count, _ := c.CacheStats()
	assert.Equal(t, 0, count, "failed compiles must not be cached")
}

func TestCompileFileEmptyOutput(t *testing.T) {
	c := NewCompiler(&countingBackend{empty: true})
	path := writeShader(t, t.TempDir(), "a.frag", "content")

	_, err := c.CompileFile(path, "main")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Diagnostic, "empty")
}

func TestCompileFileMissingFile(t *testing.T) {
	c := NewCompiler(&countingBackend{})
	_, err := c.CompileFile(filepath.Join(t.TempDir(), "gone.frag"), "main")
	assert.Error(t, err)
}

func TestClearCacheAndStats(t *testing.T) {
	backend := &countingBackend{}
	c := NewCompiler(backend)
	dir := t.TempDir()
	a := writeShader(t, dir, "a.vert", "aaaa")
	b := writeShader(t, dir, "b.frag", "bbbb")

	_, err := c.CompileFile(a, "main")
	require.NoError(t, err)
	_, err = c.CompileFile(b, "main")
	require.NoError(t, err)

	count, size := c.CacheStats()
	assert.Equal(t, 2, count)
	assert.Greater(t, size, 0)

	c.ClearCache()
	count, size = c.CacheStats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, size)

	_, err = c.CompileFile(a, "main")
	require.NoError(t, err)
	assert.Equal(t, 3, backend.calls, "cleared cache forces recompilation")
}

func TestPreload(t *testing.T) {
	backend := &countingBackend{}
	c := NewCompiler(backend)
	dir := t.TempDir()
	a := writeShader(t, dir, "a.vert", "aaaa")
	b := writeShader(t, dir, "b.frag", "bbbb")

	require.NoError(t, c.Preload(a, b))
	assert.Equal(t, 2, backend.calls)

	bad := writeShader(t, dir, "c.glsl", "cccc")
	assert.ErrorIs(t, c.Preload(bad), ErrUnsupportedStage)
}
