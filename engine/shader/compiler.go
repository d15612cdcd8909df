package shader

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/voidwalk/vulkn/engine/core"
)

// CompiledShader is one compiled shader stage. The word slice is never
// mutated after creation; recompiling a file produces a new instance.
type CompiledShader struct {
	Path       string
	Stage      Stage
	Words      []uint32
	SourceHash uint64
}

// cacheEntry records a compile result keyed by file path. Entries are
// replaced wholesale, never mutated in place.
type cacheEntry struct {
	sourceHash uint64
	stage      Stage
	words      []uint32
	compiledAt time.Time
}

// Compiler turns shader source files into SPIR-V, skipping the backend for
// sources whose content hash matches a cached entry. A hit requires the
// stored hash of the source bytes to match the current file content; path
// plus mtime alone is not enough because editors can rewrite a file within
// mtime granularity.
type Compiler struct {
	backend Backend

	mu           sync.Mutex
	cache        map[string]cacheEntry
	cacheEnabled bool
	debugInfo    bool
	optimization OptimizationLevel
}

func NewCompiler(backend Backend) *Compiler {
	return &Compiler{
		backend:      backend,
		cache:        make(map[string]cacheEntry),
		cacheEnabled: true,
		optimization: OptimizationNone,
	}
}

// Configure replaces the compile settings. Affects only subsequent compiles;
// cached results stay valid because they are keyed on source content.
func (c *Compiler) Configure(cacheEnabled, debugInfo bool, level OptimizationLevel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cacheEnabled = cacheEnabled
	c.debugInfo = debugInfo
	c.optimization = level

	core.LogDebug("shader compiler configured: cache=%t debug=%t opt=%s", cacheEnabled, debugInfo, level)
}

// CompileFile reads the file at path, classifies its stage from the
// extension and compiles it. The source is always read fresh from disk, so
// the newest on-disk content wins even when a stale change event triggered
// the call.
func (c *Compiler) CompileFile(path, entryPoint string) (*CompiledShader, error) {
	stage, err := StageFromPath(path)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader file %q: %w", path, err)
	}

	sourceHash := xxhash.Sum64(source)

	c.mu.Lock()
	cacheEnabled := c.cacheEnabled
	opts := Options{Optimization: c.optimization, DebugInfo: c.debugInfo}
	if cacheEnabled {
		if entry, ok := c.cache[path]; ok && entry.sourceHash == sourceHash {
			c.mu.Unlock()
			core.LogDebug("shader cache hit: %s", path)
			return &CompiledShader{
				Path:       path,
				Stage:      entry.stage,
				Words:      entry.words,
				SourceHash: sourceHash,
			}, nil
		}
	}
	c.mu.Unlock()

	words, err := c.backend.Compile(string(source), stage, entryPoint, opts)
	if err != nil {
		return nil, &CompileError{Path: path, Diagnostic: err.Error()}
	}
	if len(words) == 0 {
		return nil, &CompileError{Path: path, Diagnostic: "compilation produced empty SPIR-V"}
	}

	core.LogInfo("shader %q compiled (%d words, %s stage)", path, len(words), stage)

	if cacheEnabled {
		c.mu.Lock()
		c.cache[path] = cacheEntry{
			sourceHash: sourceHash,
			stage:      stage,
			words:      words,
			compiledAt: time.Now(),
		}
		c.mu.Unlock()
	}

	return &CompiledShader{
		Path:       path,
		Stage:      stage,
		Words:      words,
		SourceHash: sourceHash,
	}, nil
}

// Preload compiles a list of shaders eagerly with the default entry point.
// The first failure aborts.
func (c *Compiler) Preload(paths ...string) error {
	core.LogInfo("preloading %d shaders", len(paths))
	for _, path := range paths {
		if _, err := c.CompileFile(path, "main"); err != nil {
			return err
		}
	}
	return nil
}

// ClearCache empties the cache unconditionally. Used when the correctness of
// cached state is in doubt, e.g. after a toolchain change.
func (c *Compiler) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]cacheEntry)
	core.LogInfo("shader cache cleared")
}

// CacheStats returns the number of cached shaders and their total byte size.
func (c *Compiler) CacheStats() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := 0
	for _, entry := range c.cache {
		size += len(entry.words) * 4
	}
	return len(c.cache), size
}
