package shader

import "fmt"

// OptimizationLevel selects how aggressively the backend optimizes.
type OptimizationLevel uint8

const (
	OptimizationNone OptimizationLevel = iota
	OptimizationPerformance
)

func (o OptimizationLevel) String() string {
	if o == OptimizationPerformance {
		return "performance"
	}
	return "none"
}

// Options carry per-compile settings through to the backend.
type Options struct {
	Optimization OptimizationLevel
	DebugInfo    bool
}

// Backend turns shader source text into SPIR-V words. Implementations must
// be safe for use from a single goroutine at a time; the Compiler serializes
// calls.
type Backend interface {
	Compile(source string, stage Stage, entryPoint string, opts Options) ([]uint32, error)
}

// CompileError reports a failed compilation together with the backend's
// diagnostic text. It is non-fatal at the reload-batch level; the previous
// binary for the affected stage stays in use.
type CompileError struct {
	Path       string
	Diagnostic string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader compilation failed for %q: %s", e.Path, e.Diagnostic)
}
