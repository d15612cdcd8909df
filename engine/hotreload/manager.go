package hotreload

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/shader"
)

// PipelineHandle is the opaque reference to a live graphics pipeline. Each
// build gets a fresh generation, so swaps are observable without exposing
// driver objects.
type PipelineHandle interface {
	Generation() uuid.UUID
}

// PipelineFactory is the pipeline construction primitive owned by the
// rendering backend. Build receives the full set of current stage binaries;
// Destroy must only be called once the GPU is known to be done with the
// handle (the render loop's device-idle discipline).
type PipelineFactory interface {
	Build(stages map[shader.Stage]*shader.CompiledShader) (PipelineHandle, error)
	Destroy(handle PipelineHandle)
}

type liveHandle struct {
	h PipelineHandle
}

// Manager owns the live pipeline and turns queued reload requests into an
// atomically replaced pipeline object. All mutation happens on the render
// thread inside ProcessPendingReloads; the watcher goroutine only pushes
// into the queue.
type Manager struct {
	cfg      Config
	compiler *shader.Compiler
	factory  PipelineFactory

	queue   *Queue
	watcher *Watcher

	// Current stage binaries, render thread only.
	stages map[shader.Stage]*shader.CompiledShader

	// Swapped on the render thread, read from anywhere. Readers always see
	// either the complete old handle or the complete new one.
	live atomic.Pointer[liveHandle]

	reloadsOccurred atomic.Bool
	entryPoint      string
}

func NewManager(cfg Config, compiler *shader.Compiler, factory PipelineFactory) *Manager {
	return &Manager{
		cfg:        cfg,
		compiler:   compiler,
		factory:    factory,
		queue:      NewQueue(cfg.QueueCapacity),
		stages:     make(map[shader.Stage]*shader.CompiledShader),
		entryPoint: "main",
	}
}

// Initialize compiles the given shader files, builds the first pipeline and
// starts the watcher. A watcher failure is returned wrapped in
// ErrWatcherInit after the pipeline is already built, so the caller can keep
// rendering without automatic reloads.
func (m *Manager) Initialize(shaderPaths ...string) error {
	core.LogInfo("initializing hot reload manager")

	for _, path := range shaderPaths {
		compiled, err := m.compiler.CompileFile(path, m.entryPoint)
		if err != nil {
			return err
		}
		m.stages[compiled.Stage] = compiled
	}

	handle, err := m.factory.Build(m.snapshotStages())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPipelineConstruction, err)
	}
	m.live.Store(&liveHandle{h: handle})

	if !m.cfg.Enabled {
		core.LogInfo("hot reload disabled in configuration")
		return nil
	}

	watcher, err := NewWatcher(m.cfg)
	if err != nil {
		return err
	}
	watcher.SetChangeCallback(m.queueReload)
	m.watcher = watcher

	core.LogInfo("hot reload manager initialized")
	return nil
}

// queueReload is the watcher callback: push-only, no compilation on the
// watcher goroutine.
func (m *Manager) queueReload(path string, stage shader.Stage) error {
	if m.cfg.LogEvents {
		core.LogInfo("queueing shader reload: %s (%s)", path, stage)
	}
	m.queue.Push(Request{Path: path, Stage: stage})
	return nil
}

// ProcessPendingReloads drains the queue, recompiles the affected stages and
// swaps in a rebuilt pipeline. Must be called from the render thread at a
// frame-safe point, before any command buffer referencing the current
// pipeline is recorded for this frame.
//
// A compile failure for one request is logged and skipped; the stage keeps
// its previous binary. Only a driver-level pipeline construction failure is
// returned as an error, and in that case the old pipeline stays live. The
// boolean reports whether a swap happened, telling the caller that dependent
// command buffers must be re-recorded.
func (m *Manager) ProcessPendingReloads() (bool, error) {
	if m.queue.Len() == 0 {
		return false, nil
	}

	requests := m.queue.Drain()
	if len(requests) == 0 {
		return false, nil
	}

	core.LogInfo("processing %d pending shader reload(s)", len(requests))

	changed := false
	for _, req := range requests {
		compiled, err := m.compiler.CompileFile(req.Path, m.entryPoint)
		if err != nil {
			// Availability over freshness: keep the previous binary for
			// this stage and move on to the rest of the batch.
			core.LogError("shader reload failed for %s: %s", req.Path, err.Error())
			core.MetricsCountCompileFailure()
			continue
		}
		m.stages[compiled.Stage] = compiled
		changed = true
	}

	if !changed {
		return false, nil
	}

	handle, err := m.factory.Build(m.snapshotStages())
	if err != nil {
		core.LogError("pipeline recreation failed, keeping previous pipeline: %s", err.Error())
		return false, fmt.Errorf("%w: %v", ErrPipelineConstruction, err)
	}

	old := m.live.Swap(&liveHandle{h: handle})
	if old != nil && old.h != nil {
		// Safe by contract: the caller sits at a frame boundary and has
		// ensured no in-flight GPU work still references the old handle.
		m.factory.Destroy(old.h)
	}

	m.reloadsOccurred.Store(true)
	core.MetricsCountShaderReload()
	core.LogInfo("pipeline swapped, generation %s; command buffers must be re-recorded", handle.Generation())

	return true, nil
}

// ReloadShader queues a manual reload for the given file, using the same
// path as automatic watcher events. Works regardless of the enabled flag.
func (m *Manager) ReloadShader(path string) error {
	stage, err := shader.StageFromPath(path)
	if err != nil {
		core.LogWarn("manual reload rejected: %s", err.Error())
		return err
	}
	if !m.cfg.stageAllowed(stage) {
		core.LogWarn("manual reload skipped for disabled shader stage: %s (%s)", path, stage)
		return nil
	}
	return m.queueReload(path, stage)
}

// SetEnabled toggles automatic change detection. Requests already queued are
// left alone and will still be processed on the next ProcessPendingReloads.
func (m *Manager) SetEnabled(enabled bool) error {
	m.cfg.Enabled = enabled
	if m.watcher != nil {
		return m.watcher.SetEnabled(enabled)
	}
	return nil
}

// IsEnabled reports whether automatic reload detection is on.
func (m *Manager) IsEnabled() bool {
	if m.watcher != nil {
		return m.watcher.IsEnabled()
	}
	return false
}

// Pipeline returns the live pipeline handle for binding during command
// recording. Never returns a partially constructed handle.
func (m *Manager) Pipeline() PipelineHandle {
	if p := m.live.Load(); p != nil {
		return p.h
	}
	return nil
}

// PendingReloads returns the number of queued requests.
func (m *Manager) PendingReloads() int {
	return m.queue.Len()
}

// CheckAndClearReloadsOccurred reports whether any swap happened since the
// last call and resets the flag.
func (m *Manager) CheckAndClearReloadsOccurred() bool {
	return m.reloadsOccurred.Swap(false)
}

// Stats returns the watcher's tracked file count and enabled flag.
func (m *Manager) Stats() (int, bool) {
	if m.watcher != nil {
		return m.watcher.Stats()
	}
	return 0, false
}

// Close stops the watcher. The live pipeline is destroyed separately via
// Teardown once the owner has ensured the GPU is idle.
func (m *Manager) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// Teardown destroys the live pipeline. Callers must have waited for the
// device to go idle first; a pipeline must never be destroyed while the GPU
// may still execute commands that reference it.
func (m *Manager) Teardown() {
	if old := m.live.Swap(nil); old != nil && old.h != nil {
		m.factory.Destroy(old.h)
	}
}

func (m *Manager) snapshotStages() map[shader.Stage]*shader.CompiledShader {
	out := make(map[shader.Stage]*shader.CompiledShader, len(m.stages))
	for stage, compiled := range m.stages {
		out[stage] = compiled
	}
	return out
}
