package renderer

import (
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/hotreload"
)

// CommandRecorder re-records the command buffers that bind the pipeline.
// Called whenever the pipeline was swapped, before any submission for the
// frame.
type CommandRecorder interface {
	RecordCommands(pipeline hotreload.PipelineHandle) error
}

// FrameCoordinator drives the per-frame protocol around the hot-reload
// manager: apply pending reloads at the frame-safe point, then re-record
// dependent command buffers if the pipeline changed.
type FrameCoordinator struct {
	manager  *hotreload.Manager
	recorder CommandRecorder
	clock    *core.Clock
}

func NewFrameCoordinator(manager *hotreload.Manager, recorder CommandRecorder) *FrameCoordinator {
	return &FrameCoordinator{
		manager:  manager,
		recorder: recorder,
		clock:    core.NewClock(),
	}
}

// BeginFrame runs at the start of a frame, before any command buffer is
// recorded. Returns whether the pipeline changed this frame. A pipeline
// construction failure is surfaced; a compile failure is already swallowed
// upstream and the last-good pipeline keeps rendering.
func (fc *FrameCoordinator) BeginFrame() (bool, error) {
	fc.clock.Start()

	changed, err := fc.manager.ProcessPendingReloads()
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if fc.recorder != nil {
		if err := fc.recorder.RecordCommands(fc.manager.Pipeline()); err != nil {
			core.LogError("command buffer re-record failed: %s", err.Error())
			return true, err
		}
	}
	return true, nil
}

// EndFrame folds the frame time into the metrics.
func (fc *FrameCoordinator) EndFrame() {
	fc.clock.Update()
	core.MetricsUpdate(fc.clock.ElapsedSeconds())
}

// Pipeline exposes the live handle read-only for binding during recording.
func (fc *FrameCoordinator) Pipeline() hotreload.PipelineHandle {
	return fc.manager.Pipeline()
}
