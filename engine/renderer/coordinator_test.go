package renderer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/hotreload"
	"github.com/voidwalk/vulkn/engine/shader"
)

type recordingBackend struct{}

func (recordingBackend) Compile(source string, stage shader.Stage, entryPoint string, opts shader.Options) ([]uint32, error) {
	words := []uint32{0x07230203}
	for _, r := range source {
		words = append(words, uint32(r))
	}
	return words, nil
}

type recorderSpy struct {
	recorded []hotreload.PipelineHandle
}

func (r *recorderSpy) RecordCommands(pipeline hotreload.PipelineHandle) error {
	r.recorded = append(r.recorded, pipeline)
	return nil
}

func TestFrameCoordinatorReRecordsOnSwap(t *testing.T) {
	require.NoError(t, core.MetricsInitialize())

	dir := t.TempDir()
	frag := filepath.Join(dir, "tri.frag")
	require.NoError(t, os.WriteFile(frag, []byte("v1"), 0o644))

	cfg := hotreload.DefaultConfig()
	cfg.Enabled = false
	cfg.Dir = dir
	cfg.Debounce = time.Millisecond

	manager := hotreload.NewManager(cfg, shader.NewCompiler(recordingBackend{}), NewHeadlessPipelineFactory())
	require.NoError(t, manager.Initialize(frag))
	defer manager.Close()

	spy := &recorderSpy{}
	fc := NewFrameCoordinator(manager, spy)

	// Quiet frame: nothing pending, nothing re-recorded.
	changed, err := fc.BeginFrame()
	require.NoError(t, err)
	assert.False(t, changed)
	fc.EndFrame()
	assert.Empty(t, spy.recorded)

	// Edited shader: next frame swaps and re-records with the new handle.
	require.NoError(t, os.WriteFile(frag, []byte("v2 with new content"), 0o644))
	require.NoError(t, manager.ReloadShader(frag))

	changed, err = fc.BeginFrame()
	require.NoError(t, err)
	assert.True(t, changed)
	fc.EndFrame()

	require.Len(t, spy.recorded, 1)
	assert.Equal(t, fc.Pipeline().Generation(), spy.recorded[0].Generation())

	hp := fc.Pipeline().(*HeadlessPipeline)
	assert.Greater(t, hp.StageWordCount(shader.StageFragment), 1)
}
