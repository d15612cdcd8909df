package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/hotreload"
	"github.com/voidwalk/vulkn/engine/shader"
)

// HeadlessPipeline is a pipeline handle with no GPU behind it. It keeps the
// stage binaries it was built from, which is enough for the demo loop and
// for exercising the full reload protocol without a device.
type HeadlessPipeline struct {
	generation uuid.UUID
	words      map[shader.Stage]int
}

func (p *HeadlessPipeline) Generation() uuid.UUID { return p.generation }

// StageWordCount returns the SPIR-V word count for a stage, zero when the
// stage is absent.
func (p *HeadlessPipeline) StageWordCount(stage shader.Stage) int {
	return p.words[stage]
}

// HeadlessPipelineFactory builds HeadlessPipeline handles. Used when no
// Vulkan device is provisioned; the vulkan package provides the real one.
type HeadlessPipelineFactory struct{}

func NewHeadlessPipelineFactory() *HeadlessPipelineFactory {
	return &HeadlessPipelineFactory{}
}

func (f *HeadlessPipelineFactory) Build(stages map[shader.Stage]*shader.CompiledShader) (hotreload.PipelineHandle, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("no shader stages to build a pipeline from")
	}

	words := make(map[shader.Stage]int, len(stages))
	for stage, compiled := range stages {
		words[stage] = len(compiled.Words)
	}

	return &HeadlessPipeline{
		generation: uuid.New(),
		words:      words,
	}, nil
}

func (f *HeadlessPipelineFactory) Destroy(handle hotreload.PipelineHandle) {
	core.LogDebug("headless pipeline %s released", handle.Generation())
}
