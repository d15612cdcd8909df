package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/voidwalk/vulkn/engine/core"
	"github.com/voidwalk/vulkn/engine/hotreload"
	"github.com/voidwalk/vulkn/engine/shader"
)

// graphicsStageOrder is the order stage create infos are handed to the
// driver. Compute stages are not part of a graphics pipeline and are
// skipped.
var graphicsStageOrder = []shader.Stage{
	shader.StageVertex,
	shader.StageTessControl,
	shader.StageTessEvaluation,
	shader.StageGeometry,
	shader.StageFragment,
}

// Pipeline is the hotreload-facing handle around a VulkanPipeline.
type Pipeline struct {
	inner      *VulkanPipeline
	generation uuid.UUID
}

func (p *Pipeline) Generation() uuid.UUID { return p.generation }

// Vulkan exposes the underlying pipeline for command recording.
func (p *Pipeline) Vulkan() *VulkanPipeline { return p.inner }

// PipelineFactory builds and destroys graphics pipelines for the hot-reload
// manager. All calls happen on the render thread.
type PipelineFactory struct {
	context     *VulkanContext
	isWireframe bool
}

func NewPipelineFactory(context *VulkanContext) *PipelineFactory {
	return &PipelineFactory{context: context}
}

func (f *PipelineFactory) Build(stages map[shader.Stage]*shader.CompiledShader) (hotreload.PipelineHandle, error) {
	modules := make([]*VulkanShaderStage, 0, len(stages))
	defer func() {
		// Modules are only needed while the pipeline is being created.
		for _, m := range modules {
			m.Destroy(f.context)
		}
	}()

	stageInfos := make([]vk.PipelineShaderStageCreateInfo, 0, len(stages))
	for _, stage := range graphicsStageOrder {
		compiled, ok := stages[stage]
		if !ok {
			continue
		}
		module, err := NewShaderModule(f.context, compiled)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
		stageInfos = append(stageInfos, module.ShaderStageCreateInfo)
	}

	if _, hasCompute := stages[shader.StageCompute]; hasCompute {
		core.LogDebug("compute stage present but not part of the graphics pipeline, skipping")
	}
	if len(stageInfos) == 0 {
		return nil, fmt.Errorf("no graphics shader stages to build a pipeline from")
	}

	pipeline, err := NewGraphicsPipeline(f.context, &VulkanPipelineConfig{
		Stages: stageInfos,
		Viewport: vk.Viewport{
			X: 0, Y: 0,
			Width:    float32(f.context.FramebufferWidth),
			Height:   float32(f.context.FramebufferHeight),
			MinDepth: 0,
			MaxDepth: 1,
		},
		Scissor: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{
				Width:  f.context.FramebufferWidth,
				Height: f.context.FramebufferHeight,
			},
		},
		IsWireframe: f.isWireframe,
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		inner:      pipeline,
		generation: uuid.New(),
	}, nil
}

func (f *PipelineFactory) Destroy(handle hotreload.PipelineHandle) {
	p, ok := handle.(*Pipeline)
	if !ok {
		core.LogWarn("pipeline factory asked to destroy a foreign handle")
		return
	}
	p.inner.Destroy(f.context)
	core.LogDebug("pipeline %s destroyed", p.generation)
}
