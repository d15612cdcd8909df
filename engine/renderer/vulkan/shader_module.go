package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/voidwalk/vulkn/engine/shader"
)

/**
 * @brief Represents a single shader stage bound into a pipeline.
 */
type VulkanShaderStage struct {
	/** @brief The internal shader module handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// NewShaderModule wraps compiled SPIR-V words in a driver shader module and
// prepares its pipeline stage info.
func NewShaderModule(context *VulkanContext, compiled *shader.CompiledShader) (*VulkanShaderStage, error) {
	flag, err := stageFlag(compiled.Stage)
	if err != nil {
		return nil, err
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(compiled.Words) * 4),
		PCode:    compiled.Words,
	}

	var handle vk.ShaderModule
	if res := vk.CreateShaderModule(
		context.Device,
		&createInfo,
		context.Allocator,
		&handle); !VulkanResultIsSuccess(res) {
		return nil, fmt.Errorf("vkCreateShaderModule failed for %q with %s", compiled.Path, VulkanResultString(res))
	}

	return &VulkanShaderStage{
		Handle: handle,
		ShaderStageCreateInfo: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  flag,
			Module: handle,
			PName:  "main",
		},
	}, nil
}

// Destroy releases the shader module. Safe once the pipeline using it has
// been created; the module is not needed afterwards.
func (s *VulkanShaderStage) Destroy(context *VulkanContext) {
	if s.Handle != nil {
		vk.DestroyShaderModule(context.Device, s.Handle, context.Allocator)
		s.Handle = nil
	}
}

func stageFlag(stage shader.Stage) (vk.ShaderStageFlagBits, error) {
	switch stage {
	case shader.StageVertex:
		return vk.ShaderStageVertexBit, nil
	case shader.StageFragment:
		return vk.ShaderStageFragmentBit, nil
	case shader.StageGeometry:
		return vk.ShaderStageGeometryBit, nil
	case shader.StageCompute:
		return vk.ShaderStageComputeBit, nil
	case shader.StageTessControl:
		return vk.ShaderStageTessellationControlBit, nil
	case shader.StageTessEvaluation:
		return vk.ShaderStageTessellationEvaluationBit, nil
	default:
		return 0, fmt.Errorf("%w: %s", shader.ErrUnsupportedStage, stage)
	}
}
