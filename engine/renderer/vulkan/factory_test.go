package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidwalk/vulkn/engine/shader"
)

func TestStageFlagMapping(t *testing.T) {
	cases := map[shader.Stage]vk.ShaderStageFlagBits{
		shader.StageVertex:         vk.ShaderStageVertexBit,
		shader.StageFragment:       vk.ShaderStageFragmentBit,
		shader.StageGeometry:       vk.ShaderStageGeometryBit,
		shader.StageCompute:        vk.ShaderStageComputeBit,
		shader.StageTessControl:    vk.ShaderStageTessellationControlBit,
		shader.StageTessEvaluation: vk.ShaderStageTessellationEvaluationBit,
	}
	for stage, want := range cases {
		flag, err := stageFlag(stage)
		require.NoError(t, err, stage.String())
		assert.Equal(t, want, flag)
	}

	_, err := stageFlag(shader.Stage(200))
	assert.ErrorIs(t, err, shader.ErrUnsupportedStage)
}

func TestGraphicsStageOrder(t *testing.T) {
	// Vertex input comes first, fragment output last, compute never.
	require.NotEmpty(t, graphicsStageOrder)
	assert.Equal(t, shader.StageVertex, graphicsStageOrder[0])
	assert.Equal(t, shader.StageFragment, graphicsStageOrder[len(graphicsStageOrder)-1])
	assert.NotContains(t, graphicsStageOrder, shader.StageCompute)
}

func TestVulkanResultClassification(t *testing.T) {
	assert.True(t, VulkanResultIsSuccess(vk.Success))
	assert.True(t, VulkanResultIsSuccess(vk.Suboptimal))
	assert.False(t, VulkanResultIsSuccess(vk.ErrorDeviceLost))
	assert.False(t, VulkanResultIsSuccess(vk.ErrorOutOfHostMemory))

	assert.Equal(t, "VK_SUCCESS", VulkanResultString(vk.Success))
	assert.Equal(t, "VK_ERROR_DEVICE_LOST", VulkanResultString(vk.ErrorDeviceLost))
}
