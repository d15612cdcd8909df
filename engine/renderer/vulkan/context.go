package vulkan

import (
	vk "github.com/goki/vulkan"
)

// VulkanContext carries the device-level handles the pipeline factory needs.
// Instance, device and render pass bring-up is owned by the embedding
// application; this package only consumes the results.
type VulkanContext struct {
	Device    vk.Device
	Allocator *vk.AllocationCallbacks

	// The render pass new pipelines are built against.
	RenderPass vk.RenderPass

	// The framebuffer's current size, used for the initial viewport and
	// scissor. Viewport and scissor are dynamic state, so resizes do not
	// require a pipeline rebuild.
	FramebufferWidth  uint32
	FramebufferHeight uint32
}
