package renderer

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"

	"vulkan_triangle/core"
)

func (c *Core) createCommandPool() error {
	commandPool, err := core.VKSCreateCommandPool(c.device.D, 0, *c.device.QFamilies.GraphicsFamily)
	if err != nil {
		return fmt.Errorf("%w: failed to create command pool: %s", core.ErrResourceCreationFailure, err)
	}
	log.Printf("Successfully created command pool")
	c.commandPool = commandPool
	return nil
}

// createCommandBuffers allocates one primary command buffer per swapchain
// image. They are recorded once up front and never reset, so the pool needs
// no reset flag.
func (c *Core) createCommandBuffers() error {
	buffers, err := core.VKAllocateCommandBuffersPrimary(c.device.D, c.commandPool, uint32(len(c.swapChain.Images)))
	if err != nil {
		return fmt.Errorf("%w: failed to allocate command buffers: %s", core.ErrResourceCreationFailure, err)
	}
	log.Printf("Successfully allocated %d command buffers", len(buffers))
	c.commandBuffers = buffers
	return nil
}

// recordDrawCommands pre-records the static triangle draw into every command
// buffer, one per swapchain image. The vertex positions live in the vertex
// shader, so the draw only names the vertex count.
func (c *Core) recordDrawCommands() error {
	for i := range c.commandBuffers {
		beginInfo := vk.CommandBufferBeginInfo{
			SType:            vk.StructureTypeCommandBufferBeginInfo,
			PNext:            nil,
			Flags:            0,
			PInheritanceInfo: nil,
		}
		if err := core.CheckResult(vk.BeginCommandBuffer(c.commandBuffers[i], &beginInfo), "vk.BeginCommandBuffer"); err != nil {
			return fmt.Errorf("%w: command buffer [%d]: %s", core.ErrResourceCreationFailure, i, err)
		}

		renderPassInfo := vk.RenderPassBeginInfo{
			SType:       vk.StructureTypeRenderPassBeginInfo,
			PNext:       nil,
			RenderPass:  c.renderPass,
			Framebuffer: c.swapChain.FrameBuffers[i],
			RenderArea: vk.Rect2D{
				Offset: vk.Offset2D{X: 0, Y: 0},
				Extent: c.swapChain.Config.Extent,
			},
			ClearValueCount: 1,
			PClearValues: []vk.ClearValue{
				vk.NewClearValue([]float32{0, 0, 0, 1}),
			},
		}
		vk.CmdBeginRenderPass(c.commandBuffers[i], &renderPassInfo, vk.SubpassContentsInline)
		vk.CmdBindPipeline(c.commandBuffers[i], vk.PipelineBindPointGraphics, c.pipelines[0])
		vk.CmdDraw(c.commandBuffers[i], 3, 1, 0, 0)
		vk.CmdEndRenderPass(c.commandBuffers[i])

		if err := core.CheckResult(vk.EndCommandBuffer(c.commandBuffers[i]), "vk.EndCommandBuffer"); err != nil {
			return fmt.Errorf("%w: command buffer [%d]: %s", core.ErrResourceCreationFailure, i, err)
		}
	}
	log.Printf("Recorded draw commands into %d command buffers", len(c.commandBuffers))
	return nil
}
