package renderer

import (
	"fmt"
	"log"
	"math"

	vk "github.com/goki/vulkan"

	"vulkan_triangle/core"
)

// deviceFrames is the Vulkan-backed FrameBackend. It owns the per-slot sync
// objects (two semaphores and one fence each) and submits the pre-recorded
// per-image command buffers.
type deviceFrames struct {
	dc *core.Device
	sc *core.SwapChain

	commandBuffers []vk.CommandBuffer

	imageAvailableSems []vk.Semaphore
	renderFinishedSems []vk.Semaphore
	inFlightFens       []vk.Fence
}

// newDeviceFrames creates the synchronization objects for the given number of
// frame slots. Fences start signaled so the first wait on each slot passes
// without a prior submission.
func newDeviceFrames(dc *core.Device, sc *core.SwapChain, commandBuffers []vk.CommandBuffer, framesInFlight int) (*deviceFrames, error) {
	df := &deviceFrames{
		dc:                 dc,
		sc:                 sc,
		commandBuffers:     commandBuffers,
		imageAvailableSems: make([]vk.Semaphore, framesInFlight),
		renderFinishedSems: make([]vk.Semaphore, framesInFlight),
		inFlightFens:       make([]vk.Fence, framesInFlight),
	}
	semCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: nil,
		Flags: 0,
	}
	fenCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		PNext: nil,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	for i := 0; i < framesInFlight; i++ {
		if vk.CreateSemaphore(dc.D, &semCreateInfo, nil, &df.imageAvailableSems[i]) != vk.Success ||
			vk.CreateSemaphore(dc.D, &semCreateInfo, nil, &df.renderFinishedSems[i]) != vk.Success ||
			vk.CreateFence(dc.D, &fenCreateInfo, nil, &df.inFlightFens[i]) != vk.Success {
			return nil, fmt.Errorf("%w: failed to create sync objects for frame slot %d", core.ErrResourceCreationFailure, i)
		}
	}
	log.Printf("Successfully created sync objects for %d frame slots", framesInFlight)
	return df, nil
}

func (df *deviceFrames) WaitForFrameFence(slot int) error {
	return core.CheckResult(
		vk.WaitForFences(df.dc.D, 1, []vk.Fence{df.inFlightFens[slot]}, vk.True, math.MaxUint64),
		"vk.WaitForFences",
	)
}

func (df *deviceFrames) ResetFrameFence(slot int) error {
	return core.CheckResult(
		vk.ResetFences(df.dc.D, 1, []vk.Fence{df.inFlightFens[slot]}),
		"vk.ResetFences",
	)
}

func (df *deviceFrames) AcquireImage(slot int) (uint32, error) {
	var imageIdx uint32
	result := vk.AcquireNextImage(df.dc.D, df.sc.Handle, math.MaxUint64, df.imageAvailableSems[slot], nil, &imageIdx)
	// A suboptimal image is still presentable, only hard failures abort
	if result == vk.Suboptimal {
		return imageIdx, nil
	}
	if err := core.CheckResult(result, "vk.AcquireNextImage"); err != nil {
		return 0, err
	}
	return imageIdx, nil
}

func (df *deviceFrames) SubmitFrame(slot int, imageIdx uint32) error {
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{df.imageAvailableSems[slot]},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{df.commandBuffers[imageIdx]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{df.renderFinishedSems[slot]},
	}
	return core.CheckResult(
		vk.QueueSubmit(df.dc.GraphicsQ, 1, []vk.SubmitInfo{submitInfo}, df.inFlightFens[slot]),
		"vk.QueueSubmit",
	)
}

func (df *deviceFrames) PresentImage(slot int, imageIdx uint32) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		PNext:              nil,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{df.renderFinishedSems[slot]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{df.sc.Handle},
		PImageIndices:      []uint32{imageIdx},
		PResults:           nil,
	}
	result := vk.QueuePresent(df.dc.PresentQ, &presentInfo)
	if result == vk.Suboptimal {
		return nil
	}
	return core.CheckResult(result, "vk.QueuePresent")
}

// Destroy releases all per-slot sync objects. Callers must ensure the device
// is idle first.
func (df *deviceFrames) Destroy() {
	for i := range df.inFlightFens {
		vk.DestroySemaphore(df.dc.D, df.imageAvailableSems[i], nil)
		vk.DestroySemaphore(df.dc.D, df.renderFinishedSems[i], nil)
		vk.DestroyFence(df.dc.D, df.inFlightFens[i], nil)
	}
}
