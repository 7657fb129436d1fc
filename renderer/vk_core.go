package renderer

import (
	"log"
	"time"

	vk "github.com/goki/vulkan"

	"vulkan_triangle/config"
	"vulkan_triangle/core"
)

// Core bundles everything needed to clear the screen and present a triangle:
// the window with its surface, the selected device, the negotiated swapchain
// and the static drawing infrastructure built on top of them.
type Core struct {
	// OS/Window level
	Win    *core.Window
	device *core.Device

	// Target level
	swapChain *core.SwapChain

	// Drawing infrastructure level
	renderPass     vk.RenderPass
	pipelineLayout vk.PipelineLayout
	pipelines      []vk.Pipeline
	commandPool    vk.CommandPool
	commandBuffers []vk.CommandBuffer
	shaderDir      string

	// Frame level
	frames *deviceFrames
	sync   *FrameSync
}

// NewCore initializes the full presentation stack in dependency order. Any
// failure aborts initialization and is returned, already constructed parts
// are not torn down as the process exits anyway.
func NewCore(cfg *config.Config) (*Core, error) {
	var validationLayers []string
	if cfg.EnableValidation {
		validationLayers = cfg.ValidationLayers
	}

	win, err := core.NewWindow(cfg.AppName, cfg.WindowWidth, cfg.WindowHeight, validationLayers)
	if err != nil {
		return nil, err
	}
	device, err := core.NewDevice(win, validationLayers, cfg.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	requestedExtent := vk.Extent2D{
		Width:  uint32(cfg.WindowWidth),
		Height: uint32(cfg.WindowHeight),
	}
	swapChain, err := core.NewSwapChain(device, win, requestedExtent)
	if err != nil {
		return nil, err
	}

	c := &Core{
		Win:       win,
		device:    device,
		swapChain: swapChain,
		shaderDir: cfg.ShaderDir,
	}
	if err := c.createRenderPass(); err != nil {
		return nil, err
	}
	if err := c.swapChain.CreateFrameBuffers(c.device, c.renderPass); err != nil {
		return nil, err
	}
	if err := c.createGraphicsPipeline(); err != nil {
		return nil, err
	}
	if err := c.createCommandPool(); err != nil {
		return nil, err
	}
	if err := c.createCommandBuffers(); err != nil {
		return nil, err
	}
	if err := c.recordDrawCommands(); err != nil {
		return nil, err
	}

	c.frames, err = newDeviceFrames(c.device, c.swapChain, c.commandBuffers, cfg.FramesInFlight)
	if err != nil {
		return nil, err
	}
	c.sync = NewFrameSync(c.frames, cfg.FramesInFlight, len(c.swapChain.Images))
	return c, nil
}

// Loop runs the event and draw loop until the user requests shutdown or a
// frame fails. It returns the frame error, if any, after waiting for the
// device to go idle so teardown is safe either way.
func (c *Core) Loop() error {
	t0 := time.Now()
	frames := 0
	var frameErr error
	for !c.Win.PollShutdown() {
		if frameErr = c.sync.DrawFrame(); frameErr != nil {
			break
		}
		frames++
	}
	dt := time.Since(t0)
	log.Printf("Elapsed: %v, rough avg fps: %v fps", dt, float64(frames)/dt.Seconds())

	// All queue work must settle before any teardown may touch the handles
	vk.DeviceWaitIdle(c.device.D)
	return frameErr
}

// Destroy tears the presentation stack down in reverse initialization order.
func (c *Core) Destroy() {
	vk.DeviceWaitIdle(c.device.D)

	c.frames.Destroy()
	vk.DestroyCommandPool(c.device.D, c.commandPool, nil)
	for i := range c.pipelines {
		vk.DestroyPipeline(c.device.D, c.pipelines[i], nil)
	}
	vk.DestroyPipelineLayout(c.device.D, c.pipelineLayout, nil)
	vk.DestroyRenderPass(c.device.D, c.renderPass, nil)
	c.swapChain.Destroy(c.device)
	c.device.Destroy()
	c.Win.Destroy()
}
