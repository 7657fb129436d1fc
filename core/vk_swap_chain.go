package core

import (
	"fmt"
	"log"
	"math"

	vk "github.com/goki/vulkan"
)

// SwapChainDetails is the capability snapshot a device reports for a surface:
// capability ranges, supported (format, color space) pairs and supported
// present modes. All values are dereferenced at read time.
type SwapChainDetails struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// SwapChainConfig is the negotiated parameter set a swapchain is created
// from. It is immutable once derived; replacing it means tearing down and
// rebuilding all dependent frame resources.
type SwapChainConfig struct {
	ImageCount    uint32
	Format        vk.SurfaceFormat
	PresentMode   vk.PresentMode
	Extent        vk.Extent2D
	SharingMode   vk.SharingMode
	QueueFamilies []uint32
}

// SwapChain owns the swapchain handle and everything derived per image:
// the images themselves, their views and (once a render pass exists) their
// framebuffers.
type SwapChain struct {
	Config SwapChainConfig
	Handle vk.Swapchain

	Images   []vk.Image
	ImgViews []vk.ImageView

	FrameBuffers []vk.Framebuffer
}

// NewSwapChain negotiates a SwapChainConfig against a fresh capability
// snapshot, creates the swapchain handle and prepares one image view per
// swapchain image. requestedExtent is only consulted when the surface leaves
// the extent decision to the client.
func NewSwapChain(dc *Device, w *Window, requestedExtent vk.Extent2D) (*SwapChain, error) {
	details := ReadSwapChainSupportDetails(dc.PD, *w.Surf)
	cfg, err := ChooseSwapChainConfig(&details, &dc.QFamilies, requestedExtent)
	if err != nil {
		return nil, err
	}
	sc := &SwapChain{Config: *cfg}
	if err := sc.createSwapChainHandle(dc, w, &details); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	sc.Images = ReadSwapChainImages(dc.D, sc.Handle)
	log.Printf("Read %d resulting image handles", len(sc.Images))
	if err := sc.createImageViews(dc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	return sc, nil
}

// ChooseSwapChainConfig derives concrete swapchain parameters from a
// capability snapshot. It fails with ErrSwapchainUnsupported when the
// snapshot offers no format or no present mode at all.
func ChooseSwapChainConfig(details *SwapChainDetails, indices *QueueFamilyIndices, requestedExtent vk.Extent2D) (*SwapChainConfig, error) {
	format, err := details.selectSwapSurfaceFormat()
	if err != nil {
		return nil, err
	}
	presentMode, err := details.selectSwapPresentMode()
	if err != nil {
		return nil, err
	}
	sharingMode, qFamIndices := selectSharingMode(indices)
	return &SwapChainConfig{
		ImageCount:    details.selectImageCount(),
		Format:        format,
		PresentMode:   presentMode,
		Extent:        details.selectSwapExtent(requestedExtent),
		SharingMode:   sharingMode,
		QueueFamilies: qFamIndices,
	}, nil
}

// selectSwapSurfaceFormat prefers 8-bit BGRA in nonlinear sRGB color space.
// The fallback is the first format the driver enumerates, which is
// deterministic per driver but not across them.
func (s *SwapChainDetails) selectSwapSurfaceFormat() (vk.SurfaceFormat, error) {
	if len(s.Formats) == 0 {
		return vk.SurfaceFormat{}, fmt.Errorf("surface reports no formats: %w", ErrSwapchainUnsupported)
	}
	for _, af := range s.Formats {
		if af.Format == vk.FormatB8g8r8a8Srgb && af.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return af, nil
		}
	}
	fallbackFormat := s.Formats[0]
	log.Printf("Did not find preferred SurfaceFormat, selecting first one available. (%v)", fallbackFormat)
	return fallbackFormat, nil
}

// selectSwapPresentMode prefers the low-latency triple buffering mailbox
// mode and falls back to FIFO, the only mode the spec guarantees.
func (s *SwapChainDetails) selectSwapPresentMode() (vk.PresentMode, error) {
	if len(s.PresentModes) == 0 {
		return vk.PresentModeFifo, fmt.Errorf("surface reports no present modes: %w", ErrSwapchainUnsupported)
	}
	for _, pm := range s.PresentModes {
		if pm == vk.PresentModeMailbox {
			return pm, nil
		}
	}
	log.Printf("Did not find preferred PresentMode, selecting FIFO. (%v)", vk.PresentModeFifo)
	return vk.PresentModeFifo, nil
}

// selectSwapExtent uses the surface-reported current extent verbatim unless
// the surface reports the "client decides" sentinel, in which case the
// requested extent is clamped to the supported range per axis.
func (s *SwapChainDetails) selectSwapExtent(requestedExtent vk.Extent2D) vk.Extent2D {
	if s.Capabilities.CurrentExtent.Width != math.MaxUint32 {
		return s.Capabilities.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampU32(requestedExtent.Width, s.Capabilities.MinImageExtent.Width, s.Capabilities.MaxImageExtent.Width),
		Height: clampU32(requestedExtent.Height, s.Capabilities.MinImageExtent.Height, s.Capabilities.MaxImageExtent.Height),
	}
}

// selectImageCount requests one image more than the driver minimum so
// acquisition does not have to wait on the driver, clamped to the maximum
// when the device enforces one (0 means unbounded).
func (s *SwapChainDetails) selectImageCount() uint32 {
	imgCount := s.Capabilities.MinImageCount + 1
	if s.Capabilities.MaxImageCount > 0 && imgCount > s.Capabilities.MaxImageCount {
		imgCount = s.Capabilities.MaxImageCount
	}
	return imgCount
}

// selectSharingMode picks concurrent sharing across both queue families when
// graphics and present differ, exclusive access otherwise.
func selectSharingMode(indices *QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if !indices.SameFamily() {
		return vk.SharingModeConcurrent, []uint32{*indices.GraphicsFamily, *indices.PresentFamily}
	}
	return vk.SharingModeExclusive, nil
}

func clampU32(v uint32, lo uint32, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (sc *SwapChain) createSwapChainHandle(dc *Device, w *Window, details *SwapChainDetails) error {
	indexCount := uint32(len(sc.Config.QueueFamilies))
	createInfo := &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		PNext:                 nil,
		Flags:                 0,
		Surface:               *w.Surf,
		MinImageCount:         sc.Config.ImageCount,
		ImageFormat:           sc.Config.Format.Format,
		ImageColorSpace:       sc.Config.Format.ColorSpace,
		ImageExtent:           sc.Config.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sc.Config.SharingMode,
		QueueFamilyIndexCount: indexCount,
		PQueueFamilyIndices:   sc.Config.QueueFamilies,
		PreTransform:          details.Capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           sc.Config.PresentMode,
		Clipped:               vk.True,
		OldSwapchain:          nil,
	}

	var err error
	sc.Handle, err = VkCreateSwapChain(dc.D, createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create swapchain: %w", err)
	}
	log.Println("Successfully created swap chain")
	return nil
}

func (sc *SwapChain) createImageViews(dc *Device) error {
	sc.ImgViews = make([]vk.ImageView, len(sc.Images))
	for i := range sc.Images {
		createInfo := &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			PNext:    nil,
			Flags:    0,
			Image:    sc.Images[i],
			ViewType: vk.ImageViewType2d,
			Format:   sc.Config.Format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		imgView, err := VkCreateImageView(dc.D, createInfo, nil)
		if err != nil {
			return fmt.Errorf("failed to create image view [%d]: %w", i, err)
		}
		sc.ImgViews[i] = imgView
	}
	log.Printf("Successfully created %d image views", len(sc.ImgViews))
	return nil
}

// CreateFrameBuffers builds one framebuffer per swapchain image view for the
// given render pass. Separate from NewSwapChain because the render pass is
// created from the negotiated format first.
func (sc *SwapChain) CreateFrameBuffers(dc *Device, renderPass vk.RenderPass) error {
	sc.FrameBuffers = make([]vk.Framebuffer, len(sc.ImgViews))
	for i := range sc.ImgViews {
		framebufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			PNext:           nil,
			Flags:           0,
			RenderPass:      renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{sc.ImgViews[i]},
			Width:           sc.Config.Extent.Width,
			Height:          sc.Config.Extent.Height,
			Layers:          1,
		}
		fb, err := VkCreateFrameBuffer(dc.D, &framebufferInfo, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to create frame buffer [%d]: %s", ErrResourceCreationFailure, i, err)
		}
		sc.FrameBuffers[i] = fb
	}
	log.Printf("Successfully created %d frame buffers", len(sc.FrameBuffers))
	return nil
}

// Destroy tears down framebuffers, image views and the swapchain handle, in
// that order. The images themselves are owned by the swapchain.
func (sc *SwapChain) Destroy(dc *Device) {
	for i := range sc.FrameBuffers {
		vk.DestroyFramebuffer(dc.D, sc.FrameBuffers[i], nil)
	}
	for i := range sc.ImgViews {
		vk.DestroyImageView(dc.D, sc.ImgViews[i], nil)
	}
	vk.DestroySwapchain(dc.D, sc.Handle, nil)
}
