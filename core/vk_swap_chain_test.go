package core

import (
	"errors"
	"math"
	"testing"

	vk "github.com/goki/vulkan"
)

func u32p(v uint32) *uint32 {
	return &v
}

// TestSelectSwapSurfaceFormat confirms the preferred BGRA/sRGB pair wins
// whenever offered, regardless of enumeration position.
func TestSelectSwapSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	details := SwapChainDetails{Formats: []vk.SurfaceFormat{other, preferred}}
	got, err := details.selectSwapSurfaceFormat()
	if err != nil {
		t.Errorf("Error selecting surface format: %s", err)
	}
	if got != preferred {
		t.Errorf("Expected preferred format %v to be selected but got %v", preferred, got)
	}
}

// TestSelectSwapSurfaceFormatFallback confirms the first enumerated format is
// used when the preferred pair is unavailable.
func TestSelectSwapSurfaceFormatFallback(t *testing.T) {
	first := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	second := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	details := SwapChainDetails{Formats: []vk.SurfaceFormat{first, second}}
	got, err := details.selectSwapSurfaceFormat()
	if err != nil {
		t.Errorf("Error selecting surface format: %s", err)
	}
	if got != first {
		t.Errorf("Expected fallback to first format %v but got %v", first, got)
	}
}

func TestSelectSwapSurfaceFormatEmpty(t *testing.T) {
	details := SwapChainDetails{}
	_, err := details.selectSwapSurfaceFormat()
	if !errors.Is(err, ErrSwapchainUnsupported) {
		t.Errorf("Expected ErrSwapchainUnsupported for empty format list but got %v", err)
	}
}

// TestSelectSwapPresentMode confirms mailbox mode wins when offered and FIFO
// is the fallback otherwise.
func TestSelectSwapPresentMode(t *testing.T) {
	details := SwapChainDetails{
		PresentModes: []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox, vk.PresentModeFifo},
	}
	got, err := details.selectSwapPresentMode()
	if err != nil {
		t.Errorf("Error selecting present mode: %s", err)
	}
	if got != vk.PresentModeMailbox {
		t.Errorf("Expected mailbox present mode but got %v", got)
	}

	details.PresentModes = []vk.PresentMode{vk.PresentModeFifo}
	got, err = details.selectSwapPresentMode()
	if err != nil {
		t.Errorf("Error selecting present mode: %s", err)
	}
	if got != vk.PresentModeFifo {
		t.Errorf("Expected FIFO fallback but got %v", got)
	}
}

func TestSelectSwapPresentModeEmpty(t *testing.T) {
	details := SwapChainDetails{}
	_, err := details.selectSwapPresentMode()
	if !errors.Is(err, ErrSwapchainUnsupported) {
		t.Errorf("Expected ErrSwapchainUnsupported for empty present mode list but got %v", err)
	}
}

// TestSelectSwapExtent confirms a fixed surface extent is used verbatim while
// the MaxUint32 sentinel hands the decision to the requested extent, clamped
// per axis.
func TestSelectSwapExtent(t *testing.T) {
	fixed := SwapChainDetails{
		Capabilities: vk.SurfaceCapabilities{
			CurrentExtent: vk.Extent2D{Width: 1024, Height: 768},
		},
	}
	got := fixed.selectSwapExtent(vk.Extent2D{Width: 800, Height: 600})
	if got.Width != 1024 || got.Height != 768 {
		t.Errorf("Expected surface extent 1024x768 to be used verbatim but got %dx%d", got.Width, got.Height)
	}

	flexible := SwapChainDetails{
		Capabilities: vk.SurfaceCapabilities{
			CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
			MinImageExtent: vk.Extent2D{Width: 640, Height: 480},
			MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
		},
	}
	got = flexible.selectSwapExtent(vk.Extent2D{Width: 800, Height: 600})
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("Expected requested extent 800x600 within bounds but got %dx%d", got.Width, got.Height)
	}

	// Each axis clamps independently
	got = flexible.selectSwapExtent(vk.Extent2D{Width: 4000, Height: 100})
	if got.Width != 1920 || got.Height != 480 {
		t.Errorf("Expected per-axis clamp to 1920x480 but got %dx%d", got.Width, got.Height)
	}
}

// TestSelectImageCount confirms min+1 is requested and the max cap is only
// applied when the driver reports one.
func TestSelectImageCount(t *testing.T) {
	unbounded := SwapChainDetails{
		Capabilities: vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0},
	}
	if got := unbounded.selectImageCount(); got != 3 {
		t.Errorf("Expected image count 3 for unbounded surface but got %d", got)
	}

	tight := SwapChainDetails{
		Capabilities: vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2},
	}
	if got := tight.selectImageCount(); got != 2 {
		t.Errorf("Expected image count clamped to 2 but got %d", got)
	}
}

// TestSelectSharingMode confirms concurrent sharing across both families when
// graphics and present differ, exclusive access otherwise.
func TestSelectSharingMode(t *testing.T) {
	same := QueueFamilyIndices{GraphicsFamily: u32p(0), PresentFamily: u32p(0)}
	mode, fams := selectSharingMode(&same)
	if mode != vk.SharingModeExclusive {
		t.Errorf("Expected exclusive sharing for single family but got %v", mode)
	}
	if len(fams) != 0 {
		t.Errorf("Expected no explicit family list for exclusive mode but got %v", fams)
	}

	split := QueueFamilyIndices{GraphicsFamily: u32p(0), PresentFamily: u32p(2)}
	mode, fams = selectSharingMode(&split)
	if mode != vk.SharingModeConcurrent {
		t.Errorf("Expected concurrent sharing for split families but got %v", mode)
	}
	if len(fams) != 2 || fams[0] != 0 || fams[1] != 2 {
		t.Errorf("Expected family list [0 2] but got %v", fams)
	}
}

// TestChooseSwapChainConfig runs the full negotiation over a representative
// snapshot and checks the derived parameter set.
func TestChooseSwapChainConfig(t *testing.T) {
	details := SwapChainDetails{
		Capabilities: vk.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: vk.Extent2D{Width: 800, Height: 600},
		},
		Formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo},
	}
	indices := QueueFamilyIndices{GraphicsFamily: u32p(0), PresentFamily: u32p(0)}

	cfg, err := ChooseSwapChainConfig(&details, &indices, vk.Extent2D{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("Error negotiating swapchain config: %s", err)
	}
	if cfg.ImageCount != 3 {
		t.Errorf("Expected image count 3 but got %d", cfg.ImageCount)
	}
	if cfg.Format.Format != vk.FormatB8g8r8a8Srgb {
		t.Errorf("Expected BGRA sRGB format but got %v", cfg.Format.Format)
	}
	if cfg.PresentMode != vk.PresentModeFifo {
		t.Errorf("Expected FIFO present mode but got %v", cfg.PresentMode)
	}
	if cfg.Extent.Width != 800 || cfg.Extent.Height != 600 {
		t.Errorf("Expected extent 800x600 but got %dx%d", cfg.Extent.Width, cfg.Extent.Height)
	}
	if cfg.SharingMode != vk.SharingModeExclusive {
		t.Errorf("Expected exclusive sharing mode but got %v", cfg.SharingMode)
	}
}
