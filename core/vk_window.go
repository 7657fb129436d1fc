package core

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
	"github.com/veandco/go-sdl2/sdl"
)

const ENGINE_NAME = "No Engine"
const APP_MAJOR, APP_MINOR, APP_PATCH = 1, 0, 0
const ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH = 1, 0, 0

const SDL_MAJOR, SDL_MINOR, SDL_PATCH = int(sdl.MAJOR_VERSION), int(sdl.MINOR_VERSION), int(sdl.PATCHLEVEL)

// Vulkan spec go bindings = v1.0.7, as per: https://github.com/goki/vulkan = 1.3.239
const VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH int = 1, 3, 239

// Window encapsulates the window handling components and vulkan access
// objects needed to actually draw on screen. It uses SDL for window
// management and user input, simplifying the process of getting a vk.Surface
// to draw on and interact with.
type Window struct {
	sdlVersion string
	vkVersion  string

	Win   *sdl.Window
	Close bool

	Inst *vk.Instance
	Surf *vk.Surface
}

// NewWindow initializes SDL, the Vulkan loader, a vk.Instance with the
// requested validation layers and the window's presentation surface. On tear
// down the vk.Surface, vk.Instance and sdl.Window need to be destroyed.
func NewWindow(title string, w int32, h int32, validationLayers []string) (*Window, error) {
	window := &Window{
		sdlVersion: fmt.Sprintf("v%d.%d.%d", SDL_MAJOR, SDL_MINOR, SDL_PATCH),
		vkVersion:  fmt.Sprintf("v%d.%d.%d", VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
		Close:      false,
	}
	if err := window.initSDLWindow(title, w, h); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	if err := window.initVulkan(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	if err := window.createVulkanInstance(title, validationLayers); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	if err := window.createSdlVkSurface(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	log.Printf("Generated SDL/Vulkan window - SDL: %s Vulkan Spec: %s", window.sdlVersion, window.vkVersion)
	return window, nil
}

// PollShutdown drains pending window events and reports whether the user
// requested shutdown, either by closing the window or pressing ESC.
func (w *Window) PollShutdown() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch ev := event.(type) {
		case *sdl.QuitEvent:
			w.Close = true
		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				w.Close = true
			}
		}
	}
	return w.Close
}

// Destroy tears down the vk.Surface, vk.Instance and sdl.Window this Window
// initialized.
func (w *Window) Destroy() {
	vk.DestroySurface(*w.Inst, *w.Surf, nil)
	vk.DestroyInstance(*w.Inst, nil)
	if err := w.Win.Destroy(); err != nil {
		log.Printf("Failed to destroy SDL window: %v", err)
	}
	sdl.Quit()
}

func (w *Window) initSDLWindow(title string, width int32, height int32) error {
	if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}
	log.Println("Initialized SDL")
	// Resizing stays disabled: the swapchain is never recreated, so a resized
	// surface would invalidate it mid-flight.
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN,
	)
	if err != nil {
		return fmt.Errorf("failed to create SDL window for use with Vulkan: %w", err)
	}
	log.Printf("Created SDL window for use with Vulkan. Title: \"%s\", Width: %d, Height: %d", title, width, height)
	w.Win = win
	return nil
}

func (w *Window) initVulkan() error {
	// Find and load Vulkan addresses to be able to call driver level functions
	vk.SetGetInstanceProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize Vulkan API: %w", err)
	}
	return nil
}

func (w *Window) createVulkanInstance(appName string, validationLayers []string) error {
	requiredExtensions := w.Win.VulkanGetInstanceExtensions()
	if err := checkInstanceExtensionSupport(requiredExtensions); err != nil {
		return err
	}

	enableValidation := len(validationLayers) > 0
	if enableValidation {
		log.Printf("Validation enabled, checking layer support")
		if err := checkValidationLayerSupport(validationLayers); err != nil {
			return err
		}
	}
	applicationInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PNext:              nil,
		PApplicationName:   TerminatedStr(appName),
		ApplicationVersion: vk.MakeVersion(APP_MAJOR, APP_MINOR, APP_PATCH),
		PEngineName:        TerminatedStr(ENGINE_NAME),
		EngineVersion:      vk.MakeVersion(ENGINE_MAJOR, ENGINE_MINOR, ENGINE_PATCH),
		ApiVersion:         vk.MakeVersion(VK_SPEC_MAJOR, VK_SPEC_MINOR, VK_SPEC_PATCH),
	}
	createInfo := &vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		PApplicationInfo:        applicationInfo,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(requiredExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(requiredExtensions),
	}
	if enableValidation {
		createInfo.EnabledLayerCount = uint32(len(validationLayers))
		createInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}
	ins, err := VkCreateInstance(createInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create vk instance: %w", err)
	}
	w.Inst = &ins
	return nil
}

func (w *Window) createSdlVkSurface() error {
	surf, err := SdlCreateVkSurface(w.Win, *w.Inst)
	if err != nil {
		return fmt.Errorf("failed to create SDL window's Vulkan surface: %w", err)
	}
	w.Surf = &surf
	return nil
}

func checkInstanceExtensionSupport(requiredInstanceExt []string) error {
	supportedExtNames, err := ReadInstanceExtensionPropertyNames()
	if err != nil {
		return err
	}
	log.Printf("Required instance extensions: %v", requiredInstanceExt)
	log.Printf("Available extensions (%d): %v", len(supportedExtNames), supportedExtNames)

	if !AllOfAinB(requiredInstanceExt, supportedExtNames) {
		return fmt.Errorf("at least one required instance extension of %v is not supported", requiredInstanceExt)
	}
	log.Println("Success - All required instance extensions are supported")
	return nil
}

func checkValidationLayerSupport(requiredLayers []string) error {
	supportedLayerNames, err := ReadInstanceLayerPropertyNames()
	if err != nil {
		return err
	}
	log.Printf("Desired validation layers: %v", requiredLayers)
	log.Printf("Supported layers (%d): %v", len(supportedLayerNames), supportedLayerNames)

	if !AllOfAinB(requiredLayers, supportedLayerNames) {
		return fmt.Errorf("at least one desired validation layer of %v is not supported", requiredLayers)
	}
	log.Println("Success - All desired validation layers are supported")
	return nil
}
