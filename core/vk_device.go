package core

import (
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// Discrete GPUs have a significant performance advantage, so they outrank
// every integrated/virtual/cpu candidate regardless of its image dimension
// tie-breaker.
const DISCRETE_GPU_SCORE_BONUS uint32 = 1000

// Device represents the interfacing objects between the window surface, the
// hardware running Vulkan and the rest of the presentation engine. It bundles
// the selected physical device with its logical device and queues to make
// initialization and teardown neater.
type Device struct {
	PD        vk.PhysicalDevice
	PdProps   vk.PhysicalDeviceProperties
	QFamilies QueueFamilyIndices

	D         vk.Device
	GraphicsQ vk.Queue
	PresentQ  vk.Queue
}

// NewDevice scores all available GPUs against the window surface, picks the
// best scoring one and creates a logical device with one graphics and one
// present queue on it.
func NewDevice(w *Window, validationLayers []string, deviceExtensions []string) (*Device, error) {
	dc := &Device{}
	if err := dc.selectPhysicalDevice(w.Inst, w.Surf, deviceExtensions); err != nil {
		return nil, err
	}
	if err := dc.createLogicalDevice(validationLayers, deviceExtensions); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailure, err)
	}
	return dc, nil
}

// Destroy releases the logical device. The physical device handle is owned by
// the instance and needs no explicit teardown.
func (dc *Device) Destroy() {
	vk.DestroyDevice(dc.D, nil)
}

func (dc *Device) selectPhysicalDevice(in *vk.Instance, su *vk.Surface, requiredExt []string) error {
	availableDevices, err := ReadPhysicalDevices(*in)
	if err != nil {
		return err
	}

	log.Printf("Scoring %d physical device(s)", len(availableDevices))
	scores := make([]uint32, len(availableDevices))
	for i := range availableDevices {
		pdProps := ReadPhysicalDeviceProperties(availableDevices[i])
		pdFeatures := ReadPhysicalDeviceFeatures(availableDevices[i])
		eligible := isCandidateEligible(availableDevices[i], su, requiredExt)
		scores[i] = rateCandidate(pdProps, pdFeatures, eligible)
		log.Printf("Physical device\n%s", toStringCandidateTable(pdProps, scores[i]))
	}

	// Maximum score wins, ties go to the earlier enumeration index. Driver
	// enumeration order is stable per machine but not across machines.
	best, err := pickBestIndex(scores)
	if err != nil {
		return err
	}
	dc.PD = availableDevices[best]
	dc.PdProps = ReadPhysicalDeviceProperties(dc.PD)
	log.Printf("Selected %s with score %d", vk.ToString(dc.PdProps.DeviceName[:]), scores[best])

	qf, err := findQueueFamilies(dc.PD, *su)
	if err != nil {
		return fmt.Errorf("failed to read queue families from selected device: %w", err)
	}
	dc.QFamilies = *qf
	return nil
}

// isCandidateEligible gates a candidate on the hard requirements: complete
// queue family assignment, all required device extensions and a surface that
// reports at least one format and one present mode.
func isCandidateEligible(pd vk.PhysicalDevice, su *vk.Surface, requiredExt []string) bool {
	indices, err := findQueueFamilies(pd, *su)
	if err != nil {
		log.Printf("Failed to get required queue families: %s", err)
		return false
	}
	if !indices.IsComplete() {
		return false
	}
	if !checkDeviceExtensionSupport(pd, requiredExt) {
		return false
	}
	// Swapchain adequacy can only be queried once the swapchain extension is
	// known to be present
	scDetails := ReadSwapChainSupportDetails(pd, *su)
	return len(scDetails.Formats) > 0 && len(scDetails.PresentModes) > 0
}

// rateCandidate turns a cached property snapshot into a suitability score.
// Ineligible candidates and candidates without geometry shader support score
// 0. The maximum 2D image dimension serves as a capability proxy between
// devices of the same type.
func rateCandidate(props vk.PhysicalDeviceProperties, features vk.PhysicalDeviceFeatures, eligible bool) uint32 {
	if !eligible {
		return 0
	}
	if features.GeometryShader != vk.True {
		return 0
	}
	var score uint32
	if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
		score += DISCRETE_GPU_SCORE_BONUS
	}
	score += props.Limits.MaxImageDimension2D
	return score
}

// pickBestIndex returns the index of the highest score, first index winning
// ties. A best score of 0 means every candidate was ineligible.
func pickBestIndex(scores []uint32) (int, error) {
	best := -1
	bestScore := uint32(0)
	for i, s := range scores {
		if s > bestScore {
			bestScore = s
			best = i
		}
	}
	if best < 0 {
		return -1, ErrNoSuitableDevice
	}
	return best, nil
}

func (dc *Device) createLogicalDevice(validationLayers []string, deviceExtensions []string) error {
	queueInfos, err := dc.QFamilies.toQueueCreateInfos()
	if err != nil {
		return err
	}
	// Geometry shader support is part of device eligibility, so enable it
	deviceFeatures := vk.PhysicalDeviceFeatures{
		GeometryShader: vk.True,
	}
	deviceCreateInfo := &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   nil,
		Flags:                   0,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       0,
		PpEnabledLayerNames:     nil,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: TerminatedStrs(deviceExtensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
	}
	if len(validationLayers) > 0 {
		deviceCreateInfo.EnabledLayerCount = uint32(len(validationLayers))
		deviceCreateInfo.PpEnabledLayerNames = TerminatedStrs(validationLayers)
	}

	dc.D, err = VkCreateDevice(dc.PD, deviceCreateInfo, nil)
	if err != nil {
		return fmt.Errorf("failed to create logical device: %w", err)
	}
	dc.GraphicsQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.GraphicsFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'graphics' device queue: %w", err)
	}
	dc.PresentQ, err = VkGetDeviceQueue(dc.D, dc.QFamilies.PresentFamily, 0)
	if err != nil {
		return fmt.Errorf("failed to get 'present' device queue: %w", err)
	}
	return nil
}

func checkDeviceExtensionSupport(pd vk.PhysicalDevice, requiredDeviceExt []string) bool {
	supportedExtNames, err := ReadDeviceExtensionPropertyNames(pd)
	if err != nil {
		log.Printf("Failed to read device extensions: %s", err)
		return false
	}
	log.Printf("Required device extensions: %v", requiredDeviceExt)
	log.Printf("Available device extensions (%d) [...]", len(supportedExtNames))
	return AllOfAinB(requiredDeviceExt, supportedExtNames)
}
