package core

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Error kinds of the presentation core. Every failure is fatal and
// short-circuits up the call chain; nothing is retried locally.
var (
	// ErrInitializationFailure covers instance, surface, device and
	// swapchain creation calls reporting non-success.
	ErrInitializationFailure = errors.New("initialization failure")

	// ErrNoSuitableDevice is returned when no enumerated physical device
	// reaches a positive suitability score.
	ErrNoSuitableDevice = errors.New("no suitable physical device (GPU) found")

	// ErrSwapchainUnsupported is returned when the negotiator cannot derive
	// any usable format or present mode. Device eligibility already requires
	// nonempty lists, so hitting this means the surface changed under us.
	ErrSwapchainUnsupported = errors.New("no usable swapchain configuration")

	// ErrResourceCreationFailure covers pipeline, shader module and
	// synchronization object creation.
	ErrResourceCreationFailure = errors.New("resource creation failure")

	// ErrSurfaceOutOfDate and ErrDeviceLost surface runtime failures from
	// acquire/submit/present. The core does not recreate the swapchain, so
	// both terminate the process.
	ErrSurfaceOutOfDate = errors.New("presentation surface out of date")
	ErrDeviceLost       = errors.New("device lost")
)

// CheckResult maps a vk.Result onto the error taxonomy above, attaching the
// name of the call that produced it. Success maps to nil.
func CheckResult(res vk.Result, call string) error {
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate:
		return fmt.Errorf("%s: %w", call, ErrSurfaceOutOfDate)
	case vk.ErrorDeviceLost:
		return fmt.Errorf("%s: %w", call, ErrDeviceLost)
	default:
		return fmt.Errorf("%s: %w", call, vk.Error(res))
	}
}
