package renderer

// FrameBackend is the device-facing side of the frame loop. Every call is
// keyed by a frame slot so the synchronization protocol itself carries no
// Vulkan handles, only the backend does.
type FrameBackend interface {
	// WaitForFrameFence blocks until the work submitted under the given slot
	// has fully completed. Waiting on a slot that has no outstanding work
	// returns immediately.
	WaitForFrameFence(slot int) error

	// ResetFrameFence moves the slot's fence back to unsignaled, to be
	// signaled again by the next submission under that slot.
	ResetFrameFence(slot int) error

	// AcquireImage hands out the index of the next presentable image and
	// arranges for the slot's image-available semaphore to be signaled once
	// the image is actually free.
	AcquireImage(slot int) (uint32, error)

	// SubmitFrame queues the pre-recorded commands for the given image,
	// waiting on the slot's image-available semaphore and signaling its
	// render-finished semaphore and fence.
	SubmitFrame(slot int, imageIdx uint32) error

	// PresentImage queues the image for presentation once the slot's
	// render-finished semaphore signals.
	PresentImage(slot int, imageIdx uint32) error
}

// FrameSync drives the per-frame synchronization protocol over a fixed ring
// of frame slots. At most len(ring) logical frames are in flight at any time,
// the slot fences are the only backpressure mechanism.
type FrameSync struct {
	backend        FrameBackend
	framesInFlight int
	currentSlot    int

	// imagesInFlight tracks which slot last claimed each swapchain image,
	// -1 meaning unclaimed. Needed because the driver may hand out more
	// images than there are slots, or the same image twice in a row.
	imagesInFlight []int
}

// NewFrameSync prepares the slot ring for the given backend. imageCount is
// the number of swapchain images the backend can hand out.
func NewFrameSync(backend FrameBackend, framesInFlight int, imageCount int) *FrameSync {
	imagesInFlight := make([]int, imageCount)
	for i := range imagesInFlight {
		imagesInFlight[i] = -1
	}
	return &FrameSync{
		backend:        backend,
		framesInFlight: framesInFlight,
		currentSlot:    0,
		imagesInFlight: imagesInFlight,
	}
}

// DrawFrame runs one iteration of the frame protocol: wait for the current
// slot to be free, acquire an image, make sure no older frame still renders
// into it, then submit and present under the current slot. Any error aborts
// the frame and is passed up, no state is rolled back.
func (fs *FrameSync) DrawFrame() error {
	slot := fs.currentSlot

	// Slot reuse is only safe once its previous frame fully completed
	if err := fs.backend.WaitForFrameFence(slot); err != nil {
		return err
	}
	imageIdx, err := fs.backend.AcquireImage(slot)
	if err != nil {
		return err
	}

	// The image may still be rendered into by the frame that claimed it
	// earlier. Its slot fence covers exactly that work.
	if prev := fs.imagesInFlight[imageIdx]; prev >= 0 {
		if err := fs.backend.WaitForFrameFence(prev); err != nil {
			return err
		}
	}
	fs.imagesInFlight[imageIdx] = slot

	// Reset only happens once new work is certain to be submitted, otherwise
	// a failed acquire would leave the slot waiting forever.
	if err := fs.backend.ResetFrameFence(slot); err != nil {
		return err
	}
	if err := fs.backend.SubmitFrame(slot, imageIdx); err != nil {
		return err
	}
	if err := fs.backend.PresentImage(slot, imageIdx); err != nil {
		return err
	}

	fs.currentSlot = (slot + 1) % fs.framesInFlight
	return nil
}
