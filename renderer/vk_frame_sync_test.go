package renderer

import (
	"errors"
	"fmt"
	"testing"
)

// mockFrames simulates the device side of the frame protocol. Submitted
// frames complete in submission order, but only when some caller actually
// waits on a fence, which makes missing waits visible as protocol violations.
type mockFrames struct {
	slots  int
	images int

	fenceSignaled []bool
	pending       []mockPending
	nextImage     int

	presented      int
	completed      int
	maxOutstanding int
	violations     []string

	acquireErr error
	submitErr  error
}

type mockPending struct {
	slot  int
	image int
}

func newMockFrames(slots int, images int) *mockFrames {
	m := &mockFrames{
		slots:         slots,
		images:        images,
		fenceSignaled: make([]bool, slots),
	}
	// Fences start signaled, like freshly created ones
	for i := range m.fenceSignaled {
		m.fenceSignaled[i] = true
	}
	return m
}

func (m *mockFrames) WaitForFrameFence(slot int) error {
	if m.fenceSignaled[slot] {
		return nil
	}
	// The GPU retires work in submission order, so waiting on this slot's
	// fence implies every earlier submission completes too.
	last := -1
	for i := range m.pending {
		if m.pending[i].slot == slot {
			last = i
		}
	}
	if last < 0 {
		return fmt.Errorf("wait on slot %d with unsignaled fence and no submitted work", slot)
	}
	for i := 0; i <= last; i++ {
		m.fenceSignaled[m.pending[i].slot] = true
		m.completed++
	}
	m.pending = m.pending[last+1:]
	return nil
}

func (m *mockFrames) ResetFrameFence(slot int) error {
	if !m.fenceSignaled[slot] {
		m.violations = append(m.violations, fmt.Sprintf("reset of unsignaled fence for slot %d", slot))
	}
	m.fenceSignaled[slot] = false
	return nil
}

func (m *mockFrames) AcquireImage(slot int) (uint32, error) {
	if m.acquireErr != nil {
		return 0, m.acquireErr
	}
	img := m.nextImage % m.images
	m.nextImage++
	return uint32(img), nil
}

func (m *mockFrames) SubmitFrame(slot int, imageIdx uint32) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	if m.fenceSignaled[slot] {
		m.violations = append(m.violations, fmt.Sprintf("submit on slot %d without prior fence reset", slot))
	}
	for i := range m.pending {
		if m.pending[i].image == int(imageIdx) {
			m.violations = append(m.violations, fmt.Sprintf("image %d submitted while still in flight under slot %d", imageIdx, m.pending[i].slot))
		}
	}
	m.pending = append(m.pending, mockPending{slot: slot, image: int(imageIdx)})
	if len(m.pending) > m.maxOutstanding {
		m.maxOutstanding = len(m.pending)
	}
	return nil
}

func (m *mockFrames) PresentImage(slot int, imageIdx uint32) error {
	m.presented++
	return nil
}

// TestDrawFrameBackpressure runs many frames over a small slot ring and
// checks the ring bounds the number of frames in flight.
func TestDrawFrameBackpressure(t *testing.T) {
	m := newMockFrames(2, 3)
	fs := NewFrameSync(m, 2, 3)

	const frames = 20
	for i := 0; i < frames; i++ {
		if err := fs.DrawFrame(); err != nil {
			t.Fatalf("Frame %d failed: %s", i, err)
		}
	}
	if len(m.violations) > 0 {
		t.Errorf("Protocol violations: %v", m.violations)
	}
	if m.presented != frames {
		t.Errorf("Expected %d presented frames but got %d", frames, m.presented)
	}
	if m.maxOutstanding > 2 {
		t.Errorf("Expected at most 2 frames in flight but saw %d", m.maxOutstanding)
	}
}

// TestDrawFrameSingleImage forces every frame onto the same swapchain image,
// which makes any missing image-in-flight wait show up as a double claim.
func TestDrawFrameSingleImage(t *testing.T) {
	m := newMockFrames(2, 1)
	fs := NewFrameSync(m, 2, 1)

	for i := 0; i < 10; i++ {
		if err := fs.DrawFrame(); err != nil {
			t.Fatalf("Frame %d failed: %s", i, err)
		}
	}
	if len(m.violations) > 0 {
		t.Errorf("Protocol violations: %v", m.violations)
	}
	if m.presented != 10 {
		t.Errorf("Expected 10 presented frames but got %d", m.presented)
	}
}

// TestDrawFrameSingleSlot degenerates the ring to one slot, fully serializing
// the loop.
func TestDrawFrameSingleSlot(t *testing.T) {
	m := newMockFrames(1, 3)
	fs := NewFrameSync(m, 1, 3)

	for i := 0; i < 6; i++ {
		if err := fs.DrawFrame(); err != nil {
			t.Fatalf("Frame %d failed: %s", i, err)
		}
	}
	if len(m.violations) > 0 {
		t.Errorf("Protocol violations: %v", m.violations)
	}
	if m.maxOutstanding > 1 {
		t.Errorf("Expected at most 1 frame in flight but saw %d", m.maxOutstanding)
	}
}

// TestDrawFrameAcquireError confirms an acquire failure aborts the frame
// before the slot fence is reset, so the error surfaces unchanged and the
// slot stays reusable.
func TestDrawFrameAcquireError(t *testing.T) {
	m := newMockFrames(2, 3)
	fs := NewFrameSync(m, 2, 3)

	wantErr := errors.New("surface gone")
	m.acquireErr = wantErr
	if err := fs.DrawFrame(); !errors.Is(err, wantErr) {
		t.Errorf("Expected acquire error to propagate but got %v", err)
	}
	if !m.fenceSignaled[0] {
		t.Errorf("Expected slot 0 fence untouched after failed acquire")
	}
	if fs.currentSlot != 0 {
		t.Errorf("Expected slot not to advance after failed frame but got %d", fs.currentSlot)
	}
	if m.presented != 0 {
		t.Errorf("Expected no presented frames after failed acquire but got %d", m.presented)
	}
}

// TestDrawFrameSubmitError confirms a submit failure propagates and stops the
// slot from advancing.
func TestDrawFrameSubmitError(t *testing.T) {
	m := newMockFrames(2, 3)
	fs := NewFrameSync(m, 2, 3)

	wantErr := errors.New("queue submit failed")
	m.submitErr = wantErr
	if err := fs.DrawFrame(); !errors.Is(err, wantErr) {
		t.Errorf("Expected submit error to propagate but got %v", err)
	}
	if fs.currentSlot != 0 {
		t.Errorf("Expected slot not to advance after failed frame but got %d", fs.currentSlot)
	}
}

// TestDrawFrameSlotRotation confirms the slot index cycles through the ring.
func TestDrawFrameSlotRotation(t *testing.T) {
	m := newMockFrames(2, 3)
	fs := NewFrameSync(m, 2, 3)

	expected := []int{0, 1, 0, 1}
	for i, want := range expected {
		if fs.currentSlot != want {
			t.Errorf("Before frame %d expected slot %d but got %d", i, want, fs.currentSlot)
		}
		if err := fs.DrawFrame(); err != nil {
			t.Fatalf("Frame %d failed: %s", i, err)
		}
	}
}
