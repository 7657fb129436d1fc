package core

import (
	"testing"
)

func TestAllOfAinB(t *testing.T) {
	b := []string{"VK_KHR_surface", "VK_KHR_swapchain", "VK_EXT_debug_utils"}

	if !AllOfAinB([]string{"VK_KHR_swapchain"}, b) {
		t.Errorf("Expected subset to be found in %v", b)
	}
	if !AllOfAinB(nil, b) {
		t.Errorf("Expected empty subset to always be found")
	}
	if AllOfAinB([]string{"VK_KHR_swapchain", "VK_KHR_maintenance1"}, b) {
		t.Errorf("Expected missing element to fail the check")
	}
}

func TestTerminatedStr(t *testing.T) {
	got := TerminatedStr("VK_KHR_swapchain")
	if got[len(got)-1] != '\x00' {
		t.Errorf("Expected string to end in a null byte but got %q", got)
	}
	// Already terminated strings stay untouched
	if TerminatedStr(got) != got {
		t.Errorf("Expected already terminated string to pass through unchanged")
	}
}

func TestTerminatedStrs(t *testing.T) {
	in := []string{"VK_LAYER_KHRONOS_validation", "VK_KHR_swapchain\x00"}
	got := TerminatedStrs(in)
	if len(got) != len(in) {
		t.Fatalf("Expected %d strings but got %d", len(in), len(got))
	}
	for i := range got {
		if got[i][len(got[i])-1] != '\x00' {
			t.Errorf("Expected string %d to end in a null byte but got %q", i, got[i])
		}
	}
	// Input slice must not be mutated
	if in[0][len(in[0])-1] == '\x00' {
		t.Errorf("Expected input slice to remain unterminated")
	}
}
