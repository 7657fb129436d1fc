package core

import "unsafe"

// General helper functions for comparisons and conversions.

// AllOfAinB ensures a given list is fully contained in another. This is
// mainly used to check for extension and layer support during initialization.
func AllOfAinB(a []string, b []string) bool {
	for _, _a := range a {
		isIn := false
		for _, _b := range b {
			if _a == _b {
				isIn = true
				break
			}
		}
		if !isIn {
			return false
		}
	}
	return true
}

// TerminatedStr ensures the given string is \x00 terminated as vulkan expects
// this in certain structs.
func TerminatedStr(s string) string {
	if s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func TerminatedStrs(strs []string) []string {
	out := make([]string, len(strs))
	for i := range strs {
		out[i] = TerminatedStr(strs[i])
	}
	return out
}

// AsUint32Arr casts a []byte to []uint32 without copying. Only used to hand
// SPIR-V byte code to shader module creation, equivalent to the C++
// 'reinterpret_cast<const uint32_t*>(code.data())'.
func AsUint32Arr(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&data)).Data))[: len(data)/4 : len(data)/4]
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}
