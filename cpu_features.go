package gpucopy

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks the instruction set extensions relevant to wide
// copies: anything giving native 128-bit loads and stores.
type CPUFeatures struct {
	HasSSE2 bool
	HasAVX  bool
	HasAVX2 bool
	HasNEON bool
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasSSE2: cpu.X86.HasSSE2,
		HasAVX:  cpu.X86.HasAVX,
		HasAVX2: cpu.X86.HasAVX2,
		HasNEON: cpu.ARM64.HasASIMD,
	}
}

// HasVector128 returns true if the CPU can issue a 128-bit load or store
// as a single instruction, making VectorCopy's wide moves native rather
// than pairs of 64-bit moves.
func HasVector128() bool {
	return cpuFeatures.HasSSE2 || cpuFeatures.HasNEON
}

// PreferredCopyStrategy returns the copy strategy best matched to the
// CPU: "vector" when 128-bit moves are native, "scalar" otherwise.
// Callers are free to ignore it; every strategy is correct on every CPU.
func PreferredCopyStrategy() string {
	if HasVector128() {
		return "vector"
	}
	return "scalar"
}

// CPUInfo returns a string describing available CPU features
func CPUInfo() string {
	features := []string{}

	if cpuFeatures.HasSSE2 {
		features = append(features, "SSE2")
	}
	if cpuFeatures.HasAVX {
		features = append(features, "AVX")
	}
	if cpuFeatures.HasAVX2 {
		features = append(features, "AVX2")
	}
	if cpuFeatures.HasNEON {
		features = append(features, "NEON")
	}

	if len(features) == 0 {
		return "No SIMD extensions detected"
	}

	result := "CPU features: "
	for i, f := range features {
		if i > 0 {
			result += ", "
		}
		result += f
	}
	return result
}
