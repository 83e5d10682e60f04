package gpucopy

import (
	"testing"
)

func TestPreferredCopyStrategy(t *testing.T) {
	got := PreferredCopyStrategy()
	if got != "vector" && got != "scalar" {
		t.Errorf("PreferredCopyStrategy() = %q, want vector or scalar", got)
	}
	if HasVector128() && got != "vector" {
		t.Errorf("128-bit moves are native but strategy is %q", got)
	}
}

func TestCPUInfo(t *testing.T) {
	if CPUInfo() == "" {
		t.Error("CPUInfo() returned empty string")
	}
}
