package gpucopy

import (
	"fmt"
	"unsafe"
)

// DebugChecks enables alignment and bounds assertions when fixed-width
// chunk views are constructed. It is off by default so the copy hot path
// carries no extra branches; enable it in tests or while chasing a
// misalignment bug, since misaligned wide accesses otherwise surface only
// as silent performance loss or a fault on strict targets.
var DebugChecks bool

// Vec128 is one 128-bit vector word, the widest single load/store the
// vectorized copier issues. Copying a Vec128 value is a bit-exact move of
// 16 bytes regardless of the logical element type underneath.
type Vec128 struct {
	Lo, Hi uint64
}

// Float4 is a 4-wide float32 vector word, the unit of the wide-float
// batch copier.
type Float4 [4]float32

// VectorLength returns the number of T elements per 128-bit vector word.
func VectorLength[T Element]() int {
	return VectorWidthBytes / elemSize[T]()
}

// AsVec128 reinterprets the device memory as a run of 128-bit vector
// words. The view is zero-copy: it aliases the same memory as the element
// view. The memory must be VectorWidthBytes-aligned; with DebugChecks set
// the precondition is asserted, otherwise violating it is undefined
// behavior exactly as for a raw wide load.
func AsVec128(d DevicePtr, words int) []Vec128 {
	if words == 0 {
		return nil
	}
	if DebugChecks {
		checkChunkView("AsVec128", d, words)
	}
	return unsafe.Slice((*Vec128)(d.ptr), words)
}

// AsFloat4 reinterprets the device memory as a run of float4 vector
// words, under the same aliasing and alignment contract as AsVec128.
func AsFloat4(d DevicePtr, words int) []Float4 {
	if words == 0 {
		return nil
	}
	if DebugChecks {
		checkChunkView("AsFloat4", d, words)
	}
	return unsafe.Slice((*Float4)(d.ptr), words)
}

func checkChunkView(op string, d DevicePtr, words int) {
	if d.ptr == nil {
		panic(op + ": nil device pointer")
	}
	if uintptr(d.ptr)%VectorWidthBytes != 0 {
		panic(fmt.Sprintf("%s: pointer %p is not %d-byte aligned", op, d.ptr, VectorWidthBytes))
	}
	if words*VectorWidthBytes > d.size {
		panic(fmt.Sprintf("%s: %d words exceed %d-byte region", op, words, d.size))
	}
}
