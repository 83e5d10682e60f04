package gpucopy

// vectorCopyKernel copies the leading words*vectorLength elements as whole
// 128-bit vector words and then the trailing n mod vectorLength elements
// individually. Both phases are grid-stride loops
// executed unconditionally by every unit, so there is no divergent branch
// selecting a phase. The phase index ranges are disjoint: the bulk phase
// covers elements [0, words*vectorLength), the remainder phase covers
// [words*vectorLength, n).
func vectorCopyKernel[T Element](n, words int, in, out []T, inWords, outWords []Vec128) Kernel {
	tail := words * VectorLength[T]()
	return func(tid ThreadID) {
		idx := tid.Global()
		stride := tid.GridStride()

		// Vector words
		for i := idx; i < words; i += stride {
			outWords[i] = inWords[i]
		}

		// Remaining elements
		for i := idx + tail; i < n; i += stride {
			out[i] = in[i]
		}
	}
}

// VectorCopy copies n elements from src to dst using 128-bit wide loads
// and stores, with the trailing non-multiple elements copied individually.
// Each vector word spans 16/sizeof(T) elements.
//
// src and dst must be VectorWidthBytes-aligned; buffers from Malloc always
// are. The precondition is not checked on the copy path (set DebugChecks
// to assert it) and violating it is undefined behavior. src and dst must
// not overlap. n == 0 is a no-op and launches nothing.
func VectorCopy[T Element](n int, src, dst DevicePtr, stream *Stream) error {
	const op = "VectorCopy"

	if err := checkCopyArgs[T](op, n, src, dst); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	words := n / VectorLength[T]()

	in := Slice[T](src, n)
	out := Slice[T](dst, n)
	inWords := AsVec128(src, words)
	outWords := AsVec128(dst, words)

	// Geometry covers the bulk phase; when n < vectorLength a single
	// group runs the remainder-only case.
	groups := 1
	if words > 0 {
		groups = NumGroups(words)
	}
	grid := Dim3{X: groups, Y: 1, Z: 1}
	block := Dim3{X: GroupSize, Y: 1, Z: 1}

	return launchKernel(op, stream, grid, block,
		vectorCopyKernel(n, words, in, out, inWords, outWords))
}
