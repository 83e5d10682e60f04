package gpucopy

// scalarCopyKernel copies one element per iteration of a grid-stride loop.
// Execution unit g owns exactly the index set {i : i ≡ g (mod GridStride)},
// so every index in [0, n) is written by exactly one unit.
func scalarCopyKernel[T Element](n int, in, out []T) Kernel {
	return func(tid ThreadID) {
		stride := tid.GridStride()
		for i := tid.Global(); i < n; i += stride {
			out[i] = in[i]
		}
	}
}

// ScalarCopy copies n elements from src to dst one element at a time using
// scalar loads and stores. It is the most portable strategy: no alignment
// requirement, no vectorization boundary, no remainder handling.
//
// The copy is issued asynchronously on stream and completes when the
// stream synchronizes. src and dst must not overlap. n == 0 is a no-op
// and launches nothing.
func ScalarCopy[T Element](n int, src, dst DevicePtr, stream *Stream) error {
	const op = "ScalarCopy"

	if err := checkCopyArgs[T](op, n, src, dst); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	in := Slice[T](src, n)
	out := Slice[T](dst, n)

	grid, block := geometryFor(n)
	return launchKernel(op, stream, grid, block, scalarCopyKernel(n, in, out))
}
