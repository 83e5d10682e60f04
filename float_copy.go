package gpucopy

import (
	"fmt"
)

// memcpyFloatKernel is the bounded single-pass variant: each execution
// unit handles exactly FloatBatchSize float4 words at a fixed offset
// derived from its global position. The whole batch is loaded into
// private registers before any store, keeping FloatBatchSize memory
// transactions outstanding instead of serializing on each word.
// Out-of-range words are skipped per element by the guard check.
func memcpyFloatKernel(n int, in, out []Float4) Kernel {
	return func(tid ThreadID) {
		index := tid.ThreadIdx.X + FloatBatchSize*tid.BlockIdx.X*tid.BlockDim.X
		var a [FloatBatchSize]Float4
		for i := 0; i < FloatBatchSize; i++ {
			if index+i*tid.BlockDim.X < n {
				a[i] = in[index+i*tid.BlockDim.X]
			}
		}
		for i := 0; i < FloatBatchSize; i++ {
			if index+i*tid.BlockDim.X < n {
				out[index+i*tid.BlockDim.X] = a[i]
			}
		}
	}
}

// memcpyFloatLoopKernel is the grid-stride variant: the same per-unit
// batching wrapped in an outer stride loop, so a small fixed-size grid
// covers arbitrarily large n across multiple iterations.
func memcpyFloatLoopKernel(n int, in, out []Float4) Kernel {
	return func(tid ThreadID) {
		outer := FloatBatchSize * tid.GridDim.X * tid.BlockDim.X
		for index := tid.ThreadIdx.X + tid.BlockIdx.X*FloatBatchSize*tid.BlockDim.X; index < n; index += outer {
			var a [FloatBatchSize]Float4
			for i := 0; i < FloatBatchSize; i++ {
				if index+i*tid.BlockDim.X < n {
					a[i] = in[index+i*tid.BlockDim.X]
				}
			}
			for i := 0; i < FloatBatchSize; i++ {
				if index+i*tid.BlockDim.X < n {
					out[index+i*tid.BlockDim.X] = a[i]
				}
			}
		}
	}
}

// MemcpyFloat copies n float32 elements from src to dst as 4-wide float
// vectors, FloatBatchSize vector words per execution unit per pass, with
// the grid sized to cover the data in exactly one pass.
//
// n must be a multiple of 4; other counts are rejected with an
// InvalidArgument error rather than silently truncated, so no tail
// elements are ever dropped. src and dst must be VectorWidthBytes-aligned
// and must not overlap. n == 0 is a no-op and launches nothing.
func MemcpyFloat(n int, src, dst DevicePtr, stream *Stream) error {
	return memcpyFloat("MemcpyFloat", n, src, dst, stream, false)
}

// MemcpyFloatStrided is MemcpyFloat on a fixed StridedGridGroups-group
// grid: identical batching, but each unit loops over the data with a grid
// stride. Preferable when launch geometry must stay constant regardless
// of n, at the cost of more iterations per unit for large copies.
func MemcpyFloatStrided(n int, src, dst DevicePtr, stream *Stream) error {
	return memcpyFloat("MemcpyFloatStrided", n, src, dst, stream, true)
}

func memcpyFloat(op string, n int, src, dst DevicePtr, stream *Stream, strided bool) error {
	if err := checkCopyArgs[float32](op, n, src, dst); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if n%4 != 0 {
		return NewInvalidArgError(op,
			fmt.Sprintf("element count %d is not a multiple of 4", n))
	}

	// The kernels operate on vector-word counts, not raw element counts.
	words := n / 4
	in := AsFloat4(src, words)
	out := AsFloat4(dst, words)

	block := Dim3{X: GroupSize, Y: 1, Z: 1}

	if strided {
		grid := Dim3{X: StridedGridGroups, Y: 1, Z: 1}
		return launchKernel(op, stream, grid, block, memcpyFloatLoopKernel(words, in, out))
	}

	// One pass: each group covers FloatBatchSize*GroupSize words, so the
	// batch count is rounded up before planning the grid.
	batches := (words + FloatBatchSize - 1) / FloatBatchSize
	grid := Dim3{X: NumGroups(batches), Y: 1, Z: 1}
	return launchKernel(op, stream, grid, block, memcpyFloatKernel(words, in, out))
}
