// Package gpucopy provides device-side bulk memory-copy primitives with a
// CUDA-style launch model executed on CPU back ends.
//
// Three interchangeable copy strategies are exposed, trading instruction
// count, memory-bandwidth utilization, and register pressure:
//
//   - ScalarCopy: element-at-a-time grid-stride copy, maximal portability
//   - VectorCopy: 128-bit wide loads and stores with a scalar remainder pass
//   - MemcpyFloat: software-pipelined float4 batch copy for float32 data
//
// All strategies share one launch contract: the caller supplies an element
// count, source and destination device pointers, and a Stream; the copy is
// issued asynchronously and completes when the stream synchronizes.
//
// Example usage:
//
//	d_in, _ := gpucopy.Malloc(n * 4)
//	d_out, _ := gpucopy.Malloc(n * 4)
//	defer gpucopy.Free(d_in)
//	defer gpucopy.Free(d_out)
//
//	stream := gpucopy.NewStream()
//	if err := gpucopy.VectorCopy[float32](n, d_in, d_out, stream); err != nil {
//		log.Fatal(err)
//	}
//	stream.Synchronize()
package gpucopy
