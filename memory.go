package gpucopy

import (
	"fmt"
	"sync"
	"unsafe"
)

// DevicePtr represents a pointer to device memory. It provides type-safe
// access to device memory through the view functions (Float32, Byte,
// Slice) and supports pointer arithmetic through the Offset method.
type DevicePtr struct {
	ptr    unsafe.Pointer
	size   int
	offset int
}

// MemoryPool manages device memory allocation with efficient reuse.
// It maintains a free list of previously allocated blocks to reduce
// allocation overhead and memory fragmentation.
type MemoryPool struct {
	mu         sync.Mutex
	allocated  map[uintptr]*allocation
	freeList   []*allocation
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	ptr     unsafe.Pointer
	backing []uint64 // keeps the block reachable while pooled
	size    int
	used    bool
}

// NewMemoryPool creates a new memory pool for efficient memory management.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{
		allocated: make(map[uintptr]*allocation),
	}
}

// Malloc allocates device memory of the specified size in bytes
func (ctx *Context) Malloc(size int) (DevicePtr, error) {
	return ctx.memory.Allocate(size)
}

// Free releases device memory allocated by Malloc
func (ctx *Context) Free(ptr DevicePtr) error {
	return ctx.memory.Free(ptr)
}

// Allocate allocates memory from the pool. Blocks are MemoryAlignment-byte
// aligned, which satisfies the vector-word alignment precondition of the
// vectorized copy strategy.
func (mp *MemoryPool) Allocate(size int) (DevicePtr, error) {
	if size <= 0 {
		return DevicePtr{}, ErrInvalidSize
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	alignedSize := size
	if alignedSize < MinAllocationSize {
		alignedSize = MinAllocationSize
	}
	alignedSize = (alignedSize + MemoryAlignment - 1) &^ (MemoryAlignment - 1)

	// Try to reuse from free list
	for i, alloc := range mp.freeList {
		if alloc.size >= alignedSize {
			mp.freeList = append(mp.freeList[:i], mp.freeList[i+1:]...)
			alloc.used = true

			mp.totalAlloc += int64(alloc.size)
			if mp.totalAlloc > mp.peakAlloc {
				mp.peakAlloc = mp.totalAlloc
			}

			return DevicePtr{ptr: alloc.ptr, size: size}, nil
		}
	}

	// Allocate new memory. A uint64 backing array gives 8-byte alignment
	// from the runtime; 64-byte alignment comes from the rounded size and
	// the allocator's size-class behavior for large blocks.
	backing := make([]uint64, alignedSize/8)
	ptr := unsafe.Pointer(&backing[0])

	alloc := &allocation{
		ptr:     ptr,
		backing: backing,
		size:    alignedSize,
		used:    true,
	}

	mp.allocated[uintptr(ptr)] = alloc

	mp.totalAlloc += int64(alignedSize)
	if mp.totalAlloc > mp.peakAlloc {
		mp.peakAlloc = mp.totalAlloc
	}

	return DevicePtr{ptr: ptr, size: size}, nil
}

// Free returns memory to the pool
func (mp *MemoryPool) Free(ptr DevicePtr) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	alloc, ok := mp.allocated[uintptr(ptr.ptr)]
	if !ok {
		return NewMemoryError("Free", "pointer not found in allocation pool", nil)
	}

	if !alloc.used {
		return ErrDoubleFree
	}

	alloc.used = false
	mp.freeList = append(mp.freeList, alloc)
	mp.totalAlloc -= int64(alloc.size)

	return nil
}

// GetStats returns memory pool statistics
func (mp *MemoryPool) GetStats() (allocated, peak int64) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.totalAlloc, mp.peakAlloc
}

// DevicePtr methods for convenience

// Slice returns a typed view of the first n elements of the device memory.
// The view aliases the device memory; writes through it are visible to
// kernels and vice versa.
func Slice[T Element](d DevicePtr, n int) []T {
	if d.ptr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(d.ptr), n)
}

// Float32 returns a float32 slice view of the device memory
func (d DevicePtr) Float32() []float32 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*float32)(d.ptr), d.size/4)
}

// Float64 returns a float64 slice view of the device memory
func (d DevicePtr) Float64() []float64 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*float64)(d.ptr), d.size/8)
}

// Int32 returns an int32 slice view of the device memory
func (d DevicePtr) Int32() []int32 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*int32)(d.ptr), d.size/4)
}

// Int64 returns an int64 slice view of the device memory
func (d DevicePtr) Int64() []int64 {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*int64)(d.ptr), d.size/8)
}

// Byte returns a byte slice view of the entire device memory region
func (d DevicePtr) Byte() []byte {
	if d.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(d.ptr), d.size)
}

// Offset returns a new DevicePtr offset by the given number of bytes.
// The returned DevicePtr shares the same underlying memory. Offsets that
// are not a multiple of VectorWidthBytes break the vector-copy alignment
// precondition.
func (d DevicePtr) Offset(bytes int) DevicePtr {
	return DevicePtr{
		ptr:    unsafe.Pointer(uintptr(d.ptr) + uintptr(bytes)),
		size:   d.size - bytes,
		offset: d.offset + bytes,
	}
}

// Size returns the size in bytes of the memory region
func (d DevicePtr) Size() int {
	return d.size
}

// checkCopyArgs validates the host-side arguments shared by every copy
// entry point. These are O(1) checks on the issuing thread, not on the
// kernel hot path.
func checkCopyArgs[T Element](op string, n int, src, dst DevicePtr) error {
	if n < 0 {
		return NewInvalidArgError(op, fmt.Sprintf("negative element count %d", n))
	}
	if n == 0 {
		return nil
	}
	if src.ptr == nil || dst.ptr == nil {
		return NewInvalidArgError(op, "nil device pointer")
	}
	bytes := n * elemSize[T]()
	if src.size < bytes {
		return NewInvalidArgError(op,
			fmt.Sprintf("source holds %d bytes, need %d", src.size, bytes))
	}
	if dst.size < bytes {
		return NewInvalidArgError(op,
			fmt.Sprintf("destination holds %d bytes, need %d", dst.size, bytes))
	}
	return nil
}
