// Package gpucopy configuration constants
package gpucopy

// Launch geometry
const (
	// GroupSize is the number of execution units per group (threads per
	// block). All copy kernels launch with this block size.
	GroupSize = 64

	// StridedGridGroups is the fixed grid size used by the grid-stride
	// float copy variant, which covers arbitrarily large inputs from a
	// small constant-size grid.
	StridedGridGroups = 64
)

// Vectorization parameters
const (
	// VectorWidthBytes is the widest single load/store the vectorized
	// copier issues (128 bits).
	VectorWidthBytes = 16

	// FloatBatchSize is the number of float4 words each execution unit
	// loads into registers before storing any of them. Loading the whole
	// batch first keeps multiple memory transactions outstanding.
	FloatBatchSize = 2
)

// Memory pool parameters
const (
	// Memory alignment for allocations. A multiple of VectorWidthBytes,
	// so pooled buffers always satisfy the vector-copy alignment
	// precondition.
	MemoryAlignment = 64

	// Minimum allocation size to prevent fragmentation
	MinAllocationSize = 64
)
