package gpucopy

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents a compute device. Here this is the CPU with its cores.
// Each device has a unique ID and capabilities.
type Device struct {
	ID         int    // Unique device identifier
	Name       string // Human-readable device name
	NumCores   int    // Number of CPU cores
	MaxThreads int    // Maximum concurrent threads
}

// Context represents an execution context for copy operations.
// It manages device resources, memory allocation, and stream creation.
type Context struct {
	device        *Device
	mu            sync.Mutex
	streams       map[int]*Stream
	streamID      int32
	memory        *MemoryPool
	defaultStream *Stream
}

// Dim3 represents 3D dimensions for grid and block configurations.
// This matches CUDA's dim3 structure for kernel launch parameters.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// ThreadID identifies an execution unit's position within the launch
// hierarchy. It provides the same indexing semantics as CUDA's built-in
// variables: blockIdx, threadIdx, blockDim, and gridDim.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Global returns the global thread index
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GridStride returns the total number of concurrently active execution
// units. A grid-stride loop starting at Global() and stepping by this
// value visits exactly the index set {i : i ≡ Global() (mod GridStride())},
// so every index is owned by exactly one unit.
func (tid ThreadID) GridStride() int {
	return tid.BlockDim.X * tid.GridDim.X
}

// Kernel is a kernel body executed once per execution unit. Implementations
// must be safe for concurrent invocation: back ends call the same kernel
// from many goroutines at once.
type Kernel func(tid ThreadID)

// Element enumerates the fixed-width element types the copy strategies are
// instantiated for: the 4- and 8-byte integer and floating-point types.
type Element interface {
	~int32 | ~uint32 | ~float32 | ~int64 | ~uint64 | ~float64
}

// Stream represents an ordered sequence of operations that execute
// asynchronously. Operations within a stream execute in issue order, but
// operations in different streams may execute concurrently.
type Stream struct {
	id       int
	launcher Launcher
	tasks    chan func()
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
}

// Global runtime state
var (
	defaultDevice  *Device
	defaultContext *Context
	initOnce       sync.Once
)

func init() {
	initOnce.Do(func() {
		defaultDevice = &Device{
			ID:         0,
			Name:       "CPU",
			NumCores:   runtime.NumCPU(),
			MaxThreads: runtime.NumCPU() * 2, // Hyperthreading
		}

		defaultContext = &Context{
			device:  defaultDevice,
			streams: make(map[int]*Stream),
			memory:  NewMemoryPool(),
		}

		defaultContext.defaultStream = defaultContext.CreateStream()
	})
}

// Malloc allocates device memory of the specified size in bytes.
// The memory is aligned for vector-wide loads and stores, so buffers from
// this allocator always satisfy the alignment precondition of VectorCopy.
func Malloc(size int) (DevicePtr, error) {
	return defaultContext.Malloc(size)
}

// Free releases device memory allocated by Malloc.
func Free(ptr DevicePtr) error {
	return defaultContext.Free(ptr)
}

// DefaultStream returns the context's default stream.
func DefaultStream() *Stream {
	return defaultContext.defaultStream
}

// NewStream creates a stream backed by the default launcher.
func NewStream() *Stream {
	return defaultContext.CreateStream()
}

// NewStreamWith creates a stream backed by an explicit launch back end.
func NewStreamWith(launcher Launcher) *Stream {
	return defaultContext.CreateStreamWith(launcher)
}

// Synchronize waits for all operations on all streams to complete.
func Synchronize() error {
	return defaultContext.Synchronize()
}

// GetDevice returns the current device information.
func GetDevice() *Device {
	return defaultDevice
}

// Context methods

// CreateStream creates a new execution stream on the default launcher
func (ctx *Context) CreateStream() *Stream {
	return ctx.CreateStreamWith(DefaultLauncher())
}

// CreateStreamWith creates a new execution stream on the given launcher
func (ctx *Context) CreateStreamWith(launcher Launcher) *Stream {
	id := int(atomic.AddInt32(&ctx.streamID, 1))
	stream := &Stream{
		id:       id,
		launcher: launcher,
		tasks:    make(chan func(), 1000),
		done:     make(chan struct{}),
	}

	// Start worker goroutine for stream
	go stream.worker()

	ctx.mu.Lock()
	ctx.streams[id] = stream
	ctx.mu.Unlock()
	return stream
}

// Synchronize waits for all streams to complete
func (ctx *Context) Synchronize() error {
	ctx.mu.Lock()
	streams := make([]*Stream, 0, len(ctx.streams))
	for _, stream := range ctx.streams {
		streams = append(streams, stream)
	}
	ctx.mu.Unlock()

	for _, stream := range streams {
		stream.Synchronize()
	}
	return nil
}

// Stream methods

// worker processes tasks for a stream in issue order
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// Launcher returns the launch back end this stream dispatches through.
func (s *Stream) Launcher() Launcher {
	return s.launcher
}

// Submit adds a task to the stream. It fails once the stream is closed.
func (s *Stream) Submit(task func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()
	s.tasks <- task
	return nil
}

// Synchronize waits for all tasks in the stream to complete
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Close drains the stream and rejects further submissions.
// It is safe to call Close more than once.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	close(s.tasks)
	<-s.done
}

// elemSize returns the byte width of an element type
func elemSize[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
