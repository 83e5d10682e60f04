package gpucopy

import (
	"runtime"
	"sync"
)

// Launcher is the launch contract implemented once per execution back end.
// Launch schedules kernel execution across grid*block execution units on the
// given stream. Scheduling is asynchronous: a nil return means the kernel
// was accepted onto the stream, not that it has run. A non-nil return means
// the back end rejected the launch and the kernel will never execute.
//
// All back ends provide the same partitioning guarantee: each execution unit
// observes a unique ThreadID, and a grid-stride loop over those IDs visits
// every index in the work range exactly once.
type Launcher interface {
	// Name identifies the back end for configuration and diagnostics.
	Name() string

	// Launch schedules the kernel. sharedMem is the per-block scratch
	// allocation in bytes; the copy kernels in this package use none.
	Launch(stream *Stream, grid, block Dim3, sharedMem int, kernel Kernel) error
}

// DefaultLauncher returns the launch back end used for new streams:
// block-parallel when more than one core is available, serial otherwise.
func DefaultLauncher() Launcher {
	if runtime.NumCPU() > 1 {
		return ParallelLauncher{}
	}
	return SerialLauncher{}
}

// checkLaunch validates the common launch preconditions shared by all
// back ends. Zero-sized launches are invalid; callers skip dispatch for
// empty work ranges instead.
func checkLaunch(stream *Stream, grid, block Dim3) error {
	if stream == nil {
		return ErrNilStream
	}
	if grid.Size() <= 0 || block.Size() <= 0 {
		return ErrZeroGeometry
	}
	return nil
}

// linearTo3D converts a linear index to 3D coordinates
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}

// runBlock executes all threads of one block sequentially. Sequential
// execution within a block maximizes cache reuse on CPU back ends.
func runBlock(kernel Kernel, blockID int, grid, block Dim3) {
	blockIdx := linearTo3D(blockID, grid)
	blockSize := block.Size()
	for threadID := 0; threadID < blockSize; threadID++ {
		kernel(ThreadID{
			BlockIdx:  blockIdx,
			ThreadIdx: linearTo3D(threadID, block),
			BlockDim:  block,
			GridDim:   grid,
		})
	}
}

// SerialLauncher executes every block in order on the stream worker.
// It is fully deterministic and is the portability baseline: results are
// identical run-to-run, which makes it the back end of choice when
// debugging a kernel.
type SerialLauncher struct{}

// Name implements Launcher.
func (SerialLauncher) Name() string { return "serial" }

// Launch implements Launcher.
func (SerialLauncher) Launch(stream *Stream, grid, block Dim3, sharedMem int, kernel Kernel) error {
	if err := checkLaunch(stream, grid, block); err != nil {
		return err
	}
	gridSize := grid.Size()
	return stream.Submit(func() {
		for blockID := 0; blockID < gridSize; blockID++ {
			runBlock(kernel, blockID, grid, block)
		}
	})
}

// ParallelLauncher distributes blocks across one worker goroutine per CPU
// core. Each worker processes a contiguous run of blocks to maximize cache
// reuse; threads within a block still execute sequentially.
type ParallelLauncher struct{}

// Name implements Launcher.
func (ParallelLauncher) Name() string { return "parallel" }

// Launch implements Launcher.
func (ParallelLauncher) Launch(stream *Stream, grid, block Dim3, sharedMem int, kernel Kernel) error {
	if err := checkLaunch(stream, grid, block); err != nil {
		return err
	}

	gridSize := grid.Size()
	numWorkers := runtime.NumCPU()
	if gridSize < numWorkers {
		numWorkers = gridSize
	}
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	return stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(numWorkers)

		for workerID := 0; workerID < numWorkers; workerID++ {
			startBlock := workerID * blocksPerWorker
			endBlock := startBlock + blocksPerWorker
			if endBlock > gridSize {
				endBlock = gridSize
			}

			go func(start, end int) {
				defer wg.Done()
				for blockID := start; blockID < end; blockID++ {
					runBlock(kernel, blockID, grid, block)
				}
			}(startBlock, endBlock)
		}

		wg.Wait()
	})
}

// WorkerPool manages a pool of persistent worker goroutines for kernel
// execution. Reusing workers amortizes goroutine startup across launches,
// which matters for streams issuing many small copies.
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.tasks {
		task()
	}
}

// Submit adds a task to the pool
func (wp *WorkerPool) Submit(task func()) {
	wp.tasks <- task
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	close(wp.tasks)
	wp.wg.Wait()
}

// PooledLauncher executes blocks on a persistent WorkerPool, one block per
// task. Unlike ParallelLauncher it does not spawn goroutines per launch.
type PooledLauncher struct {
	pool *WorkerPool
}

// NewPooledLauncher creates a launcher backed by a pool of the given size.
// A non-positive size uses one worker per CPU core. The caller owns the
// launcher and should Close it when no more launches will be issued.
func NewPooledLauncher(workers int) *PooledLauncher {
	return &PooledLauncher{pool: NewWorkerPool(workers)}
}

// Name implements Launcher.
func (*PooledLauncher) Name() string { return "pooled" }

// Launch implements Launcher.
func (l *PooledLauncher) Launch(stream *Stream, grid, block Dim3, sharedMem int, kernel Kernel) error {
	if err := checkLaunch(stream, grid, block); err != nil {
		return err
	}

	gridSize := grid.Size()
	return stream.Submit(func() {
		var wg sync.WaitGroup
		wg.Add(gridSize)
		for blockID := 0; blockID < gridSize; blockID++ {
			id := blockID
			l.pool.Submit(func() {
				defer wg.Done()
				runBlock(kernel, id, grid, block)
			})
		}
		wg.Wait()
	})
}

// Close releases the underlying worker pool.
func (l *PooledLauncher) Close() {
	l.pool.Close()
}

// launchKernel dispatches a kernel through the stream's back end and
// surfaces any rejection as a launch failure attributed to op. This is the
// post-launch status check: back-end errors are never silently dropped.
func launchKernel(op string, stream *Stream, grid, block Dim3, kernel Kernel) error {
	if stream == nil {
		return NewLaunchError(op, "nil stream", nil)
	}
	if err := stream.launcher.Launch(stream, grid, block, 0, kernel); err != nil {
		return NewLaunchError(op, "kernel launch failed", err)
	}
	return nil
}
