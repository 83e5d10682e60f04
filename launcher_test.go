package gpucopy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failLauncher simulates a back end that rejects every launch, standing in
// for an invalid stream or exhausted device.
type failLauncher struct{}

func (failLauncher) Name() string { return "fail" }

func (failLauncher) Launch(stream *Stream, grid, block Dim3, sharedMem int, kernel Kernel) error {
	return errors.New("injected device fault")
}

func TestLaunchFailureSurfaced(t *testing.T) {
	const n = 256

	stream := NewStreamWith(failLauncher{})
	defer stream.Close()

	dSrc, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dSrc)
	dDst, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dDst)

	dst := Slice[int32](dDst, n)
	for i := range dst {
		dst[i] = -1
	}

	err = ScalarCopy[int32](n, dSrc, dDst, stream)
	require.Error(t, err)
	assert.True(t, IsLaunchError(err), "expected LaunchFailure, got %v", err)

	// The kernel never ran; the destination must be untouched.
	stream.Synchronize()
	for i := range dst {
		require.Equal(t, int32(-1), dst[i], "destination modified at %d", i)
	}
}

func TestLaunchOnClosedStream(t *testing.T) {
	stream := NewStream()
	stream.Close()

	d, err := Malloc(64)
	require.NoError(t, err)
	defer Free(d)

	err = ScalarCopy[int32](16, d, d, stream)
	require.Error(t, err)
	assert.True(t, IsLaunchError(err))
	assert.True(t, errors.Is(err, ErrStreamClosed))
}

func TestLaunchOnNilStream(t *testing.T) {
	d, err := Malloc(64)
	require.NoError(t, err)
	defer Free(d)

	err = ScalarCopy[int32](16, d, d, nil)
	require.Error(t, err)
	assert.True(t, IsLaunchError(err))
}

func TestZeroGeometryRejected(t *testing.T) {
	stream := NewStream()
	defer stream.Close()

	noop := Kernel(func(tid ThreadID) {})

	for _, l := range []Launcher{SerialLauncher{}, ParallelLauncher{}} {
		err := l.Launch(stream, Dim3{}, Dim3{X: GroupSize, Y: 1, Z: 1}, 0, noop)
		assert.True(t, errors.Is(err, ErrZeroGeometry), "%s: got %v", l.Name(), err)

		err = l.Launch(stream, Dim3{X: 1, Y: 1, Z: 1}, Dim3{}, 0, noop)
		assert.True(t, errors.Is(err, ErrZeroGeometry), "%s: got %v", l.Name(), err)
	}
}

// TestBackendEquivalence runs the same vector copy on every back end and
// requires bit-identical results.
func TestBackendEquivalence(t *testing.T) {
	const n = 10007 // not a multiple of the vector length

	pooled := NewPooledLauncher(0)
	defer pooled.Close()

	launchers := []Launcher{SerialLauncher{}, ParallelLauncher{}, pooled}

	dSrc, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dSrc)

	src := Slice[int32](dSrc, n)
	for i := range src {
		src[i] = int32(i * 3)
	}

	for _, l := range launchers {
		t.Run(l.Name(), func(t *testing.T) {
			stream := NewStreamWith(l)
			defer stream.Close()

			dDst, err := Malloc(n * 4)
			require.NoError(t, err)
			defer Free(dDst)

			require.NoError(t, VectorCopy[int32](n, dSrc, dDst, stream))
			stream.Synchronize()

			assert.Equal(t, src, Slice[int32](dDst, n))
		})
	}
}

// TestStreamIssueOrder checks that two copies issued on the same stream
// execute in issue order: the second write wins.
func TestStreamIssueOrder(t *testing.T) {
	const n = 4096

	stream := NewStream()
	defer stream.Close()

	dA, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dA)
	dB, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dB)
	dDst, err := Malloc(n * 4)
	require.NoError(t, err)
	defer Free(dDst)

	a := Slice[int32](dA, n)
	b := Slice[int32](dB, n)
	for i := 0; i < n; i++ {
		a[i] = 1
		b[i] = 2
	}

	require.NoError(t, ScalarCopy[int32](n, dA, dDst, stream))
	require.NoError(t, ScalarCopy[int32](n, dB, dDst, stream))
	stream.Synchronize()

	dst := Slice[int32](dDst, n)
	for i := 0; i < n; i++ {
		require.Equal(t, int32(2), dst[i], "issue order violated at %d", i)
	}
}

func TestDefaultLauncher(t *testing.T) {
	name := DefaultLauncher().Name()
	assert.Contains(t, []string{"serial", "parallel"}, name)
}

func TestWorkerPool(t *testing.T) {
	pool := NewWorkerPool(4)

	results := make(chan int, 100)
	for i := 0; i < 100; i++ {
		v := i
		pool.Submit(func() { results <- v })
	}
	pool.Close()

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		seen[<-results] = true
	}
	assert.Len(t, seen, 100)
}
