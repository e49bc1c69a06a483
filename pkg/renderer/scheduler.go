package renderer

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// DefaultChunkSize is the number of pixels a parallel-for worker takes at a time
const DefaultChunkSize = 64

// Scheduler invokes fn exactly once for every pixel index in [0, numPixels).
// Run returns only after every invocation has finished; a cancelled context
// stops the frame between ranges and is reported as ctx.Err().
type Scheduler interface {
	Run(ctx context.Context, numPixels int, fn func(pixelIndex int)) error
	Name() string
	Workers() int
}

// SchedulerNames lists the names accepted by NewScheduler
var SchedulerNames = []string{"sequential", "partition", "parallel-for"}

// NewScheduler selects a scheduling strategy by name. workers <= 0 means one per CPU.
func NewScheduler(name string, workers int) (Scheduler, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential", "sync":
		return SequentialScheduler{}, nil
	case "partition", "async":
		return PartitionScheduler{NumWorkers: workers}, nil
	case "parallel-for", "parallelfor", "":
		return ParallelForScheduler{NumWorkers: workers, ChunkSize: DefaultChunkSize}, nil
	default:
		return nil, fmt.Errorf("unknown scheduler %q (want one of %s)", name, strings.Join(SchedulerNames, ", "))
	}
}

// SequentialScheduler runs every pixel on the calling goroutine
type SequentialScheduler struct{}

func (SequentialScheduler) Name() string { return "sequential" }
func (SequentialScheduler) Workers() int { return 1 }

func (SequentialScheduler) Run(ctx context.Context, numPixels int, fn func(pixelIndex int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := 0; i < numPixels; i++ {
		fn(i)
	}
	return nil
}

// PartitionScheduler splits the frame into one contiguous range per worker
type PartitionScheduler struct {
	NumWorkers int
}

func (s PartitionScheduler) Name() string { return "partition" }
func (s PartitionScheduler) Workers() int { return max(s.NumWorkers, 1) }

func (s PartitionScheduler) Run(ctx context.Context, numPixels int, fn func(pixelIndex int)) error {
	return runRanges(ctx, s.Workers(), PartitionPixels(numPixels, s.Workers()), fn)
}

// ParallelForScheduler hands out fixed-size chunks to whichever worker is free
type ParallelForScheduler struct {
	NumWorkers int
	ChunkSize  int
}

func (s ParallelForScheduler) Name() string { return "parallel-for" }
func (s ParallelForScheduler) Workers() int { return max(s.NumWorkers, 1) }

func (s ParallelForScheduler) Run(ctx context.Context, numPixels int, fn func(pixelIndex int)) error {
	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return runRanges(ctx, s.Workers(), ChunkPixels(numPixels, chunk), fn)
}

// PartitionPixels splits [0, numPixels) into parts contiguous ranges whose
// lengths differ by at most one. The first numPixels%parts ranges get the extra pixel.
func PartitionPixels(numPixels, parts int) []PixelRange {
	if parts < 1 {
		parts = 1
	}
	perPart := numPixels / parts
	remainder := numPixels % parts

	ranges := make([]PixelRange, 0, parts)
	start := 0
	for i := 0; i < parts; i++ {
		size := perPart
		if i < remainder {
			size++
		}
		ranges = append(ranges, PixelRange{Start: start, End: start + size})
		start += size
	}
	return ranges
}

// ChunkPixels splits [0, numPixels) into ranges of chunkSize, the last one possibly shorter
func ChunkPixels(numPixels, chunkSize int) []PixelRange {
	ranges := make([]PixelRange, 0, (numPixels+chunkSize-1)/chunkSize)
	for start := 0; start < numPixels; start += chunkSize {
		ranges = append(ranges, PixelRange{Start: start, End: min(start+chunkSize, numPixels)})
	}
	return ranges
}

// runRanges executes ranges on a worker pool and waits for all of them
func runRanges(ctx context.Context, workers int, ranges []PixelRange, fn func(pixelIndex int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}

	pool := NewWorkerPool(ctx, min(workers, len(ranges)), len(ranges), fn)
	pool.Start()
	for i, r := range ranges {
		pool.SubmitTask(RangeTask{Range: r, TaskID: i})
	}

	var firstErr error
	for range ranges {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	pool.Stop()

	return firstErr
}
