package renderer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPartitionPixels(t *testing.T) {
	tests := []struct {
		numPixels int
		parts     int
	}{
		{100, 4},
		{101, 4},
		{7, 3},
		{3, 8}, // more workers than pixels
		{640 * 480, 12},
		{0, 2},
		{10, 0},
	}

	for _, tt := range tests {
		ranges := PartitionPixels(tt.numPixels, tt.parts)

		expectedParts := max(tt.parts, 1)
		if len(ranges) != expectedParts {
			t.Errorf("PartitionPixels(%d, %d): expected %d ranges, got %d", tt.numPixels, tt.parts, expectedParts, len(ranges))
			continue
		}

		next, minLen, maxLen := 0, ranges[0].Len(), ranges[0].Len()
		for _, r := range ranges {
			if r.Start != next {
				t.Errorf("PartitionPixels(%d, %d): gap or overlap at %d", tt.numPixels, tt.parts, r.Start)
			}
			next = r.End
			minLen = min(minLen, r.Len())
			maxLen = max(maxLen, r.Len())
		}
		if next != tt.numPixels {
			t.Errorf("PartitionPixels(%d, %d): ranges end at %d", tt.numPixels, tt.parts, next)
		}
		if maxLen-minLen > 1 {
			t.Errorf("PartitionPixels(%d, %d): sizes %d..%d differ by more than one", tt.numPixels, tt.parts, minLen, maxLen)
		}
	}
}

func TestChunkPixels(t *testing.T) {
	ranges := ChunkPixels(130, 64)
	if len(ranges) != 3 || ranges[2] != (PixelRange{Start: 128, End: 130}) {
		t.Errorf("Unexpected chunks %v", ranges)
	}
	if len(ChunkPixels(0, 64)) != 0 {
		t.Error("Expected no chunks for an empty frame")
	}
}

func testSchedulers() []Scheduler {
	return []Scheduler{
		SequentialScheduler{},
		PartitionScheduler{NumWorkers: 1},
		PartitionScheduler{NumWorkers: 7},
		ParallelForScheduler{NumWorkers: 1, ChunkSize: 64},
		ParallelForScheduler{NumWorkers: 5, ChunkSize: 13},
	}
}

func TestSchedulers_VisitEveryPixelOnce(t *testing.T) {
	const numPixels = 1003

	for _, s := range testSchedulers() {
		t.Run(s.Name(), func(t *testing.T) {
			visits := make([]atomic.Int32, numPixels)
			err := s.Run(context.Background(), numPixels, func(i int) {
				visits[i].Add(1)
			})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			for i := range visits {
				if n := visits[i].Load(); n != 1 {
					t.Fatalf("Pixel %d visited %d times", i, n)
				}
			}
		})
	}
}

func TestSchedulers_CancelledFrame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range testSchedulers() {
		t.Run(s.Name(), func(t *testing.T) {
			var calls atomic.Int32
			err := s.Run(ctx, 500, func(int) { calls.Add(1) })
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
			if calls.Load() != 0 {
				t.Errorf("Cancelled frame should not render pixels, rendered %d", calls.Load())
			}
		})
	}
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		wantName string
	}{
		{"sequential", 4, "sequential"},
		{"partition", 4, "partition"},
		{"parallel-for", 4, "parallel-for"},
		{"", 2, "parallel-for"},
		{"Partition", 0, "partition"},
	}

	for _, tt := range tests {
		s, err := NewScheduler(tt.name, tt.workers)
		if err != nil {
			t.Fatalf("NewScheduler(%q) failed: %v", tt.name, err)
		}
		if s.Name() != tt.wantName {
			t.Errorf("NewScheduler(%q) = %s, want %s", tt.name, s.Name(), tt.wantName)
		}
		if s.Workers() < 1 {
			t.Errorf("NewScheduler(%q) has %d workers", tt.name, s.Workers())
		}
	}

	if _, err := NewScheduler("threads", 4); err == nil {
		t.Error("Expected error for unknown scheduler")
	}
}

func TestWorkerPool(t *testing.T) {
	var sum atomic.Int64
	pool := NewWorkerPool(context.Background(), 3, 4, func(i int) { sum.Add(int64(i)) })
	pool.Start()

	for i, r := range PartitionPixels(100, 4) {
		pool.SubmitTask(RangeTask{Range: r, TaskID: i})
	}

	seen := map[int]bool{}
	pixels := 0
	for i := 0; i < 4; i++ {
		result, ok := pool.GetResult()
		if !ok || result.Error != nil {
			t.Fatalf("Unexpected result %+v", result)
		}
		seen[result.TaskID] = true
		pixels += result.Pixels
	}
	pool.Stop()

	if len(seen) != 4 || pixels != 100 {
		t.Errorf("Expected 4 tasks and 100 pixels, got %d tasks and %d pixels", len(seen), pixels)
	}
	if sum.Load() != 99*100/2 {
		t.Errorf("Expected index sum 4950, got %d", sum.Load())
	}
}
