package renderer

import (
	"context"
	"runtime"
	"sync"
)

// PixelRange is a half-open span [Start, End) of flat pixel indices
type PixelRange struct {
	Start int
	End   int
}

// Len returns the number of pixels in the range
func (r PixelRange) Len() int {
	return r.End - r.Start
}

// RangeTask is a unit of work for the worker pool
type RangeTask struct {
	Range  PixelRange
	TaskID int // For deterministic ordering of results
}

// RangeResult reports a finished (or skipped) range back to the submitter
type RangeResult struct {
	TaskID   int
	WorkerID int
	Pixels   int
	Error    error
}

// WorkerPool runs pixel ranges on a fixed set of goroutines
type WorkerPool struct {
	taskQueue   chan RangeTask
	resultQueue chan RangeResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker pulls ranges from the shared queue and calls fn for every pixel in them
type Worker struct {
	ID          int
	fn          func(pixelIndex int)
	ctx         context.Context
	taskQueue   chan RangeTask
	resultQueue chan RangeResult
}

// NewWorkerPool creates a pool of numWorkers workers (0 or less = use CPU count).
// queueSize bounds the number of ranges that can be submitted without blocking.
func NewWorkerPool(ctx context.Context, numWorkers, queueSize int, fn func(pixelIndex int)) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize < 1 {
		queueSize = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RangeTask, queueSize),
		resultQueue: make(chan RangeResult, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			fn:          fn,
			ctx:         ctx,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue and waits for every worker to finish its last range
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a range
func (wp *WorkerPool) SubmitTask(task RangeTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed range result
func (wp *WorkerPool) GetResult() (RangeResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// run is the main worker loop. Cancellation is only observed between ranges.
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := w.ctx.Err(); err != nil {
			w.resultQueue <- RangeResult{TaskID: task.TaskID, WorkerID: w.ID, Error: err}
			continue
		}

		for i := task.Range.Start; i < task.Range.End; i++ {
			w.fn(i)
		}

		w.resultQueue <- RangeResult{
			TaskID:   task.TaskID,
			WorkerID: w.ID,
			Pixels:   task.Range.Len(),
		}
	}
}
