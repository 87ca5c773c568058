// Package delivery orchestrates a full extraction run: composite build phase,
// batching, and the concurrent sampling/export phase.
package delivery

import (
	"fmt"
	"sync"

	"github.com/agrimap/landcover-sampling-poc/internal/dataset"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
)

// TaskResult is the typed outcome of one batch task.
type TaskResult struct {
	Batch int
	Err   error
}

// Scheduler runs one task per batch under a bounded worker pool. Every task
// runs to completion and yields a TaskResult; a failing or panicking task
// never affects its siblings, and nothing is retried.
type Scheduler struct {
	Workers int
}

// Run dispatches the task over all batches and blocks until every task has
// finished. Results are returned in batch order.
func (s *Scheduler) Run(batches [][]dataset.Coordinate, task func(batchIdx int, batch []dataset.Coordinate) error) []TaskResult {
	var (
		mu          sync.Mutex
		results     = make([]TaskResult, len(batches))
		progressBar = progressbar.Default(int64(len(batches)), "Processing batches")
	)

	wp := workerpool.New(s.Workers)
	for idx, batch := range batches {
		idx, batch := idx, batch
		wp.Submit(func() {
			err := runTask(task, idx, batch)
			mu.Lock()
			results[idx] = TaskResult{Batch: idx, Err: err}
			progressBar.Add(1)
			mu.Unlock()
		})
	}
	wp.StopWait()
	progressBar.Finish()

	return results
}

// runTask converts a panic inside a batch task into that task's error so the
// pool and the remaining batches keep running.
func runTask(task func(int, []dataset.Coordinate) error, idx int, batch []dataset.Coordinate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch %d task panicked: %v", idx, r)
		}
	}()
	return task(idx, batch)
}
