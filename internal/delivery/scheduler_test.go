package delivery

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agrimap/landcover-sampling-poc/internal/dataset"
)

func makeBatches(n int) [][]dataset.Coordinate {
	batches := make([][]dataset.Coordinate, n)
	for i := range batches {
		batches[i] = []dataset.Coordinate{{ID: i}}
	}
	return batches
}

func TestSchedulerRunsAllBatches(t *testing.T) {
	var (
		mu  sync.Mutex
		ran = map[int]bool{}
	)

	s := &Scheduler{Workers: 4}
	results := s.Run(makeBatches(10), func(idx int, batch []dataset.Coordinate) error {
		mu.Lock()
		ran[idx] = true
		mu.Unlock()
		return nil
	})

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for i, result := range results {
		if result.Batch != i {
			t.Errorf("expected result %d in batch order, got batch %d", i, result.Batch)
		}
		if result.Err != nil {
			t.Errorf("unexpected error for batch %d: %v", i, result.Err)
		}
	}
	if len(ran) != 10 {
		t.Errorf("expected all 10 batches to run, got %d", len(ran))
	}
}

func TestSchedulerIsolatesFailures(t *testing.T) {
	failure := errors.New("sampling failed")

	s := &Scheduler{Workers: 2}
	results := s.Run(makeBatches(5), func(idx int, batch []dataset.Coordinate) error {
		switch idx {
		case 1:
			return failure
		case 3:
			panic("task blew up")
		}
		return nil
	})

	for _, result := range results {
		switch result.Batch {
		case 1:
			if !errors.Is(result.Err, failure) {
				t.Errorf("expected batch 1 to carry its own error, got %v", result.Err)
			}
		case 3:
			if result.Err == nil {
				t.Error("expected batch 3 panic to surface as an error")
			}
		default:
			if result.Err != nil {
				t.Errorf("sibling batch %d affected by failures: %v", result.Batch, result.Err)
			}
		}
	}
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	const workers = 3
	var current, peak int64

	s := &Scheduler{Workers: workers}
	s.Run(makeBatches(12), func(idx int, batch []dataset.Coordinate) error {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return nil
	})

	if got := atomic.LoadInt64(&peak); got > workers {
		t.Errorf("expected at most %d concurrent tasks, observed %d", workers, got)
	}
}
