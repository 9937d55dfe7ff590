// Package eval - batch evaluation with a bounded worker pool.
// Devices are independent, so requests run in parallel.
package eval

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"photonic-sparam/core/output"
)

// BatchItem pairs one request with its outcome
type BatchItem struct {
	// Request is the evaluated request
	Request *Request

	// Result is the evaluation result, nil on failure
	Result *output.Result

	// Err is the evaluation error, nil on success
	Err error

	// Took is the wall time of this evaluation
	Took time.Duration
}

// BatchStats summarizes one batch evaluation
type BatchStats struct {
	Total      int
	Completed  int
	Failed     int
	MaxWorkers int
	Duration   time.Duration
}

// EvaluateAll evaluates requests concurrently with a bounded worker
// pool. Items come back in request order. Failures are recorded per
// item rather than aborting the batch; a cancelled context marks the
// remaining items with the context error.
func (e *Engine) EvaluateAll(ctx context.Context, reqs []*Request, workers int) ([]BatchItem, BatchStats) {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	start := time.Now()
	items := make([]BatchItem, len(reqs))

	work := make(chan int, len(reqs))
	for i := range reqs {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				select {
				case <-ctx.Done():
					items[i] = BatchItem{Request: reqs[i], Err: ctx.Err()}
					continue
				default:
				}

				itemStart := time.Now()
				result, err := e.Evaluate(ctx, reqs[i])
				items[i] = BatchItem{
					Request: reqs[i],
					Result:  result,
					Err:     err,
					Took:    time.Since(itemStart),
				}
			}
		}()
	}
	wg.Wait()

	stats := BatchStats{
		Total:      len(reqs),
		MaxWorkers: workers,
		Duration:   time.Since(start),
	}
	for i := range items {
		if items[i].Err != nil {
			stats.Failed++
		} else {
			stats.Completed++
		}
	}

	e.log.Info("evaluated batch",
		zap.Int("total", stats.Total),
		zap.Int("failed", stats.Failed),
		zap.Int("workers", stats.MaxWorkers),
		zap.Duration("took", stats.Duration))

	return items, stats
}
