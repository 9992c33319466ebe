// Package batch runs several independent transaction tables through
// isolated engine instances concurrently. Concurrency here is strictly
// across unrelated tables; each individual analysis remains the
// single-threaded, cooperative call the engine requires. Bounded by a
// semaphore channel plus a WaitGroup, with an index-addressed result
// slice so output order matches input order regardless of completion
// order.
package batch

import (
	"context"
	"sync"

	"github.com/ringwatch/ringwatch/internal/domain"
	"github.com/ringwatch/ringwatch/internal/engine"
)

// Job is one independent unit of work: a transaction table and the
// detector configuration to analyze it with.
type Job struct {
	Table domain.TransactionTable
	Cfg   domain.DetectorConfig
}

// Runner runs Jobs with a bounded number of concurrent analyses.
type Runner struct {
	maxConcurrency int
}

// NewRunner builds a Runner capped at maxConcurrency simultaneous
// analyses. A non-positive value is treated as 1.
func NewRunner(maxConcurrency int) *Runner {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Runner{maxConcurrency: maxConcurrency}
}

// Run analyzes every job and returns reports and errors in the same
// order as jobs, regardless of completion order or MaxConcurrency.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]*domain.Report, []error) {
	results := make([]*domain.Report, len(jobs))
	errs := make([]error, len(jobs))

	sem := make(chan struct{}, r.maxConcurrency)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			e := engine.New(job.Cfg)
			report, err := e.Analyze(ctx, job.Table)
			results[i] = report
			errs[i] = err
		}(i, job)
	}

	wg.Wait()
	return results, errs
}
