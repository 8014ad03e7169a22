// Package batch runs the extraction pipeline over many documents with a
// bounded worker pool. Each document is an independent pipeline run; workers
// share nothing but the job queue.
package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pricerhq/takeoff/internal/document"
)

// Runner processes one document. *pipeline.Pipeline satisfies this.
type Runner interface {
	Run(ctx context.Context, doc document.Document) (*document.ExtractionResult, error)
}

// Job is one document queued for extraction.
type Job struct {
	Index int
	Name  string
	Doc   document.Document
}

// Result pairs a job with its outcome. Index matches the input job.
type Result struct {
	Index  int
	Name   string
	Result *document.ExtractionResult
	Err    error
}

// PoolConfig configures a new pool.
type PoolConfig struct {
	Workers int // Default 4
	Runner  Runner
	Logger  *slog.Logger
}

// Pool processes documents concurrently.
type Pool struct {
	workers int
	runner  Runner
	logger  *slog.Logger
}

// NewPool creates a worker pool.
func NewPool(cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		workers: workers,
		runner:  cfg.Runner,
		logger:  logger.With("component", "batch"),
	}
}

// Process runs every job and returns one result per job, in input order,
// with each job's Index carried through. A cancelled context stops
// dispatching; already-running jobs finish and undispatched jobs report the
// context error.
func (p *Pool) Process(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	queue := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				job := jobs[i]
				res, err := p.runner.Run(ctx, job.Doc)
				if err != nil {
					p.logger.Error("document failed", "name", job.Name, "error", err)
				}
				results[i] = Result{
					Index:  job.Index,
					Name:   job.Name,
					Result: res,
					Err:    err,
				}
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			results[i] = Result{Index: jobs[i].Index, Name: jobs[i].Name, Err: ctx.Err()}
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()

	return results
}
