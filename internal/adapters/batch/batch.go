// Package batch classifies many files with a fixed pool of workers.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/cvrole/internal/domain/model"
	"github.com/okian/cvrole/pkg/logger"
)

// Classifier runs the pipeline for one document.
type Classifier interface {
	Classify(ctx context.Context, doc model.Document) (model.Report, error)
}

// Result is the outcome for one input path. Exactly one of Report and Err
// is meaningful.
type Result struct {
	Path   string
	Report model.Report
	Err    error
}

// Pool fans paths out to workers and collects results in input order.
type Pool struct {
	classifier Classifier
	workers    int
	readFile   func(string) ([]byte, error)
	logger     logger.Logger
}

// New creates a pool. The worker count defaults to runtime.NumCPU().
func New(c Classifier, opts ...Option) *Pool {
	p := &Pool{
		classifier: c,
		workers:    runtime.NumCPU(),
		readFile:   os.ReadFile,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type job struct {
	index int
	path  string
}

// Run classifies every path and returns one Result per path, in the same
// order. Paths not started before ctx is canceled carry ctx.Err().
func (p *Pool) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	workers := min(p.workers, len(paths))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := &worker{
			pool:   p,
			logger: p.logger.Named("worker-" + strconv.Itoa(i)),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, jobs, results)
		}()
	}

	start := time.Now()
	next := 0
feed:
	for ; next < len(paths); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{index: next, path: paths[next]}:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(paths); i++ {
		results[i] = Result{Path: paths[i], Err: ctx.Err()}
	}

	p.logger.Debug(ctx, "batch finished",
		logger.Int("files", len(paths)),
		logger.Int("workers", workers),
		logger.Duration("elapsed", time.Since(start)))
	return results
}

// worker classifies jobs until the channel closes. Each job writes only its
// own slot of results.
type worker struct {
	pool   *Pool
	logger logger.Logger
}

func (w *worker) run(ctx context.Context, jobs <-chan job, results []Result) {
	for j := range jobs {
		results[j.index] = w.process(ctx, j)
	}
}

func (w *worker) process(ctx context.Context, j job) Result {
	res := Result{Path: j.path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	data, err := w.pool.readFile(j.path)
	if err != nil {
		w.logger.Debug(ctx, "read failed", logger.String("path", j.path), logger.Error(err))
		res.Err = err
		return res
	}

	res.Report, res.Err = w.pool.classifier.Classify(ctx, model.Document{
		Name: filepath.Base(j.path),
		Data: data,
	})
	return res
}
