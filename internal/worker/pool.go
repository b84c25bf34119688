// Package worker runs batches of independent backend operations with a
// bounded number in flight. Items carry no ordering between each other; the
// results come back in input order.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Result statuses.
const (
	StatusDone    = "done"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Op performs one operation on a task id and returns a short detail line.
type Op func(ctx context.Context, id string) (string, error)

// Result holds the outcome of a single item.
type Result struct {
	ID       string
	Status   string // done, failed, skipped
	Detail   string
	Duration time.Duration
	Err      error
}

// Pool bounds how many operations run at once.
type Pool struct {
	maxWorkers int
	log        *slog.Logger
}

// NewPool creates a pool. maxWorkers below one runs items sequentially.
func NewPool(maxWorkers int, log *slog.Logger) *Pool {
	return &Pool{maxWorkers: maxWorkers, log: log}
}

// Run applies op to every id and returns one result per id.
func (p *Pool) Run(ctx context.Context, ids []string, op Op) []Result {
	if p.maxWorkers <= 1 || len(ids) <= 1 {
		return p.runSequential(ctx, ids, op)
	}
	return p.runParallel(ctx, ids, op)
}

func (p *Pool) runSequential(ctx context.Context, ids []string, op Op) []Result {
	results := make([]Result, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if r, skip := precheck(ctx, id, seen); skip {
			results[i] = r
			continue
		}
		results[i] = p.execute(ctx, id, op)
	}
	return results
}

func (p *Pool) runParallel(ctx context.Context, ids []string, op Op) []Result {
	sem := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	results := make([]Result, len(ids))
	seen := make(map[string]bool, len(ids))

	for i, id := range ids {
		if r, skip := precheck(ctx, id, seen); skip {
			results[i] = r
			continue
		}

		wg.Add(1)
		sem <- struct{}{} // Acquire worker slot.

		go func(idx int, id string) {
			defer wg.Done()
			defer func() { <-sem }() // Release worker slot.
			results[idx] = p.execute(ctx, id, op)
		}(i, id)
	}

	wg.Wait()
	return results
}

// precheck skips blank and repeated ids, and fails everything once ctx is done.
func precheck(ctx context.Context, id string, seen map[string]bool) (Result, bool) {
	if id == "" {
		return Result{ID: id, Status: StatusSkipped, Detail: "empty id"}, true
	}
	if seen[id] {
		return Result{ID: id, Status: StatusSkipped, Detail: "duplicate"}, true
	}
	seen[id] = true
	if err := ctx.Err(); err != nil {
		return Result{ID: id, Status: StatusFailed, Err: err}, true
	}
	return Result{}, false
}

func (p *Pool) execute(ctx context.Context, id string, op Op) Result {
	start := time.Now()
	detail, err := op(ctx, id)
	r := Result{ID: id, Status: StatusDone, Detail: detail, Duration: time.Since(start)}
	if err != nil {
		r.Status = StatusFailed
		r.Err = err
		p.log.Debug("batch item failed", "id", id, "err", err)
	}
	return r
}

// Failed counts results with StatusFailed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}
